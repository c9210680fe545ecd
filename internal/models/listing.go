package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ListingKind distinguishes the three listing shapes hosts can create.
type ListingKind string

const (
	KindTrip            ListingKind = "trip"
	KindEvent           ListingKind = "event"
	KindAdventureSchool ListingKind = "adventure_school"
)

// Valid reports whether k is one of the known listing kinds.
func (k ListingKind) Valid() bool {
	switch k {
	case KindTrip, KindEvent, KindAdventureSchool:
		return true
	}
	return false
}

// ListingStatus is the lifecycle state of a listing.
type ListingStatus string

const (
	StatusDraft     ListingStatus = "draft"
	StatusPublished ListingStatus = "published"
	StatusCancelled ListingStatus = "cancelled"
)

// PaymentType selects how travelers pay for a booking.
type PaymentType string

const (
	PaymentFull    PaymentType = "full"
	PaymentPartial PaymentType = "partial"
	PaymentBoth    PaymentType = "both"
)

// PaymentRequirement is derived from PaymentType: 100 for full payment,
// the initial payment percentage otherwise.
type PaymentRequirement struct {
	Type       PaymentType `bson:"type" json:"type"`
	Percentage float64     `bson:"percentage" json:"percentage"`
}

// Installment is an additional scheduled payment following the initial one.
type Installment struct {
	Date        *time.Time `bson:"date,omitempty" json:"date,omitempty"`
	Percentage  float64    `bson:"percentage" json:"percentage"`
	Description string     `bson:"description" json:"description"`
}

// EarlyBooking configures a time-bounded early-bird discount.
type EarlyBooking struct {
	AllowEarlyBooking    bool       `bson:"allow_early_booking" json:"allowEarlyBooking"`
	EarlyBookingDiscount float64    `bson:"early_booking_discount" json:"earlyBookingDiscount"` // percent
	EarlyBookingEndDate  *time.Time `bson:"early_booking_end_date,omitempty" json:"earlyBookingEndDate,omitempty"`
	EarlyBookingLimit    int        `bson:"early_booking_limit" json:"earlyBookingLimit"`
}

// ItineraryDay is one dated entry of a trip itinerary.
type ItineraryDay struct {
	Date        *time.Time `bson:"date,omitempty" json:"date,omitempty"`
	Title       string     `bson:"title" json:"title"`
	Description string     `bson:"description" json:"description"`
	Activities  []string   `bson:"activities" json:"activities"`
}

// Logistics holds practical trip information shown to travelers.
type Logistics struct {
	MeetingPoint string   `bson:"meeting_point" json:"meetingPoint"`
	Included     []string `bson:"included" json:"included"`
	Excluded     []string `bson:"excluded" json:"excluded"`
	WhatToBring  []string `bson:"what_to_bring" json:"whatToBring"`
}

// CustomField is a host-defined free-form field. Values are opaque.
type CustomField struct {
	Name     string      `bson:"name" json:"name"`
	Type     string      `bson:"type" json:"type"`
	Required bool        `bson:"required" json:"required"`
	Value    interface{} `bson:"value,omitempty" json:"value,omitempty"`
}

// PriceQuote is the price breakdown computed for a listing. A snapshot is
// stored on the listing when it is published.
type PriceQuote struct {
	AccommodationSum    float64   `bson:"accommodation_sum" json:"accommodationSum"`
	TransportationSum   float64   `bson:"transportation_sum" json:"transportationSum"`
	ActivitiesSum       float64   `bson:"activities_sum" json:"activitiesSum"`
	Subtotal            float64   `bson:"subtotal" json:"subtotal"`
	BufferAmount        float64   `bson:"buffer_amount" json:"bufferAmount"`
	ComputedTotal       float64   `bson:"computed_total" json:"computedTotal"`
	BasePrice           float64   `bson:"base_price" json:"basePrice"`
	BasePriceOverride   bool      `bson:"base_price_override" json:"basePriceOverride"`
	EarlyBirdApplicable bool      `bson:"early_bird_applicable" json:"earlyBirdApplicable"`
	DiscountPercentage  float64   `bson:"discount_percentage" json:"discountPercentage"`
	FinalPrice          float64   `bson:"final_price" json:"finalPrice"`
	TierMode            string    `bson:"tier_mode" json:"tierMode"`
	QuotedAt            time.Time `bson:"quoted_at" json:"quotedAt"`
	Notes               []string  `bson:"notes,omitempty" json:"notes,omitempty"`
}

// Listing is a trip, event or adventure-school record owned by one host.
type Listing struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Kind        ListingKind        `bson:"kind" json:"kind"`
	HostID      string             `bson:"host_id" json:"hostId"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Category    string             `bson:"category" json:"category"`
	Destination string             `bson:"destination" json:"destination"` // trips
	Location    string             `bson:"location" json:"location"`       // events, adventure schools
	StartDate   *time.Time         `bson:"start_date,omitempty" json:"startDate,omitempty"`
	EndDate     *time.Time         `bson:"end_date,omitempty" json:"endDate,omitempty"`
	Itinerary   []ItineraryDay     `bson:"itinerary" json:"itinerary"`

	Accommodation *AccommodationTiers `bson:"accommodation,omitempty" json:"accommodation,omitempty"`
	Pricing       Pricing             `bson:"pricing" json:"pricing"`
	BasePrice     float64             `bson:"base_price" json:"basePrice"`
	EarlyBooking  EarlyBooking        `bson:"early_booking" json:"earlyBooking"`

	PaymentType              PaymentType         `bson:"payment_type" json:"paymentType"`
	InitialPaymentPercentage float64             `bson:"initial_payment_percentage" json:"initialPaymentPercentage"`
	PaymentRequirement       *PaymentRequirement `bson:"payment_requirement,omitempty" json:"paymentRequirement,omitempty"`
	FullPaymentDeadline      *time.Time          `bson:"full_payment_deadline,omitempty" json:"fullPaymentDeadline,omitempty"`
	PartialPaymentDeadline   *time.Time          `bson:"partial_payment_deadline,omitempty" json:"partialPaymentDeadline,omitempty"`
	BookingDeadline          *time.Time          `bson:"booking_deadline,omitempty" json:"bookingDeadline,omitempty"`
	AdditionalPayments       []Installment       `bson:"additional_payments" json:"additionalPayments"`

	MinParticipants  int           `bson:"min_participants" json:"minParticipants"` // 0 means unset
	MaxParticipants  int           `bson:"max_participants" json:"maxParticipants"`
	Logistics        Logistics     `bson:"logistics" json:"logistics"`
	AdditionalFields []CustomField `bson:"additional_fields" json:"additionalFields"`
	Images           []string      `bson:"images" json:"images"` // S3 keys

	Status        ListingStatus `bson:"status" json:"status"`
	PublishedDate *time.Time    `bson:"published_date,omitempty" json:"publishedDate,omitempty"`
	CancelledAt   *time.Time    `bson:"cancelled_at,omitempty" json:"cancelledAt,omitempty"`
	CreatedAt     time.Time     `bson:"created_at" json:"createdAt"`
	UpdatedAt     time.Time     `bson:"updated_at" json:"updatedAt"`
	Quote         *PriceQuote   `bson:"quote,omitempty" json:"quote,omitempty"`
}

// ItineraryDates returns the number of itinerary entries.
func (l *Listing) ItineraryDates() int {
	return len(l.Itinerary)
}
