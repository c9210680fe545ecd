// Package publish decides whether a draft listing may go live.
package publish

import (
	"errors"
	"strings"
	"time"

	"github.com/Priyanka03s/travel-sid-sub002/internal/models"
	"github.com/Priyanka03s/travel-sid-sub002/internal/pricing"
)

var (
	ErrNotDraft = errors.New("listing is not a draft")
	ErrNotReady = errors.New("listing is not ready to publish")
)

// Result is the publish checklist of a listing. MissingFields holds every
// failing check in a fixed order, so the host sees all of them at once.
type Result struct {
	Ready         bool              `json:"ready"`
	MissingFields []string          `json:"missingFields"`
	Quote         models.PriceQuote `json:"quote"`
	Warnings      []string          `json:"warnings,omitempty"`
}

// CanPublish runs every publish check against l. The price check and the
// stored quote use all accommodation tiers.
func CanPublish(l *models.Listing, now time.Time) Result {
	missing := []string{}
	required := func(name, value string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}

	required("title", l.Title)
	required("description", l.Description)
	if l.Kind == models.KindTrip {
		required("destination", l.Destination)
	} else {
		required("location", l.Location)
	}
	required("category", l.Category)
	if l.StartDate == nil || l.StartDate.IsZero() {
		missing = append(missing, "startDate")
	}

	// Judge the rounded quote, which is what gets stored.
	quote := pricing.Quote(pricing.QuoteInputFor(l), pricing.AllTiers, now)
	if quote.BasePrice <= 0 {
		missing = append(missing, "price")
	}

	if l.MinParticipants > 0 && l.MaxParticipants > 0 && l.MinParticipants > l.MaxParticipants {
		missing = append(missing, "participants: min>max")
	}
	if l.StartDate != nil && l.EndDate != nil && l.EndDate.Before(*l.StartDate) {
		missing = append(missing, "dates: end before start")
	}

	// Full payment needs no schedule; unknown payment types fail here too.
	if res := pricing.ValidateSchedule(pricing.ScheduleFor(l)); !res.Valid {
		missing = append(missing, "payment: "+res.Reason())
	}

	for _, msg := range pricing.ValidateTierDays(l.Accommodation, l.ItineraryDates()) {
		missing = append(missing, "accommodation: "+msg)
	}

	var warnings []string
	warnings = append(warnings, l.Pricing.Normalizations...)
	warnings = append(warnings, quote.Notes...)

	return Result{
		Ready:         len(missing) == 0,
		MissingFields: missing,
		Quote:         quote,
		Warnings:      warnings,
	}
}

// Publish moves a ready draft to published, stamping the publish date, the
// price snapshot and the derived payment requirement. A failed check leaves
// the listing untouched.
func Publish(l *models.Listing, now time.Time) (Result, error) {
	if l.Status != models.StatusDraft {
		return Result{}, ErrNotDraft
	}
	res := CanPublish(l, now)
	if !res.Ready {
		return res, ErrNotReady
	}

	req := pricing.PaymentRequirementFor(l.PaymentType, l.InitialPaymentPercentage)
	quote := res.Quote
	published := now

	l.Status = models.StatusPublished
	l.PublishedDate = &published
	l.Quote = &quote
	l.PaymentRequirement = &req
	l.UpdatedAt = now
	return res, nil
}
