package pricing

import (
	"fmt"

	"github.com/Priyanka03s/travel-sid-sub002/internal/models"
)

// ValidateListingInput checks wizard input before it is stored.
// Negative amounts and out-of-range percentages are rejected here rather
// than clamped, so stored listings never carry them. The payment schedule
// and tier-day bounds are checked at entry too, giving the host immediate
// feedback; the publish gate repeats both checks.
func ValidateListingInput(l *models.Listing) []string {
	var problems []string
	neg := func(field string, v float64) {
		if v < 0 {
			problems = append(problems, fmt.Sprintf("%s must not be negative", field))
		}
	}
	pct := func(field string, v float64) {
		if v < 0 || v > 100 {
			problems = append(problems, fmt.Sprintf("%s must be between 0 and 100", field))
		}
	}

	p := l.Pricing
	if p.Accommodation != nil {
		neg("pricing.accommodation", *p.Accommodation)
	}
	if p.Transportation != nil {
		neg("pricing.transportation", *p.Transportation)
	}
	if p.Activities != nil {
		neg("pricing.activities", *p.Activities)
	}
	neg("pricing.bufferPercentage", p.BufferPercentage)
	neg("pricing.yourFee", p.YourFee)
	for i, item := range p.AccommodationItems {
		neg(fmt.Sprintf("pricing.accommodationItems[%d].cost", i), item.Cost)
	}
	for i, item := range p.TransportationItems {
		neg(fmt.Sprintf("pricing.transportationItems[%d].cost", i), item.Cost)
	}
	for i, item := range p.ActivityItems {
		neg(fmt.Sprintf("pricing.activityItems[%d].cost", i), item.Cost)
	}

	if l.Accommodation != nil {
		for _, name := range models.TierNames {
			t, _ := l.Accommodation.Tier(name)
			neg(fmt.Sprintf("accommodation.%s.tierPrice", name), t.TierPrice)
			for i, d := range t.TierDays {
				neg(fmt.Sprintf("accommodation.%s.tierDays[%d].price", name, i), d.Price)
			}
		}
		for _, msg := range ValidateTierDays(l.Accommodation, l.ItineraryDates()) {
			problems = append(problems, "accommodation."+msg)
		}
	}

	neg("basePrice", l.BasePrice)
	pct("earlyBooking.earlyBookingDiscount", l.EarlyBooking.EarlyBookingDiscount)
	if l.EarlyBooking.EarlyBookingLimit < 0 {
		problems = append(problems, "earlyBooking.earlyBookingLimit must not be negative")
	}
	if l.MinParticipants < 0 {
		problems = append(problems, "minParticipants must not be negative")
	}
	if l.MaxParticipants < 0 {
		problems = append(problems, "maxParticipants must not be negative")
	}

	for _, msg := range ValidateSchedule(ScheduleFor(l)).Problems {
		problems = append(problems, "payment: "+msg)
	}
	return problems
}
