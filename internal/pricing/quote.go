package pricing

import (
	"time"

	"github.com/Priyanka03s/travel-sid-sub002/internal/models"
)

// QuoteInput is the slice of a listing that determines its price.
type QuoteInput struct {
	Pricing       models.Pricing
	Accommodation *models.AccommodationTiers
	BasePrice     float64
	EarlyBooking  models.EarlyBooking
}

// QuoteInputFor extracts the pricing inputs from a listing.
func QuoteInputFor(l *models.Listing) QuoteInput {
	return QuoteInput{
		Pricing:       l.Pricing,
		Accommodation: l.Accommodation,
		BasePrice:     l.BasePrice,
		EarlyBooking:  l.EarlyBooking,
	}
}

// Quote computes the full price breakdown once: category sums, buffer, fee,
// the base-price override and the early-bird discount. Callers display and
// store the same figures, so nothing downstream recomputes them.
func Quote(in QuoteInput, mode TierMode, now time.Time) models.PriceQuote {
	sums := AggregateCosts(in.Pricing, in.Accommodation, mode)
	notes := sums.Notes

	buffer := nonNegative("bufferPercentage", in.Pricing.BufferPercentage, &notes)
	fee := nonNegative("yourFee", in.Pricing.YourFee, &notes)
	basePrice := nonNegative("basePrice", in.BasePrice, &notes)

	subtotal := sums.Subtotal()
	computed := RoundCents(computeTotal(subtotal, buffer, fee))
	effective, override := EffectiveBasePrice(RoundCents(basePrice), computed)
	discount := ResolveDiscount(effective, in.EarlyBooking, now)

	return models.PriceQuote{
		AccommodationSum:    RoundCents(sums.Accommodation),
		TransportationSum:   RoundCents(sums.Transportation),
		ActivitiesSum:       RoundCents(sums.Activities),
		Subtotal:            RoundCents(subtotal),
		BufferAmount:        RoundCents(BufferAmount(subtotal, buffer)),
		ComputedTotal:       computed,
		BasePrice:           effective,
		BasePriceOverride:   override,
		EarlyBirdApplicable: discount.Applicable,
		DiscountPercentage:  discount.Percentage,
		FinalPrice:          RoundCents(discount.FinalPrice),
		TierMode:            mode.String(),
		QuotedAt:            now,
		Notes:               notes,
	}
}

func nonNegative(field string, v float64, notes *[]string) float64 {
	if v < 0 {
		*notes = append(*notes, field+": negative value counted as 0")
		return 0
	}
	return v
}
