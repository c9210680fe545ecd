package pricing

import (
	"time"

	"github.com/Priyanka03s/travel-sid-sub002/internal/models"
)

// Discount is the outcome of resolving an early-bird window.
type Discount struct {
	Applicable bool
	Percentage float64
	FinalPrice float64
}

// EarlyBirdActive reports whether the early-bird window is open at now.
// The window closes at EarlyBookingEndDate, exclusive.
func EarlyBirdActive(eb models.EarlyBooking, now time.Time) bool {
	return eb.AllowEarlyBooking &&
		eb.EarlyBookingDiscount > 0 &&
		eb.EarlyBookingEndDate != nil &&
		now.Before(*eb.EarlyBookingEndDate)
}

// ResolveDiscount applies the early-bird discount to price when the window
// is active. Discounts above 100% are capped so the price never goes negative.
func ResolveDiscount(price float64, eb models.EarlyBooking, now time.Time) Discount {
	if !EarlyBirdActive(eb, now) {
		return Discount{FinalPrice: price}
	}
	pct := eb.EarlyBookingDiscount
	if pct > 100 {
		pct = 100
	}
	return Discount{
		Applicable: true,
		Percentage: pct,
		FinalPrice: price * (1 - pct/100),
	}
}

// EffectiveBasePrice picks the per-participant price: the host override when
// positive, otherwise the computed total.
func EffectiveBasePrice(basePrice, computedTotal float64) (price float64, override bool) {
	if basePrice > 0 {
		return basePrice, true
	}
	return computedTotal, false
}
