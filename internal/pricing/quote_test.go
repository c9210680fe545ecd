package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Priyanka03s/travel-sid-sub002/internal/models"
)

func TestQuote_ItemizedTrip(t *testing.T) {
	in := QuoteInput{Pricing: models.Pricing{
		Accommodation:      f(0),
		AccommodationItems: []models.CostItem{{Name: "Hostel", Cost: 500}, {Name: "Hut", Cost: 300}},
		Transportation:     f(1000),
		Activities:         f(0),
		BufferPercentage:   10,
		YourFee:            200,
	}}

	q := Quote(in, AllTiers, testNow)
	assert.Equal(t, 800.0, q.AccommodationSum)
	assert.Equal(t, 1800.0, q.Subtotal)
	assert.Equal(t, 180.0, q.BufferAmount)
	assert.Equal(t, 2180.0, q.ComputedTotal)
	assert.Equal(t, 2180.0, q.BasePrice)
	assert.False(t, q.BasePriceOverride)
	assert.Equal(t, 2180.0, q.FinalPrice)
	assert.Equal(t, "all", q.TierMode)
	assert.Equal(t, testNow, q.QuotedAt)
}

func TestQuote_BasePriceOverrideWithEarlyBird(t *testing.T) {
	in := QuoteInput{
		Pricing:      models.Pricing{Transportation: f(1000), YourFee: 200},
		BasePrice:    5000,
		EarlyBooking: earlyBird(20, testNow.Add(72*time.Hour)),
	}

	q := Quote(in, AllTiers, testNow)
	assert.Equal(t, 1200.0, q.ComputedTotal)
	assert.Equal(t, 5000.0, q.BasePrice)
	assert.True(t, q.BasePriceOverride)
	assert.True(t, q.EarlyBirdApplicable)
	assert.Equal(t, 20.0, q.DiscountPercentage)
	assert.Equal(t, 4000.0, q.FinalPrice)

	expired := Quote(in, AllTiers, testNow.Add(96*time.Hour))
	assert.False(t, expired.EarlyBirdApplicable)
	assert.Equal(t, 5000.0, expired.FinalPrice)
}

func TestQuote_SelectedTier(t *testing.T) {
	q := Quote(QuoteInput{Accommodation: sampleTiers()}, SelectedTier(models.TierCamping), testNow)
	assert.Equal(t, 40.0, q.AccommodationSum)
	assert.Equal(t, 40.0, q.FinalPrice)
	assert.Equal(t, "selected:camping", q.TierMode)
}

func TestQuote_NegativeAdjustmentsClamped(t *testing.T) {
	in := QuoteInput{Pricing: models.Pricing{Activities: f(100), BufferPercentage: -10, YourFee: -5}, BasePrice: -1}

	q := Quote(in, AllTiers, testNow)
	assert.Equal(t, 100.0, q.ComputedTotal)
	assert.Equal(t, 100.0, q.FinalPrice)
	assert.ElementsMatch(t, []string{
		"bufferPercentage: negative value counted as 0",
		"yourFee: negative value counted as 0",
		"basePrice: negative value counted as 0",
	}, q.Notes)
}

func TestQuote_RoundsToCents(t *testing.T) {
	in := QuoteInput{Pricing: models.Pricing{Activities: f(33.333), BufferPercentage: 7.5}}
	q := Quote(in, AllTiers, testNow)
	assert.Equal(t, 35.83, q.ComputedTotal)
	assert.Equal(t, 2.5, q.BufferAmount)
}

func TestQuoteInputFor(t *testing.T) {
	l := &models.Listing{
		Pricing:       models.Pricing{YourFee: 10},
		Accommodation: sampleTiers(),
		BasePrice:     99,
		EarlyBooking:  models.EarlyBooking{AllowEarlyBooking: true},
	}
	in := QuoteInputFor(l)
	assert.Equal(t, 10.0, in.Pricing.YourFee)
	assert.Same(t, l.Accommodation, in.Accommodation)
	assert.Equal(t, 99.0, in.BasePrice)
	assert.True(t, in.EarlyBooking.AllowEarlyBooking)
}
