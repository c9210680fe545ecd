package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Priyanka03s/travel-sid-sub002/internal/models"
)

func day(n int) *time.Time {
	d := testNow.AddDate(0, 0, n)
	return &d
}

func TestValidateSchedule_Full(t *testing.T) {
	res := ValidateSchedule(Schedule{Type: models.PaymentFull})
	assert.True(t, res.Valid)
	assert.Empty(t, res.Problems)

	assert.True(t, ValidateSchedule(Schedule{}).Valid, "empty type defaults to full")
}

func TestValidateSchedule_PartialValid(t *testing.T) {
	res := ValidateSchedule(Schedule{
		Type:                   models.PaymentPartial,
		InitialPercentage:      40,
		PartialPaymentDeadline: day(5),
		BookingDeadline:        day(60),
		Installments: []models.Installment{
			{Date: day(20), Percentage: 30},
			{Date: day(40), Percentage: 30},
		},
	})
	assert.True(t, res.Valid, res.Reason())
}

func TestValidateSchedule_PercentageSumExceeds100(t *testing.T) {
	res := ValidateSchedule(Schedule{
		Type:              models.PaymentPartial,
		InitialPercentage: 40,
		Installments:      []models.Installment{{Date: day(10), Percentage: 70}},
	})
	assert.False(t, res.Valid)
	assert.Equal(t, []string{"percentage sum exceeds 100"}, res.Problems)
	assert.Equal(t, "percentage sum exceeds 100", res.Reason())
}

func TestValidateSchedule_InitialOutOfRange(t *testing.T) {
	for _, initial := range []float64{0, -5, 100, 120} {
		res := ValidateSchedule(Schedule{Type: models.PaymentPartial, InitialPercentage: initial})
		assert.Contains(t, res.Problems, "initial payment percentage must be between 0 and 100", "initial %.0f", initial)
	}
}

func TestValidateSchedule_InstallmentProblemsAreAllReported(t *testing.T) {
	res := ValidateSchedule(Schedule{
		Type:                   models.PaymentPartial,
		InitialPercentage:      20,
		PartialPaymentDeadline: day(10),
		BookingDeadline:        day(30),
		Installments: []models.Installment{
			{Date: day(15), Percentage: 20},
			{Percentage: 10},
			{Date: day(12), Percentage: 0},
			{Date: day(5), Percentage: 10},
			{Date: day(31), Percentage: 10},
		},
	})
	assert.False(t, res.Valid)
	assert.ElementsMatch(t, []string{
		"installment 2: date is required",
		"installment 3: percentage must be greater than 0",
		"installment 3: dates must be in chronological order",
		"installment 4: dates must be in chronological order",
		"installment 4: date must be after the partial payment deadline",
		"installment 5: date must be on or before the booking deadline",
	}, res.Problems)
}

func TestValidateSchedule_Both(t *testing.T) {
	fullOnly := ValidateSchedule(Schedule{
		Type:                models.PaymentBoth,
		FullPaymentDeadline: day(10),
		BookingDeadline:     day(20),
	})
	assert.True(t, fullOnly.Valid, "partial path is not checked when unpopulated")

	lateFull := ValidateSchedule(Schedule{
		Type:                models.PaymentBoth,
		FullPaymentDeadline: day(25),
		BookingDeadline:     day(20),
	})
	assert.Equal(t, []string{"full payment deadline must be on or before the booking deadline"}, lateFull.Problems)

	badPartial := ValidateSchedule(Schedule{
		Type:              models.PaymentBoth,
		InitialPercentage: 50,
		Installments:      []models.Installment{{Date: day(3), Percentage: 60}},
	})
	assert.Equal(t, []string{"percentage sum exceeds 100"}, badPartial.Problems)
}

func TestValidateSchedule_UnknownType(t *testing.T) {
	res := ValidateSchedule(Schedule{Type: "monthly"})
	assert.Equal(t, []string{`unknown payment type "monthly"`}, res.Problems)
}

// Any schedule the validator accepts keeps the percentages within 100.
func TestValidateSchedule_AcceptedSchedulesStayWithin100(t *testing.T) {
	splits := [][]float64{
		{10, 10, 10}, {50, 50}, {30, 30, 30, 30}, {99.5}, {0.5, 0.5}, {45, 45, 10.000001},
	}
	for _, initial := range []float64{1, 10, 33.3, 50, 99} {
		for _, split := range splits {
			s := Schedule{Type: models.PaymentPartial, InitialPercentage: initial}
			sum := initial
			for i, pct := range split {
				s.Installments = append(s.Installments, models.Installment{Date: day(i + 1), Percentage: pct})
				sum += pct
			}
			res := ValidateSchedule(s)
			if res.Valid {
				assert.LessOrEqual(t, sum, 100+percentEpsilon)
			} else if sum > 100+percentEpsilon {
				assert.Contains(t, res.Problems, "percentage sum exceeds 100")
			}
		}
	}
}

func TestPaymentRequirementFor(t *testing.T) {
	assert.Equal(t, models.PaymentRequirement{Type: models.PaymentFull, Percentage: 100}, PaymentRequirementFor(models.PaymentFull, 30))
	assert.Equal(t, models.PaymentRequirement{Type: models.PaymentFull, Percentage: 100}, PaymentRequirementFor("", 0))
	assert.Equal(t, models.PaymentRequirement{Type: models.PaymentPartial, Percentage: 30}, PaymentRequirementFor(models.PaymentPartial, 30))
	assert.Equal(t, models.PaymentRequirement{Type: models.PaymentBoth, Percentage: 25}, PaymentRequirementFor(models.PaymentBoth, 25))
	assert.Equal(t, models.PaymentRequirement{Type: models.PaymentBoth, Percentage: 100}, PaymentRequirementFor(models.PaymentBoth, 0))
}
