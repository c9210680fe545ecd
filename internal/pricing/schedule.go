package pricing

import (
	"fmt"
	"strings"
	"time"

	"github.com/Priyanka03s/travel-sid-sub002/internal/models"
)

// percentEpsilon absorbs float noise when percentages are summed.
const percentEpsilon = 1e-9

// Schedule is the payment plan of a listing.
type Schedule struct {
	Type                   models.PaymentType
	InitialPercentage      float64
	Installments           []models.Installment
	FullPaymentDeadline    *time.Time
	PartialPaymentDeadline *time.Time
	BookingDeadline        *time.Time
}

// ScheduleFor extracts the payment plan from a listing.
func ScheduleFor(l *models.Listing) Schedule {
	return Schedule{
		Type:                   l.PaymentType,
		InitialPercentage:      l.InitialPaymentPercentage,
		Installments:           l.AdditionalPayments,
		FullPaymentDeadline:    l.FullPaymentDeadline,
		PartialPaymentDeadline: l.PartialPaymentDeadline,
		BookingDeadline:        l.BookingDeadline,
	}
}

// ScheduleResult lists every problem found in a schedule.
type ScheduleResult struct {
	Valid    bool     `json:"valid"`
	Problems []string `json:"problems,omitempty"`
}

// Reason joins the problems into one message.
func (r ScheduleResult) Reason() string {
	return strings.Join(r.Problems, "; ")
}

// ValidateSchedule checks a payment plan. An empty type is treated as full
// payment, which needs no checks.
//
// A partial plan needs 0 < initial < 100 and initial + installments <= 100.
// Every installment needs a date and a positive percentage; dates must be
// strictly increasing, after the partial-payment deadline and no later than
// the booking deadline.
//
// A "both" plan checks the full-payment deadline against the booking
// deadline, and checks the partial path when any of its fields is set.
func ValidateSchedule(s Schedule) ScheduleResult {
	var problems []string
	switch s.Type {
	case "", models.PaymentFull:
	case models.PaymentPartial:
		problems = partialProblems(s)
	case models.PaymentBoth:
		if s.FullPaymentDeadline != nil && s.BookingDeadline != nil && s.FullPaymentDeadline.After(*s.BookingDeadline) {
			problems = append(problems, "full payment deadline must be on or before the booking deadline")
		}
		if s.InitialPercentage != 0 || len(s.Installments) > 0 || s.PartialPaymentDeadline != nil {
			problems = append(problems, partialProblems(s)...)
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown payment type %q", s.Type))
	}
	return ScheduleResult{Valid: len(problems) == 0, Problems: problems}
}

func partialProblems(s Schedule) []string {
	var problems []string
	if s.InitialPercentage <= 0 || s.InitialPercentage >= 100 {
		problems = append(problems, "initial payment percentage must be between 0 and 100")
	}

	sum := s.InitialPercentage
	for _, inst := range s.Installments {
		sum += inst.Percentage
	}
	if sum > 100+percentEpsilon {
		problems = append(problems, "percentage sum exceeds 100")
	}

	var prev *time.Time
	for i, inst := range s.Installments {
		n := i + 1
		if inst.Percentage <= 0 {
			problems = append(problems, fmt.Sprintf("installment %d: percentage must be greater than 0", n))
		}
		if inst.Date == nil {
			problems = append(problems, fmt.Sprintf("installment %d: date is required", n))
			continue
		}
		if prev != nil && !inst.Date.After(*prev) {
			problems = append(problems, fmt.Sprintf("installment %d: dates must be in chronological order", n))
		}
		if s.PartialPaymentDeadline != nil && !inst.Date.After(*s.PartialPaymentDeadline) {
			problems = append(problems, fmt.Sprintf("installment %d: date must be after the partial payment deadline", n))
		}
		if s.BookingDeadline != nil && inst.Date.After(*s.BookingDeadline) {
			problems = append(problems, fmt.Sprintf("installment %d: date must be on or before the booking deadline", n))
		}
		prev = inst.Date
	}
	return problems
}

// PaymentRequirementFor derives the upfront requirement from the payment type.
// A "both" listing without an initial percentage only offers full payment.
func PaymentRequirementFor(t models.PaymentType, initialPercentage float64) models.PaymentRequirement {
	switch t {
	case models.PaymentPartial:
		return models.PaymentRequirement{Type: t, Percentage: initialPercentage}
	case models.PaymentBoth:
		if initialPercentage <= 0 {
			return models.PaymentRequirement{Type: t, Percentage: 100}
		}
		return models.PaymentRequirement{Type: t, Percentage: initialPercentage}
	default:
		return models.PaymentRequirement{Type: models.PaymentFull, Percentage: 100}
	}
}
