package pricing

import (
	"errors"
	"fmt"
	"math"
)

// ErrNegativeInput is returned when a price input is below zero.
var ErrNegativeInput = errors.New("negative pricing input")

// BufferAmount is the markup applied on top of the subtotal.
func BufferAmount(subtotal, bufferPercentage float64) float64 {
	return subtotal * (bufferPercentage / 100)
}

// ComputeTotal returns subtotal + buffer + flat host fee, the computed
// per-participant price. Negative inputs are rejected.
func ComputeTotal(subtotal, bufferPercentage, yourFee float64) (float64, error) {
	switch {
	case subtotal < 0:
		return 0, fmt.Errorf("%w: subtotal %.2f", ErrNegativeInput, subtotal)
	case bufferPercentage < 0:
		return 0, fmt.Errorf("%w: buffer percentage %.2f", ErrNegativeInput, bufferPercentage)
	case yourFee < 0:
		return 0, fmt.Errorf("%w: fee %.2f", ErrNegativeInput, yourFee)
	}
	return computeTotal(subtotal, bufferPercentage, yourFee), nil
}

func computeTotal(subtotal, bufferPercentage, yourFee float64) float64 {
	return subtotal + BufferAmount(subtotal, bufferPercentage) + yourFee
}

// RoundCents rounds an amount to two decimals.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
