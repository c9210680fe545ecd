package services

import (
	"errors"
	"strings"

	"github.com/Priyanka03s/travel-sid-sub002/internal/publish"
)

var (
	ErrListingNotFound  = errors.New("listing not found")
	ErrNotOwner         = errors.New("listing does not belong to this host")
	ErrAlreadyPublished = errors.New("listing is already published")
	ErrListingCancelled = errors.New("listing is cancelled")
)

// ValidationError carries every problem found in host input.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid listing: " + strings.Join(e.Problems, "; ")
}

// NotReadyError is returned when a listing fails the publish gate.
type NotReadyError struct {
	Result publish.Result
}

func (e *NotReadyError) Error() string {
	return "listing is not ready to publish: " + strings.Join(e.Result.MissingFields, ", ")
}

func (e *NotReadyError) Unwrap() error {
	return publish.ErrNotReady
}
