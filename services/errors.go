package services

import (
	"errors"
	"fmt"
)

// Routine, expected outcomes of the booking and discovery flows. Controllers
// map these to structured 4xx responses; anything else is a 500.
var (
	// ErrListingNotAvailable is the uniform answer for "missing" and "found
	// but not active" alike. The distinction is logged for diagnostics but
	// not leaked to the caller.
	ErrListingNotAvailable = errors.New("food listing not available or expired")

	ErrListingNotFound = errors.New("food listing not found or no servings remaining")

	ErrNotOwner = errors.New("listing does not belong to this provider")

	ErrBookingNotFound = errors.New("booking not found")
)

// CapacityError reports a claim for more portions than remain. Remaining is
// the live count so the caller can retry with a smaller request.
type CapacityError struct {
	Remaining int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("Only %d portions remaining", e.Remaining)
}

// ValidationError flags malformed input caught before any store access.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationErrorf(format string, args ...any) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}
