package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks bad or missing caller input.
	ErrValidation = errors.New("validation error")

	// ErrNoDataForDate is returned when a forecast has no samples on the
	// requested date. It is distinct from a provider failure.
	ErrNoDataForDate = errors.New("no forecast data for date")

	// ErrProviderUnavailable marks a forecast provider that could not be
	// reached or is not configured.
	ErrProviderUnavailable = errors.New("forecast provider unavailable")

	// ErrProviderTimeout marks a provider call that exceeded its deadline.
	ErrProviderTimeout = errors.New("provider request timed out")

	// ErrNoWindData is returned when a wind series has no usable values.
	ErrNoWindData = errors.New("no wind speed data available for the specified location and date range")
)

// ProviderRejectedError is returned when the forecast provider answers with a
// non-success status.
type ProviderRejectedError struct {
	Status int
	Body   string
}

func (e *ProviderRejectedError) Error() string {
	return fmt.Sprintf("forecast provider rejected request: status %d: %s", e.Status, e.Body)
}

// IsProviderFailure reports whether err came from the forecast provider layer.
func IsProviderFailure(err error) bool {
	var rejected *ProviderRejectedError
	return errors.Is(err, ErrProviderUnavailable) || errors.Is(err, ErrProviderTimeout) || errors.As(err, &rejected)
}
