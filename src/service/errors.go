package service

import (
	"errors"
	"fmt"
)

// Input errors are the caller's fault and map to 400 at the API
// boundary; anything else surfaces as a store/server fault.
var (
	ErrInvalidDateTime = errors.New("invalid date/time format, use YYYY-MM-DD for date and HH:MM for time")
	ErrInvalidInterval = errors.New("interval must be one of raw, 1hr, 4hr, 8hr, 12hr, 24hr")
	ErrDeviceRequired  = errors.New("device_name is required")
)

// MissingColumnError reports a required CSV column absent from the
// header, named so the operator can check the export.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("required column %q not found in csv header", e.Column)
}

// IsInputError reports whether err is caller-repairable bad input.
func IsInputError(err error) bool {
	var mce *MissingColumnError
	return errors.Is(err, ErrInvalidDateTime) ||
		errors.Is(err, ErrInvalidInterval) ||
		errors.Is(err, ErrDeviceRequired) ||
		errors.As(err, &mce)
}
