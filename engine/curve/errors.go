package curve

import (
	"errors"
	"fmt"
)

// ErrInvalidCurveData is returned when frame or control-point data violates the layout a curve requires.
var ErrInvalidCurveData = errors.New("invalid curve data")

// DataError describes a single layout violation found while validating curve data.
// It unwraps to ErrInvalidCurveData.
type DataError struct {
	// Field names the buffer or parameter at fault ("frames", "curves", "frameStep", ...).
	Field string
	// Frame is the record index the violation was found at, or -1 if it is not tied to a record.
	Frame int
	// Reason is a short human-readable description of the violation.
	Reason string
}

func (e *DataError) Error() string {
	if e.Frame < 0 {
		return fmt.Sprintf("%v: %s: %s", ErrInvalidCurveData, e.Field, e.Reason)
	}
	return fmt.Sprintf("%v: %s: frame %d: %s", ErrInvalidCurveData, e.Field, e.Frame, e.Reason)
}

func (e *DataError) Unwrap() error {
	return ErrInvalidCurveData
}

func dataError(field string, frame int, format string, args ...any) error {
	return &DataError{Field: field, Frame: frame, Reason: fmt.Sprintf(format, args...)}
}
