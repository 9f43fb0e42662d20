// Package errs holds the error taxonomy shared by every pixel package.
//
// Each sentinel names one failure class. Constructors wrap the sentinel with
// operator context so callers can still match the class with errors.Is.
package errs

import (
	"math"

	"github.com/pkg/errors"
)

var (
	// ErrArgumentKind reports a parameter of the wrong runtime kind.
	ErrArgumentKind = errors.New("pixel: argument kind")

	// ErrArgumentValue reports a parameter outside its accepted domain.
	ErrArgumentValue = errors.New("pixel: argument value")

	// ErrRange reports a coordinate or rectangle outside buffer bounds.
	ErrRange = errors.New("pixel: out of range")

	// ErrCapabilityUnavailable reports a missing optional delegate.
	ErrCapabilityUnavailable = errors.New("pixel: capability unavailable")

	// ErrOperationFailed reports a numeric operation that rejected its input.
	ErrOperationFailed = errors.New("pixel: operation failed")
)

// Kind wraps ErrArgumentKind.
func Kind(op, format string, args ...any) error {
	return errors.Wrapf(ErrArgumentKind, op+": "+format, args...)
}

// Value wraps ErrArgumentValue.
func Value(op, format string, args ...any) error {
	return errors.Wrapf(ErrArgumentValue, op+": "+format, args...)
}

// Range wraps ErrRange.
func Range(op, format string, args ...any) error {
	return errors.Wrapf(ErrRange, op+": "+format, args...)
}

// Unavailable wraps ErrCapabilityUnavailable.
func Unavailable(op, format string, args ...any) error {
	return errors.Wrapf(ErrCapabilityUnavailable, op+": "+format, args...)
}

// Failed wraps ErrOperationFailed, keeping cause in the message.
func Failed(op string, cause error) error {
	if cause == nil {
		return errors.Wrap(ErrOperationFailed, op)
	}
	return errors.Wrapf(ErrOperationFailed, "%s: %v", op, cause)
}

// Number rejects NaN and infinities, the numeric analogue of a parameter
// given as non-numeric text.
func Number(op, name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Kind(op, "%s must be a finite number, got %v", name, v)
	}
	return nil
}

// Numbers applies Number to name/value pairs in order.
func Numbers(op string, pairs ...any) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		name, _ := pairs[i].(string)
		v, ok := pairs[i+1].(float64)
		if !ok {
			return Kind(op, "%s must be a float64", name)
		}
		if err := Number(op, name, v); err != nil {
			return err
		}
	}
	return nil
}
