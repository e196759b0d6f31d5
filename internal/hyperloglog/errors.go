package hyperloglog

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPrecision is wrapped by every *ConfigurationError.
	ErrInvalidPrecision = errors.New("hyperloglog: invalid precision")

	// ErrInvalidItem is wrapped by every *InvalidItemError.
	ErrInvalidItem = errors.New("hyperloglog: invalid item")

	// ErrInvariantViolation reports an internal state that the register
	// invariants rule out, such as a non-positive harmonic sum.
	ErrInvariantViolation = errors.New("hyperloglog: internal invariant violated")
)

// ConfigurationError is returned by the constructors when the precision is
// outside [MinPrecision, MaxPrecision]. No Estimator is created.
type ConfigurationError struct {
	Precision int
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("hyperloglog: precision %d out of range [%d, %d]", e.Precision, MinPrecision, MaxPrecision)
}

func (e *ConfigurationError) Unwrap() error { return ErrInvalidPrecision }

// InvalidItemError is returned by AddValue for values that are neither a
// string nor a byte slice.
type InvalidItemError struct {
	Value any
}

func (e *InvalidItemError) Error() string {
	return fmt.Sprintf("hyperloglog: cannot add item of type %T, only strings are accepted", e.Value)
}

func (e *InvalidItemError) Unwrap() error { return ErrInvalidItem }
