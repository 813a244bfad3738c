package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Table errors
	ErrEmptyTable    = errors.New("table has no rows")
	ErrUnknownField  = errors.New("field not present in table")
	ErrDuplicateName = errors.New("duplicate field name")

	// Ratio errors
	ErrDivideByZero  = errors.New("division by zero")
	ErrInvalidSample = errors.New("sampled count outside [0, total]")

	// Selection errors
	ErrUnknownMetric = errors.New("metric not offered by the panel")
)

// NewUnknownFieldError reports a field that the table or chain does not know about
func NewUnknownFieldError(field string) error {
	return fmt.Errorf("%w: %s", ErrUnknownField, field)
}

// NewUnknownMetricError reports a metric outside the configured metric list
func NewUnknownMetricError(metric string) error {
	return fmt.Errorf("%w: %s", ErrUnknownMetric, metric)
}

func IsUnknownFieldError(err error) bool {
	return errors.Is(err, ErrUnknownField)
}

// IsFatalDataError reports conditions that make the panel unusable at startup
func IsFatalDataError(err error) bool {
	return errors.Is(err, ErrEmptyTable) ||
		errors.Is(err, ErrDivideByZero) ||
		errors.Is(err, ErrUnknownField)
}
