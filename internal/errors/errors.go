// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrMissingColumn      = errors.New("missing required column")
	ErrEmptySeries        = errors.New("empty series")
	ErrUnsortedSeries     = errors.New("series dates not strictly increasing")
	ErrInvalidPrice       = errors.New("invalid price")
	ErrInsufficientSample = errors.New("insufficient sample for correlation")
	ErrZeroVariance       = errors.New("zero variance series")
	ErrLengthMismatch     = errors.New("series length mismatch")
	ErrConfigInvalid      = errors.New("invalid configuration")
	ErrDataNotFound       = errors.New("data not found")
	ErrDatabaseError      = errors.New("database error")
)

// ValidationError represents a structural validation error on input data.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s (%v): %s", e.Field, e.Value, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// NewValidationErrorWrap creates a ValidationError that unwraps to a sentinel.
func NewValidationErrorWrap(field string, value interface{}, message string, err error) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
		Err:     err,
	}
}

// DataError represents a data-related error.
type DataError struct {
	DataType string
	Source   string
	Message  string
	Err      error
}

func (e *DataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("data error [%s] %s: %s: %v", e.DataType, e.Source, e.Message, e.Err)
	}
	return fmt.Sprintf("data error [%s] %s: %s", e.DataType, e.Source, e.Message)
}

func (e *DataError) Unwrap() error {
	return e.Err
}

// NewDataError creates a new DataError.
func NewDataError(dataType, source, message string, err error) *DataError {
	return &DataError{
		DataType: dataType,
		Source:   source,
		Message:  message,
		Err:      err,
	}
}

// StatisticalError represents a statistic that is undefined for its input,
// such as a correlation over too few points or a constant series.
type StatisticalError struct {
	Metric     string
	SampleSize int
	Err        error
}

func (e *StatisticalError) Error() string {
	return fmt.Sprintf("statistical error [%s] n=%d: %v", e.Metric, e.SampleSize, e.Err)
}

func (e *StatisticalError) Unwrap() error {
	return e.Err
}

// NewStatisticalError creates a new StatisticalError.
func NewStatisticalError(metric string, sampleSize int, err error) *StatisticalError {
	return &StatisticalError{
		Metric:     metric,
		SampleSize: sampleSize,
		Err:        err,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
