package models

import (
	"fmt"
)

// ValidationError represents a parameter validation error
type ValidationError struct {
	Parameter string
	Value     interface{}
	Message   string
}

// NewValidationError creates a new validation error
func NewValidationError(parameter string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Parameter: parameter,
		Value:     value,
		Message:   message,
	}
}

// Error returns the error message
func (ve *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for parameter '%s' with value '%v': %s",
		ve.Parameter, ve.Value, ve.Message)
}

// UnsupportedOperationError is returned when a family/technique pair has no registered filter.
type UnsupportedOperationError struct {
	Family    Family
	Technique Technique
}

func NewUnsupportedOperationError(family Family, technique Technique) *UnsupportedOperationError {
	return &UnsupportedOperationError{Family: family, Technique: technique}
}

func (ue *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("unsupported operation: no filter registered for %s/%s", ue.Family, ue.Technique)
}

// DecodeError wraps failures to turn an uploaded file or raw buffer into an Image.
type DecodeError struct {
	Source string
	Err    error
}

func NewDecodeError(source string, err error) *DecodeError {
	return &DecodeError{Source: source, Err: err}
}

func (de *DecodeError) Error() string {
	if de.Source == "" {
		return fmt.Sprintf("decode failed: %v", de.Err)
	}
	return fmt.Sprintf("decode failed for %s: %v", de.Source, de.Err)
}

func (de *DecodeError) Unwrap() error {
	return de.Err
}
