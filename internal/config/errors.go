package config

import (
	"errors"
	"fmt"
)

// Errors returned by configuration operations.
var (
	// ErrValidationFailed indicates the configuration fails validation.
	ErrValidationFailed = errors.New("validation failed")

	// ErrFileNotFound indicates an explicitly named config file doesn't exist.
	ErrFileNotFound = errors.New("config file not found")
)

// ValidationError describes a validation failure for a setting.
type ValidationError struct {
	// Path is the setting that failed validation, e.g. "sources[1].rank".
	Path string
	// Message describes the validation error.
	Message string
	// Value is the invalid value.
	Value any
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("%s: %s (got %v)", e.Path, e.Message, e.Value)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Unwrap lets errors.Is match ErrValidationFailed.
func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}
