package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Per-stage sentinels. The pipeline tags adapter failures with these so its
// per-file handling is a plain errors.Is branch.
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrConversion    = errors.New("document conversion failed")
	ErrExtraction    = errors.New("structured extraction failed")
	ErrNormalization = errors.New("record normalization failed")
	ErrStoreWrite    = errors.New("store write failed")
)

// NewAppError builds an AppError wrapping cause.
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WrapError annotates err with a message, preserving the chain.
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
