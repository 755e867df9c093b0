package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code
type ErrorCode int

// Error categories shared by the repository, service and handler layers.
const (
	ErrValidation ErrorCode = iota + 1000
	ErrConstraint
	ErrNotFound
	ErrAuthorization
	ErrAuthentication
	ErrStorage
)

// AppError represents an application error
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Error constructors
func NewValidation(message string) *AppError {
	return &AppError{
		Code:    ErrValidation,
		Message: message,
	}
}

func NewConstraint(message string, err error) *AppError {
	return &AppError{
		Code:    ErrConstraint,
		Message: message,
		Err:     err,
	}
}

func NewNotFound(resource string) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
	}
}

func NewAuthorization(message string) *AppError {
	return &AppError{
		Code:    ErrAuthorization,
		Message: message,
	}
}

func NewAuthentication(message string) *AppError {
	return &AppError{
		Code:    ErrAuthentication,
		Message: message,
	}
}

func NewStorage(err error) *AppError {
	return &AppError{
		Code:    ErrStorage,
		Message: "storage failure",
		Err:     err,
	}
}

// CodeOf returns the error code of err, or ErrStorage when err is not an AppError.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrStorage
}

func IsValidation(err error) bool     { return CodeOf(err) == ErrValidation }
func IsConstraint(err error) bool     { return CodeOf(err) == ErrConstraint }
func IsNotFound(err error) bool       { return CodeOf(err) == ErrNotFound }
func IsAuthorization(err error) bool  { return CodeOf(err) == ErrAuthorization }
func IsAuthentication(err error) bool { return CodeOf(err) == ErrAuthentication }
