package common

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Application error codes
const (
	CodeValidation      = "VALIDATION_ERROR"
	CodeSchemaViolation = "SCHEMA_VIOLATION"
	CodeNotFound        = "NOT_FOUND"
	CodePersistence     = "PERSISTENCE_ERROR"
	CodeConfig          = "CONFIG_ERROR"
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

// Common application errors
var (
	ErrNotFound        = errors.New("resource not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrValidation      = errors.New("validation failed")
	ErrSchemaViolation = errors.New("schema violation")
	ErrDatabase        = errors.New("database error")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewValidationError reports a well-formed field with an unacceptable value.
func NewValidationError(message string) error {
	return errors.WithStack(NewAppError(CodeValidation, message, ErrValidation))
}

// NewSchemaViolationError reports a field name that is not a writable column.
func NewSchemaViolationError(message string) error {
	return errors.WithStack(NewAppError(CodeSchemaViolation, message, ErrSchemaViolation))
}

func NewNotFoundError(resource string, id any) error {
	return errors.WithStack(NewAppError(CodeNotFound, fmt.Sprintf("%s %v not found", resource, id), ErrNotFound))
}

// NewPersistenceError keeps the driver error for logs while the message stays opaque.
func NewPersistenceError(op string, err error) error {
	if err == nil {
		return nil
	}
	cause := errors.Mark(errors.Wrap(err, op), ErrDatabase)
	return NewAppError(CodePersistence, op+" failed", cause)
}

func IsValidation(err error) bool      { return errors.Is(err, ErrValidation) }
func IsSchemaViolation(err error) bool { return errors.Is(err, ErrSchemaViolation) }
func IsNotFound(err error) bool        { return errors.Is(err, ErrNotFound) }
func IsPersistence(err error) bool     { return errors.Is(err, ErrDatabase) }

// Message returns the client-facing message of an AppError, or the error text otherwise.
func Message(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

// gRPC error helpers
func InvalidArgumentError(message string) error {
	return status.Error(codes.InvalidArgument, message)
}

func NotFoundError(message string) error {
	return status.Error(codes.NotFound, message)
}

func InternalError(message string) error {
	return status.Error(codes.Internal, message)
}
