package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/scry-flashcards/internal/domain"
	"github.com/phrazzld/scry-flashcards/internal/store"
)

// Common service errors - sentinel errors used across service implementations.
// Callers check for them with errors.Is(); the API layer maps each one to an
// HTTP status code.
//
// Error handling principles:
// 1. Service methods return sentinel errors for expected error conditions
// 2. Unexpected errors are wrapped in ServiceError
// 3. Validation failures keep domain.ErrValidation in their chain
var (
	// ErrNotFound indicates the requested resource does not exist.
	// API layer should map this to HTTP 404 Not Found.
	ErrNotFound = errors.New("resource not found")

	// ErrForbidden indicates the principal may not act on the resource.
	// API layer should map this to HTTP 403 Forbidden.
	ErrForbidden = errors.New("forbidden")

	// ErrNotOwned indicates a resource is owned by a different user than the one making the request.
	ErrNotOwned = fmt.Errorf("%w: resource is owned by another user", ErrForbidden)

	// ErrDatabase indicates the record store failed or returned an unusable result.
	// API layer should map this to HTTP 500.
	ErrDatabase = errors.New("database error")

	// ErrInternal indicates an unexpected failure inside the service.
	ErrInternal = errors.New("internal error")
)

// ServiceError wraps errors from the service layer with the operation that failed.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "create_batch", "get_flashcard")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// GenerationReferenceError reports batch items pointing at generations that
// are missing or belong to someone else. Kind is ErrNotFound or ErrForbidden.
type GenerationReferenceError struct {
	Kind            error
	MissingIDs      []int64
	UnauthorizedIDs []int64
}

// Error implements the error interface for GenerationReferenceError.
func (e *GenerationReferenceError) Error() string {
	if len(e.MissingIDs) > 0 {
		return fmt.Sprintf("generations not found: %v", e.MissingIDs)
	}
	return fmt.Sprintf("generations not owned by principal: %v", e.UnauthorizedIDs)
}

// Unwrap returns the error kind.
func (e *GenerationReferenceError) Unwrap() error {
	return e.Kind
}

// MapStoreError translates a store failure into a service error kind.
// Not found becomes ErrNotFound, validation failures pass through unchanged
// and everything else is a ServiceError wrapping ErrDatabase.
func MapStoreError(operation string, err error) error {
	switch {
	case err == nil:
		return nil
	case store.IsNotFoundError(err):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, domain.ErrValidation):
		return err
	case errors.Is(err, store.ErrInvalidEntity):
		return NewServiceError(operation, "record rejected by store", fmt.Errorf("%w: %w", ErrDatabase, err))
	default:
		return NewServiceError(operation, "store operation failed", fmt.Errorf("%w: %w", ErrDatabase, err))
	}
}
