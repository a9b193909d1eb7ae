package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/scry-flashcards/internal/api/shared"
	"github.com/phrazzld/scry-flashcards/internal/domain"
	"github.com/phrazzld/scry-flashcards/internal/service"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	var validationErrs validator.ValidationErrors

	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.As(err, &validationErrs):
		return http.StatusBadRequest

	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden

	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound

	// Default: internal server error, including service.ErrDatabase
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var (
		refErr         *service.GenerationReferenceError
		domainErr      *domain.ValidationError
		validationErrs validator.ValidationErrors
	)

	switch {
	case errors.As(err, &refErr):
		if errors.Is(refErr, service.ErrNotFound) {
			return "Referenced generations not found"
		}
		return "Referenced generations belong to another user"

	case errors.As(err, &validationErrs):
		return SanitizeValidationError(validationErrs)

	case errors.As(err, &domainErr):
		return "Invalid " + domainErr.Field + ": " + domainErr.Message

	case errors.Is(err, domain.ErrValidation):
		return "Validation error"

	case errors.Is(err, service.ErrForbidden):
		return "You do not own this resource"

	case errors.Is(err, service.ErrNotFound):
		return "Resource not found"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError turns validator errors into a message naming the
// first offending field, without Go type names.
func SanitizeValidationError(errs validator.ValidationErrors) string {
	if len(errs) == 0 {
		return "Validation error"
	}

	fe := errs[0]
	field := jsonFieldPath(fe.Namespace())
	return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(fe.Tag(), fe.Param()))
}

// jsonFieldPath drops the request struct name from a validator namespace.
// Field names are already JSON names, see shared.ValidateRequest.
func jsonFieldPath(namespace string) string {
	if _, rest, found := strings.Cut(namespace, "."); found {
		return rest
	}
	return namespace
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag, param string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "must have at least " + param
	case "max":
		return "must be at most " + param + " characters"
	case "oneof":
		return "must be one of " + param
	case "gt", "gte", "lt", "lte":
		return "out of range"
	default:
		return "validation failed"
	}
}

// HandleAPIError maps err to a status code and a safe message and writes
// the error response. A non-empty fallback replaces the generic 500 message.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallback != "" {
		message = fallback
	}

	var opts []shared.ResponseOption
	var refErr *service.GenerationReferenceError
	if errors.As(err, &refErr) {
		opts = append(opts,
			shared.WithGenerationIDs(refErr.MissingIDs, refErr.UnauthorizedIDs),
			shared.WithElevatedLogLevel())
	} else if status == http.StatusForbidden {
		opts = append(opts, shared.WithElevatedLogLevel())
	}

	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}
