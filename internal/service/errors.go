package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrNotFound       = errors.New("not found")
	ErrForbidden      = errors.New("forbidden")
	ErrAuthRequired   = errors.New("authentication required")
	ErrInternalError  = errors.New("internal error")
)

// ValidationError carries per-field messages extracted from validator
// output so handlers can re-render forms. errors.Is matches it against
// ErrInvalidRequest.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrInvalidRequest.Error()
	}
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s %s", field, msg))
	}
	sort.Strings(parts)
	return fmt.Sprintf("%s: %s", ErrInvalidRequest, strings.Join(parts, "; "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidRequest
}

func newValidationError(err error) error {
	fields := make(map[string]string)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			fields[fe.Field()] = fieldMessage(fe)
		}
	}
	return &ValidationError{Fields: fields}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "eqfield":
		return "does not match"
	default:
		return "is invalid"
	}
}
