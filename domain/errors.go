package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrRecommendationNotFound = errors.New("recommendation not found")
	ErrPersistence            = errors.New("recommendation store failure")
	ErrUnsupportedMediaType   = errors.New("unsupported media type")
)

// NotFoundError names the id that was looked up. It matches
// ErrRecommendationNotFound under errors.Is.
type NotFoundError struct {
	ID uint64
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("recommendation with id %d was not found", e.ID)
}

func (e NotFoundError) Is(target error) bool {
	return target == ErrRecommendationNotFound
}

type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every field that failed, in the order the fields are
// declared on the wire.
type ValidationError struct {
	Errors []FieldError
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Errors: []FieldError{{Field: field, Message: message}}}
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "Invalid Recommendation"
	}

	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fe.Field+" "+fe.Message)
	}

	return "Invalid Recommendation: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Fields() map[string]string {
	out := make(map[string]string, len(e.Errors))
	for _, fe := range e.Errors {
		out[fe.Field] = fe.Message
	}

	return out
}

func (e *ValidationError) Add(field, message string) {
	e.Errors = append(e.Errors, FieldError{Field: field, Message: message})
}

func (e *ValidationError) Has(field string) bool {
	for _, fe := range e.Errors {
		if fe.Field == field {
			return true
		}
	}

	return false
}
