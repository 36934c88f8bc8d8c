package service

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound        = errors.New("swift code not found")
	ErrCountryNotFound = errors.New("no swift codes found for country")
	ErrInvalidInput    = errors.New("invalid input provided")
	ErrAlreadyExists   = errors.New("swift code already exists")
	ErrNoData          = errors.New("no swift codes available")
)

// FieldError describes one rejected field of a create request
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError is returned when a create request is malformed
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	return "invalid swift code payload: " + strings.Join(e.FieldNames(), ", ")
}

// FieldNames lists the rejected fields in order, without repeats.
func (e *ValidationError) FieldNames() []string {
	seen := make(map[string]bool, len(e.Fields))
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		if seen[f.Field] {
			continue
		}
		seen[f.Field] = true
		names = append(names, f.Field)
	}
	return names
}

// NewTypeError reports a field whose JSON value has the wrong type.
func NewTypeError(field, expected string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{
		Field:  field,
		Reason: fmt.Sprintf("must be a %s", expected),
	}}}
}
