package model

import (
	"errors"
	"fmt"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrDuplicateSlug   = errors.New("slug already exists")
	ErrNegativeStock   = errors.New("insufficient stock remaining")
	ErrValidation      = errors.New("validation failed")
)

// ValidationError describes the first field that failed a rule.
type ValidationError struct {
	Field string
	Tag   string
	Param string
}

func (e *ValidationError) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("Validation failed: Field '%s' failed on tag '%s' (%s)", e.Field, e.Tag, e.Param)
	}
	return fmt.Sprintf("Validation failed: Field '%s' failed on tag '%s'", e.Field, e.Tag)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError builds a ValidationError for a field/tag pair.
func NewValidationError(field, tag, param string) *ValidationError {
	return &ValidationError{Field: field, Tag: tag, Param: param}
}
