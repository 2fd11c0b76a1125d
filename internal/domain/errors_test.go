package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidationError_UnwrapsToSentinel(t *testing.T) {
	err := NewValidationError("direction", "must be -1 or +1")
	if !errors.Is(err, ErrValidation) {
		t.Error("ValidationError must unwrap to ErrValidation")
	}
	if got := err.Error(); got != "validation: direction: must be -1 or +1" {
		t.Errorf("Error() = %q", got)
	}
}

func TestValidationError_MultipleFields(t *testing.T) {
	err := &ValidationError{Errors: []FieldError{
		{Field: "a", Message: "x"},
		{Field: "b", Message: "y"},
	}}
	if got := err.Error(); got != "validation: 2 errors" {
		t.Errorf("Error() = %q", got)
	}
}

func TestSentinels_SurviveWrapping(t *testing.T) {
	wrapped := fmt.Errorf("record %s: %w", "abc", ErrNotFound)
	if !errors.Is(wrapped, ErrNotFound) {
		t.Error("wrapped ErrNotFound lost its identity")
	}
}
