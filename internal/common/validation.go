package common

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/joseph-ayodele/actes-extractor/constants"
)

// ValidationError represents validation failures
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// ValidationRule checks one string field.
type ValidationRule func(fieldName, value string) *ValidationError

// Validator collects the failures of several rules.
type Validator struct {
	errors []ValidationError
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// Field validates a field and collects errors
func (v *Validator) Field(fieldName, value string, rules ...ValidationRule) *Validator {
	for _, rule := range rules {
		if err := rule(fieldName, value); err != nil {
			v.errors = append(v.errors, *err)
		}
	}
	return v
}

// HasErrors returns true if there are validation errors
func (v *Validator) HasErrors() bool {
	return len(v.errors) > 0
}

// Err returns nil or an error wrapping ErrValidation with every message.
func (v *Validator) Err() error {
	if !v.HasErrors() {
		return nil
	}
	messages := make([]string, 0, len(v.errors))
	for _, err := range v.errors {
		messages = append(messages, err.Error())
	}
	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(messages, "; "))
}

// Required rejects blank values.
func Required(fieldName, value string) *ValidationError {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{Field: fieldName, Message: "is required"}
	}
	return nil
}

// ValidUTF8 rejects values that are not valid UTF-8.
func ValidUTF8(fieldName, value string) *ValidationError {
	if !utf8.ValidString(value) {
		return &ValidationError{Field: fieldName, Message: "must be valid UTF-8"}
	}
	return nil
}

// MaxBytes builds a rule capping the byte length of a value.
func MaxBytes(max int) ValidationRule {
	return func(fieldName, value string) *ValidationError {
		if len(value) > max {
			return &ValidationError{Field: fieldName, Message: fmt.Sprintf("must be at most %d bytes", max)}
		}
		return nil
	}
}

// SupportedDocument rejects paths whose extension is not ingested.
func SupportedDocument(fieldName, value string) *ValidationError {
	if constants.FormatOf(filepath.Ext(value)) == "" {
		return &ValidationError{Field: fieldName, Message: "has an unsupported extension"}
	}
	return nil
}
