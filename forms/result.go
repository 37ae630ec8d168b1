// Package forms holds the KYC and payment form state, the rules each field is
// checked against, and the payloads handed to the backend after a form passes.
package forms

import "fmt"

// FormatError is a single field that failed its format or business rule.
type FormatError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationResult lists failures in evaluation order. Empty means the form passed.
type ValidationResult []FormatError

func (r ValidationResult) OK() bool {
	return len(r) == 0
}

// First returns the failure the user should see, or nil.
func (r ValidationResult) First() *FormatError {
	if len(r) == 0 {
		return nil
	}
	first := r[0]
	return &first
}

// Err returns the first failure as an error, or nil when the result is empty.
func (r ValidationResult) Err() error {
	if first := r.First(); first != nil {
		return first
	}
	return nil
}

func fail(field, message string) ValidationResult {
	return ValidationResult{{Field: field, Message: message}}
}
