// Package errs holds the request-level error taxonomy shared by use cases and handlers.
package errs

import (
	"errors"
	"sort"
	"strings"
)

// ErrNotFound is returned (wrapped) when a survey, business or related record does not exist.
var ErrNotFound = errors.New("not found")

// NonFieldKey is the key used for messages not tied to a single input field
const NonFieldKey = "non_field_errors"

// ValidationError carries field-keyed and non-field messages for a rejected request
type ValidationError struct {
	Fields   map[string][]string
	NonField []string
}

// Field returns a ValidationError with a single field message
func Field(name, message string) *ValidationError {
	return &ValidationError{Fields: map[string][]string{name: {message}}}
}

// NonField returns a ValidationError with a single non-field message
func NonField(message string) *ValidationError {
	return &ValidationError{NonField: []string{message}}
}

// Add appends a message for the field
func (e *ValidationError) Add(name, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[name] = append(e.Fields[name], message)
}

// Empty reports whether no message was recorded
func (e *ValidationError) Empty() bool {
	return len(e.Fields) == 0 && len(e.NonField) == 0
}

// Messages returns the error as a field-keyed map, non-field messages under NonFieldKey
func (e *ValidationError) Messages() map[string][]string {
	out := make(map[string][]string, len(e.Fields)+1)
	for k, v := range e.Fields {
		out[k] = v
	}
	if len(e.NonField) > 0 {
		out[NonFieldKey] = e.NonField
	}
	return out
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys)+1)
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], " "))
	}
	if len(e.NonField) > 0 {
		parts = append(parts, strings.Join(e.NonField, " "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// IsValidation reports whether err is (or wraps) a ValidationError
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
