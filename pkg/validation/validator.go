// Package validation checks persisted records before they are mapped into
// live scripts, and exposes HTTP middleware doing the same for request bodies.
package validation

import (
	"errors"
	"fmt"
	"strings"
)

// Validator is implemented by records with rules beyond struct tags
// PRINCIPLES:
// - ISP: Simple interface with single method
// - DIP: Depend on interface, not concrete types
type Validator interface {
	Validate() error
}

// ErrNilEntity is returned when there is nothing to validate
var ErrNilEntity = errors.New("entity is nil")

// ValidationError represents a validation error with details
type ValidationError struct {
	Field   string      `json:"field"`
	Value   interface{} `json:"value"`
	Message string      `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors represents multiple validation errors
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Entity validates struct tags, then the record's own rules
func Entity(v interface{}) error {
	if v == nil {
		return ErrNilEntity
	}
	if err := ValidateWithPlayground(v); err != nil {
		return err
	}
	if custom, ok := v.(Validator); ok {
		return custom.Validate()
	}
	return nil
}
