package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/lightgraph/lightgraph/internal/core/easing"
	"github.com/lightgraph/lightgraph/internal/core/types"
)

// Validate is the shared validator instance with the custom rules registered
var Validate *validator.Validate

var (
	kindIDPattern       = regexp.MustCompile(`^[A-Za-z0-9_.\-]+$`)
	propertyPathPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*(\.[A-Za-z][A-Za-z0-9_]*)*$`)
)

func init() {
	Validate = validator.New()

	Validate.RegisterValidation("kind_id", validateKindID)
	Validate.RegisterValidation("value_type", validateValueType)
	Validate.RegisterValidation("easing", validateEasing)
	Validate.RegisterValidation("pin_direction", validatePinDirection)
	Validate.RegisterValidation("property_path", validatePropertyPath)

	// Report persisted field names rather than Go names
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
}

// ValidateWithPlayground validates struct tags with go-playground/validator
func ValidateWithPlayground(s interface{}) error {
	err := Validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrors validator.ValidationErrors
	if errors.As(err, &fieldErrors) {
		return formatValidationErrors(fieldErrors)
	}
	return err
}

func formatValidationErrors(fieldErrors validator.ValidationErrors) ValidationErrors {
	errs := make(ValidationErrors, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		errs = append(errs, ValidationError{
			Field:   fe.Namespace(),
			Value:   fe.Value(),
			Message: getErrorMessage(fe),
		})
	}
	return errs
}

// getErrorMessage returns a human-readable error message
func getErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field is required"
	case "min":
		return fmt.Sprintf("minimum value/length is %s", fe.Param())
	case "max":
		return fmt.Sprintf("maximum value/length is %s", fe.Param())
	case "kind_id":
		return "must be a node kind identifier (letters, digits, dot, underscore, hyphen)"
	case "value_type":
		return "must be one of any, bool, integer, numeric, string, color"
	case "easing":
		return "must be a known easing function"
	case "pin_direction":
		return "must be 0 (input) or 1 (output)"
	case "property_path":
		return "must be a dotted property path"
	default:
		return fmt.Sprintf("validation failed: %s", fe.Tag())
	}
}

func validateKindID(fl validator.FieldLevel) bool {
	id := fl.Field().String()
	return len(id) <= 200 && kindIDPattern.MatchString(id)
}

func validateValueType(fl validator.FieldLevel) bool {
	return types.ValueType(fl.Field().String()).Valid()
}

func validateEasing(fl validator.FieldLevel) bool {
	return easing.Function(fl.Field().Int()).Valid()
}

func validatePinDirection(fl validator.FieldLevel) bool {
	d := fl.Field().Int()
	return d == 0 || d == 1
}

func validatePropertyPath(fl validator.FieldLevel) bool {
	return propertyPathPattern.MatchString(fl.Field().String())
}

// ValidationConfig holds validation configuration
type ValidationConfig struct {
	CheckCycles bool `json:"check_cycles" yaml:"check_cycles"`
	MaxErrors   int  `json:"max_errors" yaml:"max_errors"`
}

// DefaultValidationConfig returns default validation configuration
func DefaultValidationConfig() *ValidationConfig {
	return &ValidationConfig{MaxErrors: 10}
}

// ValidateWithConfig validates and truncates the reported errors
func ValidateWithConfig(s interface{}, config *ValidationConfig) error {
	if config == nil {
		config = DefaultValidationConfig()
	}
	err := Entity(s)
	var errs ValidationErrors
	if errors.As(err, &errs) && config.MaxErrors > 0 && len(errs) > config.MaxErrors {
		return errs[:config.MaxErrors]
	}
	return err
}

type errorResponse struct {
	Errors []ValidationError `json:"errors"`
	Count  int               `json:"count"`
}

// MarshalValidationErrors marshals validation errors to JSON
func MarshalValidationErrors(errs ValidationErrors) ([]byte, error) {
	return json.Marshal(errorResponse{Errors: errs, Count: len(errs)})
}

// UnmarshalValidationErrors unmarshals validation errors from JSON
func UnmarshalValidationErrors(data []byte) (ValidationErrors, error) {
	var response errorResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, err
	}
	return ValidationErrors(response.Errors), nil
}
