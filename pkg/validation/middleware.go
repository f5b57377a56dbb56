package validation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

type bodyKey struct{}

// Middleware validates HTTP requests before they reach a handler
type Middleware struct {
	config *ValidationConfig
}

// NewMiddleware creates a new validation middleware
func NewMiddleware(config *ValidationConfig) *Middleware {
	if config == nil {
		config = DefaultValidationConfig()
	}
	return &Middleware{config: config}
}

// ValidateJSON decodes the body into a fresh T, validates it and stores it
// in the request context for BodyFrom.
func ValidateJSON[T any](m *Middleware) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body := new(T)
			if err := json.NewDecoder(r.Body).Decode(body); err != nil {
				m.writeErrorResponse(w, http.StatusBadRequest, ValidationErrors{{
					Field:   "request_body",
					Message: fmt.Sprintf("invalid JSON: %v", err),
				}})
				return
			}
			if err := ValidateWithConfig(body, m.config); err != nil {
				if errs, ok := err.(ValidationErrors); ok {
					m.writeErrorResponse(w, http.StatusBadRequest, errs)
					return
				}
				m.writeErrorResponse(w, http.StatusUnprocessableEntity, ValidationErrors{{
					Field:   "request_body",
					Message: err.Error(),
				}})
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), bodyKey{}, body)))
		})
	}
}

// BodyFrom returns the body stored by ValidateJSON
func BodyFrom[T any](ctx context.Context) (*T, bool) {
	body, ok := ctx.Value(bodyKey{}).(*T)
	return body, ok
}

// ValidateQueryParams validates URL query parameters.
// Rules: "required", "uint" (non-negative integer).
func (m *Middleware) ValidateQueryParams(paramRules map[string]string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			query := r.URL.Query()
			var errs ValidationErrors

			for param, rule := range paramRules {
				value := query.Get(param)
				switch rule {
				case "required":
					if value == "" {
						errs = append(errs, ValidationError{Field: param, Value: value, Message: "parameter is required"})
					}
				case "uint":
					if _, err := strconv.ParseUint(value, 10, 32); value != "" && err != nil {
						errs = append(errs, ValidationError{Field: param, Value: value, Message: "must be a non-negative integer"})
					}
				}
			}

			if len(errs) > 0 {
				m.writeErrorResponse(w, http.StatusBadRequest, errs)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// writeErrorResponse writes validation errors as JSON response
func (m *Middleware) writeErrorResponse(w http.ResponseWriter, statusCode int, errs ValidationErrors) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	data, err := MarshalValidationErrors(errs)
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"validation failed","message":"internal validation error"}`))
		return
	}
	_, _ = w.Write(data)
}
