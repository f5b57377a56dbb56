package nodes

import "errors"

var (
	ErrDivideByZero  = errors.New("division by zero")
	ErrEmptyPath     = errors.New("data model path is empty")
	ErrNoDataSource  = errors.New("script context does not expose a data model")
	ErrInvalidBounds = errors.New("minimum is greater than maximum")
)
