package usecases

import "errors"

var (
	ErrNilLayer          = errors.New("layer cannot be nil")
	ErrDuplicateLayer    = errors.New("layer already added")
	ErrDuplicateProperty = errors.New("property already registered")
	ErrPropertyNotFound  = errors.New("property not found")
	ErrResultType        = errors.New("script result type does not fit")
	ErrHostClosed        = errors.New("host is closed")
)
