package types

import "errors"

var (
	ErrUnknownType  = errors.New("unknown value type")
	ErrInvalidColor = errors.New("invalid color")
)
