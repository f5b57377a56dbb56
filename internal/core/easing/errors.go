package easing

import "errors"

var ErrUnknownFunction = errors.New("unknown easing function")
