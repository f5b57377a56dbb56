package dto

import "errors"

// Evaluation errors
var (
	ErrMissingScriptID = errors.New("script ID is required")
	ErrInvalidScriptID = errors.New("script ID is not a valid uuid")
	ErrEvaluateFailed  = errors.New("script evaluation failed")
)
