package graph

import (
	"encoding/json"
	"fmt"
)

// DecodeStorage unmarshals a node storage envelope into T.
// Empty storage decodes to the zero value.
func DecodeStorage[T any](n *Node) (T, error) {
	var v T
	if n.storage == "" {
		return v, nil
	}
	if err := json.Unmarshal([]byte(n.storage), &v); err != nil {
		return v, fmt.Errorf("%w: %w", ErrInvalidStorage, err)
	}
	return v, nil
}

// EncodeStorage marshals a kind payload into a storage envelope
func EncodeStorage(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidStorage, err)
	}
	return string(data), nil
}
