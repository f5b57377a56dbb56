package serialization

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// Codec interface for serialization
// PRINCIPLES:
// - ISP: Simple interface with ≤5 methods
// - SRP: Single responsibility for serialization
type Codec interface {
	Encode(v interface{}) ([]byte, error)
	Decode(data []byte, v interface{}) error
	Name() string
}

// JSONCodec writes indented JSON so exported scripts diff cleanly
type JSONCodec struct{}

func (c *JSONCodec) Encode(v interface{}) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

func (c *JSONCodec) Decode(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

func (c *JSONCodec) Name() string { return "json" }

// MsgPackCodec implements MessagePack serialization
type MsgPackCodec struct{}

func (c *MsgPackCodec) Encode(v interface{}) ([]byte, error) {
	return msgpack.Marshal(v)
}

func (c *MsgPackCodec) Decode(data []byte, v interface{}) error {
	return msgpack.Unmarshal(data, v)
}

func (c *MsgPackCodec) Name() string { return "msgpack" }
// YAMLCodec implements YAML serialization for hand-edited scripts
type YAMLCodec struct{}

func (c *YAMLCodec) Encode(v interface{}) ([]byte, error) {
	return yaml.Marshal(v)
}

func (c *YAMLCodec) Decode(data []byte, v interface{}) error {
	return yaml.Unmarshal(data, v)
}

func (c *YAMLCodec) Name() string { return "yaml" }

func NewJSONCodec() Codec    { return &JSONCodec{} }
func NewMsgPackCodec() Codec { return &MsgPackCodec{} }
func NewYAMLCodec() Codec    { return &YAMLCodec{} }

// CodecByName resolves "json", "msgpack" or "yaml"
func CodecByName(name string) (Codec, error) {
	switch strings.ToLower(name) {
	case "json", "":
		return NewJSONCodec(), nil
	case "msgpack":
		return NewMsgPackCodec(), nil
	case "yaml", "yml":
		return NewYAMLCodec(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
}

// ForPath picks a serializer from a file extension: .json, .yaml/.yml,
// .msgpack, or .lgs for msgpack with zstd.
func ForPath(path string) (*Serializer, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".lgs":
		return DefaultSerializer(), nil
	case ".msgpack", ".mp":
		return NewSerializer(SerializationConfig{Codec: NewMsgPackCodec()}), nil
	default:
		codec, err := CodecByName(strings.TrimPrefix(ext, "."))
		if err != nil {
			return nil, err
		}
		return NewSerializer(SerializationConfig{Codec: codec}), nil
	}
}
