// Package serialization encodes scripts and profiles for export and storage:
// a codec, optional compression and optional AES-GCM encryption.
// PRINCIPLES:
// - KISS: one pipeline, pluggable stages
// - SRP: stores and the CLI never touch codecs directly
package serialization

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownCodec       = errors.New("unknown codec")
	ErrUnknownCompression = errors.New("unknown compression")
	ErrInvalidCiphertext  = errors.New("invalid ciphertext size")
)

// SerializationConfig holds serialization settings
type SerializationConfig struct {
	Codec       Codec
	Compression CompressionType
	EncryptKey  []byte // AES-256 key (32 bytes)
}

// Serializer runs encode, compress and encrypt in that order
type Serializer struct {
	config SerializationConfig
}

// NewSerializer creates a new serializer with configuration
func NewSerializer(config SerializationConfig) *Serializer {
	if config.Codec == nil {
		config.Codec = NewJSONCodec()
	}
	if config.Compression == "" {
		config.Compression = CompressionNone
	}
	return &Serializer{config: config}
}

// FromNames builds a serializer from configuration strings
func FromNames(codec, compression string, key []byte) (*Serializer, error) {
	c, err := CodecByName(codec)
	if err != nil {
		return nil, err
	}
	comp, err := ParseCompression(compression)
	if err != nil {
		return nil, err
	}
	return NewSerializer(SerializationConfig{Codec: c, Compression: comp, EncryptKey: key}), nil
}

// DefaultSerializer is the compact binary format used by stores
func DefaultSerializer() *Serializer {
	return NewSerializer(SerializationConfig{
		Codec:       NewMsgPackCodec(),
		Compression: CompressionZstd,
	})
}

// Describe names the pipeline, e.g. "msgpack+zstd"
func (s *Serializer) Describe() string {
	name := s.config.Codec.Name() + "+" + string(s.config.Compression)
	if len(s.config.EncryptKey) > 0 {
		name += "+aes"
	}
	return name
}

func (s *Serializer) Serialize(v interface{}) ([]byte, error) {
	data, err := s.config.Codec.Encode(v)
	if err != nil {
		return nil, fmt.Errorf("codec encoding failed: %w", err)
	}

	data, err = compress(s.config.Compression, data)
	if err != nil {
		return nil, fmt.Errorf("compression failed: %w", err)
	}

	if len(s.config.EncryptKey) > 0 {
		data, err = encrypt(s.config.EncryptKey, data)
		if err != nil {
			return nil, fmt.Errorf("encryption failed: %w", err)
		}
	}
	return data, nil
}

// Deserialize decrypts, decompresses, and decodes data
func (s *Serializer) Deserialize(data []byte, v interface{}) error {
	var err error
	if len(s.config.EncryptKey) > 0 {
		data, err = decrypt(s.config.EncryptKey, data)
		if err != nil {
			return fmt.Errorf("decryption failed: %w", err)
		}
	}

	data, err = decompress(s.config.Compression, data)
	if err != nil {
		return fmt.Errorf("decompression failed: %w", err)
	}

	if err := s.config.Codec.Decode(data, v); err != nil {
		return fmt.Errorf("codec decoding failed: %w", err)
	}
	return nil
}
