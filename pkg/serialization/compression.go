package serialization

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

// CompressionType represents compression algorithms
type CompressionType string

const (
	CompressionNone CompressionType = "none"
	CompressionGzip CompressionType = "gzip"
	CompressionZstd CompressionType = "zstd"
)

// ParseCompression resolves a configured compression name
func ParseCompression(name string) (CompressionType, error) {
	switch c := CompressionType(name); c {
	case "":
		return CompressionNone, nil
	case CompressionNone, CompressionGzip, CompressionZstd:
		return c, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCompression, name)
}

func compress(c CompressionType, data []byte) ([]byte, error) {
	switch c {
	case CompressionGzip:
		return compressGzip(data)
	case CompressionZstd:
		return compressZstd(data)
	default:
		return data, nil
	}
}

func decompress(c CompressionType, data []byte) ([]byte, error) {
	switch c {
	case CompressionGzip:
		return decompressGzip(data)
	case CompressionZstd:
		return decompressZstd(data)
	default:
		return data, nil
	}
}

func compressGzip(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	writer := gzip.NewWriter(&buf)
	if _, err := writer.Write(data); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompressGzip(data []byte) ([]byte, error) {
	reader, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	return io.ReadAll(reader)
}

func compressZstd(data []byte) ([]byte, error) {
	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	defer encoder.Close()
	return encoder.EncodeAll(data, nil), nil
}

func decompressZstd(data []byte) ([]byte, error) {
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer decoder.Close()
	return decoder.DecodeAll(data, nil)
}
