package format

import (
	"path/filepath"
	"strings"
)

type CompressionType uint8

const (
	CompressionNone CompressionType = 0x1 // CompressionNone represents an uncompressed payload.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents a Zstandard frame.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents an S2 stream.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents an LZ4 frame.
	CompressionGzip CompressionType = 0x5 // CompressionGzip represents a gzip member.

	CompressionUnknown CompressionType = 0xff // CompressionUnknown marks a recognized but unsupported format.
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	case CompressionGzip:
		return "Gzip"
	default:
		return "Unknown"
	}
}

// Extension returns the file suffix conventionally used for the compression type,
// including the leading dot. CompressionNone has no suffix.
func (c CompressionType) Extension() string {
	switch c {
	case CompressionZstd:
		return ".zst"
	case CompressionS2:
		return ".s2"
	case CompressionLZ4:
		return ".lz4"
	case CompressionGzip:
		return ".gz"
	default:
		return ""
	}
}

// CompressionForPath infers the compression type from a file name.
//
// Names without a compression suffix are CompressionNone. Suffixes of compression formats
// that are recognized but not supported (.xz, .bz2) yield CompressionUnknown.
func CompressionForPath(path string) CompressionType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zst", ".zstd":
		return CompressionZstd
	case ".s2":
		return CompressionS2
	case ".lz4":
		return CompressionLZ4
	case ".gz":
		return CompressionGzip
	case ".xz", ".bz2", ".br":
		return CompressionUnknown
	default:
		return CompressionNone
	}
}
