// Package persistence implements the versioned binary snapshot format for
// whole-store saves, plus the atomic file helpers around it.
//
// A snapshot file is one header, the codec name, and one payload:
//
//	[FileHeader][codec name][payload]
//
// The header pins magic, format version, compression and the payload
// checksum, so a reader can reject foreign or corrupt files before decoding
// anything. The payload holds a codec-encoded metadata section followed by
// the column data in the compact value encoding.
package persistence

import "errors"

const (
	// MagicNumber identifies ivory snapshot files (ASCII: "IVR1").
	MagicNumber = 0x49565231
	// FormatVersion is the current snapshot format version (v1.0.0).
	FormatVersion = 0x00010000
)

// CompressionType identifies the payload compression algorithm.
type CompressionType uint8

const (
	// CompressionNone stores the payload uncompressed.
	CompressionNone CompressionType = 0
	// CompressionLZ4 uses LZ4 block compression (fastest).
	CompressionLZ4 CompressionType = 1
	// CompressionZSTD uses ZSTD block compression (better ratio).
	CompressionZSTD CompressionType = 2
)

var (
	// ErrInvalidMagic is returned when a file does not start with MagicNumber.
	ErrInvalidMagic = errors.New("invalid magic number")
	// ErrInvalidVersion is returned for snapshot versions this build cannot read.
	ErrInvalidVersion = errors.New("unsupported snapshot version")
	// ErrUnknownCodec is returned when the header names a codec this build
	// does not know.
	ErrUnknownCodec = errors.New("unknown snapshot codec")
	// ErrUnknownCompression is returned for compression types this build
	// does not know.
	ErrUnknownCompression = errors.New("unknown compression type")
	// ErrCorruptSnapshot is returned when the payload structure does not
	// match the header.
	ErrCorruptSnapshot = errors.New("corrupt snapshot")
)

// FileHeader is the fixed-size header at the start of every snapshot file.
// Written with encoding/binary in little-endian order.
type FileHeader struct {
	Magic       uint32
	Version     uint32
	Compression uint8
	CodecLen    uint8 // length of the codec name following the header
	Padding     [2]byte
	ColumnCount uint32
	RowCount    uint64
	PayloadLen  uint64 // stored (possibly compressed) payload length
	Checksum    uint32 // CRC32 of the stored payload bytes
	Reserved    [12]byte
}
