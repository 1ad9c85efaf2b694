package persistence

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compressed payloads carry an 8-byte block prelude:
//
//	[UncompressedSize uint32][CompressedSize uint32][data...]
//
// CompressedSize == 0 means the data is stored raw (the input was
// incompressible or compression did not pay for itself).

const blockHeaderSize = 8

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

// Compress compresses a snapshot payload with the given algorithm.
// CompressionNone returns the input unchanged, without a prelude.
func Compress(data []byte, t CompressionType) ([]byte, error) {
	if t == CompressionNone {
		return data, nil
	}

	var compressed []byte
	switch t {
	case CompressionLZ4:
		bound := lz4.CompressBlockBound(len(data))
		buf := make([]byte, bound)
		n, err := lz4.CompressBlock(data, buf, nil)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			compressed = buf[:n]
		}
	case CompressionZSTD:
		enc := getZstdEncoder()
		compressed = enc.EncodeAll(data, nil)
		zstdEncoderPool.Put(enc)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownCompression, t)
	}

	// If compression does not help, store raw with CompressedSize 0.
	if len(compressed) == 0 || len(compressed) >= len(data) {
		out := make([]byte, blockHeaderSize+len(data))
		binary.LittleEndian.PutUint32(out[0:], uint32(len(data)))
		binary.LittleEndian.PutUint32(out[4:], 0)
		copy(out[blockHeaderSize:], data)
		return out, nil
	}

	out := make([]byte, blockHeaderSize+len(compressed))
	binary.LittleEndian.PutUint32(out[0:], uint32(len(data)))
	binary.LittleEndian.PutUint32(out[4:], uint32(len(compressed)))
	copy(out[blockHeaderSize:], compressed)
	return out, nil
}

// Decompress reverses Compress for the given algorithm.
func Decompress(data []byte, t CompressionType) ([]byte, error) {
	if t == CompressionNone {
		return data, nil
	}
	if t != CompressionLZ4 && t != CompressionZSTD {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCompression, t)
	}

	if len(data) < blockHeaderSize {
		return nil, fmt.Errorf("%w: short compressed block", ErrCorruptSnapshot)
	}
	uncompressedSize := binary.LittleEndian.Uint32(data[0:])
	compressedSize := binary.LittleEndian.Uint32(data[4:])
	body := data[blockHeaderSize:]

	// Stored raw.
	if compressedSize == 0 {
		if uint32(len(body)) != uncompressedSize {
			return nil, fmt.Errorf("%w: raw block size mismatch", ErrCorruptSnapshot)
		}
		return body, nil
	}

	if uint32(len(body)) != compressedSize {
		return nil, fmt.Errorf("%w: compressed block size mismatch", ErrCorruptSnapshot)
	}

	switch t {
	case CompressionLZ4:
		out := make([]byte, uncompressedSize)
		n, err := lz4.UncompressBlock(body, out)
		if err != nil {
			return nil, err
		}
		if uint32(n) != uncompressedSize {
			return nil, fmt.Errorf("%w: lz4 output size mismatch", ErrCorruptSnapshot)
		}
		return out, nil
	default: // CompressionZSTD
		dec := getZstdDecoder()
		out, err := dec.DecodeAll(body, make([]byte, 0, uncompressedSize))
		zstdDecoderPool.Put(dec)
		if err != nil {
			return nil, err
		}
		if uint32(len(out)) != uncompressedSize {
			return nil, fmt.Errorf("%w: zstd output size mismatch", ErrCorruptSnapshot)
		}
		return out, nil
	}
}
