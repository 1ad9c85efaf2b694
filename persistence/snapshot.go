package persistence

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/hupe1980/ivory/codec"
	"github.com/hupe1980/ivory/value"
)

// MaxPayloadLen bounds the stored payload size a reader accepts. Snapshots
// live fully in memory, so anything near this limit is already implausible
// for a real store and a larger declared length only ever means corruption.
const MaxPayloadLen = 1 << 32

// Snapshot is the serialized form of a whole store.
type Snapshot struct {
	Location string
	Rows     uint64
	Columns  []Column
}

// Column is one named, ordered value sequence.
type Column struct {
	Name   string
	Values []value.Value
}

// metaDoc is the codec-encoded metadata section of a payload. The bulk
// column data uses the compact value encoding instead; only the small,
// schema-like part goes through the codec.
type metaDoc struct {
	Location string   `json:"location" msgpack:"location"`
	Names    []string `json:"names" msgpack:"names"`
}

// WriteSnapshot writes snap to w using the given codec and compression.
// A nil codec falls back to codec.Default.
func WriteSnapshot(w io.Writer, snap *Snapshot, c codec.Codec, comp CompressionType) error {
	if c == nil {
		c = codec.Default
	}
	name := c.Name()
	if len(name) == 0 || len(name) > 255 {
		return fmt.Errorf("invalid codec name %q", name)
	}

	meta := metaDoc{
		Location: snap.Location,
		Names:    make([]string, len(snap.Columns)),
	}
	for i, col := range snap.Columns {
		// A ragged column would write a file the reader rejects; fail at
		// save time instead, where the caller can still act on it.
		if uint64(len(col.Values)) != snap.Rows {
			return fmt.Errorf("column %q has %d values, expected %d",
				col.Name, len(col.Values), snap.Rows)
		}
		meta.Names[i] = col.Name
	}

	metaBytes, err := c.Marshal(meta)
	if err != nil {
		return fmt.Errorf("encode snapshot metadata: %w", err)
	}

	payload := binary.AppendUvarint(nil, uint64(len(metaBytes)))
	payload = append(payload, metaBytes...)
	for _, col := range snap.Columns {
		payload, err = value.AppendSlice(payload, col.Values)
		if err != nil {
			return fmt.Errorf("encode column %q: %w", col.Name, err)
		}
	}

	stored, err := Compress(payload, comp)
	if err != nil {
		return err
	}

	header := FileHeader{
		Magic:       MagicNumber,
		Version:     FormatVersion,
		Compression: uint8(comp),
		CodecLen:    uint8(len(name)),
		ColumnCount: uint32(len(snap.Columns)),
		RowCount:    snap.Rows,
		PayloadLen:  uint64(len(stored)),
		Checksum:    ComputeChecksum(stored),
	}
	if err := binary.Write(w, binary.LittleEndian, &header); err != nil {
		return err
	}
	if _, err := io.WriteString(w, name); err != nil {
		return err
	}
	_, err = w.Write(stored)
	return err
}

// ReadSnapshot reads one snapshot from r, validating magic, version,
// checksum and payload structure before returning it.
func ReadSnapshot(r io.Reader) (*Snapshot, error) {
	var header FileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, err
	}
	if header.Magic != MagicNumber {
		return nil, fmt.Errorf("%w: got 0x%08x", ErrInvalidMagic, header.Magic)
	}
	if header.Version != FormatVersion {
		return nil, fmt.Errorf("%w: got 0x%08x", ErrInvalidVersion, header.Version)
	}

	nameBuf := make([]byte, header.CodecLen)
	if _, err := io.ReadFull(r, nameBuf); err != nil {
		return nil, err
	}
	c, ok := codec.ByName(string(nameBuf))
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, nameBuf)
	}

	if header.PayloadLen > MaxPayloadLen {
		return nil, fmt.Errorf("%w: payload length %d exceeds limit %d",
			ErrCorruptSnapshot, header.PayloadLen, uint64(MaxPayloadLen))
	}

	// PayloadLen comes from the file and cannot be trusted to size an
	// allocation. Growing a buffer from a bounded reader makes a corrupt
	// length fail at EOF instead, after allocating only what was read.
	var payloadBuf bytes.Buffer
	copied, err := io.Copy(&payloadBuf, io.LimitReader(r, int64(header.PayloadLen)))
	if err != nil {
		return nil, err
	}
	if uint64(copied) != header.PayloadLen {
		return nil, fmt.Errorf("%w: payload truncated at %d of %d bytes",
			ErrCorruptSnapshot, copied, header.PayloadLen)
	}
	stored := payloadBuf.Bytes()
	if actual := ComputeChecksum(stored); actual != header.Checksum {
		return nil, &ChecksumMismatchError{Expected: header.Checksum, Actual: actual}
	}

	payload, err := Decompress(stored, CompressionType(header.Compression))
	if err != nil {
		return nil, err
	}

	metaLen, n := binary.Uvarint(payload)
	if n <= 0 || uint64(len(payload[n:])) < metaLen {
		return nil, fmt.Errorf("%w: truncated metadata section", ErrCorruptSnapshot)
	}
	payload = payload[n:]

	var meta metaDoc
	if err := c.Unmarshal(payload[:metaLen], &meta); err != nil {
		return nil, fmt.Errorf("decode snapshot metadata: %w", err)
	}
	payload = payload[metaLen:]

	if uint32(len(meta.Names)) != header.ColumnCount {
		return nil, fmt.Errorf("%w: header declares %d columns, metadata has %d",
			ErrCorruptSnapshot, header.ColumnCount, len(meta.Names))
	}

	snap := &Snapshot{
		Location: meta.Location,
		Rows:     header.RowCount,
		Columns:  make([]Column, len(meta.Names)),
	}
	for i, name := range meta.Names {
		vals, rest, err := value.ParseSlice(payload)
		if err != nil {
			return nil, fmt.Errorf("decode column %q: %w", name, err)
		}
		if uint64(len(vals)) != header.RowCount {
			return nil, fmt.Errorf("%w: column %q has %d values, expected %d",
				ErrCorruptSnapshot, name, len(vals), header.RowCount)
		}
		snap.Columns[i] = Column{Name: name, Values: vals}
		payload = rest
	}
	if len(payload) != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrCorruptSnapshot, len(payload))
	}

	return snap, nil
}

// ReadHeader reads and validates only the file header. Useful for probing a
// file without decoding its payload.
func ReadHeader(r io.Reader) (*FileHeader, error) {
	var header FileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, err
	}
	if header.Magic != MagicNumber {
		return nil, fmt.Errorf("%w: got 0x%08x", ErrInvalidMagic, header.Magic)
	}
	if header.Version != FormatVersion {
		return nil, fmt.Errorf("%w: got 0x%08x", ErrInvalidVersion, header.Version)
	}
	return &header, nil
}
