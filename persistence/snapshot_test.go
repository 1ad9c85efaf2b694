package persistence

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/hupe1980/ivory/codec"
	"github.com/hupe1980/ivory/value"
)

func testSnapshot() *Snapshot {
	return &Snapshot{
		Location: "/tmp/people.ivry",
		Rows:     3,
		Columns: []Column{
			{Name: "age", Values: []value.Value{value.Int(30), value.Int(41), value.Null()}},
			{Name: "name", Values: []value.Value{value.String("ada"), value.String("bob"), value.String("cleo")}},
			{Name: "active", Values: []value.Value{value.Bool(true), value.Bool(false), value.Bool(true)}},
		},
	}
}

func assertSnapshotEqual(t *testing.T, want, got *Snapshot) {
	t.Helper()
	if got.Location != want.Location {
		t.Errorf("Location mismatch: got %q, want %q", got.Location, want.Location)
	}
	if got.Rows != want.Rows {
		t.Errorf("Rows mismatch: got %d, want %d", got.Rows, want.Rows)
	}
	if len(got.Columns) != len(want.Columns) {
		t.Fatalf("column count mismatch: got %d, want %d", len(got.Columns), len(want.Columns))
	}
	for i := range want.Columns {
		if got.Columns[i].Name != want.Columns[i].Name {
			t.Errorf("column %d name mismatch: got %q, want %q", i, got.Columns[i].Name, want.Columns[i].Name)
		}
		for j := range want.Columns[i].Values {
			if !got.Columns[i].Values[j].Equal(want.Columns[i].Values[j]) {
				t.Errorf("column %d value %d mismatch", i, j)
			}
		}
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	codecs := []codec.Codec{codec.JSON{}, codec.GoJSON{}, codec.Msgpack{}}
	compressions := []CompressionType{CompressionNone, CompressionLZ4, CompressionZSTD}

	for _, c := range codecs {
		for _, comp := range compressions {
			var buf bytes.Buffer
			if err := WriteSnapshot(&buf, testSnapshot(), c, comp); err != nil {
				t.Fatalf("WriteSnapshot(%s, %d) failed: %v", c.Name(), comp, err)
			}

			got, err := ReadSnapshot(&buf)
			if err != nil {
				t.Fatalf("ReadSnapshot(%s, %d) failed: %v", c.Name(), comp, err)
			}
			assertSnapshotEqual(t, testSnapshot(), got)
		}
	}
}

func TestSnapshotEmptyStore(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSnapshot(&buf, &Snapshot{}, nil, CompressionNone); err != nil {
		t.Fatalf("WriteSnapshot failed: %v", err)
	}

	got, err := ReadSnapshot(&buf)
	if err != nil {
		t.Fatalf("ReadSnapshot failed: %v", err)
	}
	if got.Rows != 0 || len(got.Columns) != 0 {
		t.Errorf("expected empty snapshot, got %d rows, %d columns", got.Rows, len(got.Columns))
	}
}

func TestReadSnapshotInvalidMagic(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSnapshot(&buf, testSnapshot(), nil, CompressionNone); err != nil {
		t.Fatalf("WriteSnapshot failed: %v", err)
	}
	data := buf.Bytes()
	data[0] ^= 0xff

	if _, err := ReadSnapshot(bytes.NewReader(data)); !errors.Is(err, ErrInvalidMagic) {
		t.Errorf("expected ErrInvalidMagic, got %v", err)
	}
}

func TestReadSnapshotInvalidVersion(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSnapshot(&buf, testSnapshot(), nil, CompressionNone); err != nil {
		t.Fatalf("WriteSnapshot failed: %v", err)
	}
	data := buf.Bytes()
	data[4] ^= 0xff // low byte of the version field

	if _, err := ReadSnapshot(bytes.NewReader(data)); !errors.Is(err, ErrInvalidVersion) {
		t.Errorf("expected ErrInvalidVersion, got %v", err)
	}
}

func TestReadSnapshotChecksumMismatch(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSnapshot(&buf, testSnapshot(), nil, CompressionNone); err != nil {
		t.Fatalf("WriteSnapshot failed: %v", err)
	}
	data := buf.Bytes()
	data[len(data)-1] ^= 0xff // flip a payload byte

	_, err := ReadSnapshot(bytes.NewReader(data))
	if !IsChecksumMismatch(err) {
		t.Errorf("expected checksum mismatch, got %v", err)
	}
}

func TestReadSnapshotUnknownCodec(t *testing.T) {
	// Hand-build a file whose header names a codec we do not ship.
	var buf bytes.Buffer
	if err := WriteSnapshot(&buf, testSnapshot(), codec.JSON{}, CompressionNone); err != nil {
		t.Fatalf("WriteSnapshot failed: %v", err)
	}
	data := buf.Bytes()
	// codec name "json" starts right after the 48-byte header
	copy(data[48:], "XSON")

	if _, err := ReadSnapshot(bytes.NewReader(data)); !errors.Is(err, ErrUnknownCodec) {
		t.Errorf("expected ErrUnknownCodec, got %v", err)
	}
}

func TestReadSnapshotPayloadLenBeyondLimit(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSnapshot(&buf, testSnapshot(), nil, CompressionNone); err != nil {
		t.Fatalf("WriteSnapshot failed: %v", err)
	}
	data := buf.Bytes()
	// PayloadLen occupies bytes 24..31 of the header.
	binary.LittleEndian.PutUint64(data[24:], 1<<62)

	_, err := ReadSnapshot(bytes.NewReader(data))
	if !errors.Is(err, ErrCorruptSnapshot) {
		t.Errorf("expected ErrCorruptSnapshot, got %v", err)
	}
}

func TestReadSnapshotPayloadLenBeyondInput(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSnapshot(&buf, testSnapshot(), nil, CompressionNone); err != nil {
		t.Fatalf("WriteSnapshot failed: %v", err)
	}
	data := buf.Bytes()
	// Under the hard limit but past what the file holds: the read must stop
	// at EOF with an explicit error instead of sizing a buffer up front.
	binary.LittleEndian.PutUint64(data[24:], uint64(len(data))+1024)

	_, err := ReadSnapshot(bytes.NewReader(data))
	if !errors.Is(err, ErrCorruptSnapshot) {
		t.Errorf("expected ErrCorruptSnapshot, got %v", err)
	}
}

func TestWriteSnapshotRaggedColumn(t *testing.T) {
	snap := testSnapshot()
	snap.Columns[1].Values = snap.Columns[1].Values[:2]

	var buf bytes.Buffer
	if err := WriteSnapshot(&buf, snap, nil, CompressionNone); err == nil {
		t.Error("expected error for column shorter than the row count")
	}

	snap = testSnapshot()
	snap.Rows = 2
	if err := WriteSnapshot(&buf, snap, nil, CompressionNone); err == nil {
		t.Error("expected error for columns longer than the row count")
	}
}

func TestCompressRoundTrip(t *testing.T) {
	payloads := [][]byte{
		[]byte("hello hello hello hello hello hello hello hello"), // compressible
		{0x01, 0xff, 0x3c, 0x99},                                  // too short to compress
		nil,
	}

	for _, tc := range []CompressionType{CompressionNone, CompressionLZ4, CompressionZSTD} {
		for _, payload := range payloads {
			stored, err := Compress(payload, tc)
			if err != nil {
				t.Fatalf("Compress(%d) failed: %v", tc, err)
			}
			got, err := Decompress(stored, tc)
			if err != nil {
				t.Fatalf("Decompress(%d) failed: %v", tc, err)
			}
			if !bytes.Equal(payload, got) {
				t.Errorf("round trip mismatch for compression %d", tc)
			}
		}
	}
}

func TestSaveToFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "store.ivry")

	if err := os.WriteFile(path, []byte("previous"), 0o644); err != nil {
		t.Fatal(err)
	}

	// A failing write must leave the previous file intact and no temp litter.
	writeErr := errors.New("boom")
	if err := SaveToFile(path, func(io.Writer) error { return writeErr }); !errors.Is(err, writeErr) {
		t.Fatalf("expected write error, got %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "previous" {
		t.Errorf("previous content clobbered: %q", data)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("temp file left behind: %d entries", len(entries))
	}

	// A successful write replaces the content.
	if err := SaveToFile(path, func(w io.Writer) error {
		_, err := w.Write([]byte("next"))
		return err
	}); err != nil {
		t.Fatalf("SaveToFile failed: %v", err)
	}

	data, err = os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "next" {
		t.Errorf("unexpected content: %q", data)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	err := LoadFromFile(filepath.Join(t.TempDir(), "nope.ivry"), func(io.Reader) error { return nil })
	if !os.IsNotExist(err) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestReadHeader(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSnapshot(&buf, testSnapshot(), nil, CompressionZSTD); err != nil {
		t.Fatalf("WriteSnapshot failed: %v", err)
	}

	h, err := ReadHeader(&buf)
	if err != nil {
		t.Fatalf("ReadHeader failed: %v", err)
	}
	if h.RowCount != 3 || h.ColumnCount != 3 {
		t.Errorf("unexpected header counts: rows=%d cols=%d", h.RowCount, h.ColumnCount)
	}
	if CompressionType(h.Compression) != CompressionZSTD {
		t.Errorf("unexpected compression: %d", h.Compression)
	}
}
