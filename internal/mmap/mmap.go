// Package mmap provides read-only memory-mapped file access.
//
// It backs the local blob store: exported snapshots are opened as a mapping
// so ReadAt calls touch the page cache instead of issuing syscalls.
package mmap

import (
	"errors"
	"io"
	"os"
	"sync/atomic"
)

var (
	// ErrClosed is returned when accessing a closed mapping.
	ErrClosed = errors.New("mmap: mapping is closed")
	// ErrInvalidOffset is returned for negative read offsets.
	ErrInvalidOffset = errors.New("mmap: invalid offset")
)

// Mapping is a read-only memory-mapped file. It owns the mapped bytes and
// unmaps them on Close.
type Mapping struct {
	data   []byte
	closed atomic.Bool
}

// Open maps the file at path into memory as read-only.
// An empty file yields a valid mapping with no data.
func Open(path string) (*Mapping, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}

	size := fi.Size()
	if size == 0 {
		return &Mapping{}, nil
	}
	if size < 0 || size != int64(int(size)) {
		return nil, errors.New("mmap: invalid file size")
	}

	data, err := osMap(f, int(size))
	if err != nil {
		return nil, err
	}
	return &Mapping{data: data}, nil
}

// Close unmaps the memory. It is idempotent.
func (m *Mapping) Close() error {
	if m.closed.Swap(true) {
		return nil
	}
	if m.data == nil {
		return nil
	}
	data := m.data
	m.data = nil
	return osUnmap(data)
}

// Bytes returns the mapped bytes. The slice is valid only until Close;
// accessing it afterwards is undefined behavior.
func (m *Mapping) Bytes() []byte {
	if m.closed.Load() {
		return nil
	}
	return m.data
}

// Size returns the size of the mapping in bytes.
func (m *Mapping) Size() int {
	if m.closed.Load() {
		return 0
	}
	return len(m.data)
}

// ReadAt implements io.ReaderAt.
func (m *Mapping) ReadAt(p []byte, off int64) (n int, err error) {
	if m.closed.Load() {
		return 0, ErrClosed
	}
	if off < 0 {
		return 0, ErrInvalidOffset
	}
	if off >= int64(len(m.data)) {
		return 0, io.EOF
	}
	n = copy(p, m.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}
