package ivory

import (
	"fmt"
	"io"
	"os"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/ivory/location"
	"github.com/hupe1980/ivory/persistence"
)

// Store is an embedded columnar record store.
//
// It keeps every attribute fully in memory and persists the whole store to a
// single .ivry file. A Store is not safe for concurrent use; all operations
// assume exclusive, sequential access, including to the backing file.
type Store struct {
	attributes []*Attribute
	rows       int             // physical rows; every attribute has exactly this many cells
	deleted    *roaring.Bitmap // tombstoned row positions
	loc        *location.Manager
	opts       options
	closed     bool
}

// New creates an empty store with no location assigned.
// The first Save without an explicit SetLocation uses the default location.
func New(optFns ...Option) *Store {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Store{
		deleted: roaring.New(),
		loc:     location.NewManager(opts.logger.Logger),
		opts:    opts,
	}
}

// Open loads a store from an existing .ivry file.
//
// The returned store adopts path as its location, so a following Save
// overwrites that same file. Open fails with ErrStoreNotFound when path is
// empty or no file exists there; decode failures are returned as errors and
// never yield a half-loaded store.
func Open(path string, optFns ...Option) (*Store, error) {
	s := New(optFns...)

	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrStoreNotFound)
	}
	if fi, err := os.Stat(path); err != nil || fi.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrStoreNotFound, path)
	}

	var snap *persistence.Snapshot
	err := persistence.LoadFromFile(path, func(r io.Reader) error {
		var err error
		snap, err = persistence.ReadSnapshot(r)
		return err
	})
	if err != nil {
		s.opts.logger.LogLoad(path, 0, 0, err)
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	s.rows = int(snap.Rows)
	s.attributes = make([]*Attribute, 0, len(snap.Columns))
	for _, col := range snap.Columns {
		s.attributes = append(s.attributes, &Attribute{name: col.Name, values: col.Values})
	}
	s.loc.Adopt(path)

	s.opts.logger.LogLoad(path, s.Rows(), s.Columns(), nil)
	return s, nil
}

// AddAttribute declares a new column and returns it. Cells for existing rows
// start as null.
//
// Duplicate names are not rejected; ColumnIndexOf resolves lookups to the
// first matching column, so distinct names are the caller's responsibility.
func (s *Store) AddAttribute(name string) *Attribute {
	a := newAttribute(name, s.rows)
	s.attributes = append(s.attributes, a)
	return a
}

// ColumnIndexOf returns the index of the first attribute named name, or -1
// if none matches. A missing name is a normal outcome, not an error.
func (s *Store) ColumnIndexOf(name string) int {
	for i, a := range s.attributes {
		if a.name == name {
			return i
		}
	}
	return -1
}

// Attribute returns the column at index i and whether i was in range.
func (s *Store) Attribute(i int) (*Attribute, bool) {
	if i < 0 || i >= len(s.attributes) {
		return nil, false
	}
	return s.attributes[i], true
}

// Attributes returns the columns in column order. The slice is a copy; the
// attributes themselves are the store's live columns.
func (s *Store) Attributes() []*Attribute {
	out := make([]*Attribute, len(s.attributes))
	copy(out, s.attributes)
	return out
}

// AttributeNames returns the column names in column order.
func (s *Store) AttributeNames() []string {
	names := make([]string, len(s.attributes))
	for i, a := range s.attributes {
		names[i] = a.name
	}
	return names
}

// Columns returns the number of attributes.
func (s *Store) Columns() int { return len(s.attributes) }

// Rows returns the number of live rows (tombstoned rows excluded).
func (s *Store) Rows() int {
	return s.rows - int(s.deleted.GetCardinality())
}

// SetLocation validates path and assigns it as the save target.
//
// The parent directory must exist (ErrDirectoryNotFound) and the name must
// end in .ivry (ErrInvalidFileType). If a file already exists at path, the
// location diverts to the first free collision-resolved name; an existing
// file is never adopted for overwriting.
func (s *Store) SetLocation(path string) error {
	return s.loc.Set(path)
}

// Location returns the current save path, or "" if none is assigned yet.
func (s *Store) Location() string { return s.loc.Path() }

// Name returns the file name of the current location, or "" if unset.
func (s *Store) Name() string { return s.loc.Name() }

// Rename renames the backing file, keeping its directory. The new name must
// contain no path separators, and an existing file with that name refuses
// the rename (ErrTargetExists) rather than being overwritten.
func (s *Store) Rename(newName string) error {
	err := s.loc.Rename(newName)
	s.opts.logger.LogRename(newName, err)
	return err
}

// Stats reports point-in-time store counters.
type Stats struct {
	Rows     int    // live rows
	Deleted  int    // tombstoned rows awaiting compaction
	Columns  int    // number of attributes
	Location string // current save path, "" if unset
}

// Stats returns current counters for logging and monitoring.
func (s *Store) Stats() Stats {
	return Stats{
		Rows:     s.Rows(),
		Deleted:  int(s.deleted.GetCardinality()),
		Columns:  len(s.attributes),
		Location: s.loc.Path(),
	}
}
