package ivory

import (
	"fmt"
	"io"

	"github.com/hupe1980/ivory/persistence"
)

// Save persists the whole store to its current location as one snapshot.
//
// If no location was ever assigned, the default location is used first.
// The write is atomic (temp file + rename) and fully replaces the previous
// snapshot at that path; the path itself was made collision-free when it was
// assigned, so this is the one intended overwrite.
//
// Tombstoned rows are compacted away before writing. A failed save leaves
// the in-memory store untouched and usable.
func (s *Store) Save() error {
	if s.closed {
		return ErrClosed
	}

	if !s.loc.HasPath() {
		path := s.loc.Default()
		s.opts.logger.Info("no location set, using default", "path", path)
	}
	path := s.loc.Path()

	s.Compact()
	snap := s.snapshot()

	err := persistence.SaveToFile(path, func(w io.Writer) error {
		return persistence.WriteSnapshot(w, snap, s.opts.codec, s.opts.compression)
	})
	s.opts.logger.LogSave(path, s.Rows(), s.Columns(), err)
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// snapshot captures the store's full state. Call after Compact so the row
// count covers every cell.
func (s *Store) snapshot() *persistence.Snapshot {
	snap := &persistence.Snapshot{
		Location: s.loc.Path(),
		Rows:     uint64(s.rows),
		Columns:  make([]persistence.Column, len(s.attributes)),
	}
	for i, a := range s.attributes {
		snap.Columns[i] = persistence.Column{Name: a.name, Values: a.values}
	}
	return snap
}
