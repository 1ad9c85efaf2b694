package ivory

import (
	"fmt"

	"github.com/hupe1980/ivory/value"
)

// AppendRow appends one row, one value per attribute in column order.
// The arity must match the column count exactly.
func (s *Store) AppendRow(vals ...value.Value) error {
	if s.closed {
		return ErrClosed
	}
	if len(vals) != len(s.attributes) {
		return &ErrColumnCountMismatch{Expected: len(s.attributes), Actual: len(vals)}
	}

	for i, a := range s.attributes {
		a.values = append(a.values, vals[i])
	}
	s.rows++
	return nil
}

// Row returns the cells of row i in column order.
// Deleted and out-of-range positions fail with ErrRowNotFound.
func (s *Store) Row(i int) ([]value.Value, error) {
	if err := s.checkRow(i); err != nil {
		return nil, err
	}

	out := make([]value.Value, len(s.attributes))
	for c, a := range s.attributes {
		out[c] = a.values[i]
	}
	return out, nil
}

// DeleteRow tombstones row i. The position stays occupied until Compact;
// deleting an already-deleted row fails with ErrRowNotFound.
func (s *Store) DeleteRow(i int) error {
	if err := s.checkRow(i); err != nil {
		return err
	}
	s.deleted.Add(uint32(i))
	return nil
}

// FindRow returns the position of the first live row whose cell in the named
// column equals v, or -1 if the column is missing or no row matches.
func (s *Store) FindRow(attrName string, v value.Value) int {
	col := s.ColumnIndexOf(attrName)
	if col < 0 {
		return -1
	}

	a := s.attributes[col]
	for i := 0; i < s.rows; i++ {
		if s.deleted.Contains(uint32(i)) {
			continue
		}
		if a.values[i].Equal(v) {
			return i
		}
	}
	return -1
}

// ValueAt returns the cell at (row, col).
func (s *Store) ValueAt(row, col int) (value.Value, error) {
	if err := s.checkRow(row); err != nil {
		return value.Value{}, err
	}
	if col < 0 || col >= len(s.attributes) {
		return value.Value{}, fmt.Errorf("%w: index %d", ErrColumnNotFound, col)
	}
	return s.attributes[col].values[row], nil
}

// SetValue replaces the cell at (row, col).
func (s *Store) SetValue(row, col int, v value.Value) error {
	if s.closed {
		return ErrClosed
	}
	if err := s.checkRow(row); err != nil {
		return err
	}
	if col < 0 || col >= len(s.attributes) {
		return fmt.Errorf("%w: index %d", ErrColumnNotFound, col)
	}
	s.attributes[col].values[row] = v
	return nil
}

// Compact drops tombstoned rows and renumbers the remainder. Positions of
// surviving rows shift down; callers holding row indexes must refresh them.
// Save compacts implicitly so persisted files contain only live rows.
func (s *Store) Compact() {
	if s.deleted.IsEmpty() {
		return
	}

	for _, a := range s.attributes {
		kept := a.values[:0]
		for i, v := range a.values {
			if !s.deleted.Contains(uint32(i)) {
				kept = append(kept, v)
			}
		}
		a.values = kept
	}

	s.rows -= int(s.deleted.GetCardinality())
	s.deleted.Clear()
}

func (s *Store) checkRow(i int) error {
	if s.closed {
		return ErrClosed
	}
	if i < 0 || i >= s.rows || s.deleted.Contains(uint32(i)) {
		return fmt.Errorf("%w: position %d", ErrRowNotFound, i)
	}
	return nil
}
