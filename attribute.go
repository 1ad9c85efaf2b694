package ivory

import "github.com/hupe1980/ivory/value"

// Attribute is one named column: an ordered sequence of cell values, one per
// physical row. Columns are dynamically typed; any cell may hold any value
// kind, including null.
//
// Attributes are owned by their Store and must not be shared across stores.
type Attribute struct {
	name   string
	values []value.Value
}

func newAttribute(name string, rows int) *Attribute {
	a := &Attribute{
		name:   name,
		values: make([]value.Value, 0, rows),
	}
	// Pre-existing rows get null cells so the column stays in lockstep.
	for i := 0; i < rows; i++ {
		a.values = append(a.values, value.Null())
	}
	return a
}

// Name returns the attribute's name.
func (a *Attribute) Name() string { return a.name }

// Len returns the number of cells, including cells of tombstoned rows.
func (a *Attribute) Len() int { return len(a.values) }

// Value returns the cell at row i and whether i was in range.
func (a *Attribute) Value(i int) (value.Value, bool) {
	if i < 0 || i >= len(a.values) {
		return value.Value{}, false
	}
	return a.values[i], true
}

// Values returns a copy of the cell sequence. The store retains exclusive
// ownership of the underlying column.
func (a *Attribute) Values() []value.Value {
	return append([]value.Value(nil), a.values...)
}
