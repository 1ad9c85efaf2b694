// Package codec centralizes snapshot metadata encoding.
//
// Ivory treats codec selection as a breaking-change boundary: snapshot files
// record the codec name in their header, and a file written with a codec this
// build does not know cannot be opened.
package codec

import "fmt"

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// ByName returns a built-in codec by its stable name.
//
// Snapshot files are self-describing: the header stores the codec name and
// the reader selects the codec with ByName.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "go-json":
		return GoJSON{}, true
	case "msgpack":
		return Msgpack{}, true
	default:
		return nil, false
	}
}

// Default is the default codec used by the library.
//
// NOTE: This affects newly-written snapshots only. Existing files record
// their codec name and are decoded with whatever they were written with.
var Default Codec = GoJSON{}

// MustMarshal is a helper for internal tests/benchmarks.
func MustMarshal(c Codec, v any) []byte {
	if c == nil {
		c = Default
	}
	b, err := c.Marshal(v)
	if err != nil {
		panic(fmt.Errorf("codec %s marshal failed: %w", c.Name(), err))
	}
	return b
}
