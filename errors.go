package ivory

import (
	"errors"
	"fmt"

	"github.com/hupe1980/ivory/location"
)

var (
	// ErrStoreNotFound is returned when a load path is empty or no file
	// exists there.
	ErrStoreNotFound = errors.New("store not found")

	// ErrRowNotFound is returned for row positions that are out of range or
	// deleted.
	ErrRowNotFound = errors.New("row not found")

	// ErrColumnNotFound is returned by cell accessors for column positions
	// that are out of range. Name-based lookups signal absence with -1
	// instead; a missing name is an expected outcome there, not an error.
	ErrColumnNotFound = errors.New("column not found")

	// ErrClosed is returned when operating on a closed store.
	ErrClosed = errors.New("store is closed")
)

// Location errors, re-exported so callers rarely need the location package.
var (
	// ErrDirectoryNotFound is returned by SetLocation when the parent
	// directory of the requested path does not exist.
	ErrDirectoryNotFound = location.ErrDirectoryNotFound

	// ErrInvalidFileType is returned by SetLocation when the requested path
	// does not end in the required .ivry extension.
	ErrInvalidFileType = location.ErrInvalidFileType

	// ErrInvalidName is returned for empty paths and for rename targets
	// containing path separators.
	ErrInvalidName = location.ErrInvalidName

	// ErrTargetExists is returned by Rename when a file with the target name
	// already exists. Recoverable: pick another name and retry.
	ErrTargetExists = location.ErrTargetExists
)

// ErrColumnCountMismatch indicates a row whose arity does not match the
// store's column count.
type ErrColumnCountMismatch struct {
	Expected int
	Actual   int
}

func (e *ErrColumnCountMismatch) Error() string {
	return fmt.Sprintf("column count mismatch: store has %d columns, row has %d values", e.Expected, e.Actual)
}
