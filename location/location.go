// Package location resolves where a store's snapshot lives on disk.
//
// The manager owns three policies: the .ivry extension requirement, the
// default-directory bootstrap under the working directory, and collision
// resolution, which never hands out a path that already points at a file.
package location

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

const (
	// Extension is the required file extension for persisted stores.
	Extension = ".ivry"

	// DefaultDirName is the directory created under the working directory
	// when no explicit location was ever set.
	DefaultDirName = "ivory-databases"

	// DefaultFileName is the file name used inside DefaultDirName.
	DefaultFileName = "ivory-database" + Extension
)

var (
	// ErrDirectoryNotFound is returned when the parent directory of a
	// requested location does not exist.
	ErrDirectoryNotFound = errors.New("location: parent directory does not exist")

	// ErrInvalidFileType is returned when a requested location does not end
	// in the required extension.
	ErrInvalidFileType = errors.New("location: file extension must be " + Extension)

	// ErrInvalidName is returned for empty names and for rename targets that
	// contain path separators.
	ErrInvalidName = errors.New("location: invalid name")

	// ErrTargetExists is returned when a rename would overwrite an existing
	// file. This is a recoverable condition: pick another name and retry.
	ErrTargetExists = errors.New("location: target file already exists")

	// ErrNotSet is returned when an operation needs a current location and
	// none has been assigned yet.
	ErrNotSet = errors.New("location: no location set")
)

// Manager tracks the single file path a store persists to.
//
// The path starts unset; it becomes set through Set, Default or Adopt and is
// then consumed by every subsequent save. Manager is not safe for concurrent
// use, matching the single-threaded store that owns it.
type Manager struct {
	path   string
	logger *slog.Logger
}

// NewManager creates a Manager with no location assigned.
// If logger is nil, log output is discarded.
func NewManager(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Manager{logger: logger}
}

// Path returns the current location, or "" if none has been assigned.
func (m *Manager) Path() string { return m.path }

// HasPath reports whether a location has been assigned.
func (m *Manager) HasPath() bool { return m.path != "" }

// Name returns the file name of the current location, or "" if unset.
func (m *Manager) Name() string {
	if m.path == "" {
		return ""
	}
	return filepath.Base(m.path)
}

// Dir returns the parent directory of the current location, or "" if unset.
func (m *Manager) Dir() string {
	if m.path == "" {
		return ""
	}
	return filepath.Dir(m.path)
}

// Set validates path and assigns it as the current location.
//
// The parent directory must exist and the file name must end in Extension.
// If a file already exists at path, the location is diverted to the first
// free collision-resolved name instead; the existing file is never reused.
func (m *Manager) Set(path string) error {
	if path == "" {
		return fmt.Errorf("%w: empty path", ErrInvalidName)
	}

	dir := filepath.Dir(path)
	if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
		return fmt.Errorf("%w: %s", ErrDirectoryNotFound, dir)
	}

	if filepath.Ext(path) != Extension {
		return fmt.Errorf("%w: %s", ErrInvalidFileType, filepath.Base(path))
	}

	if fileExists(path) {
		resolved := ResolveCollision(path)
		m.logger.Info("location already taken, resolved collision",
			"requested", path,
			"resolved", resolved,
		)
		path = resolved
	}

	m.path = path
	return nil
}

// Default assigns the bootstrap location used when the caller never set one:
// DefaultFileName inside DefaultDirName under the working directory.
//
// The directory is created if absent; creation failure is logged and the
// path is computed regardless, so the subsequent save surfaces the real
// filesystem error. The returned path never points at an existing file.
func (m *Manager) Default() string {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}

	dir := filepath.Join(wd, DefaultDirName)
	if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
		if mkErr := os.Mkdir(dir, 0o755); mkErr != nil {
			m.logger.Warn("default directory creation failed",
				"dir", dir,
				"error", mkErr,
			)
		} else {
			m.logger.Info("default directory created", "dir", dir)
		}
	}

	path := filepath.Join(dir, DefaultFileName)
	if fileExists(path) {
		path = ResolveCollision(path)
	}

	m.path = path
	return path
}

// Adopt assigns path without validation or collision handling.
//
// This is for reopening an existing snapshot file: the file is supposed to
// exist, so collision resolution must not divert away from it.
func (m *Manager) Adopt(path string) { m.path = path }

// Rename renames the on-disk file behind the current location to newName,
// keeping the parent directory.
//
// newName must be non-empty and contain no path separators; renaming never
// relocates the file. An existing file with the target name refuses the
// rename rather than being overwritten. On success the current location
// reflects the new name.
func (m *Manager) Rename(newName string) error {
	if !m.HasPath() {
		return ErrNotSet
	}
	if newName == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidName)
	}
	for i := 0; i < len(newName); i++ {
		if os.IsPathSeparator(newName[i]) {
			return fmt.Errorf("%w: %q contains a path separator", ErrInvalidName, newName)
		}
	}

	target := filepath.Join(filepath.Dir(m.path), newName)
	if fileExists(target) {
		return fmt.Errorf("%w: %s", ErrTargetExists, target)
	}

	if err := os.Rename(m.path, target); err != nil {
		return err
	}

	m.path = target
	return nil
}

// ResolveCollision derives a path that does not exist on disk by appending
// the lowest free numeric suffix to the file name: given dir/name.ivry, the
// first candidate is dir/name(1).ivry, then dir/name(2).ivry, and so on.
//
// The check-then-create window makes this safe only for the single-process,
// sequential use the store assumes.
func ResolveCollision(path string) string {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)

	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s(%d)%s", base, n, ext)
		if !fileExists(candidate) {
			return candidate
		}
	}
}

func fileExists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && !fi.IsDir()
}
