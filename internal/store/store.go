// Package store manages the on-disk layout of installed toolchain
// versions: one directory per specifier under the versions root, each
// holding the extracted payload and a marker file recording the resolved
// full version. A directory counts as installed only once its marker
// exists; the marker is written last, after extraction succeeds.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/Masterminds/semver/v3"

	"fzm/internal/logger"
)

const (
	// MarkerFile records the resolved full version inside a version
	// directory, whitespace-trimmed plain text.
	MarkerFile = ".fzm-version"

	// executableBase is the toolchain's main executable name.
	executableBase = "fir"
)

// ErrNotInstalled reports that no completed installation exists for a
// specifier. Callers decide whether that is benign (autoswitch, install's
// first-time path) or a user error (use, uninstall).
var ErrNotInstalled = errors.New("version is not installed")

// Store reads and mutates the versions tree rooted at a single directory.
type Store struct {
	root string
}

// New creates a Store over the given versions root. The root may not exist
// yet; enumeration treats that as an empty store.
func New(root string) *Store {
	return &Store{root: root}
}

// Root returns the versions root directory.
func (s *Store) Root() string {
	return s.root
}

// Dir returns the directory a specifier installs into.
func (s *Store) Dir(specifier string) string {
	return filepath.Join(s.root, specifier)
}

// ExecutableName returns the platform-specific toolchain executable name.
func ExecutableName() string {
	if runtime.GOOS == "windows" {
		return executableBase + ".exe"
	}
	return executableBase
}

// ExecutablePath returns the path of the installed executable for a
// specifier. It does not check that the file exists.
func (s *Store) ExecutablePath(specifier string) string {
	return filepath.Join(s.Dir(specifier), ExecutableName())
}

// Installed returns the resolved full version recorded for a specifier.
// A missing directory or marker file is ErrNotInstalled, a normal negative
// result rather than a failure.
func (s *Store) Installed(specifier string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.Dir(specifier), MarkerFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNotInstalled, specifier)
		}
		return "", fmt.Errorf("store: read version marker for %s: %w", specifier, err)
	}
	return strings.TrimSpace(string(data)), nil
}

// WriteMarker records the resolved full version for a specifier,
// completing an installation. Install calls this only after extraction
// succeeded, which is what makes "installed" well-defined.
func (s *Store) WriteMarker(specifier, fullVersion string) error {
	path := filepath.Join(s.Dir(specifier), MarkerFile)
	if err := os.WriteFile(path, []byte(fullVersion+"\n"), 0o644); err != nil {
		return fmt.Errorf("store: write version marker for %s: %w", specifier, err)
	}
	return nil
}

// Remove deletes a version directory and everything under it.
func (s *Store) Remove(specifier string) error {
	if err := os.RemoveAll(s.Dir(specifier)); err != nil {
		return fmt.Errorf("store: remove %s: %w", specifier, err)
	}
	return nil
}

// List enumerates installed specifiers (the subdirectory names of the
// versions root). A missing root yields an empty list.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("store: read versions directory: %w", err)
	}

	var specifiers []string
	for _, entry := range entries {
		if entry.IsDir() {
			specifiers = append(specifiers, entry.Name())
		}
	}
	return specifiers, nil
}

// FindBestMatch resolves a minimum-version constraint against the
// installed set: among entries whose full version shares the constraint's
// major and minor components and orders at or above it, the greatest wins.
// Standard semver precedence applies, so a release outranks a dev snapshot
// with the same numeric core. The returned value is the specifier
// (directory name), or "" when nothing qualifies.
func (s *Store) FindBestMatch(minVersion string) (string, error) {
	constraint, err := semver.NewVersion(minVersion)
	if err != nil {
		return "", fmt.Errorf("store: parse constraint %q: %w", minVersion, err)
	}

	specifiers, err := s.List()
	if err != nil {
		return "", err
	}

	var bestSpecifier string
	var best *semver.Version
	for _, specifier := range specifiers {
		full, err := s.Installed(specifier)
		if err != nil {
			// Tolerate manually placed directories without a marker by
			// falling back to the directory name itself.
			full = specifier
		}

		v, err := semver.NewVersion(full)
		if err != nil {
			logger.Debug("[DEBUG] Skipping %s: %q is not a parseable version\n", specifier, full)
			continue
		}
		if v.Major() != constraint.Major() || v.Minor() != constraint.Minor() {
			continue
		}
		if v.LessThan(constraint) {
			continue
		}
		if best == nil || v.GreaterThan(best) {
			bestSpecifier = specifier
			best = v
		}
	}
	return bestSpecifier, nil
}
