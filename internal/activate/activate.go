// Package activate maintains the per-session symlink that exposes the
// active toolchain version to the shell. The session directory is created
// by the shell hook and handed in via the environment; fzm only ever
// places or removes the one link inside it.
//
// Everything here is best effort by design: callers downgrade failures to
// warnings, because a broken symlink must never abort an install, use, or
// uninstall that otherwise succeeded.
package activate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"fzm/internal/store"
)

// Link points the session symlink at the given executable, replacing any
// existing link. Removal-then-create matches how shells resolve the link:
// there is a window with no link, never a window with a stale target under
// a fresh name.
func Link(sessionDir, execPath string) error {
	linkPath := filepath.Join(sessionDir, store.ExecutableName())

	if err := os.Remove(linkPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("activate: remove old symlink: %w", err)
	}
	if err := os.Symlink(execPath, linkPath); err != nil {
		return fmt.Errorf("activate: create symlink: %w", err)
	}
	return nil
}

// Unlink removes the session symlink if present. A missing link is fine.
func Unlink(sessionDir string) error {
	linkPath := filepath.Join(sessionDir, store.ExecutableName())
	if err := os.Remove(linkPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("activate: remove symlink: %w", err)
	}
	return nil
}

// Target reports what the session symlink currently points at, or "" when
// no link exists. Used by list to annotate the session-active version.
func Target(sessionDir string) string {
	linkPath := filepath.Join(sessionDir, store.ExecutableName())
	target, err := os.Readlink(linkPath)
	if err != nil {
		return ""
	}
	return target
}
