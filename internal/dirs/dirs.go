// Package dirs resolves the directories fzm reads and writes. Explicit
// environment overrides win, then the platform convention (XDG on Linux,
// the Library folders on macOS) applied under the user's home directory.
package dirs

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Environment variables honored before any platform convention.
// FZM_DATA_DIR and FZM_CACHE_DIR exist for tests and power users;
// FZM_SESSION_DIR is exported by the shell hook for the current session.
const (
	EnvDataDir    = "FZM_DATA_DIR"
	EnvCacheDir   = "FZM_CACHE_DIR"
	EnvSessionDir = "FZM_SESSION_DIR"
)

// DataDir returns the root directory for persistent fzm data: the installed
// versions tree and the state file live under it.
func DataDir() (string, error) {
	if dir := os.Getenv(EnvDataDir); dir != "" {
		return dir, nil
	}
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "fzm"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("dirs: resolve home directory: %w", err)
	}
	if runtime.GOOS == "darwin" {
		return filepath.Join(home, "Library", "Application Support", "fzm"), nil
	}
	return filepath.Join(home, ".local", "share", "fzm"), nil
}

// CacheDir returns the directory downloaded artifacts are kept in.
func CacheDir() (string, error) {
	if dir := os.Getenv(EnvCacheDir); dir != "" {
		return dir, nil
	}
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "fzm"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("dirs: resolve home directory: %w", err)
	}
	if runtime.GOOS == "darwin" {
		return filepath.Join(home, "Library", "Caches", "fzm"), nil
	}
	return filepath.Join(home, ".cache", "fzm"), nil
}

// VersionsDir returns the root of the installed-versions tree, one
// subdirectory per installed specifier.
func VersionsDir() (string, error) {
	data, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(data, "versions"), nil
}

// StatePath returns the location of the persistent state file.
func StatePath() (string, error) {
	data, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(data, "state.json"), nil
}

// SessionDir returns the per-shell-session directory the activation symlink
// lives in, or "" when no session has been established. The directory is
// created by the shell hook, never by fzm itself.
func SessionDir() string {
	return os.Getenv(EnvSessionDir)
}
