// Package state persists the single mutable record fzm keeps between
// invocations: which installed version is in use.
package state

import (
	"encoding/json" // JSON encoding and decoding of the state file
	"fmt"
	"os"
	"path/filepath"

	"fzm/internal/logger"
)

// State is the persistent record, one instance per user.
//
// InUse holds the specifier of the active version; the empty string means
// no version is in use. With omitempty the cleared and never-set states
// serialize identically, so there is exactly one observable "nothing
// active" condition.
//
// Aliases is a forward-compatible placeholder for user-defined version
// aliases. Nothing populates it yet, but values found in an existing state
// file survive a load/save round trip.
type State struct {
	InUse   string            `json:"in_use,omitempty"`
	Aliases map[string]string `json:"aliases,omitempty"`
}

// Load reads the state file at the given path. It never fails the caller:
// a missing file yields an empty state, and an unreadable or corrupt file
// is treated identically, silently discarding the corruption. The state
// file is a low-stakes preference file; availability wins over surfacing
// a parse error the user could do nothing about.
func Load(path string) *State {
	file, err := os.ReadFile(path)
	if err != nil {
		return &State{}
	}

	var st State
	if err := json.Unmarshal(file, &st); err != nil {
		logger.Debug("[DEBUG] State file %s is corrupt (%v), starting fresh\n", path, err)
		return &State{}
	}
	return &st
}

// Save writes the state as indented JSON, creating the owning directory if
// absent. Write failures propagate; unlike load, a failed save loses a
// mutation the user asked for.
func Save(path string, st *State) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("state: marshal: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("state: create state directory: %w", err)
	}

	logger.Debug("[DEBUG] Writing state to %s:\n%s\n", path, string(data))
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("state: write %s: %w", path, err)
	}
	return nil
}
