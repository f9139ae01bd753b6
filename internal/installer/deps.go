// Package installer drives the user-facing operations: install, use,
// autoswitch, and uninstall. It owns the download/extract pipeline and
// sequences the index client, version store, persistent state, and
// activation symlink into each operation.
package installer

import (
	"fzm/internal/index"
	"fzm/internal/progress"
	"fzm/internal/store"
)

// Deps carries every collaborator an operation needs. Each command
// invocation constructs its own Deps and threads it through explicitly;
// there is no ambient singleton.
type Deps struct {
	Index      *index.Client
	Store      *store.Store
	StatePath  string
	CacheDir   string
	SessionDir string // "" when no shell session is established
	Sink       progress.Sink
}
