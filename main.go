package main

import (
	"fzm/cmd" // Import the cmd package which contains the CLI commands and execution logic
)

// main is the program entry point.
// It delegates to cmd.Execute() which handles command line argument parsing and execution.
//
// fzm is a version manager for the Fir compiler toolchain. It:
//   - Installs toolchain versions ("master" or exact X.Y.Z releases) by resolving them
//     against the remote download index, streaming the platform artifact into a local
//     cache, and extracting it into a directory-per-version store
//   - Tracks which version is in use through a small JSON state file, tolerating a
//     corrupt state file by falling back to an empty state
//   - Exposes the active version to the current shell session through a symlink inside
//     a per-session directory
//   - Autoswitches to a project-appropriate version by reading a minimum-version
//     constraint from the project manifest, without persisting a global preference
//
// Error handling strategy:
//   - Every user-facing failure maps to a single-line message and a non-zero exit code
//   - Symlink maintenance is best effort: a broken session link prints a warning but
//     never fails a command that otherwise succeeded
func main() {
	cmd.Execute()
}
