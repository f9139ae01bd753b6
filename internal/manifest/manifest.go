// Package manifest reads the per-project fir.yaml manifest, the input to
// autoswitching. Only the minimum-version constraint matters to fzm; the
// rest of the manifest belongs to the build system.
package manifest

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the project manifest fzm looks for in a directory.
const FileName = "fir.yaml"

// MinimumVersion returns the minimum-version constraint declared by the
// manifest in dir. Absence of the manifest, of the field, or a manifest
// that does not parse all yield ("", nil): autoswitch runs on every
// directory change and silence is the contract for "nothing to do".
func MinimumVersion(dir string) string {
	raw, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		return ""
	}

	var doc struct {
		MinimumVersion string `yaml:"minimum_version"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return ""
	}
	return doc.MinimumVersion
}
