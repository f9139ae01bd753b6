package index

import (
	"encoding/json"
)

// Artifact is one platform's downloadable unit inside a version entry.
// It is only ever produced by parsing the index, never constructed.
type Artifact struct {
	Tarball string `json:"tarball"` // Download URL of the archive
	Shasum  string `json:"shasum"`  // Hex digest published by the index
	Size    string `json:"size"`    // Size in bytes, as a decimal string
}

// VersionInfo is the metadata the index publishes for one resolvable
// version. The index mixes plain metadata fields ("version", "date", ...)
// with per-platform artifact objects keyed by "<arch>-<os>", so the
// platform entries are collected into a map rather than a fixed struct.
type VersionInfo struct {
	// Version is the canonical resolved version string. Present for
	// "master" (a dev snapshot identifier such as 0.16.0-dev.2135+f8cbcd3f4);
	// tagged releases may omit it, in which case the specifier itself is
	// the full version.
	Version string
	Date    string
	Docs    string
	StdDocs string

	// Artifacts maps a platform key such as "x86_64-linux" to that
	// platform's artifact. Platforms without a build are simply absent.
	Artifacts map[string]Artifact
}

// metadataKeys are the index fields that are not platform entries. Unknown
// scalar fields are ignored for forward compatibility with index growth.
var metadataKeys = map[string]bool{
	"version":   true,
	"date":      true,
	"docs":      true,
	"stdDocs":   true,
	"notes":     true,
	"src":       true,
	"bootstrap": true,
}

// UnmarshalJSON splits the flat index entry into named metadata and the
// platform-keyed artifact map.
func (v *VersionInfo) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	v.Artifacts = make(map[string]Artifact)
	for key, val := range raw {
		switch key {
		case "version":
			if err := json.Unmarshal(val, &v.Version); err != nil {
				return err
			}
		case "date":
			if err := json.Unmarshal(val, &v.Date); err != nil {
				return err
			}
		case "docs":
			if err := json.Unmarshal(val, &v.Docs); err != nil {
				return err
			}
		case "stdDocs":
			if err := json.Unmarshal(val, &v.StdDocs); err != nil {
				return err
			}
		default:
			if metadataKeys[key] {
				continue
			}
			// Anything else is a candidate platform entry. Entries that do
			// not decode into an artifact object are unknown metadata and
			// are skipped rather than failing the whole entry.
			var art Artifact
			if err := json.Unmarshal(val, &art); err != nil {
				continue
			}
			if art.Tarball == "" {
				continue
			}
			v.Artifacts[key] = art
		}
	}
	return nil
}

// FullVersion returns the canonical version string for an entry resolved
// from the given specifier: the index-provided "version" field when
// present, otherwise the specifier itself.
func (v *VersionInfo) FullVersion(specifier string) string {
	if v.Version != "" {
		return v.Version
	}
	return specifier
}
