// Package index talks to the remote Fir download index: a single JSON
// object keyed by version specifier, each value holding release metadata
// and per-platform artifacts.
package index

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"runtime"

	"fzm/internal/logger"
)

const (
	// DefaultURL is the well-known CDN location of the download index.
	DefaultURL = "https://fir-lang.org/download/index.json"

	// EnvIndexURL overrides the index location, primarily for tests.
	EnvIndexURL = "FZM_INDEX_URL"
)

// Specifier grammar: the literal "master", or exactly three dotted
// non-negative integer components. No prefix, no pre-release suffix.
var specifierRe = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

// Error taxonomy for resolution. Not-found is deliberately distinct from
// transport and parse failures: callers treat a missing version as a user
// error and the others as retry-hint failures.
var (
	ErrInvalidVersion  = errors.New("invalid version specifier")
	ErrIndexRequest    = errors.New("download index request failed")
	ErrIndexParse      = errors.New("download index is not valid JSON")
	ErrVersionNotFound = errors.New("version not found in download index")
)

// ValidateSpecifier checks the specifier grammar. It is called before any
// network or filesystem action so malformed input never causes I/O.
func ValidateSpecifier(specifier string) error {
	if specifier == "master" {
		return nil
	}
	if !specifierRe.MatchString(specifier) {
		return fmt.Errorf("%w: %q", ErrInvalidVersion, specifier)
	}
	return nil
}

// Client fetches and resolves entries from the download index.
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient creates a Client for the configured index URL, honoring the
// FZM_INDEX_URL override.
func NewClient() *Client {
	url := os.Getenv(EnvIndexURL)
	if url == "" {
		url = DefaultURL
	}
	return &Client{url: url, httpClient: http.DefaultClient}
}

// NewClientForURL creates a Client pinned to an explicit index URL.
func NewClientForURL(url string) *Client {
	return &Client{url: url, httpClient: http.DefaultClient}
}

// Resolve validates the specifier, fetches the index, and returns the
// matching version entry. The index is re-fetched on every call; install
// is rare enough that caching buys nothing.
func (c *Client) Resolve(specifier string) (*VersionInfo, error) {
	if err := ValidateSpecifier(specifier); err != nil {
		return nil, err
	}

	logger.Debug("[DEBUG] Fetching download index from %s\n", c.url)
	resp, err := c.httpClient.Get(c.url)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIndexRequest, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			logger.Warn("[WARN] Failed to close index response body: %v\n", cerr)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: HTTP status %d", ErrIndexRequest, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIndexRequest, err)
	}

	// The top level must be an object keyed by specifier. Decoding into
	// raw messages defers per-entry parsing until the key matches, so one
	// malformed entry elsewhere in the index cannot break resolution.
	var entries map[string]json.RawMessage
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIndexParse, err)
	}

	raw, ok := entries[specifier]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrVersionNotFound, specifier)
	}

	var info VersionInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return nil, fmt.Errorf("%w: entry %s: %v", ErrIndexParse, specifier, err)
	}
	logger.Debug("[DEBUG] Resolved %s to %s with %d platform artifacts\n",
		specifier, info.FullVersion(specifier), len(info.Artifacts))
	return &info, nil
}

// archNames maps Go's architecture names onto the index's convention.
var archNames = map[string]string{
	"amd64":   "x86_64",
	"arm64":   "aarch64",
	"386":     "x86",
	"arm":     "armv7a",
	"riscv64": "riscv64",
}

// osNames maps Go's OS names onto the index's convention.
var osNames = map[string]string{
	"darwin": "macos",
}

// PlatformKey returns the index key for the running platform, e.g.
// "x86_64-linux" or "aarch64-macos".
func PlatformKey() string {
	arch, ok := archNames[runtime.GOARCH]
	if !ok {
		arch = runtime.GOARCH
	}
	osName, ok := osNames[runtime.GOOS]
	if !ok {
		osName = runtime.GOOS
	}
	return arch + "-" + osName
}
