package installer

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"fzm/internal/logger"
	"fzm/internal/progress"
)

// ErrNoArtifact reports that the index has no build of the requested
// version for the running platform. It is distinct from a download
// failure: the remote end is healthy, it just never built this OS/arch.
var ErrNoArtifact = errors.New("no build available for this platform")

// Download streams the artifact at rawURL into the cache directory,
// reporting progress per chunk. The response body is written to a
// temporary file and renamed into place, so the final cache name is never
// partially present when Download reports success. A non-OK status fails
// before any file is created.
func Download(rawURL, cacheDir string, sink progress.Sink) (string, error) {
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return "", fmt.Errorf("installer: create cache directory: %w", err)
	}

	resp, err := http.Get(rawURL)
	if err != nil {
		return "", fmt.Errorf("installer: download %s: %w", rawURL, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			logger.Warn("[WARN] Failed to close download response body: %v\n", cerr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("installer: download %s: HTTP status %d", rawURL, resp.StatusCode)
	}

	tmp, err := os.CreateTemp(cacheDir, "download-*.tmp")
	if err != nil {
		return "", fmt.Errorf("installer: create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		tmp.Close()
		os.Remove(tmpPath)
	}()

	// ContentLength is -1 for chunked transfers; the sink degrades to
	// bytes-only reporting in that case.
	reader := &progressReader{r: resp.Body, total: resp.ContentLength, sink: sink}
	if _, err := io.Copy(tmp, reader); err != nil {
		return "", fmt.Errorf("installer: write download: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return "", fmt.Errorf("installer: sync download: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("installer: close download: %w", err)
	}

	finalPath := filepath.Join(cacheDir, cacheName(rawURL))
	if err := os.Remove(finalPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("installer: remove stale cache file: %w", err)
	}
	if err := os.Rename(tmpPath, finalPath); err != nil {
		return "", fmt.Errorf("installer: finalize download: %w", err)
	}

	logger.Debug("[DEBUG] Cached artifact at %s\n", finalPath)
	return finalPath, nil
}

// cacheName derives the cache filename from the artifact URL's basename.
func cacheName(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		return path.Base(u.Path)
	}
	return path.Base(rawURL)
}

// progressReader forwards reads while reporting the running byte count to
// the sink. It is invoked synchronously per chunk; the transfer is never
// blocked on rendering beyond the sink call itself.
type progressReader struct {
	r     io.Reader
	total int64
	read  int64
	sink  progress.Sink
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.read += int64(n)
		p.sink.Download(p.read, p.total)
	}
	return n, err
}
