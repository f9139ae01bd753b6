package installer

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSink captures sink calls for assertions.
type recordingSink struct {
	statuses []string
	updates  []int64
	total    int64
}

func (r *recordingSink) Status(message string) {
	r.statuses = append(r.statuses, message)
}

func (r *recordingSink) Download(downloaded, total int64) {
	r.updates = append(r.updates, downloaded)
	r.total = total
}

func TestDownload(t *testing.T) {
	payload := []byte("artifact bytes, long enough to be read in chunks")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(payload)
	}))
	defer server.Close()

	cacheDir := filepath.Join(t.TempDir(), "cache")
	sink := &recordingSink{}

	got, err := Download(server.URL+"/builds/fir-linux-x86_64-0.13.0.tar.xz", cacheDir, sink)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(cacheDir, "fir-linux-x86_64-0.13.0.tar.xz"), got,
		"cache name must be the basename of the tarball URL")

	data, err := os.ReadFile(got)
	require.NoError(t, err)
	assert.Equal(t, payload, data)

	require.NotEmpty(t, sink.updates)
	assert.Equal(t, int64(len(payload)), sink.updates[len(sink.updates)-1])
	assert.Equal(t, int64(len(payload)), sink.total)
}

func TestDownloadHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	cacheDir := filepath.Join(t.TempDir(), "cache")
	_, err := Download(server.URL+"/missing.tar.xz", cacheDir, &recordingSink{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP status 404")

	// A failed download must leave nothing under the final cache name.
	_, statErr := os.Stat(filepath.Join(cacheDir, "missing.tar.xz"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestDownloadOverwritesStaleCache(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("fresh"))
	}))
	defer server.Close()

	cacheDir := t.TempDir()
	stale := filepath.Join(cacheDir, "artifact.tar.xz")
	require.NoError(t, os.WriteFile(stale, []byte("stale leftovers"), 0o644))

	got, err := Download(server.URL+"/artifact.tar.xz", cacheDir, &recordingSink{})
	require.NoError(t, err)

	data, err := os.ReadFile(got)
	require.NoError(t, err)
	assert.Equal(t, "fresh", string(data))
}
