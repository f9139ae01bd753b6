package installer

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fzm/internal/activate"
	"fzm/internal/index"
	"fzm/internal/manifest"
	"fzm/internal/progress"
	"fzm/internal/state"
	"fzm/internal/store"
)

// mockServer serves a download index plus the archives it references,
// standing in for the CDN. Entries can be swapped between requests to
// simulate master moving upstream.
type mockServer struct {
	*httptest.Server

	mu       sync.Mutex
	entries  map[string]map[string]any
	archives map[string][]byte
}

func newMockServer(t *testing.T) *mockServer {
	t.Helper()
	m := &mockServer{
		entries:  make(map[string]map[string]any),
		archives: make(map[string][]byte),
	}
	m.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.mu.Lock()
		defer m.mu.Unlock()
		if r.URL.Path == "/index.json" {
			_ = json.NewEncoder(w).Encode(m.entries)
			return
		}
		data, ok := m.archives[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(data)
	}))
	t.Cleanup(m.Close)
	return m
}

// addVersion publishes a version entry whose platform artifact is a
// generated single-root tar.gz containing the toolchain executable.
func (m *mockServer) addVersion(t *testing.T, specifier, fullVersion string) {
	t.Helper()
	rootDir := fmt.Sprintf("fir-%s", fullVersion)
	archive := buildTarGz(t, []archiveEntry{
		{name: rootDir, dir: true, mode: 0o755},
		{name: rootDir + "/" + store.ExecutableName(), body: "binary " + fullVersion, mode: 0o755},
		{name: rootDir + "/lib", dir: true, mode: 0o755},
		{name: rootDir + "/lib/std.fir", body: "module std\n", mode: 0o644},
	})
	archivePath := fmt.Sprintf("/builds/fir-%s.tar.gz", fullVersion)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.archives[archivePath] = archive
	entry := map[string]any{
		index.PlatformKey(): map[string]string{
			"tarball": m.URL + archivePath,
			"shasum":  "0000",
			"size":    fmt.Sprint(len(archive)),
		},
	}
	if fullVersion != specifier {
		entry["version"] = fullVersion
	}
	m.entries[specifier] = entry
}

func newTestDeps(t *testing.T, srv *mockServer) Deps {
	t.Helper()
	base := t.TempDir()
	return Deps{
		Index:      index.NewClientForURL(srv.URL + "/index.json"),
		Store:      store.New(filepath.Join(base, "versions")),
		StatePath:  filepath.Join(base, "state.json"),
		CacheDir:   filepath.Join(base, "cache"),
		SessionDir: "",
		Sink:       progress.Discard{},
	}
}

func TestInstall(t *testing.T) {
	srv := newMockServer(t)
	srv.addVersion(t, "0.13.0", "0.13.0")
	d := newTestDeps(t, srv)

	require.NoError(t, Install(d, "0.13.0"))

	// Marker records the resolved full version.
	marker, err := os.ReadFile(filepath.Join(d.Store.Dir("0.13.0"), store.MarkerFile))
	require.NoError(t, err)
	assert.Equal(t, "0.13.0\n", string(marker))

	// Payload was extracted with the archive root stripped.
	body, err := os.ReadFile(d.Store.ExecutablePath("0.13.0"))
	require.NoError(t, err)
	assert.Equal(t, "binary 0.13.0", string(body))
	_, err = os.Stat(filepath.Join(d.Store.Dir("0.13.0"), "lib", "std.fir"))
	require.NoError(t, err)

	// First install bootstraps the in-use version.
	assert.Equal(t, "0.13.0", state.Load(d.StatePath).InUse)
}

func TestInstallIdempotent(t *testing.T) {
	srv := newMockServer(t)
	srv.addVersion(t, "0.13.0", "0.13.0")
	d := newTestDeps(t, srv)

	require.NoError(t, Install(d, "0.13.0"))
	require.NoError(t, Install(d, "0.13.0"), "second install must succeed as a no-op")

	specifiers, err := d.Store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"0.13.0"}, specifiers, "exactly one directory under the specifier")
}

func TestInstallMasterUpdatesInPlace(t *testing.T) {
	srv := newMockServer(t)
	srv.addVersion(t, "master", "0.16.0-dev.100+aaa")
	d := newTestDeps(t, srv)

	require.NoError(t, Install(d, "master"))
	full, err := d.Store.Installed("master")
	require.NoError(t, err)
	assert.Equal(t, "0.16.0-dev.100+aaa", full)

	// Upstream master moves; reinstall overwrites the same directory.
	srv.addVersion(t, "master", "0.16.0-dev.200+bbb")
	require.NoError(t, Install(d, "master"))

	full, err = d.Store.Installed("master")
	require.NoError(t, err)
	assert.Equal(t, "0.16.0-dev.200+bbb", full)

	body, err := os.ReadFile(d.Store.ExecutablePath("master"))
	require.NoError(t, err)
	assert.Equal(t, "binary 0.16.0-dev.200+bbb", string(body))
}

func TestInstallDoesNotStealInUse(t *testing.T) {
	srv := newMockServer(t)
	srv.addVersion(t, "0.13.0", "0.13.0")
	srv.addVersion(t, "0.14.0", "0.14.0")
	d := newTestDeps(t, srv)

	require.NoError(t, Install(d, "0.13.0"))
	require.NoError(t, Install(d, "0.14.0"))

	assert.Equal(t, "0.13.0", state.Load(d.StatePath).InUse,
		"only the first install bootstraps activation")
}

func TestInstallNoArtifactForPlatform(t *testing.T) {
	srv := newMockServer(t)
	srv.mu.Lock()
	srv.entries["0.13.0"] = map[string]any{
		"imaginary-arch-imaginary-os": map[string]string{
			"tarball": srv.URL + "/builds/nothing.tar.gz",
			"shasum":  "0000",
			"size":    "1",
		},
	}
	srv.mu.Unlock()
	d := newTestDeps(t, srv)

	err := Install(d, "0.13.0")
	require.ErrorIs(t, err, ErrNoArtifact)

	// Nothing may be reported installed after a failed install.
	_, err = d.Store.Installed("0.13.0")
	require.ErrorIs(t, err, store.ErrNotInstalled)
}

func TestInstallLeavesNoMarkerOnBadArchive(t *testing.T) {
	srv := newMockServer(t)
	srv.addVersion(t, "0.13.0", "0.13.0")
	srv.mu.Lock()
	srv.archives["/builds/fir-0.13.0.tar.gz"] = []byte("not a gzip stream")
	srv.mu.Unlock()
	d := newTestDeps(t, srv)

	require.Error(t, Install(d, "0.13.0"))

	_, err := d.Store.Installed("0.13.0")
	require.ErrorIs(t, err, store.ErrNotInstalled,
		"a failed extraction must not leave the version looking installed")
}

func TestUse(t *testing.T) {
	srv := newMockServer(t)
	srv.addVersion(t, "0.13.0", "0.13.0")
	srv.addVersion(t, "0.14.0", "0.14.0")
	d := newTestDeps(t, srv)
	d.SessionDir = t.TempDir()

	require.NoError(t, Install(d, "0.13.0"))
	require.NoError(t, Install(d, "0.14.0"))

	require.NoError(t, Use(d, "0.14.0"))
	assert.Equal(t, "0.14.0", state.Load(d.StatePath).InUse)
	assert.Equal(t, d.Store.ExecutablePath("0.14.0"), activate.Target(d.SessionDir))
}

func TestUseNotInstalled(t *testing.T) {
	srv := newMockServer(t)
	d := newTestDeps(t, srv)

	err := Use(d, "0.9.9")
	require.ErrorIs(t, err, store.ErrNotInstalled)
	assert.Contains(t, err.Error(), "is not installed")
}

func TestAutoswitch(t *testing.T) {
	srv := newMockServer(t)
	srv.addVersion(t, "0.15.2", "0.15.2")
	d := newTestDeps(t, srv)
	d.SessionDir = t.TempDir()
	require.NoError(t, Install(d, "0.15.2"))

	project := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(project, manifest.FileName),
		[]byte("minimum_version: 0.15.0\n"), 0o644))

	require.NoError(t, Autoswitch(d, project))
	assert.Equal(t, d.Store.ExecutablePath("0.15.2"), activate.Target(d.SessionDir))

	// Autoswitch is directory-scoped: it never persists state.
	assert.Equal(t, "0.15.2", state.Load(d.StatePath).InUse,
		"still the bootstrap value from install")
}

func TestAutoswitchSilentCases(t *testing.T) {
	srv := newMockServer(t)
	d := newTestDeps(t, srv)
	d.SessionDir = t.TempDir()

	t.Run("no manifest", func(t *testing.T) {
		require.NoError(t, Autoswitch(d, t.TempDir()))
		assert.Empty(t, activate.Target(d.SessionDir))
	})

	t.Run("no matching version", func(t *testing.T) {
		project := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(project, manifest.FileName),
			[]byte("minimum_version: 9.9.9\n"), 0o644))
		require.NoError(t, Autoswitch(d, project))
		assert.Empty(t, activate.Target(d.SessionDir))
	})
}

func TestUninstall(t *testing.T) {
	srv := newMockServer(t)
	srv.addVersion(t, "0.13.0", "0.13.0")
	d := newTestDeps(t, srv)
	d.SessionDir = t.TempDir()

	require.NoError(t, Install(d, "0.13.0"))
	require.NoError(t, Use(d, "0.13.0"))

	require.NoError(t, Uninstall(d, "0.13.0"))

	// Directory gone, in-use cleared, symlink removed.
	_, err := os.Stat(d.Store.Dir("0.13.0"))
	assert.True(t, os.IsNotExist(err))
	assert.Empty(t, state.Load(d.StatePath).InUse)
	assert.Empty(t, activate.Target(d.SessionDir))
}

func TestUninstallKeepsOtherVersionActive(t *testing.T) {
	srv := newMockServer(t)
	srv.addVersion(t, "0.13.0", "0.13.0")
	srv.addVersion(t, "0.14.0", "0.14.0")
	d := newTestDeps(t, srv)

	require.NoError(t, Install(d, "0.13.0"))
	require.NoError(t, Install(d, "0.14.0"))
	require.NoError(t, Use(d, "0.14.0"))

	require.NoError(t, Uninstall(d, "0.13.0"))
	assert.Equal(t, "0.14.0", state.Load(d.StatePath).InUse,
		"uninstalling an inactive version must not touch in-use")
}

func TestUninstallNotInstalled(t *testing.T) {
	srv := newMockServer(t)
	srv.addVersion(t, "0.13.0", "0.13.0")
	d := newTestDeps(t, srv)
	require.NoError(t, Install(d, "0.13.0"))

	err := Uninstall(d, "0.12.0")
	require.ErrorIs(t, err, store.ErrNotInstalled)
	assert.Contains(t, err.Error(), "is not installed")

	// No filesystem mutation happened.
	specifiers, listErr := d.Store.List()
	require.NoError(t, listErr)
	assert.Equal(t, []string{"0.13.0"}, specifiers)
}
