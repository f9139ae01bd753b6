package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFile(t *testing.T) {
	st := Load(filepath.Join(t.TempDir(), "state.json"))
	require.NotNil(t, st)
	assert.Empty(t, st.InUse)
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{in_use: 0.15"), 0o644))

	// Corruption is swallowed, not surfaced: the file behaves as missing.
	st := Load(path)
	require.NotNil(t, st)
	assert.Empty(t, st.InUse)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")

	st := &State{InUse: "0.15.2"}
	require.NoError(t, Save(path, st))

	loaded := Load(path)
	assert.Equal(t, "0.15.2", loaded.InUse)
}

func TestClearedInUseSerializesAsAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, Save(path, &State{InUse: ""}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "in_use",
		"cleared and never-set must be the same on-disk state")

	loaded := Load(path)
	assert.Empty(t, loaded.InUse)
}

func TestAliasesSurviveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path,
		[]byte(`{"in_use":"master","aliases":{"stable":"0.15.2"}}`), 0o644))

	st := Load(path)
	assert.Equal(t, "master", st.InUse)
	assert.Equal(t, "0.15.2", st.Aliases["stable"])

	st.InUse = "0.15.2"
	require.NoError(t, Save(path, st))

	reloaded := Load(path)
	assert.Equal(t, "0.15.2", reloaded.Aliases["stable"])
}
