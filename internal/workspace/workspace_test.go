package workspace

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_EphemeralMode(t *testing.T) {
	base := t.TempDir()
	mgr := NewManager(base)

	require.NoError(t, mgr.Create())

	wsPath := mgr.GetPath()
	require.NotEmpty(t, wsPath)
	assert.Equal(t, base, filepath.Dir(wsPath))
	assert.True(t, strings.HasPrefix(filepath.Base(wsPath), "docsplice-"), wsPath)
	assert.DirExists(t, wsPath)
	assert.False(t, mgr.IsFixed())

	require.NoError(t, mgr.Cleanup())
	assert.NoDirExists(t, wsPath)
	assert.Empty(t, mgr.GetPath())
}

func TestManager_EphemeralNamesAreUnique(t *testing.T) {
	base := t.TempDir()
	a, b := NewManager(base), NewManager(base)
	require.NoError(t, a.Create())
	require.NoError(t, b.Create())
	assert.NotEqual(t, a.GetPath(), b.GetPath())
}

func TestManager_FixedModeClearsStaleContent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "pkg")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "old"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stale.html"), []byte("stale"), 0o600))

	mgr := NewFixedManager(dir)
	require.NoError(t, mgr.Create())
	assert.Equal(t, dir, mgr.GetPath())
	assert.True(t, mgr.IsFixed())

	empty, err := IsEmpty(dir)
	require.NoError(t, err)
	assert.True(t, empty, "Create must delete stale staging content")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.html"), []byte("a"), 0o600))
	require.NoError(t, mgr.Cleanup())

	assert.DirExists(t, dir, "fixed staging directory is kept")
	empty, err = IsEmpty(dir)
	require.NoError(t, err)
	assert.True(t, empty)
}

func TestManager_CleanupBeforeCreate(t *testing.T) {
	assert.NoError(t, NewManager(t.TempDir()).Cleanup())
}
