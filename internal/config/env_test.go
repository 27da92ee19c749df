package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvFiles(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DOCSPLICE_TEST_A=from-file\nDOCSPLICE_TEST_B=\"quoted\"\n"), 0o600))
	t.Setenv("DOCSPLICE_TEST_A", "from-env")
	t.Setenv("DOCSPLICE_TEST_B", "")
	require.NoError(t, os.Unsetenv("DOCSPLICE_TEST_B"))

	loaded := loadEnvFiles()
	assert.Equal(t, []string{".env"}, loaded)
	assert.Equal(t, "from-env", os.Getenv("DOCSPLICE_TEST_A"))
	assert.Equal(t, "quoted", os.Getenv("DOCSPLICE_TEST_B"))
}

func TestLoadEnvFilesNone(t *testing.T) {
	chdir(t, t.TempDir())
	assert.Empty(t, loadEnvFiles())
}
