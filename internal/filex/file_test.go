package filex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestEnsureSubDir(t *testing.T) {
	chdir(t, t.TempDir())

	dir, err := EnsureSubDir("exports")
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, "exports", filepath.Base(dir))

	// idempotent
	again, err := EnsureSubDir("exports")
	require.NoError(t, err)
	assert.Equal(t, dir, again)
}
