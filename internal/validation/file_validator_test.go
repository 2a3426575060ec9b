package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRootDirectory(t *testing.T) {
	v := NewFileValidator(nil)

	t.Run("missing directory", func(t *testing.T) {
		err := v.ValidateRootDirectory(filepath.Join(t.TempDir(), "nope"))
		assert.Error(t, err)
	})

	t.Run("path is a file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "file.txt")
		require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
		assert.Error(t, v.ValidateRootDirectory(path))
	})

	t.Run("empty root is valid", func(t *testing.T) {
		assert.NoError(t, v.ValidateRootDirectory(t.TempDir()))
	})

	t.Run("root with batch workbooks", func(t *testing.T) {
		dir := t.TempDir()
		batch := filepath.Join(dir, "封闭式90天")
		require.NoError(t, os.MkdirAll(batch, 0755))
		require.NoError(t, os.WriteFile(filepath.Join(batch, "产品A.xlsx"), []byte("x"), 0644))
		assert.NoError(t, v.ValidateRootDirectory(dir))
	})
}

func TestValidateOutputDirectory(t *testing.T) {
	v := NewFileValidator(nil)

	dir := filepath.Join(t.TempDir(), "out", "nested")
	require.NoError(t, v.ValidateOutputDirectory(dir))
	assert.DirExists(t, dir)

	_, err := os.Stat(filepath.Join(dir, ".write_test"))
	assert.True(t, os.IsNotExist(err), "write probe is cleaned up")
}
