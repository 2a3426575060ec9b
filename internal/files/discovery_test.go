package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
}

func TestFindWorkbooks(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "b-产品二.xlsx"))
	touch(t, filepath.Join(dir, "a-产品一.xlsx"))
	touch(t, filepath.Join(dir, "~$a-产品一.xlsx")) // Office lock file
	touch(t, filepath.Join(dir, "notes.txt"))
	touch(t, filepath.Join(dir, "old.xls")) // legacy format not supported
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0755))

	found, err := NewDiscovery(dir).FindWorkbooks(".")
	require.NoError(t, err)

	require.Len(t, found, 2)
	assert.Equal(t, "a-产品一.xlsx", found[0].Name, "sorted by name")
	assert.Equal(t, "b-产品二.xlsx", found[1].Name)
}

func TestFindWorkbooks_MissingDir(t *testing.T) {
	_, err := NewDiscovery(t.TempDir()).FindWorkbooks("no-such-dir")
	assert.Error(t, err)
}

func TestListBatchDirs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "封闭式90天"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "封闭式180天"), 0755))
	touch(t, filepath.Join(dir, "产品查询表.xlsx"))

	dirs, err := NewDiscovery(dir).ListBatchDirs(".")
	require.NoError(t, err)

	require.Len(t, dirs, 2)
	for _, d := range dirs {
		assert.True(t, d.IsDir)
	}
}

func TestFindLookupWorkbook(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "某银行产品查询_20250620.xlsx"))
	touch(t, filepath.Join(dir, "其他文件.xlsx"))

	f, ok, err := NewDiscovery(dir).FindLookupWorkbook(".", "产品查询")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "某银行产品查询_20250620.xlsx", f.Name)

	_, ok, err = NewDiscovery(dir).FindLookupWorkbook(".", "不存在")
	require.NoError(t, err)
	assert.False(t, ok)
}
