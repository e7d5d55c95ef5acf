package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_SaveAndOpen(t *testing.T) {
	store, err := New(t.TempDir(), 0)
	require.NoError(t, err)

	stored, err := store.Save("statement.xlsx", strings.NewReader("content"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(stored, "_statement.xlsx"))

	f, err := store.Open(stored)
	require.NoError(t, err)
	defer f.Close()

	data, err := os.ReadFile(f.Name())
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))
}

func TestStore_SaveSanitizesFilenames(t *testing.T) {
	store, err := New(t.TempDir(), 0)
	require.NoError(t, err)

	stored, err := store.Save("../../../etc/passwd", strings.NewReader("x"))
	require.NoError(t, err)
	assert.NotContains(t, stored, "/")

	// The file must live inside the store directory.
	path, err := store.Path(stored)
	require.NoError(t, err)
	assert.Equal(t, store.Dir(), filepath.Dir(path))
}

func TestStore_SizeLimit(t *testing.T) {
	store, err := New(t.TempDir(), 4)
	require.NoError(t, err)

	_, err = store.Save("big.xlsx", strings.NewReader("too large"))
	assert.ErrorIs(t, err, ErrFileTooLarge)

	stored, err := store.Save("ok.xlsx", strings.NewReader("tiny"))
	require.NoError(t, err)
	_, err = store.Path(stored)
	assert.NoError(t, err)
}

func TestStore_PathRejectsTraversal(t *testing.T) {
	store, err := New(t.TempDir(), 0)
	require.NoError(t, err)

	_, err = store.Path("../outside.txt")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.Path("missing.xlsx")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_PutAndRemove(t *testing.T) {
	store, err := New(t.TempDir(), 0)
	require.NoError(t, err)

	require.NoError(t, store.Put("standardized_out.xlsx", []byte("data")))

	path, err := store.Path("standardized_out.xlsx")
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "data", string(data))

	require.NoError(t, store.Remove("standardized_out.xlsx"))
	_, err = store.Path("standardized_out.xlsx")
	assert.ErrorIs(t, err, ErrNotFound)

	// Removing again is not an error.
	assert.NoError(t, store.Remove("standardized_out.xlsx"))
}
