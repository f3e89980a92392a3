package storage

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocal(t *testing.T) *Local {
	t.Helper()
	store, err := NewLocal(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestLocalPutGet(t *testing.T) {
	store := newLocal(t)

	handle, size, err := store.Put(strings.NewReader("hello world"), "greeting.txt")
	require.NoError(t, err)
	assert.Equal(t, int64(11), size)
	assert.True(t, strings.HasSuffix(handle, ".txt"))
	assert.True(t, store.Exists(handle))

	reader, err := store.Get(handle)
	require.NoError(t, err)
	defer reader.Close()

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(data))
}

func TestLocalHandlesAreUnique(t *testing.T) {
	store := newLocal(t)

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		handle, _, err := store.Put(strings.NewReader("x"), "same.txt")
		require.NoError(t, err)
		assert.False(t, seen[handle])
		seen[handle] = true
	}
}

func TestLocalGetMissing(t *testing.T) {
	store := newLocal(t)

	_, err := store.Get("00-does-not-exist")
	assert.ErrorIs(t, err, ErrBlobNotFound)
}

func TestLocalDelete(t *testing.T) {
	store := newLocal(t)

	handle, _, err := store.Put(strings.NewReader("bytes"), "victim.bin")
	require.NoError(t, err)

	require.NoError(t, store.Delete(handle))
	assert.False(t, store.Exists(handle))

	// Deleting an absent blob is not an error.
	require.NoError(t, store.Delete(handle))
}

func TestNewHandleDropsOversizedExtension(t *testing.T) {
	handle := newHandle("weird." + strings.Repeat("x", 20))
	assert.NotContains(t, handle, ".")
}
