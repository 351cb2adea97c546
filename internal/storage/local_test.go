package storage

import (
	"context"
	"testing"

	"naspac/pkg/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore(t *testing.T) {
	ctx := context.Background()

	newStore := func(t *testing.T) *LocalStore {
		store, err := NewLocalStore(t.TempDir(), "/files/")
		require.NoError(t, err)
		return store
	}

	t.Run("round trip", func(t *testing.T) {
		store := newStore(t)

		publicURL, err := store.Upload(ctx, "appointment-letters/a.pdf", []byte("%PDF data"), "application/pdf")
		require.NoError(t, err)
		assert.Equal(t, "/files/appointment-letters/a.pdf", publicURL)

		data, err := store.Get(ctx, "appointment-letters/a.pdf")
		require.NoError(t, err)
		assert.Equal(t, []byte("%PDF data"), data)
	})

	t.Run("missing key", func(t *testing.T) {
		store := newStore(t)

		_, err := store.Get(ctx, "nope.pdf")
		assert.ErrorIs(t, err, types.ErrFileNotFound)
	})

	t.Run("key from url", func(t *testing.T) {
		store := newStore(t)

		key, err := store.KeyFromURL("/files/dir/file.pdf")
		require.NoError(t, err)
		assert.Equal(t, "dir/file.pdf", key)

		key, err = store.KeyFromURL("https://onboarding.cocobod.gh/files/dir/file.pdf")
		require.NoError(t, err)
		assert.Equal(t, "dir/file.pdf", key)

		_, err = store.KeyFromURL("https://elsewhere.example.com/other/file.pdf")
		assert.Error(t, err)
	})

	t.Run("path escapes are clamped inside the base directory", func(t *testing.T) {
		store := newStore(t)

		target, err := store.resolve("../../etc/passwd")
		require.NoError(t, err)
		assert.Contains(t, target, store.BaseDir())

		_, err = store.resolve("..")
		assert.Error(t, err)
	})

	t.Run("prefix gets trailing slash", func(t *testing.T) {
		store, err := NewLocalStore(t.TempDir(), "/files")
		require.NoError(t, err)
		assert.Equal(t, "/files/a.pdf", store.PublicURL("a.pdf"))
	})
}
