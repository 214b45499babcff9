package fileutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAtomic(t *testing.T) {
	t.Run("round-trips content", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "out.png")
		data := []byte("\x89PNG\r\n\x1a\nimage bytes")

		require.NoError(t, WriteAtomic(path, data, 0o644))

		written, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, data, written)
	})

	t.Run("leaves no temp files behind", func(t *testing.T) {
		dir := t.TempDir()

		require.NoError(t, WriteAtomic(filepath.Join(dir, "out.png"), []byte("x"), 0o644))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "out.png", entries[0].Name())
	})

	t.Run("replaces an existing file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "out.png")
		require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

		require.NoError(t, WriteAtomic(path, []byte("new"), 0o644))

		written, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, []byte("new"), written)
	})

	t.Run("fails without creating the destination", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing", "out.png")

		err := WriteAtomic(path, []byte("x"), 0o644)
		require.Error(t, err)
		assert.NoFileExists(t, path)
	})
}
