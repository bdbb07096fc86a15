package release

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindProjectRoot(t *testing.T) {
	t.Run("setup.py marker", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "setup.py"), []byte(""), 0600))

		nested := filepath.Join(dir, "pkg", "sub")
		require.NoError(t, os.MkdirAll(nested, 0700))

		root, err := FindProjectRoot(nested)
		require.NoError(t, err)
		assert.Equal(t, dir, root)
	})

	t.Run("pyproject.toml marker", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "pyproject.toml"), []byte(""), 0600))

		root, err := FindProjectRoot(dir)
		require.NoError(t, err)
		assert.Equal(t, dir, root)
	})

	t.Run("nearest marker wins", func(t *testing.T) {
		outer := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(outer, "setup.py"), []byte(""), 0600))

		inner := filepath.Join(outer, "vendored")
		require.NoError(t, os.MkdirAll(inner, 0700))
		require.NoError(t, os.WriteFile(filepath.Join(inner, "pyproject.toml"), []byte(""), 0600))

		root, err := FindProjectRoot(inner)
		require.NoError(t, err)
		assert.Equal(t, inner, root)
	})

	t.Run("no marker", func(t *testing.T) {
		_, err := FindProjectRoot(t.TempDir())
		require.Error(t, err)
	})
}
