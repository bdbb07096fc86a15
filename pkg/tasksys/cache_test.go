package tasksys

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheRoundtrip(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "release.star")
	require.NoError(t, os.WriteFile(script, []byte("def configure():\n    pass\n"), 0600))

	cacheFile := filepath.Join(dir, ".pydist.cache")
	options := map[string]string{"python": "python3"}
	tasks := TaskList{
		"dist": {
			Short: "dist",
			Desc:  "build distributions",
			Base:  dir,
			Phony: true,
			Env:   map[string]string{},
			Cmds:  []Command{ScriptCommand{TaskName: "dist", Content: "python3 setup.py sdist"}},
		},
	}

	require.NoError(t, WriteCache(cacheFile, script, options, tasks))

	loaded, err := ReadCache(cacheFile, script, options)
	require.NoError(t, err)
	require.Contains(t, loaded, "dist")
	assert.Equal(t, "build distributions", loaded["dist"].Desc)
	assert.True(t, loaded["dist"].Phony)
	require.Len(t, loaded["dist"].Cmds, 1)
	assert.Equal(t, "python3 setup.py sdist", loaded["dist"].Cmds[0].(ScriptCommand).Content)
}

func TestCacheStaleOnScriptChange(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "release.star")
	require.NoError(t, os.WriteFile(script, []byte("x = 1\n"), 0600))

	cacheFile := filepath.Join(dir, ".pydist.cache")
	require.NoError(t, WriteCache(cacheFile, script, map[string]string{}, TaskList{}))

	newTime := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(script, newTime, newTime))

	_, err := ReadCache(cacheFile, script, map[string]string{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStaleCache)
}

func TestCacheStaleOnOptionChange(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "release.star")
	require.NoError(t, os.WriteFile(script, []byte("x = 1\n"), 0600))

	cacheFile := filepath.Join(dir, ".pydist.cache")
	require.NoError(t, WriteCache(cacheFile, script, map[string]string{"python": "python3"}, TaskList{}))

	_, err := ReadCache(cacheFile, script, map[string]string{"python": "pypy"})
	assert.ErrorIs(t, err, ErrStaleCache)

	_, err = ReadCache(cacheFile, script, map[string]string{})
	assert.ErrorIs(t, err, ErrStaleCache)
}

func TestCacheMissingFile(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "release.star")
	require.NoError(t, os.WriteFile(script, []byte("x = 1\n"), 0600))

	_, err := ReadCache(filepath.Join(dir, "missing.cache"), script, map[string]string{})
	require.Error(t, err)
	assert.True(t, os.IsNotExist(err))
}
