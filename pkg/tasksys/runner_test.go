package tasksys

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"mvdan.cc/sh/v3/interp"
)

func testCtx() context.Context {
	logger := zerolog.Nop()
	return WithLogger(context.Background(), &logger)
}

func shellTask(short, base string, cmds ...string) *Task {
	task := &Task{
		Short: short,
		Base:  base,
		Env:   map[string]string{},
	}

	for idx, content := range cmds {
		task.Cmds = append(task.Cmds, ScriptCommand{TaskName: short, Content: content, Index: idx})
	}

	return task
}

func readMarker(t *testing.T, path string) []string {
	t.Helper()

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		t.Fatalf("failed to read marker: %v", err)
	}

	return strings.Split(strings.TrimSpace(string(content)), "\n")
}

func TestRunTaskExecutesCommands(t *testing.T) {
	dir := t.TempDir()
	tasks := TaskList{
		"hello": shellTask("hello", dir, "echo hello > out.txt"),
	}

	err := RunTask(testCtx(), dir, "hello", tasks, false, false)
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(dir, "out.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(content))
}

func TestRunTaskUnknownTask(t *testing.T) {
	dir := t.TempDir()

	err := RunTask(testCtx(), dir, "nope", TaskList{}, false, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestPhonyTaskAlwaysRuns(t *testing.T) {
	dir := t.TempDir()

	// the output is already newer than the input, so a regular task would
	// consider itself up to date
	input := filepath.Join(dir, "input.txt")
	output := filepath.Join(dir, "out.txt")
	require.NoError(t, os.WriteFile(input, []byte("in"), 0600))
	require.NoError(t, os.WriteFile(output, []byte("out"), 0600))

	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(input, old, old))

	task := shellTask("dist", dir, "echo run >> log.txt")
	task.Phony = true
	task.Inputs = []string{"input.txt"}
	task.Outputs = []string{"out.txt"}
	tasks := TaskList{"dist": task}

	require.NoError(t, RunTask(testCtx(), dir, "dist", tasks, false, false))
	require.NoError(t, RunTask(testCtx(), dir, "dist", tasks, false, false))

	assert.Len(t, readMarker(t, filepath.Join(dir, "log.txt")), 2, "phony task should have run both times")
}

func TestUpToDateTaskIsSkipped(t *testing.T) {
	dir := t.TempDir()

	input := filepath.Join(dir, "input.txt")
	output := filepath.Join(dir, "out.txt")
	require.NoError(t, os.WriteFile(input, []byte("in"), 0600))
	require.NoError(t, os.WriteFile(output, []byte("out"), 0600))

	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(input, old, old))

	task := shellTask("build", dir, "echo run >> log.txt")
	task.Inputs = []string{"input.txt"}
	task.Outputs = []string{"out.txt"}
	tasks := TaskList{"build": task}

	require.NoError(t, RunTask(testCtx(), dir, "build", tasks, false, false))
	assert.Empty(t, readMarker(t, filepath.Join(dir, "log.txt")), "up-to-date task should have been skipped")

	// force overrides the timestamp check
	require.NoError(t, RunTask(testCtx(), dir, "build", tasks, false, true))
	assert.Len(t, readMarker(t, filepath.Join(dir, "log.txt")), 1)
}

func TestSkipIfExists(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "done.txt"), []byte("x"), 0600))

	task := shellTask("setup", dir, "echo run >> log.txt")
	task.SkipIfExists = []string{"done.txt"}
	tasks := TaskList{"setup": task}

	require.NoError(t, RunTask(testCtx(), dir, "setup", tasks, false, false))
	assert.Empty(t, readMarker(t, filepath.Join(dir, "log.txt")))
}

func TestDependencyRunsFirst(t *testing.T) {
	dir := t.TempDir()

	dist := shellTask("dist", dir, "echo dist >> log.txt")
	dist.Phony = true
	upload := shellTask("pypi", dir, "echo pypi >> log.txt")
	upload.Phony = true
	upload.Deps = []string{"dist"}
	tasks := TaskList{"dist": dist, "pypi": upload}

	require.NoError(t, RunTask(testCtx(), dir, "pypi", tasks, false, false))
	assert.Equal(t, []string{"dist", "pypi"}, readMarker(t, filepath.Join(dir, "log.txt")))
}

func TestFailingDependencyAbortsChain(t *testing.T) {
	dir := t.TempDir()

	dist := shellTask("dist", dir, "exit 1")
	dist.Phony = true
	upload := shellTask("pypi", dir, "echo pypi >> log.txt")
	upload.Phony = true
	upload.Deps = []string{"dist"}
	tasks := TaskList{"dist": dist, "pypi": upload}

	err := RunTask(testCtx(), dir, "pypi", tasks, false, false)
	require.Error(t, err)
	assert.Empty(t, readMarker(t, filepath.Join(dir, "log.txt")), "upload must not run after a failed build")
}

func TestExitStatusIsPreserved(t *testing.T) {
	dir := t.TempDir()
	tasks := TaskList{
		"fail": shellTask("fail", dir, "exit 3"),
	}

	err := RunTask(testCtx(), dir, "fail", tasks, false, false)
	require.Error(t, err)

	status, ok := interp.IsExitStatus(err)
	require.True(t, ok)
	assert.Equal(t, uint8(3), status)
}

func TestFirstFailingCommandStopsTask(t *testing.T) {
	dir := t.TempDir()
	tasks := TaskList{
		"multi": shellTask("multi", dir, "echo one >> log.txt", "exit 1", "echo two >> log.txt"),
	}

	err := RunTask(testCtx(), dir, "multi", tasks, false, false)
	require.Error(t, err)
	assert.Equal(t, []string{"one"}, readMarker(t, filepath.Join(dir, "log.txt")))
}

func TestSharedDependencyRunsOnce(t *testing.T) {
	dir := t.TempDir()

	base := shellTask("base", dir, "echo base >> log.txt")
	base.Phony = true
	left := shellTask("left", dir, "echo left >> log.txt")
	left.Phony = true
	left.Deps = []string{"base"}
	right := shellTask("right", dir, "echo right >> log.txt")
	right.Phony = true
	right.Deps = []string{"base"}
	all := shellTask("all", dir)
	all.Phony = true
	all.Deps = []string{"left", "right"}

	tasks := TaskList{"base": base, "left": left, "right": right, "all": all}

	require.NoError(t, RunTask(testCtx(), dir, "all", tasks, false, false))
	assert.Equal(t, []string{"base", "left", "right"}, readMarker(t, filepath.Join(dir, "log.txt")))
}

func TestRecursiveDependencyFails(t *testing.T) {
	dir := t.TempDir()

	a := shellTask("a", dir)
	a.Deps = []string{"b"}
	b := shellTask("b", dir)
	b.Deps = []string{"a"}
	tasks := TaskList{"a": a, "b": b}

	err := RunTask(testCtx(), dir, "a", tasks, false, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "recursively")
}

func TestDryRunExecutesNothing(t *testing.T) {
	dir := t.TempDir()

	task := shellTask("dist", dir, "echo run >> log.txt")
	task.Phony = true
	tasks := TaskList{"dist": task}

	require.NoError(t, RunTask(testCtx(), dir, "dist", tasks, true, false))
	assert.Empty(t, readMarker(t, filepath.Join(dir, "log.txt")))
}

func TestTaskRefCommandRunsSubtask(t *testing.T) {
	dir := t.TempDir()

	inner := shellTask("inner", dir, "echo inner >> log.txt")
	inner.Phony = true
	outer := &Task{
		Short: "outer",
		Base:  dir,
		Phony: true,
		Env:   map[string]string{},
		Cmds:  []Command{TaskRefCommand{Task: inner}},
	}
	tasks := TaskList{"inner": inner, "outer": outer}

	require.NoError(t, RunTask(testCtx(), dir, "outer", tasks, false, false))
	assert.Equal(t, []string{"inner"}, readMarker(t, filepath.Join(dir, "log.txt")))
}

func TestTaskEnvIsVisibleToCommands(t *testing.T) {
	dir := t.TempDir()

	task := shellTask("env", dir, `echo "$GREETING" > out.txt`)
	task.Phony = true
	task.Env = map[string]string{"GREETING": "hi there"}
	tasks := TaskList{"env": task}

	require.NoError(t, RunTask(testCtx(), dir, "env", tasks, false, false))

	content, err := os.ReadFile(filepath.Join(dir, "out.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hi there\n", string(content))
}
