package tasksys

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScript(t *testing.T, dir, content string) string {
	t.Helper()

	path := filepath.Join(dir, "release.star")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadScriptCollectsTasks(t *testing.T) {
	dir := t.TempDir()
	path := writeScript(t, dir, `
python = option("python", default="python3", help="interpreter to use")

def configure():
    task(
        "dist",
        desc="build distributions",
        phony=True,
        cmds=[python + " setup.py sdist bdist_wheel"],
    )

    task(
        "pypi",
        desc="upload",
        phony=True,
        deps=["dist"],
        cmds=["twine upload dist/*"],
    )
`)

	tasks, options, err := LoadScript(testCtx(), path, dir, map[string]string{}, true)
	require.NoError(t, err)

	require.Contains(t, tasks, "dist")
	require.Contains(t, tasks, "pypi")

	dist := tasks["dist"]
	assert.True(t, dist.Phony)
	assert.Equal(t, "build distributions", dist.Desc)
	require.Len(t, dist.Cmds, 1)
	assert.Contains(t, dist.Cmds[0].(ScriptCommand).Content, "python3 setup.py")

	assert.Equal(t, []string{"dist"}, tasks["pypi"].Deps)

	require.Contains(t, options, "python")
	assert.Equal(t, "python3", options["python"].Default())
	assert.Equal(t, "interpreter to use", options["python"].Help)
}

func TestLoadScriptOptionOverride(t *testing.T) {
	dir := t.TempDir()
	path := writeScript(t, dir, `
python = option("python", default="python3")

def configure():
    task("dist", phony=True, cmds=[python + " setup.py sdist"])
`)

	tasks, _, err := LoadScript(testCtx(), path, dir, map[string]string{"python": "pypy"}, true)
	require.NoError(t, err)

	require.Contains(t, tasks, "dist")
	assert.Contains(t, tasks["dist"].Cmds[0].(ScriptCommand).Content, "pypy setup.py")
}

func TestLoadScriptQuotesTupleArguments(t *testing.T) {
	dir := t.TempDir()
	path := writeScript(t, dir, `
def configure():
    task("greet", cmds=[("echo", "hello world")])
`)

	tasks, _, err := LoadScript(testCtx(), path, dir, map[string]string{}, true)
	require.NoError(t, err)

	require.Contains(t, tasks, "greet")
	assert.Equal(t, "echo 'hello world'", tasks["greet"].Cmds[0].(ScriptCommand).Content)
}

func TestLoadScriptEnvMap(t *testing.T) {
	dir := t.TempDir()
	path := writeScript(t, dir, `
def configure():
    task("build", env={"PYTHONDONTWRITEBYTECODE": "1"}, cmds=["true"])
`)

	tasks, _, err := LoadScript(testCtx(), path, dir, map[string]string{}, true)
	require.NoError(t, err)
	assert.Equal(t, "1", tasks["build"].Env["PYTHONDONTWRITEBYTECODE"])
}

func TestLoadScriptTaskWithoutCommands(t *testing.T) {
	dir := t.TempDir()
	path := writeScript(t, dir, `
def configure():
    task("dist", phony=True, cmds=["python setup.py sdist bdist_wheel"])
    task("pypi", phony=True, deps=["dist"], cmds=["twine upload dist/*"])
    task("all", desc="build and upload", phony=True, deps=["dist", "pypi"])
`)

	tasks, _, err := LoadScript(testCtx(), path, dir, map[string]string{}, true)
	require.NoError(t, err)

	require.Contains(t, tasks, "all")
	assert.Equal(t, []string{"dist", "pypi"}, tasks["all"].Deps)
	assert.Empty(t, tasks["all"].Cmds)
}

func TestLoadScriptAnonymousTasksAreHidden(t *testing.T) {
	dir := t.TempDir()
	path := writeScript(t, dir, `
def configure():
    helper = task(cmds=["true"])
    task("main", cmds=[helper])
`)

	tasks, _, err := LoadScript(testCtx(), path, dir, map[string]string{}, true)
	require.NoError(t, err)

	require.Len(t, tasks, 1)
	require.Contains(t, tasks, "main")

	sub := tasks["main"].Cmds[0].Subtask()
	require.NotNil(t, sub)
	assert.True(t, sub.Hidden)
}

func TestLoadScriptReservedName(t *testing.T) {
	dir := t.TempDir()
	path := writeScript(t, dir, `
def configure():
    task("configure", cmds=["true"])
`)

	_, _, err := LoadScript(testCtx(), path, dir, map[string]string{}, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reserved")
}

func TestLoadScriptMissingConfigure(t *testing.T) {
	dir := t.TempDir()
	path := writeScript(t, dir, `x = 1`)

	_, _, err := LoadScript(testCtx(), path, dir, map[string]string{}, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configure")
}

func TestLoadScriptWithoutConfigureCall(t *testing.T) {
	dir := t.TempDir()
	path := writeScript(t, dir, `
opt = option("name", default="value")
`)

	tasks, options, err := LoadScript(testCtx(), path, dir, map[string]string{}, false)
	require.NoError(t, err)
	assert.Empty(t, tasks)
	assert.Contains(t, options, "name")
}

func TestLoadScriptOptionOutsideInitPhase(t *testing.T) {
	dir := t.TempDir()
	path := writeScript(t, dir, `
def configure():
    option("late", default="nope")
`)

	_, _, err := LoadScript(testCtx(), path, dir, map[string]string{}, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "init phase")
}
