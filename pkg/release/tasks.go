package release

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"

	"github.com/pydist/pydist/pkg/tasksys"
)

// Options control the commands the built-in tasks wrap. All of them can be
// overridden with key=value arguments on the command line.
type Options struct {
	// Python is the interpreter used to run the packaging step.
	Python string
	// Twine is the upload tool invoked by the pypi task.
	Twine string
	// DistDir is the artifact directory, relative to the project root.
	DistDir string
}

// DefaultOptions returns the conventional defaults: python, twine and dist.
func DefaultOptions() Options {
	return Options{
		Python:  "python",
		Twine:   "twine",
		DistDir: "dist",
	}
}

// Apply merges key=value overrides into the options. Unknown keys are
// returned to the caller so they can still be passed to a task script.
func (o *Options) Apply(values map[string]string) map[string]string {
	rest := make(map[string]string)
	for name, value := range values {
		switch name {
		case "python":
			o.Python = value
		case "twine":
			o.Twine = value
		case "dist_dir":
			o.DistDir = value
		default:
			rest[name] = value
		}
	}

	return rest
}

// BuiltinTasks returns the release tasks every project gets without any
// configuration:
//
//   - dist builds the source distribution and the wheel. It's phony, so it
//     always runs even if the artifacts already exist.
//   - pypi depends on dist and uploads *everything* in the artifact
//     directory. Stale artifacts from earlier versions are uploaded too;
//     cleaning the directory first is the caller's job (see the check and
//     clean commands).
func BuiltinTasks(projectRoot string, opts Options) tasksys.TaskList {
	dist := &tasksys.Task{
		Short: "dist",
		Desc:  "build the source and wheel distributions",
		Base:  projectRoot,
		Phony: true,
		Env:   map[string]string{},
		Inputs: []string{
			"setup.py",
			"setup.cfg",
			"pyproject.toml",
			"**/*.py",
		},
		Outputs: []string{opts.DistDir + "/*"},
		Cmds: []tasksys.Command{
			tasksys.ScriptCommand{
				TaskName: "dist",
				Content:  fmt.Sprintf("%s setup.py sdist bdist_wheel", opts.Python),
			},
		},
	}

	upload := &tasksys.Task{
		Short: "pypi",
		Desc:  "upload all artifacts in the dist directory to the package index",
		Base:  projectRoot,
		Phony: true,
		Deps:  []string{"dist"},
		Env:   map[string]string{},
		Cmds: []tasksys.Command{
			tasksys.ScriptCommand{
				TaskName: "pypi",
				Content:  fmt.Sprintf("%s upload %s/*", opts.Twine, opts.DistDir),
			},
		},
	}

	return tasksys.TaskList{
		dist.Short:   dist,
		upload.Short: upload,
	}
}

// LoadTasks assembles the project's task list: the built-in tasks overlaid
// with whatever a release.star script at the project root declares. Script
// tasks win on name collisions which lets a project replace the packaging or
// upload commands entirely.
func LoadTasks(ctx context.Context, projectRoot string, opts Options, scriptOptions map[string]string) (tasksys.TaskList, error) {
	tasks := BuiltinTasks(projectRoot, opts)

	scriptPath := filepath.Join(projectRoot, ScriptName)
	_, err := os.Stat(scriptPath)
	if err != nil {
		if eris.Is(err, os.ErrNotExist) {
			return tasks, nil
		}
		return nil, eris.Wrapf(err, "failed to check %s", scriptPath)
	}

	scriptTasks, _, err := tasksys.LoadScript(ctx, scriptPath, projectRoot, scriptOptions, true)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to load %s", scriptPath)
	}

	for name, task := range scriptTasks {
		tasks[name] = task
	}

	return tasks, nil
}
