package release

import (
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
)

// ScriptName is the task script a project can place next to its packaging
// metadata to override or extend the built-in tasks.
const ScriptName = "release.star"

var rootMarkers = []string{"pyproject.toml", "setup.py", "setup.cfg", ".git"}

// FindProjectRoot walks up from the given directory until it finds a Python
// project marker (pyproject.toml, setup.py, setup.cfg) or a .git directory.
func FindProjectRoot(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", eris.Wrap(err, "failed to resolve directory")
	}

	for {
		for _, marker := range rootMarkers {
			_, err := os.Stat(filepath.Join(dir, marker))
			if err == nil {
				return dir, nil
			}

			if !eris.Is(err, os.ErrNotExist) {
				return "", eris.Wrapf(err, "error occurred while searching for project root in %s", dir)
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", eris.New("no Python project found; expected one of pyproject.toml, setup.py, setup.cfg or .git in a parent directory")
}
