// Package tasksys implements a small dependency-based task runner. Tasks are
// declared either in Go or in a Starlark script and their commands run through
// mvdan.cc/sh which keeps the shell semantics identical across platforms.
// A task can be marked phony in which case it is always considered out of
// date, just like a phony Make target.
package tasksys
