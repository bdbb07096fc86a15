package cmd

import (
	"github.com/mitchellh/colorstring"
	"mvdan.cc/sh/v3/interp"
)

func printTask(msg string) {
	colorstring.Printf("[blue][bold]==>[default] %s\n", msg)
}

func printSubtask(msg string) {
	colorstring.Printf("[green][bold]  ->[reset] %s\n", msg)
}

func printError(msg string) {
	colorstring.Printf("[red][bold]  ->[reset] %s\n", msg)
}

// exitStatus recovers the exit code of the first failed shell command. A
// task chain that fails for any other reason maps to 1.
func exitStatus(err error) int {
	if status, ok := interp.IsExitStatus(err); ok {
		return int(status)
	}

	return 1
}
