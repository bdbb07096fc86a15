package cmd

import (
	"context"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pydist/pydist/pkg/release"
	"github.com/pydist/pydist/pkg/tasksys"
)

// runReleaseTask executes one of the built-in release tasks (possibly
// overridden by the project's release.star) from the current directory.
func runReleaseTask(cmd *cobra.Command, args []string, taskName string) error {
	dryRun, err := cmd.Flags().GetBool("dry")
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	options := make(map[string]string)
	for _, part := range args {
		pos := strings.Index(part, "=")
		if pos > -1 {
			options[part[:pos]] = part[pos+1:]
		}
	}

	logger := zerolog.New(NewConsoleWriter())
	ctx := tasksys.WithLogger(context.Background(), &logger)

	wd, err := os.Getwd()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to retrieve the current working directory")
	}

	projectRoot, err := release.FindProjectRoot(wd)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to locate the project")
	}

	opts := release.DefaultOptions()
	scriptOptions := opts.Apply(options)

	tasks, err := release.LoadTasks(ctx, projectRoot, opts, scriptOptions)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to assemble the task list")
	}

	err = tasksys.RunTask(ctx, projectRoot, taskName, tasks, dryRun, force)
	if err != nil {
		logger.Error().Err(err).Msgf("Failed task %s:", taskName)
		os.Exit(exitStatus(err))
	}

	return nil
}

var distCmd = &cobra.Command{
	Use:   "dist [key=value ...]",
	Short: "Builds the source and wheel distributions",
	Long: `Runs the packaging command (python setup.py sdist bdist_wheel by default)
which writes one source archive and one wheel into the dist directory. The
task is phony, so it always runs, even when the artifacts already exist.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReleaseTask(cmd, args, "dist")
	},
}

var pypiCmd = &cobra.Command{
	Use:   "pypi [key=value ...]",
	Short: "Builds the distributions and uploads them to the package index",
	Long: `Runs the dist task first and then uploads everything in the dist directory
with the upload tool (twine by default). Note that the upload covers *all*
files in the directory, including leftovers from earlier versions; run clean
beforehand if that's not what you want.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReleaseTask(cmd, args, "pypi")
	},
}

func init() {
	for _, cmd := range []*cobra.Command{distCmd, pypiCmd} {
		cmd.Flags().BoolP("dry", "n", false, "dry run; only print the commands, don't execute anything")
		cmd.Flags().BoolP("force", "f", false, "force; always execute custom non-phony tasks even if they are up to date")
		rootCmd.AddCommand(cmd)
	}
}
