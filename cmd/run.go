package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pydist/pydist/pkg/release"
	"github.com/pydist/pydist/pkg/tasksys"
)

const cacheName = ".pydist.cache"

var runCmd = &cobra.Command{
	Use:   "run [tasks] [key=value ...]",
	Short: "Runs tasks from the project's release.star file",
	Long: `This command parses the first release.star file it finds in the current or a
parent directory and executes the given tasks. Without arguments it lists the
available tasks.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		taskArgs := make([]string, 0)
		options := make(map[string]string)
		dryRun, err := cmd.Flags().GetBool("dry")
		if err != nil {
			return err
		}

		force, err := cmd.Flags().GetBool("force")
		if err != nil {
			return err
		}

		noCache, err := cmd.Flags().GetBool("no-cache")
		if err != nil {
			return err
		}

		for _, part := range args {
			pos := strings.Index(part, "=")
			if pos > -1 {
				options[part[:pos]] = part[pos+1:]
			} else {
				taskArgs = append(taskArgs, part)
			}
		}

		logger := zerolog.New(NewConsoleWriter())
		ctx := context.Background()
		ctx = tasksys.WithLogger(ctx, &logger)

		// search the next release.star file
		wd, err := os.Getwd()
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to retrieve the current working directory")
		}

		path := wd
		var scriptPath string
		for {
			scriptPath = filepath.Join(path, release.ScriptName)
			_, err := os.Stat(scriptPath)
			if err == nil {
				break
			}
			if !eris.Is(err, os.ErrNotExist) {
				logger.Fatal().Err(err).Msgf("Failed to check %s", scriptPath)
			}

			parent := filepath.Dir(path)
			if parent == path {
				logger.Fatal().Msgf("No %s file found", release.ScriptName)
			}

			path = parent
		}

		scriptPath, err = filepath.Rel(wd, scriptPath)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to simplify path")
		}

		projectRoot := filepath.Dir(scriptPath)
		cachePath := filepath.Join(projectRoot, cacheName)

		var taskList tasksys.TaskList
		if !noCache {
			taskList, err = tasksys.ReadCache(cachePath, scriptPath, options)
			if err != nil && !eris.Is(err, os.ErrNotExist) && !eris.Is(err, tasksys.ErrStaleCache) {
				logger.Warn().Err(err).Msg("Ignoring unreadable task cache")
				taskList = nil
			}
		}

		if taskList == nil {
			taskList, _, err = tasksys.LoadScript(ctx, scriptPath, projectRoot, options, true)
			if err != nil {
				logger.Fatal().Err(err).Msg("Failed to parse tasks")
			}

			if !noCache {
				err = tasksys.WriteCache(cachePath, scriptPath, options, taskList)
				if err != nil {
					logger.Warn().Err(err).Msg("Failed to write task cache")
				}
			}
		}

		for _, name := range taskArgs {
			err = tasksys.RunTask(ctx, projectRoot, name, taskList, dryRun, force)
			if err != nil {
				logger.Error().Err(err).Msgf("Failed task %s:", name)
				os.Exit(exitStatus(err))
			}
		}

		if len(taskArgs) == 0 {
			fmt.Println("Available tasks:")
			maxNameLen := 0
			sortedNames := make([]string, 0)
			for _, task := range taskList {
				nameLen := len(task.Short)
				if nameLen > maxNameLen {
					maxNameLen = nameLen
				}

				sortedNames = append(sortedNames, task.Short)
			}

			sort.Strings(sortedNames)

			lineFmt := fmt.Sprintf(" * %%-%ds %%s\n", maxNameLen+3)
			for _, name := range sortedNames {
				fmt.Printf(lineFmt, name+":", taskList[name].Desc)
			}
		}

		return nil
	},
}

func init() {
	runCmd.Flags().BoolP("dry", "n", false, "dry run; only print the commands, don't execute anything")
	runCmd.Flags().BoolP("force", "f", false, "force build; always execute the passed tasks even if they don't have to run")
	runCmd.Flags().Bool("no-cache", false, "always re-parse the task script")

	rootCmd.AddCommand(runCmd)
}
