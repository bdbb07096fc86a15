package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/pydist/pydist/pkg/release"
)

var cleanCmd = &cobra.Command{
	Use:   "clean [key=value ...]",
	Short: "Removes the dist directory",
	Long: `Deletes the artifact directory so the next pypi run only uploads freshly
built archives.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		options := make(map[string]string)
		for _, part := range args {
			pos := strings.Index(part, "=")
			if pos > -1 {
				options[part[:pos]] = part[pos+1:]
			}
		}

		wd, err := os.Getwd()
		if err != nil {
			return err
		}

		projectRoot, err := release.FindProjectRoot(wd)
		if err != nil {
			return err
		}

		opts := release.DefaultOptions()
		opts.Apply(options)

		distDir := filepath.Join(projectRoot, opts.DistDir)
		printTask(fmt.Sprintf("Removing %s", distDir))

		err = os.RemoveAll(distDir)
		if err != nil {
			return eris.Wrapf(err, "Failed to remove %s", distDir)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}
