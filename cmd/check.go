package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pydist/pydist/pkg/release"
)

var checkCmd = &cobra.Command{
	Use:   "check [key=value ...]",
	Short: "Inspects the artifacts in the dist directory",
	Long: `Opens every file in the dist directory, classifies it (sdist, wheel or
unknown) and verifies that the archives are readable. Since the pypi task
uploads the whole directory, this is the place to spot stale artifacts from
earlier versions before they end up on the package index.`,
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
		printTask(fmt.Sprintf("Checking %s", distDir))

		artifacts, err := release.Scan(distDir)
		if err != nil {
			return err
		}

		if len(artifacts) == 0 {
			printError("No artifacts found; run dist first")
			return nil
		}

		counts := map[release.ArtifactKind]int{}
		for _, artifact := range artifacts {
			counts[artifact.Kind]++

			line := fmt.Sprintf("%-8s %s (%d files, %d bytes)", artifact.Kind,
				filepath.Base(artifact.Path), artifact.Entries, artifact.Size)
			if artifact.Kind == release.KindUnknown {
				printError(line + " - not a recognized artifact, the upload would include it anyway")
			} else {
				printSubtask(line)
			}
		}

		if counts[release.KindSdist] == 0 {
			printError("No source distribution found")
		}
		if counts[release.KindWheel] == 0 {
			printError("No wheel found")
		}
		if counts[release.KindSdist] > 1 || counts[release.KindWheel] > 1 {
			printError("Multiple versions present; pypi uploads all of them")
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
