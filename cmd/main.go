package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pydist",
	Short: "Release automation for Python packages",
	Long: `pydist wraps the usual release chores of a Python package project:
building the source and wheel distributions and uploading them to a package
index. The built-in dist and pypi tasks can be extended or replaced with a
release.star file at the project root.`,
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
