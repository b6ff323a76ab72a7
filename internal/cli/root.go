// Package cli provides the Cobra command structure for richdraft.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/richdraft/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root richdraft command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string

	rootCmd := &cobra.Command{
		Use:   "richdraft",
		Short: "Create, edit and convert rich-text drafts",
		Long: `richdraft works with rich-text documents stored in the raw draft JSON
format: blocks of text with inline style ranges and a map of entities
(links, images, videos).

It can create documents, apply editing actions from a script, preview them
in the terminal, convert to and from Markdown and HTML, validate many files
at once, and serve the editing reducer over HTTP.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if debug {
				logging.SetLevel("debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: auto, always, never")

	rootCmd.AddCommand(newNewCommand())
	rootCmd.AddCommand(newShowCommand())
	rootCmd.AddCommand(newApplyCommand())
	rootCmd.AddCommand(newExportCommand())
	rootCmd.AddCommand(newImportCommand())
	rootCmd.AddCommand(newCheckCommand())
	rootCmd.AddCommand(newRestoreCommand())
	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	helpFormatter := NewHelpFormatter(color, os.Stdout)
	helpFormatter.ApplyToCommand(rootCmd)

	return rootCmd
}
