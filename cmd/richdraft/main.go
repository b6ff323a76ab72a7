// Package main is the entry point for the richdraft CLI.
package main

import (
	"errors"
	"os"

	"github.com/yaklabco/richdraft/internal/cli"
	"github.com/yaklabco/richdraft/internal/logging"
)

// Build-time variables set by GoReleaser via ldflags.
//
//nolint:gochecknoglobals // Version variables must be package-level for ldflags injection
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	info := cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	}

	rootCmd := cli.NewRootCommand(info)

	if err := rootCmd.Execute(); err != nil {
		// The reporter has already listed the invalid documents.
		if !errors.Is(err, cli.ErrInvalidDocuments) {
			logging.Default().Error("command failed", logging.FieldError, err)
		}
		return cli.ExitCode(err)
	}

	return 0
}
