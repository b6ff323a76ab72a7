package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yaklabco/richdraft/internal/logging"
	"github.com/yaklabco/richdraft/internal/server"
	"github.com/yaklabco/richdraft/pkg/config"
)

type serveFlags struct {
	addr      string
	logFormat string
	logLevel  string
}

func newServeCommand() *cobra.Command {
	flags := &serveFlags{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the editing reducer over HTTP",
		Long: `Run an HTTP server exposing the editing reducer and converters.

Endpoints:
  POST /v1/reduce            Apply actions to a document and selection
  POST /v1/export/{format}   Convert a document to markdown, html, json or text
  POST /v1/import/{format}   Convert markdown, html or text to a document
  GET  /healthz              Liveness probe
  GET  /metrics              Prometheus metrics

The server stops gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.addr, "addr", "", "listen address (default "+config.DefaultAddr+")")
	cmd.Flags().StringVar(&flags.logFormat, "log-format", "", "log format: text, json, logfmt")
	cmd.Flags().StringVar(&flags.logLevel, "log-level", "info", "log level: debug, info, warn, error")

	return cmd
}

func runServe(cmd *cobra.Command, flags *serveFlags) error {
	cfg, err := loadConfig(cmd, &config.Config{
		Server: config.ServerConfig{Addr: flags.addr, LogFormat: flags.logFormat},
	})
	if err != nil {
		return err
	}

	level := flags.logLevel
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		level = "debug"
	}
	logger := logging.NewService(cmd.ErrOrStderr(), level, cfg.Server.LogFormat)

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.New(cfg, logger).ListenAndServe(ctx)
}
