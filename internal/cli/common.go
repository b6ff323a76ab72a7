package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/richdraft/internal/configloader"
	"github.com/yaklabco/richdraft/internal/logging"
	"github.com/yaklabco/richdraft/internal/ui/pretty"
	"github.com/yaklabco/richdraft/pkg/config"
	"github.com/yaklabco/richdraft/pkg/convert"
	"github.com/yaklabco/richdraft/pkg/docfile"
	"github.com/yaklabco/richdraft/pkg/fsutil"
	"github.com/yaklabco/richdraft/pkg/richtext"
)

// commandContext returns cmd's context, or Background when unset.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// loadConfig resolves configuration with cli layered on top of files and
// the environment.
func loadConfig(cmd *cobra.Command, cli *config.Config) (*config.Config, error) {
	logger := logging.Default()

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("get config flag: %w", err)
	}

	if cli == nil {
		cli = &config.Config{}
	}
	if flag := cmd.Flags().Lookup("color"); flag != nil && flag.Changed {
		cli.Output.Color = flag.Value.String()
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	result, err := configloader.Load(commandContext(cmd), configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cli,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}

	for _, warning := range result.Warnings {
		logger.Warn(warning)
	}
	if len(result.LoadedFrom) > 0 {
		logger.Debug("loaded configuration", logging.FieldPaths, result.LoadedFrom)
	}

	return result.Config, nil
}

// stylesFor returns preview styles honouring output.color for w.
func stylesFor(cfg *config.Config, w io.Writer) *pretty.Styles {
	return pretty.NewStyles(pretty.IsColorEnabled(cfg.Output.Color, w))
}

// importerFor builds a converter configured from cfg.
func importerFor(cfg *config.Config) *convert.Importer {
	return convert.NewImporter(convert.ImportOptions{
		Flavor:         string(cfg.Markdown.Flavor),
		Sanitize:       cfg.SanitizeHTML(),
		DetectLanguage: cfg.DetectLanguage(),
	})
}

// saveDocument writes c to path with the configured indentation and backups.
func saveDocument(ctx context.Context, cfg *config.Config, c *richtext.Content, path string, since *fsutil.Snapshot) error {
	err := docfile.Save(ctx, c, path, docfile.SaveOptions{
		Indent: cfg.Output.Indent,
		Backup: cfg.BackupsEnabled(),
		Since:  since,
	})
	if err != nil {
		return err
	}

	logging.Default().Debug("saved document",
		logging.FieldPath, path,
		logging.FieldBlocks, c.BlockCount(),
		logging.FieldEntities, c.EntityCount(),
	)
	return nil
}

// writeOutput writes data to path atomically, or to w when path is "" or "-".
func writeOutput(ctx context.Context, w io.Writer, path string, data []byte) error {
	if path == "" || path == "-" {
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		return nil
	}
	return fsutil.WriteAtomic(ctx, path, data, fsutil.DefaultFileMode)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func usageError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUsage, fmt.Sprintf(format, args...))
}
