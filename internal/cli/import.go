package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/richdraft/internal/logging"
	"github.com/yaklabco/richdraft/pkg/convert"
	"github.com/yaklabco/richdraft/pkg/docfile"
	"github.com/yaklabco/richdraft/pkg/fsutil"
)

type importFlags struct {
	from   string
	output string
	force  bool
}

func newImportCommand() *cobra.Command {
	flags := &importFlags{}

	cmd := &cobra.Command{
		Use:   "import <source>",
		Short: "Create a document from Markdown, HTML or text",
		Long: `Convert a Markdown, HTML or plain-text file into a document.

The source format is taken from --from, or from the file extension. HTML is
sanitized unless html.sanitize is false. Use - to read stdin.

Examples:
  richdraft import README.md
  richdraft import page.html -o page.json
  curl -s https://example.com | richdraft import - --from html -o example.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVar(&flags.from, "from", "", "source format: markdown, html, text (default: from extension)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output path (default: source name with .json)")
	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "overwrite an existing output file")

	return cmd
}

func runImport(cmd *cobra.Command, source string, flags *importFlags) error {
	ctx := commandContext(cmd)
	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}

	format, err := sourceFormat(source, flags.from)
	if err != nil {
		return err
	}

	var data []byte
	if source == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
	} else {
		data, _, err = fsutil.ReadFile(ctx, source)
		if err != nil {
			return err
		}
	}

	content, err := importerFor(cfg).Import(ctx, format, data)
	if err != nil {
		return fmt.Errorf("import %s: %w", source, err)
	}

	target := flags.output
	switch {
	case target == "-":
		out, err := convert.Export(content, convert.FormatJSON, convert.ExportOptions{Indent: max(cfg.Output.Indent, 1)})
		if err != nil {
			return err
		}
		return writeOutput(ctx, cmd.OutOrStdout(), "", out)
	case target == "" && source == "-":
		target = docfile.DefaultFilename(content)
	case target == "":
		target = strings.TrimSuffix(source, filepath.Ext(source)) + docfile.Extension
	}

	if !flags.force && fileExists(target) {
		return usageError("%s already exists; use --force to overwrite", target)
	}
	if err := saveDocument(ctx, cfg, content, target, nil); err != nil {
		return err
	}

	logging.NewInteractive().Info("imported document",
		logging.FieldPath, target,
		logging.FieldFormat, string(format),
		logging.FieldBlocks, content.BlockCount(),
	)
	return nil
}

// sourceFormat resolves the import format from the flag or the extension.
func sourceFormat(source, from string) (convert.Format, error) {
	name := from
	if name == "" {
		if docfile.IsDocument(source) {
			return "", fmt.Errorf("%w: %s is already a document", ErrUsage, source)
		}
		name = strings.TrimPrefix(strings.ToLower(filepath.Ext(source)), ".")
		if name == "" || name == "markdown" || name == "mdown" {
			name = "markdown"
		}
	}

	format, err := convert.ParseFormat(name)
	if err != nil {
		return "", fmt.Errorf("%w: %w (use --from)", ErrUsage, err)
	}
	return format, nil
}
