package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/richdraft/internal/logging"
	"github.com/yaklabco/richdraft/internal/ui/pretty"
	"github.com/yaklabco/richdraft/pkg/docfile"
	"github.com/yaklabco/richdraft/pkg/fsutil"
	"github.com/yaklabco/richdraft/pkg/richtext"
)

func newNewCommand() *cobra.Command {
	var text string
	var force bool

	cmd := &cobra.Command{
		Use:   "new [path]",
		Short: "Create a new document",
		Long: `Create a document holding one empty paragraph, or one paragraph per line
of --text. Without a path the file name is derived from the first line.

Examples:
  richdraft new                        Create document.json
  richdraft new notes.json             Create notes.json
  richdraft new --text "Groceries"     Create Groceries.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, nil)
			if err != nil {
				return err
			}

			content := richtext.NewDocument()
			if text != "" {
				content = richtext.FromText(text)
			}

			path := docfile.DefaultFilename(content)
			if len(args) == 1 {
				path = args[0]
			}

			if fileExists(path) && !force {
				return usageError("%s already exists; use --force to overwrite", path)
			}

			if err := saveDocument(commandContext(cmd), cfg, content, path, nil); err != nil {
				return err
			}
			logging.NewInteractive().Info("created document", logging.FieldPath, path)
			return nil
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "initial text; each line becomes a paragraph")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")

	return cmd
}

func newShowCommand() *cobra.Command {
	var opts pretty.PreviewOptions

	cmd := &cobra.Command{
		Use:   "show <path>",
		Short: "Preview a document in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, nil)
			if err != nil {
				return err
			}

			var (
				loader  docfile.Loader
				doc     *docfile.Document
				openErr error
			)
			if err := loader.Open(args[0], func(d *docfile.Document, err error) {
				doc, openErr = d, err
			}); err != nil {
				return err
			}
			loader.Wait()
			if openErr != nil {
				return openErr
			}

			out := cmd.OutOrStdout()
			if opts.Width <= 0 {
				opts.Width = pretty.TerminalWidth(out)
			}
			_, err = fmt.Fprint(out, stylesFor(cfg, out).Preview(doc.Content, opts))
			return err
		},
	}

	cmd.Flags().IntVar(&opts.Width, "width", 0, "wrap width (default: terminal width)")
	cmd.Flags().BoolVar(&opts.ShowKeys, "keys", false, "show block keys and types")

	return cmd
}

func newRestoreCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <path>",
		Short: "Restore a document from its backup",
		Long: `Copy the sidecar backup (<path>` + fsutil.BackupSuffix + `) written the first
time a document was overwritten back over the document.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			restored, err := fsutil.RestoreBackup(commandContext(cmd), path)
			if err != nil {
				return err
			}
			if !restored {
				return fmt.Errorf("no backup for %s: %w", filepath.Base(path), fsutil.ErrNotFound)
			}
			logging.NewInteractive().Info("restored document", logging.FieldPath, path)
			return nil
		},
	}
}
