package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/yaklabco/richdraft/internal/logging"
	"github.com/yaklabco/richdraft/pkg/docfile"
	"github.com/yaklabco/richdraft/pkg/editor"
	"github.com/yaklabco/richdraft/pkg/fsutil"
	"github.com/yaklabco/richdraft/pkg/richtext"
	"github.com/yaklabco/richdraft/pkg/selection"
)

// Script is a sequence of editor actions read by `richdraft apply`. It is
// written either as this mapping or as a bare list of actions.
type Script struct {
	Selection *selection.Selection `yaml:"selection,omitempty"`
	Actions   []editor.ActionSpec  `yaml:"actions"`
}

// ParseScript decodes a YAML or JSON script.
func ParseScript(data []byte) (*Script, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(root.Content) == 0 {
		return nil, errors.New("parse script: empty script")
	}

	script := &Script{}
	doc := root.Content[0]
	switch doc.Kind {
	case yaml.SequenceNode:
		if err := doc.Decode(&script.Actions); err != nil {
			return nil, fmt.Errorf("parse script: %w", err)
		}
	case yaml.MappingNode:
		if err := doc.Decode(script); err != nil {
			return nil, fmt.Errorf("parse script: %w", err)
		}
	default:
		return nil, errors.New("parse script: expected a list of actions or a mapping with actions")
	}
	return script, nil
}

// Run applies the script to content as one all-or-nothing batch.
func (s *Script) Run(content *richtext.Content, opts editor.Options) (editor.State, int, error) {
	actions, err := editor.DecodeActions(s.Actions)
	if err != nil {
		return editor.State{}, 0, err
	}

	state := editor.NewState(content)
	if s.Selection != nil {
		state = state.WithSelection(*s.Selection)
	}
	return editor.ReduceAll(state, actions, opts)
}

type applyFlags struct {
	script string
	output string
	dryRun bool
}

func newApplyCommand() *cobra.Command {
	flags := &applyFlags{}

	cmd := &cobra.Command{
		Use:   "apply <path>",
		Short: "Apply editing actions from a script",
		Long: `Apply a script of editor actions to a document and save the result.

The script is YAML or JSON: a list of actions, or a mapping with an initial
selection and an actions list. Each action may carry its own selection.
The batch is all-or-nothing; key commands the editor does not handle are
skipped and counted.

Example script:
  selection: {anchorKey: a1b2c, anchorOffset: 0, focusKey: a1b2c, focusOffset: 5}
  actions:
    - type: toggleInlineStyle
      style: BOLD
    - type: confirmLink
      url: https://example.com
      targetBlank: true

Examples:
  richdraft apply doc.json --script edits.yml
  richdraft apply doc.json --script - --dry-run < edits.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(cmd, args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.script, "script", "s", "", "action script (YAML or JSON); - reads stdin")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "write to this path instead of overwriting the input")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "print the result instead of saving it")
	_ = cmd.MarkFlagRequired("script")

	return cmd
}

func runApply(cmd *cobra.Command, path string, flags *applyFlags) error {
	ctx := commandContext(cmd)
	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}

	scriptData, err := readScript(ctx, cmd.InOrStdin(), flags.script)
	if err != nil {
		return err
	}
	script, err := ParseScript(scriptData)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}

	doc, err := docfile.Open(ctx, path)
	if err != nil {
		return err
	}

	state, unhandled, err := script.Run(doc.Content, cfg.EditorOptions())
	if err != nil {
		return fmt.Errorf("apply %s: %w", path, err)
	}

	logger := logging.Default().With(logging.FieldPath, path)
	logger.Debug("applied script",
		logging.FieldActions, len(script.Actions),
		logging.FieldUnhandled, unhandled,
		"selection", state.Selection.String(),
	)

	if flags.dryRun {
		data, err := richtext.MarshalRaw(state.Content, max(cfg.Output.Indent, 1))
		if err != nil {
			return err
		}
		return writeOutput(ctx, cmd.OutOrStdout(), "", data)
	}

	target, since := path, doc.Snapshot
	if flags.output != "" {
		target, since = flags.output, nil
	}
	if err := saveDocument(ctx, cfg, state.Content, target, since); err != nil {
		return err
	}

	logging.NewInteractive().Info("applied actions",
		logging.FieldPath, target,
		logging.FieldActions, len(script.Actions),
		logging.FieldUnhandled, unhandled,
	)
	return nil
}

func readScript(ctx context.Context, stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read script: %w", err)
		}
		return data, nil
	}

	data, _, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return data, nil
}
