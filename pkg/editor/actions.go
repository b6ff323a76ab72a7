package editor

import (
	"fmt"

	"github.com/yaklabco/richdraft/pkg/richtext"
	"github.com/yaklabco/richdraft/pkg/selection"
)

// Options configures the reducer.
type Options struct {
	// MaxDepth bounds list nesting reached with Tab.
	MaxDepth int
	// Colors is the exclusive colour group used by ApplyColorAction.
	Colors ColorGroup
	// AtomicPlaceholder is the text of inserted atomic blocks.
	AtomicPlaceholder string
}

// DefaultColors is the default colour palette. Its first entry is the default colour.
func DefaultColors() ColorGroup {
	return ColorGroup{
		"#000000",
		"#e60000",
		"#ff9900",
		"#ffff00",
		"#008a00",
		"#0066cc",
		"#9933ff",
		"#ffffff",
	}
}

// DefaultOptions returns the default reducer options.
func DefaultOptions() Options {
	return Options{
		MaxDepth:          DefaultMaxDepth,
		Colors:            DefaultColors(),
		AtomicPlaceholder: DefaultAtomicPlaceholder,
	}
}

// Action is a user intent applied by Reduce.
type Action interface {
	// Name identifies the action kind, e.g. "toggleInlineStyle".
	Name() string
	apply(s State, opts Options) (State, error)
}

// Reduce applies action to s and returns the new state. On error s is
// returned unchanged. Unhandled key commands yield an error matching ErrUnhandled.
func Reduce(s State, action Action, opts Options) (State, error) {
	next, err := action.apply(s, opts)
	if err != nil {
		return s, err
	}
	return next, nil
}

// ReduceAll applies actions in order. The batch is all-or-nothing: on the
// first error the initial state is returned. Unhandled key commands are
// skipped and counted.
func ReduceAll(initial State, actions []Action, opts Options) (State, int, error) {
	s := initial
	unhandled := 0
	for i, action := range actions {
		next, err := Reduce(s, action, opts)
		if err != nil {
			if isUnhandled(err) {
				unhandled++
				continue
			}
			return initial, unhandled, fmt.Errorf("action %d (%s): %w", i, action.Name(), err)
		}
		s = next
	}
	return s, unhandled, nil
}

// SelectAction replaces the selection.
type SelectAction struct {
	Selection selection.Selection
}

func (SelectAction) Name() string { return "select" }

func (a SelectAction) apply(s State, _ Options) (State, error) {
	if _, err := selection.Resolve(s.Content, a.Selection); err != nil {
		return s, err
	}
	return s.WithSelection(a.Selection), nil
}

// ToggleInlineStyleAction toggles one inline style.
type ToggleInlineStyleAction struct {
	Style string
}

func (ToggleInlineStyleAction) Name() string { return "toggleInlineStyle" }

func (a ToggleInlineStyleAction) apply(s State, _ Options) (State, error) {
	return ToggleInlineStyle(s, a.Style)
}

// ToggleBlockTypeAction toggles a block type.
type ToggleBlockTypeAction struct {
	Type richtext.BlockType
}

func (ToggleBlockTypeAction) Name() string { return "toggleBlockType" }

func (a ToggleBlockTypeAction) apply(s State, _ Options) (State, error) {
	if !a.Type.IsValid() {
		return s, fmt.Errorf("block type %q: %w", a.Type, ErrUnknownAction)
	}
	return ToggleBlockType(s, a.Type)
}

// ApplyColorAction sets the colour of the selection.
type ApplyColorAction struct {
	Color string
}

func (ApplyColorAction) Name() string { return "applyColor" }

func (a ApplyColorAction) apply(s State, opts Options) (State, error) {
	if !opts.Colors.Contains(a.Color) {
		return s, fmt.Errorf("colour %q is not in the palette: %w", a.Color, ErrUnknownAction)
	}
	return ApplyColor(s, opts.Colors, a.Color)
}

// ConfirmLinkAction creates or edits the link at the selection.
type ConfirmLinkAction struct {
	URL         string
	TargetBlank bool
}

func (ConfirmLinkAction) Name() string { return "confirmLink" }

func (a ConfirmLinkAction) apply(s State, _ Options) (State, error) {
	return ConfirmLink(s, a.URL, a.TargetBlank)
}

// RemoveLinkAction removes links around the selection.
type RemoveLinkAction struct{}

func (RemoveLinkAction) Name() string { return "removeLink" }

func (RemoveLinkAction) apply(s State, _ Options) (State, error) {
	return RemoveLink(s)
}

// ToggleLinkAction applies an existing entity, or clears entities when Key is empty.
type ToggleLinkAction struct {
	Key richtext.EntityKey
}

func (ToggleLinkAction) Name() string { return "toggleLink" }

func (a ToggleLinkAction) apply(s State, _ Options) (State, error) {
	return ToggleLink(s, a.Key)
}

// InsertMediaAction inserts an image or video block.
type InsertMediaAction struct {
	Data richtext.EntityData
}

func (InsertMediaAction) Name() string { return "insertMedia" }

func (a InsertMediaAction) apply(s State, opts Options) (State, error) {
	return InsertMedia(s, a.Data, opts.AtomicPlaceholder)
}

// InsertDividerAction toggles a horizontal rule.
type InsertDividerAction struct{}

func (InsertDividerAction) Name() string { return "insertDivider" }

func (InsertDividerAction) apply(s State, _ Options) (State, error) {
	return InsertDivider(s)
}

// KeyCommandAction routes a named editing command.
type KeyCommandAction struct {
	Command string
}

func (KeyCommandAction) Name() string { return "keyCommand" }

func (a KeyCommandAction) apply(s State, _ Options) (State, error) {
	return HandleKeyCommand(s, a.Command)
}

// TabAction indents or, with Shift, outdents a list item.
type TabAction struct {
	Shift bool
}

func (TabAction) Name() string { return "tab" }

func (a TabAction) apply(s State, opts Options) (State, error) {
	return OnTab(s, a.Shift, opts.MaxDepth)
}

// ReplaceEntityDataAction replaces the payload of an entity.
type ReplaceEntityDataAction struct {
	Key  richtext.EntityKey
	Data richtext.EntityData
}

func (ReplaceEntityDataAction) Name() string { return "replaceEntityData" }

func (a ReplaceEntityDataAction) apply(s State, _ Options) (State, error) {
	content, err := s.Content.ReplaceEntityData(a.Key, a.Data)
	if err != nil {
		return s, err
	}
	return s.push(content), nil
}
