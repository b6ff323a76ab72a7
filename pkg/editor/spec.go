package editor

import (
	"errors"
	"fmt"

	"github.com/yaklabco/richdraft/pkg/richtext"
	"github.com/yaklabco/richdraft/pkg/selection"
)

// ActionSpec is the serialisable form of an Action, read from JSON request
// bodies and YAML scripts. When Selection is set it is selected before the
// action runs.
type ActionSpec struct {
	Type        string               `json:"type" yaml:"type"`
	Selection   *selection.Selection `json:"selection,omitempty" yaml:"selection,omitempty"`
	Style       string               `json:"style,omitempty" yaml:"style,omitempty"`
	BlockType   string               `json:"blockType,omitempty" yaml:"blockType,omitempty"`
	Color       string               `json:"color,omitempty" yaml:"color,omitempty"`
	URL         string               `json:"url,omitempty" yaml:"url,omitempty"`
	TargetBlank bool                 `json:"targetBlank,omitempty" yaml:"targetBlank,omitempty"`
	Entity      string               `json:"entity,omitempty" yaml:"entity,omitempty"`
	Command     string               `json:"command,omitempty" yaml:"command,omitempty"`
	Shift       bool                 `json:"shift,omitempty" yaml:"shift,omitempty"`
	Media       string               `json:"media,omitempty" yaml:"media,omitempty"`
	Src         string               `json:"src,omitempty" yaml:"src,omitempty"`
	Width       int                  `json:"width,omitempty" yaml:"width,omitempty"`
	Height      int                  `json:"height,omitempty" yaml:"height,omitempty"`
	Data        map[string]any       `json:"data,omitempty" yaml:"data,omitempty"`
}

// Actions converts the spec into the actions it describes.
func (a ActionSpec) Actions() ([]Action, error) {
	var actions []Action
	if a.Selection != nil {
		actions = append(actions, SelectAction{Selection: *a.Selection})
	}

	action, err := a.action()
	if err != nil {
		return nil, err
	}
	if action != nil {
		actions = append(actions, action)
	}
	return actions, nil
}

func (a ActionSpec) action() (Action, error) {
	switch a.Type {
	case "select":
		if a.Selection == nil {
			return nil, errors.New("select: selection is required")
		}
		return nil, nil
	case "toggleInlineStyle":
		if a.Style == "" {
			return nil, errors.New("toggleInlineStyle: style is required")
		}
		return ToggleInlineStyleAction{Style: a.Style}, nil
	case "toggleBlockType":
		return ToggleBlockTypeAction{Type: richtext.BlockType(a.BlockType)}, nil
	case "applyColor":
		return ApplyColorAction{Color: a.Color}, nil
	case "confirmLink":
		if a.URL == "" {
			return nil, errors.New("confirmLink: url is required")
		}
		return ConfirmLinkAction{URL: a.URL, TargetBlank: a.TargetBlank}, nil
	case "removeLink":
		return RemoveLinkAction{}, nil
	case "toggleLink":
		return ToggleLinkAction{Key: richtext.EntityKey(a.Entity)}, nil
	case "insertMedia":
		data, err := a.mediaData()
		if err != nil {
			return nil, err
		}
		return InsertMediaAction{Data: data}, nil
	case "insertDivider":
		return InsertDividerAction{}, nil
	case "keyCommand":
		return KeyCommandAction{Command: a.Command}, nil
	case "tab":
		return TabAction{Shift: a.Shift}, nil
	case "replaceEntityData":
		return a.replaceEntityData()
	default:
		return nil, fmt.Errorf("%q: %w", a.Type, ErrUnknownAction)
	}
}

func (a ActionSpec) mediaData() (richtext.EntityData, error) {
	if a.Src == "" {
		return nil, errors.New("insertMedia: src is required")
	}
	switch a.Media {
	case "", "image":
		return richtext.ImageData{Src: a.Src, Width: a.Width, Height: a.Height}, nil
	case "video":
		return richtext.VideoData{Src: a.Src, Width: a.Width, Height: a.Height}, nil
	default:
		return nil, fmt.Errorf("insertMedia: media %q: %w", a.Media, ErrUnknownAction)
	}
}

// replaceEntityData needs the entity type to decode the payload, so the
// decoding is deferred until the state is known.
func (a ActionSpec) replaceEntityData() (Action, error) {
	if a.Entity == "" {
		return nil, errors.New("replaceEntityData: entity is required")
	}
	return deferredReplace{key: richtext.EntityKey(a.Entity), fields: a.Data}, nil
}

type deferredReplace struct {
	key    richtext.EntityKey
	fields map[string]any
}

func (deferredReplace) Name() string { return "replaceEntityData" }

func (d deferredReplace) apply(s State, opts Options) (State, error) {
	entity, err := s.Content.Entity(d.key)
	if err != nil {
		return s, err
	}
	fields := d.fields
	if fields == nil {
		fields = map[string]any{}
	}
	data, err := richtext.DecodeEntityData(entity.Type(), fields)
	if err != nil {
		return s, fmt.Errorf("replaceEntityData: %w", err)
	}
	return ReplaceEntityDataAction{Key: d.key, Data: data}.apply(s, opts)
}

// DecodeActions converts specs into actions.
func DecodeActions(specs []ActionSpec) ([]Action, error) {
	var actions []Action
	for i, spec := range specs {
		decoded, err := spec.Actions()
		if err != nil {
			return nil, fmt.Errorf("action %d: %w", i, err)
		}
		actions = append(actions, decoded...)
	}
	return actions, nil
}

func isUnhandled(err error) bool {
	return errors.Is(err, ErrUnhandled)
}
