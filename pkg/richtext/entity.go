package richtext

import (
	"fmt"
	"maps"
	"strconv"
)

// EntityKey identifies an entity within one document. The empty key means "no entity".
type EntityKey string

// NoEntity is the absence of an entity on a character.
const NoEntity EntityKey = ""

// EntityType tags the entity variant.
type EntityType string

// Known entity types.
const (
	EntityLink  EntityType = "LINK"
	EntityImage EntityType = "IMAGE"
	EntityVideo EntityType = "VIDEO"
)

// Mutability controls how an entity reacts to partial edits of its text.
type Mutability string

// Mutability values.
const (
	Mutable   Mutability = "MUTABLE"
	Immutable Mutability = "IMMUTABLE"
)

// IsValid reports whether m is a known mutability.
func (m Mutability) IsValid() bool {
	switch m {
	case Mutable, Immutable:
		return true
	default:
		return false
	}
}

// EntityData is the typed payload of an entity.
type EntityData interface {
	// EntityType returns the variant tag.
	EntityType() EntityType
	// Fields returns the wire representation of the payload.
	Fields() map[string]any
}

// LinkData is the payload of a LINK entity.
type LinkData struct {
	URL string
	// Target is "_blank" when the link opens in a new window, empty otherwise.
	Target string
}

// TargetBlank is the only supported link target.
const TargetBlank = "_blank"

func (LinkData) EntityType() EntityType { return EntityLink }

func (d LinkData) Fields() map[string]any {
	out := map[string]any{"url": d.URL}
	if d.Target != "" {
		out["target"] = d.Target
	}
	return out
}

// ImageData is the payload of an IMAGE entity.
type ImageData struct {
	Src    string
	Width  int
	Height int
}

func (ImageData) EntityType() EntityType { return EntityImage }

func (d ImageData) Fields() map[string]any {
	return mediaFields(d.Src, d.Width, d.Height)
}

// VideoData is the payload of a VIDEO entity. Src is a platform video identifier.
type VideoData struct {
	Src    string
	Width  int
	Height int
}

func (VideoData) EntityType() EntityType { return EntityVideo }

func (d VideoData) Fields() map[string]any {
	return mediaFields(d.Src, d.Width, d.Height)
}

// CustomData carries entities of types this package does not model.
type CustomData struct {
	Type   EntityType
	Values map[string]any
}

func (d CustomData) EntityType() EntityType { return d.Type }

func (d CustomData) Fields() map[string]any {
	if d.Values == nil {
		return map[string]any{}
	}
	return maps.Clone(d.Values)
}

func mediaFields(src string, width, height int) map[string]any {
	out := map[string]any{"src": src}
	if width > 0 {
		out["width"] = width
	}
	if height > 0 {
		out["height"] = height
	}
	return out
}

// DecodeEntityData converts a wire payload into the typed variant for typ.
func DecodeEntityData(typ EntityType, fields map[string]any) (EntityData, error) {
	switch typ {
	case EntityLink:
		url, err := stringField(fields, "url", true)
		if err != nil {
			return nil, err
		}
		target, err := stringField(fields, "target", false)
		if err != nil {
			return nil, err
		}
		return LinkData{URL: url, Target: target}, nil
	case EntityImage, EntityVideo:
		src, err := stringField(fields, "src", true)
		if err != nil {
			return nil, err
		}
		width, err := intField(fields, "width")
		if err != nil {
			return nil, err
		}
		height, err := intField(fields, "height")
		if err != nil {
			return nil, err
		}
		if typ == EntityImage {
			return ImageData{Src: src, Width: width, Height: height}, nil
		}
		return VideoData{Src: src, Width: width, Height: height}, nil
	case "":
		return nil, fmt.Errorf("entity type is empty")
	default:
		values := map[string]any{}
		maps.Copy(values, fields)
		return CustomData{Type: typ, Values: values}, nil
	}
}

func stringField(fields map[string]any, name string, required bool) (string, error) {
	raw, ok := fields[name]
	if !ok || raw == nil {
		if required {
			return "", fmt.Errorf("missing %q", name)
		}
		return "", nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%q must be a string", name)
	}
	return s, nil
}

func intField(fields map[string]any, name string) (int, error) {
	raw, ok := fields[name]
	if !ok || raw == nil {
		return 0, nil
	}
	switch v := raw.(type) {
	case float64:
		return int(v), nil
	case int:
		return v, nil
	case string:
		// Dimensions typed into a form arrive as strings.
		if v == "" {
			return 0, nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("%q must be a number", name)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("%q must be a number", name)
	}
}

// Entity is an immutable annotation attached to character ranges.
type Entity struct {
	key        EntityKey
	mutability Mutability
	data       EntityData
}

// Key returns the entity key.
func (e *Entity) Key() EntityKey { return e.key }

// Type returns the variant tag of the entity data.
func (e *Entity) Type() EntityType { return e.data.EntityType() }

// Mutability returns the entity mutability.
func (e *Entity) Mutability() Mutability { return e.mutability }

// Data returns the typed payload.
func (e *Entity) Data() EntityData { return e.data }
