package config

import (
	"bytes"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

// YAMLIndent is the indentation of generated YAML.
const YAMLIndent = 2

// ToYAML serializes the persisted fields.
func (c *Config) ToYAML() ([]byte, error) {
	if c == nil {
		return nil, nil
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(YAMLIndent)

	if err := encoder.Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("close encoder: %w", err)
	}
	return buf.Bytes(), nil
}

// FromYAML parses a configuration. Unknown keys are rejected so that typos
// surface instead of being ignored.
func FromYAML(data []byte) (*Config, error) {
	cfg := &Config{}
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return cfg, nil
}

// Clone returns a deep copy, CLI-only fields included.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}

	clone := *c
	clone.Editor.Colors = slices.Clone(c.Editor.Colors)
	clone.Editor.Styles = slices.Clone(c.Editor.Styles)
	clone.Ignore = slices.Clone(c.Ignore)
	clone.Editor.MaxDepth = clonePtr(c.Editor.MaxDepth)
	clone.Markdown.DetectLanguage = clonePtr(c.Markdown.DetectLanguage)
	clone.HTML.Sanitize = clonePtr(c.HTML.Sanitize)
	clone.Backups.Enabled = clonePtr(c.Backups.Enabled)
	return &clone
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
