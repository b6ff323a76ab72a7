package config

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Format is "yaml" (default) or "json".
	Format string
}

const yamlTemplate = `# richdraft configuration
# Lookup order: --config, .richdraft.yml (upward to the VCS root),
# $XDG_CONFIG_HOME/richdraft/config.yaml, /etc/richdraft/config.yaml.
# Environment variables RICHDRAFT_* override files.

editor:
  # Deepest list nesting reachable with Tab.
  max_depth: 4
  # Exclusive colour group. The first entry is the default colour and
  # choosing it clears any colour.
  colors:
    - "#000000"
    - "#e60000"
    - "#ff9900"
    - "#ffff00"
    - "#008a00"
    - "#0066cc"
    - "#9933ff"
    - "#ffffff"
  # Text of inserted atomic (media) blocks.
  atomic_placeholder: " "
  # Inline styles reported as toolbar state.
  styles: [BOLD, ITALIC, UNDERLINE, CODE]

markdown:
  # commonmark or gfm
  flavor: gfm
  # detect_language: true

html:
  # Strip unsafe markup on import and export.
  sanitize: true

output:
  # JSON indentation for saved documents (0 = compact).
  indent: 2
  # auto, always or never
  color: auto

backups:
  enabled: false
  # sidecar writes <file>.richdraft.bak; none disables backups.
  mode: sidecar

server:
  addr: "127.0.0.1:8080"
  # text, json or logfmt
  log_format: text
  max_body_bytes: 4194304

# Glob patterns skipped by batch commands such as check.
ignore:
  - "node_modules/**"
`

// GenerateTemplate renders a documented configuration file.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	switch opts.Format {
	case "", "yaml", "yml":
		return []byte(yamlTemplate), nil
	case "json":
		return templateToJSON([]byte(yamlTemplate))
	default:
		return nil, fmt.Errorf("unsupported template format %q; valid formats: yaml, json", opts.Format)
	}
}

// templateToJSON converts the YAML template to JSON; comments are lost.
func templateToJSON(yamlContent []byte) ([]byte, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(yamlContent, &doc); err != nil {
		return nil, fmt.Errorf("parse template: %w", err)
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal JSON: %w", err)
	}
	return append(out, '\n'), nil
}
