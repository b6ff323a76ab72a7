package configloader

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/yaklabco/richdraft/pkg/config"
)

// EnvPrefix is the prefix for all richdraft environment variables.
const EnvPrefix = "RICHDRAFT_"

type envFieldType int

const (
	envTypeString envFieldType = iota
	envTypeBool
	envTypeInt
	envTypeSlice
)

// envMapping binds one environment variable to a config field.
type envMapping struct {
	typ         envFieldType
	description string
	apply       func(cfg *config.Config, value any)
}

// envMappings maps environment variable names (without prefix) to config fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"FLAVOR": {envTypeString, "Markdown flavor: commonmark or gfm", func(cfg *config.Config, v any) {
		cfg.Markdown.Flavor = config.Flavor(v.(string))
	}},
	"MAX_DEPTH": {envTypeInt, "Deepest list nesting reachable with Tab", func(cfg *config.Config, v any) {
		cfg.Editor.MaxDepth = config.Int(v.(int))
	}},
	"COLORS": {envTypeSlice, "Comma-separated colour group; the first is the default", func(cfg *config.Config, v any) {
		cfg.Editor.Colors = v.([]string)
	}},
	"SANITIZE": {envTypeBool, "Sanitize HTML on import and export: true or false", func(cfg *config.Config, v any) {
		cfg.HTML.Sanitize = config.Bool(v.(bool))
	}},
	"INDENT": {envTypeInt, "JSON indentation for saved documents", func(cfg *config.Config, v any) {
		cfg.Output.Indent = v.(int)
	}},
	"COLOR": {envTypeString, "Colour output: auto, always or never", func(cfg *config.Config, v any) {
		cfg.Output.Color = v.(string)
	}},
	"JOBS": {envTypeInt, "Number of parallel workers (0 = auto)", func(cfg *config.Config, v any) {
		cfg.Jobs = v.(int)
	}},
	"FORMAT": {envTypeString, "Output format for check and export", func(cfg *config.Config, v any) {
		cfg.Format = v.(string)
	}},
	"BACKUPS_ENABLED": {envTypeBool, "Keep a sidecar backup when overwriting: true or false", func(cfg *config.Config, v any) {
		cfg.Backups.Enabled = config.Bool(v.(bool))
	}},
	"BACKUPS_MODE": {envTypeString, "Backup mode: sidecar or none", func(cfg *config.Config, v any) {
		cfg.Backups.Mode = v.(string)
	}},
	"NO_BACKUPS": {envTypeBool, "Disable backups: true or false", func(cfg *config.Config, v any) {
		cfg.NoBackups = v.(bool)
	}},
	"IGNORE": {envTypeSlice, "Comma-separated list of ignore patterns", func(cfg *config.Config, v any) {
		cfg.Ignore = v.([]string)
	}},
	"ADDR": {envTypeString, "Listen address for serve", func(cfg *config.Config, v any) {
		cfg.Server.Addr = v.(string)
	}},
	"LOG_FORMAT": {envTypeString, "Server log format: text, json or logfmt", func(cfg *config.Config, v any) {
		cfg.Server.LogFormat = v.(string)
	}},
}

// ApplyEnv applies RICHDRAFT_* overrides found in environ ("KEY=value" pairs)
// to cfg. Empty values are ignored.
func ApplyEnv(cfg *config.Config, environ []string) error {
	if cfg == nil {
		return nil
	}

	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || value == "" || !strings.HasPrefix(name, EnvPrefix) {
			continue
		}

		mapping, known := envMappings[strings.TrimPrefix(name, EnvPrefix)]
		if !known {
			continue
		}

		parsed, err := parseEnvValue(mapping.typ, value, name)
		if err != nil {
			return err
		}
		mapping.apply(cfg, parsed)
	}

	return nil
}

func parseEnvValue(typ envFieldType, value, envVar string) (any, error) {
	switch typ {
	case envTypeString:
		return value, nil
	case envTypeBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("invalid boolean for %s: %q (expected true/false/1/0)", envVar, value)
		}
		return b, nil
	case envTypeInt:
		i, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("invalid integer for %s: %q", envVar, value)
		}
		return i, nil
	case envTypeSlice:
		return parseSliceValue(value), nil
	default:
		return nil, fmt.Errorf("unknown field type for %s", envVar)
	}
}

// parseSliceValue splits a comma-separated list, trimming and dropping empty parts.
func parseSliceValue(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// EnvVar describes one supported environment variable.
type EnvVar struct {
	Name        string
	Description string
}

// ListEnvVars returns the supported environment variables sorted by name.
func ListEnvVars() []EnvVar {
	vars := make([]EnvVar, 0, len(envMappings))
	for suffix, mapping := range envMappings {
		vars = append(vars, EnvVar{Name: EnvPrefix + suffix, Description: mapping.description})
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i].Name < vars[j].Name })
	return vars
}
