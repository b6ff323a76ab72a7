package configloader

import (
	"fmt"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/yaklabco/richdraft/pkg/config"
	"github.com/yaklabco/richdraft/pkg/richtext"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "editor.colors[2]").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string
	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	parts = append(parts, e.Message)
	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues.
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

func (r *ValidationResult) fail(field string, value any, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

func (r *ValidationResult) warn(field string, value any, format string, args ...any) {
	r.Warnings = append(r.Warnings, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

//nolint:gochecknoglobals // Read-only lookup tables.
var (
	knownFlavors     = []config.Flavor{config.FlavorCommonMark, config.FlavorGFM}
	knownBackupModes = []string{config.BackupModeSidecar, config.BackupModeNone}
	knownLogFormats  = []string{"text", "json", "logfmt"}
	knownColorModes  = []string{"auto", "always", "never"}
	knownStyles      = []string{
		richtext.StyleBold,
		richtext.StyleItalic,
		richtext.StyleUnderline,
		richtext.StyleCode,
		richtext.StyleStrikethrough,
	}
	hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
)

// Validate checks a configuration for errors and warnings. Zero values are
// treated as unset, so partial file configs validate cleanly.
func Validate(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	validateEditor(cfg.Editor, result)

	if cfg.Markdown.Flavor != "" && !IsValidFlavor(cfg.Markdown.Flavor) {
		result.fail("markdown.flavor", cfg.Markdown.Flavor,
			"invalid flavor %q; must be one of: commonmark, gfm", cfg.Markdown.Flavor)
	}
	if cfg.Output.Indent < 0 {
		result.fail("output.indent", cfg.Output.Indent, "indent must be >= 0")
	}
	if cfg.Output.Color != "" && !slices.Contains(knownColorModes, cfg.Output.Color) {
		result.fail("output.color", cfg.Output.Color,
			"invalid color mode %q; must be one of: auto, always, never", cfg.Output.Color)
	}
	if cfg.Backups.Mode != "" && !IsValidBackupMode(cfg.Backups.Mode) {
		result.fail("backups.mode", cfg.Backups.Mode,
			"invalid backup mode %q; must be one of: sidecar, none", cfg.Backups.Mode)
	}
	if cfg.Server.LogFormat != "" && !slices.Contains(knownLogFormats, cfg.Server.LogFormat) {
		result.fail("server.log_format", cfg.Server.LogFormat,
			"invalid log format %q; must be one of: text, json, logfmt", cfg.Server.LogFormat)
	}
	if cfg.Server.MaxBodyBytes < 0 {
		result.fail("server.max_body_bytes", cfg.Server.MaxBodyBytes, "max_body_bytes must be >= 0")
	}
	if cfg.Jobs < 0 {
		result.fail("jobs", cfg.Jobs, "jobs must be >= 0 (0 means auto)")
	}

	for i, pattern := range cfg.Ignore {
		if _, err := filepath.Match(pattern, ""); err != nil {
			result.fail(fmt.Sprintf("ignore[%d]", i), pattern, "invalid glob pattern: %v", err)
		}
	}

	return result
}

func validateEditor(editorCfg config.EditorConfig, result *ValidationResult) {
	if editorCfg.MaxDepth != nil && *editorCfg.MaxDepth < 0 {
		result.fail("editor.max_depth", *editorCfg.MaxDepth, "max_depth must be >= 0")
	}

	if editorCfg.Colors != nil && len(editorCfg.Colors) == 0 {
		result.fail("editor.colors", editorCfg.Colors, "colour group must not be empty")
	}
	seen := make(map[string]bool, len(editorCfg.Colors))
	for i, color := range editorCfg.Colors {
		field := fmt.Sprintf("editor.colors[%d]", i)
		if !hexColor.MatchString(color) {
			result.fail(field, color, "invalid colour %q; expected #rrggbb", color)
			continue
		}
		key := strings.ToLower(color)
		if seen[key] {
			result.warn(field, color, "duplicate colour %q", color)
		}
		seen[key] = true
	}

	for i, style := range editorCfg.Styles {
		if !slices.Contains(knownStyles, style) {
			result.warn(fmt.Sprintf("editor.styles[%d]", i), style, "unknown inline style %q", style)
		}
	}
}

// ValidateWithFile validates configuration and records filePath on each finding.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := Validate(cfg)
	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}
	return result
}

// IsValidFlavor returns true if the flavor is valid.
func IsValidFlavor(f config.Flavor) bool {
	return slices.Contains(knownFlavors, f)
}

// IsValidBackupMode returns true if the backup mode is valid.
func IsValidBackupMode(mode string) bool {
	return slices.Contains(knownBackupModes, mode)
}
