// Package config defines the richdraft configuration types. They are plain
// data; discovery and merging live in internal/configloader.
package config

import (
	"github.com/yaklabco/richdraft/pkg/editor"
	"github.com/yaklabco/richdraft/pkg/richtext"
)

// Flavor is the Markdown dialect used by converters.
type Flavor string

// Markdown flavors.
const (
	FlavorCommonMark Flavor = "commonmark"
	FlavorGFM        Flavor = "gfm"
)

// Backup modes.
const (
	BackupModeSidecar = "sidecar"
	BackupModeNone    = "none"
)

// EditorConfig configures the mutation reducer.
type EditorConfig struct {
	// MaxDepth bounds list nesting reached with Tab. Nil keeps the
	// default; 0 disables nesting.
	MaxDepth *int `yaml:"max_depth,omitempty"`

	// Colors is the exclusive colour group; the first entry is the default colour.
	Colors []string `yaml:"colors"`

	// AtomicPlaceholder is the text of inserted atomic blocks.
	AtomicPlaceholder string `yaml:"atomic_placeholder"`

	// Styles are the inline styles offered on the toolbar.
	Styles []string `yaml:"styles"`
}

// MarkdownConfig configures Markdown conversion.
type MarkdownConfig struct {
	Flavor Flavor `yaml:"flavor"`

	// DetectLanguage guesses the language of unlabelled code blocks.
	DetectLanguage *bool `yaml:"detect_language,omitempty"`
}

// HTMLConfig configures HTML conversion.
type HTMLConfig struct {
	// Sanitize cleans exported and imported HTML. Defaults to true.
	Sanitize *bool `yaml:"sanitize,omitempty"`
}

// OutputConfig configures how documents are written.
type OutputConfig struct {
	// Indent pretty-prints saved JSON; 0 writes compact JSON.
	Indent int `yaml:"indent"`

	// Color is "auto", "always" or "never".
	Color string `yaml:"color"`
}

// BackupsConfig controls sidecar backups when a command overwrites a document.
type BackupsConfig struct {
	Enabled *bool  `yaml:"enabled,omitempty"`
	Mode    string `yaml:"mode"`
}

// ServerConfig configures `richdraft serve`.
type ServerConfig struct {
	Addr string `yaml:"addr"`

	// LogFormat is "text", "json" or "logfmt".
	LogFormat string `yaml:"log_format"`

	// MaxBodyBytes limits request bodies.
	MaxBodyBytes int64 `yaml:"max_body_bytes"`
}

// Config is the root configuration.
type Config struct {
	Editor   EditorConfig   `yaml:"editor"`
	Markdown MarkdownConfig `yaml:"markdown"`
	HTML     HTMLConfig     `yaml:"html"`
	Output   OutputConfig   `yaml:"output"`
	Backups  BackupsConfig  `yaml:"backups"`
	Server   ServerConfig   `yaml:"server"`

	// Ignore holds glob patterns skipped by batch commands.
	Ignore []string `yaml:"ignore"`

	// CLI-level options (not persisted to config files).

	// Format is the report or export format chosen on the command line.
	Format string `yaml:"-"`

	// Jobs caps concurrent workers; 0 means one per CPU.
	Jobs int `yaml:"-"`

	// NoBackups disables backups regardless of Backups.Enabled.
	NoBackups bool `yaml:"-"`
}

// Defaults.
const (
	DefaultAddr         = "127.0.0.1:8080"
	DefaultMaxBodyBytes = 4 << 20
	DefaultIndent       = 2
)

// NewConfig returns a Config with defaults applied.
func NewConfig() *Config {
	return &Config{
		Editor: EditorConfig{
			MaxDepth:          Int(editor.DefaultMaxDepth),
			Colors:            editor.DefaultColors(),
			AtomicPlaceholder: editor.DefaultAtomicPlaceholder,
			Styles: []string{
				richtext.StyleBold,
				richtext.StyleItalic,
				richtext.StyleUnderline,
				richtext.StyleCode,
			},
		},
		Markdown: MarkdownConfig{Flavor: FlavorGFM},
		Output:   OutputConfig{Indent: DefaultIndent, Color: "auto"},
		Backups:  BackupsConfig{Mode: BackupModeSidecar},
		Server: ServerConfig{
			Addr:         DefaultAddr,
			LogFormat:    "text",
			MaxBodyBytes: DefaultMaxBodyBytes,
		},
	}
}

// EditorOptions converts the editor section into reducer options.
func (c *Config) EditorOptions() editor.Options {
	opts := editor.DefaultOptions()
	if c.Editor.MaxDepth != nil {
		opts.MaxDepth = max(0, *c.Editor.MaxDepth)
	}
	if len(c.Editor.Colors) > 0 {
		opts.Colors = editor.ColorGroup(c.Editor.Colors)
	}
	if c.Editor.AtomicPlaceholder != "" {
		opts.AtomicPlaceholder = c.Editor.AtomicPlaceholder
	}
	return opts
}

// SanitizeHTML reports whether HTML should be sanitised.
func (c *Config) SanitizeHTML() bool {
	return c.HTML.Sanitize == nil || *c.HTML.Sanitize
}

// DetectLanguage reports whether code-block languages should be guessed.
func (c *Config) DetectLanguage() bool {
	return c.Markdown.DetectLanguage == nil || *c.Markdown.DetectLanguage
}

// BackupsEnabled reports whether overwrites should keep a sidecar backup.
func (c *Config) BackupsEnabled() bool {
	if c.NoBackups || c.Backups.Mode == BackupModeNone {
		return false
	}
	return c.Backups.Enabled != nil && *c.Backups.Enabled
}

// Bool returns a pointer to b, for the optional fields.
func Bool(b bool) *bool {
	return &b
}

// Int returns a pointer to n, for the optional fields.
func Int(n int) *int {
	return &n
}
