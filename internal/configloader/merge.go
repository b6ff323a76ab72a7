package configloader

import "github.com/yaklabco/richdraft/pkg/config"

// merge combines two configurations, with override taking precedence over base.
//   - Scalars: override wins when non-zero
//   - Optional booleans: override wins when non-nil, so files can say false
//   - Slices: override replaces base when non-nil
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := base.Clone()

	mergeEditor(&result.Editor, override.Editor)

	if override.Markdown.Flavor != "" {
		result.Markdown.Flavor = override.Markdown.Flavor
	}
	if override.Markdown.DetectLanguage != nil {
		result.Markdown.DetectLanguage = config.Bool(*override.Markdown.DetectLanguage)
	}
	if override.HTML.Sanitize != nil {
		result.HTML.Sanitize = config.Bool(*override.HTML.Sanitize)
	}

	if override.Output.Indent != 0 {
		result.Output.Indent = override.Output.Indent
	}
	if override.Output.Color != "" {
		result.Output.Color = override.Output.Color
	}

	if override.Backups.Enabled != nil {
		result.Backups.Enabled = config.Bool(*override.Backups.Enabled)
	}
	if override.Backups.Mode != "" {
		result.Backups.Mode = override.Backups.Mode
	}

	if override.Server.Addr != "" {
		result.Server.Addr = override.Server.Addr
	}
	if override.Server.LogFormat != "" {
		result.Server.LogFormat = override.Server.LogFormat
	}
	if override.Server.MaxBodyBytes != 0 {
		result.Server.MaxBodyBytes = override.Server.MaxBodyBytes
	}

	if override.Ignore != nil {
		result.Ignore = append([]string(nil), override.Ignore...)
	}

	// CLI-only fields.
	if override.Format != "" {
		result.Format = override.Format
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}
	if override.NoBackups {
		result.NoBackups = true
	}

	return result
}

func mergeEditor(result *config.EditorConfig, override config.EditorConfig) {
	if override.MaxDepth != nil {
		result.MaxDepth = config.Int(*override.MaxDepth)
	}
	if override.Colors != nil {
		result.Colors = append([]string(nil), override.Colors...)
	}
	if override.AtomicPlaceholder != "" {
		result.AtomicPlaceholder = override.AtomicPlaceholder
	}
	if override.Styles != nil {
		result.Styles = append([]string(nil), override.Styles...)
	}
}

// MergeAll merges configurations in order, later ones taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for _, next := range configs[1:] {
		result = merge(result, next)
	}
	return result
}
