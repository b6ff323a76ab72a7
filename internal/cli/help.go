package cli

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/yaklabco/richdraft/internal/ui/pretty"
)

// helpStyles maps help template roles onto the shared terminal styles.
type helpStyles struct {
	command    lipgloss.Style
	heading    lipgloss.Style
	subcommand lipgloss.Style
	flag       lipgloss.Style
	example    lipgloss.Style
	dim        lipgloss.Style
}

func newHelpStyles(s *pretty.Styles) *helpStyles {
	if !s.ColorEnabled() {
		return &helpStyles{
			command:    s.Bold,
			heading:    s.Bold,
			subcommand: s.Dim,
			flag:       s.Dim,
			example:    s.Dim,
			dim:        s.Dim,
		}
	}
	return &helpStyles{
		command:    s.Code.Bold(true),
		heading:    s.Warning,
		subcommand: s.Success.UnsetBold(),
		flag:       s.Heading.UnsetBold(),
		example:    s.Dim,
		dim:        s.Dim,
	}
}

// HelpFormatter provides styled help output for Cobra commands.
type HelpFormatter struct {
	styles *helpStyles
}

// NewHelpFormatter creates a new help formatter with the given color mode.
func NewHelpFormatter(colorMode string, writer io.Writer) *HelpFormatter {
	styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode, writer))
	return &HelpFormatter{styles: newHelpStyles(styles)}
}

// templateFuncs returns template functions for styled help rendering.
func (h *HelpFormatter) templateFuncs() template.FuncMap {
	return template.FuncMap{
		"styleCommand":            h.styles.command.Render,
		"styleHeading":            h.styles.heading.Render,
		"styleSubcommand":         h.styles.subcommand.Render,
		"styleExample":            h.styles.example.Render,
		"styleDim":                h.styles.dim.Render,
		"styleFlagsUsage":         h.styleFlagsUsage,
		"join":                    strings.Join,
		"rpad":                    rpad,
		"trimTrailingWhitespaces": trimTrailingWhitespaces,
	}
}

// usageTemplate returns the styled usage template.
func (h *HelpFormatter) usageTemplate() string {
	return `{{ styleHeading "Usage:" }}
  {{if .Runnable}}{{ styleCommand .UseLine }}{{end}}
  {{if .HasAvailableSubCommands}}{{ styleCommand .CommandPath }} [command]{{end}}

{{- if gt (len .Aliases) 0}}

{{ styleHeading "Aliases:" }}
  {{ styleDim (join .Aliases ", ") }}
{{- end}}

{{- if .HasExample}}

{{ styleHeading "Examples:" }}
{{ styleExample .Example }}
{{- end}}

{{- if .HasAvailableSubCommands}}

{{ styleHeading "Available Commands:" }}{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{ styleSubcommand (rpad .Name .NamePadding) }} {{ .Short }}{{end}}{{end}}
{{- end}}

{{- if .HasAvailableLocalFlags}}

{{ styleHeading "Flags:" }}
{{ styleFlagsUsage .LocalFlags }}
{{- end}}

{{- if .HasAvailableInheritedFlags}}

{{ styleHeading "Global Flags:" }}
{{ styleFlagsUsage .InheritedFlags }}
{{- end}}

{{- if .HasHelpSubCommands}}

{{ styleHeading "Additional help topics:" }}{{range .Commands}}{{if .IsAdditionalHelpTopicCommand}}
  {{ styleSubcommand (rpad .CommandPath .CommandPathPadding) }} {{ .Short }}{{end}}{{end}}
{{- end}}

{{- if .HasAvailableSubCommands}}

Use "{{ styleCommand (print .CommandPath " [command] --help") }}" for more information about a command.
{{- end}}
`
}

// helpTemplate returns the styled help template.
func (h *HelpFormatter) helpTemplate() string {
	return `{{if or .Runnable .HasSubCommands}}{{ styleCommand .CommandPath }}{{if .Version}} {{ styleDim .Version }}{{end}}

{{end}}{{with (or .Long .Short)}}{{ . | trimTrailingWhitespaces }}

{{end}}` + h.usageTemplate()
}

func (h *HelpFormatter) styleFlagsUsage(flags interface{ FlagUsages() string }) string {
	usages := strings.TrimSuffix(flags.FlagUsages(), "\n")
	if usages == "" {
		return ""
	}

	lines := strings.Split(usages, "\n")
	for i, line := range lines {
		lines[i] = h.styleFlagLine(line)
	}
	return strings.Join(lines, "\n")
}

// styleFlagLine styles one pflag usage line: "  -f, --flag type   description".
func (h *HelpFormatter) styleFlagLine(line string) string {
	trimmed := strings.TrimLeft(line, " ")
	if trimmed == "" {
		return line
	}

	flagPart, desc, ok := splitFlagLine(trimmed)
	if !ok {
		return line
	}
	indent := line[:len(line)-len(trimmed)]
	return indent + h.styleFlagPart(flagPart) + "   " + desc
}

// splitFlagLine splits at the first run of two or more spaces.
func splitFlagLine(line string) (string, string, bool) {
	idx := strings.Index(line, "  ")
	if idx < 0 {
		return "", "", false
	}
	desc := strings.TrimLeft(line[idx:], " ")
	if desc == "" {
		return "", "", false
	}
	return line[:idx], desc, true
}

// styleFlagPart colours flag names and dims the value type.
func (h *HelpFormatter) styleFlagPart(flagPart string) string {
	tokens := strings.Fields(flagPart)
	for i, token := range tokens {
		if !strings.HasPrefix(token, "-") {
			tokens[i] = h.styles.dim.Render(token)
			continue
		}
		name, comma := strings.CutSuffix(token, ",")
		tokens[i] = h.styles.flag.Render(name)
		if comma {
			tokens[i] += ","
		}
	}
	return strings.Join(tokens, " ")
}

// ApplyToCommand installs the styled templates on cmd; subcommands inherit them.
func (h *HelpFormatter) ApplyToCommand(cmd *cobra.Command) {
	funcs := h.templateFuncs()

	cmd.SetUsageFunc(func(command *cobra.Command) error {
		tmpl, err := template.New("usage").Funcs(funcs).Parse(h.usageTemplate())
		if err != nil {
			return fmt.Errorf("parse usage template: %w", err)
		}
		return tmpl.Execute(command.OutOrStdout(), command)
	})

	cmd.SetHelpFunc(func(command *cobra.Command, _ []string) {
		tmpl, err := template.New("help").Funcs(funcs).Parse(h.helpTemplate())
		if err != nil {
			command.PrintErrln(err)
			return
		}
		if err := tmpl.Execute(command.OutOrStdout(), command); err != nil {
			command.PrintErrln(err)
		}
	})
}

// rpad adds padding to the right of a string.
func rpad(str string, padding int) string {
	if len(str) >= padding {
		return str
	}
	return str + strings.Repeat(" ", padding-len(str))
}

// trimTrailingWhitespaces removes trailing whitespace from lines.
func trimTrailingWhitespaces(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
