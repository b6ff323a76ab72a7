package reporter

import "fmt"

// Format is an output format.
type Format string

// Output formats.
const (
	FormatText    Format = "text"
	FormatJSON    Format = "json"
	FormatSummary Format = "summary"
)

// ParseFormat parses a format name; empty means text.
func ParseFormat(name string) (Format, error) {
	switch name {
	case "text", "":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "summary":
		return FormatSummary, nil
	default:
		return "", fmt.Errorf("unknown format %q; valid formats: text, json, summary", name)
	}
}

// String returns the format name.
func (f Format) String() string {
	return string(f)
}

// IsValid reports whether f is a known format.
func (f Format) IsValid() bool {
	switch f {
	case FormatText, FormatJSON, FormatSummary:
		return true
	default:
		return false
	}
}
