package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/richdraft/pkg/runner"
)

const summaryDividerWidth = 40

func count(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return strconv.Itoa(n) + " " + many
}

// FormatOutcome formats one file's check result on a single line.
func (s *Styles) FormatOutcome(outcome runner.FileOutcome) string {
	path := s.FilePath.Render(outcome.Path)
	switch outcome.Status() {
	case runner.StatusOK:
		line := fmt.Sprintf("%s: %s %s", path, s.Success.Render("ok"),
			s.Dim.Render(fmt.Sprintf("(%s, %s)", count(outcome.Blocks, "block", "blocks"), count(outcome.Entities, "entity", "entities"))))
		if outcome.Output != "" {
			line += " -> " + s.FilePath.Render(outcome.Output)
		}
		return line + "\n"
	case runner.StatusInvalid:
		return fmt.Sprintf("%s: %s %v\n", path, s.Warning.Render("invalid:"), outcome.Err)
	default:
		return fmt.Sprintf("%s: %s %v\n", path, s.Error.Render("error:"), outcome.Err)
	}
}

// FormatSummaryOneLine formats run statistics as a single line, for example
// "3 files checked: 2 valid, 1 invalid".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	head := count(stats.FilesDiscovered, "file", "files") + " checked"
	if stats.FilesInvalid == 0 && stats.FilesErrored == 0 {
		return s.Success.Render(head) + s.Dim.Render(fmt.Sprintf(", all valid (%s)", count(stats.BlocksTotal, "block", "blocks"))) + "\n"
	}

	parts := []string{strconv.Itoa(stats.FilesOK) + " valid"}
	if stats.FilesInvalid > 0 {
		parts = append(parts, s.Warning.Render(strconv.Itoa(stats.FilesInvalid)+" invalid"))
	}
	if stats.FilesErrored > 0 {
		parts = append(parts, s.Error.Render(strconv.Itoa(stats.FilesErrored)+" unreadable"))
	}
	return head + ": " + strings.Join(parts, ", ") + "\n"
}

// FormatSummary formats run statistics as a block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var b strings.Builder

	b.WriteString("\n" + s.SummaryTitle.Render("Summary") + "\n")
	b.WriteString(strings.Repeat("-", summaryDividerWidth) + "\n")

	row := func(label string, value string) {
		fmt.Fprintf(&b, "  %-18s %s\n", label+":", value)
	}
	row("Files checked", s.SummaryValue.Render(strconv.Itoa(stats.FilesDiscovered)))
	row("Valid", s.SummaryValue.Render(strconv.Itoa(stats.FilesOK)))
	if stats.FilesInvalid > 0 {
		row("Invalid", s.Warning.Render(strconv.Itoa(stats.FilesInvalid)))
	}
	if stats.FilesErrored > 0 {
		row("Unreadable", s.Error.Render(strconv.Itoa(stats.FilesErrored)))
	}
	row("Blocks", s.SummaryValue.Render(strconv.Itoa(stats.BlocksTotal)))
	row("Entities", s.SummaryValue.Render(strconv.Itoa(stats.EntitiesTotal)))
	b.WriteString("\n")

	if stats.FilesInvalid > 0 || stats.FilesErrored > 0 {
		b.WriteString(s.Failure.Render("Check failed"))
	} else {
		b.WriteString(s.Success.Render("Check passed"))
	}
	b.WriteString("\n")
	return b.String()
}
