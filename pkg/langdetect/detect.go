// Package langdetect guesses the programming language of code-block text so
// that imported and exported code blocks carry a language tag.
package langdetect

import (
	"bytes"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Plain is returned when no language can be determined.
const Plain = "text"

// rule matches a language from a cheap textual signal.
type rule struct {
	lang  string
	match func(text string, trimmed []byte) bool
}

//nolint:gochecknoglobals // lookup table
var rules = []rule{
	{"go", func(_ string, trimmed []byte) bool {
		return bytes.HasPrefix(trimmed, []byte("package "))
	}},
	{"python", func(text string, _ []byte) bool {
		if strings.Contains(text, "def ") && strings.Contains(text, "):") {
			return true
		}
		if strings.Contains(text, "__name__") {
			return true
		}
		return strings.HasPrefix(strings.TrimSpace(text), "import ") && !strings.Contains(text, "import (")
	}},
	{"html", func(_ string, trimmed []byte) bool {
		lower := bytes.ToLower(trimmed)
		for _, marker := range []string{"<!doctype html", "<html", "<head>", "<body>"} {
			if bytes.Contains(lower, []byte(marker)) {
				return true
			}
		}
		return false
	}},
	{"json", func(_ string, trimmed []byte) bool {
		return (bytes.HasPrefix(trimmed, []byte("{")) || bytes.HasPrefix(trimmed, []byte("["))) &&
			bytes.Contains(trimmed, []byte(`"`))
	}},
	{"dockerfile", func(text string, trimmed []byte) bool {
		return bytes.HasPrefix(trimmed, []byte("FROM ")) ||
			(strings.Contains(text, "WORKDIR ") && strings.Contains(text, "COPY "))
	}},
	{"sql", func(text string, _ []byte) bool {
		upper := strings.ToUpper(strings.TrimSpace(text))
		for _, verb := range []string{"SELECT ", "INSERT ", "UPDATE ", "DELETE ", "CREATE "} {
			if strings.HasPrefix(upper, verb) {
				return true
			}
		}
		return false
	}},
	{"rust", func(text string, _ []byte) bool {
		return strings.Contains(text, "fn main()") || strings.Contains(text, "println!") ||
			strings.Contains(text, "let mut ")
	}},
	{"javascript", func(text string, _ []byte) bool {
		return strings.Contains(text, "=>") || strings.Contains(text, "console.log") ||
			strings.Contains(text, "const ")
	}},
	{"yaml", func(text string, _ []byte) bool {
		return yamlKeys(text) >= 2
	}},
}

//nolint:gochecknoglobals // classifier candidates
var candidates = []string{
	"Go", "Python", "Shell", "JavaScript", "TypeScript",
	"Ruby", "Rust", "Java", "C", "C++", "SQL", "JSON",
	"YAML", "HTML", "CSS", "Dockerfile",
}

// Detect returns a fence tag for content such as "go" or "bash", or Plain.
func Detect(content []byte) string {
	if len(bytes.TrimSpace(content)) == 0 {
		return Plain
	}

	if lang, safe := enry.GetLanguageByShebang(content); safe {
		return normalize(lang)
	}

	text := string(content)
	trimmed := bytes.TrimSpace(content)
	for _, r := range rules {
		if r.match(text, trimmed) {
			return r.lang
		}
	}

	if lang, safe := enry.GetLanguageByClassifier(content, candidates); safe && lang != "" {
		return normalize(lang)
	}
	return Plain
}

// ForCodeBlock returns the language of code-block text, or "" when unknown.
func ForCodeBlock(text string) string {
	lang := Detect([]byte(text))
	if lang == Plain {
		return ""
	}
	return lang
}

// FromFilename returns the fence tag for a file name, or "".
func FromFilename(name string) string {
	lang, safe := enry.GetLanguageByExtension(name)
	if !safe || lang == "" {
		return ""
	}
	return normalize(lang)
}

func yamlKeys(text string) int {
	count := 0
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "- ") {
			count++
			continue
		}
		if strings.Contains(line, ": ") && !strings.ContainsAny(line, "({") && !strings.HasPrefix(line, `"`) {
			count++
		}
	}
	return count
}

func normalize(lang string) string {
	if lang == "Shell" {
		return "bash"
	}
	return strings.ToLower(lang)
}
