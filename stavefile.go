//go:build stave

package main

import (
	"cmp"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yaklabco/stave/pkg/sh"
	"github.com/yaklabco/stave/pkg/st"
	"github.com/yaklabco/stave/pkg/target"
)

const binary = "bin/richdraft"

// Default target runs build.
var Default = Build

// Aliases for common targets.
var Aliases = map[string]any{
	"b":   Build,
	"t":   Test.Default,
	"l":   Lint.Default,
	"c":   Check,
	"s":   Serve,
	"fmt": Lint.Fmt,
}

// Namespace types group related targets.
type (
	Test st.Namespace
	Lint st.Namespace
	CI   st.Namespace
)

// Build compiles richdraft with version info when sources changed.
func Build() error {
	rebuild, err := target.Dir(binary, "cmd/", "pkg/", "internal/", "go.mod", "go.sum")
	if err != nil {
		return err
	}
	if !rebuild {
		fmt.Println(binary, "is up to date")
		return nil
	}
	fmt.Println("Building richdraft...")
	return sh.RunV("go", "build", "-ldflags", ldflags(), "-o", binary, "./cmd/richdraft")
}

// Check runs format, lint, and test sequentially.
func Check() {
	st.SerialDeps(Lint.Fmt, Lint.Default, Test.Default)
}

// Clean removes build artifacts.
func Clean() error {
	for _, path := range []string{"bin", "coverage.out", "coverage.html"} {
		if err := sh.Rm(path); err != nil {
			return err
		}
	}
	return nil
}

// Install installs richdraft to $GOBIN or $GOPATH/bin.
func Install() error {
	return sh.RunV("go", "install", "-ldflags", ldflags(), "./cmd/richdraft")
}

// Serve builds the binary and runs the reducer server with debug logging.
func Serve() error {
	st.Deps(Build)
	return sh.RunV(binary, "serve", "--log-format", "logfmt", "--log-level", "debug")
}

// Smoke creates, edits, converts and checks a document with the built binary.
func Smoke() error {
	st.Deps(Build)

	dir, err := os.MkdirTemp("", "richdraft-smoke")
	if err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	doc := filepath.Join(dir, "smoke.json")
	script := filepath.Join(dir, "edits.yml")
	if err := os.WriteFile(script, []byte("- type: toggleBlockType\n  blockType: header-one\n"), 0o644); err != nil {
		return fmt.Errorf("write script: %w", err)
	}

	steps := [][]string{
		{"new", doc, "--text", "Smoke test"},
		{"apply", doc, "--script", script},
		{"export", doc, "-f", "html"},
		{"check", doc},
	}
	for _, args := range steps {
		if err := sh.RunV(binary, args...); err != nil {
			return fmt.Errorf("richdraft %s: %w", args[0], err)
		}
	}
	return nil
}

// Default runs all tests with race detection and coverage.
func (Test) Default() error {
	nCores := cmp.Or(os.Getenv("STAVE_NUM_PROCESSORS"), "4")
	return sh.RunV("go",
		"tool", "gotestsum",
		"-f", "pkgname-and-test-fails",
		"--",
		"-race",
		"-p", nCores,
		"./...",
		"-coverprofile=coverage.out",
		"-covermode=atomic",
	)
}

// Coverage renders coverage.out as HTML.
func (Test) Coverage() error {
	st.Deps(Test.Default)
	return sh.RunV("go", "tool", "cover", "-html=coverage.out", "-o", "coverage.html")
}

// Default runs golangci-lint with auto-fix.
func (Lint) Default() error {
	return sh.RunV("golangci-lint", "run", "--fix", "./...")
}

// Fmt formats all Go code.
func (Lint) Fmt() error {
	return sh.RunV("gofmt", "-w", ".")
}

// FmtCheck fails when any file is not gofmt-clean.
func (Lint) FmtCheck() error {
	out, err := sh.Output("gofmt", "-l", ".")
	if err != nil {
		return fmt.Errorf("gofmt: %w", err)
	}
	if out != "" {
		return fmt.Errorf("unformatted files:\n%s", out)
	}
	return nil
}

// Gate runs every check CI runs.
func (CI) Gate() {
	st.SerialDeps(Lint.FmtCheck, Build, Test.Default, CI.ModTidy, Smoke)
}

// ModTidy checks that go.mod and go.sum are tidy.
func (CI) ModTidy() error {
	before, err := readModFiles()
	if err != nil {
		return err
	}
	if err := sh.RunV("go", "mod", "tidy"); err != nil {
		return err
	}
	after, err := readModFiles()
	if err != nil {
		return err
	}
	if before != after {
		return errors.New("go.mod or go.sum changed after 'go mod tidy'")
	}
	return nil
}

func readModFiles() (string, error) {
	var b strings.Builder
	for _, name := range []string{"go.mod", "go.sum"} {
		data, err := os.ReadFile(name)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", name, err)
		}
		b.Write(data)
	}
	return b.String(), nil
}

func gitOutput(args ...string) string {
	out, err := sh.Output("git", args...)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

// ldflags injects version, commit and build date into main.
func ldflags() string {
	version := cmp.Or(gitOutput("describe", "--tags", "--always", "--dirty"), "dev")
	commit := cmp.Or(gitOutput("rev-parse", "--short", "HEAD"), "none")
	date := time.Now().UTC().Format(time.RFC3339)
	return fmt.Sprintf("-X main.version=%s -X main.commit=%s -X main.date=%s", version, commit, date)
}
