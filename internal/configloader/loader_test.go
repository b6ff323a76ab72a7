package configloader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yaklabco/richdraft/pkg/config"
)

func isolated(dir string) LoadOptions {
	return LoadOptions{
		WorkingDir:         dir,
		IgnoreSystemConfig: true,
		IgnoreUserConfig:   true,
		Environ:            []string{},
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	result, err := Load(context.Background(), isolated(t.TempDir()))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if result.Config.Markdown.Flavor != config.FlavorGFM {
		t.Errorf("expected flavor %q, got %q", config.FlavorGFM, result.Config.Markdown.Flavor)
	}
	if depth := result.Config.EditorOptions().MaxDepth; depth != 4 {
		t.Errorf("expected max_depth 4, got %d", depth)
	}
	if len(result.LoadedFrom) != 0 {
		t.Errorf("expected no loaded files, got %v", result.LoadedFrom)
	}
}

func TestLoad_ProjectConfig(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(root, ".richdraft.yml"), `
editor:
  max_depth: 2
  colors: ["#000000", "#ff0000"]
html:
  sanitize: false
`)
	nested := filepath.Join(root, "docs", "drafts")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	result, err := Load(context.Background(), isolated(nested))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	cfg := result.Config
	if depth := cfg.EditorOptions().MaxDepth; depth != 2 {
		t.Errorf("expected max_depth 2, got %d", depth)
	}
	if len(cfg.Editor.Colors) != 2 || cfg.Editor.Colors[1] != "#ff0000" {
		t.Errorf("unexpected colours %v", cfg.Editor.Colors)
	}
	if cfg.SanitizeHTML() {
		t.Error("expected sanitize false from project config")
	}
	if cfg.Editor.AtomicPlaceholder != " " {
		t.Errorf("unset fields keep defaults, got placeholder %q", cfg.Editor.AtomicPlaceholder)
	}
	if len(result.LoadedFrom) != 1 || !strings.HasSuffix(result.LoadedFrom[0], ".richdraft.yml") {
		t.Errorf("expected project config to be loaded, got %v", result.LoadedFrom)
	}
}

func TestFindProjectConfig_StopsAtVCSRoot(t *testing.T) {
	t.Parallel()

	outer := t.TempDir()
	writeFile(t, filepath.Join(outer, ".richdraft.yml"), "editor:\n  max_depth: 1\n")
	repo := filepath.Join(outer, "repo")
	if err := os.MkdirAll(filepath.Join(repo, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}

	path, err := FindProjectConfig(context.Background(), repo)
	if err != nil {
		t.Fatalf("FindProjectConfig() error = %v", err)
	}
	if path != "" {
		t.Errorf("expected search to stop at the repository root, found %s", path)
	}
}

func TestLoad_ZeroMaxDepth(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".richdraft.yml"), "editor:\n  max_depth: 0\n")

	result, err := Load(context.Background(), isolated(dir))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if depth := result.Config.EditorOptions().MaxDepth; depth != 0 {
		t.Errorf("expected an explicit max_depth 0 to disable nesting, got %d", depth)
	}

	opts := isolated(t.TempDir())
	opts.Environ = []string{"RICHDRAFT_MAX_DEPTH=0"}
	result, err = Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if depth := result.Config.EditorOptions().MaxDepth; depth != 0 {
		t.Errorf("expected RICHDRAFT_MAX_DEPTH=0 to disable nesting, got %d", depth)
	}
}

func TestLoad_Precedence(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".richdraft.yml"), "markdown:\n  flavor: commonmark\noutput:\n  indent: 4\n")
	explicit := filepath.Join(dir, "custom.yml")
	writeFile(t, explicit, "output:\n  indent: 8\nserver:\n  addr: \":9000\"\n")

	opts := isolated(dir)
	opts.ExplicitPath = explicit
	opts.Environ = []string{"RICHDRAFT_ADDR=:9100", "RICHDRAFT_JOBS=3", "OTHER=1"}
	opts.CLIConfig = &config.Config{Jobs: 8, NoBackups: true}

	result, err := Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	cfg := result.Config
	if cfg.Markdown.Flavor != config.FlavorCommonMark {
		t.Errorf("expected project flavor, got %q", cfg.Markdown.Flavor)
	}
	if cfg.Output.Indent != 8 {
		t.Errorf("expected explicit config to beat project config, got indent %d", cfg.Output.Indent)
	}
	if cfg.Server.Addr != ":9100" {
		t.Errorf("expected env to beat explicit config, got addr %q", cfg.Server.Addr)
	}
	if cfg.Jobs != 8 {
		t.Errorf("expected CLI to beat env, got jobs %d", cfg.Jobs)
	}
	if !cfg.NoBackups {
		t.Error("expected no_backups from CLI")
	}
	if got := len(result.LoadedFrom); got != 2 {
		t.Errorf("expected 2 loaded files, got %d", got)
	}
}

func TestLoad_InvalidConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		field   string
	}{
		{"bad flavor", "markdown:\n  flavor: rst\n", "markdown.flavor"},
		{"bad colour", "editor:\n  colors: [\"red\"]\n", "editor.colors[0]"},
		{"empty colour group", "editor:\n  colors: []\n", "editor.colors"},
		{"negative depth", "editor:\n  max_depth: -1\n", "editor.max_depth"},
		{"bad backup mode", "backups:\n  mode: cloud\n", "backups.mode"},
		{"bad log format", "server:\n  log_format: xml\n", "server.log_format"},
		{"bad glob", "ignore: [\"[\"]\n", "ignore[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			writeFile(t, filepath.Join(dir, ".richdraft.yml"), tt.content)

			_, err := Load(context.Background(), isolated(dir))
			if err == nil {
				t.Fatal("expected validation error")
			}

			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("expected *ValidationError, got %T: %v", err, err)
			}
			if validationErr.Field != tt.field {
				t.Errorf("expected field %q, got %q", tt.field, validationErr.Field)
			}
			if !strings.HasSuffix(validationErr.FilePath, ".richdraft.yml") {
				t.Errorf("expected file path on error, got %q", validationErr.FilePath)
			}
		})
	}
}

func TestLoad_UnknownKey(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".richdraft.yml"), "editor:\n  depth: 3\n")

	if _, err := Load(context.Background(), isolated(dir)); err == nil {
		t.Fatal("expected an error for an unknown key")
	}
}

func TestLoad_Warnings(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".richdraft.yml"), "editor:\n  styles: [BOLD, SHOUTING]\n")

	result, err := Load(context.Background(), isolated(dir))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(result.Warnings) != 1 || !strings.Contains(result.Warnings[0], "SHOUTING") {
		t.Errorf("expected one warning about SHOUTING, got %v", result.Warnings)
	}
}

func TestLoad_BadEnv(t *testing.T) {
	t.Parallel()

	opts := isolated(t.TempDir())
	opts.Environ = []string{"RICHDRAFT_MAX_DEPTH=deep"}

	_, err := Load(context.Background(), opts)
	if err == nil || !strings.Contains(err.Error(), "RICHDRAFT_MAX_DEPTH") {
		t.Fatalf("expected env parse error, got %v", err)
	}
}

func TestLoad_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Load(ctx, isolated(t.TempDir())); err == nil {
		t.Fatal("expected context cancellation error")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	err := ApplyEnv(cfg, []string{
		"RICHDRAFT_COLORS=#000000, #ff0000 ,",
		"RICHDRAFT_SANITIZE=false",
		"RICHDRAFT_BACKUPS_ENABLED=1",
		"RICHDRAFT_FLAVOR=",
		"RICHDRAFT_UNKNOWN=x",
	})
	if err != nil {
		t.Fatalf("ApplyEnv() error = %v", err)
	}

	if len(cfg.Editor.Colors) != 2 || cfg.Editor.Colors[1] != "#ff0000" {
		t.Errorf("unexpected colours %v", cfg.Editor.Colors)
	}
	if cfg.SanitizeHTML() {
		t.Error("expected sanitize false")
	}
	if !cfg.BackupsEnabled() {
		t.Error("expected backups enabled")
	}
	if cfg.Markdown.Flavor != config.FlavorGFM {
		t.Errorf("empty values are ignored, got flavor %q", cfg.Markdown.Flavor)
	}

	if err := ApplyEnv(cfg, []string{"RICHDRAFT_SANITIZE=maybe"}); err == nil {
		t.Error("expected boolean parse error")
	}
}

func TestListEnvVars(t *testing.T) {
	t.Parallel()

	vars := ListEnvVars()
	if len(vars) != len(envMappings) {
		t.Fatalf("expected %d vars, got %d", len(envMappings), len(vars))
	}
	for i, v := range vars {
		if !strings.HasPrefix(v.Name, EnvPrefix) || v.Description == "" {
			t.Errorf("bad entry %+v", v)
		}
		if i > 0 && vars[i-1].Name >= v.Name {
			t.Errorf("not sorted at %d", i)
		}
	}
}

func TestMerge(t *testing.T) {
	t.Parallel()

	base := config.NewConfig()
	base.HTML.Sanitize = config.Bool(true)

	override := &config.Config{
		HTML:    config.HTMLConfig{Sanitize: config.Bool(false)},
		Editor:  config.EditorConfig{Styles: []string{"BOLD"}},
		Backups: config.BackupsConfig{Enabled: config.Bool(true)},
	}

	merged := MergeAll(base, override)
	if merged.SanitizeHTML() {
		t.Error("explicit false overrides true")
	}
	if len(merged.Editor.Styles) != 1 {
		t.Errorf("slices replace, got %v", merged.Editor.Styles)
	}
	if !merged.BackupsEnabled() {
		t.Error("expected backups enabled")
	}
	if depth := merged.EditorOptions().MaxDepth; depth != 4 {
		t.Errorf("unset fields do not override, got %d", depth)
	}
	if !base.SanitizeHTML() {
		t.Error("merge must not mutate base")
	}

	if MergeAll() != nil {
		t.Error("MergeAll() of nothing is nil")
	}
}
