package cli_test

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/richdraft/internal/cli"
	"github.com/yaklabco/richdraft/pkg/richtext"
)

// testConfig keeps output deterministic regardless of the terminal.
const testConfig = "output:\n  color: never\n"

// workspace creates a temp dir holding a config file and returns both paths.
func workspace(t *testing.T) (string, string) {
	t.Helper()

	dir := t.TempDir()
	configPath := filepath.Join(dir, "richdraft.yml")
	require.NoError(t, os.WriteFile(configPath, []byte(testConfig), 0o644))
	return dir, configPath
}

// execute runs the root command with args and returns its stdout.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	cmd := cli.NewRootCommand(testInfo)
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func readDocument(t *testing.T, path string) *richtext.Content {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content, err := richtext.Parse(data)
	require.NoError(t, err)
	return content
}

func TestIntegration_NewAndShow(t *testing.T) {
	t.Parallel()

	dir, configPath := workspace(t)
	path := filepath.Join(dir, "list.json")

	_, err := execute(t, "", "--config", configPath, "new", path, "--text", "Groceries\nmilk")
	require.NoError(t, err)

	content := readDocument(t, path)
	assert.Equal(t, 2, content.BlockCount())
	assert.Equal(t, "Groceries\nmilk", content.PlainText("\n"))

	out, err := execute(t, "", "--config", configPath, "show", path, "--keys", "--width", "40")
	require.NoError(t, err)
	assert.Contains(t, out, "Groceries")
	assert.Contains(t, out, content.FirstBlock().Key())
	assert.Contains(t, out, "unstyled")
}

func TestIntegration_NewRefusesToOverwrite(t *testing.T) {
	t.Parallel()

	dir, configPath := workspace(t)
	path := filepath.Join(dir, "doc.json")

	_, err := execute(t, "", "--config", configPath, "new", path)
	require.NoError(t, err)

	_, err = execute(t, "", "--config", configPath, "new", path)
	require.Error(t, err)
	assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(err))

	_, err = execute(t, "", "--config", configPath, "new", path, "--force", "--text", "Again")
	require.NoError(t, err)
	assert.Equal(t, "Again", readDocument(t, path).PlainText("\n"))
}

func TestIntegration_ShowMissingFile(t *testing.T) {
	t.Parallel()

	dir, configPath := workspace(t)

	_, err := execute(t, "", "--config", configPath, "show", filepath.Join(dir, "missing.json"))
	require.Error(t, err)
	assert.Equal(t, cli.ExitIOError, cli.ExitCode(err))
}

func TestIntegration_ApplyScript(t *testing.T) {
	t.Parallel()

	dir, configPath := workspace(t)
	path := filepath.Join(dir, "doc.json")

	_, err := execute(t, "", "--config", configPath, "new", path, "--text", "Hello world")
	require.NoError(t, err)
	key := readDocument(t, path).FirstBlock().Key()

	script := fmt.Sprintf("selection: {anchorKey: %q, anchorOffset: 0, focusKey: %q, focusOffset: 5}\n", key, key) +
		"actions:\n" +
		"  - type: toggleInlineStyle\n" +
		"    style: BOLD\n" +
		"  - type: keyCommand\n" +
		"    command: not-a-command\n" +
		"  - type: toggleBlockType\n" +
		"    blockType: header-one\n"
	scriptPath := filepath.Join(dir, "edits.yml")
	require.NoError(t, os.WriteFile(scriptPath, []byte(script), 0o644))

	_, err = execute(t, "", "--config", configPath, "apply", path, "--script", scriptPath)
	require.NoError(t, err)

	content := readDocument(t, path)
	block := content.FirstBlock()
	assert.Equal(t, richtext.HeaderOne, block.Type())
	assert.True(t, block.StyleAt(0).Has(richtext.StyleBold))
	assert.False(t, block.StyleAt(6).Has(richtext.StyleBold))

	out, err := execute(t, "", "--config", configPath, "export", path, "-f", "markdown")
	require.NoError(t, err)
	assert.Equal(t, "# **Hello** world\n", out)
}

func TestIntegration_ApplyDryRunFromStdin(t *testing.T) {
	t.Parallel()

	dir, configPath := workspace(t)
	path := filepath.Join(dir, "doc.json")

	_, err := execute(t, "", "--config", configPath, "new", path, "--text", "Hello")
	require.NoError(t, err)
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	script := `[{"type": "toggleBlockType", "blockType": "blockquote"}]`
	out, err := execute(t, script, "--config", configPath, "apply", path, "--script", "-", "--dry-run")
	require.NoError(t, err)

	preview, err := richtext.Parse([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, richtext.Blockquote, preview.FirstBlock().Type())

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestIntegration_ApplyRejectsBadScript(t *testing.T) {
	t.Parallel()

	dir, configPath := workspace(t)
	path := filepath.Join(dir, "doc.json")

	_, err := execute(t, "", "--config", configPath, "new", path)
	require.NoError(t, err)

	_, err = execute(t, "42", "--config", configPath, "apply", path, "--script", "-")
	require.Error(t, err)
	assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(err))
}

func TestIntegration_BackupAndRestore(t *testing.T) {
	t.Parallel()

	dir, configPath := workspace(t)
	path := filepath.Join(dir, "doc.json")

	_, err := execute(t, "", "--config", configPath, "restore", path)
	require.Error(t, err)
	assert.Equal(t, cli.ExitIOError, cli.ExitCode(err))

	_, err = execute(t, "", "--config", configPath, "new", path, "--text", "Original")
	require.NoError(t, err)
	original, err := os.ReadFile(path)
	require.NoError(t, err)

	script := `[{"type": "toggleBlockType", "blockType": "code-block"}]`
	_, err = execute(t, script, "--config", configPath, "apply", path, "--script", "-")
	require.NoError(t, err)
	assert.Equal(t, richtext.CodeBlock, readDocument(t, path).FirstBlock().Type())

	_, err = execute(t, "", "--config", configPath, "restore", path)
	require.NoError(t, err)

	restored, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, original, restored)
}

func TestIntegration_ImportAndExport(t *testing.T) {
	t.Parallel()

	dir, configPath := workspace(t)
	source := filepath.Join(dir, "notes.md")
	require.NoError(t, os.WriteFile(source, []byte("# Title\n\nHello **world**\n"), 0o644))

	_, err := execute(t, "", "--config", configPath, "import", source)
	require.NoError(t, err)

	target := filepath.Join(dir, "notes.json")
	content := readDocument(t, target)
	assert.Equal(t, 2, content.BlockCount())
	assert.Equal(t, richtext.HeaderOne, content.FirstBlock().Type())

	tests := []struct {
		format string
		want   string
	}{
		{"markdown", "**world**"},
		{"html", "<strong>world</strong>"},
		{"text", "Title\nHello world\n"},
	}
	for _, tt := range tests {
		out, err := execute(t, "", "--config", configPath, "export", target, "-f", tt.format)
		require.NoError(t, err, tt.format)
		assert.Contains(t, out, tt.want, tt.format)
	}

	_, err = execute(t, "", "--config", configPath, "import", source)
	require.Error(t, err)
	assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(err))
}

func TestIntegration_ImportFromStdin(t *testing.T) {
	t.Parallel()

	dir, configPath := workspace(t)
	target := filepath.Join(dir, "page.json")

	_, err := execute(t, "<p>Hi <a href=\"https://example.com\">there</a></p>",
		"--config", configPath, "import", "-", "--from", "html", "-o", target)
	require.NoError(t, err)

	content := readDocument(t, target)
	assert.Equal(t, "Hi there", content.PlainText("\n"))
	assert.Equal(t, 1, content.EntityCount())
}

func TestIntegration_ImportUnknownExtension(t *testing.T) {
	t.Parallel()

	dir, configPath := workspace(t)
	source := filepath.Join(dir, "data.csv")
	require.NoError(t, os.WriteFile(source, []byte("a,b\n"), 0o644))

	_, err := execute(t, "", "--config", configPath, "import", source)
	require.Error(t, err)
	assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(err))

	saved := filepath.Join(dir, "saved.json")
	require.NoError(t, os.WriteFile(saved, []byte("{}"), 0o644))

	_, err = execute(t, "", "--config", configPath, "import", saved)
	require.Error(t, err)
	assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(err))
}

func TestIntegration_ExportBatch(t *testing.T) {
	t.Parallel()

	dir, configPath := workspace(t)
	docs := filepath.Join(dir, "docs")
	site := filepath.Join(dir, "site")
	require.NoError(t, os.MkdirAll(docs, 0o755))

	for _, name := range []string{"a", "b"} {
		_, err := execute(t, "", "--config", configPath, "new", filepath.Join(docs, name+".json"), "--text", "Doc "+name)
		require.NoError(t, err)
	}

	_, err := execute(t, "", "--config", configPath, "export", docs, "-f", "html")
	require.Error(t, err)
	assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(err))

	out, err := execute(t, "", "--config", configPath, "export", docs, "-f", "html", "--out-dir", site)
	require.NoError(t, err)
	assert.Contains(t, out, "a.html")

	page, err := os.ReadFile(filepath.Join(site, "b.html"))
	require.NoError(t, err)
	assert.Contains(t, string(page), "<p>Doc b</p>")
}

func TestIntegration_Check(t *testing.T) {
	t.Parallel()

	dir, configPath := workspace(t)
	docs := filepath.Join(dir, "docs")
	require.NoError(t, os.MkdirAll(docs, 0o755))

	_, err := execute(t, "", "--config", configPath, "new", filepath.Join(docs, "good.json"), "--text", "Fine")
	require.NoError(t, err)

	out, err := execute(t, "", "--config", configPath, "check", docs)
	require.NoError(t, err)
	assert.Contains(t, out, "good.json")

	bad := `{"blocks": [{"key": "a", "text": "hi", "type": "unstyled", "depth": 0,
		"inlineStyleRanges": [], "entityRanges": [{"offset": 0, "length": 2, "key": 7}]}], "entityMap": {}}`
	require.NoError(t, os.WriteFile(filepath.Join(docs, "bad.json"), []byte(bad), 0o644))

	out, err = execute(t, "", "--config", configPath, "check", docs)
	require.Error(t, err)
	assert.Equal(t, cli.ExitInvalidDocuments, cli.ExitCode(err))
	assert.Contains(t, out, "bad.json")

	out, err = execute(t, "", "--config", configPath, "check", docs, "--ignore", "**/bad.json", "--format", "summary")
	require.NoError(t, err)
	assert.NotContains(t, out, "bad.json")

	_, err = execute(t, "", "--config", configPath, "check", docs, "--format", "sarif")
	require.Error(t, err)
	assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(err))
}

func TestIntegration_CheckJSON(t *testing.T) {
	t.Parallel()

	dir, configPath := workspace(t)
	path := filepath.Join(dir, "doc.json")

	_, err := execute(t, "", "--config", configPath, "new", path)
	require.NoError(t, err)

	out, err := execute(t, "", "--config", configPath, "check", path, "--format", "json")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(out), "{"))
	assert.Contains(t, out, "doc.json")
}

func TestIntegration_InvalidConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	configPath := filepath.Join(dir, "bad.yml")
	require.NoError(t, os.WriteFile(configPath, []byte("markdown:\n  flavor: wiki\n"), 0o644))

	_, err := execute(t, "", "--config", configPath, "new", filepath.Join(dir, "doc.json"))
	require.Error(t, err)
	assert.Equal(t, cli.ExitConfigError, cli.ExitCode(err))
}

func TestIntegration_InitAndConfigShow(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	configPath := filepath.Join(dir, ".richdraft.yml")

	_, err := execute(t, "", "init", "-o", configPath)
	require.NoError(t, err)
	require.FileExists(t, configPath)

	_, err = execute(t, "", "init", "-o", configPath)
	require.Error(t, err)
	assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(err))

	out, err := execute(t, "", "--config", configPath, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "flavor: gfm")
	assert.Contains(t, out, "max_body_bytes:")

	jsonPath := filepath.Join(dir, "richdraft.json")
	_, err = execute(t, "", "init", "--format", "json", "-o", jsonPath)
	require.NoError(t, err)
	_, err = execute(t, "", "--config", jsonPath, "config", "show")
	require.NoError(t, err)
}

func TestIntegration_ConfigEnvAndPaths(t *testing.T) {
	t.Parallel()

	_, configPath := workspace(t)

	out, err := execute(t, "", "config", "env")
	require.NoError(t, err)
	assert.Contains(t, out, "RICHDRAFT_FLAVOR")
	assert.Contains(t, out, "RICHDRAFT_ADDR")

	out, err = execute(t, "", "--config", configPath, "--color", "never", "config", "paths")
	require.NoError(t, err)
	assert.Contains(t, out, "explicit: "+configPath)
	assert.Contains(t, out, "project:")
}
