package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := rootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), err
}

func TestChunk_PrintsMergedToStdout(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "One.\n\nTwo.")
	b := writeFile(t, dir, "b.md", "# Beta\n\nBody.")

	out, err := execute(t, "chunk", a, b,
		"--method", "paragraph", "--max-paragraphs", "1", "--keywords=false", "--tokenizer", "regex")
	require.NoError(t, err)

	assert.Contains(t, out, "---\nCHUNK: 1/2\nSOURCE: a.txt\nCHUNKING_METHOD: Smart Paragraph (1 max paragraphs per chunk)\nTOKENS: ~1\n---\n\nOne.")
	assert.Contains(t, out, "\n\n---\n\n---\nCHUNK: 1/2\nSOURCE: b.md\n")
	assert.NotContains(t, out, "KEYWORDS")
}

func TestChunk_PlainPassThrough(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "One.\n\nTwo.")

	out, err := execute(t, "chunk", a, "--no-chunking", "--no-metadata", "--tokenizer", "regex")
	require.NoError(t, err)
	assert.Equal(t, "One.\n\nTwo.\n", out)
}

func TestChunk_WritesOutputDir(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "notes.txt", "Alpha beta gamma.")
	outDir := filepath.Join(dir, "out")

	stdout, err := execute(t, "chunk", a, "--out", outDir, "--merge",
		"--method", "token", "--max-tokens", "50", "--tokenizer", "regex")
	require.NoError(t, err)
	assert.Empty(t, stdout)

	content, err := os.ReadFile(filepath.Join(outDir, "notes.md"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "CHUNKING_METHOD: Token-based (~50 tokens per chunk)\n")
	assert.Contains(t, string(content), "Alpha beta gamma.")

	merged, err := os.ReadFile(filepath.Join(outDir, mergedFileName))
	require.NoError(t, err)
	assert.Equal(t, string(content), string(merged))
}

func TestChunk_Errors(t *testing.T) {
	dir := t.TempDir()
	deck := writeFile(t, dir, "deck.pptx", "nope")
	a := writeFile(t, dir, "a.txt", "text")

	_, err := execute(t, "chunk", deck)
	assert.Error(t, err)

	_, err = execute(t, "chunk", filepath.Join(dir, "missing.txt"))
	assert.Error(t, err)

	_, err = execute(t, "chunk", a, "--method", "sliding")
	assert.Error(t, err)

	_, err = execute(t, "chunk")
	assert.Error(t, err)
}

func TestChunk_KeywordsLineWithZeroMax(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "Gophers dig tunnels.")

	out, err := execute(t, "chunk", a, "--keywords", "--max-keywords", "0", "--tokenizer", "regex")
	require.NoError(t, err)
	assert.Contains(t, out, "TOKENS: ~3\nKEYWORDS: \n---\n\n")

	out, err = execute(t, "chunk", a, "--keywords=false", "--tokenizer", "regex")
	require.NoError(t, err)
	assert.NotContains(t, out, "KEYWORDS")
}

func TestChunk_InvalidEnvironment(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "text")
	t.Setenv("DEFAULT_MAX_TOKENS", "lots")

	_, err := execute(t, "chunk", a)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load config")
}
