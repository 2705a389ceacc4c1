//
// Tencent is pleased to support the open source community by making finsight available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// finsight is licensed under the Apache License Version 2.0.
//
//

package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/finsight/internal/config"
)

func TestWriterMarkdownReport(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")

	w, err := NewWriter(dir, "chat-4f9a1b22-aaaa", FormatMarkdown)
	require.NoError(t, err)
	require.NoError(t, w.AddTurn("How is AAPL doing?", "AAPL looks **stable**."))
	require.NoError(t, w.AddTurn("And the macro picture?", "Rates are the driver."))
	require.NoError(t, w.Close())

	name := filepath.Base(w.Path())
	assert.True(t, strings.HasPrefix(name, "session_chat-4f9_"), name)
	assert.True(t, strings.HasSuffix(name, ".md"), name)

	content, err := os.ReadFile(w.Path())
	require.NoError(t, err)
	text := string(content)
	assert.Contains(t, text, "# Analysis Session")
	assert.Contains(t, text, "`chat-4f9a1b22-aaaa`")
	assert.Contains(t, text, "## Q: How is AAPL doing?")
	assert.Contains(t, text, "## A:\n\nAAPL looks **stable**.")
	assert.Contains(t, text, "## Q: And the macro picture?")
	assert.Contains(t, text, "2 turns")

	// Markdown format produces no HTML sibling.
	htmlPath := strings.TrimSuffix(w.Path(), ".md") + ".html"
	_, err = os.Stat(htmlPath)
	assert.True(t, os.IsNotExist(err))
}

func TestWriterHTMLReport(t *testing.T) {
	dir := t.TempDir()

	w, err := NewWriter(dir, "short", FormatHTML)
	require.NoError(t, err)
	require.NoError(t, w.AddTurn("Question", "Answer with `code`."))
	require.NoError(t, w.Close())

	htmlPath := strings.TrimSuffix(w.Path(), ".md") + ".html"
	content, err := os.ReadFile(htmlPath)
	require.NoError(t, err)
	text := string(content)
	assert.Contains(t, text, "<!DOCTYPE html>")
	assert.Contains(t, text, "<h2>Q: Question</h2>")
	assert.Contains(t, text, "<code>code</code>")
}

func TestFromStoreDisabledByDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o600))
	st, err := config.Load(path)
	require.NoError(t, err)

	w, err := FromStore(st, "chat-1")
	require.NoError(t, err)
	assert.Nil(t, w)
}

func TestFromStoreEnabled(t *testing.T) {
	tmp := t.TempDir()
	doc := `
system:
  output:
    save_reports: true
    report_dir: ` + filepath.Join(tmp, "out") + `
`
	path := filepath.Join(tmp, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))
	st, err := config.Load(path)
	require.NoError(t, err)

	w, err := FromStore(st, "chat-2")
	require.NoError(t, err)
	require.NotNil(t, w)
	defer w.Close()
	assert.Equal(t, filepath.Join(tmp, "out"), filepath.Dir(w.Path()))
}
