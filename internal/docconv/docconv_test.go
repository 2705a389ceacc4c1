//
// Tencent is pleased to support the open source community by making finsight available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// finsight is licensed under the Apache License Version 2.0.
//
//

package docconv

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-pdf/fpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestPDF programmatically generates a small PDF containing the text
// "Hello World". Generating ensures the file is well-formed and parsable
// by ledongthuc/pdf, avoiding brittle handcrafted bytes.
func newTestPDF(t *testing.T) []byte {
	t.Helper()

	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetFont("Helvetica", "", 12)
	doc.AddPage()
	doc.Cell(40, 10, "Hello World")

	var buf bytes.Buffer
	require.NoError(t, doc.Output(&buf), "generate test PDF")
	return buf.Bytes()
}

// newTestDOCX builds a minimal DOCX archive whose word/document.xml
// holds the given body XML.
func newTestDOCX(t *testing.T, bodyXML string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
		`<w:body>` + bodyXML + `</w:body></w:document>`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func writeFixture(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestConvertPDF(t *testing.T) {
	path := writeFixture(t, "earnings.pdf", newTestPDF(t))

	doc, err := Convert(path)
	require.NoError(t, err)
	assert.Equal(t, "earnings", doc.Title)
	assert.Contains(t, doc.Markdown, "Hello World")
}

func TestConvertDOCX(t *testing.T) {
	body := `<w:p><w:r><w:t>Quarterly </w:t></w:r><w:r><w:t>results</w:t></w:r></w:p>` +
		`<w:p/>` +
		`<w:p><w:r><w:t xml:space="preserve">Revenue grew 12% &amp; margins held.</w:t></w:r></w:p>`
	path := writeFixture(t, "report.docx", newTestDOCX(t, body))

	doc, err := Convert(path)
	require.NoError(t, err)
	assert.Equal(t, "report", doc.Title)
	assert.Equal(t, "Quarterly results\n\nRevenue grew 12% & margins held.", doc.Markdown)
}

func TestConvertDOCXMissingBody(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	_, err := zw.Create("word/styles.xml")
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	path := writeFixture(t, "empty.docx", buf.Bytes())

	_, err = Convert(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "word/document.xml")
}

func TestConvertHTML(t *testing.T) {
	page := `<!DOCTYPE html>
<html><head><title>  Market
  Outlook &amp; Risks </title></head>
<body><h1>Outlook</h1><p>Rates stay higher for longer.</p>
<ul><li>inflation</li><li>growth</li></ul></body></html>`
	path := writeFixture(t, "outlook.html", []byte(page))

	doc, err := Convert(path)
	require.NoError(t, err)
	assert.Equal(t, "Market Outlook & Risks", doc.Title)
	assert.Contains(t, doc.Markdown, "# Outlook")
	assert.Contains(t, doc.Markdown, "Rates stay higher for longer.")
	assert.Contains(t, doc.Markdown, "- inflation")
}

func TestConvertMarkdownPassthrough(t *testing.T) {
	content := "﻿# Weekly Notes\r\n\r\n\r\nSPX closed flat.\r\n"
	path := writeFixture(t, "notes.md", []byte(content))

	doc, err := Convert(path)
	require.NoError(t, err)
	assert.Equal(t, "Weekly Notes", doc.Title)
	assert.Equal(t, "# Weekly Notes\n\nSPX closed flat.", doc.Markdown)
}

func TestConvertTextTitleFallback(t *testing.T) {
	path := writeFixture(t, "watchlist.txt", []byte("AAPL\nMSFT\n"))

	doc, err := Convert(path)
	require.NoError(t, err)
	assert.Equal(t, "watchlist", doc.Title)
	assert.Equal(t, "AAPL\nMSFT", doc.Markdown)
}

func TestConvertUnsupported(t *testing.T) {
	_, err := Convert("slides.pptx")
	require.ErrorIs(t, err, ErrUnsupported)
}

func TestDocumentRender(t *testing.T) {
	tests := []struct {
		name string
		doc  Document
		want string
	}{
		{
			name: "title prefixed",
			doc:  Document{Title: "Report", Markdown: "Body text."},
			want: "# Report\n\nBody text.\n",
		},
		{
			name: "body already has heading",
			doc:  Document{Title: "Report", Markdown: "# Existing\n\nBody."},
			want: "# Existing\n\nBody.\n",
		},
		{
			name: "empty body",
			doc:  Document{Title: "Report"},
			want: "# Report\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.doc.Render())
		})
	}
}

func TestSupportedExtensions(t *testing.T) {
	exts := SupportedExtensions()
	for _, want := range []string{".pdf", ".docx", ".html", ".htm", ".md", ".txt"} {
		assert.Contains(t, exts, want)
	}
}
