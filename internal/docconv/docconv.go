//
// Tencent is pleased to support the open source community by making finsight available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// finsight is licensed under the Apache License Version 2.0.
//
//

// Package docconv converts source documents (PDF, DOCX, HTML, plain text)
// into markdown. Converters are registered per file extension and selected
// by Convert based on the input path.
package docconv

import (
	"archive/zip"
	"errors"
	"fmt"
	"html"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/ledongthuc/pdf"
)

// ErrUnsupported is returned when no converter is registered for the
// extension of the input file.
var ErrUnsupported = errors.New("docconv: unsupported file type")

// Document is the result of a conversion.
type Document struct {
	// Title is taken from the source document when it carries one
	// (HTML <title>, first markdown heading) and falls back to the
	// file name otherwise.
	Title string
	// Markdown is the converted body.
	Markdown string
}

// Render returns the document as standalone markdown. The title is
// prefixed as a heading unless the body already starts with one.
func (d Document) Render() string {
	body := strings.TrimSpace(d.Markdown)
	if d.Title == "" || strings.HasPrefix(body, "#") {
		return body + "\n"
	}
	if body == "" {
		return "# " + d.Title + "\n"
	}
	return "# " + d.Title + "\n\n" + body + "\n"
}

// Converter turns the file at path into a Document. Converters leave
// Title empty when the source format carries no usable title.
type Converter func(path string) (Document, error)

// registry maps file extensions to converters.
type registry struct {
	mu         sync.RWMutex
	converters map[string]Converter // extension -> converter
}

var globalRegistry = &registry{
	converters: make(map[string]Converter),
}

// Register registers a converter for specific file extensions.
// Extensions should include the dot prefix (e.g., ".pdf", ".txt").
func Register(extensions []string, conv Converter) {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()

	for _, ext := range extensions {
		globalRegistry.converters[strings.ToLower(ext)] = conv
	}
}

// converterFor returns the converter registered for the extension.
func converterFor(extension string) (Converter, bool) {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	conv, ok := globalRegistry.converters[strings.ToLower(extension)]
	return conv, ok
}

// SupportedExtensions returns all registered file extensions, sorted.
func SupportedExtensions() []string {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	extensions := make([]string, 0, len(globalRegistry.converters))
	for ext := range globalRegistry.converters {
		extensions = append(extensions, ext)
	}
	sort.Strings(extensions)
	return extensions
}

func init() {
	Register([]string{".pdf"}, convertPDF)
	Register([]string{".docx"}, convertDOCX)
	Register([]string{".html", ".htm"}, convertHTML)
	Register([]string{".md", ".markdown", ".txt"}, convertText)
}

// Convert converts the file at path into markdown using the converter
// registered for its extension. The document title falls back to the
// file name when the source carries none.
func Convert(path string) (Document, error) {
	ext := strings.ToLower(filepath.Ext(path))
	conv, ok := converterFor(ext)
	if !ok {
		return Document{}, fmt.Errorf("%w: %q", ErrUnsupported, ext)
	}
	doc, err := conv(path)
	if err != nil {
		return Document{}, err
	}
	if doc.Title == "" {
		doc.Title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return doc, nil
}

// convertPDF extracts the text layer of a PDF page by page.
func convertPDF(path string) (Document, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("open PDF %s: %w", path, err)
	}
	defer f.Close()

	var pages []string
	totalPage := r.NumPage()
	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil || text == "" {
			continue
		}
		pages = append(pages, strings.TrimSpace(text))
	}

	return Document{Markdown: normalize(strings.Join(pages, "\n\n"))}, nil
}

// docxRunPattern matches the text runs of a paragraph in
// word/document.xml. DOCX stores text in <w:t> elements.
var docxRunPattern = regexp.MustCompile(`<w:t[^>]*>([^<]*)</w:t>`)

// convertDOCX extracts paragraph text from the word/document.xml entry
// of the DOCX ZIP archive.
func convertDOCX(path string) (Document, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return Document{}, fmt.Errorf("open DOCX %s: %w", path, err)
	}
	defer zr.Close()

	for _, file := range zr.File {
		if file.Name != "word/document.xml" {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return Document{}, fmt.Errorf("open DOCX body %s: %w", path, err)
		}
		xmlData, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return Document{}, fmt.Errorf("read DOCX body %s: %w", path, err)
		}
		paragraphs := docxParagraphs(string(xmlData))
		return Document{Markdown: strings.Join(paragraphs, "\n\n")}, nil
	}
	return Document{}, fmt.Errorf("read DOCX %s: word/document.xml not found", path)
}

// docxParagraphs splits the document XML at paragraph boundaries and
// joins the text runs inside each paragraph.
func docxParagraphs(xmlData string) []string {
	var paragraphs []string
	for _, chunk := range strings.Split(xmlData, "</w:p>") {
		matches := docxRunPattern.FindAllStringSubmatch(chunk, -1)
		if len(matches) == 0 {
			continue
		}
		var b strings.Builder
		for _, m := range matches {
			b.WriteString(html.UnescapeString(m[1]))
		}
		if text := strings.TrimSpace(b.String()); text != "" {
			paragraphs = append(paragraphs, text)
		}
	}
	return paragraphs
}

var (
	htmlTitlePattern = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	spacePattern     = regexp.MustCompile(`\s+`)
)

// convertHTML converts an HTML file to markdown. The page <title>
// becomes the document title.
func convertHTML(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read HTML %s: %w", path, err)
	}

	conv := converter.NewConverter(
		converter.WithPlugins(base.NewBasePlugin(), commonmark.NewCommonmarkPlugin()),
	)
	markdown, err := conv.ConvertString(string(data))
	if err != nil {
		return Document{}, fmt.Errorf("convert HTML %s: %w", path, err)
	}

	var title string
	if m := htmlTitlePattern.FindStringSubmatch(string(data)); m != nil {
		title = strings.TrimSpace(spacePattern.ReplaceAllString(html.UnescapeString(m[1]), " "))
	}
	return Document{Title: title, Markdown: normalize(markdown)}, nil
}

// convertText passes markdown and plain text through with line ending
// normalization. The first top-level heading, if any, becomes the title.
func convertText(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("read %s: %w", path, err)
	}
	content := normalize(string(data))
	return Document{Title: firstHeading(content), Markdown: content}, nil
}

// firstHeading returns the text of the first "# " heading line.
func firstHeading(markdown string) string {
	for _, line := range strings.Split(markdown, "\n") {
		if rest, ok := strings.CutPrefix(line, "# "); ok {
			return strings.TrimSpace(rest)
		}
	}
	return ""
}

// normalize unifies line endings, strips a UTF-8 BOM and collapses runs
// of blank lines.
func normalize(s string) string {
	s = strings.TrimPrefix(s, "﻿")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	for strings.Contains(s, "\n\n\n") {
		s = strings.ReplaceAll(s, "\n\n\n", "\n\n")
	}
	return strings.TrimSpace(s)
}
