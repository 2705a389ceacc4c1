//
// Tencent is pleased to support the open source community by making finsight available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// finsight is licensed under the Apache License Version 2.0.
//
//

// Package report persists chat sessions as markdown reports, optionally
// rendered to HTML.
package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"trpc.group/trpc-go/finsight/internal/config"
)

const (
	// FormatMarkdown writes the report as markdown only.
	FormatMarkdown = "markdown"
	// FormatHTML additionally renders the markdown to a sibling HTML file.
	FormatHTML = "html"

	defaultDir = "reports"
)

// Writer appends the turns of one chat session to a report file.
type Writer struct {
	mu      sync.Mutex
	file    *os.File
	path    string
	format  string
	session string
	started time.Time
	turns   int
}

// FromStore creates a writer for the session when report saving is enabled
// in the document. It returns nil without error when it is not.
func FromStore(st *config.Store, sessionID string) (*Writer, error) {
	if !st.SystemBool("output.save_reports", false) {
		return nil, nil
	}
	return NewWriter(
		st.SystemString("output.report_dir", defaultDir),
		sessionID,
		st.SystemString("output.format", FormatMarkdown),
	)
}

// NewWriter opens a report file for the session under dir, creating the
// directory on demand. The file name carries a session prefix and a
// timestamp so repeated sessions never collide.
func NewWriter(dir, sessionID, format string) (*Writer, error) {
	if dir == "" {
		dir = defaultDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create report dir %s: %w", dir, err)
	}

	started := time.Now()
	name := fmt.Sprintf("session_%s_%s.md", shortID(sessionID), started.Format("20060102-150405"))
	path := filepath.Join(dir, name)
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create report %s: %w", path, err)
	}

	w := &Writer{
		file:    file,
		path:    path,
		format:  format,
		session: sessionID,
		started: started,
	}
	header := fmt.Sprintf("# Analysis Session\n\n- Session: `%s`\n- Started: %s\n",
		sessionID, started.Format(time.RFC3339))
	if _, err := file.WriteString(header); err != nil {
		file.Close()
		return nil, fmt.Errorf("write report header: %w", err)
	}
	return w, nil
}

// Path returns the markdown file location.
func (w *Writer) Path() string {
	return w.path
}

// AddTurn appends one question and answer pair to the report.
func (w *Writer) AddTurn(question, answer string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.turns++
	section := fmt.Sprintf("\n## Q: %s\n\n## A:\n\n%s\n", strings.TrimSpace(question), strings.TrimSpace(answer))
	if _, err := w.file.WriteString(section); err != nil {
		return fmt.Errorf("write report turn: %w", err)
	}
	return nil
}

// Close finalizes the report and renders the HTML sibling when the format
// asks for one.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	footer := fmt.Sprintf("\n---\n\n%d turns, finished %s\n", w.turns, time.Now().Format(time.RFC3339))
	if _, err := w.file.WriteString(footer); err != nil {
		w.file.Close()
		return fmt.Errorf("write report footer: %w", err)
	}
	if err := w.file.Close(); err != nil {
		return fmt.Errorf("close report: %w", err)
	}
	if w.format != FormatHTML {
		return nil
	}
	return renderHTML(w.path)
}

// renderHTML converts the finished markdown report into an HTML file next
// to it.
func renderHTML(mdPath string) error {
	src, err := os.ReadFile(mdPath)
	if err != nil {
		return fmt.Errorf("read report %s: %w", mdPath, err)
	}
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	var body bytes.Buffer
	if err := md.Convert(src, &body); err != nil {
		return fmt.Errorf("render report %s: %w", mdPath, err)
	}

	htmlPath := strings.TrimSuffix(mdPath, filepath.Ext(mdPath)) + ".html"
	var out bytes.Buffer
	out.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>Analysis Session</title>\n</head>\n<body>\n")
	out.Write(body.Bytes())
	out.WriteString("</body>\n</html>\n")
	if err := os.WriteFile(htmlPath, out.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write report %s: %w", htmlPath, err)
	}
	return nil
}

func shortID(sessionID string) string {
	id := strings.TrimSpace(sessionID)
	if id == "" {
		return "session"
	}
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
