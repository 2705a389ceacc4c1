//
// Tencent is pleased to support the open source community by making finsight available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// finsight is licensed under the Apache License Version 2.0.
//
//

// Package newspaper provides a tool that downloads a web article and
// returns it as markdown text.
package newspaper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"

	"trpc.group/trpc-go/trpc-agent-go/tool"
	"trpc.group/trpc-go/trpc-agent-go/tool/function"
)

const (
	defaultName      = "newspaper"
	defaultUserAgent = "finsight-newspaper/1.0"
	defaultTimeout   = 30 * time.Second

	// maxBodyBytes caps how much of a page is downloaded.
	maxBodyBytes = 2 * 1024 * 1024
)

var titlePattern = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)

type config struct {
	name       string
	userAgent  string
	timeout    time.Duration
	maxLength  int
	httpClient *http.Client
}

// Option configures the tool set.
type Option func(*config)

// WithName overrides the tool set name.
func WithName(name string) Option {
	return func(c *config) { c.name = name }
}

// WithUserAgent overrides the User-Agent header sent to article hosts.
func WithUserAgent(userAgent string) Option {
	return func(c *config) { c.userAgent = userAgent }
}

// WithTimeout sets the HTTP timeout used when no custom client is supplied.
func WithTimeout(d time.Duration) Option {
	return func(c *config) { c.timeout = d }
}

// WithMaxContentLength truncates extracted article text beyond n bytes.
// Zero disables truncation.
func WithMaxContentLength(n int) Option {
	return func(c *config) { c.maxLength = n }
}

// WithHTTPClient supplies a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *config) { c.httpClient = client }
}

// configKeys maps the recognized keys of a raw configuration block to the
// options they produce. Keys outside the table are ignored.
var configKeys = []struct {
	key   string
	apply func(v any) (Option, bool)
}{
	{"max_length", func(v any) (Option, bool) {
		n, ok := intValue(v)
		return WithMaxContentLength(n), ok
	}},
}

// FromConfig translates a raw configuration block into options using the
// recognized key table.
func FromConfig(params map[string]any) []Option {
	var opts []Option
	for _, entry := range configKeys {
		v, present := params[entry.key]
		if !present {
			continue
		}
		if opt, ok := entry.apply(v); ok {
			opts = append(opts, opt)
		}
	}
	return opts
}

func intValue(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}

// ToolSet exposes the article reader tool.
type ToolSet struct {
	name  string
	tools []tool.Tool
}

// NewToolSet creates the article reader tool set.
func NewToolSet(opts ...Option) (*ToolSet, error) {
	cfg := config{
		name:      defaultName,
		userAgent: defaultUserAgent,
		timeout:   defaultTimeout,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	httpClient := cfg.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.timeout}
	}
	r := &reader{
		userAgent:  cfg.userAgent,
		maxLength:  cfg.maxLength,
		httpClient: httpClient,
		conv: converter.NewConverter(
			converter.WithPlugins(base.NewBasePlugin(), commonmark.NewCommonmarkPlugin()),
		),
	}
	return &ToolSet{
		name:  cfg.name,
		tools: []tool.Tool{newReadArticleTool(r)},
	}, nil
}

// Tools implements the tool.ToolSet interface.
func (ts *ToolSet) Tools(context.Context) []tool.Tool {
	return ts.tools
}

// Name implements the tool.ToolSet interface.
func (ts *ToolSet) Name() string {
	return ts.name
}

// Close implements the tool.ToolSet interface.
func (ts *ToolSet) Close() error {
	return nil
}

type reader struct {
	userAgent  string
	maxLength  int
	httpClient *http.Client
	conv       *converter.Converter
}

type readRequest struct {
	URL string `json:"url" jsonschema:"description=Address of the article to download and read."`
}

type readResponse struct {
	URL       string `json:"url"`
	Title     string `json:"title,omitempty"`
	Content   string `json:"content"`
	Truncated bool   `json:"truncated,omitempty"`
}

func newReadArticleTool(r *reader) tool.Tool {
	return function.NewFunctionTool(
		r.read,
		function.WithName("read_article"),
		function.WithDescription("Download a web article and return its text as markdown. Use this to read the full content behind a search or news result link."),
	)
}

func (r *reader) read(ctx context.Context, req *readRequest) (*readResponse, error) {
	rawURL := strings.TrimSpace(req.URL)
	if rawURL == "" {
		return nil, fmt.Errorf("url must not be empty")
	}
	page, err := r.fetch(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("read article %s: %w", rawURL, err)
	}

	markdown, err := r.conv.ConvertString(page)
	if err != nil {
		return nil, fmt.Errorf("convert article %s: %w", rawURL, err)
	}
	markdown = strings.TrimSpace(markdown)

	resp := &readResponse{
		URL:     rawURL,
		Title:   extractTitle(page),
		Content: markdown,
	}
	if r.maxLength > 0 && len(resp.Content) > r.maxLength {
		resp.Content = resp.Content[:r.maxLength] + "\n\n[content truncated]"
		resp.Truncated = true
	}
	return resp, nil
}

func (r *reader) fetch(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", err
	}
	return string(body), nil
}

var whitespacePattern = regexp.MustCompile(`\s+`)

func extractTitle(page string) string {
	m := titlePattern.FindStringSubmatch(page)
	if m == nil {
		return ""
	}
	title := whitespacePattern.ReplaceAllString(m[1], " ")
	return strings.TrimSpace(title)
}
