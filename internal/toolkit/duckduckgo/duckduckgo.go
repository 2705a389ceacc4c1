//
// Tencent is pleased to support the open source community by making finsight available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// finsight is licensed under the Apache License Version 2.0.
//
//

// Package duckduckgo provides web search and news tools backed by the
// DuckDuckGo endpoints.
package duckduckgo

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"trpc.group/trpc-go/trpc-agent-go/tool"
	"trpc.group/trpc-go/trpc-agent-go/tool/function"
)

const (
	defaultName       = "duckduckgo"
	defaultUserAgent  = "finsight-duckduckgo/1.0"
	defaultTimeout    = 15 * time.Second
	defaultMaxResults = 10
)

type config struct {
	name          string
	userAgent     string
	timeout       time.Duration
	searchBaseURL string
	newsBaseURL   string
	httpClient    *http.Client
	enableSearch  bool
	enableNews    bool
	maxResults    int
}

// Option configures the tool set.
type Option func(*config)

// WithName overrides the tool set name.
func WithName(name string) Option {
	return func(c *config) { c.name = name }
}

// WithUserAgent overrides the User-Agent header sent to DuckDuckGo.
func WithUserAgent(userAgent string) Option {
	return func(c *config) { c.userAgent = userAgent }
}

// WithTimeout sets the HTTP timeout used when no custom client is supplied.
func WithTimeout(d time.Duration) Option {
	return func(c *config) { c.timeout = d }
}

// WithSearchBaseURL overrides the instant-answer endpoint.
func WithSearchBaseURL(baseURL string) Option {
	return func(c *config) { c.searchBaseURL = baseURL }
}

// WithNewsBaseURL overrides the news endpoint.
func WithNewsBaseURL(baseURL string) Option {
	return func(c *config) { c.newsBaseURL = baseURL }
}

// WithHTTPClient supplies a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *config) { c.httpClient = client }
}

// WithSearch toggles the web search tool.
func WithSearch(enabled bool) Option {
	return func(c *config) { c.enableSearch = enabled }
}

// WithNews toggles the news tool.
func WithNews(enabled bool) Option {
	return func(c *config) { c.enableNews = enabled }
}

// WithMaxResults caps how many results a single call may return.
func WithMaxResults(n int) Option {
	return func(c *config) { c.maxResults = n }
}

// configKeys maps the recognized keys of a raw configuration block to the
// options they produce. Keys outside the table are ignored, as are values
// of an unexpected type.
var configKeys = []struct {
	key   string
	apply func(v any) (Option, bool)
}{
	{"search", func(v any) (Option, bool) {
		b, ok := v.(bool)
		return WithSearch(b), ok
	}},
	{"news", func(v any) (Option, bool) {
		b, ok := v.(bool)
		return WithNews(b), ok
	}},
	{"fixed_max_results", func(v any) (Option, bool) {
		n, ok := intValue(v)
		return WithMaxResults(n), ok
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

// ToolSet bundles the enabled DuckDuckGo tools.
type ToolSet struct {
	name  string
	tools []tool.Tool
}

// NewToolSet creates a DuckDuckGo tool set. Both tools are enabled unless
// options turn them off.
func NewToolSet(opts ...Option) (*ToolSet, error) {
	cfg := config{
		name:          defaultName,
		userAgent:     defaultUserAgent,
		timeout:       defaultTimeout,
		searchBaseURL: defaultSearchBaseURL,
		newsBaseURL:   defaultNewsBaseURL,
		enableSearch:  true,
		enableNews:    true,
		maxResults:    defaultMaxResults,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.maxResults <= 0 {
		cfg.maxResults = defaultMaxResults
	}
	httpClient := cfg.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.timeout}
	}
	c := &client{
		searchBaseURL: strings.TrimRight(cfg.searchBaseURL, "/"),
		newsBaseURL:   strings.TrimRight(cfg.newsBaseURL, "/"),
		userAgent:     cfg.userAgent,
		httpClient:    httpClient,
	}

	ts := &ToolSet{name: cfg.name}
	if cfg.enableSearch {
		ts.tools = append(ts.tools, newSearchTool(c, cfg.maxResults))
	}
	if cfg.enableNews {
		ts.tools = append(ts.tools, newNewsTool(c, cfg.maxResults))
	}
	return ts, nil
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

type searchRequest struct {
	Query      string `json:"query" jsonschema:"description=Search query to look up on the web."`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"description=Maximum number of results to return; clamped to the configured cap."`
}

type searchItem struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet,omitempty"`
}

type searchResponse struct {
	Query   string       `json:"query"`
	Results []searchItem `json:"results"`
	Summary string       `json:"summary"`
}

func newSearchTool(c *client, maxResults int) tool.Tool {
	fn := func(ctx context.Context, req *searchRequest) (*searchResponse, error) {
		query := strings.TrimSpace(req.Query)
		if query == "" {
			return nil, fmt.Errorf("query must not be empty")
		}
		limit := normalizeLimit(req.MaxResults, maxResults)
		found, err := c.Search(ctx, query, limit)
		if err != nil {
			return nil, err
		}
		resp := &searchResponse{Query: query, Results: make([]searchItem, 0, len(found))}
		for _, r := range found {
			resp.Results = append(resp.Results, searchItem{
				Title:   r.Title,
				URL:     r.URL,
				Snippet: cleanHTMLTags(r.Snippet),
			})
		}
		resp.Summary = fmt.Sprintf("Found %d results for %q.", len(resp.Results), query)
		return resp, nil
	}
	return function.NewFunctionTool(
		fn,
		function.WithName("duckduckgo_search"),
		function.WithDescription("Search the web with DuckDuckGo. Returns result titles with links and text snippets for the query."),
	)
}

type newsRequest struct {
	Query      string `json:"query" jsonschema:"description=Topic to look up recent news for."`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"description=Maximum number of articles to return; clamped to the configured cap."`
}

type newsItem struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Source  string `json:"source,omitempty"`
	Date    string `json:"date,omitempty"`
	Excerpt string `json:"excerpt,omitempty"`
}

type newsResponse struct {
	Query    string     `json:"query"`
	Articles []newsItem `json:"articles"`
	Summary  string     `json:"summary"`
}

func newNewsTool(c *client, maxResults int) tool.Tool {
	fn := func(ctx context.Context, req *newsRequest) (*newsResponse, error) {
		query := strings.TrimSpace(req.Query)
		if query == "" {
			return nil, fmt.Errorf("query must not be empty")
		}
		limit := normalizeLimit(req.MaxResults, maxResults)
		found, err := c.News(ctx, query, limit)
		if err != nil {
			return nil, err
		}
		resp := &newsResponse{Query: query, Articles: make([]newsItem, 0, len(found))}
		for _, r := range found {
			resp.Articles = append(resp.Articles, newsItem{
				Title:   r.Title,
				URL:     r.URL,
				Source:  r.Source,
				Date:    r.Date,
				Excerpt: r.Excerpt,
			})
		}
		resp.Summary = fmt.Sprintf("Found %d news articles for %q.", len(resp.Articles), query)
		return resp, nil
	}
	return function.NewFunctionTool(
		fn,
		function.WithName("duckduckgo_news"),
		function.WithDescription("Look up recent news articles with DuckDuckGo. Returns titles with links and publication details for the topic."),
	)
}

func normalizeLimit(requested, maxAllowed int) int {
	if requested <= 0 || requested > maxAllowed {
		return maxAllowed
	}
	return requested
}

var (
	htmlTagPattern    = regexp.MustCompile(`<[^>]*>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// cleanHTMLTags strips markup and normalizes entities and whitespace in
// text fragments returned by the endpoints.
func cleanHTMLTags(s string) string {
	out := htmlTagPattern.ReplaceAllString(s, "")
	replacements := [][2]string{
		{"&amp;", "&"},
		{"&lt;", "<"},
		{"&gt;", ">"},
		{"&quot;", `"`},
		{"&#39;", "'"},
		{"&nbsp;", " "},
	}
	for _, r := range replacements {
		out = strings.ReplaceAll(out, r[0], r[1])
	}
	out = whitespacePattern.ReplaceAllString(out, " ")
	return strings.TrimSpace(out)
}
