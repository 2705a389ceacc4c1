//
// Tencent is pleased to support the open source community by making finsight available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// finsight is licensed under the Apache License Version 2.0.
//
//

package duckduckgo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"time"
)

const (
	defaultSearchBaseURL = "https://api.duckduckgo.com"
	defaultNewsBaseURL   = "https://duckduckgo.com"

	// maxTokenPageBytes caps how much of the token page is scanned.
	maxTokenPageBytes = 512 * 1024
)

// vqdPattern extracts the request token DuckDuckGo embeds in its search
// page; the news endpoint rejects requests without it.
var vqdPattern = regexp.MustCompile(`vqd=['"]?([0-9-]+)`)

// client talks to the DuckDuckGo instant-answer and news endpoints.
type client struct {
	searchBaseURL string
	newsBaseURL   string
	userAgent     string
	httpClient    *http.Client
}

type searchResult struct {
	Title   string
	URL     string
	Snippet string
}

type newsResult struct {
	Title   string
	URL     string
	Source  string
	Date    string
	Excerpt string
}

// instantAnswer is the subset of the instant-answer response consumed here.
type instantAnswer struct {
	Heading       string         `json:"Heading"`
	AbstractText  string         `json:"AbstractText"`
	AbstractURL   string         `json:"AbstractURL"`
	Results       []answerTopic  `json:"Results"`
	RelatedTopics []relatedTopic `json:"RelatedTopics"`
}

type answerTopic struct {
	Text     string `json:"Text"`
	FirstURL string `json:"FirstURL"`
}

// relatedTopic is either a topic or a named group of nested topics.
type relatedTopic struct {
	Text     string        `json:"Text"`
	FirstURL string        `json:"FirstURL"`
	Topics   []answerTopic `json:"Topics"`
}

type newsResponse struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Source  string `json:"source"`
		Date    int64  `json:"date"`
		Excerpt string `json:"excerpt"`
	} `json:"results"`
}

// Search queries the instant-answer endpoint and flattens the abstract and
// related topics into a single result list.
func (c *client) Search(ctx context.Context, query string, limit int) ([]searchResult, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("no_html", "1")
	params.Set("skip_disambig", "1")

	var answer instantAnswer
	if err := c.getJSON(ctx, c.searchBaseURL+"/?"+params.Encode(), &answer); err != nil {
		return nil, fmt.Errorf("duckduckgo search %q: %w", query, err)
	}

	var results []searchResult
	if answer.AbstractText != "" {
		results = append(results, searchResult{
			Title:   answer.Heading,
			URL:     answer.AbstractURL,
			Snippet: answer.AbstractText,
		})
	}
	appendTopic := func(t answerTopic) {
		if t.Text == "" || t.FirstURL == "" {
			return
		}
		results = append(results, searchResult{
			Title:   t.Text,
			URL:     t.FirstURL,
			Snippet: t.Text,
		})
	}
	for _, r := range answer.Results {
		appendTopic(r)
	}
	for _, rt := range answer.RelatedTopics {
		appendTopic(answerTopic{Text: rt.Text, FirstURL: rt.FirstURL})
		for _, nested := range rt.Topics {
			appendTopic(nested)
		}
	}
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// News queries the news endpoint. The endpoint requires a per-query token
// scraped from the regular search page first.
func (c *client) News(ctx context.Context, query string, limit int) ([]newsResult, error) {
	token, err := c.vqd(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("duckduckgo news %q: %w", query, err)
	}

	params := url.Values{}
	params.Set("l", "us-en")
	params.Set("o", "json")
	params.Set("noamp", "1")
	params.Set("q", query)
	params.Set("vqd", token)

	var decoded newsResponse
	if err := c.getJSON(ctx, c.newsBaseURL+"/news.js?"+params.Encode(), &decoded); err != nil {
		return nil, fmt.Errorf("duckduckgo news %q: %w", query, err)
	}

	results := make([]newsResult, 0, len(decoded.Results))
	for _, r := range decoded.Results {
		item := newsResult{
			Title:   r.Title,
			URL:     r.URL,
			Source:  r.Source,
			Excerpt: cleanHTMLTags(r.Excerpt),
		}
		if r.Date > 0 {
			item.Date = time.Unix(r.Date, 0).UTC().Format(time.RFC3339)
		}
		results = append(results, item)
		if limit > 0 && len(results) >= limit {
			break
		}
	}
	return results, nil
}

func (c *client) vqd(ctx context.Context, query string) (string, error) {
	params := url.Values{}
	params.Set("q", query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.newsBaseURL+"/?"+params.Encode(), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token page: HTTP status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTokenPageBytes))
	if err != nil {
		return "", err
	}
	m := vqdPattern.FindSubmatch(body)
	if m == nil {
		return "", fmt.Errorf("vqd token not found in response")
	}
	return string(m[1]), nil
}

func (c *client) getJSON(ctx context.Context, rawURL string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}
