//
// Tencent is pleased to support the open source community by making finsight available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// finsight is licensed under the Apache License Version 2.0.
//
//

// Package marketdata exposes stock quote and price history tools backed by
// the Yahoo Finance chart endpoint.
package marketdata

import (
	"context"
	"fmt"
	"strings"
	"time"

	"trpc.group/trpc-go/trpc-agent-go/tool"
	"trpc.group/trpc-go/trpc-agent-go/tool/function"

	yahoo "trpc.group/trpc-go/finsight/internal/marketdata"
)

const (
	defaultName    = "marketdata"
	defaultMaxBars = 60
)

type config struct {
	name          string
	client        *yahoo.Client
	maxBars       int
	defaultRegion string
}

// Option configures the tool set.
type Option func(*config)

// WithName overrides the tool set name.
func WithName(name string) Option {
	return func(c *config) { c.name = name }
}

// WithClient supplies a custom market data client.
func WithClient(client *yahoo.Client) Option {
	return func(c *config) { c.client = client }
}

// WithMaxBars caps how many history bars a single call may return.
func WithMaxBars(n int) Option {
	return func(c *config) { c.maxBars = n }
}

// WithDefaultRegion sets the region used when an index lookup names none.
func WithDefaultRegion(region string) Option {
	return func(c *config) { c.defaultRegion = region }
}

// configKeys maps the recognized keys of a raw configuration block to the
// options they produce. Keys outside the table are ignored.
var configKeys = []struct {
	key   string
	apply func(v any) (Option, bool)
}{
	{"region", func(v any) (Option, bool) {
		s, ok := v.(string)
		return WithDefaultRegion(s), ok
	}},
	{"max_bars", func(v any) (Option, bool) {
		n, ok := intValue(v)
		return WithMaxBars(n), ok
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

// ToolSet bundles the market data tools.
type ToolSet struct {
	name  string
	tools []tool.Tool
}

// NewToolSet creates the market data tool set.
func NewToolSet(opts ...Option) (*ToolSet, error) {
	cfg := config{
		name:    defaultName,
		maxBars: defaultMaxBars,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.maxBars <= 0 {
		cfg.maxBars = defaultMaxBars
	}
	if cfg.client == nil {
		cfg.client = yahoo.NewClient()
	}
	s := &service{
		client:        cfg.client,
		maxBars:       cfg.maxBars,
		defaultRegion: cfg.defaultRegion,
	}
	return &ToolSet{
		name: cfg.name,
		tools: []tool.Tool{
			newQuoteTool(s),
			newHistoryTool(s),
			newIndicesTool(s),
		},
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

type service struct {
	client        *yahoo.Client
	maxBars       int
	defaultRegion string
}

type quoteRequest struct {
	Symbol string `json:"symbol" jsonschema:"description=Ticker symbol to quote. Examples: AAPL or 0700.HK or ^GSPC."`
}

type quoteResponse struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name,omitempty"`
	Currency      string  `json:"currency,omitempty"`
	Exchange      string  `json:"exchange,omitempty"`
	Price         float64 `json:"price"`
	PreviousClose float64 `json:"previous_close,omitempty"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
	MarketTime    string  `json:"market_time,omitempty"`
}

func newQuoteTool(s *service) tool.Tool {
	fn := func(ctx context.Context, req *quoteRequest) (*quoteResponse, error) {
		symbol := strings.TrimSpace(req.Symbol)
		if symbol == "" {
			return nil, fmt.Errorf("symbol must not be empty")
		}
		q, err := s.client.Quote(ctx, symbol)
		if err != nil {
			return nil, err
		}
		return quoteToResponse(q), nil
	}
	return function.NewFunctionTool(
		fn,
		function.WithName("get_stock_quote"),
		function.WithDescription("Get the latest price for a stock or index including change against the previous close."),
	)
}

func quoteToResponse(q yahoo.Quote) *quoteResponse {
	resp := &quoteResponse{
		Symbol:        q.Symbol,
		Name:          q.Name,
		Currency:      q.Currency,
		Exchange:      q.Exchange,
		Price:         q.Price,
		PreviousClose: q.PreviousClose,
		Change:        q.Change,
		ChangePercent: q.ChangePercent,
	}
	if !q.MarketTime.IsZero() {
		resp.MarketTime = q.MarketTime.UTC().Format(time.RFC3339)
	}
	return resp
}

type historyRequest struct {
	Symbol   string `json:"symbol" jsonschema:"description=Ticker symbol to load history for."`
	Range    string `json:"range,omitempty" jsonschema:"description=Window to load. One of 1d 5d 1mo 3mo 6mo 1y 2y 5y 10y ytd max. Defaults to 1mo."`
	Interval string `json:"interval,omitempty" jsonschema:"description=Bar interval. One of 1m 5m 15m 1h 1d 1wk 1mo. Defaults to 1d."`
}

type historyBar struct {
	Time   string  `json:"time"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

type historyResponse struct {
	Symbol   string       `json:"symbol"`
	Range    string       `json:"range"`
	Interval string       `json:"interval"`
	Bars     []historyBar `json:"bars"`
	Summary  string       `json:"summary"`
}

func newHistoryTool(s *service) tool.Tool {
	fn := func(ctx context.Context, req *historyRequest) (*historyResponse, error) {
		symbol := strings.TrimSpace(req.Symbol)
		if symbol == "" {
			return nil, fmt.Errorf("symbol must not be empty")
		}
		bars, err := s.client.History(ctx, symbol, yahoo.HistoryRequest{
			Range:    req.Range,
			Interval: req.Interval,
		})
		if err != nil {
			return nil, err
		}
		// Keep the most recent bars when the window exceeds the cap.
		if len(bars) > s.maxBars {
			bars = bars[len(bars)-s.maxBars:]
		}
		resp := &historyResponse{
			Symbol:   symbol,
			Range:    valueOr(req.Range, "1mo"),
			Interval: valueOr(req.Interval, "1d"),
			Bars:     make([]historyBar, 0, len(bars)),
		}
		for _, b := range bars {
			resp.Bars = append(resp.Bars, historyBar{
				Time:   b.Time.UTC().Format(time.RFC3339),
				Open:   b.Open,
				High:   b.High,
				Low:    b.Low,
				Close:  b.Close,
				Volume: b.Volume,
			})
		}
		resp.Summary = fmt.Sprintf("Loaded %d bars for %s.", len(resp.Bars), symbol)
		return resp, nil
	}
	return function.NewFunctionTool(
		fn,
		function.WithName("get_price_history"),
		function.WithDescription("Load historical price bars for a stock or index. Useful for trend and technical analysis."),
	)
}

type indicesRequest struct {
	Region string `json:"region,omitempty" jsonschema:"description=Market region to snapshot. One of us asia europe or all."`
}

type indexQuote struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Region        string  `json:"region"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
}

type indicesResponse struct {
	Region  string       `json:"region"`
	Quotes  []indexQuote `json:"quotes"`
	Summary string       `json:"summary"`
}

func newIndicesTool(s *service) tool.Tool {
	fn := func(ctx context.Context, req *indicesRequest) (*indicesResponse, error) {
		region := strings.TrimSpace(req.Region)
		if region == "" {
			region = s.defaultRegion
		}
		indices := yahoo.IndicesByRegion(region)
		if len(indices) == 0 {
			return nil, fmt.Errorf("unknown region %q", region)
		}
		symbols := make([]string, 0, len(indices))
		for _, idx := range indices {
			symbols = append(symbols, idx.Symbol)
		}
		snapshot, err := s.client.Snapshot(ctx, symbols)
		if err != nil {
			return nil, err
		}
		resp := &indicesResponse{Region: valueOr(region, "all")}
		for _, idx := range indices {
			q, ok := snapshot[idx.Symbol]
			if !ok {
				continue
			}
			resp.Quotes = append(resp.Quotes, indexQuote{
				Symbol:        idx.Symbol,
				Name:          idx.Name,
				Region:        idx.Region,
				Price:         q.Price,
				Change:        q.Change,
				ChangePercent: q.ChangePercent,
			})
		}
		resp.Summary = fmt.Sprintf("Snapshot of %d indices.", len(resp.Quotes))
		return resp, nil
	}
	return function.NewFunctionTool(
		fn,
		function.WithName("get_market_indices"),
		function.WithDescription("Snapshot the major market indices for a region with price and percentage change."),
	)
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
