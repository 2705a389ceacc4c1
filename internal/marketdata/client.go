//
// Tencent is pleased to support the open source community by making finsight available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// finsight is licensed under the Apache License Version 2.0.
//
//

// Package marketdata fetches quotes and historical price bars from
// Yahoo-style chart endpoints. The chart API needs no credential, which
// keeps the data path configuration-free.
package marketdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultBaseURL   = "https://query1.finance.yahoo.com"
	defaultTimeout   = 15 * time.Second
	defaultUserAgent = "finsight-marketdata/1.0"
)

// ErrNotFound indicates an unknown or delisted symbol.
var ErrNotFound = errors.New("symbol not found")

// Allowed values for HistoryRequest, matching the chart API contract.
var (
	allowedRanges = map[string]bool{
		"1d": true, "5d": true, "1mo": true, "3mo": true, "6mo": true,
		"1y": true, "2y": true, "5y": true, "10y": true, "ytd": true, "max": true,
	}
	allowedIntervals = map[string]bool{
		"1m": true, "2m": true, "5m": true, "15m": true, "30m": true,
		"60m": true, "90m": true, "1h": true, "1d": true, "5d": true,
		"1wk": true, "1mo": true, "3mo": true,
	}
)

// Client is a market data client. The zero value is not usable; construct
// with NewClient.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// Option configures the client.
type Option func(*Client)

// WithBaseURL overrides the endpoint base URL.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// NewClient creates a market data client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		userAgent:  defaultUserAgent,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Quote is the latest traded state of one symbol.
type Quote struct {
	Symbol        string    `json:"symbol"`
	Name          string    `json:"name,omitempty"`
	Currency      string    `json:"currency,omitempty"`
	Exchange      string    `json:"exchange,omitempty"`
	Price         float64   `json:"price"`
	PreviousClose float64   `json:"previous_close"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"change_percent"`
	MarketTime    time.Time `json:"market_time"`
}

// Bar is one OHLCV candle.
type Bar struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// HistoryRequest selects the span and granularity of historical bars.
type HistoryRequest struct {
	Range    string // e.g. 1d, 5d, 1mo, 1y, max
	Interval string // e.g. 1m, 1h, 1d, 1wk
}

// Quote returns the latest quote for symbol.
func (c *Client) Quote(ctx context.Context, symbol string) (Quote, error) {
	res, err := c.chart(ctx, symbol, "1d", "1d")
	if err != nil {
		return Quote{}, err
	}
	meta := res.Meta
	prev := meta.ChartPreviousClose
	if meta.PreviousClose != 0 {
		prev = meta.PreviousClose
	}
	q := Quote{
		Symbol:        meta.Symbol,
		Name:          meta.ShortName,
		Currency:      meta.Currency,
		Exchange:      meta.ExchangeName,
		Price:         meta.RegularMarketPrice,
		PreviousClose: prev,
	}
	if q.Name == "" {
		q.Name = meta.LongName
	}
	if prev != 0 {
		q.Change = q.Price - prev
		q.ChangePercent = q.Change / prev * 100
	}
	if meta.RegularMarketTime > 0 {
		q.MarketTime = time.Unix(meta.RegularMarketTime, 0).UTC()
	}
	return q, nil
}

// History returns historical bars for symbol. Null-padded points in the
// response are skipped.
func (c *Client) History(ctx context.Context, symbol string, req HistoryRequest) ([]Bar, error) {
	if req.Range == "" {
		req.Range = "1mo"
	}
	if req.Interval == "" {
		req.Interval = "1d"
	}
	if !allowedRanges[req.Range] {
		return nil, fmt.Errorf("unsupported range %q", req.Range)
	}
	if !allowedIntervals[req.Interval] {
		return nil, fmt.Errorf("unsupported interval %q", req.Interval)
	}
	res, err := c.chart(ctx, symbol, req.Range, req.Interval)
	if err != nil {
		return nil, err
	}
	if len(res.Indicators.Quote) == 0 {
		return nil, nil
	}
	series := res.Indicators.Quote[0]
	bars := make([]Bar, 0, len(res.Timestamp))
	for i, ts := range res.Timestamp {
		if i >= len(series.Close) || series.Close[i] == nil {
			continue
		}
		bar := Bar{
			Time:  time.Unix(ts, 0).UTC(),
			Close: *series.Close[i],
		}
		if i < len(series.Open) && series.Open[i] != nil {
			bar.Open = *series.Open[i]
		}
		if i < len(series.High) && series.High[i] != nil {
			bar.High = *series.High[i]
		}
		if i < len(series.Low) && series.Low[i] != nil {
			bar.Low = *series.Low[i]
		}
		if i < len(series.Volume) && series.Volume[i] != nil {
			bar.Volume = *series.Volume[i]
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *chartError   `json:"error"`
	} `json:"chart"`
}

type chartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type chartResult struct {
	Meta struct {
		Currency           string  `json:"currency"`
		Symbol             string  `json:"symbol"`
		ExchangeName       string  `json:"exchangeName"`
		ShortName          string  `json:"shortName"`
		LongName           string  `json:"longName"`
		RegularMarketPrice float64 `json:"regularMarketPrice"`
		ChartPreviousClose float64 `json:"chartPreviousClose"`
		PreviousClose      float64 `json:"previousClose"`
		RegularMarketTime  int64   `json:"regularMarketTime"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Open   []*float64 `json:"open"`
			High   []*float64 `json:"high"`
			Low    []*float64 `json:"low"`
			Close  []*float64 `json:"close"`
			Volume []*int64   `json:"volume"`
		} `json:"quote"`
	} `json:"indicators"`
}

func (c *Client) chart(ctx context.Context, symbol, rng, interval string) (*chartResult, error) {
	if symbol == "" {
		return nil, fmt.Errorf("symbol cannot be empty")
	}
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s", c.baseURL, url.PathEscape(symbol))
	params := url.Values{}
	params.Set("range", rng)
	params.Set("interval", interval)
	params.Set("includePrePost", "false")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build chart request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch chart for %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, symbol)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chart for %s: HTTP status %d", symbol, resp.StatusCode)
	}

	var decoded chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode chart for %s: %w", symbol, err)
	}
	if decoded.Chart.Error != nil {
		if decoded.Chart.Error.Code == "Not Found" {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, symbol)
		}
		return nil, fmt.Errorf("chart for %s: %s: %s",
			symbol, decoded.Chart.Error.Code, decoded.Chart.Error.Description)
	}
	if len(decoded.Chart.Result) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, symbol)
	}
	return &decoded.Chart.Result[0], nil
}
