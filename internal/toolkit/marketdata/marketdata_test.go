//
// Tencent is pleased to support the open source community by making finsight available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// finsight is licensed under the Apache License Version 2.0.
//
//

package marketdata

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-agent-go/tool"

	yahoo "trpc.group/trpc-go/finsight/internal/marketdata"
)

func chartBody(symbol string, price, previousClose float64) string {
	return fmt.Sprintf(`{
  "chart": {
    "result": [{
      "meta": {
        "currency": "USD",
        "symbol": %q,
        "exchangeName": "NMS",
        "shortName": "%s Inc.",
        "regularMarketPrice": %f,
        "chartPreviousClose": %f,
        "regularMarketTime": 1717430400
      },
      "timestamp": [1717344000, 1717430400],
      "indicators": {
        "quote": [{
          "open": [100.0, 101.0],
          "high": [102.0, 103.0],
          "low": [99.0, 100.5],
          "close": [101.0, %f],
          "volume": [1000, 1100]
        }]
      }
    }],
    "error": null
  }
}`, symbol, symbol, price, previousClose, price)
}

func newChartServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		symbol := strings.TrimPrefix(r.URL.Path, "/v8/finance/chart/")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(chartBody(symbol, 226.05, 224.58)))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestToolSet(t *testing.T, extra ...Option) *ToolSet {
	t.Helper()
	srv := newChartServer(t)
	opts := append([]Option{
		WithClient(yahoo.NewClient(yahoo.WithBaseURL(srv.URL))),
	}, extra...)
	ts, err := NewToolSet(opts...)
	require.NoError(t, err)
	return ts
}

func TestToolDeclarations(t *testing.T) {
	ts := newTestToolSet(t)
	assert.Equal(t, "marketdata", ts.Name())
	assert.NoError(t, ts.Close())

	var names []string
	for _, tl := range ts.Tools(context.Background()) {
		names = append(names, tl.Declaration().Name)
	}
	assert.Equal(t, []string{"get_stock_quote", "get_price_history", "get_market_indices"}, names)
}

func TestQuoteTool(t *testing.T) {
	ts := newTestToolSet(t)

	out, err := callTool(t, ts, "get_stock_quote", `{"symbol":"AAPL"}`)
	require.NoError(t, err)
	resp, ok := out.(*quoteResponse)
	require.True(t, ok)

	assert.Equal(t, "AAPL", resp.Symbol)
	assert.Equal(t, "AAPL Inc.", resp.Name)
	assert.InDelta(t, 226.05, resp.Price, 0.001)
	assert.InDelta(t, 224.58, resp.PreviousClose, 0.001)
	assert.InDelta(t, 1.47, resp.Change, 0.001)
	assert.NotEmpty(t, resp.MarketTime)
}

func TestQuoteToolEmptySymbol(t *testing.T) {
	ts := newTestToolSet(t)
	_, err := callTool(t, ts, "get_stock_quote", `{"symbol":" "}`)
	assert.Error(t, err)
}

func TestHistoryToolCapsBars(t *testing.T) {
	ts := newTestToolSet(t, FromConfig(map[string]any{"max_bars": 1})...)

	out, err := callTool(t, ts, "get_price_history", `{"symbol":"AAPL"}`)
	require.NoError(t, err)
	resp, ok := out.(*historyResponse)
	require.True(t, ok)

	assert.Equal(t, "1mo", resp.Range)
	assert.Equal(t, "1d", resp.Interval)
	require.Len(t, resp.Bars, 1)
	// The cap keeps the most recent bar.
	assert.InDelta(t, 226.05, resp.Bars[0].Close, 0.001)
}

func TestHistoryToolInvalidRange(t *testing.T) {
	ts := newTestToolSet(t)
	_, err := callTool(t, ts, "get_price_history", `{"symbol":"AAPL","range":"7y"}`)
	assert.Error(t, err)
}

func TestIndicesTool(t *testing.T) {
	ts := newTestToolSet(t)

	out, err := callTool(t, ts, "get_market_indices", `{"region":"us"}`)
	require.NoError(t, err)
	resp, ok := out.(*indicesResponse)
	require.True(t, ok)

	assert.Equal(t, "us", resp.Region)
	us := yahoo.IndicesByRegion("us")
	require.Len(t, resp.Quotes, len(us))
	for i, idx := range us {
		assert.Equal(t, idx.Symbol, resp.Quotes[i].Symbol)
		assert.Equal(t, "us", resp.Quotes[i].Region)
	}
}

func TestIndicesToolDefaultRegion(t *testing.T) {
	ts := newTestToolSet(t, FromConfig(map[string]any{"region": "europe"})...)

	out, err := callTool(t, ts, "get_market_indices", `{}`)
	require.NoError(t, err)
	resp := out.(*indicesResponse)
	assert.Equal(t, "europe", resp.Region)
	require.NotEmpty(t, resp.Quotes)
	for _, q := range resp.Quotes {
		assert.Equal(t, "europe", q.Region)
	}
}

func TestIndicesToolUnknownRegion(t *testing.T) {
	ts := newTestToolSet(t)
	_, err := callTool(t, ts, "get_market_indices", `{"region":"mars"}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown region")
}

func callTool(t *testing.T, ts *ToolSet, name, args string) (any, error) {
	t.Helper()
	for _, tl := range ts.Tools(context.Background()) {
		if tl.Declaration().Name != name {
			continue
		}
		callable, ok := tl.(tool.CallableTool)
		require.True(t, ok)
		return callable.Call(context.Background(), []byte(args))
	}
	t.Fatalf("tool %q not found", name)
	return nil, nil
}
