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
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const appleChart = `{
  "chart": {
    "result": [{
      "meta": {
        "currency": "USD",
        "symbol": "AAPL",
        "exchangeName": "NMS",
        "shortName": "Apple Inc.",
        "regularMarketPrice": 227.52,
        "chartPreviousClose": 226.05,
        "regularMarketTime": 1724702400
      },
      "timestamp": [1724616000, 1724702400],
      "indicators": {
        "quote": [{
          "open":   [225.77, 226.76],
          "high":   [228.22, 228.36],
          "low":    [224.33, 226.00],
          "close":  [226.05, 227.52],
          "volume": [38677250, 36311600]
        }]
      }
    }],
    "error": null
  }
}`

const gappyChart = `{
  "chart": {
    "result": [{
      "meta": {"currency": "USD", "symbol": "GAP", "regularMarketPrice": 151.5, "chartPreviousClose": 150.0},
      "timestamp": [100, 200, 300],
      "indicators": {
        "quote": [{
          "open":   [150.0, null, 151.0],
          "high":   [152.0, null, 152.5],
          "low":    [149.0, null, 150.5],
          "close":  [150.0, null, 151.5],
          "volume": [1000, null, 2000]
        }]
      }
    }],
    "error": null
  }
}`

const notFoundChart = `{
  "chart": {
    "result": null,
    "error": {"code": "Not Found", "description": "No data found, symbol may be delisted"}
  }
}`

func newChartServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.True(t, strings.HasPrefix(r.URL.Path, "/v8/finance/chart/"))
		symbol := strings.TrimPrefix(r.URL.Path, "/v8/finance/chart/")
		w.Header().Set("Content-Type", "application/json")
		switch symbol {
		case "AAPL":
			fmt.Fprint(w, appleChart)
		case "GAP":
			fmt.Fprint(w, gappyChart)
		case "GONE":
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, notFoundChart)
		default:
			fmt.Fprint(w, notFoundChart)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestQuote(t *testing.T) {
	srv := newChartServer(t)
	c := NewClient(WithBaseURL(srv.URL))

	q, err := c.Quote(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", q.Symbol)
	assert.Equal(t, "Apple Inc.", q.Name)
	assert.Equal(t, "USD", q.Currency)
	assert.Equal(t, "NMS", q.Exchange)
	assert.Equal(t, 227.52, q.Price)
	assert.Equal(t, 226.05, q.PreviousClose)
	assert.InDelta(t, 1.47, q.Change, 1e-9)
	assert.InDelta(t, 0.6503, q.ChangePercent, 1e-3)
	assert.Equal(t, time.Unix(1724702400, 0).UTC(), q.MarketTime)
}

func TestQuoteUnknownSymbol(t *testing.T) {
	srv := newChartServer(t)
	c := NewClient(WithBaseURL(srv.URL))

	_, err := c.Quote(context.Background(), "NOSUCH")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "NOSUCH")
}

func TestQuoteHTTPNotFound(t *testing.T) {
	srv := newChartServer(t)
	c := NewClient(WithBaseURL(srv.URL))

	_, err := c.Quote(context.Background(), "GONE")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHistorySkipsNullPoints(t *testing.T) {
	srv := newChartServer(t)
	c := NewClient(WithBaseURL(srv.URL))

	bars, err := c.History(context.Background(), "GAP", HistoryRequest{Range: "5d", Interval: "1d"})
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, 150.0, bars[0].Close)
	assert.Equal(t, int64(1000), bars[0].Volume)
	assert.Equal(t, time.Unix(100, 0).UTC(), bars[0].Time)
	assert.Equal(t, 151.5, bars[1].Close)
	assert.Equal(t, int64(2000), bars[1].Volume)
}

func TestHistoryValidatesRangeAndInterval(t *testing.T) {
	c := NewClient()

	_, err := c.History(context.Background(), "AAPL", HistoryRequest{Range: "7y", Interval: "1d"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "7y")

	_, err = c.History(context.Background(), "AAPL", HistoryRequest{Range: "1y", Interval: "42s"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "42s")
}

func TestHistoryDefaults(t *testing.T) {
	var gotRange, gotInterval string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRange = r.URL.Query().Get("range")
		gotInterval = r.URL.Query().Get("interval")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, appleChart)
	}))
	t.Cleanup(srv.Close)
	c := NewClient(WithBaseURL(srv.URL))

	_, err := c.History(context.Background(), "AAPL", HistoryRequest{})
	require.NoError(t, err)
	assert.Equal(t, "1mo", gotRange)
	assert.Equal(t, "1d", gotInterval)
}

func TestSnapshotToleratesFailures(t *testing.T) {
	srv := newChartServer(t)
	c := NewClient(WithBaseURL(srv.URL))

	quotes, err := c.Snapshot(context.Background(), []string{"AAPL", "GAP", "GONE"})
	require.NoError(t, err)
	assert.Len(t, quotes, 2)
	assert.Contains(t, quotes, "AAPL")
	assert.Contains(t, quotes, "GAP")
	assert.NotContains(t, quotes, "GONE")
}

func TestIndicesByRegion(t *testing.T) {
	assert.Len(t, IndicesByRegion("us"), 4)
	assert.Len(t, IndicesByRegion("asia"), 4)
	assert.Len(t, IndicesByRegion("europe"), 3)
	assert.Len(t, IndicesByRegion("all"), len(Indices))
	assert.Len(t, IndicesByRegion(""), len(Indices))
	assert.Empty(t, IndicesByRegion("mars"))
}

func TestQuoteEmptySymbol(t *testing.T) {
	c := NewClient()
	_, err := c.Quote(context.Background(), "")
	assert.Error(t, err)
}
