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
	"sync"

	"github.com/panjf2000/ants/v2"
	"trpc.group/trpc-go/trpc-agent-go/log"
)

// snapshotParallelism caps concurrent quote fetches in Snapshot.
const snapshotParallelism = 6

// Index describes one tracked market index.
type Index struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Region string `json:"region"`
}

// Indices is the built-in set of tracked market indices.
var Indices = []Index{
	{Symbol: "^GSPC", Name: "S&P 500", Region: "us"},
	{Symbol: "^DJI", Name: "Dow Jones Industrial Average", Region: "us"},
	{Symbol: "^IXIC", Name: "Nasdaq Composite", Region: "us"},
	{Symbol: "^RUT", Name: "Russell 2000", Region: "us"},
	{Symbol: "^HSI", Name: "Hang Seng Index", Region: "asia"},
	{Symbol: "000001.SS", Name: "Shanghai Composite", Region: "asia"},
	{Symbol: "399001.SZ", Name: "Shenzhen Component", Region: "asia"},
	{Symbol: "^N225", Name: "Nikkei 225", Region: "asia"},
	{Symbol: "^FTSE", Name: "FTSE 100", Region: "europe"},
	{Symbol: "^GDAXI", Name: "DAX", Region: "europe"},
	{Symbol: "^FCHI", Name: "CAC 40", Region: "europe"},
}

// IndicesByRegion returns the tracked indices of one region, or all of them
// for "all" or an empty region.
func IndicesByRegion(region string) []Index {
	if region == "" || region == "all" {
		return Indices
	}
	var out []Index
	for _, idx := range Indices {
		if idx.Region == region {
			out = append(out, idx)
		}
	}
	return out
}

// Snapshot fetches quotes for all symbols concurrently on a worker pool.
// Failed symbols are logged and omitted from the result, so callers get the
// quotes that could be retrieved rather than nothing.
func (c *Client) Snapshot(ctx context.Context, symbols []string) (map[string]Quote, error) {
	pool, err := ants.NewPool(snapshotParallelism)
	if err != nil {
		return nil, fmt.Errorf("create quote worker pool: %w", err)
	}
	defer pool.Release()

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	quotes := make(map[string]Quote, len(symbols))
	for _, symbol := range symbols {
		wg.Add(1)
		sym := symbol
		if err := pool.Submit(func() {
			defer wg.Done()
			q, err := c.Quote(ctx, sym)
			if err != nil {
				log.Warnf("Snapshot: quote %s failed: %v", sym, err)
				return
			}
			mu.Lock()
			quotes[sym] = q
			mu.Unlock()
		}); err != nil {
			wg.Done()
			log.Warnf("Snapshot: submit quote task for %s: %v", sym, err)
		}
	}
	wg.Wait()
	return quotes, nil
}
