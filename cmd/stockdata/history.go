//
// Tencent is pleased to support the open source community by making finsight available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// finsight is licensed under the Apache License Version 2.0.
//
//

package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"trpc.group/trpc-go/finsight/internal/marketdata"
)

var (
	historyRange    string
	historyInterval string
	historyCSV      string
)

func newHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history SYMBOL",
		Short: "Print historical price bars for a symbol",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd.Context(), args[0])
		},
	}
	cmd.Flags().StringVar(&historyRange, "range", "1mo",
		"Time range: 1d, 5d, 1mo, 3mo, 6mo, 1y, 2y, 5y, 10y, ytd or max")
	cmd.Flags().StringVar(&historyInterval, "interval", "1d",
		"Bar interval: 1m, 5m, 15m, 1h, 1d, 1wk or 1mo")
	cmd.Flags().StringVar(&historyCSV, "csv", "",
		"Write bars to this CSV file instead of stdout")
	return cmd
}

func runHistory(ctx context.Context, symbol string) error {
	client := marketdata.NewClient()
	bars, err := client.History(ctx, symbol, marketdata.HistoryRequest{
		Range:    historyRange,
		Interval: historyInterval,
	})
	if err != nil {
		return err
	}
	if len(bars) == 0 {
		return fmt.Errorf("no bars returned for %s", symbol)
	}

	if historyCSV != "" {
		if err := writeCSV(historyCSV, bars); err != nil {
			return err
		}
		fmt.Printf("Wrote %d bars to %s\n", len(bars), historyCSV)
		return nil
	}

	layout := barTimeLayout(historyInterval)
	fmt.Printf("%-17s %9s %9s %9s %9s %10s\n",
		"Time", "Open", "High", "Low", "Close", "Volume")
	for _, bar := range bars {
		fmt.Printf("%-17s %9.2f %9.2f %9.2f %9.2f %10s\n",
			bar.Time.Format(layout),
			bar.Open, bar.High, bar.Low, bar.Close,
			humanize(float64(bar.Volume)))
	}
	return nil
}

// barTimeLayout picks a display layout: daily and coarser bars need no
// time of day.
func barTimeLayout(interval string) string {
	switch interval {
	case "1d", "5d", "1wk", "1mo", "3mo":
		return "2006-01-02"
	default:
		return "2006-01-02 15:04"
	}
}

func writeCSV(path string, bars []marketdata.Bar) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"time", "open", "high", "low", "close", "volume"}); err != nil {
		return err
	}
	for _, bar := range bars {
		record := []string{
			bar.Time.Format("2006-01-02T15:04:05Z07:00"),
			strconv.FormatFloat(bar.Open, 'f', -1, 64),
			strconv.FormatFloat(bar.High, 'f', -1, 64),
			strconv.FormatFloat(bar.Low, 'f', -1, 64),
			strconv.FormatFloat(bar.Close, 'f', -1, 64),
			strconv.FormatInt(bar.Volume, 10),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
