//
// Tencent is pleased to support the open source community by making finsight available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// finsight is licensed under the Apache License Version 2.0.
//
//

// Package main implements stockdata, a small CLI for quotes, price
// history and market indices.
package main

import (
	"fmt"
	"math"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "stockdata",
		Short: "Stock market data from the terminal",
		Long: `stockdata prints latest quotes, price history and a snapshot of the
major market indices.`,
		SilenceUsage: true,
	}
	root.AddCommand(newQuoteCommand())
	root.AddCommand(newHistoryCommand())
	root.AddCommand(newIndicesCommand())
	return root
}

// humanize renders large values with B/M/K suffixes.
func humanize(v float64) string {
	abs := math.Abs(v)
	switch {
	case abs >= 1e9:
		return fmt.Sprintf("%.2fB", v/1e9)
	case abs >= 1e6:
		return fmt.Sprintf("%.2fM", v/1e6)
	case abs >= 1e3:
		return fmt.Sprintf("%.2fK", v/1e3)
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

// formatChange renders a price change with an explicit sign.
func formatChange(change, percent float64) string {
	sign := "+"
	if change < 0 {
		sign = ""
	}
	return fmt.Sprintf("%s%.2f (%s%.2f%%)", sign, change, sign, percent)
}
