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
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"trpc.group/trpc-go/finsight/internal/marketdata"
)

func newQuoteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "quote SYMBOL...",
		Short: "Print the latest quote for one or more symbols",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuote(cmd.Context(), args)
		},
	}
}

func runQuote(ctx context.Context, symbols []string) error {
	client := marketdata.NewClient()

	fetched := 0
	for _, symbol := range symbols {
		q, err := client.Quote(ctx, symbol)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", symbol, err)
			continue
		}
		fetched++

		line := fmt.Sprintf("%-10s %.2f %s  %s",
			q.Symbol, q.Price, q.Currency, formatChange(q.Change, q.ChangePercent))
		if q.Exchange != "" {
			line += "  " + q.Exchange
		}
		fmt.Println(line)
		if q.Name != "" {
			fmt.Printf("%-10s %s\n", "", q.Name)
		}
	}

	if fetched == 0 {
		return errors.New("no quotes returned")
	}
	return nil
}
