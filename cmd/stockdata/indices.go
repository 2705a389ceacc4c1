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
	"fmt"

	"github.com/spf13/cobra"

	"trpc.group/trpc-go/finsight/internal/marketdata"
)

var indicesRegion string

func newIndicesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "indices",
		Short: "Print a snapshot of the major market indices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runIndices(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&indicesRegion, "region", "all",
		"Region filter: us, asia, europe or all")
	return cmd
}

func runIndices(ctx context.Context) error {
	indices := marketdata.IndicesByRegion(indicesRegion)
	if len(indices) == 0 {
		return fmt.Errorf("unknown region %q (want us, asia, europe or all)", indicesRegion)
	}

	symbols := make([]string, 0, len(indices))
	for _, idx := range indices {
		symbols = append(symbols, idx.Symbol)
	}

	client := marketdata.NewClient()
	quotes, err := client.Snapshot(ctx, symbols)
	if err != nil {
		return err
	}

	for _, idx := range indices {
		q, ok := quotes[idx.Symbol]
		if !ok {
			fmt.Printf("%-30s %-10s unavailable\n", idx.Name, idx.Symbol)
			continue
		}
		fmt.Printf("%-30s %-10s %12.2f  %s\n",
			idx.Name, idx.Symbol, q.Price, formatChange(q.Change, q.ChangePercent))
	}
	return nil
}
