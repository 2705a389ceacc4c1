//
// Tencent is pleased to support the open source community by making finsight available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// finsight is licensed under the Apache License Version 2.0.
//
//

// Package toolkit assembles agent tool sets from configuration. Each tool
// is registered under the name its configuration block uses; a block only
// produces a tool set when it carries enabled: true.
package toolkit

import (
	"fmt"
	"sync"

	"trpc.group/trpc-go/trpc-agent-go/log"
	"trpc.group/trpc-go/trpc-agent-go/tool"

	"trpc.group/trpc-go/finsight/internal/config"
	"trpc.group/trpc-go/finsight/internal/toolkit/duckduckgo"
	"trpc.group/trpc-go/finsight/internal/toolkit/marketdata"
	"trpc.group/trpc-go/finsight/internal/toolkit/newspaper"
)

// DefaultTools lists the tools agents may enable, in assembly order.
var DefaultTools = []string{"duckduckgo", "newspaper", "marketdata"}

// Builder constructs one tool set from the raw configuration block of a
// tool. The block still contains the enabled flag; builders are free to
// ignore it along with any other key they do not recognize.
type Builder func(params map[string]any) (tool.ToolSet, error)

var (
	buildersMu sync.RWMutex
	builders   = make(map[string]Builder)
)

func init() {
	Register("duckduckgo", func(params map[string]any) (tool.ToolSet, error) {
		return duckduckgo.NewToolSet(duckduckgo.FromConfig(params)...)
	})
	Register("newspaper", func(params map[string]any) (tool.ToolSet, error) {
		return newspaper.NewToolSet(newspaper.FromConfig(params)...)
	})
	Register("marketdata", func(params map[string]any) (tool.ToolSet, error) {
		return marketdata.NewToolSet(marketdata.FromConfig(params)...)
	})
}

// Register adds or replaces the builder for a tool name.
func Register(name string, builder Builder) {
	buildersMu.Lock()
	defer buildersMu.Unlock()
	builders[name] = builder
}

// Get returns the builder registered for a tool name.
func Get(name string) (Builder, bool) {
	buildersMu.RLock()
	defer buildersMu.RUnlock()
	b, ok := builders[name]
	return b, ok
}

// Assemble builds the tool sets one agent has enabled, in the order the
// names are given. Disabled tools and names without a registered builder
// produce nothing; the result is nil when no tool is enabled so callers
// can treat it as "no tools".
func Assemble(st *config.Store, agentType string, names ...string) ([]tool.ToolSet, error) {
	var sets []tool.ToolSet
	for _, name := range names {
		if !st.ToolEnabled(agentType, name) {
			continue
		}
		builder, ok := Get(name)
		if !ok {
			log.Warnf("Tool %q is enabled for agent %q but has no builder, skipping", name, agentType)
			continue
		}
		ts, err := builder(st.ToolConfig(agentType, name))
		if err != nil {
			return nil, fmt.Errorf("assemble tool %q for agent %q: %w", name, agentType, err)
		}
		sets = append(sets, ts)
	}
	return sets, nil
}
