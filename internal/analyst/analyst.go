//
// Tencent is pleased to support the open source community by making finsight available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// finsight is licensed under the Apache License Version 2.0.
//
//

// Package analyst builds the financial analyst agents and the team that
// coordinates them. Everything an agent is made of comes from the
// configuration document: model backend, generation parameters, tools
// and conversation history policy.
package analyst

import (
	"errors"
	"fmt"

	"trpc.group/trpc-go/trpc-agent-go/agent/llmagent"
	"trpc.group/trpc-go/trpc-agent-go/log"

	"trpc.group/trpc-go/finsight/internal/config"
	"trpc.group/trpc-go/finsight/internal/provider"
	"trpc.group/trpc-go/finsight/internal/toolkit"
)

// Role identifies one analyst specialty. The value doubles as the agent
// type key used in the configuration document.
type Role string

const (
	// RoleFundamental covers company financials and valuation.
	RoleFundamental Role = "fundamental_analysis"
	// RoleTechnical covers price action and chart behavior.
	RoleTechnical Role = "technical_analysis"
	// RoleMacro covers the economic backdrop.
	RoleMacro Role = "macro_analysis"
)

// TeamAgentType is the configuration key of the team coordinator.
const TeamAgentType = "team"

// ErrUnknownRole reports a role no instruction set exists for.
var ErrUnknownRole = errors.New("unknown analyst role")

const fundamentalInstruction = `You are a fundamental analysis specialist on a financial research team.

Focus on the financial health and intrinsic value of companies:
- Revenue, earnings and margin trends across recent quarters.
- Balance sheet strength, cash flow and capital allocation.
- Valuation metrics such as P/E, P/S and EV/EBITDA relative to peers.
- Competitive position and management execution.

Use your tools to ground every claim: search for recent filings and
coverage, read the underlying articles, and pull current quotes before
citing prices. State the numbers you relied on and flag anything you
could not verify.`

const technicalInstruction = `You are a technical analysis specialist on a financial research team.

Focus on price action and market behavior:
- Trend direction and strength across multiple timeframes.
- Support and resistance levels and recent breakouts or breakdowns.
- Volume behavior and momentum.
- Moving averages and common indicators such as RSI and MACD.

Load recent price history before describing a chart, and quote concrete
levels rather than vague directions. Name the level that would
invalidate any setup you mention.`

const macroInstruction = `You are a macroeconomic analysis specialist on a financial research team.

Focus on the economic backdrop that drives markets:
- Central bank policy, interest rates and liquidity conditions.
- Inflation, employment and growth indicators.
- Currency moves, commodities and cross-border capital flows.
- Geopolitical developments with market impact.

Use news search to find current developments and the market indices
tool to check how regions are trading. Connect each observation back to
the asset or question under discussion.`

// instructions holds the fixed prompt of each analyst role.
var instructions = map[Role]string{
	RoleFundamental: fundamentalInstruction,
	RoleTechnical:   technicalInstruction,
	RoleMacro:       macroInstruction,
}

// Roles returns the known analyst roles in their canonical order.
func Roles() []Role {
	return []Role{RoleFundamental, RoleTechnical, RoleMacro}
}

// NewAgent builds one analyst agent from the configuration document.
func NewAgent(st *config.Store, role Role) (*llmagent.LLMAgent, error) {
	instruction, ok := instructions[role]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}
	return buildAgent(st, string(role), instruction)
}

// buildAgent assembles an agent for one agent type: model backend and
// generation parameters from the models section, name and behavior from
// the agents section, tool sets from the tools blocks.
func buildAgent(st *config.Store, agentType, instruction string) (*llmagent.LLMAgent, error) {
	mc := st.ModelConfig(agentType)
	if mc.APIKey == "" {
		key, err := st.APIKey(mc.Provider)
		if err != nil {
			return nil, fmt.Errorf("build agent %q: %w", agentType, err)
		}
		mc.APIKey = key
	}
	m, err := provider.New(mc)
	if err != nil {
		return nil, fmt.Errorf("build agent %q: %w", agentType, err)
	}

	ac := st.AgentConfig(agentType)
	if ac.Debug {
		log.SetLevel(log.LevelDebug)
	}
	if ac.Markdown {
		instruction += "\n\nFormat your response in markdown."
	}

	toolSets, err := toolkit.Assemble(st, agentType, toolkit.DefaultTools...)
	if err != nil {
		return nil, fmt.Errorf("build agent %q: %w", agentType, err)
	}

	opts := []llmagent.Option{
		llmagent.WithModel(m),
		llmagent.WithDescription(ac.Role),
		llmagent.WithInstruction(instruction),
		llmagent.WithGenerationConfig(provider.GenerationConfig(mc)),
		llmagent.WithAddCurrentTime(true),
	}
	if len(toolSets) > 0 {
		opts = append(opts, llmagent.WithToolSets(toolSets))
	}
	opts = append(opts, historyOptions(ac.History)...)

	return llmagent.New(ac.Name, opts...), nil
}

// historyOptions maps the history block to message filtering. A missing
// block keeps the framework defaults, which already carry the full
// session history.
func historyOptions(h *config.HistoryConfig) []llmagent.Option {
	if h == nil {
		return nil
	}
	if !h.Enabled {
		return []llmagent.Option{llmagent.WithMessageFilterMode(llmagent.RequestContext)}
	}
	opts := []llmagent.Option{llmagent.WithMessageFilterMode(llmagent.FullContext)}
	switch {
	case h.NumRuns != nil:
		opts = append(opts, llmagent.WithMaxHistoryRuns(*h.NumRuns))
	case h.NumMessages != nil:
		// The framework caps history per run rather than per message.
		opts = append(opts, llmagent.WithMaxHistoryRuns(*h.NumMessages))
	}
	return opts
}
