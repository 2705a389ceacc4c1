//
// Tencent is pleased to support the open source community by making finsight available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// finsight is licensed under the Apache License Version 2.0.
//
//

package config

// Default model settings applied when the document leaves them out.
const (
	DefaultProvider    = "openai"
	DefaultModelID     = "gpt-4o"
	DefaultTemperature = 0.7
)

// ModelConfig describes one model backend. It is rebuilt from the document
// on every agent build and never mutated afterwards. Optional fields use
// pointer or empty-string absence so that downstream constructors only see
// parameters that were actually set.
type ModelConfig struct {
	Provider    string
	ID          string
	Temperature float64
	MaxTokens   *int
	APIKey      string
	BaseURL     string
}

// HistoryConfig controls how much prior conversation an agent carries into a
// new request. NumRuns and NumMessages are forwarded only when set.
type HistoryConfig struct {
	Enabled     bool
	NumRuns     *int
	NumMessages *int
}

// AgentConfig holds the per-role settings of one analyst agent. Tools maps
// tool names to their raw configuration blocks; History is nil when the
// document has no history block for the role.
type AgentConfig struct {
	Name     string
	Role     string
	Markdown bool
	Debug    bool
	Tools    map[string]map[string]any
	History  *HistoryConfig
}

// ModelConfig derives the model settings for one agent type, falling back to
// models.default when the agent has no models.<agentType> block of its own.
func (s *Store) ModelConfig(agentType string) ModelConfig {
	block, ok := s.Get("models."+agentType, nil).(map[string]any)
	if !ok {
		block, _ = s.Get("models.default", nil).(map[string]any)
	}
	return ModelConfig{
		Provider:    str(block["provider"], DefaultProvider),
		ID:          str(block["id"], DefaultModelID),
		Temperature: num(block["temperature"], DefaultTemperature),
		MaxTokens:   optInt(block["max_tokens"]),
		APIKey:      str(block["api_key"], ""),
		BaseURL:     str(block["base_url"], ""),
	}
}

// AgentConfig derives the agent settings for one agent type from
// agents.<agentType>.
func (s *Store) AgentConfig(agentType string) AgentConfig {
	block, _ := s.Get("agents."+agentType, nil).(map[string]any)
	cfg := AgentConfig{
		Name:     str(block["name"], "Agent"),
		Role:     str(block["role"], "AI Assistant"),
		Markdown: boolean(block["markdown"], true),
		Debug:    boolean(block["debug_mode"], false),
		Tools:    toolBlocks(block["tools"]),
	}
	if h, ok := block["history"].(map[string]any); ok {
		cfg.History = &HistoryConfig{
			Enabled:     boolean(h["enabled"], true),
			NumRuns:     optInt(h["num_runs"]),
			NumMessages: optInt(h["num_messages"]),
		}
	}
	return cfg
}

// ToolConfig returns the raw configuration block of one tool of one agent,
// or an empty block when the path is absent.
func (s *Store) ToolConfig(agentType, toolName string) map[string]any {
	block, ok := s.Get("agents."+agentType+".tools."+toolName, nil).(map[string]any)
	if !ok {
		return map[string]any{}
	}
	return block
}

// ToolEnabled reports whether a tool block exists and carries enabled: true.
func (s *Store) ToolEnabled(agentType, toolName string) bool {
	return boolean(s.ToolConfig(agentType, toolName)["enabled"], false)
}

func toolBlocks(v any) map[string]map[string]any {
	block, ok := v.(map[string]any)
	if !ok {
		return map[string]map[string]any{}
	}
	out := make(map[string]map[string]any, len(block))
	for name, raw := range block {
		if m, ok := raw.(map[string]any); ok {
			out[name] = m
		} else {
			out[name] = map[string]any{}
		}
	}
	return out
}
