//
// Tencent is pleased to support the open source community by making finsight available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// finsight is licensed under the Apache License Version 2.0.
//
//

package analyst

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/finsight/internal/config"
)

const analystDocument = `
models:
  default:
    provider: openai
    id: gpt-4o-mini
agents:
  fundamental_analysis:
    name: fundamental-analyst
    role: Fundamental research
    tools:
      duckduckgo:
        enabled: true
        news: false
  technical_analysis:
    name: technical-analyst
  macro_analysis:
    name: macro-analyst
`

func loadDocument(t *testing.T, doc string) *config.Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))
	st, err := config.Load(path)
	require.NoError(t, err)
	return st
}

func TestNewAgentUnknownRole(t *testing.T) {
	st := loadDocument(t, "{}")
	_, err := NewAgent(st, Role("quantitative_vibes"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestNewAgentDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "test-key")
	st := loadDocument(t, "{}")

	ag, err := NewAgent(st, RoleFundamental)
	require.NoError(t, err)
	info := ag.Info()
	assert.Equal(t, "Agent", info.Name)
	assert.Equal(t, "AI Assistant", info.Description)
}

func TestNewAgentNamedFromDocument(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "test-key")
	st := loadDocument(t, analystDocument)

	ag, err := NewAgent(st, RoleFundamental)
	require.NoError(t, err)
	info := ag.Info()
	assert.Equal(t, "fundamental-analyst", info.Name)
	assert.Equal(t, "Fundamental research", info.Description)
}

func TestNewAgentMissingAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	st := loadDocument(t, "{}")

	_, err := NewAgent(st, RoleFundamental)
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrMissingAPIKey)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}

func TestNewAgentExplicitKeyBeatsEnvironment(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	st := loadDocument(t, `
models:
  default:
    api_key: from-document
`)

	_, err := NewAgent(st, RoleFundamental)
	assert.NoError(t, err)
}

func TestRoles(t *testing.T) {
	assert.Equal(t, []Role{RoleFundamental, RoleTechnical, RoleMacro}, Roles())
}

func TestHistoryOptions(t *testing.T) {
	two := 2

	assert.Nil(t, historyOptions(nil))
	assert.Len(t, historyOptions(&config.HistoryConfig{Enabled: false}), 1)
	assert.Len(t, historyOptions(&config.HistoryConfig{Enabled: true}), 1)
	assert.Len(t, historyOptions(&config.HistoryConfig{Enabled: true, NumRuns: &two}), 2)
	assert.Len(t, historyOptions(&config.HistoryConfig{Enabled: true, NumMessages: &two}), 2)
}
