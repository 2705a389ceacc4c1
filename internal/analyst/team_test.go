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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const teamDocument = `
models:
  default:
    provider: openai
    id: gpt-4o-mini
agents:
  fundamental_analysis:
    name: fundamental-analyst
  technical_analysis:
    name: technical-analyst
  macro_analysis:
    name: macro-analyst
  team:
    name: research-desk
    role: Financial research team
    members:
      - macro_analysis
      - fundamental_analysis
`

func TestNewTeamFollowsMemberOrder(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "test-key")
	tm, err := NewTeam(loadDocument(t, teamDocument))
	require.NoError(t, err)

	assert.Equal(t, "research-desk", tm.Info().Name)
	assert.Equal(t, "Financial research team", tm.Info().Description)

	subs := tm.SubAgents()
	require.Len(t, subs, 2)
	assert.Equal(t, "macro-analyst", subs[0].Info().Name)
	assert.Equal(t, "fundamental-analyst", subs[1].Info().Name)
}

func TestNewTeamDefaultMembers(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "test-key")
	tm, err := NewTeam(loadDocument(t, `
agents:
  fundamental_analysis:
    name: fundamental-analyst
  technical_analysis:
    name: technical-analyst
  macro_analysis:
    name: macro-analyst
  team:
    name: research-desk
`))
	require.NoError(t, err)

	subs := tm.SubAgents()
	require.Len(t, subs, 3)
	assert.Equal(t, "fundamental-analyst", subs[0].Info().Name)
	assert.Equal(t, "technical-analyst", subs[1].Info().Name)
	assert.Equal(t, "macro-analyst", subs[2].Info().Name)
}

func TestNewTeamSkipsUnknownMembers(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "test-key")
	tm, err := NewTeam(loadDocument(t, `
agents:
  fundamental_analysis:
    name: fundamental-analyst
  team:
    name: research-desk
    members:
      - fundamental_analysis
      - quantum_entanglement
`))
	require.NoError(t, err)

	subs := tm.SubAgents()
	require.Len(t, subs, 1)
	assert.Equal(t, "fundamental-analyst", subs[0].Info().Name)
}

func TestNewTeamAllMembersUnknown(t *testing.T) {
	_, err := NewTeam(loadDocument(t, `
agents:
  team:
    members:
      - nope
      - also_nope
`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoMembers)
}
