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
	"errors"
	"fmt"

	"trpc.group/trpc-go/trpc-agent-go/agent"
	"trpc.group/trpc-go/trpc-agent-go/log"
	"trpc.group/trpc-go/trpc-agent-go/team"

	"trpc.group/trpc-go/finsight/internal/config"
)

// ErrNoMembers reports a team whose member list resolved to nothing.
var ErrNoMembers = errors.New("team has no valid members")

const teamInstruction = `You lead a team of financial analysts covering fundamental, technical
and macro research.

For every question:
1. Decide which specialists the question needs. Simple factual lookups
   may need only one member.
2. Delegate a focused sub-question to each selected member.
3. Synthesize the member findings into one coherent answer. Resolve
   disagreements explicitly instead of averaging them away.
4. End with a clear conclusion and the main risks to it.

Never fabricate member findings. If no member can answer, say what is
missing. This is research commentary, not individual investment advice,
and significant uncertainty should be stated plainly.`

// defaultMembers is the team composition used when the document has no
// members list.
var defaultMembers = []string{
	string(RoleFundamental),
	string(RoleTechnical),
	string(RoleMacro),
}

// NewTeam builds the analyst team from the configuration document. The
// member list comes from agents.team.members; names that match no known
// role are skipped with a warning so one typo does not take the whole
// team down.
func NewTeam(st *config.Store) (*team.Team, error) {
	var members []agent.Agent
	for _, memberType := range st.StringSlice("agents.team.members", defaultMembers) {
		role := Role(memberType)
		if _, ok := instructions[role]; !ok {
			log.Warnf("Unknown team member %q in configuration, skipping", memberType)
			continue
		}
		member, err := NewAgent(st, role)
		if err != nil {
			return nil, fmt.Errorf("build team member %q: %w", memberType, err)
		}
		members = append(members, member)
	}
	if len(members) == 0 {
		return nil, ErrNoMembers
	}

	coordinator, err := buildAgent(st, TeamAgentType, teamInstruction)
	if err != nil {
		return nil, fmt.Errorf("build team coordinator: %w", err)
	}

	ac := st.AgentConfig(TeamAgentType)
	return team.New(coordinator, members, team.WithDescription(ac.Role))
}
