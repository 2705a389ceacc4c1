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
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"trpc.group/trpc-go/trpc-agent-go/log"
	"trpc.group/trpc-go/trpc-agent-go/runner"
	sessioninmemory "trpc.group/trpc-go/trpc-agent-go/session/inmemory"

	"trpc.group/trpc-go/finsight/internal/analyst"
	"trpc.group/trpc-go/finsight/internal/report"
)

func newAskCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ask \"question\"",
		Short: "Ask the analyst team a single question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsk(cmd.Context(), strings.Join(args, " "))
		},
	}
}

func runAsk(ctx context.Context, question string) error {
	st, err := loadStore()
	if err != nil {
		return err
	}
	teamAgent, err := analyst.NewTeam(st)
	if err != nil {
		return err
	}
	r := runner.NewRunner(
		appName,
		teamAgent,
		runner.WithSessionService(sessioninmemory.NewSessionService()),
	)
	defer r.Close()

	sessionID := "ask-" + uuid.NewString()
	rep, err := report.FromStore(st, sessionID)
	if err != nil {
		log.Warnf("session report disabled: %v", err)
	}

	answer, err := runTurn(ctx, r, sessionID, question, teamAgent.Info().Name)
	if err != nil {
		return err
	}
	if rep != nil {
		if err := rep.AddTurn(question, answer); err != nil {
			log.Warnf("record turn: %v", err)
		}
		if err := rep.Close(); err != nil {
			log.Warnf("close session report: %v", err)
		}
	}
	return nil
}
