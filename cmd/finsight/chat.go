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
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"trpc.group/trpc-go/trpc-agent-go/log"
	"trpc.group/trpc-go/trpc-agent-go/model"
	"trpc.group/trpc-go/trpc-agent-go/runner"
	sessioninmemory "trpc.group/trpc-go/trpc-agent-go/session/inmemory"

	"trpc.group/trpc-go/finsight/internal/analyst"
	"trpc.group/trpc-go/finsight/internal/report"
)

func newChatCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive session with the analyst team",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runChat(cmd.Context())
		},
	}
}

func runChat(ctx context.Context) error {
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

	sessionID := "chat-" + uuid.NewString()
	rep, err := report.FromStore(st, sessionID)
	if err != nil {
		log.Warnf("session report disabled: %v", err)
	}
	if rep != nil {
		defer func() {
			if err := rep.Close(); err != nil {
				log.Warnf("close session report: %v", err)
				return
			}
			fmt.Printf("Report saved to %s\n", rep.Path())
		}()
	}

	rootName := teamAgent.Info().Name
	fmt.Printf("%s ready. Session: %s\n", rootName, sessionID)
	fmt.Println("Type a question, 'help' for ideas, 'exit' to quit.")
	fmt.Println(strings.Repeat("=", 50))

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("You: ")
		if !scanner.Scan() {
			break
		}
		text := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(text) {
		case "":
			continue
		case "exit", "quit", "q":
			return nil
		case "help":
			printHelp()
			continue
		}

		answer, err := runTurn(ctx, r, sessionID, text, rootName)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			continue
		}
		fmt.Println()
		if rep != nil {
			if err := rep.AddTurn(text, answer); err != nil {
				log.Warnf("record turn: %v", err)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return nil
}

func printHelp() {
	fmt.Println(`Ask the team anything about markets and companies, for example:
  - How did NVDA perform over the last quarter?
  - Compare the valuations of AAPL and MSFT.
  - What does the latest CPI print mean for rate cuts?
  - Is the S&P 500 overbought on the daily chart?
Commands: exit, quit or q to leave, help for this list.`)
}

// runTurn sends one user message through the team and streams the
// response to stdout. It returns the team leader's final answer.
func runTurn(
	ctx context.Context,
	r runner.Runner,
	sessionID string,
	text string,
	rootName string,
) (string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, turnTimeout)
	defer cancel()

	eventChannel, err := r.Run(
		reqCtx,
		userID,
		sessionID,
		model.NewUserMessage(text),
	)
	if err != nil {
		return "", err
	}

	answer := printEvents(eventChannel, rootName)
	if errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
		fmt.Fprintln(os.Stderr, "\n[timeout] error: request timed out")
	}
	return answer, nil
}
