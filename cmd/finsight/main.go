//
// Tencent is pleased to support the open source community by making finsight available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// finsight is licensed under the Apache License Version 2.0.
//
//

// Package main implements the finsight command line interface: a team of
// AI financial analysts assembled from a YAML configuration.
package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"trpc.group/trpc-go/trpc-agent-go/log"

	"trpc.group/trpc-go/finsight/internal/config"
)

const (
	appName = "finsight"
	userID  = "user"
)

var (
	configPath  string
	turnTimeout time.Duration
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "finsight",
		Short: "Financial analyst team in your terminal",
		Long: `finsight runs a team of AI financial analysts (fundamental, technical
and macro) coordinated by a team leader. Agents, models, tools and
output options come from config.yaml.

Running finsight without a subcommand starts an interactive chat.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runChat(cmd.Context())
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config.yaml (defaults to $"+config.EnvConfigPath+" or the binary directory)")
	root.PersistentFlags().DurationVar(&turnTimeout, "timeout", 5*time.Minute,
		"Timeout applied to each team request")

	root.AddCommand(newChatCommand())
	root.AddCommand(newAskCommand())
	root.AddCommand(newVersionCommand())
	return root
}

// loadStore loads the configuration from --config or the default lookup
// chain and applies the configured log level.
func loadStore() (*config.Store, error) {
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}
	st, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if level := st.SystemString("logging.level", ""); level != "" {
		log.SetLevel(level)
	}
	return st, nil
}
