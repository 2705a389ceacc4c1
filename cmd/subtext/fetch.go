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
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"trpc.group/trpc-go/finsight/internal/subtitle"
)

var (
	fetchLang string
	fetchKeep bool
	fetchOut  string
)

func newFetchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch URL",
		Short: "Download a video's subtitles and convert them to markdown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(cmd.Context(), args[0])
		},
	}
	cmd.Flags().StringVar(&fetchLang, "lang", "en", "Subtitle language code")
	cmd.Flags().BoolVar(&fetchKeep, "keep-vtt", false,
		"Keep the downloaded subtitle file in the current directory")
	cmd.Flags().StringVarP(&fetchOut, "output", "o", "",
		"Output markdown file (default <video id>.md)")
	return cmd
}

func runFetch(ctx context.Context, videoURL string) error {
	id, err := subtitle.VideoID(videoURL)
	if err != nil {
		return err
	}

	opts := subtitle.DownloadOptions{Lang: fetchLang}
	if fetchKeep {
		opts.WorkDir = "."
	}
	vttPath, err := subtitle.Download(ctx, videoURL, opts)
	if err != nil {
		return err
	}
	if !fetchKeep {
		defer os.RemoveAll(filepath.Dir(vttPath))
	}

	out := fetchOut
	if out == "" {
		out = id + ".md"
	}
	if err := convertFile(vttPath, out, id, ""); err != nil {
		return err
	}
	fmt.Printf("Transcript written to %s\n", out)
	if fetchKeep {
		fmt.Printf("Subtitles kept at %s\n", vttPath)
	}
	return nil
}
