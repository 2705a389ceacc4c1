//
// Tencent is pleased to support the open source community by making finsight available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// finsight is licensed under the Apache License Version 2.0.
//
//

// Package main implements subtext, which turns video subtitles into
// readable markdown transcripts.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"trpc.group/trpc-go/finsight/internal/subtitle"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "subtext",
		Short: "Video subtitles as markdown transcripts",
		Long: `subtext downloads video subtitles with yt-dlp, or converts subtitle
files you already have, into timestamped markdown transcripts.`,
		SilenceUsage: true,
	}
	root.AddCommand(newFetchCommand())
	root.AddCommand(newConvertCommand())
	return root
}

// convertFile parses a subtitle file and writes the markdown transcript.
func convertFile(inPath, outPath, title, encoding string) error {
	f, err := os.Open(inPath)
	if err != nil {
		return err
	}
	defer f.Close()

	cues, err := subtitle.Parse(f, subtitle.DetectFormat(inPath), subtitle.ParseOptions{
		Encoding: encoding,
	})
	if err != nil {
		return fmt.Errorf("parse %s: %w", inPath, err)
	}
	if len(cues) == 0 {
		return fmt.Errorf("no cues found in %s", inPath)
	}

	return os.WriteFile(outPath, []byte(subtitle.Markdown(cues, title)), 0o644)
}
