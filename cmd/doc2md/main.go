//
// Tencent is pleased to support the open source community by making finsight available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// finsight is licensed under the Apache License Version 2.0.
//
//

// Package main implements doc2md, a batch document-to-markdown converter.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"

	"trpc.group/trpc-go/finsight/internal/docconv"
)

var outDir string

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "doc2md FILE|PATTERN...",
		Short: "Convert documents to markdown",
		Long: `doc2md converts PDF, DOCX, HTML and text documents to markdown.
Arguments may be file paths or glob patterns (** matches across
directories). Each input produces a sibling <name>.md file, or
<name>.md inside --out when set.

Supported extensions: ` + strings.Join(docconv.SupportedExtensions(), ", "),
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, args []string) error {
			return runConvertAll(args)
		},
	}
	root.Flags().StringVar(&outDir, "out", "", "Directory for converted files")
	return root
}

func runConvertAll(args []string) error {
	files, err := expandArgs(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return errors.New("no input files matched")
	}

	if outDir != "" {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", outDir, err)
		}
	}

	converted := 0
	for _, path := range files {
		out := outputPath(path)
		if sameFile(path, out) {
			fmt.Fprintf(os.Stderr, "%s: skipped, output would overwrite input\n", path)
			continue
		}
		doc, err := docconv.Convert(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			continue
		}
		if err := os.WriteFile(out, []byte(doc.Render()), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}
		fmt.Printf("%s -> %s\n", path, out)
		converted++
	}
	if converted == 0 {
		return errors.New("no files converted")
	}
	return nil
}

// expandArgs resolves glob patterns and removes duplicates while keeping
// argument order.
func expandArgs(args []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, arg := range args {
		if !strings.ContainsAny(arg, "*?[{") {
			add(arg)
			continue
		}
		matches, err := doublestar.FilepathGlob(arg)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", arg, err)
		}
		sort.Strings(matches)
		for _, m := range matches {
			add(m)
		}
	}
	return files, nil
}

func outputPath(inPath string) string {
	base := strings.TrimSuffix(filepath.Base(inPath), filepath.Ext(inPath)) + ".md"
	if outDir != "" {
		return filepath.Join(outDir, base)
	}
	return filepath.Join(filepath.Dir(inPath), base)
}

func sameFile(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return absA == absB
}
