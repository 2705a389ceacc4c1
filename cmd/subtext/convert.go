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
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var (
	convertOut      string
	convertEncoding string
)

func newConvertCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert FILE",
		Short: "Convert a local VTT or SRT file to markdown",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runConvert(args[0])
		},
	}
	cmd.Flags().StringVarP(&convertOut, "output", "o", "",
		"Output markdown file (default input name with .md)")
	cmd.Flags().StringVar(&convertEncoding, "encoding", "",
		"Source encoding (e.g. windows-1252, utf-16le); default autodetect")
	return cmd
}

func runConvert(path string) error {
	title := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	out := convertOut
	if out == "" {
		out = title + ".md"
	}
	if err := convertFile(path, out, title, convertEncoding); err != nil {
		return err
	}
	fmt.Printf("Transcript written to %s\n", out)
	return nil
}
