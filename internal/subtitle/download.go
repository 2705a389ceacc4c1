//
// Tencent is pleased to support the open source community by making finsight available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// finsight is licensed under the Apache License Version 2.0.
//
//

package subtitle

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
)

// ErrNoSubtitles reports a video the downloader produced no subtitle file
// for, usually because none exist in the requested language.
var ErrNoSubtitles = errors.New("no subtitles produced")

// videoIDPatterns match the YouTube URL shapes carrying an 11 character
// video ID.
var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`[?&]v=([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`youtu\.be/([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`/(?:shorts|embed|live)/([A-Za-z0-9_-]{11})`),
}

// VideoID extracts the video ID from a YouTube URL.
func VideoID(videoURL string) (string, error) {
	for _, p := range videoIDPatterns {
		if m := p.FindStringSubmatch(videoURL); m != nil {
			return m[1], nil
		}
	}
	return "", fmt.Errorf("no video ID in URL %q", videoURL)
}

// DownloadOptions adjust subtitle downloads.
type DownloadOptions struct {
	// Lang is the subtitle language, default en.
	Lang string
	// WorkDir is where the subtitle file lands, default a temp dir.
	WorkDir string
}

// Download fetches the subtitles of a video with yt-dlp and returns the
// path of the produced VTT file. Manual subtitles win over auto-generated
// ones when both exist; yt-dlp handles that ranking itself.
func Download(ctx context.Context, videoURL string, opts DownloadOptions) (string, error) {
	id, err := VideoID(videoURL)
	if err != nil {
		return "", err
	}
	bin, err := exec.LookPath("yt-dlp")
	if err != nil {
		return "", fmt.Errorf("yt-dlp not found in PATH: %w", err)
	}

	lang := opts.Lang
	if lang == "" {
		lang = "en"
	}
	dir := opts.WorkDir
	if dir == "" {
		dir, err = os.MkdirTemp("", "subtext-")
		if err != nil {
			return "", fmt.Errorf("create work dir: %w", err)
		}
	}

	args := []string{
		"--write-subs",
		"--write-auto-subs",
		"--sub-lang", lang,
		"--sub-format", "vtt",
		"--skip-download",
		"-o", filepath.Join(dir, "%(id)s.%(ext)s"),
		videoURL,
	}
	cmd := exec.CommandContext(ctx, bin, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("yt-dlp failed: %w: %s", err, tail(string(out), 400))
	}

	matches, err := filepath.Glob(filepath.Join(dir, id+"*.vtt"))
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("%w for video %s (lang %s)", ErrNoSubtitles, id, lang)
	}
	return matches[0], nil
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
