//
// Tencent is pleased to support the open source community by making finsight available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// finsight is licensed under the Apache License Version 2.0.
//
//

// Package subtitle downloads and parses video subtitles and renders them
// as timestamped markdown transcripts.
package subtitle

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Format identifies a subtitle file format.
type Format string

const (
	// FormatVTT is WebVTT, what video platforms serve for captions.
	FormatVTT Format = "vtt"
	// FormatSRT is SubRip.
	FormatSRT Format = "srt"
)

// DetectFormat guesses the format from a file name.
func DetectFormat(name string) Format {
	if strings.HasSuffix(strings.ToLower(name), ".srt") {
		return FormatSRT
	}
	return FormatVTT
}

// Cue is one transcript line with its start time.
type Cue struct {
	Start time.Duration
	Text  string
}

// inlineTagPattern strips VTT styling and karaoke tags such as <c> and
// <00:00:01.000>.
var inlineTagPattern = regexp.MustCompile(`<[^>]*>`)

// ParseOptions adjust subtitle decoding.
type ParseOptions struct {
	// Encoding names the source byte encoding when the file carries no BOM.
	// Empty means UTF-8 with a Windows-1252 fallback for invalid input.
	Encoding string
}

// Parse reads a subtitle stream and returns its cues in order. Rolling
// captions, where each cue repeats the previous line before adding a new
// one, are collapsed so every line appears once.
func Parse(r io.Reader, format Format, opts ParseOptions) ([]Cue, error) {
	text, err := decode(r, opts.Encoding)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatSRT:
		return parseBlocks(text, ","), nil
	case FormatVTT:
		return parseBlocks(text, "."), nil
	default:
		return nil, fmt.Errorf("unsupported subtitle format %q", format)
	}
}

// parseBlocks walks the line stream and emits one cue per novel text line.
// The same loop covers VTT and SRT: header lines, cue indexes and cue
// settings are skipped, and only lines after a timestamp line are text.
func parseBlocks(text, millisSep string) []Cue {
	var (
		cues     []Cue
		start    time.Duration
		inCue    bool
		lastLine string
	)
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			inCue = false
		case strings.Contains(line, "-->"):
			ts := strings.TrimSpace(strings.SplitN(line, "-->", 2)[0])
			if d, ok := parseTimestamp(ts, millisSep); ok {
				start = d
				inCue = true
			}
		case !inCue:
			// Headers such as WEBVTT, Kind:, Language: and SRT cue indexes.
			continue
		default:
			clean := strings.TrimSpace(inlineTagPattern.ReplaceAllString(line, ""))
			if clean == "" || clean == lastLine {
				continue
			}
			cues = append(cues, Cue{Start: start, Text: clean})
			lastLine = clean
		}
	}
	return cues
}

// parseTimestamp parses HH:MM:SS.mmm or MM:SS.mmm, with the millisecond
// separator differing between VTT and SRT.
func parseTimestamp(s, millisSep string) (time.Duration, bool) {
	s = strings.ReplaceAll(s, millisSep, ".")
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, false
	}
	var hours int
	if len(parts) == 3 {
		h, err := strconv.Atoi(parts[0])
		if err != nil {
			return 0, false
		}
		hours = h
		parts = parts[1:]
	}
	minutes, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, false
	}
	seconds, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return 0, false
	}
	d := time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds*float64(time.Second))
	return d, true
}

// Markdown renders cues as a transcript with one bold timestamp per line.
func Markdown(cues []Cue, title string) string {
	var b strings.Builder
	if title != "" {
		b.WriteString("# " + title + "\n\n")
	}
	for _, c := range cues {
		b.WriteString(fmt.Sprintf("**[%s]** %s\n", formatTimestamp(c.Start), c.Text))
	}
	return b.String()
}

func formatTimestamp(d time.Duration) string {
	total := int(d / time.Second)
	h := total / 3600
	m := total % 3600 / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// encodings names the decoders accepted as an explicit override.
var encodings = map[string]encoding.Encoding{
	"utf-8":        unicode.UTF8,
	"utf8":         unicode.UTF8,
	"utf-16le":     unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM),
	"utf-16be":     unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM),
	"windows-1252": charmap.Windows1252,
	"iso-8859-1":   charmap.ISO8859_1,
}

// decode converts raw subtitle bytes to UTF-8. A BOM wins over everything;
// otherwise the named encoding is used, and without one the bytes are taken
// as UTF-8 unless invalid, in which case Windows-1252 is assumed.
func decode(r io.Reader, name string) (string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read subtitles: %w", err)
	}

	switch {
	case bytes.HasPrefix(raw, []byte{0xEF, 0xBB, 0xBF}):
		return string(raw[3:]), nil
	case bytes.HasPrefix(raw, []byte{0xFF, 0xFE}):
		return decodeWith(unicode.UTF16(unicode.LittleEndian, unicode.UseBOM), raw)
	case bytes.HasPrefix(raw, []byte{0xFE, 0xFF}):
		return decodeWith(unicode.UTF16(unicode.BigEndian, unicode.UseBOM), raw)
	}

	if name != "" {
		enc, ok := encodings[strings.ToLower(name)]
		if !ok {
			return "", fmt.Errorf("unsupported encoding %q", name)
		}
		return decodeWith(enc, raw)
	}
	if utf8.Valid(raw) {
		return string(raw), nil
	}
	return decodeWith(charmap.Windows1252, raw)
}

func decodeWith(enc encoding.Encoding, raw []byte) (string, error) {
	out, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("decode subtitles: %w", err)
	}
	return string(out), nil
}
