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
	"os"
	"strings"

	"trpc.group/trpc-go/trpc-agent-go/event"
	"trpc.group/trpc-go/trpc-agent-go/model"
)

// printEvents streams one turn's events to stdout: transfer notices,
// tool-call names, member output prefixed with the member name, and the
// team leader's answer as it arrives. It returns the text of the
// leader's last response so callers can record it.
func printEvents(eventChannel <-chan *event.Event, rootName string) string {
	printedDelta := make(map[string]bool)
	printedToolCalls := make(map[string]bool)
	printedToolResults := make(map[string]bool)
	toolNameByID := make(map[string]string)
	printedPrefix := make(map[string]bool)

	rootText := make(map[string]*strings.Builder)
	lastRootID := ""
	atLineStart := true

	appendRootText := func(responseID, text string) {
		b := rootText[responseID]
		if b == nil {
			b = &strings.Builder{}
			rootText[responseID] = b
		}
		b.WriteString(text)
		lastRootID = responseID
	}

	for ev := range eventChannel {
		if ev == nil {
			continue
		}
		if ev.Error != nil {
			fmt.Fprintf(os.Stderr, "\n[%s] error: %s\n", ev.Author, ev.Error.Message)
			continue
		}
		if ev.Response == nil || len(ev.Response.Choices) == 0 {
			continue
		}

		if ev.Object == model.ObjectTypeTransfer {
			fmt.Printf("\n[%s] %s\n", ev.Author, firstContent(ev))
			atLineStart = true
			continue
		}

		responseID := ev.Response.ID
		if ev.Response.IsToolCallResponse() && !printedToolCalls[responseID] {
			printedToolCalls[responseID] = true
			recordToolIDs(toolNameByID, ev)
			printToolCalls(ev)
			atLineStart = true
		}

		if ev.IsToolResultResponse() {
			printToolResults(toolNameByID, printedToolResults, ev)
			atLineStart = true
			continue
		}

		if ev.Response.IsPartial {
			text := firstDelta(ev)
			if text != "" {
				if ev.Author != rootName && !printedPrefix[responseID] {
					if !atLineStart {
						fmt.Println()
					}
					fmt.Printf("[%s] ", ev.Author)
					printedPrefix[responseID] = true
				}
				printedDelta[responseID] = true
				fmt.Print(text)
				if ev.Author == rootName {
					appendRootText(responseID, text)
				}
				atLineStart = strings.HasSuffix(text, "\n")
			}
			continue
		}

		if printedDelta[responseID] {
			if ev.IsFinalResponse() {
				delete(printedDelta, responseID)
				fmt.Println()
				atLineStart = true
			}
			continue
		}

		text := firstContent(ev)
		if text != "" {
			if ev.Author != rootName && !printedPrefix[responseID] {
				if !atLineStart {
					fmt.Println()
				}
				fmt.Printf("[%s] ", ev.Author)
				printedPrefix[responseID] = true
			}
			fmt.Print(text)
			if ev.Author == rootName {
				appendRootText(responseID, text)
			}
			atLineStart = strings.HasSuffix(text, "\n")
		}

		if ev.IsFinalResponse() {
			fmt.Println()
			atLineStart = true
		}
	}

	if b := rootText[lastRootID]; b != nil {
		return strings.TrimSpace(b.String())
	}
	return ""
}

func printToolCalls(ev *event.Event) {
	choice := ev.Response.Choices[0]
	toolCalls := choice.Message.ToolCalls
	if len(toolCalls) == 0 {
		toolCalls = choice.Delta.ToolCalls
	}
	if len(toolCalls) == 0 {
		return
	}

	fmt.Print("\n[tools] ")
	for i, tc := range toolCalls {
		if i > 0 {
			fmt.Print(", ")
		}
		fmt.Print(tc.Function.Name)
	}
	fmt.Println()
}

func recordToolIDs(toolNameByID map[string]string, ev *event.Event) {
	choice := ev.Response.Choices[0]
	toolCalls := choice.Message.ToolCalls
	if len(toolCalls) == 0 {
		toolCalls = choice.Delta.ToolCalls
	}
	for _, tc := range toolCalls {
		if tc.ID == "" {
			continue
		}
		toolNameByID[tc.ID] = tc.Function.Name
	}
}

func printToolResults(
	toolNameByID map[string]string,
	printed map[string]bool,
	ev *event.Event,
) {
	for _, choice := range ev.Response.Choices {
		toolID := choice.Message.ToolID
		if toolID == "" {
			toolID = choice.Delta.ToolID
		}
		if toolID == "" || printed[toolID] {
			continue
		}
		printed[toolID] = true

		name := toolNameByID[toolID]
		if name == "" {
			name = toolID
		}
		fmt.Printf("[tool.done] %s\n", name)
	}
}

func firstDelta(ev *event.Event) string {
	if len(ev.Response.Choices) == 0 {
		return ""
	}
	return ev.Response.Choices[0].Delta.Content
}

func firstContent(ev *event.Event) string {
	if len(ev.Response.Choices) == 0 {
		return ""
	}
	return ev.Response.Choices[0].Message.Content
}
