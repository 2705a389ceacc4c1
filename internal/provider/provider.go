//
// Tencent is pleased to support the open source community by making finsight available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// finsight is licensed under the Apache License Version 2.0.
//
//

// Package provider resolves model configurations into ready-to-invoke model
// handles. Providers are named constructors held in a registry; adding a
// backend is one Register call, not a new branch in calling code.
package provider

import (
	"errors"
	"fmt"
	"sync"

	"github.com/anthropics/anthropic-sdk-go/option"
	"trpc.group/trpc-go/trpc-agent-go/model"
	"trpc.group/trpc-go/trpc-agent-go/model/anthropic"
	"trpc.group/trpc-go/trpc-agent-go/model/openai"

	"trpc.group/trpc-go/finsight/internal/config"
)

// Recognized provider identifiers.
const (
	OpenAI              = "openai"
	Anthropic           = "anthropic"
	OpenAICompatible    = "openai-compatible"
	AnthropicCompatible = "anthropic-compatible"
)

// ErrUnsupported indicates a provider identifier outside the registry.
var ErrUnsupported = errors.New("unsupported model provider")

// Builder constructs a model handle from one model configuration. Builders
// must forward only the configuration fields that were actually set; absent
// optionals never reach the underlying constructor.
type Builder func(cfg config.ModelConfig) (model.Model, error)

var (
	buildersMu sync.RWMutex              // buildersMu guards builders access.
	builders   = make(map[string]Builder) // builders maps provider names to builders.
)

func init() {
	Register(OpenAI, buildOpenAI)
	Register(Anthropic, buildAnthropic)
	Register(OpenAICompatible, buildOpenAICompatible)
	Register(AnthropicCompatible, buildAnthropicCompatible)
}

// Register registers a builder by provider name.
func Register(name string, b Builder) {
	buildersMu.Lock()
	defer buildersMu.Unlock()
	builders[name] = b
}

// Get returns the builder registered under name.
func Get(name string) (Builder, bool) {
	buildersMu.RLock()
	defer buildersMu.RUnlock()
	b, ok := builders[name]
	return b, ok
}

// New resolves cfg.Provider against the registry and builds the model
// handle. Unknown providers fail with ErrUnsupported.
func New(cfg config.ModelConfig) (model.Model, error) {
	b, ok := Get(cfg.Provider)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, cfg.Provider)
	}
	return b(cfg)
}

// GenerationConfig derives the request-level generation settings for cfg.
// Temperature is always populated; MaxTokens only when the document set it.
func GenerationConfig(cfg config.ModelConfig) model.GenerationConfig {
	temperature := cfg.Temperature
	gen := model.GenerationConfig{
		Stream:      true,
		Temperature: &temperature,
	}
	if cfg.MaxTokens != nil {
		maxTokens := *cfg.MaxTokens
		gen.MaxTokens = &maxTokens
	}
	return gen
}

func buildOpenAI(cfg config.ModelConfig) (model.Model, error) {
	var opts []openai.Option
	if cfg.APIKey != "" {
		opts = append(opts, openai.WithAPIKey(cfg.APIKey))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	return openai.New(cfg.ID, opts...), nil
}

// buildOpenAICompatible serves third-party endpoints that speak the OpenAI
// API. Construction matches the native builder; the identifier stays its own
// registry entry so per-provider routing remains explicit.
func buildOpenAICompatible(cfg config.ModelConfig) (model.Model, error) {
	return buildOpenAI(cfg)
}

func buildAnthropic(cfg config.ModelConfig) (model.Model, error) {
	var opts []anthropic.Option
	if cfg.APIKey != "" {
		opts = append(opts, anthropic.WithAPIKey(cfg.APIKey))
	}
	// The native endpoint does not take a base_url override.
	return anthropic.New(cfg.ID, opts...), nil
}

// buildAnthropicCompatible serves third-party endpoints that speak the
// Anthropic API. The base_url must reach the underlying SDK client directly
// rather than the adapter's top-level field, so it travels through the
// client-option channel.
func buildAnthropicCompatible(cfg config.ModelConfig) (model.Model, error) {
	var opts []anthropic.Option
	if cfg.APIKey != "" {
		opts = append(opts, anthropic.WithAPIKey(cfg.APIKey))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, anthropic.WithAnthropicClientOptions(option.WithBaseURL(cfg.BaseURL)))
	}
	return anthropic.New(cfg.ID, opts...), nil
}
