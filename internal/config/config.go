//
// Tencent is pleased to support the open source community by making finsight available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// finsight is licensed under the Apache License Version 2.0.
//
//

// Package config loads the finsight configuration document and derives the
// typed settings the rest of the program consumes.
//
// The document is a YAML file with four recognized top-level namespaces:
// models, agents, system and analysis. Values are addressed by dot-separated
// paths; a missing path always resolves to the caller-supplied default.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath overrides the default configuration file location.
const EnvConfigPath = "FINSIGHT_CONFIG"

const defaultFileName = "config.yaml"

// Store holds one parsed configuration document. It is constructed once per
// process and passed to everything that needs configuration; Reload replaces
// the whole document atomically, so values already derived from the old
// snapshot stay consistent with it.
type Store struct {
	mu   sync.RWMutex
	path string
	data map[string]any
}

// Load reads and parses the configuration file at path. An empty path falls
// back to DefaultPath. A missing file is an error wrapping os.ErrNotExist.
func Load(path string) (*Store, error) {
	if path == "" {
		path = DefaultPath()
	}
	s := &Store{path: path}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// DefaultPath returns the path used when Load is given an empty one:
// $FINSIGHT_CONFIG when set, otherwise config.yaml beside the executable
// when such a file exists, otherwise config.yaml in the working directory.
func DefaultPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	if exe, err := os.Executable(); err == nil {
		p := filepath.Join(filepath.Dir(exe), defaultFileName)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return defaultFileName
}

// Path returns the file path this store was loaded from.
func (s *Store) Path() string {
	return s.path
}

// Reload re-reads the underlying file and swaps in the freshly parsed
// document. Concurrent readers observe either the old or the new document,
// never a mix of both.
func (s *Store) Reload() error {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("configuration file %q: %w", s.path, err)
	}
	data := make(map[string]any)
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("parse configuration %q: %w", s.path, err)
	}
	s.mu.Lock()
	s.data = data
	s.mu.Unlock()
	return nil
}

// Get walks the document along the dot-separated path and returns the value
// found there. The moment a segment is absent, or the current node is not a
// mapping, it returns def instead. Get never fails.
func (s *Store) Get(path string, def any) any {
	s.mu.RLock()
	var node any = s.data
	s.mu.RUnlock()
	for _, seg := range strings.Split(path, ".") {
		m, ok := node.(map[string]any)
		if !ok {
			return def
		}
		node, ok = m[seg]
		if !ok {
			return def
		}
	}
	return node
}

// StringSlice returns the string items of the list at path, or def when the
// path does not hold a list. Non-string items are dropped.
func (s *Store) StringSlice(path string, def []string) []string {
	raw, ok := s.Get(path, nil).([]any)
	if !ok {
		return def
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if sv, ok := v.(string); ok {
			out = append(out, sv)
		}
	}
	return out
}

// System reads system.<key> with a default.
func (s *Store) System(key string, def any) any {
	return s.Get("system."+key, def)
}

// SystemString reads system.<key> as a string.
func (s *Store) SystemString(key, def string) string {
	return str(s.System(key, nil), def)
}

// SystemBool reads system.<key> as a bool.
func (s *Store) SystemBool(key string, def bool) bool {
	return boolean(s.System(key, nil), def)
}

// Analysis reads analysis.<key> with a default.
func (s *Store) Analysis(key string, def any) any {
	return s.Get("analysis."+key, def)
}

// ErrMissingAPIKey indicates that neither the environment nor the
// configuration file provides a credential for a provider.
var ErrMissingAPIKey = errors.New("missing api key")

// apiKeyEnvVars maps providers to their environment variable. The
// openai-compatible provider deliberately shares OPENAI_API_KEY.
var apiKeyEnvVars = map[string]string{
	"openai":            "OPENAI_API_KEY",
	"anthropic":         "ANTHROPIC_API_KEY",
	"openai-compatible": "OPENAI_API_KEY",
}

// APIKey resolves a provider credential, preferring the provider's
// environment variable and falling back to system.<provider>_api_key in the
// document. The returned error names both locations when neither is set.
func (s *Store) APIKey(provider string) (string, error) {
	envVar, ok := apiKeyEnvVars[provider]
	if !ok {
		envVar = strings.ToUpper(provider) + "_API_KEY"
	}
	if key := os.Getenv(envVar); key != "" {
		return key, nil
	}
	cfgPath := "system." + provider + "_api_key"
	if key := str(s.Get(cfgPath, nil), ""); key != "" {
		return key, nil
	}
	return "", fmt.Errorf("%w for provider %q: set %s or configure %s",
		ErrMissingAPIKey, provider, envVar, cfgPath)
}

func str(v any, def string) string {
	if sv, ok := v.(string); ok {
		return sv
	}
	return def
}

func boolean(v any, def bool) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	return def
}

func num(v any, def float64) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return def
}

func optInt(v any) *int {
	switch n := v.(type) {
	case int:
		return &n
	case int64:
		i := int(n)
		return &i
	case float64:
		i := int(n)
		return &i
	}
	return nil
}
