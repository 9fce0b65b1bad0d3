package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering a preset, an optional file, and env vars.
// Order of precedence (low -> high):.
//  1. preset defaults (New(preset))
//  2. file (YAML) if path or PHASE3_CONFIG is set
//  3. env (prefix PHASE3_)
//
// The result is validated before return; an invalid configuration is a
// startup failure, never a per-record one.
func Load(preset, path string) (*Config, error) {
	base, err := New(preset)
	if err != nil {
		return nil, err
	}

	k := koanf.New(".")

	if path == "" {
		path = os.Getenv("PHASE3_CONFIG")
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrLoadConfig, path, err)
		}
	}

	// Environment variables: PHASE3_WORKER_COUNT, PHASE3_DETECTION.WINDOW_MONTHS, ...
	// Keys are lowercased; underscores are preserved to match koanf tags.
	envProvider := env.Provider("PHASE3_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "phase3_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %v", ErrLoadConfig, err)
	}

	// Unmarshal into a copy of the preset defaults.
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
