// Package config loads deskmate settings from an optional YAML file with
// DESKMATE_* environment overrides on top.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"deskmate/internal/knowledge"
	"deskmate/internal/synth"
)

const envPrefix = "DESKMATE_"

type Config struct {
	// StateTable is the DynamoDB transcript table. Required by the Lambda
	// entrypoint only.
	StateTable  string `koanf:"state_table"`
	ParamPrefix string `koanf:"param_prefix"`
	SQLitePath  string `koanf:"sqlite_path"`

	MaxContextItems    int           `koanf:"max_context_items"`
	MaxUtteranceLength int           `koanf:"max_utterance_length"`
	HistoryCap         int           `koanf:"history_cap"`
	MaxTurns           int           `koanf:"max_turns"`
	IdleTTL            time.Duration `koanf:"idle_ttl"`
	SweepInterval      time.Duration `koanf:"sweep_interval"`

	ResearchBaseURL string        `koanf:"research_base_url"`
	ResearchTimeout time.Duration `koanf:"research_timeout"`
	UserAgent       string        `koanf:"user_agent"`

	Persona        string           `koanf:"persona"`
	MatchThreshold float64          `koanf:"match_threshold"`
	TypingDelay    time.Duration    `koanf:"typing_delay"`
	Seed           uint64           `koanf:"seed"`
	Facts          []knowledge.Fact `koanf:"facts"`

	LogLevel string `koanf:"log_level"`
}

func DefaultConfig() *Config {
	return &Config{
		SQLitePath:         "deskmate.db",
		MaxContextItems:    20,
		MaxUtteranceLength: 500,
		HistoryCap:         200,
		MaxTurns:           200,
		IdleTTL:            30 * time.Minute,
		SweepInterval:      time.Minute,
		ResearchTimeout:    3 * time.Second,
		UserAgent:          "deskmate/1.0",
		Persona:            synth.DefaultPersona,
		MatchThreshold:     knowledge.DefaultThreshold,
		TypingDelay:        30 * time.Millisecond,
		LogLevel:           "info",
	}
}

// Load reads path when it exists, then overlays DESKMATE_* variables:
// DESKMATE_MAX_CONTEXT_ITEMS sets max_context_items and so on. An empty
// path skips the file.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("config: read %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("config: access %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("config: env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.MaxContextItems <= 0 {
		errs = append(errs, errors.New("max_context_items must be positive"))
	}
	if c.MaxUtteranceLength <= 0 {
		errs = append(errs, errors.New("max_utterance_length must be positive"))
	}
	if c.HistoryCap <= 0 {
		errs = append(errs, errors.New("history_cap must be positive"))
	}
	if c.MaxTurns < 0 {
		errs = append(errs, errors.New("max_turns must be non-negative"))
	}
	if c.IdleTTL < 0 {
		errs = append(errs, errors.New("idle_ttl must be non-negative"))
	}
	if c.SweepInterval <= 0 {
		errs = append(errs, errors.New("sweep_interval must be positive"))
	}
	if c.ResearchTimeout <= 0 {
		errs = append(errs, errors.New("research_timeout must be positive"))
	}
	if c.TypingDelay < 0 {
		errs = append(errs, errors.New("typing_delay must be non-negative"))
	}
	if c.MatchThreshold <= 0 || c.MatchThreshold > 1 {
		errs = append(errs, fmt.Errorf("match_threshold %v must be in (0, 1]", c.MatchThreshold))
	}
	if _, err := synth.PhrasebookFor(c.Persona); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	for i, f := range c.Facts {
		if strings.TrimSpace(f.Key) == "" || strings.TrimSpace(f.Answer) == "" {
			errs = append(errs, fmt.Errorf("facts[%d]: key and answer are required", i))
		}
	}
	return errors.Join(errs...)
}

// SlogLevel parses LogLevel. Empty means info.
func (c *Config) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	if strings.TrimSpace(c.LogLevel) == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	return lvl, nil
}
