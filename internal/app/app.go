// Package app assembles the chat service from configuration. The Lambda
// and the CLI differ only in the transcript and parameter store they pass.
package app

import (
	"fmt"
	"io"
	"log/slog"

	"deskmate/internal/config"
	"deskmate/internal/integrations/wikipedia"
	"deskmate/internal/research"
	"deskmate/internal/session"
	"deskmate/internal/usecase"
)

type Runtime struct {
	Chat     *usecase.ChatService
	Sessions *session.Store
}

// Build wires the research fallback, the session store and the chat service.
// params may be nil.
func Build(cfg *config.Config, transcript usecase.Transcript, params usecase.ParamGetter, wikiOpts ...wikipedia.Option) (*Runtime, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("app: invalid config: %w", err)
	}

	wiki := wikipedia.NewClient(append([]wikipedia.Option{
		wikipedia.WithBaseURL(cfg.ResearchBaseURL),
		wikipedia.WithUserAgent(cfg.UserAgent),
	}, wikiOpts...)...)
	researcher, err := research.New(wiki, research.WithTimeout(cfg.ResearchTimeout))
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}

	sessions := session.NewStore(
		session.WithMaxTurns(cfg.MaxTurns),
		session.WithIdleTTL(cfg.IdleTTL),
		session.WithSweepInterval(cfg.SweepInterval),
	)

	deps := usecase.Deps{
		Params:     params,
		Transcript: transcript,
		Sessions:   sessions,
		Researcher: researcher,
	}
	chat, err := usecase.NewChatService(deps, usecase.Config{
		ParamPrefix:     cfg.ParamPrefix,
		MaxContextItems: cfg.MaxContextItems,
		MaxUtteranceLen: cfg.MaxUtteranceLength,
		HistoryCap:      cfg.HistoryCap,
		Persona:         cfg.Persona,
		Facts:           cfg.Facts,
		MatchThreshold:  cfg.MatchThreshold,
		TypingDelay:     cfg.TypingDelay,
		Seed:            cfg.Seed,
	})
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	return &Runtime{Chat: chat, Sessions: sessions}, nil
}

// NewLogger returns a JSON or text slog logger at the configured level.
func NewLogger(w io.Writer, cfg *config.Config, json bool) *slog.Logger {
	lvl, err := cfg.SlogLevel()
	if err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if json {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
