package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"deskmate/internal/integrations/paramstore"
	"deskmate/internal/knowledge"
	"deskmate/internal/synth"
)

// profile is the per-process answer material: persona tables and the
// knowledge base, built once from configuration plus optional parameters.
type profile struct {
	kb    *knowledge.Base
	synth *synth.Synthesizer
}

func (s *ChatService) ensureProfile(ctx context.Context) (*profile, error) {
	s.cacheMu.RLock()
	if s.profile != nil {
		p := s.profile
		s.cacheMu.RUnlock()
		return p, nil
	}
	s.cacheMu.RUnlock()

	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	if s.profile != nil {
		return s.profile, nil
	}

	p, err := s.loadProfile(ctx)
	if err != nil {
		return nil, err
	}
	s.profile = p
	return p, nil
}

func (s *ChatService) loadProfile(ctx context.Context) (*profile, error) {
	persona := s.cfg.Persona
	facts := append([]knowledge.Fact(nil), s.cfg.Facts...)

	if s.params != nil && s.paramPrefix != "" {
		raw, ok, err := s.optionalParam(ctx, s.paramPrefix+"/persona")
		if err != nil {
			return nil, fmt.Errorf("usecase: load persona: %w", err)
		}
		if ok {
			persona = strings.TrimSpace(raw)
		}

		raw, ok, err = s.optionalParam(ctx, s.paramPrefix+"/knowledge/facts")
		if err != nil {
			return nil, fmt.Errorf("usecase: load facts: %w", err)
		}
		if ok {
			extra, err := parseFacts(raw)
			if err != nil {
				return nil, err
			}
			facts = append(facts, extra...)
		}
	}

	pb, err := synth.PhrasebookFor(persona)
	if err != nil {
		return nil, fmt.Errorf("usecase: %w", err)
	}

	kbOpts := []knowledge.Option{knowledge.WithFacts(facts...), knowledge.WithEnv(s.cfg.Env)}
	if s.cfg.MatchThreshold > 0 {
		kbOpts = append(kbOpts, knowledge.WithThreshold(s.cfg.MatchThreshold))
	}
	synthOpts := []synth.Option{
		synth.WithPhrasebook(pb),
		synth.WithClock(s.now),
		synth.WithTypingDelay(s.cfg.TypingDelay),
	}
	if s.cfg.Seed != 0 {
		synthOpts = append(synthOpts, synth.WithSeed(s.cfg.Seed))
	}

	kb := knowledge.New(kbOpts...)
	slog.InfoContext(ctx, "profile loaded", "persona", pb.Name(), "facts", kb.Len())
	return &profile{
		kb:    kb,
		synth: synth.New(synthOpts...),
	}, nil
}

// optionalParam reads name, reporting ok=false when it does not exist.
func (s *ChatService) optionalParam(ctx context.Context, name string) (string, bool, error) {
	v, err := s.params.GetParameter(ctx, name)
	if errors.Is(err, paramstore.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

// parseFacts decodes a JSON array of facts, rejecting unknown fields and
// entries without a key or answer.
func parseFacts(raw string) ([]knowledge.Fact, error) {
	var out []knowledge.Fact
	dec := json.NewDecoder(bytes.NewBufferString(strings.TrimSpace(raw)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("usecase: decode facts: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			return nil, errors.New("usecase: decode facts: multiple JSON values")
		}
		return nil, fmt.Errorf("usecase: decode facts trailing data: %w", err)
	}
	for i, f := range out {
		if strings.TrimSpace(f.Key) == "" || strings.TrimSpace(f.Answer) == "" {
			return nil, fmt.Errorf("usecase: fact %d: key and answer are required", i)
		}
	}
	return out, nil
}
