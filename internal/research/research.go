// Package research answers questions the knowledge base could not, using an
// external summary source. It never fails: every error becomes a low
// confidence result.
package research

import (
	"context"
	"errors"
	"hash/fnv"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"deskmate/internal/domain"
)

// DefaultTimeout bounds a single source lookup.
const DefaultTimeout = 3 * time.Second

const sourceLabel = "Wikipedia"

const (
	weatherGuidance = "I'd love to help with weather information! For real-time weather, I recommend checking a weather app or a site like Weather.com."
	newsGuidance    = "For the most current news and events, I recommend checking reliable news sources like BBC, Reuters, or AP News."
	errorAnswer     = "I tried to research that for you, but I'm having trouble accessing information right now. Could you try asking something else?"
)

var notFoundAnswers = []string{
	"I'm still learning how to research that topic. Could you try asking about something else?",
	"That's an interesting question! I don't have reliable information about that right now.",
	"I'd love to help with that, but I couldn't find anything reliable on that topic.",
	"Great question! I'm working on getting better at researching topics like that.",
}

var domainConfidence = map[domain.ResearchDomain]float64{
	domain.ResearchGeography: 0.85,
	domain.ResearchScience:   0.75,
	domain.ResearchGeneral:   0.70,
}

// Summarizer returns a plain-text summary for a term, or "" if it has none.
type Summarizer interface {
	Summarize(ctx context.Context, term string) (string, error)
}

// Researcher runs research lookups. It is safe for concurrent use; identical
// concurrent lookups share one source call.
type Researcher struct {
	source  Summarizer
	timeout time.Duration
	group   singleflight.Group
}

type Option func(*Researcher)

// WithTimeout sets the per-lookup bound. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(r *Researcher) {
		if d > 0 {
			r.timeout = d
		}
	}
}

func New(source Summarizer, opts ...Option) (*Researcher, error) {
	if source == nil {
		return nil, errors.New("research: source must not be nil")
	}
	r := &Researcher{source: source, timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Eligible reports whether a turn should fall back to research: the knowledge
// base had no answer, the utterance is a question, and it is not small talk.
func Eligible(c domain.Classification, knowledgeFound bool) bool {
	if knowledgeFound || !c.IsQuestion {
		return false
	}
	switch c.Intent {
	case domain.IntentGreeting, domain.IntentCasual, domain.IntentCompliment:
		return false
	}
	return true
}

// Research looks question up. Confidence is always within [0, 1].
func (r *Researcher) Research(ctx context.Context, question string) domain.ResearchResult {
	d := ClassifyDomain(question)
	switch d {
	case domain.ResearchWeather:
		return domain.ResearchResult{Answer: weatherGuidance, Confidence: 0.7, SourceLabel: "Weather guidance", Domain: d}
	case domain.ResearchCurrentEvents:
		return domain.ResearchResult{Answer: newsGuidance, Confidence: 0.6, SourceLabel: "News guidance", Domain: d}
	}

	term := ExtractTerm(question)
	if term == "" {
		return notFound(question, d)
	}

	summary, err := r.lookup(ctx, term)
	if err != nil {
		slog.WarnContext(ctx, "research lookup failed", "term", term, "domain", d, "err", err)
		return domain.ResearchResult{Answer: errorAnswer, Confidence: 0.1, SourceLabel: "Research error", Domain: domain.ResearchError}
	}
	answer := cleanSummary(summary)
	if len(answer) <= minSummaryLen {
		return notFound(question, d)
	}
	return domain.ResearchResult{
		Answer:      answer,
		Confidence:  domainConfidence[d],
		SourceLabel: sourceLabel,
		Domain:      d,
	}
}

// lookup calls the source once per distinct term among concurrent callers.
// The shared call runs under its own timeout so one caller cancelling does
// not fail the others; each caller still stops waiting when its ctx ends.
func (r *Researcher) lookup(ctx context.Context, term string) (string, error) {
	key := strings.ToLower(term)
	ch := r.group.DoChan(key, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
		defer cancel()
		return r.source.Summarize(fctx, term)
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		s, _ := res.Val.(string)
		return strings.TrimSpace(s), nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func notFound(question string, d domain.ResearchDomain) domain.ResearchResult {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(question)))
	return domain.ResearchResult{
		Answer:      notFoundAnswers[h.Sum32()%uint32(len(notFoundAnswers))],
		Confidence:  0.3,
		SourceLabel: "Fallback response",
		Domain:      d,
	}
}
