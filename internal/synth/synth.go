// Package synth turns a classification plus whatever answer material a turn
// gathered into reply text.
package synth

import (
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"deskmate/internal/domain"
)

// Source says where a reply's content came from.
type Source string

const (
	SourceKnowledge Source = "knowledge"
	SourceResearch  Source = "research"
	SourceTemplate  Source = "template"
)

// minResearchConfidence is the confidence a research result needs before it
// is presented as an answer.
const minResearchConfidence = 0.5

// Input is everything Compose needs for one turn. Knowledge is empty when
// the knowledge base had no answer; Research is nil when research did not run.
type Input struct {
	Utterance      string
	Classification domain.Classification
	Knowledge      string
	Research       *domain.ResearchResult
}

// Reply is the composed assistant text.
type Reply struct {
	Text   string
	Source Source
}

// Synthesizer composes replies. It is safe for concurrent use.
type Synthesizer struct {
	book  Phrasebook
	now   func() time.Time
	delay time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

type Option func(*Synthesizer)

// WithPhrasebook selects the persona tables. A nil phrasebook is ignored.
func WithPhrasebook(pb Phrasebook) Option {
	return func(s *Synthesizer) {
		if pb != nil {
			s.book = pb
		}
	}
}

// WithSeed makes template selection reproducible.
func WithSeed(seed uint64) Option {
	return func(s *Synthesizer) {
		s.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithClock sets the time source used for time-of-day wording.
func WithClock(now func() time.Time) Option {
	return func(s *Synthesizer) {
		if now != nil {
			s.now = now
		}
	}
}

// WithTypingDelay sets the pause Stream makes between tokens.
func WithTypingDelay(d time.Duration) Option {
	return func(s *Synthesizer) {
		if d >= 0 {
			s.delay = d
		}
	}
}

func New(opts ...Option) *Synthesizer {
	s := &Synthesizer{
		book: friendly,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		seed := uint64(time.Now().UnixNano())
		s.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
	return s
}

// Persona returns the active phrasebook name.
func (s *Synthesizer) Persona() string {
	return s.book.Name()
}

// Compose builds the reply for a turn. Knowledge wins over research, and
// research below minResearchConfidence is never presented as fact.
func (s *Synthesizer) Compose(in Input) Reply {
	c := in.Classification

	if in.Knowledge != "" {
		if c.ContainsMath {
			text := s.fill(s.pick(s.book.MathLeads(c.Tone)), in.Knowledge)
			if follow := s.pick(s.book.MathFollowUps()); follow != "" {
				text += " " + follow
			}
			return Reply{Text: text, Source: SourceKnowledge}
		}
		return Reply{Text: s.fill(s.pick(s.book.KnowledgeLeads(c.Tone)), in.Knowledge), Source: SourceKnowledge}
	}

	if r := in.Research; r != nil && r.Confidence > minResearchConfidence {
		var b strings.Builder
		b.WriteString(s.pick(s.book.ResearchIntros(c.Tone)))
		b.WriteString(r.Answer)
		b.WriteString(hedge(r.Confidence))
		if r.SourceLabel != "" {
			b.WriteString("\n\nSource: ")
			b.WriteString(r.SourceLabel)
		}
		return Reply{Text: b.String(), Source: SourceResearch}
	}

	if c.Intent == domain.IntentCompliment && c.IsGratitude {
		return Reply{Text: s.fill(s.pick(s.book.GratitudeReplies()), ""), Source: SourceTemplate}
	}
	return Reply{Text: s.fill(s.pick(s.book.Replies(c.Intent, c.Tone)), ""), Source: SourceTemplate}
}

// Welcome returns an opening line for a new conversation.
func (s *Synthesizer) Welcome() string {
	return s.fill(s.pick(s.book.Welcomes()), "")
}

func hedge(confidence float64) string {
	switch {
	case confidence > 0.8:
		return ""
	case confidence > 0.6:
		return " (I'm fairly confident about this information)"
	case confidence > 0.4:
		return " (This information might need verification)"
	default:
		return " (I found limited information about this)"
	}
}

func (s *Synthesizer) pick(options []string) string {
	switch len(options) {
	case 0:
		return ""
	case 1:
		return options[0]
	}
	s.mu.Lock()
	i := s.rng.IntN(len(options))
	s.mu.Unlock()
	return options[i]
}

func (s *Synthesizer) fill(tmpl, answer string) string {
	r := strings.NewReplacer("{answer}", answer, "{time}", timeOfDay(s.now()))
	return strings.TrimSpace(r.Replace(tmpl))
}

func timeOfDay(t time.Time) string {
	switch h := t.Hour(); {
	case h < 12:
		return "morning"
	case h < 17:
		return "afternoon"
	default:
		return "evening"
	}
}
