// Package knowledge answers utterances from a local table of computed answers,
// static facts matched by keyword overlap and a few canned prefix lookups.
package knowledge

import (
	"strings"

	"deskmate/internal/textmatch"
)

// DefaultThreshold is the minimum keyword overlap a static fact needs to be
// used as an answer.
const DefaultThreshold = 0.7

// Stage names the step of a lookup that produced an answer.
type Stage string

const (
	StageDynamic Stage = "dynamic"
	StageStatic  Stage = "static"
	StagePrefix  Stage = "prefix"
)

// Answer is a successful lookup.
type Answer struct {
	Text   string
	Stage  Stage
	Key    string
	Score  float64
	Source string
}

type indexedFact struct {
	fact Fact
	keys [][]string
}

// Base is the knowledge base. The static table is fixed at construction and
// safe for concurrent reads.
type Base struct {
	dynamic   []Dynamic
	facts     []indexedFact
	threshold float64
	env       Env
}

// Option configures a Base.
type Option func(*Base)

// WithFacts appends extra facts after the built-in ones.
func WithFacts(facts ...Fact) Option {
	return func(b *Base) {
		for _, f := range facts {
			b.addFact(f)
		}
	}
}

// WithThreshold overrides the static match threshold. Values outside (0, 1]
// are ignored.
func WithThreshold(t float64) Option {
	return func(b *Base) {
		if t > 0 && t <= 1 {
			b.threshold = t
		}
	}
}

// WithEnv sets the clock and host view used by dynamic answers.
func WithEnv(env Env) Option {
	return func(b *Base) {
		b.env = env
	}
}

// WithDynamic replaces the computed-answer table.
func WithDynamic(entries ...Dynamic) Option {
	return func(b *Base) {
		b.dynamic = entries
	}
}

// New builds a Base holding DefaultFacts and DefaultDynamic, then applies opts.
func New(opts ...Option) *Base {
	b := &Base{
		dynamic:   DefaultDynamic(),
		threshold: DefaultThreshold,
	}
	for _, f := range DefaultFacts() {
		b.addFact(f)
	}
	for _, opt := range opts {
		opt(b)
	}
	b.env = b.env.withDefaults()
	return b
}

func (b *Base) addFact(f Fact) {
	f.Key = strings.TrimSpace(f.Key)
	f.Answer = strings.TrimSpace(f.Answer)
	if f.Key == "" || f.Answer == "" {
		return
	}
	idx := indexedFact{fact: f}
	for _, k := range append([]string{f.Key}, f.Aliases...) {
		if words := textmatch.Words(k); len(words) > 0 {
			idx.keys = append(idx.keys, words)
		}
	}
	if len(idx.keys) > 0 {
		b.facts = append(b.facts, idx)
	}
}

// Len reports the number of static facts.
func (b *Base) Len() int {
	return len(b.facts)
}

// Lookup returns an answer for utterance, if the base has one.
func (b *Base) Lookup(utterance string) (string, bool) {
	a, ok := b.Find(utterance)
	return a.Text, ok
}

// Find is Lookup with details about which entry answered.
func (b *Base) Find(utterance string) (Answer, bool) {
	text := textmatch.Normalize(utterance)
	if text == "" {
		return Answer{}, false
	}

	for _, d := range b.dynamic {
		if d.Compute == nil || !d.applies(text) {
			continue
		}
		if out, ok := d.Compute(text, b.env); ok {
			return Answer{Text: out, Stage: StageDynamic, Key: d.Name, Score: 1}, true
		}
	}

	if f, score, ok := b.bestFact(text); ok {
		return Answer{Text: f.Answer, Stage: StageStatic, Key: f.Key, Score: score, Source: f.Source}, true
	}

	if out, key, ok := lookupPrefix(text); ok {
		return Answer{Text: out, Stage: StagePrefix, Key: key, Score: 1}, true
	}
	return Answer{}, false
}

// bestFact scores every fact and keeps the highest, preferring more key words
// and then earlier insertion on ties.
func (b *Base) bestFact(text string) (Fact, float64, bool) {
	var (
		best      Fact
		bestScore float64
		bestWords int
		found     bool
	)
	for _, f := range b.facts {
		score, words := scoreFact(text, f.keys)
		if score < b.threshold {
			continue
		}
		if !found || score > bestScore || (score == bestScore && words > bestWords) {
			best, bestScore, bestWords, found = f.fact, score, words, true
		}
	}
	return best, bestScore, found
}

func scoreFact(text string, keys [][]string) (float64, int) {
	var (
		bestScore float64
		bestWords int
	)
	for _, words := range keys {
		matched := 0
		for _, w := range words {
			if textmatch.ContainsWord(text, w) {
				matched++
			}
		}
		score := float64(matched) / float64(len(words))
		if score > bestScore || (score == bestScore && len(words) > bestWords) {
			bestScore, bestWords = score, len(words)
		}
	}
	return bestScore, bestWords
}
