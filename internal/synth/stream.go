package synth

import (
	"context"
	"iter"
	"regexp"
	"time"
)

var tokenPattern = regexp.MustCompile(`\s*\S+\s*`)

// Tokens splits text into word tokens that keep their surrounding
// whitespace, so joining them gives back text exactly.
func Tokens(text string) []string {
	tokens := tokenPattern.FindAllString(text, -1)
	if len(tokens) == 0 && text != "" {
		return []string{text}
	}
	return tokens
}

// Stream yields the tokens of text with the configured delay between them.
// It stops early when the consumer breaks or ctx is done.
func (s *Synthesizer) Stream(ctx context.Context, text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for i, tok := range Tokens(text) {
			if i > 0 && s.delay > 0 {
				t := time.NewTimer(s.delay)
				select {
				case <-ctx.Done():
					t.Stop()
					return
				case <-t.C:
				}
			}
			if ctx.Err() != nil {
				return
			}
			if !yield(tok) {
				return
			}
		}
	}
}
