// Package textmatch holds the case-insensitive phrase matching shared by the
// analyzer, the knowledge base and the research fallback.
package textmatch

import (
	"regexp"
	"strings"
)

// ArithmeticPattern matches "<number> <operator> <number>" with operator one of + - * /.
var ArithmeticPattern = regexp.MustCompile(`(-?\d+(?:\.\d+)?)\s*([+\-*/])\s*(-?\d+(?:\.\d+)?)`)

var (
	wordPattern  = regexp.MustCompile(`[a-z0-9']+`)
	apostrophes  = strings.NewReplacer("’", "'", "‘", "'")
	spacePattern = regexp.MustCompile(`\s+`)
)

// Normalize lower-cases s, folds typographic apostrophes and collapses whitespace.
func Normalize(s string) string {
	s = apostrophes.Replace(strings.ToLower(s))
	return strings.TrimSpace(spacePattern.ReplaceAllString(s, " "))
}

// Words splits normalized text into word tokens.
func Words(s string) []string {
	return wordPattern.FindAllString(Normalize(s), -1)
}

// FirstWord returns the first word token of s, or "".
func FirstWord(s string) string {
	w := wordPattern.FindString(Normalize(s))
	return w
}

// PhraseSet tests whether any of a fixed list of phrases occurs in a text at
// word boundaries. "hi" matches "hi there" but not "this".
type PhraseSet struct {
	re *regexp.Regexp
}

// NewPhraseSet compiles the phrases into a single matcher.
func NewPhraseSet(phrases ...string) *PhraseSet {
	quoted := make([]string, 0, len(phrases))
	for _, p := range phrases {
		p = Normalize(p)
		if p == "" {
			continue
		}
		quoted = append(quoted, regexp.QuoteMeta(p))
	}
	ps := &PhraseSet{}
	if len(quoted) > 0 {
		ps.re = regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)\b`)
	}
	return ps
}

// In reports whether text contains one of the phrases.
func (p *PhraseSet) In(text string) bool {
	if p == nil || p.re == nil {
		return false
	}
	return p.re.MatchString(Normalize(text))
}

// ContainsWord reports whether word occurs in text at word boundaries.
func ContainsWord(text, word string) bool {
	word = Normalize(word)
	if word == "" {
		return false
	}
	text = Normalize(text)
	for start := 0; ; {
		i := strings.Index(text[start:], word)
		if i < 0 {
			return false
		}
		i += start
		end := i + len(word)
		if (i == 0 || !isWordByte(text[i-1])) && (end == len(text) || !isWordByte(text[end])) {
			return true
		}
		start = i + 1
	}
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9')
}
