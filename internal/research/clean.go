package research

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	minSummaryLen = 50
	maxSummaryLen = 300
	maxSentences  = 2
)

var (
	parenthetical    = regexp.MustCompile(`\([^)]*\)`)
	spaceBeforePunct = regexp.MustCompile(`\s+([.,;:!?])`)
	terminator       = regexp.MustCompile(`[.!?]+["')\]]*`)
)

// cleanSummary strips parentheticals and collapses whitespace. Text longer
// than maxSummaryLen is cut to its first two sentences, then to a word
// boundary if it is still too long.
func cleanSummary(s string) string {
	s = parenthetical.ReplaceAllString(s, "")
	s = strings.TrimSpace(blanks.ReplaceAllString(s, " "))
	s = spaceBeforePunct.ReplaceAllString(s, "$1")
	if len(s) <= maxSummaryLen {
		return s
	}
	return truncateWords(firstSentences(s, maxSentences), maxSummaryLen)
}

// firstSentences returns the first n sentences of s. A sentence ends at a
// terminator followed by whitespace and an upper-case letter, or at the end
// of the text, so "D.C." and "3.5" do not split.
func firstSentences(s string, n int) string {
	count := 0
	for _, loc := range terminator.FindAllStringIndex(s, -1) {
		end := loc[1]
		if !sentenceBreak(s[end:]) {
			continue
		}
		count++
		if count == n {
			return strings.TrimSpace(s[:end])
		}
	}
	return s
}

func sentenceBreak(rest string) bool {
	if rest == "" {
		return true
	}
	trimmed := strings.TrimLeftFunc(rest, unicode.IsSpace)
	if trimmed == "" {
		return true
	}
	if len(trimmed) == len(rest) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(trimmed)
	return unicode.IsUpper(r)
}

func truncateWords(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := strings.LastIndexByte(s[:limit], ' ')
	if cut <= 0 {
		cut = limit
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
	}
	return strings.TrimRight(s[:cut], " ,;:") + "…"
}
