package research

import (
	"regexp"
	"strings"

	"deskmate/internal/domain"
	"deskmate/internal/textmatch"
)

var (
	weatherCues = textmatch.NewPhraseSet(
		"weather", "temperature", "temperatures", "rain", "raining", "rainy",
		"snow", "snowing", "sunny", "cloudy", "forecast", "humidity",
	)
	geographyCues = textmatch.NewPhraseSet(
		"capital", "country", "countries", "city", "cities", "population", "located",
	)
	currentEventsCues = textmatch.NewPhraseSet(
		"president", "news", "current", "latest", "today", "recent",
	)
	scienceCues = textmatch.NewPhraseSet(
		"how does", "why does", "what causes", "scientific", "research", "study",
	)
)

// ClassifyDomain picks the research domain for a question. Cues match whole
// words and are checked in order weather, geography, current events, science.
func ClassifyDomain(question string) domain.ResearchDomain {
	text := textmatch.Normalize(question)
	switch {
	case weatherCues.In(text):
		return domain.ResearchWeather
	case geographyCues.In(text):
		return domain.ResearchGeography
	case currentEventsCues.In(text):
		return domain.ResearchCurrentEvents
	case scienceCues.In(text):
		return domain.ResearchScience
	default:
		return domain.ResearchGeneral
	}
}

var termTemplates = []*regexp.Regexp{
	regexp.MustCompile(`what(?:'s| is) (?:the )?(.+?)(?:\?|$)`),
	regexp.MustCompile(`who(?:'s| is) (?:the )?(.+?)(?:\?|$)`),
	regexp.MustCompile(`where(?:'s| is) (?:the )?(.+?)(?:\?|$)`),
	regexp.MustCompile(`how (?:does|do) (?:the )?(.+?)(?:\?|$)`),
	regexp.MustCompile(`why (?:does|do|is) (?:the )?(.+?)(?:\?|$)`),
	regexp.MustCompile(`tell me about (?:the )?(.+?)(?:\?|$)`),
}

var (
	stopWords   = regexp.MustCompile(`\b(?:what|who|where|when|why|how|is|are|the|a|an)\b`)
	punctuation = regexp.MustCompile(`[^\w\s]`)
	blanks      = regexp.MustCompile(`\s+`)
)

// ExtractTerm pulls the lookup subject out of a question, e.g. "volcanoes"
// from "tell me about volcanoes". It returns "" when nothing is left.
func ExtractTerm(question string) string {
	text := textmatch.Normalize(question)
	for _, re := range termTemplates {
		if m := re.FindStringSubmatch(text); m != nil {
			if term := strings.TrimSpace(m[1]); term != "" {
				return term
			}
		}
	}
	text = stopWords.ReplaceAllString(text, " ")
	text = punctuation.ReplaceAllString(text, " ")
	return strings.TrimSpace(blanks.ReplaceAllString(text, " "))
}
