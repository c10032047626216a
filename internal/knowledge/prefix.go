package knowledge

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	colorOfPattern = regexp.MustCompile(`^what(?:'s| is)? (?:the )?colou?r (?:of|is) (?:the |a |an )?([a-z' -]+?)\s*\??$`)
	whoIsPattern   = regexp.MustCompile(`^who(?:'s| is| was) ([a-z' .-]+?)\s*\??$`)
	whereIsPattern = regexp.MustCompile(`^where(?:'s| is) (?:the )?([a-z' .-]+?)\s*\??$`)
)

var colors = map[string]string{
	"sun":    "yellowish white",
	"snow":   "white",
	"blood":  "red",
	"banana": "yellow",
	"ocean":  "blue",
	"sea":    "blue",
	"coal":   "black",
	"orange": "orange",
	"leaf":   "green",
	"leaves": "green",
}

var people = map[string]string{
	"albert einstein": "Albert Einstein was a theoretical physicist best known for the theory of relativity.",
	"einstein":        "Albert Einstein was a theoretical physicist best known for the theory of relativity.",
	"isaac newton":    "Isaac Newton was an English mathematician and physicist who formulated the laws of motion and universal gravitation.",
	"newton":          "Isaac Newton was an English mathematician and physicist who formulated the laws of motion and universal gravitation.",
	"marie curie":     "Marie Curie was a physicist and chemist who pioneered research on radioactivity and won two Nobel Prizes.",
	"ada lovelace":    "Ada Lovelace was a mathematician often regarded as the first computer programmer.",
	"alan turing":     "Alan Turing was a mathematician and computer scientist, a founder of theoretical computer science.",
	"shakespeare":     "William Shakespeare was an English playwright and poet, widely regarded as the greatest writer in the English language.",
}

var places = map[string]string{
	"eiffel tower":        "The Eiffel Tower is in Paris, France.",
	"statue of liberty":   "The Statue of Liberty is on Liberty Island in New York Harbor.",
	"great wall":          "The Great Wall stretches across northern China.",
	"great wall of china": "The Great Wall stretches across northern China.",
	"mount everest":       "Mount Everest is in the Himalayas, on the border between Nepal and China.",
	"big ben":             "Big Ben is in London, at the north end of the Palace of Westminster.",
	"colosseum":           "The Colosseum is in the centre of Rome, Italy.",
	"taj mahal":           "The Taj Mahal is in Agra, India.",
}

// lookupPrefix answers the "color of", "who is" and "where is" shapes from
// small canned tables. text must already be normalized.
func lookupPrefix(text string) (string, string, bool) {
	if m := colorOfPattern.FindStringSubmatch(text); m != nil {
		subject := strings.TrimSpace(m[1])
		if c, ok := colors[subject]; ok {
			return fmt.Sprintf("The color of %s is %s.", subject, c), "color:" + subject, true
		}
		return "", "", false
	}
	if m := whoIsPattern.FindStringSubmatch(text); m != nil {
		subject := strings.TrimSpace(m[1])
		if a, ok := people[subject]; ok {
			return a, "who:" + subject, true
		}
		return "", "", false
	}
	if m := whereIsPattern.FindStringSubmatch(text); m != nil {
		subject := strings.TrimSpace(m[1])
		if a, ok := places[subject]; ok {
			return a, "where:" + subject, true
		}
	}
	return "", "", false
}
