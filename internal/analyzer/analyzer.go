// Package analyzer classifies an utterance into intent, tone, topic and a few
// structural flags. Classification is rule based and deterministic: the same
// utterance and history always produce the same result.
package analyzer

import (
	"strings"

	"deskmate/internal/domain"
	"deskmate/internal/textmatch"
)

var (
	greetingPhrases = textmatch.NewPhraseSet(
		"hello", "hi", "hey", "howdy", "greetings",
		"good morning", "good afternoon", "good evening",
	)
	goodbyePhrases = textmatch.NewPhraseSet(
		"bye", "goodbye", "see you", "see ya", "talk later", "farewell", "good night",
	)
	complimentPhrases = textmatch.NewPhraseSet(
		"good job", "well done", "excellent", "perfect", "great work",
		"amazing", "awesome", "you rock", "you're great", "nice work",
	)
	gratitudePhrases = textmatch.NewPhraseSet(
		"thanks", "thank you", "thx", "appreciate it", "much appreciated",
	)
	complaintPhrases = textmatch.NewPhraseSet(
		"terrible", "awful", "bad", "wrong", "broken", "doesn't work",
		"does not work", "not working", "frustrated", "useless",
	)
	commandVerbs = textmatch.NewPhraseSet("open", "launch", "start", "run")
	helpPhrases  = textmatch.NewPhraseSet(
		"help", "what can you do", "assist me", "how do you work",
	)
	casualPhrases = textmatch.NewPhraseSet(
		"how are you", "what's up", "whats up", "how's it going",
		"how is it going", "how have you been",
	)
	inquiryCues = textmatch.NewPhraseSet(
		"question", "tell me", "do you know", "wondering", "i wonder",
	)
	creativePhrases = textmatch.NewPhraseSet(
		"write", "create", "generate", "compose", "draw", "imagine", "poem", "story",
	)
	problemPhrases = textmatch.NewPhraseSet(
		"problem", "issue", "solve", "fix", "error", "bug", "stuck",
	)

	excitedPhrases = textmatch.NewPhraseSet(
		"awesome", "amazing", "love", "great", "fantastic", "wow", "yay",
	)
	politePhrases = textmatch.NewPhraseSet(
		"please", "thank you", "thanks", "sorry", "excuse me", "kindly",
	)
	frustratedPhrases = textmatch.NewPhraseSet(
		"frustrated", "frustrating", "annoying", "annoyed", "stupid", "ugh", "hate",
	)
	urgentPhrases = textmatch.NewPhraseSet(
		"urgent", "quickly", "asap", "immediately", "right now", "hurry",
	)
	curiosityPhrases = textmatch.NewPhraseSet(
		"what", "how", "why", "curious", "wonder", "interesting",
	)
	confusedPhrases = textmatch.NewPhraseSet(
		"confused", "confusing", "don't understand", "do not understand",
		"makes no sense", "what do you mean", "huh",
	)

	sciencePhrases = textmatch.NewPhraseSet(
		"science", "scientific", "physics", "chemistry", "biology", "atom",
		"molecule", "gravity", "planet", "energy", "photosynthesis",
	)
	technologyPhrases = textmatch.NewPhraseSet(
		"computer", "software", "technology", "programming", "program",
		"code", "internet", "app", "ai", "artificial intelligence",
	)

	continuationPhrases = textmatch.NewPhraseSet(
		"also", "and", "what about", "how about", "can you also",
	)
	reasoningPhrases = textmatch.NewPhraseSet(
		"why", "how", "explain", "because", "reason", "analyze", "analyse",
	)
)

var interrogatives = map[string]bool{
	"what": true, "how": true, "why": true, "when": true, "where": true, "who": true,
}

// Analyze classifies utterance given the prior turns of its conversation.
// history is read only; it is consulted for follow-up detection.
func Analyze(utterance string, history []domain.Turn) domain.Classification {
	text := textmatch.Normalize(utterance)
	question := isQuestion(text)

	return domain.Classification{
		Intent:            intentOf(text, question),
		Tone:              toneOf(text),
		Topic:             topicOf(text),
		IsQuestion:        question,
		ContainsMath:      containsMath(text),
		IsFollowUp:        continuationPhrases.In(text) && len(history) > 1,
		RequiresReasoning: reasoningPhrases.In(text),
		IsGratitude:       gratitudePhrases.In(text),
	}
}

// intentOf applies the intent rules in priority order. Social register is
// tested before the literal question shape.
func intentOf(text string, question bool) domain.Intent {
	switch {
	case text == "":
		return domain.IntentGeneral
	case greetingPhrases.In(text):
		return domain.IntentGreeting
	case goodbyePhrases.In(text):
		return domain.IntentGoodbye
	case complimentPhrases.In(text), gratitudePhrases.In(text):
		return domain.IntentCompliment
	case complaintPhrases.In(text):
		return domain.IntentComplaint
	case commandVerbs.In(text):
		return domain.IntentCommand
	case helpPhrases.In(text):
		return domain.IntentHelp
	case casualPhrases.In(text):
		return domain.IntentCasual
	case question:
		return domain.IntentQuestion
	case creativePhrases.In(text):
		return domain.IntentCreative
	case problemPhrases.In(text):
		return domain.IntentProblem
	default:
		return domain.IntentGeneral
	}
}

func toneOf(text string) domain.Tone {
	switch {
	case strings.Contains(text, "!") || excitedPhrases.In(text):
		return domain.ToneExcited
	case politePhrases.In(text):
		return domain.TonePolite
	case frustratedPhrases.In(text):
		return domain.ToneFrustrated
	case urgentPhrases.In(text):
		return domain.ToneUrgent
	case strings.Contains(text, "?") && curiosityPhrases.In(text):
		return domain.ToneCurious
	case confusedPhrases.In(text):
		return domain.ToneConfused
	default:
		return domain.ToneNeutral
	}
}

func topicOf(text string) domain.Topic {
	switch {
	case sciencePhrases.In(text):
		return domain.TopicScience
	case technologyPhrases.In(text):
		return domain.TopicTechnology
	case textmatch.ArithmeticPattern.MatchString(text):
		return domain.TopicMathematics
	default:
		return domain.TopicGeneral
	}
}

func isQuestion(text string) bool {
	if strings.HasSuffix(text, "?") {
		return true
	}
	first := strings.TrimSuffix(textmatch.FirstWord(text), "'s")
	if interrogatives[first] {
		return true
	}
	return inquiryCues.In(text)
}

func containsMath(text string) bool {
	return textmatch.ArithmeticPattern.MatchString(text) || textmatch.ContainsWord(text, "calculate")
}
