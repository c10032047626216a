package domain

// Intent is the coarse conversational purpose of an utterance.
type Intent string

const (
	IntentGreeting   Intent = "greeting"
	IntentGoodbye    Intent = "goodbye"
	IntentQuestion   Intent = "question"
	IntentCommand    Intent = "command"
	IntentCasual     Intent = "casual"
	IntentCreative   Intent = "creative"
	IntentProblem    Intent = "problem"
	IntentCompliment Intent = "compliment"
	IntentComplaint  Intent = "complaint"
	IntentHelp       Intent = "help"
	IntentGeneral    Intent = "general"
)

// Tone is the emotional register detected in an utterance.
type Tone string

const (
	ToneNeutral    Tone = "neutral"
	ToneExcited    Tone = "excited"
	TonePolite     Tone = "polite"
	ToneFrustrated Tone = "frustrated"
	ToneCurious    Tone = "curious"
	ToneConfused   Tone = "confused"
	ToneUrgent     Tone = "urgent"
)

// Topic is the subject area of an utterance.
type Topic string

const (
	TopicMathematics Topic = "mathematics"
	TopicScience     Topic = "science"
	TopicTechnology  Topic = "technology"
	TopicGeneral     Topic = "general"
)

// Classification is the per-utterance analysis result. It is never persisted.
type Classification struct {
	Intent            Intent `json:"intent"`
	Tone              Tone   `json:"tone"`
	Topic             Topic  `json:"topic"`
	IsQuestion        bool   `json:"isQuestion"`
	ContainsMath      bool   `json:"containsMath"`
	IsFollowUp        bool   `json:"isFollowUp"`
	RequiresReasoning bool   `json:"requiresReasoning"`
	IsGratitude       bool   `json:"isGratitude"`
}
