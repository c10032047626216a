package analyzer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"deskmate/internal/domain"
)

func turns(n int) []domain.Turn {
	out := make([]domain.Turn, 0, n)
	for i := 0; i < n; i++ {
		role := domain.RoleUser
		if i%2 == 1 {
			role = domain.RoleAssistant
		}
		out = append(out, domain.Turn{Role: role, Text: "turn", Timestamp: time.Unix(int64(i), 0)})
	}
	return out
}

func TestAnalyze_Intent(t *testing.T) {
	cases := []struct {
		in   string
		want domain.Intent
	}{
		{"hello", domain.IntentGreeting},
		{"Hi, what's up?", domain.IntentGreeting},
		{"hey there?", domain.IntentGreeting},
		{"Good morning!", domain.IntentGreeting},
		{"bye for now", domain.IntentGoodbye},
		{"see you tomorrow", domain.IntentGoodbye},
		{"great work, well done", domain.IntentCompliment},
		{"thanks", domain.IntentCompliment},
		{"this is broken", domain.IntentComplaint},
		{"open the calculator", domain.IntentCommand},
		{"can you help me", domain.IntentHelp},
		{"how are you", domain.IntentCasual},
		{"What is 15 + 27?", domain.IntentQuestion},
		{"where is the eiffel tower", domain.IntentQuestion},
		{"tell me about volcanoes", domain.IntentQuestion},
		{"asdkjasd random question nobody knows", domain.IntentQuestion},
		{"write me a poem", domain.IntentCreative},
		{"I have a problem with my printer", domain.IntentProblem},
		{"capital of france", domain.IntentGeneral},
		{"", domain.IntentGeneral},
		{"zzzz", domain.IntentGeneral},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			require.Equal(t, tc.want, Analyze(tc.in, nil).Intent)
		})
	}
}

func TestAnalyze_GreetingWinsRegardlessOfQuestionMark(t *testing.T) {
	for _, in := range []string{"hello?", "Hey, how do magnets work?", "hi, what is 2 + 2?", "Good evening?"} {
		c := Analyze(in, nil)
		require.Equal(t, domain.IntentGreeting, c.Intent, in)
		require.True(t, c.IsQuestion, in)
	}
}

func TestAnalyze_GreetingWordsNeedWordBoundaries(t *testing.T) {
	c := Analyze("which one is thicker?", nil)
	require.NotEqual(t, domain.IntentGreeting, c.Intent)
	require.Equal(t, domain.IntentQuestion, c.Intent)
}

func TestAnalyze_Tone(t *testing.T) {
	cases := []struct {
		in   string
		want domain.Tone
	}{
		{"this is awesome!", domain.ToneExcited},
		{"could you please check", domain.TonePolite},
		{"ugh this is annoying", domain.ToneFrustrated},
		{"I need it asap", domain.ToneUrgent},
		{"why is the sky blue?", domain.ToneCurious},
		{"I'm confused", domain.ToneConfused},
		{"capital of france", domain.ToneNeutral},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			require.Equal(t, tc.want, Analyze(tc.in, nil).Tone)
		})
	}
}

func TestAnalyze_Topic(t *testing.T) {
	require.Equal(t, domain.TopicScience, Analyze("explain the physics of flight", nil).Topic)
	require.Equal(t, domain.TopicTechnology, Analyze("my computer is slow", nil).Topic)
	require.Equal(t, domain.TopicMathematics, Analyze("12 * 4", nil).Topic)
	require.Equal(t, domain.TopicGeneral, Analyze("tell me a story", nil).Topic)
}

func TestAnalyze_ContainsMath(t *testing.T) {
	for _, in := range []string{"15 + 27", "what is 3.5*2", "100 / 4", "10 - 3", "calculate my taxes"} {
		require.True(t, Analyze(in, nil).ContainsMath, in)
	}
	for _, in := range []string{"what is math", "I have 3 cats", "calculation"} {
		require.False(t, Analyze(in, nil).ContainsMath, in)
	}
}

func TestAnalyze_FollowUpRequiresPriorTurns(t *testing.T) {
	require.False(t, Analyze("and what about Spain?", nil).IsFollowUp)
	require.False(t, Analyze("and what about Spain?", turns(1)).IsFollowUp)
	require.True(t, Analyze("and what about Spain?", turns(2)).IsFollowUp)
	require.False(t, Analyze("Spain?", turns(4)).IsFollowUp)
}

func TestAnalyze_RequiresReasoning(t *testing.T) {
	require.True(t, Analyze("explain recursion", nil).RequiresReasoning)
	require.True(t, Analyze("why do cats purr", nil).RequiresReasoning)
	require.False(t, Analyze("capital of france", nil).RequiresReasoning)
}

func TestAnalyze_IsIdempotent(t *testing.T) {
	history := turns(3)
	for _, in := range []string{"hello", "What is 15 + 27?", "and also, why?", "open notepad please"} {
		first := Analyze(in, history)
		second := Analyze(in, history)
		require.Equal(t, first, second, in)
	}
	require.Len(t, history, 3)
}
