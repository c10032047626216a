package synth

import "deskmate/internal/domain"

var friendly = &table{
	name: "friendly",
	knowledgeLeads: map[domain.Tone][]string{
		domain.ToneNeutral: {"{answer}", "Here's what I know: {answer}", "Good one! {answer}"},
		domain.ToneExcited: {"Great question! {answer}", "Ooh, I know this one! {answer}"},
		domain.TonePolite:  {"Of course! {answer}", "Happy to help. {answer}", "Certainly! {answer}"},
		domain.ToneCurious: {"Interesting you ask. {answer}", "Great question! {answer}"},
		domain.ToneUrgent:  {"{answer}", "Quick answer: {answer}"},
	},
	mathLeads: map[domain.Tone][]string{
		domain.ToneNeutral: {"That's {answer}", "Sure thing: {answer}", "There you go: {answer}"},
		domain.ToneExcited: {"Ooh, I love math! {answer}", "Easy one! {answer}", "Math time! {answer}"},
		domain.TonePolite:  {"Of course! {answer}", "Happy to help: {answer}", "My pleasure: {answer}"},
		domain.ToneUrgent:  {"{answer}", "Result: {answer}"},
	},
	mathFollowUps: []string{
		"Need help with any other calculations?",
		"Anything else you'd like to compute?",
		"Want me to try another one?",
	},
	researchIntros: map[domain.Tone][]string{
		domain.ToneNeutral: {"I looked that up and found: ", "Here's what I found: ", "Let me share what I discovered: "},
		domain.ToneExcited: {"Ooh, interesting! I found this: ", "Great question! Here's what I dug up: "},
		domain.ToneCurious: {"That's a fascinating question! ", "Here's what I discovered: "},
		domain.TonePolite:  {"I'd be happy to help with that. ", "I found some information about that: "},
	},
	replies: map[domain.Intent]map[domain.Tone][]string{
		domain.IntentGreeting: {
			domain.ToneNeutral: {"Hey! What can I help you with?", "Hi there! How's your {time} going?", "Hello! What's on your mind?"},
			domain.ToneExcited: {"Hey there! Great {time}! What's up?", "Hi! You seem energetic today, I love it! How can I help?"},
			domain.TonePolite:  {"Good {time}! How may I help you today?", "Hello! It's nice to hear from you. What can I do for you?"},
		},
		domain.IntentGoodbye: {
			domain.ToneNeutral: {"See you later! Come back anytime.", "Bye! Have a wonderful {time}!", "Take care! I'll be here when you need me."},
		},
		domain.IntentCompliment: {
			domain.ToneNeutral: {"Aw, thank you! That's really nice to hear.", "Thanks! That made my day.", "That's so kind of you!"},
		},
		domain.IntentComplaint: {
			domain.ToneNeutral: {"I'm sorry you're having trouble. Let's see how I can make this better.", "That sounds frustrating. What can I do to help fix it?", "Sorry about that! Let me try to help you out."},
		},
		domain.IntentCommand: {
			domain.ToneNeutral: {"Sure thing! I can open apps like the calculator, file explorer or task manager. Which one?", "You got it! What would you like me to open?"},
		},
		domain.IntentHelp: {
			domain.ToneNeutral: {"I'm here to help! I can do math, tell you the time, open apps or answer questions. What do you need?", "Happy to help! I'm good with calculations and general questions. What's up?"},
		},
		domain.IntentCasual: {
			domain.ToneNeutral: {"I'm doing great, thanks for asking! How are you?", "All good here! What's going on with you?", "I'm well! How's your {time} going?"},
		},
		domain.IntentQuestion: {
			domain.ToneNeutral:    {"I don't know that one. What else can I help with?", "Not sure about that, sorry. Anything else I can do?", "I don't have that info. Try me with something else!"},
			domain.ToneCurious:    {"I love your curiosity! I don't have that answer, but what else can I help with?", "Great question! I don't know that one, but maybe I can help with math or the time?"},
			domain.TonePolite:     {"I'm sorry, but I don't have information about that. Is there something else I can help with?"},
			domain.ToneFrustrated: {"I wish I could help with that, but I don't have that info. What else can I try for you?"},
		},
		domain.IntentCreative: {
			domain.ToneNeutral: {"I love a creative request! I stick to facts, math and quick tasks though. Want to try one of those?"},
		},
		domain.IntentProblem: {
			domain.ToneNeutral: {"Let's work through it together. Can you tell me more about what's going wrong?", "I'd be happy to help you solve that. What exactly is happening?"},
		},
		domain.IntentGeneral: {
			domain.ToneNeutral:  {"I'm here to help! What do you need?", "What can I do for you?", "Tell me more and I'll do my best."},
			domain.ToneConfused: {"I'm not quite sure what you're looking for. Can you tell me more?", "Could you clarify what you need help with?"},
		},
	},
	gratitude: []string{"You're welcome!", "No problem!", "Happy to help! Anything else?", "Anytime!"},
	welcomes: []string{
		"Good {time}! I'm your desk assistant. Ask me a question, a sum, or the time.",
		"Hi there, and good {time}! What can I help you with?",
	},
}

var concise = &table{
	name: "concise",
	knowledgeLeads: map[domain.Tone][]string{
		domain.ToneNeutral: {"{answer}"},
	},
	mathLeads: map[domain.Tone][]string{
		domain.ToneNeutral: {"{answer}"},
	},
	mathFollowUps: []string{"Another?"},
	researchIntros: map[domain.Tone][]string{
		domain.ToneNeutral: {""},
	},
	replies: map[domain.Intent]map[domain.Tone][]string{
		domain.IntentGreeting:   {domain.ToneNeutral: {"Hi.", "Hello."}},
		domain.IntentGoodbye:    {domain.ToneNeutral: {"Bye.", "See you."}},
		domain.IntentCompliment: {domain.ToneNeutral: {"Thanks."}},
		domain.IntentComplaint:  {domain.ToneNeutral: {"Sorry. What went wrong?"}},
		domain.IntentCommand:    {domain.ToneNeutral: {"Which app?"}},
		domain.IntentHelp:       {domain.ToneNeutral: {"Math, time, facts, app launch."}},
		domain.IntentCasual:     {domain.ToneNeutral: {"Good. You?"}},
		domain.IntentQuestion:   {domain.ToneNeutral: {"I don't know.", "No answer for that."}},
		domain.IntentCreative:   {domain.ToneNeutral: {"Not my strength."}},
		domain.IntentProblem:    {domain.ToneNeutral: {"Describe the problem."}},
		domain.IntentGeneral:    {domain.ToneNeutral: {"How can I help?"}},
	},
	gratitude: []string{"You're welcome."},
	welcomes:  []string{"Ready."},
}

var professional = &table{
	name: "professional",
	knowledgeLeads: map[domain.Tone][]string{
		domain.ToneNeutral: {"{answer}", "Here is the information: {answer}"},
		domain.TonePolite:  {"Certainly. {answer}", "Of course. {answer}"},
	},
	mathLeads: map[domain.Tone][]string{
		domain.ToneNeutral: {"The result is: {answer}", "Calculation: {answer}"},
	},
	mathFollowUps: []string{
		"Let me know if you need further calculations.",
		"I can assist with additional computations if required.",
	},
	researchIntros: map[domain.Tone][]string{
		domain.ToneNeutral: {"Based on available sources: ", "According to my research: "},
	},
	replies: map[domain.Intent]map[domain.Tone][]string{
		domain.IntentGreeting: {
			domain.ToneNeutral: {"Good {time}. How may I assist you?", "Hello. How can I be of service?"},
		},
		domain.IntentGoodbye: {
			domain.ToneNeutral: {"Goodbye. Have a productive {time}.", "Thank you for your time. Goodbye."},
		},
		domain.IntentCompliment: {
			domain.ToneNeutral: {"Thank you for the feedback.", "I appreciate that."},
		},
		domain.IntentComplaint: {
			domain.ToneNeutral: {"I apologize for the inconvenience. Please describe the issue so I can assist."},
		},
		domain.IntentCommand: {
			domain.ToneNeutral: {"I can launch applications such as the calculator, file explorer or task manager. Please specify which one."},
		},
		domain.IntentHelp: {
			domain.ToneNeutral: {"I can assist with calculations, factual questions, the current time and launching applications."},
		},
		domain.IntentCasual: {
			domain.ToneNeutral: {"I am functioning normally, thank you. How may I assist you?"},
		},
		domain.IntentQuestion: {
			domain.ToneNeutral: {"I do not have verified information on that topic. I prefer to be accurate rather than guess.", "Unfortunately, I do not have information about that. Is there anything else I can assist with?"},
		},
		domain.IntentCreative: {
			domain.ToneNeutral: {"I focus on factual information and system assistance. I would be glad to help with a calculation or a question instead."},
		},
		domain.IntentProblem: {
			domain.ToneNeutral: {"Please describe the problem in detail and I will do my best to assist."},
		},
		domain.IntentGeneral: {
			domain.ToneNeutral: {"How may I assist you?", "Please let me know what you need."},
		},
	},
	gratitude: []string{"You are welcome.", "My pleasure. Is there anything else I can assist with?"},
	welcomes:  []string{"Good {time}. I am ready to assist with questions, calculations and system tasks."},
}
