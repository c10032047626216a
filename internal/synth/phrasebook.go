package synth

import (
	"fmt"
	"sort"
	"strings"

	"deskmate/internal/domain"
)

// Phrasebook supplies the reply templates for one persona. Templates may use
// the {answer} and {time} placeholders.
type Phrasebook interface {
	Name() string
	KnowledgeLeads(tone domain.Tone) []string
	MathLeads(tone domain.Tone) []string
	MathFollowUps() []string
	ResearchIntros(tone domain.Tone) []string
	Replies(intent domain.Intent, tone domain.Tone) []string
	GratitudeReplies() []string
	Welcomes() []string
}

// table is a Phrasebook backed by static maps. Tone-keyed entries fall back
// to ToneNeutral; intent-keyed entries fall back to IntentGeneral.
type table struct {
	name           string
	knowledgeLeads map[domain.Tone][]string
	mathLeads      map[domain.Tone][]string
	mathFollowUps  []string
	researchIntros map[domain.Tone][]string
	replies        map[domain.Intent]map[domain.Tone][]string
	gratitude      []string
	welcomes       []string
}

func (t *table) Name() string { return t.name }

func (t *table) KnowledgeLeads(tone domain.Tone) []string { return byTone(t.knowledgeLeads, tone) }

func (t *table) MathLeads(tone domain.Tone) []string { return byTone(t.mathLeads, tone) }

func (t *table) MathFollowUps() []string { return t.mathFollowUps }

func (t *table) ResearchIntros(tone domain.Tone) []string { return byTone(t.researchIntros, tone) }

func (t *table) Replies(intent domain.Intent, tone domain.Tone) []string {
	if r, ok := t.replies[intent]; ok {
		return byTone(r, tone)
	}
	return byTone(t.replies[domain.IntentGeneral], tone)
}

func (t *table) GratitudeReplies() []string { return t.gratitude }

func (t *table) Welcomes() []string { return t.welcomes }

func byTone(m map[domain.Tone][]string, tone domain.Tone) []string {
	if v := m[tone]; len(v) > 0 {
		return v
	}
	return m[domain.ToneNeutral]
}

var phrasebooks = map[string]Phrasebook{
	friendly.name:     friendly,
	concise.name:      concise,
	professional.name: professional,
}

// DefaultPersona is the phrasebook used when none is configured.
const DefaultPersona = "friendly"

// PhrasebookFor returns the phrasebook registered under name.
func PhrasebookFor(name string) (Phrasebook, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = DefaultPersona
	}
	if pb, ok := phrasebooks[name]; ok {
		return pb, nil
	}
	return nil, fmt.Errorf("synth: unknown persona %q (known: %s)", name, strings.Join(Personas(), ", "))
}

// Personas lists the registered phrasebook names, sorted.
func Personas() []string {
	out := make([]string, 0, len(phrasebooks))
	for name := range phrasebooks {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
