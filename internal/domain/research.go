package domain

// ResearchDomain is the subject class a research question was routed by.
type ResearchDomain string

const (
	ResearchGeography     ResearchDomain = "geography"
	ResearchWeather       ResearchDomain = "weather"
	ResearchCurrentEvents ResearchDomain = "current_events"
	ResearchScience       ResearchDomain = "science"
	ResearchGeneral       ResearchDomain = "general"
	ResearchError         ResearchDomain = "error"
)

// ResearchResult is the outcome of a single external lookup.
// Confidence is advisory and always within [0,1].
type ResearchResult struct {
	Answer      string         `json:"answer"`
	Confidence  float64        `json:"confidence"`
	SourceLabel string         `json:"sourceLabel"`
	Domain      ResearchDomain `json:"domain"`
}
