package knowledge

// Fact is a static knowledge entry. Key and Aliases are alternative keyword
// phrases for the same answer; matching is case-insensitive and by keyword
// overlap, not phrase equality.
type Fact struct {
	Key     string   `json:"key" koanf:"key"`
	Aliases []string `json:"aliases,omitempty" koanf:"aliases"`
	Answer  string   `json:"answer" koanf:"answer"`
	Source  string   `json:"source,omitempty" koanf:"source"`
}

// DefaultFacts returns the built-in fact table in insertion order.
func DefaultFacts() []Fact {
	return []Fact{
		{
			Key:     "grass color",
			Aliases: []string{"grass colour", "color grass", "green grass"},
			Answer:  "Grass is green because it contains chlorophyll, a pigment that absorbs sunlight for photosynthesis.",
			Source:  "Basic biology",
		},
		{
			Key:     "sky color",
			Aliases: []string{"sky colour", "sky blue"},
			Answer:  "The sky appears blue during the day due to Rayleigh scattering: shorter blue wavelengths are scattered more by air molecules than longer ones.",
			Source:  "Physics",
		},
		{
			Key:     "capital france",
			Aliases: []string{"france capital"},
			Answer:  "The capital of France is Paris. It sits in north-central France along the Seine and has been the capital since 987 AD.",
			Source:  "Geography",
		},
		{
			Key:     "capital usa",
			Aliases: []string{"capital america", "us capital", "capital united states"},
			Answer:  "The capital of the United States is Washington, D.C. It became the capital in 1790 and lies between Maryland and Virginia.",
			Source:  "Geography",
		},
		{
			Key:    "capital florida",
			Answer: "The capital of Florida is Tallahassee.",
			Source: "Geography",
		},
		{
			Key:    "capital california",
			Answer: "The capital of California is Sacramento.",
			Source: "Geography",
		},
		{
			Key:    "capital texas",
			Answer: "The capital of Texas is Austin.",
			Source: "Geography",
		},
		{
			Key:    "capital new york",
			Answer: "The capital of New York is Albany, not New York City.",
			Source: "Geography",
		},
		{
			Key:     "president usa",
			Aliases: []string{"us president", "american president", "president united states"},
			Answer:  "As of 2025, Donald Trump is the President of the United States, serving as the 47th president since January 20, 2025.",
			Source:  "Current as of 2025",
		},
		{
			Key:     "speed light",
			Aliases: []string{"light speed", "fast light"},
			Answer:  "The speed of light in a vacuum is 299,792,458 meters per second, roughly 300,000 km/s.",
			Source:  "Physics constant",
		},
		{
			Key:     "pi",
			Aliases: []string{"pi value", "value pi"},
			Answer:  "Pi is approximately 3.14159265359. It is the ratio of a circle's circumference to its diameter.",
			Source:  "Mathematics",
		},
		{
			Key:     "earth planet",
			Aliases: []string{"planet earth"},
			Answer:  "Earth is the third planet from the Sun.",
			Source:  "Astronomy",
		},
		{
			Key:     "water boiling point",
			Aliases: []string{"water boil", "boiling point water"},
			Answer:  "Water boils at 100°C (212°F) at sea level.",
			Source:  "Chemistry",
		},
		{
			Key:     "gravity earth",
			Aliases: []string{"earth gravity", "gravitational acceleration"},
			Answer:  "Earth's surface gravity is approximately 9.8 m/s².",
			Source:  "Physics",
		},
		{
			Key:     "artificial intelligence",
			Aliases: []string{"ai", "define ai"},
			Answer:  "Artificial Intelligence (AI) refers to computer systems that perform tasks that normally need human intelligence, such as learning, reasoning, problem-solving and understanding language.",
			Source:  "Computer science",
		},
	}
}
