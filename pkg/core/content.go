package core

// Known intents used for persona coverage.
const (
	IntentInformational = "informational"
	IntentNavigational  = "navigational"
	IntentCommercial    = "commercial"
	IntentTransactional = "transactional"
)

// Intents lists the known search intents.
func Intents() []string {
	return []string{IntentInformational, IntentNavigational, IntentCommercial, IntentTransactional}
}

// ContentUnit is a text fragment tagged with persona and intent.
type ContentUnit struct {
	ID        string   `json:"id"`
	Source    string   `json:"source"`
	Persona   string   `json:"persona"`
	Intent    string   `json:"intent"`
	Title     string   `json:"title"`
	H1        string   `json:"h1"`
	H2        []string `json:"h2"`
	Body      string   `json:"body"`
	Markdown  string   `json:"markdown,omitempty"`
	WordCount int      `json:"word_count"`
	Signature string   `json:"signature"`
}

// FindingKind groups content findings.
type FindingKind string

// Finding kinds.
const (
	FindingThin            FindingKind = "thin"
	FindingCannibalization FindingKind = "cannibalization"
)

// Finding is a heuristic content-quality issue.
type Finding struct {
	ID       string      `json:"id"`
	Kind     FindingKind `json:"kind"`
	Rule     string      `json:"rule"`
	Priority Priority    `json:"priority"`
	Units    []string    `json:"units"`
	Intent   string      `json:"intent,omitempty"`
	Message  string      `json:"message"`
}

// PersonaCoverage summarizes how well a persona is served by content.
type PersonaCoverage struct {
	Persona        string   `json:"persona"`
	Units          int      `json:"units"`
	Words          int      `json:"words"`
	Intents        []string `json:"intents"`
	MissingIntents []string `json:"missing_intents"`
	Findings       int      `json:"findings"`
	Score          int      `json:"score"`
}
