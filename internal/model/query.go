package model

// SearchIntent is the classifier's decision about what a query denotes.
type SearchIntent string

const (
	IntentCompany SearchIntent = "company"
	IntentPerson  SearchIntent = "person"
	IntentGeneral SearchIntent = "general"

	// IntentUnclassified marks an LLM label outside the fixed set. It is never
	// emitted to callers; the classifier routes it to the default heuristic.
	IntentUnclassified SearchIntent = "unclassified"
)

// AllIntents returns the valid wire-level intent labels.
func AllIntents() []SearchIntent {
	return []SearchIntent{IntentCompany, IntentPerson, IntentGeneral}
}

// ClassifiedQuery is the classifier's output, consumed immediately by the
// orchestrator. Not persisted.
type ClassifiedQuery struct {
	EnhancedQuery   string       `json:"enhancedQuery"`
	SearchIntent    SearchIntent `json:"searchIntent"`
	ConfidenceScore float64      `json:"confidenceScore"`

	// CompanyNames is populated when lexical list detection fired; the
	// assembler runs fan-out over these literal names without any LLM call.
	CompanyNames []string `json:"-"`
}
