package domain

// DuplicateCheckResult reports whether a candidate triple already exists in
// the core ontologies or the persisted store, directly or via an equivalent
// concept. Detection is advisory; it carries no uniqueness guarantee.
type DuplicateCheckResult struct {
	IsDuplicate     bool    `json:"is_duplicate"`
	InOntology      bool    `json:"in_ontology"`
	InDatabase      bool    `json:"in_database"`
	EquivalentFound bool    `json:"equivalent_found"`
	Matched         *Triple `json:"matched,omitempty"`
	Explanation     string  `json:"explanation"`
}

// ValueTier classifies how much a candidate predicate/label is worth to
// upstream promotion decisions.
type ValueTier string

const (
	ValueHigh   ValueTier = "high"
	ValueMedium ValueTier = "medium"
	ValueLow    ValueTier = "low"
)

// FilteredCandidate pairs a duplicate candidate with its check result.
type FilteredCandidate struct {
	Candidate TripleCandidate      `json:"candidate"`
	Result    DuplicateCheckResult `json:"result"`
}
