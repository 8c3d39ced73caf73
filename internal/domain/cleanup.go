package domain

// CleanupAction is the per-triple decision produced by the consistency
// cleanup service.
type CleanupAction string

const (
	// CleanupDelete removes a triple that is not backed by any core ontology.
	CleanupDelete CleanupAction = "delete"

	// CleanupNullify keeps a core-backed triple but clears its reference to a
	// parent entity that no longer exists.
	CleanupNullify CleanupAction = "nullify"

	// CleanupKeep leaves the triple untouched.
	CleanupKeep CleanupAction = "keep"
)

// CleanupDecision records the action chosen for one candidate triple.
type CleanupDecision struct {
	TripleID string        `json:"triple_id"`
	Action   CleanupAction `json:"action"`
	Reason   string        `json:"reason,omitempty"`
}

// CleanupSummary is returned to the administrative caller. On a dry run the
// counts describe what would happen and the samples hold a few triple ids per
// action; nothing is mutated.
type CleanupSummary struct {
	DryRun         bool     `json:"dry_run"`
	Examined       int      `json:"examined"`
	ToDeleteCount  int      `json:"to_delete_count"`
	ToNullifyCount int      `json:"to_nullify_count"`
	KeptCount      int      `json:"kept_count"`
	DeleteSamples  []string `json:"delete_samples,omitempty"`
	NullifySamples []string `json:"nullify_samples,omitempty"`
	Error          string   `json:"error,omitempty"`
}
