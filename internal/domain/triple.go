package domain

import (
	"fmt"
	"time"
)

// Triple represents a single RDF-style statement. The object is either a URI
// reference or a literal value, governed by IsLiteral. Uniqueness is advisory:
// the store accepts duplicates and duplicate detection is a separate concern.
type Triple struct {
	ID        string
	Subject   string
	Predicate string

	// Exactly one of ObjectURI / ObjectLiteral is set, per IsLiteral.
	ObjectURI     string
	ObjectLiteral string
	IsLiteral     bool

	SubjectLabel   string
	PredicateLabel string
	ObjectLabel    string

	Metadata map[string]any

	// Provenance scope. Loosely enforced: none is required and they are not
	// mutually exclusive.
	WorldID     string
	ScenarioID  string
	CharacterID string
	GuidelineID string

	TemporalStart *time.Time
	TemporalEnd   *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Object returns whichever object field is active.
func (t *Triple) Object() string {
	if t.IsLiteral {
		return t.ObjectLiteral
	}
	return t.ObjectURI
}

// NewTriple creates a Triple with the object routed by isLiteral.
func NewTriple(id, subject, predicate, object string, isLiteral bool, createdAt time.Time) *Triple {
	t := &Triple{
		ID:        id,
		Subject:   subject,
		Predicate: predicate,
		IsLiteral: isLiteral,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	if isLiteral {
		t.ObjectLiteral = object
	} else {
		t.ObjectURI = object
	}
	return t
}

// ValidateTriple validates a Triple instance
func ValidateTriple(t *Triple) error {
	if t == nil {
		return fmt.Errorf("triple cannot be nil")
	}

	if t.Subject == "" {
		return fmt.Errorf("triple Subject is required")
	}

	if t.Predicate == "" {
		return fmt.Errorf("triple Predicate is required")
	}

	if t.IsLiteral {
		if t.ObjectLiteral == "" {
			return ErrLiteralURIMismatch
		}
		if t.ObjectURI != "" {
			return ErrLiteralURIMismatch
		}
	} else {
		if t.ObjectURI == "" {
			return ErrLiteralURIMismatch
		}
		if t.ObjectLiteral != "" {
			return ErrLiteralURIMismatch
		}
	}

	return nil
}

// TripleCandidate is a triple proposed for insertion by an upstream
// collaborator, before persistence and before duplicate filtering.
type TripleCandidate struct {
	Subject   string
	Predicate string
	Object    string
	IsLiteral bool

	SubjectLabel   string
	PredicateLabel string
	ObjectLabel    string

	Metadata map[string]any
}

// ValidateCandidate validates a TripleCandidate
func ValidateCandidate(c *TripleCandidate) error {
	if c == nil {
		return fmt.Errorf("candidate cannot be nil")
	}
	if c.Subject == "" {
		return fmt.Errorf("candidate Subject is required")
	}
	if c.Predicate == "" {
		return fmt.Errorf("candidate Predicate is required")
	}
	if c.Object == "" {
		return fmt.Errorf("candidate Object is required")
	}
	return nil
}

// ProvenanceScope identifies the owning entity a triple is attributed to,
// used to exclude a triple's own scope during duplicate checks.
type ProvenanceScope struct {
	WorldID     string
	GuidelineID string
}

// IsZero reports whether no scope is set.
func (s ProvenanceScope) IsZero() bool {
	return s.WorldID == "" && s.GuidelineID == ""
}
