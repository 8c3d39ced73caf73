package domain

import (
	"fmt"
	"time"
)

// OntologyGraph represents a named ontology: its serialized content plus
// metadata. Import edges form a DAG by convention; this is not enforced.
type OntologyGraph struct {
	ID         string
	DomainID   string
	Content    string
	BaseURI    string
	IsBase     bool
	IsEditable bool
	Imports    []string // domain ids of imported ontologies
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// OntologyVersion is an immutable content snapshot of an ontology.
type OntologyVersion struct {
	ID            string
	OntologyID    string
	VersionNumber int64
	Content       string
	CommitMessage string
	CreatedAt     time.Time
}

// NewOntologyGraph creates a new OntologyGraph instance
func NewOntologyGraph(id, domainID, content, baseURI string, isBase, isEditable bool, createdAt time.Time) *OntologyGraph {
	return &OntologyGraph{
		ID:         id,
		DomainID:   domainID,
		Content:    content,
		BaseURI:    baseURI,
		IsBase:     isBase,
		IsEditable: isEditable,
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}
}

// ValidateOntologyGraph validates an OntologyGraph instance
func ValidateOntologyGraph(o *OntologyGraph) error {
	if o == nil {
		return fmt.Errorf("ontology cannot be nil")
	}

	if o.ID == "" {
		return fmt.Errorf("ontology ID is required")
	}

	if o.DomainID == "" {
		return fmt.Errorf("ontology DomainID is required")
	}

	return nil
}

// ValidateOntologyVersion validates an OntologyVersion instance
func ValidateOntologyVersion(v *OntologyVersion) error {
	if v == nil {
		return fmt.Errorf("ontology version cannot be nil")
	}

	if v.OntologyID == "" {
		return fmt.Errorf("ontology version OntologyID is required")
	}

	if v.VersionNumber <= 0 {
		return fmt.Errorf("ontology version VersionNumber must be greater than 0")
	}

	return nil
}
