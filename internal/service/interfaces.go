package service

import (
	"context"

	"github.com/ethograph/ethograph/internal/domain"
)

// TripleRepositoryInterface defines the repository interface for triple persistence
type TripleRepositoryInterface interface {
	Create(ctx context.Context, t *domain.Triple) error
	GetByID(ctx context.Context, id string) (*domain.Triple, error)
	FindExact(ctx context.Context, subject, predicate, object string, isLiteral bool, exclude domain.ProvenanceScope) (*domain.Triple, error)
	ListBySubjectOrObject(ctx context.Context, uri string) ([]*domain.Triple, error)
	ListByGuidelineScope(ctx context.Context, worldID string) ([]*domain.Triple, error)
	ListByGuideline(ctx context.Context, guidelineID string) ([]*domain.Triple, error)
	DeleteByIDs(ctx context.Context, ids []string) (int64, error)
	NullifyGuideline(ctx context.Context, ids []string, metadataKey string) (int64, error)
}

// GuidelineRepositoryInterface defines the repository interface for guideline lookups
type GuidelineRepositoryInterface interface {
	GetByID(ctx context.Context, id string) (*domain.Guideline, error)
	Exists(ctx context.Context, id string) (bool, error)
	ListByWorld(ctx context.Context, worldID string) ([]*domain.Guideline, error)
}

// OntologyRepositoryInterface defines the repository interface for ontology persistence
type OntologyRepositoryInterface interface {
	GetByDomain(ctx context.Context, domainID string) (*domain.OntologyGraph, error)
	ListDomains(ctx context.Context) ([]string, error)
}
