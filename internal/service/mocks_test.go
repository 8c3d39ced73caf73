package service

import (
	"context"
	"fmt"

	"github.com/ethograph/ethograph/internal/domain"
	"github.com/stretchr/testify/mock"
)

// MockTripleRepository is a mock implementation of TripleRepositoryInterface
type MockTripleRepository struct {
	mock.Mock
}

func (m *MockTripleRepository) Create(ctx context.Context, t *domain.Triple) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTripleRepository) GetByID(ctx context.Context, id string) (*domain.Triple, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Triple), args.Error(1)
}

func (m *MockTripleRepository) FindExact(ctx context.Context, subject, predicate, object string, isLiteral bool, exclude domain.ProvenanceScope) (*domain.Triple, error) {
	args := m.Called(ctx, subject, predicate, object, isLiteral, exclude)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Triple), args.Error(1)
}

func (m *MockTripleRepository) ListBySubjectOrObject(ctx context.Context, uri string) ([]*domain.Triple, error) {
	args := m.Called(ctx, uri)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Triple), args.Error(1)
}

func (m *MockTripleRepository) ListByGuidelineScope(ctx context.Context, worldID string) ([]*domain.Triple, error) {
	args := m.Called(ctx, worldID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Triple), args.Error(1)
}

func (m *MockTripleRepository) ListByGuideline(ctx context.Context, guidelineID string) ([]*domain.Triple, error) {
	args := m.Called(ctx, guidelineID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Triple), args.Error(1)
}

func (m *MockTripleRepository) DeleteByIDs(ctx context.Context, ids []string) (int64, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTripleRepository) NullifyGuideline(ctx context.Context, ids []string, metadataKey string) (int64, error) {
	args := m.Called(ctx, ids, metadataKey)
	return args.Get(0).(int64), args.Error(1)
}

// MockGuidelineRepository is a mock implementation of GuidelineRepositoryInterface
type MockGuidelineRepository struct {
	mock.Mock
}

func (m *MockGuidelineRepository) GetByID(ctx context.Context, id string) (*domain.Guideline, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Guideline), args.Error(1)
}

func (m *MockGuidelineRepository) Exists(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockGuidelineRepository) ListByWorld(ctx context.Context, worldID string) ([]*domain.Guideline, error) {
	args := m.Called(ctx, worldID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Guideline), args.Error(1)
}

// fakeOntologyRepo serves ontology content from an in-memory map.
type fakeOntologyRepo struct {
	ontologies map[string]*domain.OntologyGraph
}

func (f *fakeOntologyRepo) GetByDomain(_ context.Context, domainID string) (*domain.OntologyGraph, error) {
	o, ok := f.ontologies[domainID]
	if !ok {
		return nil, domain.ErrOntologyNotFound
	}
	return o, nil
}

func (f *fakeOntologyRepo) ListDomains(_ context.Context) ([]string, error) {
	domains := make([]string, 0, len(f.ontologies))
	for d := range f.ontologies {
		domains = append(domains, d)
	}
	return domains, nil
}

// fakeSource serves file-backed ontology content from a map.
type fakeSource struct {
	docs map[string]string
}

func (f *fakeSource) Fetch(_ context.Context, domainID string) (string, error) {
	content, ok := f.docs[domainID]
	if !ok {
		return "", fmt.Errorf("no document for %q", domainID)
	}
	return content, nil
}

// fakeTxRunner runs the closure against the given repositories without a
// real transaction, recording how often it was invoked.
type fakeTxRunner struct {
	repos TxRepositories
	calls int
	err   error
}

func (r *fakeTxRunner) WithTx(_ context.Context, fn func(repos TxRepositories) error) error {
	r.calls++
	if r.err != nil {
		return r.err
	}
	return fn(r.repos)
}

type fakeTxRepos struct {
	triples    TripleRepositoryInterface
	guidelines GuidelineRepositoryInterface
}

func (r *fakeTxRepos) Triples() TripleRepositoryInterface       { return r.triples }
func (r *fakeTxRepos) Guidelines() GuidelineRepositoryInterface { return r.guidelines }
