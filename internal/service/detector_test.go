package service

import (
	"context"
	"testing"
	"time"

	"github.com/ethograph/ethograph/internal/domain"
	"github.com/ethograph/ethograph/internal/rdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const coreTurtle = `
@prefix rdf: <http://www.w3.org/1999/02/22-rdf-syntax-ns#> .
@prefix rdfs: <http://www.w3.org/2000/01/rdf-schema#> .
@prefix owl: <http://www.w3.org/2002/07/owl#> .
@prefix meta: <https://ethograph.org/ontology/intermediate#> .
@prefix eng: <urn:eng#> .

eng:Engineer rdf:type meta:Role ;
    rdfs:label "Engineer" .

eng:Robot owl:equivalentClass eng:Automaton .
`

func newTestDetector(t *testing.T, triples TripleRepositoryInterface) *Detector {
	t.Helper()
	repo := &fakeOntologyRepo{ontologies: map[string]*domain.OntologyGraph{
		"core": {DomainID: "core", Content: coreTurtle},
	}}
	loader := NewGraphLoader(repo, nil, time.Minute)
	return NewDetector(context.Background(), loader, triples, []string{"core"})
}

func TestCheckDuplicateExactOntologyHit(t *testing.T) {
	triples := new(MockTripleRepository)
	d := newTestDetector(t, triples)

	res, err := d.CheckDuplicate(context.Background(), domain.TripleCandidate{
		Subject:   "urn:eng#Engineer",
		Predicate: rdf.RDFType,
		Object:    rdf.MetaNamespace + "Role",
	}, domain.ProvenanceScope{})
	require.NoError(t, err)

	assert.True(t, res.IsDuplicate)
	assert.True(t, res.InOntology)
	assert.False(t, res.InDatabase)
	assert.False(t, res.EquivalentFound)
	assert.NotEmpty(t, res.Explanation)
	triples.AssertNotCalled(t, "FindExact")
}

func TestCheckDuplicateEquivalentNamespaceHit(t *testing.T) {
	triples := new(MockTripleRepository)
	triples.On("FindExact", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, domain.ErrTripleNotFound)
	d := newTestDetector(t, triples)

	// urn:old# is a retired namespace for urn:eng#; the statement exists in
	// the core graph under the current spelling only.
	res, err := d.CheckDuplicate(context.Background(), domain.TripleCandidate{
		Subject:   "urn:old#Engineer",
		Predicate: rdf.RDFType,
		Object:    rdf.MetaNamespace + "Role",
	}, domain.ProvenanceScope{})
	require.NoError(t, err)

	assert.True(t, res.IsDuplicate)
	assert.True(t, res.InOntology)
	assert.True(t, res.EquivalentFound)
}

func TestCheckDuplicateDatabaseHit(t *testing.T) {
	stored := domain.NewTriple("t-1", "urn:eng#Engineer", "urn:eng#memberOf", "urn:eng#Board", false, time.Now())

	triples := new(MockTripleRepository)
	triples.On("FindExact", mock.Anything, "urn:eng#Engineer", "urn:eng#memberOf", "urn:eng#Board", false, mock.Anything).
		Return(stored, nil)
	d := newTestDetector(t, triples)

	res, err := d.CheckDuplicate(context.Background(), domain.TripleCandidate{
		Subject:   "urn:eng#Engineer",
		Predicate: "urn:eng#memberOf",
		Object:    "urn:eng#Board",
	}, domain.ProvenanceScope{})
	require.NoError(t, err)

	assert.True(t, res.IsDuplicate)
	assert.True(t, res.InDatabase)
	require.NotNil(t, res.Matched)
	assert.Equal(t, "t-1", res.Matched.ID)
}

func TestCheckDuplicateNoMatch(t *testing.T) {
	triples := new(MockTripleRepository)
	triples.On("FindExact", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, domain.ErrTripleNotFound)
	d := newTestDetector(t, triples)

	res, err := d.CheckDuplicate(context.Background(), domain.TripleCandidate{
		Subject:   "urn:eng#Contractor",
		Predicate: rdf.RDFType,
		Object:    rdf.MetaNamespace + "Role",
	}, domain.ProvenanceScope{})
	require.NoError(t, err)

	assert.False(t, res.IsDuplicate)
}

func TestCheckDuplicateRepeatableOnUnchangedStore(t *testing.T) {
	triples := new(MockTripleRepository)
	triples.On("FindExact", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, domain.ErrTripleNotFound)
	d := newTestDetector(t, triples)

	cases := []struct {
		name      string
		candidate domain.TripleCandidate
	}{
		{
			name: "equivalence hit",
			candidate: domain.TripleCandidate{
				Subject:   "urn:old#Engineer",
				Predicate: rdf.RDFType,
				Object:    rdf.MetaNamespace + "Role",
			},
		},
		{
			name: "miss",
			candidate: domain.TripleCandidate{
				Subject:   "urn:eng#Contractor",
				Predicate: rdf.RDFType,
				Object:    rdf.MetaNamespace + "Role",
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			first, err := d.CheckDuplicate(context.Background(), tc.candidate, domain.ProvenanceScope{})
			require.NoError(t, err)
			second, err := d.CheckDuplicate(context.Background(), tc.candidate, domain.ProvenanceScope{})
			require.NoError(t, err)
			assert.Equal(t, first, second)
		})
	}
}

func TestEquivalentConcepts(t *testing.T) {
	d := newTestDetector(t, new(MockTripleRepository))

	t.Run("reflexive", func(t *testing.T) {
		assert.Contains(t, d.EquivalentConcepts("urn:eng#Unknown"), "urn:eng#Unknown")
	})

	t.Run("declared equivalence both directions", func(t *testing.T) {
		assert.Contains(t, d.EquivalentConcepts("urn:eng#Robot"), "urn:eng#Automaton")
		assert.Contains(t, d.EquivalentConcepts("urn:eng#Automaton"), "urn:eng#Robot")
	})

	t.Run("namespace rewrites both directions", func(t *testing.T) {
		assert.Contains(t, d.EquivalentConcepts("urn:eng#Engineer"), "urn:old#Engineer")
		assert.Contains(t, d.EquivalentConcepts("urn:old#Engineer"), "urn:eng#Engineer")
	})
}

func TestClassifyValue(t *testing.T) {
	d := newTestDetector(t, new(MockTripleRepository))

	cases := []struct {
		name      string
		candidate domain.TripleCandidate
		want      domain.ValueTier
	}{
		{
			name: "high for obligation language",
			candidate: domain.TripleCandidate{
				Subject:   "urn:eng#Engineer",
				Predicate: "urn:eng#hasDuty",
				Object:    "urn:eng#ReportHazards",
			},
			want: domain.ValueHigh,
		},
		{
			name: "medium for role language",
			candidate: domain.TripleCandidate{
				Subject:     "urn:eng#Engineer",
				Predicate:   "urn:eng#worksAt",
				Object:      "urn:eng#Plant",
				ObjectLabel: "plant resource",
			},
			want: domain.ValueMedium,
		},
		{
			name: "low by default",
			candidate: domain.TripleCandidate{
				Subject:   "urn:eng#X",
				Predicate: "urn:eng#relatesTo",
				Object:    "urn:eng#Y",
			},
			want: domain.ValueLow,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, d.ClassifyValue(tc.candidate))
		})
	}
}

func TestFilterDuplicates(t *testing.T) {
	triples := new(MockTripleRepository)
	triples.On("FindExact", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, domain.ErrTripleNotFound)
	d := newTestDetector(t, triples)

	duplicate := domain.TripleCandidate{
		Subject:   "urn:eng#Engineer",
		Predicate: rdf.RDFType,
		Object:    rdf.MetaNamespace + "Role",
	}
	fresh := domain.TripleCandidate{
		Subject:   "urn:eng#Contractor",
		Predicate: rdf.RDFType,
		Object:    rdf.MetaNamespace + "Role",
	}
	invalid := domain.TripleCandidate{Subject: "urn:eng#Orphan"}

	t.Run("partitions by check result", func(t *testing.T) {
		novel, duplicates, err := d.FilterDuplicates(context.Background(),
			[]domain.TripleCandidate{duplicate, fresh, invalid}, domain.ProvenanceScope{})
		require.NoError(t, err)

		require.Len(t, novel, 1)
		assert.Equal(t, fresh.Subject, novel[0].Subject)

		require.Len(t, duplicates, 2)
		assert.True(t, duplicates[0].Result.IsDuplicate)
		assert.False(t, duplicates[1].Result.IsDuplicate)
		assert.Contains(t, duplicates[1].Result.Explanation, "rejected")
	})

	t.Run("identical novel candidates both pass", func(t *testing.T) {
		novel, duplicates, err := d.FilterDuplicates(context.Background(),
			[]domain.TripleCandidate{fresh, fresh}, domain.ProvenanceScope{})
		require.NoError(t, err)
		assert.Len(t, novel, 2)
		assert.Empty(t, duplicates)
	})
}
