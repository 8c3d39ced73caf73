package service

import (
	"context"
	"testing"
	"time"

	"github.com/ethograph/ethograph/internal/domain"
	"github.com/ethograph/ethograph/internal/rdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const engineeringTurtle = `
@prefix rdf: <http://www.w3.org/1999/02/22-rdf-syntax-ns#> .
@prefix rdfs: <http://www.w3.org/2000/01/rdf-schema#> .
@prefix meta: <https://ethograph.org/ontology/intermediate#> .
@prefix eng: <urn:eng#> .

eng:Engineer rdf:type meta:Role ;
    rdfs:label "Engineer" .
`

const intermediateTurtle = `
@prefix rdf: <http://www.w3.org/1999/02/22-rdf-syntax-ns#> .
@prefix owl: <http://www.w3.org/2002/07/owl#> .
@prefix meta: <https://ethograph.org/ontology/intermediate#> .

meta:Role rdf:type owl:Class .
meta:Principle rdf:type owl:Class .
`

func TestGraphLoaderLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves from the store first", func(t *testing.T) {
		repo := &fakeOntologyRepo{ontologies: map[string]*domain.OntologyGraph{
			"engineering-ethics": {DomainID: "engineering-ethics", Content: engineeringTurtle, BaseURI: "urn:eng#"},
		}}
		loader := NewGraphLoader(repo, &fakeSource{docs: map[string]string{
			"engineering-ethics": "@this is not turtle",
		}}, time.Minute)

		g := loader.Load(ctx, "engineering-ethics")
		require.NotNil(t, g)
		assert.True(t, g.Has("urn:eng#Engineer", rdf.RDFType, rdf.MetaNamespace+"Role", false))
	})

	t.Run("falls back to the document source", func(t *testing.T) {
		repo := &fakeOntologyRepo{ontologies: map[string]*domain.OntologyGraph{}}
		loader := NewGraphLoader(repo, &fakeSource{docs: map[string]string{
			"engineering-ethics": engineeringTurtle,
		}}, time.Minute)

		g := loader.Load(ctx, "engineering-ethics")
		assert.True(t, g.Has("urn:eng#Engineer", rdf.RDFType, rdf.MetaNamespace+"Role", false))
	})

	t.Run("unresolvable domain yields an empty graph", func(t *testing.T) {
		loader := NewGraphLoader(&fakeOntologyRepo{ontologies: map[string]*domain.OntologyGraph{}}, nil, time.Minute)

		g := loader.Load(ctx, "missing")
		require.NotNil(t, g)
		assert.Equal(t, 0, g.Len())
	})

	t.Run("malformed content yields an empty graph", func(t *testing.T) {
		repo := &fakeOntologyRepo{ontologies: map[string]*domain.OntologyGraph{
			"broken": {DomainID: "broken", Content: "@prefix incomplete"},
		}}
		loader := NewGraphLoader(repo, nil, time.Minute)

		g := loader.Load(ctx, "broken")
		require.NotNil(t, g)
		assert.Equal(t, 0, g.Len())
	})

	t.Run("caches until invalidated", func(t *testing.T) {
		repo := &fakeOntologyRepo{ontologies: map[string]*domain.OntologyGraph{
			"engineering-ethics": {DomainID: "engineering-ethics", Content: engineeringTurtle},
		}}
		loader := NewGraphLoader(repo, nil, time.Minute)

		first := loader.Load(ctx, "engineering-ethics")
		repo.ontologies["engineering-ethics"].Content = intermediateTurtle

		assert.Same(t, first, loader.Load(ctx, "engineering-ethics"))

		loader.Invalidate("engineering-ethics")
		refreshed := loader.Load(ctx, "engineering-ethics")
		assert.NotSame(t, first, refreshed)
	})
}

func TestGraphLoaderLoadWithImports(t *testing.T) {
	ctx := context.Background()

	repo := &fakeOntologyRepo{ontologies: map[string]*domain.OntologyGraph{
		"engineering-ethics": {
			DomainID: "engineering-ethics",
			Content:  engineeringTurtle,
			Imports:  []string{"intermediate"},
		},
		"intermediate": {DomainID: "intermediate", Content: intermediateTurtle},
	}}
	loader := NewGraphLoader(repo, nil, time.Minute)

	g := loader.LoadWithImports(ctx, "engineering-ethics")
	assert.True(t, g.Has("urn:eng#Engineer", rdf.RDFType, rdf.MetaNamespace+"Role", false))
	assert.True(t, g.Has(rdf.MetaNamespace+"Role", rdf.RDFType, rdf.OWLClass, false))
}

func TestGraphLoaderImportCycle(t *testing.T) {
	ctx := context.Background()

	repo := &fakeOntologyRepo{ontologies: map[string]*domain.OntologyGraph{
		"a": {DomainID: "a", Content: engineeringTurtle, Imports: []string{"b"}},
		"b": {DomainID: "b", Content: intermediateTurtle, Imports: []string{"a"}},
	}}
	loader := NewGraphLoader(repo, nil, time.Minute)

	g := loader.LoadWithImports(ctx, "a")
	assert.True(t, g.Has("urn:eng#Engineer", rdf.RDFType, rdf.MetaNamespace+"Role", false))
	assert.True(t, g.Has(rdf.MetaNamespace+"Principle", rdf.RDFType, rdf.OWLClass, false))
}
