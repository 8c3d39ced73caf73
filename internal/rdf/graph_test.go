package rdf

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTurtle = `
@prefix rdf: <http://www.w3.org/1999/02/22-rdf-syntax-ns#> .
@prefix rdfs: <http://www.w3.org/2000/01/rdf-schema#> .
@prefix meta: <https://ethograph.org/ontology/intermediate#> .
@prefix eng: <urn:eng#> .

eng:Engineer rdf:type meta:Role ;
    rdfs:label "Engineer" ;
    rdfs:comment "A licensed practitioner of engineering." .

eng:StructuralEngineer rdfs:subClassOf eng:Engineer .
`

func TestGraphParseAndMatch(t *testing.T) {
	g := NewGraph("urn:eng#")
	require.NoError(t, g.Parse(sampleTurtle))
	require.Greater(t, g.Len(), 0)

	t.Run("exact membership", func(t *testing.T) {
		assert.True(t, g.Has("urn:eng#Engineer", RDFType, MetaNamespace+"Role", false))
		assert.True(t, g.Has("urn:eng#Engineer", RDFSLabel, "Engineer", true))
		assert.False(t, g.Has("urn:eng#Engineer", RDFType, MetaNamespace+"Principle", false))
	})

	t.Run("literal and URI object access", func(t *testing.T) {
		assert.Equal(t, "Engineer", g.FirstLiteral("urn:eng#Engineer", RDFSLabel))
		assert.Equal(t, "A licensed practitioner of engineering.", g.FirstLiteral("urn:eng#Engineer", RDFSComment))
		assert.Equal(t, "urn:eng#Engineer", g.FirstURI("urn:eng#StructuralEngineer", RDFSSubClassOf))
	})

	t.Run("subject lookup", func(t *testing.T) {
		subjects := g.SubjectsOf(RDFType, MetaNamespace+"Role")
		assert.Contains(t, subjects, "urn:eng#Engineer")
	})

	t.Run("wildcard match", func(t *testing.T) {
		all := g.Match("urn:eng#Engineer", "", "")
		assert.Len(t, all, 3)

		typed := g.Match("", RDFType, "")
		require.Len(t, typed, 1)
		assert.False(t, typed[0].IsLiteral)
		assert.Equal(t, MetaNamespace+"Role", typed[0].Object)
	})

	t.Run("union keeps both graphs' triples", func(t *testing.T) {
		other := NewGraph("urn:med#")
		other.AddStatement("urn:med#Physician", RDFType, MetaNamespace+"Role", false)

		u := NewGraph("")
		u.Union(g)
		u.Union(other)
		assert.True(t, u.Has("urn:eng#Engineer", RDFType, MetaNamespace+"Role", false))
		assert.True(t, u.Has("urn:med#Physician", RDFType, MetaNamespace+"Role", false))
	})
}

func TestParseOrEmpty(t *testing.T) {
	t.Run("malformed content yields empty graph", func(t *testing.T) {
		g := ParseOrEmpty("@prefix broken <<<", "urn:eng#", "engineering-ethics")
		require.NotNil(t, g)
		assert.Equal(t, 0, g.Len())
	})

	t.Run("empty content yields empty graph", func(t *testing.T) {
		g := ParseOrEmpty("", "urn:eng#", "engineering-ethics")
		assert.Equal(t, 0, g.Len())
	})

	t.Run("valid content parses", func(t *testing.T) {
		g := ParseOrEmpty(sampleTurtle, "urn:eng#", "engineering-ethics")
		assert.Greater(t, g.Len(), 0)
	})
}

func TestLabelFromURI(t *testing.T) {
	assert.Equal(t, "Engineer", LabelFromURI("urn:eng#Engineer"))
	assert.Equal(t, "Structural Engineer", LabelFromURI("urn:eng#StructuralEngineer"))
	assert.Equal(t, "protect public", LabelFromURI("https://ethograph.org/ontology/x#protect_public"))
	assert.Equal(t, "hold paramount", LabelFromURI("urn:eng#hold-paramount"))
	assert.Equal(t, "Role", LabelFromURI("https://ethograph.org/ontology/intermediate#Role"))
}

func TestNamespaceHelpers(t *testing.T) {
	assert.Equal(t, "urn:eng#", Namespace("urn:eng#Engineer"))
	assert.Equal(t, MetaNamespace, Namespace(MetaNamespace+"Role"))
	assert.Equal(t, "Engineer", LocalName("urn:eng#Engineer"))
}

func TestCache(t *testing.T) {
	g := NewGraph("urn:eng#")
	g.AddStatement("urn:eng#Engineer", RDFType, MetaNamespace+"Role", false)

	t.Run("get after put", func(t *testing.T) {
		c := NewCache(time.Minute)
		c.Put("engineering-ethics", g)

		got, ok := c.Get("engineering-ethics")
		require.True(t, ok)
		assert.Equal(t, g, got)
	})

	t.Run("entries expire after the TTL", func(t *testing.T) {
		c := NewCache(time.Minute)
		c.Put("engineering-ethics", g)

		base := time.Now()
		c.now = func() time.Time { return base.Add(2 * time.Minute) }

		_, ok := c.Get("engineering-ethics")
		assert.False(t, ok)
	})

	t.Run("invalidate single and all", func(t *testing.T) {
		c := NewCache(time.Minute)
		c.Put("a", g)
		c.Put("b", g)

		c.Invalidate("a")
		_, ok := c.Get("a")
		assert.False(t, ok)
		_, ok = c.Get("b")
		assert.True(t, ok)

		c.InvalidateAll()
		assert.Equal(t, 0, c.Stats().Entries)
	})

	t.Run("sweep removes only expired entries", func(t *testing.T) {
		c := NewCache(time.Minute)
		c.Put("old", g)

		base := time.Now()
		c.now = func() time.Time { return base.Add(2 * time.Minute) }
		c.Put("fresh", g)

		removed := c.Sweep()
		assert.Equal(t, 1, removed)

		stats := c.Stats()
		assert.Equal(t, 1, stats.Entries)
		assert.Contains(t, stats.Keys, "fresh")
	})
}
