package rdf

import (
	"log"
	"strings"

	rdf2go "github.com/deiu/rdf2go"
)

// Node is a graph term seen by callers: a URI or a literal value.
type Node struct {
	Value     string
	IsLiteral bool
}

// Statement is a fully resolved (subject, predicate, object) match.
type Statement struct {
	Subject   string `json:"subject"`
	Predicate string `json:"predicate"`
	Object    string `json:"object"`
	IsLiteral bool   `json:"is_literal"`
}

// Graph is an addressable triple collection parsed from ontology content.
type Graph struct {
	BaseURI string
	g       *rdf2go.Graph
}

// NewGraph returns an empty graph with the given base URI.
func NewGraph(baseURI string) *Graph {
	if baseURI == "" {
		baseURI = MetaNamespace
	}
	return &Graph{BaseURI: baseURI, g: rdf2go.NewGraph(baseURI)}
}

// Parse parses Turtle content into the graph. Existing triples are kept.
func (gr *Graph) Parse(content string) error {
	return gr.g.Parse(strings.NewReader(content), "text/turtle")
}

// ParseOrEmpty parses content into a fresh graph. Parse failures degrade to
// an empty graph so dependents never have to handle a parse error; the
// failure is logged with the originating domain id.
func ParseOrEmpty(content, baseURI, domainID string) *Graph {
	gr := NewGraph(baseURI)
	if content == "" {
		return gr
	}
	if err := gr.Parse(content); err != nil {
		log.Printf("rdf: parse failure for ontology %q (returning empty graph): %v", domainID, err)
		return NewGraph(baseURI)
	}
	return gr
}

// Len returns the number of triples in the graph.
func (gr *Graph) Len() int {
	return gr.g.Len()
}

// Union adds every triple of other into this graph.
func (gr *Graph) Union(other *Graph) {
	if other == nil {
		return
	}
	for _, t := range other.g.All(nil, nil, nil) {
		gr.g.Add(t)
	}
}

// Has reports exact membership of (s, p, o) with the object interpreted as a
// literal or a URI reference per isLiteral. Literal objects are compared by
// value so datatype annotations from the parser don't matter.
func (gr *Graph) Has(s, p, o string, isLiteral bool) bool {
	for _, n := range gr.ObjectsOf(s, p) {
		if n.IsLiteral == isLiteral && n.Value == o {
			return true
		}
	}
	return false
}

// ObjectsOf returns all objects of (s, p, *).
func (gr *Graph) ObjectsOf(s, p string) []Node {
	triples := gr.g.All(rdf2go.NewResource(s), rdf2go.NewResource(p), nil)
	nodes := make([]Node, 0, len(triples))
	for _, t := range triples {
		nodes = append(nodes, toNode(t.Object))
	}
	return nodes
}

// URIObjectsOf returns the URI objects of (s, p, *), skipping literals and
// blank nodes.
func (gr *Graph) URIObjectsOf(s, p string) []string {
	var uris []string
	for _, n := range gr.ObjectsOf(s, p) {
		if !n.IsLiteral && n.Value != "" {
			uris = append(uris, n.Value)
		}
	}
	return uris
}

// FirstLiteral returns the first literal object of (s, p, *), else "".
func (gr *Graph) FirstLiteral(s, p string) string {
	for _, n := range gr.ObjectsOf(s, p) {
		if n.IsLiteral {
			return n.Value
		}
	}
	return ""
}

// FirstURI returns the first URI object of (s, p, *), else "".
func (gr *Graph) FirstURI(s, p string) string {
	for _, n := range gr.ObjectsOf(s, p) {
		if !n.IsLiteral && n.Value != "" {
			return n.Value
		}
	}
	return ""
}

// SubjectsOf returns all URI subjects of (*, p, o) where o is a URI.
func (gr *Graph) SubjectsOf(p, o string) []string {
	triples := gr.g.All(nil, rdf2go.NewResource(p), rdf2go.NewResource(o))
	var subjects []string
	for _, t := range triples {
		if r, ok := t.Subject.(*rdf2go.Resource); ok {
			subjects = append(subjects, r.URI)
		}
	}
	return subjects
}

// Match returns every statement matching the pattern; empty strings are
// wildcards. The object pattern, when given, matches URIs and literals alike.
func (gr *Graph) Match(s, p, o string) []Statement {
	var sub, pred rdf2go.Term
	if s != "" {
		sub = rdf2go.NewResource(s)
	}
	if p != "" {
		pred = rdf2go.NewResource(p)
	}

	var out []Statement
	for _, t := range gr.g.All(sub, pred, nil) {
		obj := toNode(t.Object)
		if o != "" && obj.Value != o {
			continue
		}
		subj, ok := t.Subject.(*rdf2go.Resource)
		if !ok {
			continue
		}
		predRes, ok := t.Predicate.(*rdf2go.Resource)
		if !ok {
			continue
		}
		out = append(out, Statement{
			Subject:   subj.URI,
			Predicate: predRes.URI,
			Object:    obj.Value,
			IsLiteral: obj.IsLiteral,
		})
	}
	return out
}

// AddStatement inserts a statement, routing the object by isLiteral.
func (gr *Graph) AddStatement(s, p, o string, isLiteral bool) {
	var obj rdf2go.Term
	if isLiteral {
		obj = rdf2go.NewLiteral(o)
	} else {
		obj = rdf2go.NewResource(o)
	}
	gr.g.AddTriple(rdf2go.NewResource(s), rdf2go.NewResource(p), obj)
}

func toNode(t rdf2go.Term) Node {
	switch v := t.(type) {
	case *rdf2go.Resource:
		return Node{Value: v.URI}
	case *rdf2go.Literal:
		return Node{Value: v.Value, IsLiteral: true}
	default:
		return Node{Value: t.RawValue()}
	}
}
