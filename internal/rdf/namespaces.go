// Package rdf wraps graph parsing, pattern matching and caching for ontology
// content. Callers deal in plain URI/literal strings; rdf2go stays inside.
package rdf

import "strings"

// Well-known vocabulary URIs.
const (
	RDFType               = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"
	RDFSSubClassOf        = "http://www.w3.org/2000/01/rdf-schema#subClassOf"
	RDFSLabel             = "http://www.w3.org/2000/01/rdf-schema#label"
	RDFSComment           = "http://www.w3.org/2000/01/rdf-schema#comment"
	OWLClass              = "http://www.w3.org/2002/07/owl#Class"
	OWLEquivalentClass    = "http://www.w3.org/2002/07/owl#equivalentClass"
	OWLEquivalentProperty = "http://www.w3.org/2002/07/owl#equivalentProperty"
	OWLSameAs             = "http://www.w3.org/2002/07/owl#sameAs"
)

// MetaNamespace is the shared "meta" namespace holding the canonical category
// classes and relations every domain ontology is described against.
const MetaNamespace = "https://ethograph.org/ontology/intermediate#"

// Relations in the meta namespace.
const (
	MetaEntityType    = MetaNamespace + "EntityType"
	MetaHasCapability = MetaNamespace + "hasCapability"
)

// NamespaceRewrites maps namespace prefixes that earlier ontology generations
// used for the same concepts. Pairs are applied in both directions when
// expanding equivalence sets.
var NamespaceRewrites = [][2]string{
	{"urn:old#", "urn:eng#"},
	{"https://ethograph.org/ontology/legacy#", MetaNamespace},
	{"http://ethograph.org/ontology/intermediate#", MetaNamespace},
}

// LocalName returns the fragment or last path segment of a URI.
func LocalName(uri string) string {
	if i := strings.LastIndexAny(uri, "#/"); i >= 0 && i+1 < len(uri) {
		return uri[i+1:]
	}
	if i := strings.LastIndex(uri, ":"); i >= 0 && i+1 < len(uri) {
		return uri[i+1:]
	}
	return uri
}

// Namespace returns the URI up to and including the fragment or last path
// separator. The empty string means no separator was found.
func Namespace(uri string) string {
	if i := strings.LastIndexAny(uri, "#/"); i >= 0 {
		return uri[:i+1]
	}
	if i := strings.LastIndex(uri, ":"); i >= 0 {
		return uri[:i+1]
	}
	return ""
}

// LabelFromURI derives a human-readable label from a URI's local name,
// converting camelCase and underscore/hyphen separators to spaces.
func LabelFromURI(uri string) string {
	name := LocalName(uri)
	if name == "" {
		return uri
	}

	var b strings.Builder
	for i, r := range name {
		switch {
		case r == '_' || r == '-':
			b.WriteRune(' ')
		case i > 0 && r >= 'A' && r <= 'Z' && name[i-1] >= 'a' && name[i-1] <= 'z':
			b.WriteRune(' ')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
