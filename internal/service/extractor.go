package service

import (
	"context"
	"strings"

	"github.com/ethograph/ethograph/internal/domain"
	"github.com/ethograph/ethograph/internal/rdf"
)

// categoryClassNames maps each category to its canonical class local name.
var categoryClassNames = map[domain.EntityCategory]string{
	domain.CategoryRole:       "Role",
	domain.CategoryPrinciple:  "Principle",
	domain.CategoryObligation: "Obligation",
	domain.CategoryResource:   "Resource",
	domain.CategoryEvent:      "Event",
	domain.CategoryAction:     "Action",
	domain.CategoryCapability: "Capability",
	domain.CategoryState:      "State",
}

// KeywordRule matches classes into a category by terms appearing in the
// class local name, label or comment. Negative keywords veto a match so
// that, say, a dilemma description mentioning "duty" does not become an
// Obligation.
type KeywordRule struct {
	Category domain.EntityCategory
	Keywords []string
	Negative []string
}

// DefaultKeywordRules covers the categories whose canonical typing is
// unreliable across ontology generations.
var DefaultKeywordRules = []KeywordRule{
	{
		Category: domain.CategoryCapability,
		Keywords: []string{"capability", "capacity", "competence", "skill"},
		Negative: []string{"incapacity", "incapable"},
	},
	{
		Category: domain.CategoryObligation,
		Keywords: []string{"obligation", "duty", "responsibility", "requirement"},
		Negative: []string{"dilemma", "conflict", "violation"},
	},
}

// MatchStrategy produces candidate entity URIs for one category. Strategies
// run in order and their results are unioned; they are swappable so matching
// behavior can be tuned without touching extraction mechanics.
type MatchStrategy struct {
	Name  string
	Match func(g *rdf.Graph, classURIs []string, ctx strategyContext) []string
}

type strategyContext struct {
	category     domain.EntityCategory
	className    string
	keywordRules []KeywordRule
}

// Extractor classifies graph nodes into domain categories using layered
// heuristics. Results are a read-time projection; callers memoize through
// the loader's cache.
type Extractor struct {
	loader             *GraphLoader
	intermediateDomain string
	strategies         []MatchStrategy
	keywordRules       []KeywordRule
}

// NewExtractor creates an Extractor using the default strategy order.
func NewExtractor(loader *GraphLoader, intermediateDomain string) *Extractor {
	e := &Extractor{
		loader:             loader,
		intermediateDomain: intermediateDomain,
		keywordRules:       DefaultKeywordRules,
	}
	e.strategies = defaultStrategies()
	return e
}

// SetKeywordRules replaces the keyword rule table.
func (e *Extractor) SetKeywordRules(rules []KeywordRule) {
	e.keywordRules = rules
}

// Extract classifies every node of g. All categories are present in the
// result, empty or not; extraction never fails.
func (e *Extractor) Extract(ctx context.Context, g *rdf.Graph) domain.EntitiesByCategory {
	out := make(domain.EntitiesByCategory, len(domain.AllCategories))
	for _, cat := range domain.AllCategories {
		out[cat] = e.ExtractCategory(ctx, g, cat)
	}
	return out
}

// ExtractCategory returns the entities of one category, resolved with
// label/description/parent fallbacks. Role entities carry their capability
// list.
func (e *Extractor) ExtractCategory(ctx context.Context, g *rdf.Graph, cat domain.EntityCategory) []domain.SemanticEntity {
	if g == nil || !cat.IsValid() {
		return []domain.SemanticEntity{}
	}

	classURIs := e.resolveCategoryURIs(ctx, g, cat)
	sctx := strategyContext{
		category:     cat,
		className:    categoryClassNames[cat],
		keywordRules: e.keywordRules,
	}

	seen := make(map[string]bool)
	var uris []string
	for _, strat := range e.strategies {
		for _, uri := range strat.Match(g, classURIs, sctx) {
			if uri == "" || seen[uri] {
				continue
			}
			seen[uri] = true
			uris = append(uris, uri)
		}
	}

	entities := make([]domain.SemanticEntity, 0, len(uris))
	for _, uri := range uris {
		entities = append(entities, e.resolveEntity(g, uri, cat))
	}
	return entities
}

// resolveCategoryURIs finds the class URIs that denote cat, trying the graph
// itself, then the shared intermediate ontology, then the hardcoded meta
// table. The result is never empty.
func (e *Extractor) resolveCategoryURIs(ctx context.Context, g *rdf.Graph, cat domain.EntityCategory) []string {
	name := categoryClassNames[cat]
	seen := make(map[string]bool)
	var uris []string
	add := func(uri string) {
		if uri != "" && !seen[uri] {
			seen[uri] = true
			uris = append(uris, uri)
		}
	}

	add(findDeclaredClass(g, name))

	if e.loader != nil && e.intermediateDomain != "" {
		inter := e.loader.Load(ctx, e.intermediateDomain)
		add(findDeclaredClass(inter, name))
	}

	add(rdf.MetaNamespace + name)
	return uris
}

// findDeclaredClass looks for an owl:Class whose local name equals name.
func findDeclaredClass(g *rdf.Graph, name string) string {
	if g == nil {
		return ""
	}
	for _, uri := range g.SubjectsOf(rdf.RDFType, rdf.OWLClass) {
		if rdf.LocalName(uri) == name {
			return uri
		}
	}
	return ""
}

func (e *Extractor) resolveEntity(g *rdf.Graph, uri string, cat domain.EntityCategory) domain.SemanticEntity {
	ent := domain.SemanticEntity{
		URI:         uri,
		Label:       entityLabel(g, uri),
		Description: g.FirstLiteral(uri, rdf.RDFSComment),
		ParentClass: g.FirstURI(uri, rdf.RDFSSubClassOf),
		Category:    cat,
	}

	if cat == domain.CategoryRole {
		ent.Capability = e.RoleCapabilities(g, uri)
	}
	return ent
}

// RoleCapabilities resolves the capability entities attached to a role URI.
func (e *Extractor) RoleCapabilities(g *rdf.Graph, roleURI string) []domain.SemanticEntity {
	if g == nil {
		return nil
	}
	var caps []domain.SemanticEntity
	for _, capURI := range g.URIObjectsOf(roleURI, rdf.MetaHasCapability) {
		caps = append(caps, domain.SemanticEntity{
			URI:         capURI,
			Label:       entityLabel(g, capURI),
			Description: g.FirstLiteral(capURI, rdf.RDFSComment),
			ParentClass: g.FirstURI(capURI, rdf.RDFSSubClassOf),
			Category:    domain.CategoryCapability,
		})
	}
	return caps
}

func entityLabel(g *rdf.Graph, uri string) string {
	if label := g.FirstLiteral(uri, rdf.RDFSLabel); label != "" {
		return label
	}
	return rdf.LabelFromURI(uri)
}

func defaultStrategies() []MatchStrategy {
	return []MatchStrategy{
		{Name: "meta-type", Match: matchMetaType},
		{Name: "local-type", Match: matchLocalType},
		{Name: "type-suffix", Match: matchTypeSuffix},
		{Name: "entity-type-dual", Match: matchEntityTypeDual},
		{Name: "subclass-transitive", Match: matchSubclassTransitive},
		{Name: "keyword", Match: matchKeyword},
	}
}

// matchMetaType: direct typing against a resolved canonical category class.
func matchMetaType(g *rdf.Graph, classURIs []string, _ strategyContext) []string {
	var out []string
	for _, classURI := range classURIs {
		out = append(out, g.SubjectsOf(rdf.RDFType, classURI)...)
	}
	return out
}

// matchLocalType: typing against an equivalently-named class in the graph's
// own namespace.
func matchLocalType(g *rdf.Graph, _ []string, sctx strategyContext) []string {
	if g.BaseURI == "" {
		return nil
	}
	return g.SubjectsOf(rdf.RDFType, g.BaseURI+sctx.className)
}

// matchTypeSuffix: typing via the conventional "...Type" synonym class in
// either namespace.
func matchTypeSuffix(g *rdf.Graph, classURIs []string, sctx strategyContext) []string {
	var out []string
	for _, classURI := range classURIs {
		out = append(out, g.SubjectsOf(rdf.RDFType, classURI+"Type")...)
	}
	if g.BaseURI != "" {
		out = append(out, g.SubjectsOf(rdf.RDFType, g.BaseURI+sctx.className+"Type")...)
	}
	return out
}

// matchEntityTypeDual: nodes carrying both the generic EntityType and the
// category type.
func matchEntityTypeDual(g *rdf.Graph, classURIs []string, _ strategyContext) []string {
	generic := make(map[string]bool)
	for _, uri := range g.SubjectsOf(rdf.RDFType, rdf.MetaEntityType) {
		generic[uri] = true
	}
	if g.BaseURI != "" {
		for _, uri := range g.SubjectsOf(rdf.RDFType, g.BaseURI+"EntityType") {
			generic[uri] = true
		}
	}
	if len(generic) == 0 {
		return nil
	}

	var out []string
	for _, classURI := range classURIs {
		for _, uri := range g.SubjectsOf(rdf.RDFType, classURI) {
			if generic[uri] {
				out = append(out, uri)
			}
		}
	}
	return out
}

// matchSubclassTransitive: propagate category membership down subClassOf
// edges. The visited set guards against subClassOf cycles in malformed
// input.
func matchSubclassTransitive(g *rdf.Graph, classURIs []string, sctx strategyContext) []string {
	frontier := matchMetaType(g, classURIs, sctx)
	frontier = append(frontier, matchLocalType(g, classURIs, sctx)...)
	frontier = append(frontier, classURIs...)

	visited := make(map[string]bool)
	var out []string
	for len(frontier) > 0 {
		next := frontier[0]
		frontier = frontier[1:]
		if visited[next] {
			continue
		}
		visited[next] = true

		for _, sub := range g.SubjectsOf(rdf.RDFSSubClassOf, next) {
			if !visited[sub] {
				out = append(out, sub)
				frontier = append(frontier, sub)
			}
		}
	}
	return out
}

// matchKeyword: for categories with unreliable canonical typing, match
// keywords over class local names, labels and comments, honoring the
// negative-keyword exclusion list.
func matchKeyword(g *rdf.Graph, _ []string, sctx strategyContext) []string {
	var rule *KeywordRule
	for i := range sctx.keywordRules {
		if sctx.keywordRules[i].Category == sctx.category {
			rule = &sctx.keywordRules[i]
			break
		}
	}
	if rule == nil {
		return nil
	}

	var out []string
	for _, uri := range g.SubjectsOf(rdf.RDFType, rdf.OWLClass) {
		text := strings.ToLower(strings.Join([]string{
			rdf.LocalName(uri),
			g.FirstLiteral(uri, rdf.RDFSLabel),
			g.FirstLiteral(uri, rdf.RDFSComment),
		}, " "))

		if containsAny(text, rule.Negative) {
			continue
		}
		if containsAny(text, rule.Keywords) {
			out = append(out, uri)
		}
	}
	return out
}

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}
