package protocol

import (
	"context"
	"errors"

	"github.com/ethograph/ethograph/internal/domain"
	"github.com/ethograph/ethograph/internal/rdf"
	"github.com/ethograph/ethograph/internal/service"
)

// queryModule exposes read-only retrieval over ontology graphs and the
// triple store.
type queryModule struct {
	loader        *service.GraphLoader
	extractor     *service.Extractor
	guidelines    service.GuidelineRepositoryInterface
	triples       service.TripleRepositoryInterface
	ontologies    service.OntologyRepositoryInterface
	cache         *rdf.Cache
	defaultDomain string
}

func newQueryModule(deps Deps) (Module, error) {
	if deps.Loader == nil || deps.Extractor == nil {
		return nil, errors.New("query module requires a graph loader and extractor")
	}
	return &queryModule{
		loader:        deps.Loader,
		extractor:     deps.Extractor,
		guidelines:    deps.Guidelines,
		triples:       deps.Triples,
		ontologies:    deps.Ontologies,
		cache:         deps.ServerCache,
		defaultDomain: deps.DefaultDomain,
	}, nil
}

func (m *queryModule) Name() string { return "query" }

func (m *queryModule) Description() string {
	return "Entity, guideline and triple-pattern retrieval over the knowledge base"
}

func (m *queryModule) Tools() []ToolSpec {
	return []ToolSpec{
		{Name: "get_entities", Description: "Extract semantic entities from a domain ontology, optionally one category"},
		{Name: "get_guidelines", Description: "List guidelines, scoped to a world or to one guideline's derived triples"},
		{Name: "execute_sparql", Description: "Match a single triple pattern against a domain ontology graph"},
		{Name: "list_domains", Description: "List the domain ids of all stored ontologies"},
	}
}

func (m *queryModule) Call(ctx context.Context, tool string, args map[string]any) (any, error) {
	switch tool {
	case "get_entities":
		return m.getEntities(ctx, args)
	case "get_guidelines":
		return m.getGuidelines(ctx, args)
	case "execute_sparql":
		return m.executeSPARQL(ctx, args)
	case "list_domains":
		return m.listDomains(ctx)
	default:
		return nil, unknownTool(m.Name(), tool)
	}
}

func (m *queryModule) domainOrDefault(domainID string) string {
	if domainID != "" {
		return domainID
	}
	return m.defaultDomain
}

func (m *queryModule) getEntities(ctx context.Context, args map[string]any) (any, error) {
	var in struct {
		Domain   string `json:"domain"`
		Category string `json:"category"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return nil, err
	}

	g := unionGraph(ctx, m.loader, m.cache, m.domainOrDefault(in.Domain))
	if in.Category == "" {
		return map[string]any{"entities": m.extractor.Extract(ctx, g)}, nil
	}

	cat := domain.EntityCategory(in.Category)
	if !cat.IsValid() {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "unknown entity category: "+in.Category)
	}
	return map[string]any{"entities": m.extractor.ExtractCategory(ctx, g, cat)}, nil
}

func (m *queryModule) getGuidelines(ctx context.Context, args map[string]any) (any, error) {
	var in struct {
		WorldID     string `json:"world_id"`
		GuidelineID string `json:"guideline_id"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return nil, err
	}

	// With a guideline id the caller wants that guideline's derived triples.
	if in.GuidelineID != "" {
		triples, err := m.triples.ListByGuideline(ctx, in.GuidelineID)
		if err != nil {
			return nil, domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "listing guideline triples", err)
		}
		if triples == nil {
			triples = []*domain.Triple{}
		}
		return map[string]any{"guideline_id": in.GuidelineID, "triples": triples}, nil
	}

	guidelines, err := m.guidelines.ListByWorld(ctx, in.WorldID)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "listing guidelines", err)
	}
	if guidelines == nil {
		guidelines = []*domain.Guideline{}
	}
	return map[string]any{"guidelines": guidelines}, nil
}

func (m *queryModule) listDomains(ctx context.Context) (any, error) {
	if m.ontologies == nil {
		return nil, domain.NewDomainError(domain.ErrCodeInternalError, "ontology store not configured")
	}
	domains, err := m.ontologies.ListDomains(ctx)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "listing ontology domains", err)
	}
	if domains == nil {
		domains = []string{}
	}
	return map[string]any{"domains": domains}, nil
}

// executeSPARQL matches one (subject, predicate, object) pattern, empty
// terms acting as wildcards. It is deliberately not a SPARQL engine.
func (m *queryModule) executeSPARQL(ctx context.Context, args map[string]any) (any, error) {
	var in struct {
		Domain    string `json:"domain"`
		Subject   string `json:"subject"`
		Predicate string `json:"predicate"`
		Object    string `json:"object"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return nil, err
	}

	g := unionGraph(ctx, m.loader, m.cache, m.domainOrDefault(in.Domain))
	statements := g.Match(in.Subject, in.Predicate, in.Object)
	if statements == nil {
		statements = []rdf.Statement{}
	}
	return map[string]any{
		"count":      len(statements),
		"statements": statements,
	}, nil
}
