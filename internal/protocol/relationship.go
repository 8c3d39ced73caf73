package protocol

import (
	"context"
	"errors"

	"github.com/ethograph/ethograph/internal/domain"
	"github.com/ethograph/ethograph/internal/rdf"
	"github.com/ethograph/ethograph/internal/service"
)

// relationshipModule answers connectivity questions about single entities.
type relationshipModule struct {
	loader        *service.GraphLoader
	extractor     *service.Extractor
	triples       service.TripleRepositoryInterface
	cache         *rdf.Cache
	defaultDomain string
}

func newRelationshipModule(deps Deps) (Module, error) {
	if deps.Loader == nil || deps.Extractor == nil || deps.Triples == nil {
		return nil, errors.New("relationship module requires loader, extractor and triple store")
	}
	return &relationshipModule{
		loader:        deps.Loader,
		extractor:     deps.Extractor,
		triples:       deps.Triples,
		cache:         deps.ServerCache,
		defaultDomain: deps.DefaultDomain,
	}, nil
}

func (m *relationshipModule) Name() string { return "relationship" }

func (m *relationshipModule) Description() string {
	return "Relationship and capability lookups for individual entities"
}

func (m *relationshipModule) Tools() []ToolSpec {
	return []ToolSpec{
		{Name: "get_relationships", Description: "List stored triples where the entity appears as subject or object"},
		{Name: "get_capabilities", Description: "Resolve the capabilities attached to a role entity"},
	}
}

func (m *relationshipModule) Call(ctx context.Context, tool string, args map[string]any) (any, error) {
	switch tool {
	case "get_relationships":
		return m.getRelationships(ctx, args)
	case "get_capabilities":
		return m.getCapabilities(ctx, args)
	default:
		return nil, unknownTool(m.Name(), tool)
	}
}

func (m *relationshipModule) getRelationships(ctx context.Context, args map[string]any) (any, error) {
	var in struct {
		URI string `json:"uri"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return nil, err
	}
	if in.URI == "" {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "uri is required")
	}

	triples, err := m.triples.ListBySubjectOrObject(ctx, in.URI)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "listing relationships", err)
	}
	if triples == nil {
		triples = []*domain.Triple{}
	}
	return map[string]any{
		"uri":           in.URI,
		"count":         len(triples),
		"relationships": triples,
	}, nil
}

func (m *relationshipModule) getCapabilities(ctx context.Context, args map[string]any) (any, error) {
	var in struct {
		Domain  string `json:"domain"`
		RoleURI string `json:"role_uri"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return nil, err
	}
	if in.RoleURI == "" {
		return nil, domain.NewDomainError(domain.ErrCodeValidation, "role_uri is required")
	}

	domainID := in.Domain
	if domainID == "" {
		domainID = m.defaultDomain
	}
	g := unionGraph(ctx, m.loader, m.cache, domainID)
	caps := m.extractor.RoleCapabilities(g, in.RoleURI)
	if caps == nil {
		caps = []domain.SemanticEntity{}
	}
	return map[string]any{
		"role_uri":     in.RoleURI,
		"capabilities": caps,
	}, nil
}
