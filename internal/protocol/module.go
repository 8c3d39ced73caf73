// Package protocol implements the tool surface of the service: a registry of
// pluggable modules, each exposing named tools, dispatched from a single JSON
// endpoint. Legacy tool names from earlier deployments resolve through a
// fixed alias table.
package protocol

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ethograph/ethograph/internal/domain"
	"github.com/ethograph/ethograph/internal/rdf"
	"github.com/ethograph/ethograph/internal/service"
)

// ToolSpec describes one callable tool of a module.
type ToolSpec struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Module is a named group of tools sharing backing services.
type Module interface {
	Name() string
	Description() string
	Tools() []ToolSpec
	Call(ctx context.Context, tool string, args map[string]any) (any, error)
}

// Deps carries the backing services handed to module constructors.
type Deps struct {
	Loader     *service.GraphLoader
	Extractor  *service.Extractor
	Detector   *service.Detector
	Cleanup    *service.CleanupService
	Triples    service.TripleRepositoryInterface
	Guidelines service.GuidelineRepositoryInterface
	Ontologies service.OntologyRepositoryInterface

	// ServerCache is the endpoint-level result cache, separate from the
	// loader's graph cache. clear_cache empties both.
	ServerCache *rdf.Cache

	// DefaultDomain is the ontology consulted when a tool call names none.
	DefaultDomain string
}

// Constructor builds one module from the shared deps. A constructor may fail
// (missing configuration, bad state); the registry logs and skips it.
type Constructor struct {
	Name  string
	Build func(deps Deps) (Module, error)
}

// BuiltinModules is the compile-time module table, registered in order.
func BuiltinModules() []Constructor {
	return []Constructor{
		{Name: "query", Build: newQueryModule},
		{Name: "relationship", Build: newRelationshipModule},
		{Name: "dedup", Build: newDedupModule},
		{Name: "maintenance", Build: newMaintenanceModule},
	}
}

// decodeArgs maps loosely typed tool arguments onto a typed input struct via
// a JSON round trip, so modules validate shape in one place.
func decodeArgs(args map[string]any, out any) error {
	raw, err := json.Marshal(args)
	if err != nil {
		return domain.NewDomainErrorWithCause(domain.ErrCodeValidation, "invalid tool arguments", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return domain.NewDomainErrorWithCause(domain.ErrCodeValidation, "invalid tool arguments", err)
	}
	return nil
}

func unknownTool(module, tool string) error {
	return domain.NewDomainError(domain.ErrCodeNotFound, fmt.Sprintf("module %q has no tool %q", module, tool))
}

// unionGraph resolves the domain's graph unioned with its imports, memoized
// in the endpoint cache when one is configured. The loader caches individual
// graphs; this avoids re-unioning them on every call.
func unionGraph(ctx context.Context, loader *service.GraphLoader, cache *rdf.Cache, domainID string) *rdf.Graph {
	if cache != nil {
		if g, ok := cache.Get(domainID); ok {
			return g
		}
	}
	g := loader.LoadWithImports(ctx, domainID)
	if cache != nil {
		cache.Put(domainID, g)
	}
	return g
}
