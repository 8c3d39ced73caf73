package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/ethograph/ethograph/internal/domain"
	"github.com/ethograph/ethograph/internal/rdf"
)

// DocumentSource resolves serialized ontology content that is not in the
// store, e.g. from a local directory or an object store.
type DocumentSource interface {
	Fetch(ctx context.Context, domainID string) (string, error)
}

// GraphLoader resolves a named ontology into a parsed graph. Resolution
// order: persisted store by domain id, then the backing document source.
// Results are cached with a fixed TTL; parse failures degrade to an empty
// graph so dependents never see an error.
type GraphLoader struct {
	ontologies OntologyRepositoryInterface
	source     DocumentSource
	cache      *rdf.Cache
}

// NewGraphLoader creates a GraphLoader. source may be nil when no backing
// files are configured.
func NewGraphLoader(ontologies OntologyRepositoryInterface, source DocumentSource, ttl time.Duration) *GraphLoader {
	return &GraphLoader{
		ontologies: ontologies,
		source:     source,
		cache:      rdf.NewCache(ttl),
	}
}

// Load returns the parsed graph for domainID. It never fails: unresolvable
// or malformed content yields an empty graph, logged.
func (l *GraphLoader) Load(ctx context.Context, domainID string) *rdf.Graph {
	if g, ok := l.cache.Get(domainID); ok {
		return g
	}

	content, baseURI := l.resolve(ctx, domainID)
	g := rdf.ParseOrEmpty(content, baseURI, domainID)
	l.cache.Put(domainID, g)
	return g
}

// LoadWithImports returns the graph for domainID unioned with the graphs of
// its declared imports. Import cycles are tolerated via the visited set.
func (l *GraphLoader) LoadWithImports(ctx context.Context, domainID string) *rdf.Graph {
	union := rdf.NewGraph("")
	visited := make(map[string]bool)
	l.collect(ctx, domainID, union, visited)
	return union
}

func (l *GraphLoader) collect(ctx context.Context, domainID string, union *rdf.Graph, visited map[string]bool) {
	if visited[domainID] {
		return
	}
	visited[domainID] = true

	union.Union(l.Load(ctx, domainID))

	o, err := l.ontologies.GetByDomain(ctx, domainID)
	if err != nil {
		return
	}
	for _, imp := range o.Imports {
		l.collect(ctx, imp, union, visited)
	}
}

func (l *GraphLoader) resolve(ctx context.Context, domainID string) (content, baseURI string) {
	o, err := l.ontologies.GetByDomain(ctx, domainID)
	if err == nil {
		return o.Content, o.BaseURI
	}
	if !errors.Is(err, domain.ErrOntologyNotFound) {
		log.Printf("loader: store lookup failed for ontology %q: %v", domainID, err)
	}

	if l.source == nil {
		return "", ""
	}
	content, err = l.source.Fetch(ctx, domainID)
	if err != nil {
		log.Printf("loader: no backing document for ontology %q: %v", domainID, err)
		return "", ""
	}
	return content, ""
}

// Invalidate drops one domain from the cache.
func (l *GraphLoader) Invalidate(domainID string) {
	l.cache.Invalidate(domainID)
}

// InvalidateAll empties the cache.
func (l *GraphLoader) InvalidateAll() {
	l.cache.InvalidateAll()
}

// Cache exposes the underlying cache for stats and sweeping.
func (l *GraphLoader) Cache() *rdf.Cache {
	return l.cache
}
