package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/ethograph/ethograph/internal/domain"
	"github.com/ethograph/ethograph/internal/rdf"
)

// Detector answers "does this triple already exist?" against the union of
// the core ontologies and the persisted triple store, and expands lookups
// over declared and namespace-level equivalences.
type Detector struct {
	loader      *GraphLoader
	triples     TripleRepositoryInterface
	coreDomains []string

	mu   sync.RWMutex
	core *rdf.Graph
}

// NewDetector builds a Detector and materializes the core graph once.
// Rebuild refreshes it after ontology edits.
func NewDetector(ctx context.Context, loader *GraphLoader, triples TripleRepositoryInterface, coreDomains []string) *Detector {
	d := &Detector{
		loader:      loader,
		triples:     triples,
		coreDomains: coreDomains,
	}
	d.Rebuild(ctx)
	return d
}

// Rebuild re-unions the core ontology graphs. Safe to call concurrently with
// lookups; readers see either the old or the new graph.
func (d *Detector) Rebuild(ctx context.Context) {
	union := rdf.NewGraph("")
	for _, dom := range d.coreDomains {
		union.Union(d.loader.LoadWithImports(ctx, dom))
	}

	d.mu.Lock()
	d.core = union
	d.mu.Unlock()
}

func (d *Detector) coreGraph() *rdf.Graph {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.core
}

// ExistsInOntology reports exact membership of the triple in the core graph.
func (d *Detector) ExistsInOntology(s, p, o string, isLiteral bool) bool {
	return d.coreGraph().Has(s, p, o, isLiteral)
}

// ExistsInDatabase finds an exact stored match, scoped by provenance.
// excludeScope carries the caller's own provenance so a candidate is not
// reported as duplicating itself.
func (d *Detector) ExistsInDatabase(ctx context.Context, s, p, o string, isLiteral bool, excludeScope domain.ProvenanceScope) (*domain.Triple, error) {
	t, err := d.triples.FindExact(ctx, s, p, o, isLiteral, excludeScope)
	if err != nil {
		if errors.Is(err, domain.ErrTripleNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return t, nil
}

// EquivalentConcepts returns the equivalence set of uri: the URI itself,
// everything reachable over owl:equivalentClass/equivalentProperty/sameAs in
// the core graph (both directions), and the namespace-rewrite variants of
// each member.
func (d *Detector) EquivalentConcepts(uri string) []string {
	core := d.coreGraph()
	seen := map[string]bool{uri: true}
	out := []string{uri}
	add := func(u string) {
		if u != "" && !seen[u] {
			seen[u] = true
			out = append(out, u)
		}
	}

	preds := []string{rdf.OWLEquivalentClass, rdf.OWLEquivalentProperty, rdf.OWLSameAs}
	for i := 0; i < len(out); i++ {
		u := out[i]
		for _, p := range preds {
			for _, eq := range core.URIObjectsOf(u, p) {
				add(eq)
			}
			for _, eq := range core.SubjectsOf(p, u) {
				add(eq)
			}
		}
		for _, pair := range rdf.NamespaceRewrites {
			if strings.HasPrefix(u, pair[0]) {
				add(pair[1] + u[len(pair[0]):])
			}
			if strings.HasPrefix(u, pair[1]) {
				add(pair[0] + u[len(pair[1]):])
			}
		}
	}
	return out
}

// CheckDuplicate classifies a candidate against the ontology and the store.
// Exact matches are tried first, then the cross product of subject and
// object equivalents (object expansion applies to URI objects only). The
// first hit wins.
func (d *Detector) CheckDuplicate(ctx context.Context, c domain.TripleCandidate, excludeScope domain.ProvenanceScope) (*domain.DuplicateCheckResult, error) {
	if d.ExistsInOntology(c.Subject, c.Predicate, c.Object, c.IsLiteral) {
		return &domain.DuplicateCheckResult{
			IsDuplicate: true,
			InOntology:  true,
			Explanation: "exact statement already present in core ontology",
		}, nil
	}

	if t, err := d.ExistsInDatabase(ctx, c.Subject, c.Predicate, c.Object, c.IsLiteral, excludeScope); err != nil {
		return nil, err
	} else if t != nil {
		return &domain.DuplicateCheckResult{
			IsDuplicate: true,
			InDatabase:  true,
			Matched:     t,
			Explanation: "exact statement already stored",
		}, nil
	}

	subjects := d.EquivalentConcepts(c.Subject)
	objects := []string{c.Object}
	if !c.IsLiteral {
		objects = d.EquivalentConcepts(c.Object)
	}

	for _, s := range subjects {
		for _, o := range objects {
			if s == c.Subject && o == c.Object {
				continue
			}
			if d.coreGraph().Has(s, c.Predicate, o, c.IsLiteral) {
				return &domain.DuplicateCheckResult{
					IsDuplicate:     true,
					InOntology:      true,
					EquivalentFound: true,
					Explanation:     fmt.Sprintf("equivalent statement (%s, %s, %s) present in core ontology", s, c.Predicate, o),
				}, nil
			}
			t, err := d.ExistsInDatabase(ctx, s, c.Predicate, o, c.IsLiteral, excludeScope)
			if err != nil {
				return nil, err
			}
			if t != nil {
				return &domain.DuplicateCheckResult{
					IsDuplicate:     true,
					InDatabase:      true,
					EquivalentFound: true,
					Matched:         t,
					Explanation:     fmt.Sprintf("equivalent statement (%s, %s, %s) already stored", s, c.Predicate, o),
				}, nil
			}
		}
	}

	return &domain.DuplicateCheckResult{Explanation: "no match in ontology or store"}, nil
}

// valueTierKeywords orders tiers from high to low; the first tier whose
// keywords match wins, and no match defaults to low.
var valueTierKeywords = []struct {
	tier     domain.ValueTier
	keywords []string
}{
	{domain.ValueHigh, []string{"principle", "obligation", "duty", "harm", "safety", "consent", "right"}},
	{domain.ValueMedium, []string{"role", "capability", "resource", "action", "responsibility"}},
}

// ClassifyValue assigns an advisory value tier to a candidate from keyword
// evidence in its terms and labels.
func (d *Detector) ClassifyValue(c domain.TripleCandidate) domain.ValueTier {
	text := strings.ToLower(strings.Join([]string{
		rdf.LabelFromURI(c.Subject),
		rdf.LabelFromURI(c.Predicate),
		c.Object,
		c.SubjectLabel,
		c.PredicateLabel,
		c.ObjectLabel,
	}, " "))

	for _, t := range valueTierKeywords {
		if containsAny(text, t.keywords) {
			return t.tier
		}
	}
	return domain.ValueLow
}

// FilterDuplicates splits candidates into novel and duplicate buckets.
// Invalid candidates land in the duplicate bucket with the validation
// failure as explanation. Candidates are judged independently; two identical
// novel candidates in one batch both pass.
func (d *Detector) FilterDuplicates(ctx context.Context, candidates []domain.TripleCandidate, excludeScope domain.ProvenanceScope) (novel []domain.TripleCandidate, duplicates []domain.FilteredCandidate, err error) {
	for _, c := range candidates {
		if verr := domain.ValidateCandidate(&c); verr != nil {
			duplicates = append(duplicates, domain.FilteredCandidate{
				Candidate: c,
				Result: domain.DuplicateCheckResult{
					Explanation: fmt.Sprintf("rejected: %v", verr),
				},
			})
			continue
		}

		res, cerr := d.CheckDuplicate(ctx, c, excludeScope)
		if cerr != nil {
			return nil, nil, cerr
		}
		if res.IsDuplicate {
			duplicates = append(duplicates, domain.FilteredCandidate{Candidate: c, Result: *res})
			continue
		}
		novel = append(novel, c)
	}
	return novel, duplicates, nil
}
