package protocol

import (
	"context"
	"errors"

	"github.com/ethograph/ethograph/internal/domain"
	"github.com/ethograph/ethograph/internal/service"
)

// dedupModule fronts the duplicate/equivalence detector.
type dedupModule struct {
	detector *service.Detector
}

func newDedupModule(deps Deps) (Module, error) {
	if deps.Detector == nil {
		return nil, errors.New("dedup module requires a detector")
	}
	return &dedupModule{detector: deps.Detector}, nil
}

func (m *dedupModule) Name() string { return "dedup" }

func (m *dedupModule) Description() string {
	return "Duplicate and equivalence checks for candidate triples"
}

func (m *dedupModule) Tools() []ToolSpec {
	return []ToolSpec{
		{Name: "check_duplicate", Description: "Check one candidate triple against the core ontologies and the store"},
		{Name: "filter_duplicates", Description: "Partition a candidate batch into novel and duplicate triples"},
		{Name: "classify_value", Description: "Assign an advisory value tier to a candidate triple"},
		{Name: "rebuild_core", Description: "Re-union the core ontology graphs used for detection"},
	}
}

type candidateArgs struct {
	Subject        string         `json:"subject"`
	Predicate      string         `json:"predicate"`
	Object         string         `json:"object"`
	IsLiteral      bool           `json:"is_literal"`
	SubjectLabel   string         `json:"subject_label"`
	PredicateLabel string         `json:"predicate_label"`
	ObjectLabel    string         `json:"object_label"`
	Metadata       map[string]any `json:"metadata"`
}

func (a candidateArgs) toCandidate() domain.TripleCandidate {
	return domain.TripleCandidate{
		Subject:        a.Subject,
		Predicate:      a.Predicate,
		Object:         a.Object,
		IsLiteral:      a.IsLiteral,
		SubjectLabel:   a.SubjectLabel,
		PredicateLabel: a.PredicateLabel,
		ObjectLabel:    a.ObjectLabel,
		Metadata:       a.Metadata,
	}
}

type scopeArgs struct {
	WorldID     string `json:"world_id"`
	GuidelineID string `json:"guideline_id"`
}

func (a scopeArgs) toScope() domain.ProvenanceScope {
	return domain.ProvenanceScope{WorldID: a.WorldID, GuidelineID: a.GuidelineID}
}

func (m *dedupModule) Call(ctx context.Context, tool string, args map[string]any) (any, error) {
	switch tool {
	case "check_duplicate":
		return m.checkDuplicate(ctx, args)
	case "filter_duplicates":
		return m.filterDuplicates(ctx, args)
	case "classify_value":
		return m.classifyValue(args)
	case "rebuild_core":
		m.detector.Rebuild(ctx)
		return map[string]any{"status": "rebuilt"}, nil
	default:
		return nil, unknownTool(m.Name(), tool)
	}
}

func (m *dedupModule) checkDuplicate(ctx context.Context, args map[string]any) (any, error) {
	var in struct {
		candidateArgs
		Exclude scopeArgs `json:"exclude"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return nil, err
	}

	c := in.toCandidate()
	if err := domain.ValidateCandidate(&c); err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeValidation, "invalid candidate", err)
	}
	res, err := m.detector.CheckDuplicate(ctx, c, in.Exclude.toScope())
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "duplicate check failed", err)
	}
	return res, nil
}

func (m *dedupModule) filterDuplicates(ctx context.Context, args map[string]any) (any, error) {
	var in struct {
		Candidates []candidateArgs `json:"candidates"`
		Exclude    scopeArgs       `json:"exclude"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return nil, err
	}

	candidates := make([]domain.TripleCandidate, 0, len(in.Candidates))
	for _, c := range in.Candidates {
		candidates = append(candidates, c.toCandidate())
	}

	novel, duplicates, err := m.detector.FilterDuplicates(ctx, candidates, in.Exclude.toScope())
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "duplicate filtering failed", err)
	}
	if novel == nil {
		novel = []domain.TripleCandidate{}
	}
	if duplicates == nil {
		duplicates = []domain.FilteredCandidate{}
	}
	return map[string]any{
		"novel":      novel,
		"duplicates": duplicates,
	}, nil
}

func (m *dedupModule) classifyValue(args map[string]any) (any, error) {
	var in candidateArgs
	if err := decodeArgs(args, &in); err != nil {
		return nil, err
	}

	c := in.toCandidate()
	if err := domain.ValidateCandidate(&c); err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeValidation, "invalid candidate", err)
	}
	return map[string]any{"tier": m.detector.ClassifyValue(c)}, nil
}
