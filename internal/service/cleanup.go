package service

import (
	"context"
	"fmt"

	"github.com/ethograph/ethograph/internal/domain"
	"github.com/ethograph/ethograph/internal/telemetry"
)

// guidelineMetadataKey is the metadata entry stripped when a triple's parent
// guideline reference is nullified.
const guidelineMetadataKey = "guideline_id"

// defaultCleanupBatchSize bounds the number of triple ids mutated per
// statement inside the cleanup transaction.
const defaultCleanupBatchSize = 100

// CleanupInput selects the scope and the enabled actions of one cleanup
// invocation. With both action flags off the run is a pure audit.
type CleanupInput struct {
	// WorldID restricts the run to one world; empty means all worlds.
	WorldID string

	// ExcludeGuidelineIDs are parents whose triples are kept untouched.
	ExcludeGuidelineIDs []string

	EnableDelete  bool
	EnableNullify bool
	DryRun        bool
}

// CleanupService audits guideline-derived triples against the core
// ontologies and repairs inconsistencies: triples with no core backing are
// deleted, and core-backed triples pointing at a vanished parent guideline
// have the reference nullified.
type CleanupService struct {
	detector   *Detector
	triples    TripleRepositoryInterface
	guidelines GuidelineRepositoryInterface
	tx         TxRunner
	batchSize  int
}

// NewCleanupService creates a CleanupService. batchSize <= 0 selects the
// default.
func NewCleanupService(detector *Detector, triples TripleRepositoryInterface, guidelines GuidelineRepositoryInterface, tx TxRunner, batchSize int) *CleanupService {
	if batchSize <= 0 {
		batchSize = defaultCleanupBatchSize
	}
	return &CleanupService{
		detector:   detector,
		triples:    triples,
		guidelines: guidelines,
		tx:         tx,
		batchSize:  batchSize,
	}
}

// Run examines every guideline-scoped triple in the input's scope, decides
// an action per triple, and, unless DryRun is set, applies all mutations in
// a single transaction. A mid-run failure rolls back every mutation of the
// invocation and is reported in the summary as well as the error.
func (s *CleanupService) Run(ctx context.Context, in CleanupInput) (*domain.CleanupSummary, []domain.CleanupDecision, error) {
	ctx, span := telemetry.StartSpan(ctx, "cleanup.run", telemetry.SpanAttributes{
		WorldID:   in.WorldID,
		Operation: "cleanup",
	})
	defer span.End()

	triples, err := s.triples.ListByGuidelineScope(ctx, in.WorldID)
	if err != nil {
		return nil, nil, domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "cleanup: listing triples", err)
	}

	excluded := make(map[string]bool, len(in.ExcludeGuidelineIDs))
	for _, id := range in.ExcludeGuidelineIDs {
		excluded[id] = true
	}

	summary := &domain.CleanupSummary{DryRun: in.DryRun, Examined: len(triples)}
	decisions := make([]domain.CleanupDecision, 0, len(triples))
	parentAlive := make(map[string]bool)

	var deleteIDs, nullifyIDs []string
	for _, t := range triples {
		d := s.decide(ctx, t, excluded, parentAlive, in)
		decisions = append(decisions, d)

		switch d.Action {
		case domain.CleanupDelete:
			summary.ToDeleteCount++
			deleteIDs = append(deleteIDs, t.ID)
			if len(summary.DeleteSamples) < maxCleanupSamples {
				summary.DeleteSamples = append(summary.DeleteSamples, t.ID)
			}
		case domain.CleanupNullify:
			summary.ToNullifyCount++
			nullifyIDs = append(nullifyIDs, t.ID)
			if len(summary.NullifySamples) < maxCleanupSamples {
				summary.NullifySamples = append(summary.NullifySamples, t.ID)
			}
		default:
			summary.KeptCount++
		}
	}

	if in.DryRun {
		return summary, decisions, nil
	}

	err = s.tx.WithTx(ctx, func(repos TxRepositories) error {
		for _, chunk := range chunkIDs(deleteIDs, s.batchSize) {
			if _, err := repos.Triples().DeleteByIDs(ctx, chunk); err != nil {
				return fmt.Errorf("deleting triples: %w", err)
			}
		}
		for _, chunk := range chunkIDs(nullifyIDs, s.batchSize) {
			if _, err := repos.Triples().NullifyGuideline(ctx, chunk, guidelineMetadataKey); err != nil {
				return fmt.Errorf("nullifying guideline references: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		summary.Error = err.Error()
		span.SetError(err)
		return summary, decisions, domain.NewDomainErrorWithCause(domain.ErrCodeTransaction, "cleanup aborted, all mutations rolled back", err)
	}

	return summary, decisions, nil
}

const maxCleanupSamples = 10

// decide applies the decision table to one triple. Parent liveness lookups
// are memoized per run in parentAlive.
func (s *CleanupService) decide(ctx context.Context, t *domain.Triple, excluded map[string]bool, parentAlive map[string]bool, in CleanupInput) domain.CleanupDecision {
	if t.GuidelineID != "" && excluded[t.GuidelineID] {
		return domain.CleanupDecision{
			TripleID: t.ID,
			Action:   domain.CleanupKeep,
			Reason:   "parent guideline excluded from this run",
		}
	}

	if !s.backedByCore(t) {
		if !in.EnableDelete {
			return domain.CleanupDecision{
				TripleID: t.ID,
				Action:   domain.CleanupKeep,
				Reason:   "no core ontology backing, deletion disabled",
			}
		}
		return domain.CleanupDecision{
			TripleID: t.ID,
			Action:   domain.CleanupDelete,
			Reason:   "no core ontology backing",
		}
	}

	if t.GuidelineID != "" {
		alive, seen := parentAlive[t.GuidelineID]
		if !seen {
			alive = s.parentExists(ctx, t.GuidelineID)
			parentAlive[t.GuidelineID] = alive
		}
		if !alive {
			if !in.EnableNullify {
				return domain.CleanupDecision{
					TripleID: t.ID,
					Action:   domain.CleanupKeep,
					Reason:   "parent guideline missing, nullification disabled",
				}
			}
			return domain.CleanupDecision{
				TripleID: t.ID,
				Action:   domain.CleanupNullify,
				Reason:   "parent guideline no longer exists",
			}
		}
	}

	return domain.CleanupDecision{
		TripleID: t.ID,
		Action:   domain.CleanupKeep,
		Reason:   "core-backed with live parent",
	}
}

// backedByCore reports whether the triple, or an equivalent form of it, is
// present in the core ontology graph.
func (s *CleanupService) backedByCore(t *domain.Triple) bool {
	if s.detector.ExistsInOntology(t.Subject, t.Predicate, t.Object(), t.IsLiteral) {
		return true
	}

	subjects := s.detector.EquivalentConcepts(t.Subject)
	objects := []string{t.Object()}
	if !t.IsLiteral {
		objects = s.detector.EquivalentConcepts(t.Object())
	}
	for _, sub := range subjects {
		for _, obj := range objects {
			if sub == t.Subject && obj == t.Object() {
				continue
			}
			if s.detector.ExistsInOntology(sub, t.Predicate, obj, t.IsLiteral) {
				return true
			}
		}
	}
	return false
}

// parentExists reports guideline liveness. A lookup failure counts as alive
// so transient store errors never trigger destructive decisions.
func (s *CleanupService) parentExists(ctx context.Context, guidelineID string) bool {
	exists, err := s.guidelines.Exists(ctx, guidelineID)
	if err != nil {
		return true
	}
	return exists
}

func chunkIDs(ids []string, size int) [][]string {
	if len(ids) == 0 {
		return nil
	}
	chunks := make([][]string, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[start:end])
	}
	return chunks
}
