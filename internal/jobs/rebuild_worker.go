package jobs

import (
	"context"
	"log"

	"github.com/ethograph/ethograph/internal/rdf"
	"github.com/ethograph/ethograph/internal/service"
	"github.com/ethograph/ethograph/internal/telemetry"
)

// RebuildProcessor refreshes the detector's unioned core graph so duplicate
// checks track ontology edits within one poll interval.
type RebuildProcessor struct {
	detector *service.Detector
}

func NewRebuildProcessor(detector *service.Detector) *RebuildProcessor {
	return &RebuildProcessor{detector: detector}
}

func (p *RebuildProcessor) ProcessJobs(ctx context.Context) error {
	ctx, span := telemetry.StartSpan(ctx, "jobs.rebuild_core", telemetry.SpanAttributes{Operation: "rebuild_core"})
	defer span.End()

	p.detector.Rebuild(ctx)
	log.Println("jobs: core ontology graph rebuilt")
	return nil
}

// SweepProcessor evicts expired entries from the given caches so resident
// memory tracks the TTL instead of the high-water mark.
type SweepProcessor struct {
	caches []*rdf.Cache
}

func NewSweepProcessor(caches ...*rdf.Cache) *SweepProcessor {
	return &SweepProcessor{caches: caches}
}

func (p *SweepProcessor) ProcessJobs(ctx context.Context) error {
	removed := 0
	for _, c := range p.caches {
		if c != nil {
			removed += c.Sweep()
		}
	}
	if removed > 0 {
		log.Printf("jobs: swept %d expired cache entries", removed)
	}
	return nil
}
