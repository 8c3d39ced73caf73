package protocol

import (
	"context"
	"errors"

	"github.com/ethograph/ethograph/internal/domain"
	"github.com/ethograph/ethograph/internal/rdf"
	"github.com/ethograph/ethograph/internal/service"
)

// maintenanceModule exposes administrative operations: consistency cleanup
// and cache control.
type maintenanceModule struct {
	cleanup     *service.CleanupService
	loader      *service.GraphLoader
	serverCache *rdf.Cache
}

func newMaintenanceModule(deps Deps) (Module, error) {
	if deps.Cleanup == nil || deps.Loader == nil {
		return nil, errors.New("maintenance module requires cleanup service and loader")
	}
	return &maintenanceModule{
		cleanup:     deps.Cleanup,
		loader:      deps.Loader,
		serverCache: deps.ServerCache,
	}, nil
}

func (m *maintenanceModule) Name() string { return "maintenance" }

func (m *maintenanceModule) Description() string {
	return "Consistency cleanup and cache administration"
}

func (m *maintenanceModule) Tools() []ToolSpec {
	return []ToolSpec{
		{Name: "cleanup_orphans", Description: "Audit and repair guideline-derived triples against the core ontologies"},
		{Name: "clear_cache", Description: "Empty the graph cache and the endpoint cache"},
		{Name: "cache_stats", Description: "Report entry counts for both caches"},
	}
}

func (m *maintenanceModule) Call(ctx context.Context, tool string, args map[string]any) (any, error) {
	switch tool {
	case "cleanup_orphans":
		return m.cleanupOrphans(ctx, args)
	case "clear_cache":
		return m.clearCache(), nil
	case "cache_stats":
		return m.cacheStats(), nil
	default:
		return nil, unknownTool(m.Name(), tool)
	}
}

func (m *maintenanceModule) cleanupOrphans(ctx context.Context, args map[string]any) (any, error) {
	var in struct {
		WorldID             string   `json:"world_id"`
		ExcludeGuidelineIDs []string `json:"exclude_guideline_ids"`
		EnableDelete        bool     `json:"enable_delete"`
		EnableNullify       bool     `json:"enable_nullify"`
		DryRun              bool     `json:"dry_run"`
	}
	if err := decodeArgs(args, &in); err != nil {
		return nil, err
	}

	summary, _, err := m.cleanup.Run(ctx, service.CleanupInput{
		WorldID:             in.WorldID,
		ExcludeGuidelineIDs: in.ExcludeGuidelineIDs,
		EnableDelete:        in.EnableDelete,
		EnableNullify:       in.EnableNullify,
		DryRun:              in.DryRun,
	})
	if err != nil {
		// The summary still describes the aborted run.
		if summary != nil {
			return summary, nil
		}
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "cleanup failed", err)
	}
	return summary, nil
}

func (m *maintenanceModule) clearCache() any {
	graphStats := m.loader.Cache().Stats()
	m.loader.InvalidateAll()

	serverEntries := 0
	if m.serverCache != nil {
		serverEntries = m.serverCache.Stats().Entries
		m.serverCache.InvalidateAll()
	}
	return map[string]any{
		"graph_entries_cleared":  graphStats.Entries,
		"server_entries_cleared": serverEntries,
	}
}

func (m *maintenanceModule) cacheStats() any {
	out := map[string]any{
		"graph_cache": m.loader.Cache().Stats(),
	}
	if m.serverCache != nil {
		out["server_cache"] = m.serverCache.Stats()
	}
	return out
}
