package admin

import (
	"context"
	"fmt"
	"log"

	"github.com/ethograph/ethograph/internal/config"
	"github.com/ethograph/ethograph/internal/database"
	"github.com/ethograph/ethograph/internal/repository"
	"github.com/ethograph/ethograph/internal/service"
	"github.com/ethograph/ethograph/internal/storage"
	"github.com/spf13/cobra"
)

// CleanupCmd returns the cleanup command
func CleanupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Audit and repair guideline-derived triples",
		Long:  "Check stored triples against the core ontologies and delete or nullify inconsistent ones",
		RunE:  runCleanup,
	}

	cmd.Flags().String("world", "", "Restrict the run to one world")
	cmd.Flags().StringSlice("exclude-guideline", nil, "Guideline ids whose triples are kept untouched")
	cmd.Flags().Bool("enable-delete", false, "Delete triples with no core ontology backing")
	cmd.Flags().Bool("enable-nullify", false, "Nullify references to missing parent guidelines")
	cmd.Flags().Bool("dry-run", true, "Report what would happen without mutating")

	return cmd
}

func runCleanup(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	pool, err := database.NewPoolFromURL(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	tripleRepo := repository.NewTripleRepository(pool)
	guidelineRepo := repository.NewGuidelineRepository(pool)
	ontologyRepo := repository.NewOntologyRepository(pool)
	txRunner := repository.NewTxRunner(pool)

	loader := service.NewGraphLoader(ontologyRepo, storage.NewLocalDir(cfg.OntologyDir), cfg.CacheTTL)
	detector := service.NewDetector(ctx, loader, tripleRepo, cfg.CoreOntologies)
	cleanupSvc := service.NewCleanupService(detector, tripleRepo, guidelineRepo, txRunner, cfg.CleanupBatchSize)

	world, _ := cmd.Flags().GetString("world")
	excluded, _ := cmd.Flags().GetStringSlice("exclude-guideline")
	enableDelete, _ := cmd.Flags().GetBool("enable-delete")
	enableNullify, _ := cmd.Flags().GetBool("enable-nullify")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	summary, _, err := cleanupSvc.Run(ctx, service.CleanupInput{
		WorldID:             world,
		ExcludeGuidelineIDs: excluded,
		EnableDelete:        enableDelete,
		EnableNullify:       enableNullify,
		DryRun:              dryRun,
	})
	if err != nil {
		if summary != nil {
			printSummary(cmd, summary.Examined, summary.ToDeleteCount, summary.ToNullifyCount, summary.KeptCount, summary.DryRun)
		}
		return err
	}

	printSummary(cmd, summary.Examined, summary.ToDeleteCount, summary.ToNullifyCount, summary.KeptCount, summary.DryRun)
	if len(summary.DeleteSamples) > 0 {
		cmd.Printf("delete samples: %v\n", summary.DeleteSamples)
	}
	if len(summary.NullifySamples) > 0 {
		cmd.Printf("nullify samples: %v\n", summary.NullifySamples)
	}
	if summary.DryRun {
		log.Println("dry run: no mutations were applied")
	}
	return nil
}

func printSummary(cmd *cobra.Command, examined, toDelete, toNullify, kept int, dryRun bool) {
	mode := "live"
	if dryRun {
		mode = "dry-run"
	}
	cmd.Printf("cleanup (%s): examined=%d delete=%d nullify=%d kept=%d\n", mode, examined, toDelete, toNullify, kept)
}
