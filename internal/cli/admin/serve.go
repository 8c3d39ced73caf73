package admin

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethograph/ethograph/internal/api/handlers"
	"github.com/ethograph/ethograph/internal/config"
	"github.com/ethograph/ethograph/internal/database"
	"github.com/ethograph/ethograph/internal/jobs"
	"github.com/ethograph/ethograph/internal/protocol"
	"github.com/ethograph/ethograph/internal/rdf"
	"github.com/ethograph/ethograph/internal/repository"
	"github.com/ethograph/ethograph/internal/server"
	"github.com/ethograph/ethograph/internal/service"
	"github.com/ethograph/ethograph/internal/storage"
	"github.com/ethograph/ethograph/internal/telemetry"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the knowledge service",
		Long:  "Start the ethograph protocol server on the specified port",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	cmd.Flags().Bool("no-migrate", false, "Skip automatic database migrations on startup")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize Sentry with tracing if SENTRY_DSN is set
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		environment := os.Getenv("ENVIRONMENT")
		if environment == "" {
			environment = "development"
		}

		sampleRate := 0.1
		if environment == "development" {
			sampleRate = 1.0
		}

		shutdownTelemetry, err := telemetry.Init(telemetry.Config{
			DSN:              dsn,
			Environment:      environment,
			TracesSampleRate: sampleRate,
		})
		if err != nil {
			log.Printf("telemetry init failed (continuing without tracing): %v", err)
		} else {
			defer shutdownTelemetry()
		}
	}

	portFlag, _ := cmd.Flags().GetString("port")
	if portFlag != "" && portFlag != "8080" {
		cfg.Port = portFlag
	}

	pool, err := database.NewPoolFromURL(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()
	log.Println("connected to database")

	noMigrate, _ := cmd.Flags().GetBool("no-migrate")
	if !noMigrate {
		if err := runMigrations(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	tripleRepo := repository.NewTripleRepository(pool)
	guidelineRepo := repository.NewGuidelineRepository(pool)
	ontologyRepo := repository.NewOntologyRepository(pool)
	txRunner := repository.NewTxRunner(pool)

	var source service.DocumentSource
	if cfg.HasS3() {
		s3Client, err := storage.NewS3Client(ctx, storage.S3ClientConfig{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKey,
			SecretAccessKey: cfg.S3SecretKey,
			Bucket:          cfg.S3Bucket,
			UsePathStyle:    true,
		})
		if err != nil {
			return fmt.Errorf("failed to create S3 client: %w", err)
		}
		if err := s3Client.EnsureBucket(ctx); err != nil {
			return fmt.Errorf("failed to ensure S3 bucket: %w", err)
		}
		log.Printf("S3 bucket '%s' ready", cfg.S3Bucket)
		source = s3Client
	} else {
		source = storage.NewLocalDir(cfg.OntologyDir)
	}

	loader := service.NewGraphLoader(ontologyRepo, source, cfg.CacheTTL)
	extractor := service.NewExtractor(loader, cfg.IntermediateDomain)
	detector := service.NewDetector(ctx, loader, tripleRepo, cfg.CoreOntologies)
	cleanupSvc := service.NewCleanupService(detector, tripleRepo, guidelineRepo, txRunner, cfg.CleanupBatchSize)

	serverCache := rdf.NewCache(cfg.CacheTTL)

	registry := protocol.NewRegistry(protocol.Deps{
		Loader:        loader,
		Extractor:     extractor,
		Detector:      detector,
		Cleanup:       cleanupSvc,
		Triples:       tripleRepo,
		Guidelines:    guidelineRepo,
		Ontologies:    ontologyRepo,
		ServerCache:   serverCache,
		DefaultDomain: cfg.IntermediateDomain,
	}, protocol.BuiltinModules())
	log.Printf("protocol registry ready with %d modules", len(registry.Modules()))

	rebuildWorker := jobs.NewWorker("rebuild", jobs.NewRebuildProcessor(detector), cfg.RebuildInterval)
	go rebuildWorker.Start(ctx)
	sweepWorker := jobs.NewWorker("sweep", jobs.NewSweepProcessor(loader.Cache(), serverCache), cfg.CacheTTL)
	go sweepWorker.Start(ctx)

	router := server.NewRouter(server.RouterConfig{
		RPCHandler: handlers.NewRPCHandler(registry),
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")

	rebuildWorker.Stop()
	sweepWorker.Stop()

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("server exited")
	return nil
}

func runMigrations(databaseURL string) error {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database for migrations: %w", err)
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && err != migrate.ErrNilVersion {
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	if err == migrate.ErrNilVersion {
		log.Println("migrations: database is up to date (no migrations applied)")
	} else if dirty {
		return fmt.Errorf("migration version %d is dirty - manual intervention required", version)
	} else if err == migrate.ErrNoChange {
		log.Printf("migrations: database is up to date (version %d)", version)
	} else {
		log.Printf("migrations: applied successfully (version %d)", version)
	}

	return nil
}
