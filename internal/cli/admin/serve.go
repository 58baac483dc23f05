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

	"github.com/cloo-solutions/replypilot/internal/api/handlers"
	"github.com/cloo-solutions/replypilot/internal/config"
	"github.com/cloo-solutions/replypilot/internal/database"
	"github.com/cloo-solutions/replypilot/internal/jobs"
	openaiclient "github.com/cloo-solutions/replypilot/internal/openai"
	"github.com/cloo-solutions/replypilot/internal/repository"
	"github.com/cloo-solutions/replypilot/internal/server"
	"github.com/cloo-solutions/replypilot/internal/service"
	"github.com/cloo-solutions/replypilot/internal/storage"
	"github.com/cloo-solutions/replypilot/internal/telemetry"
	"github.com/cloo-solutions/replypilot/internal/zendesk"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	openai "github.com/sashabaranov/go-openai"
	"github.com/spf13/cobra"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the reply assistant API server on the specified port",
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

	if shutdown := initTelemetry(); shutdown != nil {
		defer shutdown()
	}

	cfg.Port = resolvePort(cmd, cfg.Port)

	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
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

	if !cfg.HasOpenAI() {
		return fmt.Errorf("OPENAI_API_KEY is required to serve")
	}

	aiClient := openaiclient.NewClientWithConfig(openaiclient.Config{
		APIKey:              cfg.OpenAIAPIKey,
		EmbeddingModel:      openai.EmbeddingModel(cfg.EmbeddingModel),
		EmbeddingDimensions: cfg.EmbeddingDimensions,
		ChatModel:           cfg.ChatModel,
	})

	knowledgeRepo := repository.NewKnowledgeRepository(pool)

	ingestSvc := service.NewIngestService(aiClient, knowledgeRepo).
		WithChunkConfig(service.ChunkConfig{
			MaxChars:  cfg.ChunkSize,
			MinChars:  cfg.ChunkSize / 3,
			Overlap:   cfg.ChunkOverlap,
			MaxChunks: 40,
		})

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
		ingestSvc = ingestSvc.WithArchive(s3Client)
	}

	retrievalSvc := service.NewRetrievalService(aiClient, knowledgeRepo).
		WithDefaults(cfg.MatchThreshold, cfg.MatchCount)
	replySvc := service.NewReplyService(retrievalSvc, aiClient)
	listingSvc := service.NewListingService(knowledgeRepo)

	var syncWorker *jobs.Worker
	if cfg.SyncInterval > 0 {
		if !cfg.HasZendesk() {
			return fmt.Errorf("SYNC_INTERVAL is set but Zendesk credentials are missing")
		}
		syncSvc := newSyncService(cfg, pool, ingestSvc, knowledgeRepo)
		syncWorker = jobs.NewWorker(jobs.NewSyncRunner(syncSvc), cfg.SyncInterval)
		go syncWorker.Start(ctx)
		log.Printf("sync worker started, interval %v", cfg.SyncInterval)
	}

	router := server.NewRouter(server.RouterConfig{
		APIKey:           cfg.APIKey,
		IngestHandler:    handlers.NewIngestHandler(ingestSvc),
		ReplyHandler:     handlers.NewReplyHandler(replySvc),
		KnowledgeHandler: handlers.NewKnowledgeHandler(listingSvc),
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

	if syncWorker != nil {
		syncWorker.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("server exited")
	return nil
}

// resolvePort prefers an explicitly set --port flag over the configured port,
// even when the flag value equals the flag default.
func resolvePort(cmd *cobra.Command, configured string) string {
	if cmd.Flags().Changed("port") {
		port, _ := cmd.Flags().GetString("port")
		return port
	}
	return configured
}

// initTelemetry initializes Sentry tracing when SENTRY_DSN is set. Returns
// a flush function or nil.
func initTelemetry() func() {
	dsn := os.Getenv("SENTRY_DSN")
	if dsn == "" {
		return nil
	}

	environment := os.Getenv("ENVIRONMENT")
	if environment == "" {
		environment = "development"
	}

	sampleRate := 0.1
	if environment == "development" {
		sampleRate = 1.0
	}

	shutdown, err := telemetry.Init(telemetry.Config{
		DSN:              dsn,
		Environment:      environment,
		TracesSampleRate: sampleRate,
	})
	if err != nil {
		log.Printf("telemetry init failed (continuing without tracing): %v", err)
		return nil
	}
	return shutdown
}

// newSyncService wires the ticket sync pipeline: subscriber list from the
// database, tickets from Zendesk, records through the shared ingest service.
func newSyncService(cfg *config.Config, pool *pgxpool.Pool, ingestSvc *service.IngestService, knowledgeRepo *repository.KnowledgeRepository) *service.SyncService {
	subscriberRepo := repository.NewSubscriberRepository(pool)
	zendeskClient := zendesk.NewClient(zendesk.ClientConfig{
		Subdomain: cfg.ZendeskSubdomain,
		Email:     cfg.ZendeskEmail,
		APIToken:  cfg.ZendeskAPIToken,
	})
	return service.NewSyncService(subscriberRepo, zendeskClient, knowledgeRepo, ingestSvc, cfg.TicketSearchQuery())
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
