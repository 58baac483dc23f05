package admin

import (
	"context"
	"fmt"
	"log"

	"github.com/cloo-solutions/replypilot/internal/config"
	"github.com/cloo-solutions/replypilot/internal/database"
	openaiclient "github.com/cloo-solutions/replypilot/internal/openai"
	"github.com/cloo-solutions/replypilot/internal/repository"
	"github.com/cloo-solutions/replypilot/internal/service"
	openai "github.com/sashabaranov/go-openai"
	"github.com/spf13/cobra"
)

// SyncCmd returns the sync command
func SyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Index closed support tickets into the knowledge base",
		Long: "Fetch closed tickets from the ticketing platform, keep the ones raised " +
			"by subscribers, and index their problem/solution pairs for retrieval.",
		RunE: runSync,
	}

	cmd.Flags().Bool("no-migrate", false, "Skip automatic database migrations before syncing")

	return cmd
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if shutdown := initTelemetry(); shutdown != nil {
		defer shutdown()
	}

	if !cfg.HasOpenAI() {
		return fmt.Errorf("OPENAI_API_KEY is required to sync")
	}
	if !cfg.HasZendesk() {
		return fmt.Errorf("ZENDESK_SUBDOMAIN, ZENDESK_EMAIL and ZENDESK_API_TOKEN are required to sync")
	}

	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	noMigrate, _ := cmd.Flags().GetBool("no-migrate")
	if !noMigrate {
		if err := runMigrations(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
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

	syncSvc := newSyncService(cfg, pool, ingestSvc, knowledgeRepo)

	log.Printf("starting ticket sync (%s)", cfg.TicketSearchQuery())
	report, err := syncSvc.Run(ctx)
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	log.Printf("sync complete: processed=%d skipped=%d pages=%d",
		report.Processed, report.Skipped, report.Pages)
	return nil
}
