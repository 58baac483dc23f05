package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port  string `envconfig:"PORT" default:"8080"`
	Debug bool   `envconfig:"DEBUG" default:"false"`

	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	// Inbound API key for the ingest/reply endpoints. Empty disables auth
	// (local development only).
	APIKey string `envconfig:"API_KEY"`

	OpenAIAPIKey        string `envconfig:"OPENAI_API_KEY"`
	EmbeddingModel      string `envconfig:"EMBEDDING_MODEL" default:"text-embedding-3-small"`
	EmbeddingDimensions int    `envconfig:"EMBEDDING_DIMENSIONS" default:"1536"`
	ChatModel           string `envconfig:"CHAT_MODEL" default:"gpt-4o-mini"`

	// Retrieval tunables. Deployment-level defaults, not per-request knobs.
	MatchThreshold float32 `envconfig:"MATCH_THRESHOLD" default:"0.5"`
	MatchCount     int     `envconfig:"MATCH_COUNT" default:"3"`

	ChunkSize    int `envconfig:"CHUNK_SIZE" default:"1200"`
	ChunkOverlap int `envconfig:"CHUNK_OVERLAP" default:"200"`

	// Optional S3-compatible archive for raw ingested sources.
	S3Endpoint  string `envconfig:"S3_ENDPOINT"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY_ID"`
	S3SecretKey string `envconfig:"S3_SECRET_ACCESS_KEY"`
	S3Bucket    string `envconfig:"S3_BUCKET" default:"replypilot-sources"`
	S3Region    string `envconfig:"S3_REGION" default:"us-east-1"`

	// Ticketing platform credentials for the sync job.
	ZendeskSubdomain string `envconfig:"ZENDESK_SUBDOMAIN"`
	ZendeskEmail     string `envconfig:"ZENDESK_EMAIL"`
	ZendeskAPIToken  string `envconfig:"ZENDESK_API_TOKEN"`

	// Ticket search bounds for the backfill.
	SyncCreatedAfter string `envconfig:"SYNC_CREATED_AFTER" default:"2025-01-01"`
	SyncTicketStatus string `envconfig:"SYNC_TICKET_STATUS" default:"closed"`

	// Zero disables the periodic sync worker; the sync subcommand still works.
	SyncInterval time.Duration `envconfig:"SYNC_INTERVAL" default:"0"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("REPLYPILOT", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) HasS3() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}

func (c *Config) HasOpenAI() bool {
	return c.OpenAIAPIKey != ""
}

func (c *Config) HasZendesk() bool {
	return c.ZendeskSubdomain != "" && c.ZendeskEmail != "" && c.ZendeskAPIToken != ""
}

// TicketSearchQuery builds the fixed ticket-search filter for the sync job.
func (c *Config) TicketSearchQuery() string {
	return fmt.Sprintf("type:ticket created>%s status:%s", c.SyncCreatedAfter, c.SyncTicketStatus)
}
