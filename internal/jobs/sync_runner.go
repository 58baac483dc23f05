package jobs

import (
	"context"
	"fmt"
	"log"

	"github.com/cloo-solutions/replypilot/internal/service"
)

// TicketSyncer runs one full ticket sync pass.
type TicketSyncer interface {
	Run(ctx context.Context) (*service.SyncReport, error)
}

// SyncRunner adapts the ticket sync service to the worker loop so the
// knowledge base keeps up with newly closed tickets without manual runs.
type SyncRunner struct {
	syncer TicketSyncer
}

func NewSyncRunner(syncer TicketSyncer) *SyncRunner {
	return &SyncRunner{syncer: syncer}
}

// ProcessJobs implements the JobProcessor interface.
func (r *SyncRunner) ProcessJobs(ctx context.Context) error {
	report, err := r.syncer.Run(ctx)
	if err != nil {
		return fmt.Errorf("ticket sync failed: %w", err)
	}

	if report.Processed > 0 || report.Skipped > 0 {
		log.Printf("ticket sync: processed=%d skipped=%d pages=%d",
			report.Processed, report.Skipped, report.Pages)
	}
	return nil
}
