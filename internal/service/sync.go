package service

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/cloo-solutions/replypilot/internal/domain"
	"github.com/cloo-solutions/replypilot/internal/telemetry"
)

// SubscriberSource lists the customer emails whose tickets are worth
// indexing.
type SubscriberSource interface {
	ListEmails(ctx context.Context) ([]string, error)
}

// TicketAPI is the upstream ticketing platform as the sync job sees it.
type TicketAPI interface {
	SearchTickets(ctx context.Context, query, cursor string) (*domain.TicketPage, error)
	ListComments(ctx context.Context, ticketID int64) ([]*domain.TicketComment, error)
	GetUser(ctx context.Context, userID int64) (*domain.TicketUser, error)
}

// Ingestor indexes one piece of content into the knowledge base.
type Ingestor interface {
	Ingest(ctx context.Context, input IngestInput) ([]string, error)
}

// RecordChecker answers whether a ticket has already been indexed.
type RecordChecker interface {
	ExistsByTicketID(ctx context.Context, ticketID string) (bool, error)
}

// ResolutionExtractor distills a ticket plus its conversation into a
// problem/solution pair. A nil return with nil error means the ticket has
// no usable resolution and should be skipped.
type ResolutionExtractor interface {
	Extract(ticket *domain.Ticket, comments []*domain.TicketComment) *Resolution
}

// Resolution is the extracted outcome of a closed ticket.
type Resolution struct {
	Problem  string
	Solution string
}

// LastAgentReplyExtractor treats the ticket description as the problem and
// the last public comment not written by the requester as the solution.
type LastAgentReplyExtractor struct{}

func (LastAgentReplyExtractor) Extract(ticket *domain.Ticket, comments []*domain.TicketComment) *Resolution {
	var solution string
	for _, c := range comments {
		if c.Public && c.AuthorID != ticket.RequesterID {
			solution = c.Body
		}
	}
	if solution == "" {
		return nil
	}
	return &Resolution{Problem: ticket.Description, Solution: solution}
}

// SyncReport summarizes one sync run.
type SyncReport struct {
	Processed int
	Skipped   int
	Pages     int
}

// SyncService walks closed tickets from the ticketing platform, keeps the
// ones raised by subscribers, and indexes their resolutions.
type SyncService struct {
	subscribers SubscriberSource
	tickets     TicketAPI
	checker     RecordChecker
	ingestor    Ingestor
	extractor   ResolutionExtractor
	query       string
}

func NewSyncService(subscribers SubscriberSource, tickets TicketAPI, checker RecordChecker, ingestor Ingestor, query string) *SyncService {
	return &SyncService{
		subscribers: subscribers,
		tickets:     tickets,
		checker:     checker,
		ingestor:    ingestor,
		extractor:   LastAgentReplyExtractor{},
		query:       query,
	}
}

// WithExtractor swaps the resolution heuristic.
func (s *SyncService) WithExtractor(e ResolutionExtractor) *SyncService {
	s.extractor = e
	return s
}

// Run executes one full sync pass.
//
// The subscriber list is the gate: a failure to load it aborts the run,
// and an empty list finishes immediately with zero processed. Page fetch
// failures stop pagination but keep the progress already made; per-ticket
// failures (user lookup, comment fetch, indexing) skip that ticket only.
func (s *SyncService) Run(ctx context.Context) (*SyncReport, error) {
	ctx, span := telemetry.StartSpan(ctx, "SyncService.Run", telemetry.SpanAttributes{
		Operation: "sync",
	})
	defer span.End()

	emails, err := s.subscribers.ListEmails(ctx)
	if err != nil {
		span.SetError(err)
		return nil, domain.NewStoreError(err)
	}
	if len(emails) == 0 {
		log.Printf("sync: no subscribers found, nothing to do")
		return &SyncReport{}, nil
	}

	subscriberEmails := make(map[string]struct{}, len(emails))
	for _, e := range emails {
		subscriberEmails[strings.ToLower(e)] = struct{}{}
	}
	log.Printf("sync: %d unique subscribers", len(subscriberEmails))

	report := &SyncReport{}
	cursor := ""
	for {
		page, err := s.tickets.SearchTickets(ctx, s.query, cursor)
		if err != nil {
			telemetry.CaptureError(ctx, err)
			if report.Pages == 0 {
				span.SetError(err)
				return nil, domain.NewUpstreamFetchError("ticket search failed", err)
			}
			log.Printf("sync: page fetch failed after %d pages, keeping progress: %v", report.Pages, err)
			return report, nil
		}
		report.Pages++

		for _, ticket := range page.Tickets {
			if err := s.processTicket(ctx, ticket, subscriberEmails, report); err != nil {
				log.Printf("sync: skipping ticket %d: %v", ticket.ID, err)
				telemetry.CaptureError(ctx, err)
				report.Skipped++
			}
		}

		if page.NextCursor == "" {
			break
		}
		cursor = page.NextCursor
	}

	log.Printf("sync: complete, processed %d tickets across %d pages (%d skipped)",
		report.Processed, report.Pages, report.Skipped)
	return report, nil
}

func (s *SyncService) processTicket(ctx context.Context, ticket *domain.Ticket, subscriberEmails map[string]struct{}, report *SyncReport) error {
	user, err := s.tickets.GetUser(ctx, ticket.RequesterID)
	if err != nil {
		return fmt.Errorf("failed to resolve requester %d: %w", ticket.RequesterID, err)
	}
	if _, ok := subscriberEmails[strings.ToLower(user.Email)]; !ok {
		return nil
	}

	ticketID := strconv.FormatInt(ticket.ID, 10)
	exists, err := s.checker.ExistsByTicketID(ctx, ticketID)
	if err != nil {
		return fmt.Errorf("failed to check existing record: %w", err)
	}
	if exists {
		return nil
	}

	comments, err := s.tickets.ListComments(ctx, ticket.ID)
	if err != nil {
		return fmt.Errorf("failed to fetch comments: %w", err)
	}

	resolution := s.extractor.Extract(ticket, comments)
	if resolution == nil {
		// No agent reply: nothing worth indexing.
		return nil
	}

	content := fmt.Sprintf("Ticket ID: %d\nSubject: %s\n\nProblem:\n%s\n\nSolution:\n%s",
		ticket.ID, ticket.Subject, resolution.Problem, resolution.Solution)

	if _, err := s.ingestor.Ingest(ctx, IngestInput{
		Content:   content,
		Source:    domain.SourceTypeTicket,
		Name:      fmt.Sprintf("ticket-%d", ticket.ID),
		TicketID:  ticketID,
		Tags:      ticket.Tags,
		CreatedAt: ticket.CreatedAt,
	}); err != nil {
		return fmt.Errorf("failed to index ticket: %w", err)
	}

	report.Processed++
	return nil
}
