package domain

import "time"

// Ticket is a support ticket as reported by the ticketing platform.
// Read-only input to the sync job; never mutated or persisted by the core.
type Ticket struct {
	ID          int64
	Subject     string
	Description string
	RequesterID int64
	CreatedAt   time.Time
	Tags        []string
}

// TicketComment is one entry in a ticket's conversation, in posting order.
type TicketComment struct {
	AuthorID int64
	Public   bool
	Body     string
}

// TicketUser is the requester identity resolved through a secondary lookup.
type TicketUser struct {
	ID    int64
	Email string
}

// TicketPage is one page of ticket search results. NextCursor is the
// API-provided next page URL, empty when the result set is exhausted.
type TicketPage struct {
	Tickets    []*Ticket
	NextCursor string
}
