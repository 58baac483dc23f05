package domain

import (
	"fmt"
	"strings"
	"time"
)

// SourceType identifies where a knowledge record came from
type SourceType string

const (
	SourceTypeFile   SourceType = "file"
	SourceTypeURL    SourceType = "url"
	SourceTypeTicket SourceType = "ticket"
)

// KnowledgeRecord is one embedded entry in the knowledge base.
// Records are immutable after ingestion; the core never updates or deletes them.
type KnowledgeRecord struct {
	ID         string
	Content    string
	Source     SourceType
	SourceName string
	TicketID   string // set only for Source == ticket
	Tags       []string
	CreatedAt  time.Time // origin timestamp (e.g. ticket creation)
	IngestedAt time.Time
	Embedding  []float32
}

// RetrievalResult is a single similarity-search match.
// Ephemeral: produced for one request and discarded.
type RetrievalResult struct {
	Content    string
	Similarity float32
}

// NewKnowledgeRecord creates a KnowledgeRecord for file/url ingestion
func NewKnowledgeRecord(id, content string, source SourceType, sourceName string, ingestedAt time.Time) *KnowledgeRecord {
	return &KnowledgeRecord{
		ID:         id,
		Content:    content,
		Source:     source,
		SourceName: sourceName,
		CreatedAt:  ingestedAt,
		IngestedAt: ingestedAt,
	}
}

// ValidateKnowledgeRecord validates a KnowledgeRecord before insertion
func ValidateKnowledgeRecord(r *KnowledgeRecord) error {
	if r == nil {
		return fmt.Errorf("knowledge record cannot be nil")
	}

	if r.ID == "" {
		return fmt.Errorf("knowledge record ID is required")
	}

	if strings.TrimSpace(r.Content) == "" {
		return ErrEmptyContent
	}

	if !IsValidSourceType(r.Source) {
		return ErrInvalidSourceType
	}

	if r.Source == SourceTypeTicket && r.TicketID == "" {
		return fmt.Errorf("knowledge record TicketID is required for ticket source")
	}

	return nil
}

// IsValidSourceType checks if a SourceType is one of the known sources
func IsValidSourceType(s SourceType) bool {
	switch s {
	case SourceTypeFile, SourceTypeURL, SourceTypeTicket:
		return true
	}
	return false
}
