package service

import (
	"context"

	"github.com/cloo-solutions/replypilot/internal/domain"
	"github.com/cloo-solutions/replypilot/internal/pagination"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// RecordPageResult is one page of knowledge records, newest first.
type RecordPageResult struct {
	Items      []*domain.KnowledgeRecord
	NextCursor string
	HasMore    bool
}

// RecordLister reads pages of knowledge records from the store.
type RecordLister interface {
	ListWithCursor(ctx context.Context, cursor *pagination.Cursor, limit int) (*RecordPageResult, error)
	GetByID(ctx context.Context, id string) (*domain.KnowledgeRecord, error)
}

// ListingService exposes read-only views over the knowledge base.
type ListingService struct {
	repo RecordLister
}

func NewListingService(repo RecordLister) *ListingService {
	return &ListingService{repo: repo}
}

// List returns one page of records. An unparseable cursor is a validation
// error; limit is clamped to [1, maxListLimit] with a default of
// defaultListLimit when zero.
func (s *ListingService) List(ctx context.Context, cursorStr string, limit int) (*RecordPageResult, error) {
	cursor, err := pagination.DecodeCursor(cursorStr)
	if err != nil {
		return nil, &domain.DomainError{
			Code:    domain.ErrCodeValidation,
			Message: "invalid cursor",
			Err:     err,
		}
	}

	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	page, err := s.repo.ListWithCursor(ctx, cursor, limit)
	if err != nil {
		return nil, domain.NewStoreError(err)
	}
	return page, nil
}

// Get returns a single record by ID.
func (s *ListingService) Get(ctx context.Context, id string) (*domain.KnowledgeRecord, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if err == domain.ErrRecordNotFound {
			return nil, err
		}
		return nil, domain.NewStoreError(err)
	}
	return rec, nil
}
