package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cloo-solutions/replypilot/internal/domain"
	"github.com/cloo-solutions/replypilot/internal/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestListingService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("returns a page with defaults", func(t *testing.T) {
		mockRepo := new(MockRecordLister)
		svc := NewListingService(mockRepo)

		page := &RecordPageResult{
			Items:   []*domain.KnowledgeRecord{{ID: "rec-1"}},
			HasMore: false,
		}
		mockRepo.On("ListWithCursor", mock.Anything, (*pagination.Cursor)(nil), defaultListLimit).
			Return(page, nil)

		result, err := svc.List(ctx, "", 0)

		require.NoError(t, err)
		assert.Equal(t, page, result)
		mockRepo.AssertExpectations(t)
	})

	t.Run("decodes the cursor before querying", func(t *testing.T) {
		mockRepo := new(MockRecordLister)
		svc := NewListingService(mockRepo)

		ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		cursorStr := pagination.EncodeCursor("rec-5", ts)

		mockRepo.On("ListWithCursor", mock.Anything, mock.MatchedBy(func(c *pagination.Cursor) bool {
			return c != nil && c.LastID == "rec-5" && c.Timestamp.Equal(ts)
		}), 10).Return(&RecordPageResult{}, nil)

		_, err := svc.List(ctx, cursorStr, 10)

		require.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("invalid cursor is a validation error", func(t *testing.T) {
		mockRepo := new(MockRecordLister)
		svc := NewListingService(mockRepo)

		_, err := svc.List(ctx, "not-base64!!", 10)

		require.Error(t, err)
		assert.Equal(t, domain.ErrCodeValidation, domain.ErrorCode(err))
		mockRepo.AssertNotCalled(t, "ListWithCursor", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("limit is clamped to the maximum", func(t *testing.T) {
		mockRepo := new(MockRecordLister)
		svc := NewListingService(mockRepo)

		mockRepo.On("ListWithCursor", mock.Anything, (*pagination.Cursor)(nil), maxListLimit).
			Return(&RecordPageResult{}, nil)

		_, err := svc.List(ctx, "", 5000)

		require.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("store failure surfaces as store error", func(t *testing.T) {
		mockRepo := new(MockRecordLister)
		svc := NewListingService(mockRepo)

		mockRepo.On("ListWithCursor", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, errors.New("connection refused"))

		_, err := svc.List(ctx, "", 10)

		require.Error(t, err)
		assert.Equal(t, domain.ErrCodeStore, domain.ErrorCode(err))
	})
}

func TestListingService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the record", func(t *testing.T) {
		mockRepo := new(MockRecordLister)
		svc := NewListingService(mockRepo)

		rec := &domain.KnowledgeRecord{ID: "rec-1", Content: "hello"}
		mockRepo.On("GetByID", mock.Anything, "rec-1").Return(rec, nil)

		result, err := svc.Get(ctx, "rec-1")

		require.NoError(t, err)
		assert.Equal(t, rec, result)
	})

	t.Run("missing record passes through not found", func(t *testing.T) {
		mockRepo := new(MockRecordLister)
		svc := NewListingService(mockRepo)

		mockRepo.On("GetByID", mock.Anything, "missing").Return(nil, domain.ErrRecordNotFound)

		_, err := svc.Get(ctx, "missing")

		assert.ErrorIs(t, err, domain.ErrRecordNotFound)
	})
}
