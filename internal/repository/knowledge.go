package repository

import (
	"context"

	"github.com/cloo-solutions/replypilot/internal/domain"
	"github.com/cloo-solutions/replypilot/internal/pagination"
	"github.com/cloo-solutions/replypilot/internal/service"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// KnowledgeRepository persists embedded knowledge records and answers
// nearest-neighbour queries. It is the only writer of the knowledge_base table.
type KnowledgeRepository struct {
	pool *pgxpool.Pool
}

func NewKnowledgeRepository(pool *pgxpool.Pool) *KnowledgeRepository {
	return &KnowledgeRepository{pool: pool}
}

func (r *KnowledgeRepository) Insert(ctx context.Context, rec *domain.KnowledgeRecord) error {
	return insertRecord(ctx, r.pool, rec)
}

// InsertBatch writes all records in one transaction. Either every record
// lands or none does; a failure mid-batch leaves the table unchanged.
func (r *KnowledgeRepository) InsertBatch(ctx context.Context, recs []*domain.KnowledgeRecord) error {
	if len(recs) == 0 {
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, rec := range recs {
		if err := insertRecord(ctx, tx, rec); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func insertRecord(ctx context.Context, q execer, rec *domain.KnowledgeRecord) error {
	_, err := q.Exec(ctx,
		`INSERT INTO knowledge_base (id, content, source, source_name, ticket_id, tags, created_at, ingested_at, embedding)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		rec.ID, rec.Content, string(rec.Source), rec.SourceName, nullableString(rec.TicketID),
		rec.Tags, rec.CreatedAt, rec.IngestedAt, pgvector.NewVector(rec.Embedding),
	)
	return err
}

// Search returns the closest records by cosine similarity, highest first,
// dropping matches below threshold. Similarity is 1 - cosine distance.
func (r *KnowledgeRepository) Search(ctx context.Context, embedding []float32, threshold float32, count int) ([]*domain.RetrievalResult, error) {
	if count <= 0 {
		count = 3
	}

	vec := pgvector.NewVector(embedding)

	rows, err := r.pool.Query(ctx,
		`SELECT content, 1 - (embedding <=> $1) AS similarity
		 FROM knowledge_base
		 WHERE 1 - (embedding <=> $1) >= $2
		 ORDER BY embedding <=> $1
		 LIMIT $3`,
		vec, threshold, count,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]*domain.RetrievalResult, 0, count)
	for rows.Next() {
		var result domain.RetrievalResult
		if err := rows.Scan(&result.Content, &result.Similarity); err != nil {
			return nil, err
		}
		results = append(results, &result)
	}

	return results, rows.Err()
}

// ExistsByTicketID reports whether a ticket has already been ingested,
// making sync re-runs no-ops for tickets that are already indexed.
func (r *KnowledgeRepository) ExistsByTicketID(ctx context.Context, ticketID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM knowledge_base WHERE source = 'ticket' AND ticket_id = $1)`,
		ticketID,
	).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *KnowledgeRepository) GetByID(ctx context.Context, id string) (*domain.KnowledgeRecord, error) {
	rec, err := scanRecordRow(r.pool.QueryRow(ctx,
		`SELECT id, content, source, source_name, ticket_id, tags, created_at, ingested_at
		 FROM knowledge_base WHERE id = $1`,
		id,
	))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrRecordNotFound
		}
		return nil, err
	}
	return rec, nil
}

// ListWithCursor pages through records by (ingested_at, id) keyset, newest first.
// Embeddings are not loaded; listings are metadata views.
func (r *KnowledgeRepository) ListWithCursor(ctx context.Context, cursor *pagination.Cursor, limit int) (*service.RecordPageResult, error) {
	if limit <= 0 {
		limit = 20
	}

	var rows pgx.Rows
	var err error

	if cursor != nil {
		rows, err = r.pool.Query(ctx,
			`SELECT id, content, source, source_name, ticket_id, tags, created_at, ingested_at
			 FROM knowledge_base
			 WHERE (ingested_at, id) < ($1, $2)
			 ORDER BY ingested_at DESC, id DESC
			 LIMIT $3`,
			cursor.Timestamp, cursor.LastID, limit+1,
		)
	} else {
		rows, err = r.pool.Query(ctx,
			`SELECT id, content, source, source_name, ticket_id, tags, created_at, ingested_at
			 FROM knowledge_base
			 ORDER BY ingested_at DESC, id DESC
			 LIMIT $1`,
			limit+1,
		)
	}

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items, err := scanRecordRows(rows)
	if err != nil {
		return nil, err
	}

	hasMore := len(items) > limit
	if hasMore {
		items = items[:limit]
	}

	var nextCursor string
	if hasMore && len(items) > 0 {
		lastItem := items[len(items)-1]
		nextCursor = pagination.EncodeCursor(lastItem.ID, lastItem.IngestedAt)
	}

	return &service.RecordPageResult{
		Items:      items,
		NextCursor: nextCursor,
		HasMore:    hasMore,
	}, nil
}

func scanRecordRows(rows pgx.Rows) ([]*domain.KnowledgeRecord, error) {
	var results []*domain.KnowledgeRecord
	for rows.Next() {
		rec, err := scanRecordRow(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, rec)
	}
	return results, rows.Err()
}

func scanRecordRow(row pgx.Row) (*domain.KnowledgeRecord, error) {
	var rec domain.KnowledgeRecord
	var source string
	var ticketID *string
	if err := row.Scan(&rec.ID, &rec.Content, &source, &rec.SourceName, &ticketID, &rec.Tags, &rec.CreatedAt, &rec.IngestedAt); err != nil {
		return nil, err
	}
	rec.Source = domain.SourceType(source)
	if ticketID != nil {
		rec.TicketID = *ticketID
	}
	return &rec, nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
