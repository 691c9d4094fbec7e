package repository

import (
	"context"
	"time"

	"deal-pulse/internal/domain"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel/trace"
)

type SentimentRepository struct {
	pool   PgxPool
	tracer trace.Tracer
}

func NewSentimentRepository(pool PgxPool, tracer trace.Tracer) *SentimentRepository {
	return &SentimentRepository{pool: pool, tracer: tracer}
}

func (r *SentimentRepository) RunMigrations(ctx context.Context) error {
	_, span := r.tracer.Start(ctx, "sentiment-repo.run-migrations")
	defer span.End()

	statements := []string{
		`CREATE TABLE IF NOT EXISTS sentiments (
			id BIGSERIAL PRIMARY KEY,
			deal_id TEXT NOT NULL REFERENCES deals(id) ON DELETE CASCADE,
			source TEXT NOT NULL,
			content TEXT NOT NULL,
			url TEXT NOT NULL DEFAULT '',
			score DOUBLE PRECISION NOT NULL,
			magnitude DOUBLE PRECISION NOT NULL,
			category TEXT NOT NULL,
			analyzed_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_sentiments_deal_analyzed
			ON sentiments (deal_id, analyzed_at)`,
	}
	for _, stmt := range statements {
		if _, err := r.pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertRecords persists scored items in one batch and returns them with ids
// and timestamps filled in.
func (r *SentimentRepository) InsertRecords(ctx context.Context, records []domain.SentimentRecord) ([]domain.SentimentRecord, error) {
	if len(records) == 0 {
		return nil, nil
	}

	_, span := r.tracer.Start(ctx, "sentiment-repo.insert-records")
	defer span.End()

	batch := &pgx.Batch{}
	for _, rec := range records {
		batch.Queue(
			`INSERT INTO sentiments (deal_id, source, content, url, score, magnitude, category)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 RETURNING id, analyzed_at, created_at`,
			rec.DealID, rec.Source, rec.Content, rec.URL, rec.Score, rec.Magnitude, string(rec.Category),
		)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	out := make([]domain.SentimentRecord, len(records))
	copy(out, records)
	for i := range records {
		if err := br.QueryRow().Scan(&out[i].ID, &out[i].AnalyzedAt, &out[i].CreatedAt); err != nil {
			return nil, err
		}
		out[i].AnalyzedAt = out[i].AnalyzedAt.UTC()
		out[i].CreatedAt = out[i].CreatedAt.UTC()
	}
	return out, nil
}

// ListSince returns a deal's records analyzed at or after the cutoff, oldest
// first.
func (r *SentimentRepository) ListSince(ctx context.Context, dealID string, since time.Time) ([]domain.SentimentRecord, error) {
	_, span := r.tracer.Start(ctx, "sentiment-repo.list-since")
	defer span.End()

	rows, err := r.pool.Query(ctx,
		`SELECT id, deal_id, source, content, url, score, magnitude, category, analyzed_at, created_at
		 FROM sentiments
		 WHERE deal_id = $1 AND analyzed_at >= $2
		 ORDER BY analyzed_at ASC`,
		dealID, since.UTC(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSentiments(rows)
}

// ListRecent returns a deal's newest records first, capped at limit.
func (r *SentimentRepository) ListRecent(ctx context.Context, dealID string, limit int) ([]domain.SentimentRecord, error) {
	_, span := r.tracer.Start(ctx, "sentiment-repo.list-recent")
	defer span.End()

	if limit <= 0 {
		limit = 10
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, deal_id, source, content, url, score, magnitude, category, analyzed_at, created_at
		 FROM sentiments
		 WHERE deal_id = $1
		 ORDER BY analyzed_at DESC
		 LIMIT $2`,
		dealID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanSentiments(rows)
}

// DeleteOlderThan purges records analyzed before the cutoff and reports how
// many were removed.
func (r *SentimentRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	_, span := r.tracer.Start(ctx, "sentiment-repo.delete-older-than")
	defer span.End()

	tag, err := r.pool.Exec(ctx,
		`DELETE FROM sentiments WHERE analyzed_at < $1`,
		cutoff.UTC(),
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanSentiments(rows pgx.Rows) ([]domain.SentimentRecord, error) {
	var records []domain.SentimentRecord
	for rows.Next() {
		var rec domain.SentimentRecord
		var category string
		if err := rows.Scan(
			&rec.ID, &rec.DealID, &rec.Source, &rec.Content, &rec.URL,
			&rec.Score, &rec.Magnitude, &category, &rec.AnalyzedAt, &rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		rec.Category = domain.Category(category)
		rec.AnalyzedAt = rec.AnalyzedAt.UTC()
		rec.CreatedAt = rec.CreatedAt.UTC()
		records = append(records, rec)
	}
	return records, rows.Err()
}
