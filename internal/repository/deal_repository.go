package repository

import (
	"context"
	"errors"
	"time"

	"deal-pulse/internal/domain"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel/trace"
)

type DealRepository struct {
	pool   PgxPool
	tracer trace.Tracer
}

func NewDealRepository(pool PgxPool, tracer trace.Tracer) *DealRepository {
	return &DealRepository{pool: pool, tracer: tracer}
}

func (r *DealRepository) RunMigrations(ctx context.Context) error {
	_, span := r.tracer.Start(ctx, "deal-repo.run-migrations")
	defer span.End()

	statements := []string{
		`CREATE TABLE IF NOT EXISTS deals (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			company TEXT NOT NULL,
			website TEXT NOT NULL DEFAULT '',
			contact TEXT NOT NULL DEFAULT '',
			value DOUBLE PRECISION NOT NULL DEFAULT 0,
			probability DOUBLE PRECISION NOT NULL DEFAULT 0,
			stage TEXT NOT NULL DEFAULT 'lead',
			tags TEXT[] NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS activities (
			id BIGSERIAL PRIMARY KEY,
			deal_id TEXT NOT NULL REFERENCES deals(id) ON DELETE CASCADE,
			user_id TEXT NOT NULL,
			type TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_activities_deal_created
			ON activities (deal_id, created_at DESC)`,
	}
	for _, stmt := range statements {
		if _, err := r.pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// GetDeal returns nil without error when the deal does not exist.
func (r *DealRepository) GetDeal(ctx context.Context, dealID string) (*domain.Deal, error) {
	_, span := r.tracer.Start(ctx, "deal-repo.get-deal")
	defer span.End()

	row := r.pool.QueryRow(ctx,
		`SELECT id, user_id, company, website, contact, value, probability, stage, tags, created_at, updated_at
		 FROM deals WHERE id = $1`,
		dealID,
	)

	var d domain.Deal
	err := row.Scan(
		&d.ID, &d.UserID, &d.Company, &d.Website, &d.Contact,
		&d.Value, &d.Probability, &d.Stage, &d.Tags, &d.CreatedAt, &d.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	d.CreatedAt = d.CreatedAt.UTC()
	d.UpdatedAt = d.UpdatedAt.UTC()
	return &d, nil
}

// ListAnalyzableDeals returns deals with a website or contact set, the ones a
// sentiment sweep can fetch content for.
func (r *DealRepository) ListAnalyzableDeals(ctx context.Context) ([]domain.Deal, error) {
	_, span := r.tracer.Start(ctx, "deal-repo.list-analyzable-deals")
	defer span.End()

	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, company, website, contact, value, probability, stage, tags, created_at, updated_at
		 FROM deals
		 WHERE website <> '' OR contact <> ''
		 ORDER BY id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanDeals(rows)
}

func (r *DealRepository) UpdateStage(ctx context.Context, dealID, stage string) error {
	_, span := r.tracer.Start(ctx, "deal-repo.update-stage")
	defer span.End()

	_, err := r.pool.Exec(ctx,
		`UPDATE deals SET stage = $2, updated_at = NOW() WHERE id = $1`,
		dealID, stage,
	)
	return err
}

func (r *DealRepository) UpdateProbability(ctx context.Context, dealID string, probability float64) error {
	_, span := r.tracer.Start(ctx, "deal-repo.update-probability")
	defer span.End()

	_, err := r.pool.Exec(ctx,
		`UPDATE deals SET probability = $2, updated_at = NOW() WHERE id = $1`,
		dealID, probability,
	)
	return err
}

func (r *DealRepository) InsertActivity(ctx context.Context, activity domain.Activity) error {
	_, span := r.tracer.Start(ctx, "deal-repo.insert-activity")
	defer span.End()

	_, err := r.pool.Exec(ctx,
		`INSERT INTO activities (deal_id, user_id, type, content) VALUES ($1, $2, $3, $4)`,
		activity.DealID, activity.UserID, activity.Type, activity.Content,
	)
	return err
}

// LatestActivityAt returns nil when the deal has no activities.
func (r *DealRepository) LatestActivityAt(ctx context.Context, dealID string) (*time.Time, error) {
	_, span := r.tracer.Start(ctx, "deal-repo.latest-activity-at")
	defer span.End()

	row := r.pool.QueryRow(ctx,
		`SELECT created_at FROM activities WHERE deal_id = $1 ORDER BY created_at DESC LIMIT 1`,
		dealID,
	)

	var ts time.Time
	err := row.Scan(&ts)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	ts = ts.UTC()
	return &ts, nil
}

func scanDeals(rows pgx.Rows) ([]domain.Deal, error) {
	var deals []domain.Deal
	for rows.Next() {
		var d domain.Deal
		if err := rows.Scan(
			&d.ID, &d.UserID, &d.Company, &d.Website, &d.Contact,
			&d.Value, &d.Probability, &d.Stage, &d.Tags, &d.CreatedAt, &d.UpdatedAt,
		); err != nil {
			return nil, err
		}
		d.CreatedAt = d.CreatedAt.UTC()
		d.UpdatedAt = d.UpdatedAt.UTC()
		deals = append(deals, d)
	}
	return deals, rows.Err()
}
