package repository

import (
	"context"
	"strings"
	"testing"
	"time"

	"deal-pulse/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

func noopTracer() trace.Tracer {
	return trace.NewNoopTracerProvider().Tracer("test")
}

func TestDealRunMigrationsExecutesSchema(t *testing.T) {
	pool := &stubPool{}
	repo := NewDealRepository(pool, noopTracer())

	if err := repo.RunMigrations(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pool.execSQL) != 3 {
		t.Fatalf("expected 3 schema statements, got %d", len(pool.execSQL))
	}
	if !strings.Contains(pool.execSQL[0], "deals") || !strings.Contains(pool.execSQL[1], "activities") {
		t.Fatalf("unexpected schema order: %v", pool.execSQL)
	}
}

func TestGetDealMissingReturnsNil(t *testing.T) {
	pool := &stubPool{}
	repo := NewDealRepository(pool, noopTracer())

	deal, err := repo.GetDeal(context.Background(), "nope")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deal != nil {
		t.Fatalf("expected nil deal, got %+v", deal)
	}
}

func TestGetDealScansRow(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	pool := &stubPool{rowData: []any{
		"deal-1", "user-1", "Acme", "https://github.com/acme", "@founder",
		150000.0, 0.4, "negotiation", []string{"saas"}, now, now,
	}}
	repo := NewDealRepository(pool, noopTracer())

	deal, err := repo.GetDeal(context.Background(), "deal-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deal == nil || deal.ID != "deal-1" || deal.Company != "Acme" || deal.Value != 150000 {
		t.Fatalf("unexpected deal: %+v", deal)
	}
	if deal.Stage != "negotiation" || len(deal.Tags) != 1 {
		t.Fatalf("unexpected deal fields: %+v", deal)
	}
}

func TestListAnalyzableDealsFiltersInQuery(t *testing.T) {
	now := time.Now().UTC()
	pool := &stubPool{rowsData: [][]any{{
		"deal-1", "user-1", "Acme", "acme", "", 0.0, 0.0, "lead", []string(nil), now, now,
	}}}
	repo := NewDealRepository(pool, noopTracer())

	deals, err := repo.ListAnalyzableDeals(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(deals) != 1 || deals[0].ID != "deal-1" {
		t.Fatalf("unexpected deals: %+v", deals)
	}
	if !strings.Contains(pool.querySQL[0], "website <> ''") {
		t.Fatalf("expected analyzable filter in query: %s", pool.querySQL[0])
	}
}

func TestUpdateStageTouchesUpdatedAt(t *testing.T) {
	pool := &stubPool{}
	repo := NewDealRepository(pool, noopTracer())

	if err := repo.UpdateStage(context.Background(), "deal-1", "closed-won"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pool.execSQL) != 1 || !strings.Contains(pool.execSQL[0], "updated_at = NOW()") {
		t.Fatalf("expected stage update to touch updated_at: %v", pool.execSQL)
	}
	if pool.execArgs[0][1] != "closed-won" {
		t.Fatalf("unexpected args: %v", pool.execArgs[0])
	}
}

func TestInsertActivity(t *testing.T) {
	pool := &stubPool{}
	repo := NewDealRepository(pool, noopTracer())

	err := repo.InsertActivity(context.Background(), domain.Activity{
		DealID:  "deal-1",
		UserID:  "user-1",
		Type:    domain.ActivityTypeTask,
		Content: "Follow up on Acme",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pool.execArgs[0][2] != domain.ActivityTypeTask {
		t.Fatalf("unexpected activity args: %v", pool.execArgs[0])
	}
}

func TestLatestActivityAtMissingReturnsNil(t *testing.T) {
	pool := &stubPool{}
	repo := NewDealRepository(pool, noopTracer())

	ts, err := repo.LatestActivityAt(context.Background(), "deal-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ts != nil {
		t.Fatalf("expected nil timestamp, got %v", ts)
	}
}

func TestLatestActivityAtReturnsUTC(t *testing.T) {
	loc := time.FixedZone("PST", -8*3600)
	pool := &stubPool{rowData: []any{time.Date(2026, 3, 1, 8, 0, 0, 0, loc)}}
	repo := NewDealRepository(pool, noopTracer())

	ts, err := repo.LatestActivityAt(context.Background(), "deal-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ts == nil || ts.Location() != time.UTC {
		t.Fatalf("expected UTC timestamp, got %v", ts)
	}
}
