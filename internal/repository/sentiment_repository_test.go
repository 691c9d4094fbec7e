package repository

import (
	"context"
	"strings"
	"testing"
	"time"

	"deal-pulse/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestSentimentInsertRecordsBatches(t *testing.T) {
	now := time.Now().UTC()
	batchResults := &stubBatchResults{rowData: [][]any{
		{int64(1), now, now},
		{int64(2), now, now},
	}}
	pool := &stubPool{batchResults: batchResults}
	repo := NewSentimentRepository(pool, noopTracer())

	records := []domain.SentimentRecord{
		{DealID: "deal-1", Source: domain.SourceGitHub, Content: "fix broken build", Score: -0.4, Magnitude: 2, Category: domain.CategoryNegative},
		{DealID: "deal-1", Source: domain.SourceGitHub, Content: "ship awesome feature", Score: 0.8, Magnitude: 4, Category: domain.CategoryPositive},
	}
	out, err := repo.InsertRecords(context.Background(), records)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pool.queuedBatch == nil || pool.queuedBatch.Len() != 2 {
		t.Fatal("expected batch of 2 inserts")
	}
	if len(out) != 2 || out[0].ID != 1 || out[1].ID != 2 {
		t.Fatalf("expected ids filled in, got %+v", out)
	}
	if out[0].Content != "fix broken build" || out[1].Category != domain.CategoryPositive {
		t.Fatalf("expected input fields preserved, got %+v", out)
	}
}

func TestSentimentInsertRecordsEmptyIsNoop(t *testing.T) {
	pool := &stubPool{}
	repo := NewSentimentRepository(pool, noopTracer())

	out, err := repo.InsertRecords(context.Background(), nil)
	if err != nil || out != nil {
		t.Fatalf("expected nil/nil for empty input, got %v/%v", out, err)
	}
	if pool.queuedBatch != nil {
		t.Fatal("expected no batch for empty input")
	}
}

func TestSentimentListSinceOrdersAscending(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	pool := &stubPool{rowsData: [][]any{
		{int64(1), "deal-1", "github", "text", "", -0.2, 1.0, "NEUTRAL", now.Add(-time.Hour), now},
		{int64(2), "deal-1", "github", "text", "", 0.4, 2.0, "POSITIVE", now, now},
	}}
	repo := NewSentimentRepository(pool, noopTracer())

	records, err := repo.ListSince(context.Background(), "deal-1", now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 || records[0].ID != 1 || records[1].Category != domain.CategoryPositive {
		t.Fatalf("unexpected records: %+v", records)
	}
	if !strings.Contains(pool.querySQL[0], "ORDER BY analyzed_at ASC") {
		t.Fatalf("expected ascending order: %s", pool.querySQL[0])
	}
}

func TestSentimentListRecentDefaultsLimit(t *testing.T) {
	pool := &stubPool{}
	repo := NewSentimentRepository(pool, noopTracer())

	if _, err := repo.ListRecent(context.Background(), "deal-1", 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	args := pool.queryArgs[0]
	if len(args) != 2 || args[1] != 10 {
		t.Fatalf("expected default limit 10, got %v", args)
	}
	if !strings.Contains(pool.querySQL[0], "ORDER BY analyzed_at DESC") {
		t.Fatalf("expected descending order: %s", pool.querySQL[0])
	}
}

func TestSentimentDeleteOlderThanReportsCount(t *testing.T) {
	pool := &stubPool{execTag: pgconn.NewCommandTag("DELETE 3")}
	repo := NewSentimentRepository(pool, noopTracer())

	deleted, err := repo.DeleteOlderThan(context.Background(), time.Now().AddDate(0, 0, -30))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted != 3 {
		t.Fatalf("expected 3 deleted, got %d", deleted)
	}
}
