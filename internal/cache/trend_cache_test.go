package cache

import (
	"context"
	"testing"
	"time"

	"deal-pulse/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestCache(t *testing.T, ttl time.Duration) (*TrendCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewTrendCache(client, ttl), mr
}

func TestTrendCacheRoundTrip(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)
	ctx := context.Background()

	report := domain.TrendReport{
		Period: "7d",
		DataPoints: []domain.TrendPoint{
			{Date: "2026-03-01", Scores: []float64{0.4}, AvgScore: 0.4, Count: 1},
		},
		Trends:     domain.TrendMetrics{Direction: domain.TrendPositive, Strength: 0.4, Change: 0.4},
		Prediction: domain.TrendPrediction{Prediction: domain.PredictionStable, Confidence: 0.5},
	}
	if err := c.Put(ctx, "deal-1", "7d", report); err != nil {
		t.Fatalf("unexpected put error: %v", err)
	}

	got, err := c.Get(ctx, "deal-1", "7d")
	if err != nil {
		t.Fatalf("unexpected get error: %v", err)
	}
	if got == nil || got.Period != "7d" || len(got.DataPoints) != 1 || got.Trends.Direction != domain.TrendPositive {
		t.Fatalf("unexpected cached report: %+v", got)
	}
}

func TestTrendCacheMissReturnsNil(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)

	got, err := c.Get(context.Background(), "deal-1", "30d")
	if err != nil || got != nil {
		t.Fatalf("expected nil/nil on miss, got %v/%v", got, err)
	}
}

func TestTrendCacheExpires(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	if err := c.Put(ctx, "deal-1", "24h", domain.TrendReport{Period: "24h"}); err != nil {
		t.Fatalf("unexpected put error: %v", err)
	}
	mr.FastForward(2 * time.Minute)

	got, err := c.Get(ctx, "deal-1", "24h")
	if err != nil || got != nil {
		t.Fatalf("expected expiry to evict, got %v/%v", got, err)
	}
}

func TestTrendCacheInvalidateDropsAllPeriods(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)
	ctx := context.Background()

	for _, period := range domain.SupportedPeriods {
		if err := c.Put(ctx, "deal-1", period, domain.TrendReport{Period: period}); err != nil {
			t.Fatalf("unexpected put error: %v", err)
		}
	}
	if err := c.Invalidate(ctx, "deal-1"); err != nil {
		t.Fatalf("unexpected invalidate error: %v", err)
	}
	for _, period := range domain.SupportedPeriods {
		got, err := c.Get(ctx, "deal-1", period)
		if err != nil || got != nil {
			t.Fatalf("expected %s to be dropped, got %v/%v", period, got, err)
		}
	}
}

func TestTrendCacheNilClientIsNoop(t *testing.T) {
	var c *TrendCache
	ctx := context.Background()

	if err := c.Put(ctx, "deal-1", "7d", domain.TrendReport{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := c.Get(ctx, "deal-1", "7d")
	if err != nil || got != nil {
		t.Fatalf("expected nil cache to be a noop, got %v/%v", got, err)
	}
}
