package job

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"deal-pulse/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

func noopTracer() trace.Tracer {
	return trace.NewNoopTracerProvider().Tracer("test")
}

func eventually(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(200 * time.Millisecond)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met")
}

type stubDealLister struct {
	deals []domain.Deal
	err   error
	calls int32
}

func (s *stubDealLister) ListAnalyzableDeals(ctx context.Context) ([]domain.Deal, error) {
	atomic.AddInt32(&s.calls, 1)
	return s.deals, s.err
}

type stubAnalyzer struct {
	analyzed []string
	errFor   map[string]error
	calls    int32
}

func (s *stubAnalyzer) AnalyzeDeal(ctx context.Context, dealID string, sources []string) ([]domain.SentimentRecord, error) {
	atomic.AddInt32(&s.calls, 1)
	s.analyzed = append(s.analyzed, dealID)
	if err, ok := s.errFor[dealID]; ok {
		return nil, err
	}
	return nil, nil
}

func TestSentimentSweepStart(t *testing.T) {
	t.Parallel()

	lister := &stubDealLister{deals: []domain.Deal{{ID: "deal-1"}}}
	analyzer := &stubAnalyzer{}
	sweep := NewSentimentSweep(noopTracer(), lister, analyzer, time.Hour, 0)

	ctx, cancel := context.WithCancel(context.Background())
	go sweep.Start(ctx)

	eventually(t, func() bool { return atomic.LoadInt32(&analyzer.calls) > 0 })
	cancel()
}

func TestSentimentSweepAnalyzesEveryDeal(t *testing.T) {
	lister := &stubDealLister{deals: []domain.Deal{{ID: "deal-1"}, {ID: "deal-2"}, {ID: "deal-3"}}}
	analyzer := &stubAnalyzer{errFor: map[string]error{"deal-2": errors.New("fetch failed")}}
	sweep := NewSentimentSweep(noopTracer(), lister, analyzer, time.Hour, 0)

	sweep.sweep(context.Background())

	if len(analyzer.analyzed) != 3 {
		t.Fatalf("expected all 3 deals analyzed despite an error, got %v", analyzer.analyzed)
	}
}

func TestSentimentSweepDelayHonorsCancellation(t *testing.T) {
	lister := &stubDealLister{deals: []domain.Deal{{ID: "deal-1"}, {ID: "deal-2"}}}
	analyzer := &stubAnalyzer{}
	sweep := NewSentimentSweep(noopTracer(), lister, analyzer, time.Hour, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	done := make(chan struct{})
	go func() {
		sweep.sweep(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweep did not stop on cancellation")
	}
}

type stubRuledDeals struct {
	ids   []string
	calls int32
}

func (s *stubRuledDeals) ListDealIDsWithEnabledRules(ctx context.Context) ([]string, error) {
	atomic.AddInt32(&s.calls, 1)
	return s.ids, nil
}

type stubChecker struct {
	checked []string
	errFor  map[string]error
	calls   int32
}

func (s *stubChecker) CheckRules(ctx context.Context, dealID string) error {
	atomic.AddInt32(&s.calls, 1)
	s.checked = append(s.checked, dealID)
	return s.errFor[dealID]
}

func TestAutomationSweepStart(t *testing.T) {
	t.Parallel()

	deals := &stubRuledDeals{ids: []string{"deal-1"}}
	checker := &stubChecker{}
	sweep := NewAutomationSweep(noopTracer(), deals, checker, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	go sweep.Start(ctx)

	eventually(t, func() bool { return atomic.LoadInt32(&checker.calls) > 0 })
	cancel()
}

func TestAutomationSweepChecksEveryDeal(t *testing.T) {
	deals := &stubRuledDeals{ids: []string{"deal-1", "deal-2"}}
	checker := &stubChecker{errFor: map[string]error{"deal-1": errors.New("boom")}}
	sweep := NewAutomationSweep(noopTracer(), deals, checker, time.Hour)

	sweep.sweep(context.Background())

	if len(checker.checked) != 2 {
		t.Fatalf("expected both deals checked despite an error, got %v", checker.checked)
	}
}

type stubPurger struct {
	cutoffs []time.Time
	deleted int64
	err     error
	calls   int32
}

func (s *stubPurger) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	atomic.AddInt32(&s.calls, 1)
	s.cutoffs = append(s.cutoffs, cutoff)
	return s.deleted, s.err
}

func TestRetentionSweepStart(t *testing.T) {
	t.Parallel()

	purger := &stubPurger{deleted: 5}
	sweep := NewRetentionSweep(noopTracer(), purger, time.Hour, 30)

	ctx, cancel := context.WithCancel(context.Background())
	go sweep.Start(ctx)

	eventually(t, func() bool { return atomic.LoadInt32(&purger.calls) > 0 })
	cancel()
}

func TestRetentionSweepUsesRetentionWindow(t *testing.T) {
	now := time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC)
	purger := &stubPurger{}
	sweep := NewRetentionSweep(noopTracer(), purger, time.Hour, 30)
	sweep.now = func() time.Time { return now }

	sweep.sweep(context.Background())

	want := now.AddDate(0, 0, -30)
	if len(purger.cutoffs) != 1 || !purger.cutoffs[0].Equal(want) {
		t.Fatalf("expected cutoff %v, got %v", want, purger.cutoffs)
	}
}

func TestRetentionSweepDefaults(t *testing.T) {
	sweep := NewRetentionSweep(noopTracer(), &stubPurger{}, 0, 0)
	if sweep.interval != 7*24*time.Hour || sweep.retentionDays != 30 {
		t.Fatalf("unexpected defaults: %v/%d", sweep.interval, sweep.retentionDays)
	}
}
