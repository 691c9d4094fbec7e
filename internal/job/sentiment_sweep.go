package job

import (
	"context"
	"log"
	"time"

	"deal-pulse/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

type AnalyzableDealLister interface {
	ListAnalyzableDeals(ctx context.Context) ([]domain.Deal, error)
}

type DealAnalyzer interface {
	AnalyzeDeal(ctx context.Context, dealID string, sources []string) ([]domain.SentimentRecord, error)
}

// SentimentSweep periodically re-analyzes every deal with an analyzable
// source. Deals are processed one at a time with a delay between them to keep
// external APIs happy.
type SentimentSweep struct {
	tracer   trace.Tracer
	deals    AnalyzableDealLister
	analyzer DealAnalyzer
	interval time.Duration
	delay    time.Duration
}

func NewSentimentSweep(
	tracer trace.Tracer,
	deals AnalyzableDealLister,
	analyzer DealAnalyzer,
	interval time.Duration,
	delay time.Duration,
) *SentimentSweep {
	if interval <= 0 {
		interval = time.Hour
	}
	return &SentimentSweep{
		tracer:   tracer,
		deals:    deals,
		analyzer: analyzer,
		interval: interval,
		delay:    delay,
	}
}

// Start runs sweeps until ctx is cancelled. Blocks.
func (s *SentimentSweep) Start(ctx context.Context) {
	if s.deals == nil || s.analyzer == nil {
		log.Println("Sentiment sweep disabled: missing dependencies")
		<-ctx.Done()
		return
	}

	log.Println("Sentiment sweep starting...")
	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Sentiment sweep stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *SentimentSweep) sweep(ctx context.Context) {
	_, span := s.tracer.Start(ctx, "sentiment-sweep.sweep")
	defer span.End()

	deals, err := s.deals.ListAnalyzableDeals(ctx)
	if err != nil {
		log.Printf("sentiment sweep: list deals: %v", err)
		return
	}

	for i, deal := range deals {
		if _, err := s.analyzer.AnalyzeDeal(ctx, deal.ID, nil); err != nil {
			log.Printf("sentiment sweep: analyze deal %s: %v", deal.ID, err)
		}
		if i == len(deals)-1 || s.delay <= 0 {
			continue
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(s.delay):
		}
	}
}
