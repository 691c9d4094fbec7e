package service

import (
	"context"
	"fmt"
	"log"
	"time"
	"unicode/utf8"

	"deal-pulse/internal/domain"
	"deal-pulse/internal/sentiment"
	"deal-pulse/internal/source"

	"go.opentelemetry.io/otel/trace"
)

const (
	alertWindow    = 24 * time.Hour
	alertThreshold = -0.5
	maxContentLen  = 1000
)

type SentimentDealRepository interface {
	GetDeal(ctx context.Context, id string) (*domain.Deal, error)
}

type SentimentStore interface {
	InsertRecords(ctx context.Context, records []domain.SentimentRecord) ([]domain.SentimentRecord, error)
	ListSince(ctx context.Context, dealID string, since time.Time) ([]domain.SentimentRecord, error)
	ListRecent(ctx context.Context, dealID string, limit int) ([]domain.SentimentRecord, error)
}

type Analyzer interface {
	Analyze(text string) sentiment.Result
}

type SourceProvider interface {
	Fetcher(name string) (source.Fetcher, bool)
}

type TrendCache interface {
	Get(ctx context.Context, dealID, period string) (*domain.TrendReport, error)
	Put(ctx context.Context, dealID, period string, report domain.TrendReport) error
	Invalidate(ctx context.Context, dealID string) error
}

type EventPublisher interface {
	Publish(room string, event domain.Event)
}

type SentimentService struct {
	tracer   trace.Tracer
	dealRepo SentimentDealRepository
	store    SentimentStore
	analyzer Analyzer
	sources  SourceProvider
	cache    TrendCache
	events   EventPublisher
	now      func() time.Time
}

func NewSentimentService(
	tracer trace.Tracer,
	dealRepo SentimentDealRepository,
	store SentimentStore,
	analyzer Analyzer,
	sources SourceProvider,
	cache TrendCache,
	events EventPublisher,
) *SentimentService {
	return &SentimentService{
		tracer:   tracer,
		dealRepo: dealRepo,
		store:    store,
		analyzer: analyzer,
		sources:  sources,
		cache:    cache,
		events:   events,
		now:      time.Now,
	}
}

// defaultSources is what sweeps and batch analysis request when the caller
// does not name any.
var defaultSources = []string{domain.SourceGitHub}

// AnalyzeDeal pulls fresh content for the requested sources, scores it, and
// persists the resulting records. An empty source list means github only. A
// source that errors is skipped; the others still land. The alert check always
// runs afterwards, even when no new content turned up. Returns the persisted
// records.
func (s *SentimentService) AnalyzeDeal(ctx context.Context, dealID string, sources []string) ([]domain.SentimentRecord, error) {
	_, span := s.tracer.Start(ctx, "sentiment-service.analyze-deal")
	defer span.End()

	if s.dealRepo == nil || s.store == nil || s.analyzer == nil {
		return nil, fmt.Errorf("sentiment service is not fully initialized")
	}

	deal, err := s.dealRepo.GetDeal(ctx, dealID)
	if err != nil {
		return nil, fmt.Errorf("get deal %s: %w", dealID, err)
	}
	if deal == nil {
		return nil, fmt.Errorf("deal not found: %s", dealID)
	}

	if len(sources) == 0 {
		sources = defaultSources
	}
	var records []domain.SentimentRecord
	for _, name := range sources {
		records = append(records, s.analyzeSource(ctx, *deal, name)...)
	}

	var persisted []domain.SentimentRecord
	if len(records) > 0 {
		persisted, err = s.store.InsertRecords(ctx, records)
		if err != nil {
			return nil, fmt.Errorf("insert sentiment records: %w", err)
		}
		if s.cache != nil {
			if err := s.cache.Invalidate(ctx, dealID); err != nil {
				log.Printf("trend cache invalidate for deal %s: %v", dealID, err)
			}
		}
	}
	if err := s.CheckSentimentAlerts(ctx, dealID); err != nil {
		log.Printf("sentiment alert check for deal %s: %v", dealID, err)
	}
	return persisted, nil
}

func (s *SentimentService) analyzeSource(ctx context.Context, deal domain.Deal, name string) []domain.SentimentRecord {
	if s.sources == nil {
		return nil
	}
	fetcher, ok := s.sources.Fetcher(name)
	if !ok {
		return nil
	}
	identifier := source.Identifier(deal, name)
	if identifier == "" {
		return nil
	}

	items, err := fetcher.Fetch(ctx, identifier)
	if err != nil {
		log.Printf("fetch %s content for deal %s: %v", name, deal.ID, err)
		return nil
	}

	var records []domain.SentimentRecord
	for _, item := range items {
		text := source.ExtractText(item, name)
		if text == "" {
			continue
		}
		res := s.analyzer.Analyze(text)
		records = append(records, domain.SentimentRecord{
			DealID:    deal.ID,
			Source:    name,
			Content:   truncate(text, maxContentLen),
			URL:       item.URL,
			Score:     res.Score,
			Magnitude: res.Magnitude,
			Category:  res.Category,
		})
	}
	return records
}

// CalculateTrends builds the trend report for a deal over a period, serving
// from the cache when warm. Unknown periods fall back to 7d.
func (s *SentimentService) CalculateTrends(ctx context.Context, dealID, period string) (*domain.TrendReport, error) {
	_, span := s.tracer.Start(ctx, "sentiment-service.calculate-trends")
	defer span.End()

	if s.store == nil {
		return nil, fmt.Errorf("sentiment service is not fully initialized")
	}

	if !isSupportedPeriod(period) {
		period = "7d"
	}
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, dealID, period)
		if err != nil {
			log.Printf("trend cache get for deal %s: %v", dealID, err)
		} else if cached != nil {
			return cached, nil
		}
	}

	since := s.now().UTC().AddDate(0, 0, -domain.PeriodToDays(period))
	records, err := s.store.ListSince(ctx, dealID, since)
	if err != nil {
		return nil, fmt.Errorf("list sentiment since %s: %w", since.Format(time.RFC3339), err)
	}

	report := sentiment.Aggregate(period, records)
	if s.cache != nil {
		if err := s.cache.Put(ctx, dealID, period, report); err != nil {
			log.Printf("trend cache put for deal %s: %v", dealID, err)
		}
	}
	return &report, nil
}

// CheckSentimentAlerts publishes an alert to the deal owner's room when the
// trailing 24h mean crosses the alert threshold. A missing deal is a no-op.
func (s *SentimentService) CheckSentimentAlerts(ctx context.Context, dealID string) error {
	_, span := s.tracer.Start(ctx, "sentiment-service.check-sentiment-alerts")
	defer span.End()

	if s.dealRepo == nil || s.store == nil {
		return fmt.Errorf("sentiment service is not fully initialized")
	}

	deal, err := s.dealRepo.GetDeal(ctx, dealID)
	if err != nil {
		return fmt.Errorf("get deal %s: %w", dealID, err)
	}
	if deal == nil {
		return nil
	}

	records, err := s.store.ListSince(ctx, dealID, s.now().UTC().Add(-alertWindow))
	if err != nil {
		return fmt.Errorf("list recent sentiment: %w", err)
	}
	if len(records) == 0 {
		return nil
	}

	mean := sentiment.MeanScore(records)
	if mean >= alertThreshold {
		return nil
	}

	if s.events != nil {
		s.events.Publish(domain.UserRoom(deal.UserID), domain.Event{
			Name: domain.EventSentimentAlert,
			Payload: domain.SentimentAlertPayload{
				DealID:  deal.ID,
				Type:    "negative",
				Message: fmt.Sprintf("Significant negative sentiment detected for %s", deal.Company),
				Score:   mean,
			},
		})
	}
	return nil
}

// ListForDeal returns a deal's most recent records, newest first.
func (s *SentimentService) ListForDeal(ctx context.Context, dealID string, limit int) ([]domain.SentimentRecord, error) {
	_, span := s.tracer.Start(ctx, "sentiment-service.list-for-deal")
	defer span.End()

	if s.store == nil {
		return nil, fmt.Errorf("sentiment service is not fully initialized")
	}
	return s.store.ListRecent(ctx, dealID, limit)
}

func isSupportedPeriod(period string) bool {
	for _, p := range domain.SupportedPeriods {
		if p == period {
			return true
		}
	}
	return false
}

// truncate cuts text to at most max bytes without splitting a rune.
func truncate(text string, max int) string {
	if len(text) <= max {
		return text
	}
	for max > 0 && !utf8.RuneStart(text[max]) {
		max--
	}
	return text[:max]
}
