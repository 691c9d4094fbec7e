package job

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel/trace"
)

type SentimentPurger interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// RetentionSweep prunes sentiment records older than the retention window so
// the table does not grow without bound.
type RetentionSweep struct {
	tracer        trace.Tracer
	store         SentimentPurger
	interval      time.Duration
	retentionDays int
	now           func() time.Time
}

func NewRetentionSweep(
	tracer trace.Tracer,
	store SentimentPurger,
	interval time.Duration,
	retentionDays int,
) *RetentionSweep {
	if interval <= 0 {
		interval = 7 * 24 * time.Hour
	}
	if retentionDays <= 0 {
		retentionDays = 30
	}
	return &RetentionSweep{
		tracer:        tracer,
		store:         store,
		interval:      interval,
		retentionDays: retentionDays,
		now:           time.Now,
	}
}

// Start runs sweeps until ctx is cancelled. Blocks.
func (s *RetentionSweep) Start(ctx context.Context) {
	if s.store == nil {
		log.Println("Retention sweep disabled: no sentiment store")
		<-ctx.Done()
		return
	}

	log.Println("Retention sweep starting...")
	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Retention sweep stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *RetentionSweep) sweep(ctx context.Context) {
	_, span := s.tracer.Start(ctx, "retention-sweep.sweep")
	defer span.End()

	cutoff := s.now().UTC().AddDate(0, 0, -s.retentionDays)
	deleted, err := s.store.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		log.Printf("retention sweep: delete old records: %v", err)
		return
	}
	if deleted > 0 {
		log.Printf("retention sweep: deleted %d records older than %s", deleted, cutoff.Format("2006-01-02"))
	}
}
