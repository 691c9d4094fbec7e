package job

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel/trace"
)

type RuledDealLister interface {
	ListDealIDsWithEnabledRules(ctx context.Context) ([]string, error)
}

type RuleChecker interface {
	CheckRules(ctx context.Context, dealID string) error
}

// AutomationSweep periodically evaluates automation rules on every deal that
// has at least one enabled rule.
type AutomationSweep struct {
	tracer   trace.Tracer
	deals    RuledDealLister
	checker  RuleChecker
	interval time.Duration
}

func NewAutomationSweep(
	tracer trace.Tracer,
	deals RuledDealLister,
	checker RuleChecker,
	interval time.Duration,
) *AutomationSweep {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &AutomationSweep{
		tracer:   tracer,
		deals:    deals,
		checker:  checker,
		interval: interval,
	}
}

// Start runs sweeps until ctx is cancelled. Blocks.
func (s *AutomationSweep) Start(ctx context.Context) {
	if s.deals == nil || s.checker == nil {
		log.Println("Automation sweep disabled: missing dependencies")
		<-ctx.Done()
		return
	}

	log.Println("Automation sweep starting...")
	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Automation sweep stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *AutomationSweep) sweep(ctx context.Context) {
	_, span := s.tracer.Start(ctx, "automation-sweep.sweep")
	defer span.End()

	ids, err := s.deals.ListDealIDsWithEnabledRules(ctx)
	if err != nil {
		log.Printf("automation sweep: list deals: %v", err)
		return
	}

	for _, id := range ids {
		if err := s.checker.CheckRules(ctx, id); err != nil {
			log.Printf("automation sweep: check deal %s: %v", id, err)
		}
	}
}
