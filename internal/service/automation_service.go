package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"deal-pulse/internal/automation"
	"deal-pulse/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

const snapshotSentimentLimit = 10

type AutomationDealRepository interface {
	GetDeal(ctx context.Context, id string) (*domain.Deal, error)
	UpdateStage(ctx context.Context, dealID, stage string) error
	UpdateProbability(ctx context.Context, dealID string, probability float64) error
	InsertActivity(ctx context.Context, activity domain.Activity) error
	LatestActivityAt(ctx context.Context, dealID string) (*time.Time, error)
}

type RuleStore interface {
	ListEnabled(ctx context.Context, dealID string) ([]domain.AutomationRule, error)
	UpdateLastRun(ctx context.Context, ruleID int64, lastRun time.Time) error
}

type RecentSentimentStore interface {
	ListRecent(ctx context.Context, dealID string, limit int) ([]domain.SentimentRecord, error)
}

type RuleEngine interface {
	ShouldTrigger(rule domain.AutomationRule, snap automation.DealSnapshot) bool
}

type AutomationService struct {
	tracer     trace.Tracer
	dealRepo   AutomationDealRepository
	rules      RuleStore
	sentiments RecentSentimentStore
	engine     RuleEngine
	events     EventPublisher
	now        func() time.Time
}

func NewAutomationService(
	tracer trace.Tracer,
	dealRepo AutomationDealRepository,
	rules RuleStore,
	sentiments RecentSentimentStore,
	engine RuleEngine,
	events EventPublisher,
) *AutomationService {
	return &AutomationService{
		tracer:     tracer,
		dealRepo:   dealRepo,
		rules:      rules,
		sentiments: sentiments,
		engine:     engine,
		events:     events,
		now:        time.Now,
	}
}

// CheckRules evaluates every enabled rule on a deal and executes the ones that
// fire. One rule failing never blocks the rest; a missing deal is a no-op.
func (s *AutomationService) CheckRules(ctx context.Context, dealID string) error {
	_, span := s.tracer.Start(ctx, "automation-service.check-rules")
	defer span.End()

	if s.dealRepo == nil || s.rules == nil || s.engine == nil {
		return fmt.Errorf("automation service is not fully initialized")
	}

	deal, err := s.dealRepo.GetDeal(ctx, dealID)
	if err != nil {
		return fmt.Errorf("get deal %s: %w", dealID, err)
	}
	if deal == nil {
		return nil
	}

	rules, err := s.rules.ListEnabled(ctx, dealID)
	if err != nil {
		return fmt.Errorf("list rules for deal %s: %w", dealID, err)
	}
	if len(rules) == 0 {
		return nil
	}

	snap := automation.DealSnapshot{Deal: *deal}
	if s.sentiments != nil {
		recent, err := s.sentiments.ListRecent(ctx, dealID, snapshotSentimentLimit)
		if err != nil {
			log.Printf("list recent sentiment for deal %s: %v", dealID, err)
		} else {
			snap.Sentiments = recent
		}
	}
	lastActivity, err := s.dealRepo.LatestActivityAt(ctx, dealID)
	if err != nil {
		log.Printf("latest activity for deal %s: %v", dealID, err)
	} else {
		snap.LastActivityAt = lastActivity
	}

	for _, rule := range rules {
		if !s.engine.ShouldTrigger(rule, snap) {
			continue
		}
		if err := s.execute(ctx, rule, *deal); err != nil {
			log.Printf("execute rule %d on deal %s: %v", rule.ID, dealID, err)
			continue
		}
		if err := s.rules.UpdateLastRun(ctx, rule.ID, s.now().UTC()); err != nil {
			log.Printf("update last run for rule %d: %v", rule.ID, err)
		}
	}
	return nil
}

func (s *AutomationService) execute(ctx context.Context, rule domain.AutomationRule, deal domain.Deal) error {
	switch rule.Action {
	case domain.ActionMoveStage:
		return s.moveStage(ctx, rule, deal)
	case domain.ActionSendNotification:
		s.notify(deal, automation.NotificationMessage(rule.Params, deal.Company), automation.NotificationType(rule.Params))
		return nil
	case domain.ActionCreateTask:
		return s.dealRepo.InsertActivity(ctx, domain.Activity{
			DealID:  deal.ID,
			UserID:  deal.UserID,
			Type:    domain.ActivityTypeTask,
			Content: automation.TaskContent(rule.Params, deal.Company),
		})
	case domain.ActionUpdateProbability:
		return s.dealRepo.UpdateProbability(ctx, deal.ID, automation.ClampProbability(rule.Params))
	default:
		return fmt.Errorf("unknown action type: %s", rule.Action)
	}
}

func (s *AutomationService) moveStage(ctx context.Context, rule domain.AutomationRule, deal domain.Deal) error {
	stage := rule.Params.Stage
	if stage == "" {
		return fmt.Errorf("move_stage rule %d has no target stage", rule.ID)
	}
	if err := s.dealRepo.UpdateStage(ctx, deal.ID, stage); err != nil {
		return fmt.Errorf("update stage: %w", err)
	}
	if err := s.dealRepo.InsertActivity(ctx, domain.Activity{
		DealID:  deal.ID,
		UserID:  deal.UserID,
		Type:    domain.ActivityTypeAutomation,
		Content: fmt.Sprintf("Automatically moved to %s", stage),
	}); err != nil {
		log.Printf("record stage move activity for deal %s: %v", deal.ID, err)
	}
	if s.events != nil {
		s.events.Publish(domain.UserRoom(deal.UserID), domain.Event{
			Name: domain.EventDealMoved,
			Payload: domain.DealMovedPayload{
				DealID:    deal.ID,
				Stage:     stage,
				Automated: true,
			},
		})
	}
	return nil
}

func (s *AutomationService) notify(deal domain.Deal, message, notifType string) {
	if s.events == nil {
		return
	}
	s.events.Publish(domain.UserRoom(deal.UserID), domain.Event{
		Name: domain.EventAutomationNotification,
		Payload: domain.NotificationPayload{
			DealID:  deal.ID,
			Company: deal.Company,
			Message: message,
			Type:    notifType,
		},
	})
}
