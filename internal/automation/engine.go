package automation

import (
	"fmt"
	"time"

	"deal-pulse/internal/domain"
)

const (
	// RuleCooldown is a global floor on how often any single rule may fire,
	// measured against that rule's own LastRun.
	RuleCooldown = 60 * time.Second

	defaultSentimentThreshold = -0.3
	defaultStageDays          = 7
	defaultValueMinimum       = 100000.0
	defaultInactivityDays     = 3
)

// DealSnapshot is the live state a trigger is evaluated against.
type DealSnapshot struct {
	Deal           domain.Deal
	Sentiments     []domain.SentimentRecord // newest first, at most ten
	LastActivityAt *time.Time               // nil when the deal has no activities
}

// Engine evaluates trigger predicates. It is pure apart from the injected
// clock; executing actions is the automation service's job.
type Engine struct {
	now func() time.Time
}

func NewEngine(now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{now: now}
}

// ShouldTrigger reports whether the rule fires against the snapshot. A rule
// whose LastRun is within the cooldown never fires, regardless of trigger
// type. Missing condition fields take their documented defaults.
func (e *Engine) ShouldTrigger(rule domain.AutomationRule, snap DealSnapshot) bool {
	now := e.now()
	if rule.LastRun != nil && now.Sub(*rule.LastRun) < RuleCooldown {
		return false
	}

	switch rule.Trigger {
	case domain.TriggerSentimentDrop:
		return sentimentDrop(rule.Condition, snap.Sentiments)
	case domain.TriggerTimeInStage:
		return daysSince(now, snap.Deal.UpdatedAt) >= intOr(rule.Condition.Days, defaultStageDays)
	case domain.TriggerValueThreshold:
		return snap.Deal.Value >= floatOr(rule.Condition.MinValue, defaultValueMinimum)
	case domain.TriggerNoActivity:
		if snap.LastActivityAt == nil {
			return true
		}
		return daysSince(now, *snap.LastActivityAt) >= intOr(rule.Condition.Days, defaultInactivityDays)
	default:
		return false
	}
}

func sentimentDrop(cond domain.TriggerCondition, sentiments []domain.SentimentRecord) bool {
	if len(sentiments) < 2 {
		return false
	}
	recent := sentiments[0].Score
	previous := sentiments[1].Score
	threshold := floatOr(cond.Threshold, defaultSentimentThreshold)
	return recent < threshold && recent < previous
}

// NotificationMessage resolves the send_notification message, defaulting to a
// templated one naming the company.
func NotificationMessage(params domain.ActionParams, company string) string {
	if params.Message != "" {
		return params.Message
	}
	return fmt.Sprintf("Automation triggered for %s", company)
}

// NotificationType resolves the send_notification type, defaulting to "info".
func NotificationType(params domain.ActionParams) string {
	if params.Type != "" {
		return params.Type
	}
	return "info"
}

// TaskContent resolves the create_task content, defaulting to a follow-up
// naming the company.
func TaskContent(params domain.ActionParams, company string) string {
	if params.Task != "" {
		return params.Task
	}
	return fmt.Sprintf("Follow up on %s", company)
}

// ClampProbability bounds an update_probability target to [0, 1]. A missing
// probability clamps to 0.
func ClampProbability(params domain.ActionParams) float64 {
	if params.Probability == nil {
		return 0
	}
	p := *params.Probability
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

func daysSince(now, t time.Time) int {
	diff := now.Sub(t)
	if diff < 0 {
		return 0
	}
	return int(diff.Hours() / 24)
}

func intOr(v *int, fallback int) int {
	if v != nil {
		return *v
	}
	return fallback
}

func floatOr(v *float64, fallback float64) float64 {
	if v != nil {
		return *v
	}
	return fallback
}
