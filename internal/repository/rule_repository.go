package repository

import (
	"context"
	"encoding/json"
	"time"

	"deal-pulse/internal/domain"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel/trace"
)

type RuleRepository struct {
	pool   PgxPool
	tracer trace.Tracer
}

func NewRuleRepository(pool PgxPool, tracer trace.Tracer) *RuleRepository {
	return &RuleRepository{pool: pool, tracer: tracer}
}

func (r *RuleRepository) RunMigrations(ctx context.Context) error {
	_, span := r.tracer.Start(ctx, "rule-repo.run-migrations")
	defer span.End()

	statements := []string{
		`CREATE TABLE IF NOT EXISTS automation_rules (
			id BIGSERIAL PRIMARY KEY,
			deal_id TEXT NOT NULL REFERENCES deals(id) ON DELETE CASCADE,
			trigger_type TEXT NOT NULL,
			condition JSONB NOT NULL DEFAULT '{}',
			action_type TEXT NOT NULL,
			action_data JSONB NOT NULL DEFAULT '{}',
			enabled BOOLEAN NOT NULL DEFAULT TRUE,
			last_run TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_automation_rules_deal
			ON automation_rules (deal_id) WHERE enabled`,
	}
	for _, stmt := range statements {
		if _, err := r.pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// ListEnabled returns a deal's enabled rules in storage order.
func (r *RuleRepository) ListEnabled(ctx context.Context, dealID string) ([]domain.AutomationRule, error) {
	_, span := r.tracer.Start(ctx, "rule-repo.list-enabled")
	defer span.End()

	rows, err := r.pool.Query(ctx,
		`SELECT id, deal_id, trigger_type, condition, action_type, action_data, enabled, last_run, created_at
		 FROM automation_rules
		 WHERE deal_id = $1 AND enabled
		 ORDER BY id`,
		dealID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRules(rows)
}

// ListDealIDsWithEnabledRules returns the deals an automation sweep needs to
// visit.
func (r *RuleRepository) ListDealIDsWithEnabledRules(ctx context.Context) ([]string, error) {
	_, span := r.tracer.Start(ctx, "rule-repo.list-deal-ids-with-enabled-rules")
	defer span.End()

	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT deal_id FROM automation_rules WHERE enabled ORDER BY deal_id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *RuleRepository) UpdateLastRun(ctx context.Context, ruleID int64, lastRun time.Time) error {
	_, span := r.tracer.Start(ctx, "rule-repo.update-last-run")
	defer span.End()

	_, err := r.pool.Exec(ctx,
		`UPDATE automation_rules SET last_run = $2 WHERE id = $1`,
		ruleID, lastRun.UTC(),
	)
	return err
}

func scanRules(rows pgx.Rows) ([]domain.AutomationRule, error) {
	var rules []domain.AutomationRule
	for rows.Next() {
		var rule domain.AutomationRule
		var trigger, action string
		var condition, actionData []byte
		var lastRun *time.Time
		if err := rows.Scan(
			&rule.ID, &rule.DealID, &trigger, &condition, &action, &actionData,
			&rule.Enabled, &lastRun, &rule.CreatedAt,
		); err != nil {
			return nil, err
		}
		rule.Trigger = domain.TriggerType(trigger)
		rule.Action = domain.ActionType(action)
		// Malformed JSON leaves the zero value, which evaluates as defaults.
		if len(condition) > 0 {
			_ = json.Unmarshal(condition, &rule.Condition)
		}
		if len(actionData) > 0 {
			_ = json.Unmarshal(actionData, &rule.Params)
		}
		if lastRun != nil {
			utc := lastRun.UTC()
			rule.LastRun = &utc
		}
		rule.CreatedAt = rule.CreatedAt.UTC()
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}
