package domain

import "time"

type Deal struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Company     string    `json:"company"`
	Website     string    `json:"website,omitempty"`
	Contact     string    `json:"contact,omitempty"`
	Value       float64   `json:"value"`
	Probability float64   `json:"probability"`
	Stage       string    `json:"stage"`
	Tags        []string  `json:"tags,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Activity struct {
	ID        int64     `json:"id"`
	DealID    string    `json:"deal_id"`
	UserID    string    `json:"user_id"`
	Type      string    `json:"type"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

const (
	ActivityTypeAutomation = "automation"
	ActivityTypeTask       = "task"
)

type Category string

const (
	CategoryPositive Category = "POSITIVE"
	CategoryNegative Category = "NEGATIVE"
	CategoryNeutral  Category = "NEUTRAL"
)

const (
	SourceGitHub   = "github"
	SourceTwitter  = "twitter"
	SourceLinkedIn = "linkedin"
)

var SupportedSources = []string{SourceGitHub, SourceTwitter, SourceLinkedIn}

// SentimentRecord is one scored unit of ingested text tied to a deal and source.
// Records are immutable once written; only the retention sweep removes them.
type SentimentRecord struct {
	ID         int64     `json:"id"`
	DealID     string    `json:"deal_id"`
	Source     string    `json:"source"`
	Content    string    `json:"content"`
	URL        string    `json:"url,omitempty"`
	Score      float64   `json:"score"`
	Magnitude  float64   `json:"magnitude"`
	Category   Category  `json:"category"`
	AnalyzedAt time.Time `json:"analyzed_at"`
	CreatedAt  time.Time `json:"created_at"`
}

var SupportedPeriods = []string{"24h", "7d", "30d", "90d"}

var periodDays = map[string]int{
	"24h": 1,
	"7d":  7,
	"30d": 30,
	"90d": 90,
}

// PeriodToDays maps a trend period string to calendar days, defaulting to 7.
func PeriodToDays(period string) int {
	if days, ok := periodDays[period]; ok {
		return days
	}
	return 7
}

// TrendPoint is a calendar-day aggregation of sentiment scores for one deal.
type TrendPoint struct {
	Date     string    `json:"date"`
	Scores   []float64 `json:"scores"`
	AvgScore float64   `json:"avg_score"`
	Count    int       `json:"count"`
}

type TrendDirection string

const (
	TrendPositive TrendDirection = "positive"
	TrendNegative TrendDirection = "negative"
	TrendNeutral  TrendDirection = "neutral"
)

type TrendMetrics struct {
	Direction TrendDirection `json:"direction"`
	Strength  float64        `json:"strength"`
	Change    float64        `json:"change"`
}

type TrendPrediction struct {
	Prediction string  `json:"prediction"`
	Confidence float64 `json:"confidence"`
}

const (
	PredictionImproving = "improving"
	PredictionDeclining = "declining"
	PredictionStable    = "stable"
)

type TrendReport struct {
	Period     string          `json:"period"`
	DataPoints []TrendPoint    `json:"data_points"`
	Trends     TrendMetrics    `json:"trends"`
	Prediction TrendPrediction `json:"prediction"`
}

type TriggerType string

const (
	TriggerSentimentDrop  TriggerType = "sentiment_drop"
	TriggerTimeInStage    TriggerType = "time_in_stage"
	TriggerValueThreshold TriggerType = "value_threshold"
	TriggerNoActivity     TriggerType = "no_activity"
)

type ActionType string

const (
	ActionMoveStage         ActionType = "move_stage"
	ActionSendNotification  ActionType = "send_notification"
	ActionCreateTask        ActionType = "create_task"
	ActionUpdateProbability ActionType = "update_probability"
)

// TriggerCondition holds the optional parameters a trigger can carry. Missing
// fields fall back to per-trigger defaults at evaluation time.
type TriggerCondition struct {
	Threshold *float64 `json:"threshold,omitempty"`
	Days      *int     `json:"days,omitempty"`
	MinValue  *float64 `json:"minValue,omitempty"`
}

// ActionParams holds the optional parameters an action can carry.
type ActionParams struct {
	Stage       string   `json:"stage,omitempty"`
	Message     string   `json:"message,omitempty"`
	Type        string   `json:"type,omitempty"`
	Task        string   `json:"task,omitempty"`
	Probability *float64 `json:"probability,omitempty"`
}

// AutomationRule is a user-configured trigger/action binding on one deal. The
// engine only reads rules and bumps LastRun; it never creates or deletes them.
type AutomationRule struct {
	ID        int64            `json:"id"`
	DealID    string           `json:"deal_id"`
	Trigger   TriggerType      `json:"trigger"`
	Condition TriggerCondition `json:"condition"`
	Action    ActionType       `json:"action"`
	Params    ActionParams     `json:"action_data"`
	Enabled   bool             `json:"enabled"`
	LastRun   *time.Time       `json:"last_run,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

const (
	EventDealMoved              = "deal-moved"
	EventSentimentAlert         = "sentiment-alert"
	EventAutomationNotification = "automation-notification"
)

type Event struct {
	Name    string `json:"event"`
	Payload any    `json:"payload"`
}

type DealMovedPayload struct {
	DealID    string `json:"deal_id"`
	Stage     string `json:"stage"`
	Automated bool   `json:"automated"`
}

type SentimentAlertPayload struct {
	DealID  string  `json:"deal_id"`
	Type    string  `json:"type"`
	Message string  `json:"message"`
	Score   float64 `json:"score"`
}

type NotificationPayload struct {
	DealID  string `json:"deal_id"`
	Company string `json:"company"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

// UserRoom names the per-user fan-out room events are addressed to.
func UserRoom(userID string) string {
	return "user-" + userID
}
