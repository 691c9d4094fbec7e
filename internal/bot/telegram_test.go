package bot

import (
	"strings"
	"testing"

	"deal-pulse/internal/domain"
)

func TestStartTelegramBotWithoutToken(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	if d := StartTelegramBot(nil); d != nil {
		t.Fatal("expected nil dispatcher without a token")
	}
}

func TestFormatRecordTruncatesContent(t *testing.T) {
	r := domain.SentimentRecord{
		Source:   domain.SourceGitHub,
		Score:    -0.6,
		Category: domain.CategoryNegative,
		Content:  strings.Repeat("x", 100),
	}
	got := formatRecord(r)
	if !strings.Contains(got, "[NEGATIVE] -0.60 github:") {
		t.Fatalf("unexpected prefix: %s", got)
	}
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("expected truncated content: %s", got)
	}
}

func TestFormatTrends(t *testing.T) {
	report := &domain.TrendReport{
		Period: "30d",
		DataPoints: []domain.TrendPoint{
			{Date: "2026-03-01"}, {Date: "2026-03-02"},
		},
		Trends:     domain.TrendMetrics{Direction: domain.TrendNegative, Strength: 0.6, Change: -0.6},
		Prediction: domain.TrendPrediction{Prediction: domain.PredictionDeclining, Confidence: 0.6},
	}
	got := formatTrends("deal-1", report)
	for _, want := range []string{"deal-1", "30d", "negative", "declining", "60% confidence", "Days with data: 2"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in %s", want, got)
		}
	}
}
