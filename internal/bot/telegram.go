package bot

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"deal-pulse/internal/domain"

	tele "gopkg.in/telebot.v3"
)

type SentimentQuerier interface {
	ListForDeal(ctx context.Context, dealID string, limit int) ([]domain.SentimentRecord, error)
	CalculateTrends(ctx context.Context, dealID, period string) (*domain.TrendReport, error)
}

func StartTelegramBot(sentimentService SentimentQuerier) *AlertDispatcher {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		log.Println("TELEGRAM_BOT_TOKEN not set, skipping Telegram bot startup")
		return nil
	}
	pref := tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}
	b, err := tele.NewBot(pref)
	if err != nil {
		log.Fatalf("failed to create Telegram bot: %v", err)
	}
	alerts := NewAlertDispatcher(b)

	b.Handle("/ping", func(c tele.Context) error {
		return c.Send("pong")
	})

	b.Handle("/sentiment", func(c tele.Context) error {
		if sentimentService == nil {
			return c.Send("Sentiment service unavailable")
		}
		args := c.Args()
		if len(args) == 0 {
			return c.Send("Usage: /sentiment <dealId>")
		}

		records, err := sentimentService.ListForDeal(context.Background(), args[0], 5)
		if err != nil {
			return c.Send(fmt.Sprintf("Error fetching sentiment for %s: %v", args[0], err))
		}
		if len(records) == 0 {
			return c.Send("No sentiment records for this deal yet.")
		}

		lines := make([]string, 0, len(records)+1)
		lines = append(lines, fmt.Sprintf("Latest sentiment for %s:", args[0]))
		for _, r := range records {
			lines = append(lines, formatRecord(r))
		}
		return c.Send(strings.Join(lines, "\n"))
	})

	b.Handle("/trends", func(c tele.Context) error {
		if sentimentService == nil {
			return c.Send("Sentiment service unavailable")
		}
		args := c.Args()
		if len(args) == 0 {
			return c.Send("Usage: /trends <dealId> [24h|7d|30d|90d]")
		}
		period := "7d"
		if len(args) > 1 {
			period = args[1]
		}

		report, err := sentimentService.CalculateTrends(context.Background(), args[0], period)
		if err != nil {
			return c.Send(fmt.Sprintf("Error computing trends for %s: %v", args[0], err))
		}
		return c.Send(formatTrends(args[0], report))
	})

	b.Handle("/alerts", func(c tele.Context) error {
		chat := c.Chat()
		if chat == nil {
			return c.Send("Unable to detect chat")
		}

		mode, err := parseAlertMode(c.Args())
		if err != nil {
			return c.Send("Usage: /alerts on | /alerts off | /alerts status")
		}

		switch mode {
		case "on":
			if alerts.Subscribe(chat.ID) {
				return c.Send("Deal alerts enabled for this chat.")
			}
			return c.Send("Deal alerts are already enabled for this chat.")
		case "off":
			if alerts.Unsubscribe(chat.ID) {
				return c.Send("Deal alerts disabled for this chat.")
			}
			return c.Send("Deal alerts are already disabled for this chat.")
		default:
			if alerts.IsSubscribed(chat.ID) {
				return c.Send("Alerts status: ON")
			}
			return c.Send("Alerts status: OFF")
		}
	})

	log.Println("Telegram bot started")
	go b.Start()
	return alerts
}

func formatRecord(r domain.SentimentRecord) string {
	content := r.Content
	if len(content) > 60 {
		content = content[:60] + "..."
	}
	return fmt.Sprintf("[%s] %.2f %s: %s", r.Category, r.Score, r.Source, content)
}

func formatTrends(dealID string, report *domain.TrendReport) string {
	return fmt.Sprintf(
		"Trends for %s (%s)\nDirection: %s\nStrength: %.2f\nChange: %.2f\nPrediction: %s (%.0f%% confidence)\nDays with data: %d",
		dealID,
		report.Period,
		report.Trends.Direction,
		report.Trends.Strength,
		report.Trends.Change,
		report.Prediction.Prediction,
		report.Prediction.Confidence*100,
		len(report.DataPoints),
	)
}
