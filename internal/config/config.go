package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	TelegramBotToken string
	DatabaseURL      string
	RedisURL         string

	HTTPPort int

	GitHubToken          string
	TwitterBearerToken   string
	LinkedInClientID     string
	LinkedInClientSecret string

	SentimentSweepSecs int
	SentimentDelayMS   int
	AutomationPollSecs int
	RetentionPollSecs  int
	RetentionDays      int
	TrendCacheSecs     int
}

func Load() *Config {
	cfg := &Config{
		TelegramBotToken:     os.Getenv("TELEGRAM_BOT_TOKEN"),
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		RedisURL:             os.Getenv("REDIS_URL"),
		GitHubToken:          strings.TrimSpace(os.Getenv("GITHUB_TOKEN")),
		TwitterBearerToken:   strings.TrimSpace(os.Getenv("TWITTER_BEARER_TOKEN")),
		LinkedInClientID:     strings.TrimSpace(os.Getenv("LINKEDIN_CLIENT_ID")),
		LinkedInClientSecret: strings.TrimSpace(os.Getenv("LINKEDIN_CLIENT_SECRET")),
	}

	if cfg.TelegramBotToken == "" {
		log.Println("Warning: TELEGRAM_BOT_TOKEN not set")
	}
	if cfg.DatabaseURL == "" {
		log.Println("Warning: DATABASE_URL not set")
	}
	if cfg.RedisURL == "" {
		log.Println("Warning: REDIS_URL not set, defaulting to localhost:6379")
		cfg.RedisURL = "localhost:6379"
	}
	if cfg.GitHubToken == "" {
		log.Println("Warning: GITHUB_TOKEN not set, GitHub analysis will be skipped")
	}
	if cfg.TwitterBearerToken == "" {
		log.Println("Warning: TWITTER_BEARER_TOKEN not set, Twitter analysis will be skipped")
	}

	cfg.HTTPPort = 8080
	if v := strings.TrimSpace(os.Getenv("HTTP_PORT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.HTTPPort = n
		}
	}

	cfg.SentimentSweepSecs = 3600
	if v := strings.TrimSpace(os.Getenv("SENTIMENT_SWEEP_SECS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SentimentSweepSecs = n
		}
	}

	cfg.SentimentDelayMS = 1000
	if v := strings.TrimSpace(os.Getenv("SENTIMENT_DELAY_MS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.SentimentDelayMS = n
		}
	}

	cfg.AutomationPollSecs = 900
	if v := strings.TrimSpace(os.Getenv("AUTOMATION_POLL_SECS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.AutomationPollSecs = n
		}
	}

	cfg.RetentionPollSecs = 7 * 24 * 3600
	if v := strings.TrimSpace(os.Getenv("RETENTION_POLL_SECS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RetentionPollSecs = n
		}
	}

	cfg.RetentionDays = 30
	if v := strings.TrimSpace(os.Getenv("RETENTION_DAYS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RetentionDays = n
		}
	}

	cfg.TrendCacheSecs = 600
	if v := strings.TrimSpace(os.Getenv("TREND_CACHE_SECS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.TrendCacheSecs = n
		}
	}

	return cfg
}
