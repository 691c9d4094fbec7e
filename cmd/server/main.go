package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"deal-pulse/internal/automation"
	"deal-pulse/internal/bot"
	"deal-pulse/internal/cache"
	"deal-pulse/internal/config"
	"deal-pulse/internal/db"
	"deal-pulse/internal/domain"
	"deal-pulse/internal/event"
	"deal-pulse/internal/handler"
	"deal-pulse/internal/job"
	"deal-pulse/internal/repository"
	"deal-pulse/internal/sentiment"
	"deal-pulse/internal/service"
	"deal-pulse/internal/source"
	"deal-pulse/pkg/tracing"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	_ "deal-pulse/docs"
)

var (
	loadEnvFunc              = godotenv.Load
	loadConfigFunc           = config.Load
	initPostgresFunc         = db.InitPostgres
	initRedisFunc            = cache.InitRedis
	initTracerFunc           = tracing.InitTracer
	newDealRepoFunc          = repository.NewDealRepository
	newSentimentRepoFunc     = repository.NewSentimentRepository
	newRuleRepoFunc          = repository.NewRuleRepository
	newSentimentServiceFunc  = service.NewSentimentService
	newAutomationServiceFunc = service.NewAutomationService
	newSentimentSweepFunc    = job.NewSentimentSweep
	newAutomationSweepFunc   = job.NewAutomationSweep
	newRetentionSweepFunc    = job.NewRetentionSweep
	startSentimentSweepFunc  = func(s *job.SentimentSweep, ctx context.Context) { go s.Start(ctx) }
	startAutomationSweepFunc = func(s *job.AutomationSweep, ctx context.Context) { go s.Start(ctx) }
	startRetentionSweepFunc  = func(s *job.RetentionSweep, ctx context.Context) { go s.Start(ctx) }
	startTelegramBotFunc     = bot.StartTelegramBot
	newHandlerFunc           = handler.New
	newRouterFunc            = gin.Default
	setupSignalNotify        = ossignal.Notify
	waitForSignalFunc        = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc      = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc   = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

// @title           Deal Pulse API
// @version         1.0
// @description     Sentiment tracking, trend scoring, and deal automation.

// @host      localhost:8080
// @BasePath  /
func main() {
	loadEnvFunc()

	cfg := loadConfigFunc()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init Postgres and Redis
	os.Setenv("DATABASE_URL", cfg.DatabaseURL)
	os.Setenv("REDIS_URL", cfg.RedisURL)
	initPostgresFunc(ctx)
	initRedisFunc(ctx)

	// Init tracing
	tp, tracer, err := initTracerFunc(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	// Create repositories and run migrations
	dealRepo := newDealRepoFunc(db.Pool, tracer)
	sentimentRepo := newSentimentRepoFunc(db.Pool, tracer)
	ruleRepo := newRuleRepoFunc(db.Pool, tracer)
	if db.Pool != nil {
		if err := dealRepo.RunMigrations(ctx); err != nil {
			log.Fatalf("failed to run deal migrations: %v", err)
		}
		if err := sentimentRepo.RunMigrations(ctx); err != nil {
			log.Fatalf("failed to run sentiment migrations: %v", err)
		}
		if err := ruleRepo.RunMigrations(ctx); err != nil {
			log.Fatalf("failed to run rule migrations: %v", err)
		}
	}

	// Content sources
	registry := source.NewRegistry()
	registry.Register(domain.SourceGitHub, source.NewGitHubFetcher(cfg.GitHubToken))
	registry.Register(domain.SourceTwitter, source.NewTwitterFetcher(cfg.TwitterBearerToken))
	registry.Register(domain.SourceLinkedIn, source.NewLinkedInFetcher(cfg.LinkedInClientID, cfg.LinkedInClientSecret))

	// Event fan-out: websocket rooms plus (optionally) Telegram
	hub := event.NewHub()
	events := event.NewFanout(hub)

	var trendCache *cache.TrendCache
	if cache.Client != nil {
		trendCache = cache.NewTrendCache(cache.Client, time.Duration(cfg.TrendCacheSecs)*time.Second)
	}

	// Services
	sentimentService := newSentimentServiceFunc(
		tracer, dealRepo, sentimentRepo, sentiment.NewScorer(), registry, trendCache, events,
	)
	automationService := newAutomationServiceFunc(
		tracer, dealRepo, ruleRepo, sentimentRepo, automation.NewEngine(nil), events,
	)

	// Background sweeps (stopped by ctx cancel) need Postgres
	if db.Pool != nil {
		sentimentSweep := newSentimentSweepFunc(
			tracer, dealRepo, sentimentService,
			time.Duration(cfg.SentimentSweepSecs)*time.Second,
			time.Duration(cfg.SentimentDelayMS)*time.Millisecond,
		)
		startSentimentSweepFunc(sentimentSweep, ctx)
		automationSweep := newAutomationSweepFunc(
			tracer, ruleRepo, automationService,
			time.Duration(cfg.AutomationPollSecs)*time.Second,
		)
		startAutomationSweepFunc(automationSweep, ctx)
		retentionSweep := newRetentionSweepFunc(
			tracer, sentimentRepo,
			time.Duration(cfg.RetentionPollSecs)*time.Second,
			cfg.RetentionDays,
		)
		startRetentionSweepFunc(retentionSweep, ctx)
	}

	// Start Telegram bot and mirror events to subscribed chats
	os.Setenv("TELEGRAM_BOT_TOKEN", cfg.TelegramBotToken)
	if alerts := startTelegramBotFunc(sentimentService); alerts != nil {
		events.Add(alerts)
	}

	// Create handlers and routes
	h := newHandlerFunc(tracer, sentimentService, automationService, hub)

	r := newRouterFunc()
	r.Use(otelgin.Middleware("deal-pulse"))
	r.Use(cors.Default())

	h.RegisterRoutes(r)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler: r,
	}

	go func() {
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Println("Shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
