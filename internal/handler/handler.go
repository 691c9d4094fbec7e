package handler

import (
	"net/http"

	"deal-pulse/internal/event"
	"deal-pulse/internal/service"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

type Handler struct {
	tracer            trace.Tracer
	sentimentService  *service.SentimentService
	automationService *service.AutomationService
	hub               *event.Hub
}

func New(
	tracer trace.Tracer,
	sentimentService *service.SentimentService,
	automationService *service.AutomationService,
	hub *event.Hub,
) *Handler {
	return &Handler{
		tracer:            tracer,
		sentimentService:  sentimentService,
		automationService: automationService,
		hub:               hub,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)
	r.GET("/api/deals/:id/sentiment", h.GetDealSentiment)
	r.GET("/api/deals/:id/sentiment/trends", h.GetDealTrends)
	r.POST("/api/sentiment/analyze", h.AnalyzeDeal)
	r.POST("/api/sentiment/batch", h.AnalyzeBatch)
	r.POST("/api/deals/:id/automation/check", h.CheckAutomation)
	r.GET("/ws", h.ServeWS)
}

// Health godoc
// @Summary      Health check
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
