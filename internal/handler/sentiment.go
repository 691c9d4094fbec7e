package handler

import (
	"net/http"
	"strconv"
	"strings"

	"deal-pulse/internal/domain"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

func isSupportedSource(name string) bool {
	for _, s := range domain.SupportedSources {
		if s == name {
			return true
		}
	}
	return false
}

type analyzeRequest struct {
	DealID  string   `json:"dealId" binding:"required"`
	Sources []string `json:"sources"`
}

type batchRequest struct {
	DealIDs []string `json:"dealIds" binding:"required"`
}

type batchResult struct {
	DealID   string `json:"dealId"`
	Analyzed int    `json:"analyzed"`
	Error    string `json:"error,omitempty"`
}

// GetDealSentiment godoc
// @Summary      Get recent sentiment records for a deal
// @Description  Returns the most recent scored records, newest first
// @Tags         sentiment
// @Produce      json
// @Param        id     path   string  true   "Deal ID"
// @Param        limit  query  int     false  "Number of records (default 10, max 100)"  default(10)
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/deals/{id}/sentiment [get]
func (h *Handler) GetDealSentiment(c *gin.Context) {
	if h.sentimentService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "sentiment service unavailable"})
		return
	}

	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-deal-sentiment")
	defer span.End()

	dealID := strings.TrimSpace(c.Param("id"))
	if dealID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "deal id is required"})
		return
	}
	span.SetAttributes(attribute.String("deal_id", dealID))

	limit := 10
	if rawLimit := strings.TrimSpace(c.Query("limit")); rawLimit != "" {
		n, err := strconv.Atoi(rawLimit)
		if err != nil || n <= 0 || n > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 100"})
			return
		}
		limit = n
	}

	records, err := h.sentimentService.ListForDeal(ctx, dealID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"sentiments": records})
}

// GetDealTrends godoc
// @Summary      Get sentiment trends for a deal
// @Description  Returns daily aggregates, momentum metrics, and a prediction
// @Tags         sentiment
// @Produce      json
// @Param        id      path   string  true   "Deal ID"
// @Param        period  query  string  false  "Trend period (24h, 7d, 30d, 90d)"  default(7d)
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/deals/{id}/sentiment/trends [get]
func (h *Handler) GetDealTrends(c *gin.Context) {
	if h.sentimentService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "sentiment service unavailable"})
		return
	}

	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-deal-trends")
	defer span.End()

	dealID := strings.TrimSpace(c.Param("id"))
	if dealID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "deal id is required"})
		return
	}
	period := strings.TrimSpace(c.DefaultQuery("period", "7d"))
	span.SetAttributes(attribute.String("deal_id", dealID), attribute.String("period", period))

	report, err := h.sentimentService.CalculateTrends(ctx, dealID, period)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, report)
}

// AnalyzeDeal godoc
// @Summary      Analyze sentiment for a deal
// @Description  Fetches fresh content from the requested sources (github by default) and scores it
// @Tags         sentiment
// @Accept       json
// @Produce      json
// @Param        request  body  analyzeRequest  true  "Deal to analyze"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/sentiment/analyze [post]
func (h *Handler) AnalyzeDeal(c *gin.Context) {
	if h.sentimentService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "sentiment service unavailable"})
		return
	}

	ctx, span := h.tracer.Start(c.Request.Context(), "handler.analyze-deal")
	defer span.End()

	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "dealId is required"})
		return
	}
	for _, name := range req.Sources {
		if !isSupportedSource(name) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported source: " + name})
			return
		}
	}
	span.SetAttributes(attribute.String("deal_id", req.DealID))

	records, err := h.sentimentService.AnalyzeDeal(ctx, req.DealID, req.Sources)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"analyzed": len(records), "sentiments": records})
}

// AnalyzeBatch godoc
// @Summary      Analyze sentiment for multiple deals
// @Description  Runs analysis per deal; one failing deal does not abort the batch
// @Tags         sentiment
// @Accept       json
// @Produce      json
// @Param        request  body  batchRequest  true  "Deals to analyze"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/sentiment/batch [post]
func (h *Handler) AnalyzeBatch(c *gin.Context) {
	if h.sentimentService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "sentiment service unavailable"})
		return
	}

	ctx, span := h.tracer.Start(c.Request.Context(), "handler.analyze-batch")
	defer span.End()

	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.DealIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "dealIds is required"})
		return
	}
	span.SetAttributes(attribute.Int("batch_size", len(req.DealIDs)))

	results := make([]batchResult, 0, len(req.DealIDs))
	for _, dealID := range req.DealIDs {
		records, err := h.sentimentService.AnalyzeDeal(ctx, dealID, nil)
		result := batchResult{DealID: dealID, Analyzed: len(records)}
		if err != nil {
			result.Error = err.Error()
		}
		results = append(results, result)
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}

// CheckAutomation godoc
// @Summary      Evaluate automation rules for a deal
// @Description  Runs every enabled rule on the deal immediately
// @Tags         automation
// @Produce      json
// @Param        id  path  string  true  "Deal ID"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/deals/{id}/automation/check [post]
func (h *Handler) CheckAutomation(c *gin.Context) {
	if h.automationService == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "automation service unavailable"})
		return
	}

	ctx, span := h.tracer.Start(c.Request.Context(), "handler.check-automation")
	defer span.End()

	dealID := strings.TrimSpace(c.Param("id"))
	if dealID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "deal id is required"})
		return
	}
	span.SetAttributes(attribute.String("deal_id", dealID))

	if err := h.automationService.CheckRules(ctx, dealID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "checked"})
}
