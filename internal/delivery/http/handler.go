package http

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tastelens/backend/internal/domain"
	"github.com/tastelens/backend/internal/logging"
	"github.com/tastelens/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	analysis *usecase.AnalysisService
}

// NewHandler creates a new HTTP handler. A nil analysis service makes the
// API endpoints answer 503.
func NewHandler(analysis *usecase.AnalysisService) *Handler {
	return &Handler{analysis: analysis}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "tastelens-backend",
		"version": "1.0.0",
	})
}

// Recommend handles restaurant recommendation requests
func (h *Handler) Recommend(c *gin.Context) {
	if !h.configured(c) {
		return
	}

	var req domain.RecommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: userId is required"})
		return
	}

	rec, err := h.analysis.Recommend(c.Request.Context(), &req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// imputationRequest is the JSON body of an imputation call. Names accept the
// English and Spanish spellings.
type imputationRequest struct {
	Dataset   string   `json:"dataset" binding:"required"`
	Target    string   `json:"target" binding:"required"`
	Condition string   `json:"condition" binding:"required"`
	GroupBy   []string `json:"groupBy" binding:"required,len=2"`
	Statistic string   `json:"statistic" binding:"required"`
}

// Impute handles segmented imputation requests. The response carries the
// before and after frequency tables of the target column.
func (h *Handler) Impute(c *gin.Context) {
	if !h.configured(c) {
		return
	}

	var body imputationRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: dataset, target, condition, groupBy[2] and statistic are required"})
		return
	}

	statistic, err := domain.ParseStatistic(body.Statistic)
	if err != nil {
		h.writeError(c, err)
		return
	}
	condition, err := domain.ParseCondition(body.Condition)
	if err != nil {
		h.writeError(c, err)
		return
	}

	result, err := h.analysis.Impute(c.Request.Context(), body.Dataset, domain.ImputationRequest{
		Target:    body.Target,
		Condition: condition,
		GroupBy:   [2]string{body.GroupBy[0], body.GroupBy[1]},
		Statistic: statistic,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// chartRequest is the JSON body of a chart call
type chartRequest struct {
	Dataset string `json:"dataset" binding:"required"`
	domain.ChartSpec
}

// Chart renders a chart of a dataset and returns it as a PNG image
func (h *Handler) Chart(c *gin.Context) {
	if !h.configured(c) {
		return
	}

	var body chartRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: dataset and kind are required"})
		return
	}

	var buf bytes.Buffer
	if err := h.analysis.Chart(c.Request.Context(), &buf, body.Dataset, body.ChartSpec); err != nil {
		h.writeError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

func (h *Handler) configured(c *gin.Context) bool {
	if h.analysis != nil {
		return true
	}
	c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Analysis service not configured"})
	return false
}

// writeError maps domain errors to HTTP status codes
func (h *Handler) writeError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logging.Ctx(c.Request.Context()).Error().Err(err).Str("path", c.FullPath()).Msg("Request failed")
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrDatasetNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidRequest),
		errors.Is(err, domain.ErrInvalidChartKind),
		errors.Is(err, domain.ErrUnsupportedImputation),
		errors.Is(err, domain.ErrColumnNotFound),
		errors.Is(err, domain.ErrMalformedValue):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests
	}
	return http.StatusInternalServerError
}
