package fraud

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Handler provides HTTP endpoints for risk scores and the alert review
// workflow.
type Handler struct {
	detector *Detector
}

// NewHandler creates a new fraud handler.
func NewHandler(detector *Detector) *Handler {
	return &Handler{detector: detector}
}

// RegisterRoutes sets up fraud routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/players/:id/risk", h.Score)
	r.GET("/fraud/alerts", h.ListAlerts)
	r.GET("/fraud/alerts/:id", h.GetAlert)
	r.POST("/fraud/alerts/:id/review", h.ReviewAlert)
}

// Score handles GET /v1/players/:id/risk
func (h *Handler) Score(c *gin.Context) {
	c.JSON(http.StatusOK, h.detector.Score(c.Param("id")))
}

// ListAlerts handles GET /v1/fraud/alerts?player_id=&status=&limit=
func (h *Handler) ListAlerts(c *gin.Context) {
	limit := 0
	if l := c.Query("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	alerts, err := h.detector.Alerts(c.Request.Context(), c.Query("player_id"), c.Query("status"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"alerts": alerts,
		"count":  len(alerts),
	})
}

// GetAlert handles GET /v1/fraud/alerts/:id
func (h *Handler) GetAlert(c *gin.Context) {
	alert, err := h.detector.Alert(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeAlertError(c, err)
		return
	}
	c.JSON(http.StatusOK, alert)
}

// ReviewAlert handles POST /v1/fraud/alerts/:id/review
func (h *Handler) ReviewAlert(c *gin.Context) {
	var req struct {
		ReviewedBy  string `json:"reviewed_by" binding:"required"`
		ActionTaken string `json:"action_taken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": err.Error(),
		})
		return
	}

	alert, err := h.detector.Review(c.Request.Context(), c.Param("id"), req.ReviewedBy, req.ActionTaken)
	if err != nil {
		writeAlertError(c, err)
		return
	}
	c.JSON(http.StatusOK, alert)
}

func writeAlertError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrAlertNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "alert_not_found",
			"message": "no such fraud alert",
		})
	case errors.Is(err, ErrAlreadyReviewed):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "already_reviewed",
			"message": "alert was already reviewed",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": err.Error(),
		})
	}
}
