package mining

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Handler provides HTTP endpoints for mining sessions.
type Handler struct {
	svc *Service
}

// NewHandler creates a new mining handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes sets up mining routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/players/:id/mining/start", h.Start)
	r.POST("/players/:id/mining/poll", h.Poll)
	r.POST("/players/:id/mining/stop", h.Stop)
	r.GET("/players/:id/mining/session", h.Session)
	r.GET("/players/:id/mining/sessions", h.History)
	r.GET("/players/:id/mining/rewards", h.Rewards)
	r.GET("/players/:id/mining/stats", h.Stats)
	r.GET("/mining/leaderboard", h.Leaderboard)
}

// Start handles POST /v1/players/:id/mining/start
func (h *Handler) Start(c *gin.Context) {
	sess, err := h.svc.Start(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, ErrSessionActive):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "session_active",
			"message": "player already has an active mining session",
		})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": err.Error(),
		})
	default:
		c.JSON(http.StatusCreated, sess)
	}
}

// Poll handles POST /v1/players/:id/mining/poll
func (h *Handler) Poll(c *gin.Context) {
	res, err := h.svc.Poll(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, ErrNoActiveSession):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "no_active_session",
			"message": "player has no active mining session",
		})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": err.Error(),
		})
	default:
		c.JSON(http.StatusOK, res)
	}
}

// Stop handles POST /v1/players/:id/mining/stop
func (h *Handler) Stop(c *gin.Context) {
	sess, err := h.svc.Stop(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, ErrNoActiveSession):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "no_active_session",
			"message": "player has no active mining session",
		})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": err.Error(),
		})
	default:
		c.JSON(http.StatusOK, sess)
	}
}

// Session handles GET /v1/players/:id/mining/session
func (h *Handler) Session(c *gin.Context) {
	sess, err := h.svc.Session(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, ErrNoActiveSession):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "no_active_session",
			"message": "player has no active mining session",
		})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": err.Error(),
		})
	default:
		c.JSON(http.StatusOK, sess)
	}
}

// History handles GET /v1/players/:id/mining/sessions
func (h *Handler) History(c *gin.Context) {
	sessions, err := h.svc.History(c.Request.Context(), c.Param("id"), queryLimit(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"sessions": sessions,
		"count":    len(sessions),
	})
}

// Rewards handles GET /v1/players/:id/mining/rewards
func (h *Handler) Rewards(c *gin.Context) {
	rewards, err := h.svc.Rewards(c.Request.Context(), c.Param("id"), queryLimit(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"rewards": rewards,
		"count":   len(rewards),
	})
}

// Stats handles GET /v1/players/:id/mining/stats
func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Leaderboard handles GET /v1/mining/leaderboard
func (h *Handler) Leaderboard(c *gin.Context) {
	top, err := h.svc.TopMiners(c.Request.Context(), queryLimit(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"miners": top,
		"count":  len(top),
	})
}

func queryLimit(c *gin.Context) int {
	limit := 0
	if l := c.Query("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	return limit
}
