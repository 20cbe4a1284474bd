package progression

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dooflabs/dooficoin/internal/player"
	"github.com/dooflabs/dooficoin/internal/scenario"
)

// Handler provides HTTP endpoints for progression.
type Handler struct {
	svc *Service
}

// NewHandler creates a new progression handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes sets up progression routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/players/:id/progression", h.Level)
	r.GET("/players/:id/progression/scenarios", h.Scenarios)
	r.POST("/players/:id/progression/scenarios/:scenarioId/defeat", h.DefeatMonster)
	r.POST("/players/:id/progression/rewards/:level/claim", h.ClaimReward)
	r.POST("/players/:id/progression/phase", h.AdvancePhase)
	r.GET("/leaderboards/:kind", h.Leaderboard)
}

// Level handles GET /v1/players/:id/progression
func (h *Handler) Level(c *gin.Context) {
	pl, err := h.svc.Level(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeProgressionError(c, err)
		return
	}
	c.JSON(http.StatusOK, pl)
}

// Scenarios handles GET /v1/players/:id/progression/scenarios
func (h *Handler) Scenarios(c *gin.Context) {
	list, err := h.svc.Scenarios(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeProgressionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"scenarios": list,
		"count":     len(list),
	})
}

// DefeatMonster handles POST /v1/players/:id/progression/scenarios/:scenarioId/defeat
func (h *Handler) DefeatMonster(c *gin.Context) {
	var req struct {
		Perfect bool `json:"perfect"`
	}
	_ = c.ShouldBindJSON(&req)

	sp, err := h.svc.DefeatMonster(c.Request.Context(), c.Param("id"), c.Param("scenarioId"), req.Perfect)
	if err != nil {
		writeProgressionError(c, err)
		return
	}
	c.JSON(http.StatusOK, sp)
}

// ClaimReward handles POST /v1/players/:id/progression/rewards/:level/claim
func (h *Handler) ClaimReward(c *gin.Context) {
	level, err := strconv.Atoi(c.Param("level"))
	if err != nil || level < 1 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_level",
			"message": "level must be a positive integer",
		})
		return
	}

	reward, err := h.svc.ClaimLevelReward(c.Request.Context(), c.Param("id"), level)
	if err != nil {
		writeProgressionError(c, err)
		return
	}
	c.JSON(http.StatusOK, reward)
}

// AdvancePhase handles POST /v1/players/:id/progression/phase
func (h *Handler) AdvancePhase(c *gin.Context) {
	var req struct {
		Phase int `json:"phase" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": err.Error(),
		})
		return
	}

	p, err := h.svc.AdvancePhase(c.Request.Context(), c.Param("id"), req.Phase)
	if err != nil {
		writeProgressionError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Leaderboard handles GET /v1/leaderboards/:kind
func (h *Handler) Leaderboard(c *gin.Context) {
	limit := 10
	if l := c.Query("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	board, err := h.svc.Leaderboard(c.Request.Context(), c.Param("kind"), limit)
	if err != nil {
		writeProgressionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"kind":    c.Param("kind"),
		"entries": board,
		"count":   len(board),
	})
}

func writeProgressionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, player.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "player_not_found",
			"message": "no such player",
		})
	case errors.Is(err, scenario.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "scenario_not_found",
			"message": "no such scenario",
		})
	case errors.Is(err, ErrAlreadyClaimed):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "already_claimed",
			"message": "level reward was already claimed",
		})
	case errors.Is(err, ErrLevelNotReached):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "level_not_reached",
			"message": "player has not reached that level",
		})
	case errors.Is(err, ErrInvalidTransition):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "invalid_transition",
			"message": "phase can only advance to the next one with the current phase complete",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": err.Error(),
		})
	}
}
