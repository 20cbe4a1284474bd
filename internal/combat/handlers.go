package combat

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dooflabs/dooficoin/internal/player"
)

// Handler provides HTTP endpoints for combat events.
type Handler struct {
	svc *Service
}

// NewHandler creates a new combat handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes sets up combat routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/players/:id/combat/monster-kill", h.KillMonster)
	r.POST("/players/:id/combat/self-eliminate", h.SelfEliminate)
	r.POST("/players/:id/combat/die", h.Die)
	r.POST("/combat/player-kill", h.KillPlayer)
}

// KillMonster handles POST /v1/players/:id/combat/monster-kill
func (h *Handler) KillMonster(c *gin.Context) {
	res, err := h.svc.KillMonster(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeCombatError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// SelfEliminate handles POST /v1/players/:id/combat/self-eliminate
func (h *Handler) SelfEliminate(c *gin.Context) {
	res, err := h.svc.SelfEliminate(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeCombatError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Die handles POST /v1/players/:id/combat/die
func (h *Handler) Die(c *gin.Context) {
	res, err := h.svc.Die(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeCombatError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// KillPlayer handles POST /v1/combat/player-kill
func (h *Handler) KillPlayer(c *gin.Context) {
	var req struct {
		AttackerID string `json:"attacker_id" binding:"required"`
		VictimID   string `json:"victim_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": err.Error(),
		})
		return
	}

	res, err := h.svc.KillPlayer(c.Request.Context(), req.AttackerID, req.VictimID)
	if err != nil {
		writeCombatError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func writeCombatError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, player.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "player_not_found",
			"message": "no such player",
		})
	case errors.Is(err, ErrSamePlayer):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "same_player",
			"message": "attacker and victim must differ",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": err.Error(),
		})
	}
}
