package player

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dooflabs/dooficoin/internal/validation"
)

// Handler provides HTTP endpoints for player lifecycle.
type Handler struct {
	svc *Service
}

// NewHandler creates a new player handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes sets up player routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/players/enter", h.Enter)
	r.GET("/players/:id", h.Get)
}

// Enter handles POST /v1/players/enter
func (h *Handler) Enter(c *gin.Context) {
	var req struct {
		UserID   string `json:"user_id" binding:"required"`
		Username string `json:"username" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": err.Error(),
		})
		return
	}

	username := validation.SanitizeString(req.Username, validation.MaxUsernameLength)
	if username == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "username must not be empty",
		})
		return
	}

	p, created, err := h.svc.Enter(c.Request.Context(), req.UserID, username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": err.Error(),
		})
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, p)
}

// Get handles GET /v1/players/:id
func (h *Handler) Get(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "not_found",
			"message": "player not found",
		})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": err.Error(),
		})
	default:
		c.JSON(http.StatusOK, p)
	}
}
