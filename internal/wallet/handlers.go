package wallet

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handler provides HTTP endpoints for wallet links.
type Handler struct {
	svc *Service
}

// NewHandler creates a new wallet handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes sets up wallet routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/players/:id/wallet/connect", h.Connect)
	r.GET("/players/:id/wallet", h.Get)
	r.DELETE("/players/:id/wallet", h.Disconnect)
	r.POST("/players/:id/wallet/withdraw", h.Withdraw)
	r.POST("/players/:id/wallet/deposit", h.Deposit)
}

// Connect handles POST /v1/players/:id/wallet/connect
func (h *Handler) Connect(c *gin.Context) {
	var req struct {
		Address string `json:"address" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": err.Error(),
		})
		return
	}

	l, err := h.svc.Connect(c.Request.Context(), c.Param("id"), req.Address)
	if err != nil {
		writeWalletError(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

// Get handles GET /v1/players/:id/wallet
func (h *Handler) Get(c *gin.Context) {
	l, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeWalletError(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

// Disconnect handles DELETE /v1/players/:id/wallet
func (h *Handler) Disconnect(c *gin.Context) {
	if err := h.svc.Disconnect(c.Request.Context(), c.Param("id")); err != nil {
		writeWalletError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "wallet disconnected"})
}

// Withdraw handles POST /v1/players/:id/wallet/withdraw
func (h *Handler) Withdraw(c *gin.Context) {
	var req struct {
		Amount string `json:"amount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": err.Error(),
		})
		return
	}
	writeWalletError(c, h.svc.Withdraw(c.Request.Context(), c.Param("id"), req.Amount))
}

// Deposit handles POST /v1/players/:id/wallet/deposit
func (h *Handler) Deposit(c *gin.Context) {
	var req struct {
		Amount string `json:"amount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": err.Error(),
		})
		return
	}
	writeWalletError(c, h.svc.Deposit(c.Request.Context(), c.Param("id"), req.Amount))
}

func writeWalletError(c *gin.Context, err error) {
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	case errors.Is(err, ErrNotConnected):
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "wallet_not_connected",
			"message": "player has no connected wallet",
		})
	case errors.Is(err, ErrInvalidAddress):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_address",
			"message": "address must be a 0x-prefixed 40-hex-digit string",
		})
	case errors.Is(err, ErrNotSupported):
		c.JSON(http.StatusNotImplemented, gin.H{
			"error":   "not_supported",
			"message": "external transfers are not supported",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": err.Error(),
		})
	}
}
