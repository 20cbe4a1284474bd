package ledger

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dooflabs/dooficoin/internal/pagination"
	"github.com/dooflabs/dooficoin/internal/validation"
)

// Handler provides HTTP endpoints for wallet balances and transaction history.
type Handler struct {
	ledger *Ledger
}

// NewHandler creates a new ledger handler.
func NewHandler(ledger *Ledger) *Handler {
	return &Handler{ledger: ledger}
}

// RegisterRoutes sets up ledger routes.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/players/:id/balance", h.GetBalance)
	r.GET("/players/:id/transactions", h.GetHistory)
	r.POST("/transfers", h.Transfer)
}

// GetBalance handles GET /v1/players/:id/balance
func (h *Handler) GetBalance(c *gin.Context) {
	playerID := c.Param("id")

	bal, err := h.ledger.Balance(c.Request.Context(), playerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"player_id": playerID,
		"balance":   bal,
		"currency":  "DOOF",
	})
}

// GetHistory handles GET /v1/players/:id/transactions
func (h *Handler) GetHistory(c *gin.Context) {
	playerID := c.Param("id")

	limit := 50
	if l := c.Query("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	entries, next, err := h.ledger.History(c.Request.Context(), playerID, c.Query("cursor"), limit)
	if err != nil {
		if errors.Is(err, pagination.ErrInvalidCursor) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_cursor",
				"message": err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"transactions": entries,
		"count":        len(entries),
		"next_cursor":  next,
		"has_more":     next != "",
	})
}

// Transfer handles POST /v1/transfers
func (h *Handler) Transfer(c *gin.Context) {
	var req struct {
		FromID    string `json:"from_id" binding:"required"`
		ToID      string `json:"to_id" binding:"required"`
		Amount    string `json:"amount" binding:"required"`
		Reference string `json:"reference"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": err.Error(),
		})
		return
	}

	if errs := validation.Validate(
		validation.ValidAmount("amount", req.Amount),
		validation.MaxLength("reference", req.Reference, validation.MaxStringLength),
	); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": errs.Error(),
		})
		return
	}

	err := h.ledger.Transfer(c.Request.Context(), req.FromID, req.ToID, req.Amount, TypeTransfer, req.Reference)
	switch {
	case errors.Is(err, ErrInvalidAmount):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_amount",
			"message": "amount must be a non-negative decimal",
		})
	case errors.Is(err, ErrInsufficientFunds):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "insufficient_funds",
			"message": "sender balance is lower than the transfer amount",
		})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": err.Error(),
		})
	default:
		c.JSON(http.StatusOK, gin.H{
			"message": "transfer completed",
			"amount":  req.Amount,
		})
	}
}
