package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"snow-backend/verify"
)

type rpcVerifyRequest struct {
	Reference      string  `json:"reference"`
	ExpectedAmount float64 `json:"expectedAmount"`
}

// POST /api/verify-payment
//
// Callable variant for authenticated clients: same checks as the relay, but
// no tracking numbers are issued and no email is sent — only the verified
// transaction summary comes back.
func (h *Handler) VerifyPaymentRPC(c *gin.Context) {
	var req rpcVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid-json"})
		return
	}

	result, err := h.Service.VerifyForCaller(c.Request.Context(), verify.VerifyInput{
		Reference:      req.Reference,
		ExpectedAmount: req.ExpectedAmount,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":            true,
		"reference":     result.Reference,
		"amount":        result.Amount,
		"currency":      result.Currency,
		"paidAt":        nullableString(result.PaidAt),
		"customerEmail": nullableString(result.CustomerEmail),
	})
}
