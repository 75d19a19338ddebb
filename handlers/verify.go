package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"snow-backend/config"
	"snow-backend/verify"
)

const serviceName = "snow-paystack-backend"

// Handler carries the wired dependencies for every route. Constructed once in
// main.go.
type Handler struct {
	Service *verify.Service
	DB      *gorm.DB
	Cfg     *config.Config
}

func New(service *verify.Service, db *gorm.DB, cfg *config.Config) *Handler {
	return &Handler{Service: service, DB: db, Cfg: cfg}
}

// GET /
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "service": serviceName})
}

type verifyRequest struct {
	Reference      string  `json:"reference"`
	ExpectedAmount float64 `json:"expectedAmount"`
	Email          string  `json:"email"`
}

// POST /verify-paystack
func (h *Handler) VerifyPaystack(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid-json"})
		return
	}

	result, err := h.Service.Verify(c.Request.Context(), verify.VerifyInput{
		Reference:      req.Reference,
		ExpectedAmount: req.ExpectedAmount,
		EmailHint:      req.Email,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":              true,
		"reference":       result.Reference,
		"amount":          result.Amount,
		"currency":        result.Currency,
		"customerEmail":   nullableString(result.CustomerEmail),
		"trackingNumbers": result.TrackingNumbers,
	})
}

type failureReportRequest struct {
	Reference        string          `json:"reference"`
	ExpectedAmount   *float64        `json:"expectedAmount"`
	Error            string          `json:"error"`
	OriginalResponse json.RawMessage `json:"originalResponse"`
}

// POST /report-failed-verification
func (h *Handler) ReportFailedVerification(c *gin.Context) {
	var req failureReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid-json"})
		return
	}

	err := h.Service.ReportFailure(c.Request.Context(), verify.FailureReport{
		Reference:        req.Reference,
		ExpectedAmount:   req.ExpectedAmount,
		ErrorText:        req.Error,
		OriginalResponse: req.OriginalResponse,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// respondError maps a verification failure onto the relay's wire format: the
// taxonomy decides the status code, Fields land beside the error string.
func respondError(c *gin.Context, err error) {
	var verr *verify.Error
	if errors.As(err, &verr) {
		payload := gin.H{"ok": false, "error": verr.Code}
		for k, v := range verr.Fields {
			payload[k] = v
		}
		if verr.Message != "" && verr.Kind != verify.KindFailedPrecondition {
			payload["message"] = verr.Message
		}
		c.JSON(verr.HTTPStatus(), payload)
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{
		"ok": false, "error": "server-error", "message": err.Error(),
	})
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
