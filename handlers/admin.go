package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"snow-backend/models"
)

// GET /api/admin/verifications?page=1&limit=50&outcome=verified-success
func (h *Handler) ListVerifications(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit < 1 || limit > 500 {
		limit = 50
	}

	query := h.DB.Model(&models.VerificationRecord{})
	if outcome := c.Query("outcome"); outcome != "" {
		query = query.Where("outcome = ?", outcome)
	}
	if reference := c.Query("reference"); reference != "" {
		query = query.Where("reference = ?", reference)
	}

	var total int64
	query.Count(&total)

	var records []models.VerificationRecord
	query.Order("created_at desc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&records)

	c.JSON(http.StatusOK, gin.H{
		"ok":    true,
		"data":  records,
		"page":  page,
		"limit": limit,
		"total": total,
	})
}

// GET /api/admin/tracking/:reference
func (h *Handler) GetTrackingBatch(c *gin.Context) {
	reference := c.Param("reference")

	var batch models.TrackingBatch
	if err := h.DB.Where("reference = ?", reference).First(&batch).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "batch-not-found"})
		return
	}

	numbers, err := batch.Numbers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "server-error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":              true,
		"reference":       batch.Reference,
		"amount":          batch.AmountKobo,
		"customerEmail":   nullableString(batch.CustomerEmail),
		"trackingNumbers": numbers,
		"createdAt":       batch.CreatedAt,
	})
}
