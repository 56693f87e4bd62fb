package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"estate-reconciliation-backend/internal/middleware"
	"estate-reconciliation-backend/internal/models"
)

// GetRows returns every reconciliation row of an account over a date range,
// ordered by effective date.
func (h *ReconciliationHandler) GetRows(c *gin.Context) {
	var req rangeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		badRequest(c, err)
		return
	}
	accountID, rng, err := req.parse()
	if err != nil {
		respondError(c, err)
		return
	}

	rows, err := h.service.FetchRows(c.Request.Context(), accountID, rng)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": models.EncodeRows(rows)})
}

func (h *ReconciliationHandler) AutoReconcile(c *gin.Context) {
	var req rangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if err := req.Validate(); err != nil {
		badRequest(c, err)
		return
	}
	accountID, rng, err := req.parse()
	if err != nil {
		respondError(c, err)
		return
	}

	matched, err := h.service.AutoReconcile(c.Request.Context(), accountID, rng, middleware.OperatorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "auto reconciliation completed", "matched": matched})
}

func (h *ReconciliationHandler) ManualReconcile(c *gin.Context) {
	var req manualRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if err := req.Validate(); err != nil {
		badRequest(c, err)
		return
	}

	link, err := h.service.ManualReconcile(c.Request.Context(), req.toService(), middleware.OperatorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "transactions reconciled", "link": link})
}

func (h *ReconciliationHandler) Unreconcile(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Unreconcile(c.Request.Context(), id, middleware.OperatorFrom(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "reconciliation removed"})
}

// GetHistory returns the audit trail of one bank statement line.
func (h *ReconciliationHandler) GetHistory(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	entries, err := h.service.History(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": entries})
}
