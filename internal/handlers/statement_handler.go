package handler

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const maxStatementSize = 10 << 20

// Upload stores a statement import and processes the CSV in the background.
// Poll GetImportProgress with the returned import_id.
func (h *ReconciliationHandler) Upload(c *gin.Context) {
	accountID, err := uuid.Parse(c.PostForm("accountId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "valid accountId required"})
		return
	}
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file required"})
		return
	}
	defer file.Close()

	// The multipart file is gone once the handler returns.
	data, err := io.ReadAll(io.LimitReader(file, maxStatementSize+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read file"})
		return
	}
	if len(data) > maxStatementSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		return
	}

	imp, err := h.service.StartImport(c.Request.Context(), accountID, header.Filename)
	if err != nil {
		respondError(c, err)
		return
	}
	logrus.WithFields(logrus.Fields{
		"import_id": imp.ID,
		"file":      header.Filename,
		"size":      header.Size,
	}).Info("statement upload received")

	h.background(func() {
		if err := h.service.ProcessStatement(context.Background(), imp, bytes.NewReader(data)); err != nil {
			logrus.WithError(err).WithField("import_id", imp.ID).Error("statement import failed")
		}
	})

	c.JSON(http.StatusAccepted, gin.H{
		"import_id": imp.ID.String(),
		"status":    imp.Status,
	})
}

func (h *ReconciliationHandler) GetImportProgress(c *gin.Context) {
	id, ok := paramUUID(c, "importId")
	if !ok {
		return
	}
	imp, err := h.service.GetImport(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"processed_count": imp.ProcessedCount,
		"rejected_count":  imp.RejectedCount,
		"total":           imp.TotalRows,
		"status":          imp.Status,
	})
}
