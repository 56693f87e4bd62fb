package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ImportProcessing = "processing"
	ImportCompleted  = "completed"
	ImportFailed     = "failed"
)

// StatementImport tracks one bank statement CSV upload.
type StatementImport struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	AccountID      uuid.UUID  `gorm:"type:uuid;index" json:"accountId"`
	Filename       string     `json:"filename"`
	TotalRows      int        `json:"totalRows"`
	ProcessedCount int        `json:"processedCount"`
	RejectedCount  int        `json:"rejectedCount"`
	Status         string     `json:"status"`
	StartedAt      time.Time  `json:"startedAt"`
	CompletedAt    *time.Time `json:"completedAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}
