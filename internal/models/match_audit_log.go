package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionReconciled   = "reconciled"
	ActionUnreconciled = "unreconciled"
)

type MatchAuditLog struct {
	ID                  uuid.UUID  `gorm:"type:uuid;primaryKey"`
	LinkID              uuid.UUID  `gorm:"type:uuid;index"`
	BankStatementLineID uuid.UUID  `gorm:"type:uuid;index"`
	InternalID          *uuid.UUID `gorm:"type:uuid"`
	Action              string
	Method              string
	PerformedBy         string
	CreatedAt           time.Time
}
