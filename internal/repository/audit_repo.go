package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"estate-reconciliation-backend/internal/models"
)

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Record(ctx context.Context, entry *models.MatchAuditLog) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *AuditRepository) ListForBankLine(ctx context.Context, lineID uuid.UUID) ([]models.MatchAuditLog, error) {
	var entries []models.MatchAuditLog
	err := r.db.WithContext(ctx).
		Where("bank_statement_line_id = ?", lineID).
		Order("created_at ASC").
		Find(&entries).Error
	return entries, err
}
