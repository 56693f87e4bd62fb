package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"estate-reconciliation-backend/internal/models"
)

type ImportRepository struct {
	db *gorm.DB
}

func NewImportRepository(db *gorm.DB) *ImportRepository {
	return &ImportRepository{db: db}
}

func (r *ImportRepository) Create(ctx context.Context, imp *models.StatementImport) error {
	return r.db.WithContext(ctx).Create(imp).Error
}

func (r *ImportRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.StatementImport, error) {
	var imp models.StatementImport
	if err := r.db.WithContext(ctx).First(&imp, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &imp, nil
}

func (r *ImportRepository) UpdateProgress(ctx context.Context, id uuid.UUID, processed, rejected int) error {
	return r.db.WithContext(ctx).Model(&models.StatementImport{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"processed_count": processed,
			"rejected_count":  rejected,
		}).Error
}

// Finish records the final counts and status of an import.
func (r *ImportRepository) Finish(ctx context.Context, id uuid.UUID, status string, total, processed, rejected int) error {
	return r.db.WithContext(ctx).Model(&models.StatementImport{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"total_rows":      total,
			"processed_count": processed,
			"rejected_count":  rejected,
			"status":          status,
			"completed_at":    time.Now(),
		}).Error
}
