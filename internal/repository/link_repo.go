package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"estate-reconciliation-backend/internal/models"
)

type LinkRepository struct {
	db *gorm.DB
}

func NewLinkRepository(db *gorm.DB) *LinkRepository {
	return &LinkRepository{db: db}
}

func (r *LinkRepository) Create(ctx context.Context, link *models.ReconciliationLink) error {
	return r.db.WithContext(ctx).Create(link).Error
}

func (r *LinkRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ReconciliationLink, error) {
	var link models.ReconciliationLink
	if err := r.db.WithContext(ctx).First(&link, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

// Delete reports whether a row was removed.
func (r *LinkRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&models.ReconciliationLink{}, "id = ?", id)
	return result.RowsAffected > 0, result.Error
}

func (r *LinkRepository) ListByBankLines(ctx context.Context, lineIDs []uuid.UUID) ([]models.ReconciliationLink, error) {
	var links []models.ReconciliationLink
	if len(lineIDs) == 0 {
		return links, nil
	}
	err := r.db.WithContext(ctx).Where("bank_statement_line_id IN ?", lineIDs).Find(&links).Error
	return links, err
}

// ExistsForBankLine reports whether the line is already reconciled.
func (r *LinkRepository) ExistsForBankLine(ctx context.Context, lineID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ReconciliationLink{}).
		Where("bank_statement_line_id = ?", lineID).
		Count(&count).Error
	return count > 0, err
}

// ExistsForInternal reports whether the receipt or expenditure is already
// reconciled.
func (r *LinkRepository) ExistsForInternal(ctx context.Context, id uuid.UUID, kind models.TransactionKind) (bool, error) {
	column := "receipt_id"
	if kind == models.KindExpenditure {
		column = "expenditure_id"
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ReconciliationLink{}).
		Where(column+" = ?", id).
		Count(&count).Error
	return count > 0, err
}
