package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"estate-reconciliation-backend/internal/models"
)

const unlinkedBankLine = "NOT EXISTS (SELECT 1 FROM reconciliation_links l WHERE l.bank_statement_line_id = bank_statement_lines.id)"

type BankStatementRepository struct {
	db *gorm.DB
}

func NewBankStatementRepository(db *gorm.DB) *BankStatementRepository {
	return &BankStatementRepository{db: db}
}

func (r *BankStatementRepository) Create(ctx context.Context, line *models.BankStatementLine) error {
	return r.db.WithContext(ctx).Create(line).Error
}

func (r *BankStatementRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.BankStatementLine, error) {
	var line models.BankStatementLine
	if err := r.db.WithContext(ctx).First(&line, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &line, nil
}

// ListByAccountAndRange returns lines posted in [from, to), oldest first.
func (r *BankStatementRepository) ListByAccountAndRange(ctx context.Context, accountID uuid.UUID, from, to time.Time) ([]models.BankStatementLine, error) {
	var lines []models.BankStatementLine
	err := r.db.WithContext(ctx).
		Where("account_id = ? AND post_date >= ? AND post_date < ?", accountID, from, to).
		Order("post_date ASC").
		Find(&lines).Error
	return lines, err
}

// ListUnlinked is ListByAccountAndRange restricted to lines without a
// reconciliation link.
func (r *BankStatementRepository) ListUnlinked(ctx context.Context, accountID uuid.UUID, from, to time.Time) ([]models.BankStatementLine, error) {
	var lines []models.BankStatementLine
	err := r.db.WithContext(ctx).
		Where("account_id = ? AND post_date >= ? AND post_date < ?", accountID, from, to).
		Where(unlinkedBankLine).
		Order("post_date ASC").
		Find(&lines).Error
	return lines, err
}
