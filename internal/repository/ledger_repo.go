package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"estate-reconciliation-backend/internal/models"
)

const (
	unlinkedReceipt     = "NOT EXISTS (SELECT 1 FROM reconciliation_links l WHERE l.receipt_id = receipts.id)"
	unlinkedExpenditure = "NOT EXISTS (SELECT 1 FROM reconciliation_links l WHERE l.expenditure_id = expenditures.id)"
)

// LedgerRepository reads and writes receipts and expenditures.
type LedgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

func (r *LedgerRepository) CreateReceipt(ctx context.Context, receipt *models.Receipt) error {
	return r.db.WithContext(ctx).Create(receipt).Error
}

func (r *LedgerRepository) CreateExpenditure(ctx context.Context, expenditure *models.Expenditure) error {
	return r.db.WithContext(ctx).Create(expenditure).Error
}

func (r *LedgerRepository) GetReceipt(ctx context.Context, id uuid.UUID) (*models.Receipt, error) {
	var receipt models.Receipt
	if err := r.db.WithContext(ctx).First(&receipt, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &receipt, nil
}

func (r *LedgerRepository) GetExpenditure(ctx context.Context, id uuid.UUID) (*models.Expenditure, error) {
	var expenditure models.Expenditure
	if err := r.db.WithContext(ctx).First(&expenditure, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &expenditure, nil
}

// ListInRange returns the account's receipts and expenditures dated in
// [from, to) as internal transactions, receipts first.
func (r *LedgerRepository) ListInRange(ctx context.Context, accountID uuid.UUID, from, to time.Time) ([]models.InternalTransaction, error) {
	return r.list(ctx, accountID, from, to, "", "")
}

// ListUnlinked is ListInRange restricted to transactions without a
// reconciliation link.
func (r *LedgerRepository) ListUnlinked(ctx context.Context, accountID uuid.UUID, from, to time.Time) ([]models.InternalTransaction, error) {
	return r.list(ctx, accountID, from, to, unlinkedReceipt, unlinkedExpenditure)
}

func (r *LedgerRepository) list(ctx context.Context, accountID uuid.UUID, from, to time.Time, receiptFilter, expenditureFilter string) ([]models.InternalTransaction, error) {
	var receipts []models.Receipt
	q := r.db.WithContext(ctx).Where("account_id = ? AND date >= ? AND date < ?", accountID, from, to)
	if receiptFilter != "" {
		q = q.Where(receiptFilter)
	}
	if err := q.Order("date ASC").Find(&receipts).Error; err != nil {
		return nil, err
	}

	var expenditures []models.Expenditure
	q = r.db.WithContext(ctx).Where("account_id = ? AND date >= ? AND date < ?", accountID, from, to)
	if expenditureFilter != "" {
		q = q.Where(expenditureFilter)
	}
	if err := q.Order("date ASC").Find(&expenditures).Error; err != nil {
		return nil, err
	}

	out := make([]models.InternalTransaction, 0, len(receipts)+len(expenditures))
	for _, rc := range receipts {
		out = append(out, rc.Internal())
	}
	for _, ex := range expenditures {
		out = append(out, ex.Internal())
	}
	return out, nil
}

// GetInternal loads a single receipt or expenditure by kind.
func (r *LedgerRepository) GetInternal(ctx context.Context, id uuid.UUID, kind models.TransactionKind) (*models.InternalTransaction, error) {
	switch kind {
	case models.KindReceipt:
		rc, err := r.GetReceipt(ctx, id)
		if err != nil {
			return nil, err
		}
		it := rc.Internal()
		return &it, nil
	case models.KindExpenditure:
		ex, err := r.GetExpenditure(ctx, id)
		if err != nil {
			return nil, err
		}
		it := ex.Internal()
		return &it, nil
	}
	return nil, gorm.ErrRecordNotFound
}
