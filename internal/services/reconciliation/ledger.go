package reconciliation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"estate-reconciliation-backend/internal/apierror"
	"estate-reconciliation-backend/internal/models"
)

func (s *ReconciliationService) ListAccounts(ctx context.Context) ([]models.Account, error) {
	return s.store.ListAccounts(ctx)
}

func (s *ReconciliationService) CreateAccount(ctx context.Context, name, bankName, accountNumber string) (*models.Account, error) {
	account := &models.Account{
		ID:            uuid.New(),
		Name:          name,
		BankName:      bankName,
		AccountNumber: accountNumber,
		CreatedAt:     s.now(),
	}
	if err := s.store.CreateAccount(ctx, account); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apierror.Conflict("account number %s already exists", accountNumber)
		}
		return nil, fmt.Errorf("creating account: %w", err)
	}
	return account, nil
}

// LedgerEntry is the input for a new receipt or expenditure.
type LedgerEntry struct {
	AccountID   uuid.UUID
	Date        time.Time
	Description string
	Amount      decimal.Decimal
}

func (s *ReconciliationService) CreateReceipt(ctx context.Context, e LedgerEntry) (*models.Receipt, error) {
	if err := s.checkEntry(ctx, e); err != nil {
		return nil, err
	}
	receipt := &models.Receipt{
		ID:          uuid.New(),
		AccountID:   e.AccountID,
		Date:        truncateDay(e.Date),
		Description: e.Description,
		Amount:      e.Amount,
		CreatedAt:   s.now(),
	}
	if err := s.store.CreateReceipt(ctx, receipt); err != nil {
		return nil, fmt.Errorf("creating receipt: %w", err)
	}
	return receipt, nil
}

func (s *ReconciliationService) CreateExpenditure(ctx context.Context, e LedgerEntry) (*models.Expenditure, error) {
	if err := s.checkEntry(ctx, e); err != nil {
		return nil, err
	}
	expenditure := &models.Expenditure{
		ID:          uuid.New(),
		AccountID:   e.AccountID,
		Date:        truncateDay(e.Date),
		Description: e.Description,
		Amount:      e.Amount,
		CreatedAt:   s.now(),
	}
	if err := s.store.CreateExpenditure(ctx, expenditure); err != nil {
		return nil, fmt.Errorf("creating expenditure: %w", err)
	}
	return expenditure, nil
}

func (s *ReconciliationService) checkEntry(ctx context.Context, e LedgerEntry) error {
	if !e.Amount.IsPositive() {
		return apierror.InvalidInput("amount must be greater than zero")
	}
	return s.requireAccount(ctx, e.AccountID)
}
