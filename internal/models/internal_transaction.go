package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionKind string

const (
	KindReceipt     TransactionKind = "RECEIPT"
	KindExpenditure TransactionKind = "EXPENDITURE"
)

// Receipt is money received into an account.
type Receipt struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	AccountID   uuid.UUID       `gorm:"type:uuid;index" json:"accountId"`
	Date        time.Time       `gorm:"index" json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `gorm:"type:numeric(18,2)" json:"amount"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// Expenditure is money paid out of an account.
type Expenditure struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	AccountID   uuid.UUID       `gorm:"type:uuid;index" json:"accountId"`
	Date        time.Time       `gorm:"index" json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `gorm:"type:numeric(18,2)" json:"amount"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// InternalTransaction is the ledger-side view of a receipt or an expenditure.
type InternalTransaction struct {
	ID          uuid.UUID       `json:"id"`
	AccountID   uuid.UUID       `json:"accountId"`
	Kind        TransactionKind `json:"type"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

func (r Receipt) Internal() InternalTransaction {
	return InternalTransaction{
		ID:          r.ID,
		AccountID:   r.AccountID,
		Kind:        KindReceipt,
		Date:        r.Date,
		Description: r.Description,
		Amount:      r.Amount,
	}
}

func (e Expenditure) Internal() InternalTransaction {
	return InternalTransaction{
		ID:          e.ID,
		AccountID:   e.AccountID,
		Kind:        KindExpenditure,
		Date:        e.Date,
		Description: e.Description,
		Amount:      e.Amount,
	}
}

func (k TransactionKind) Valid() bool {
	return k == KindReceipt || k == KindExpenditure
}
