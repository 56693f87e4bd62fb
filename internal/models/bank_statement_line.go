package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BankStatementLine is one imported bank transaction. Exactly one of Debit
// and Credit is non-zero.
type BankStatementLine struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	AccountID      uuid.UUID       `gorm:"type:uuid;index" json:"accountId"`
	ImportID       *uuid.UUID      `gorm:"type:uuid;index" json:"importId,omitempty"`
	PostDate       time.Time       `gorm:"column:post_date;index" json:"postDate"`
	Remarks        string          `json:"remarks"`
	Debit          decimal.Decimal `gorm:"type:numeric(18,2)" json:"debit"`
	Credit         decimal.Decimal `gorm:"type:numeric(18,2)" json:"credit"`
	ClosingBalance decimal.Decimal `gorm:"type:numeric(18,2)" json:"closingBalance"`
	CreatedAt      time.Time       `json:"createdAt"`
}

func (l BankStatementLine) IsCredit() bool {
	return l.Credit.IsPositive()
}

// Amount returns the non-zero side of the line.
func (l BankStatementLine) Amount() decimal.Decimal {
	if l.IsCredit() {
		return l.Credit
	}
	return l.Debit
}

// Kind returns the internal transaction kind that can be matched against
// this line: credits pair with receipts, debits with expenditures.
func (l BankStatementLine) Kind() TransactionKind {
	if l.IsCredit() {
		return KindReceipt
	}
	return KindExpenditure
}
