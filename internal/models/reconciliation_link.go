package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	MethodAuto   = "auto"
	MethodManual = "manual"
)

// ReconciliationLink pairs one bank statement line with exactly one receipt
// or expenditure.
type ReconciliationLink struct {
	ID                  uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	AccountID           uuid.UUID      `gorm:"type:uuid;index" json:"accountId"`
	BankStatementLineID uuid.UUID      `gorm:"type:uuid;uniqueIndex" json:"bankStatementId"`
	ReceiptID           *uuid.UUID     `gorm:"type:uuid;uniqueIndex" json:"receiptId,omitempty"`
	ExpenditureID       *uuid.UUID     `gorm:"type:uuid;uniqueIndex" json:"expenditureId,omitempty"`
	Method              string         `gorm:"index" json:"method"`
	ConfidenceScore     float64        `json:"confidenceScore"`
	MatchDetails        datatypes.JSON `json:"matchDetails,omitempty"`
	CreatedAt           time.Time      `json:"createdAt"`
}

// InternalID returns the id of the linked receipt or expenditure.
func (l ReconciliationLink) InternalID() (uuid.UUID, TransactionKind) {
	if l.ReceiptID != nil {
		return *l.ReceiptID, KindReceipt
	}
	if l.ExpenditureID != nil {
		return *l.ExpenditureID, KindExpenditure
	}
	return uuid.Nil, ""
}

// ManualReconcileRequest is the body of a manual reconcile call. Exactly one
// of ReceiptID and ExpenditureID is set.
type ManualReconcileRequest struct {
	BankStatementID uuid.UUID  `json:"bankStatementId"`
	ReceiptID       *uuid.UUID `json:"receiptId,omitempty"`
	ExpenditureID   *uuid.UUID `json:"expenditureId,omitempty"`
}

// NewManualReconcileRequest picks receiptId or expenditureId by the kind of it.
func NewManualReconcileRequest(bank BankStatementLine, it InternalTransaction) ManualReconcileRequest {
	req := ManualReconcileRequest{BankStatementID: bank.ID}
	id := it.ID
	if it.Kind == KindReceipt {
		req.ReceiptID = &id
	} else {
		req.ExpenditureID = &id
	}
	return req
}
