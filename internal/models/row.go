package models

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

type RowStatus string

const (
	StatusReconciled           RowStatus = "RECONCILED"
	StatusUnreconciledBank     RowStatus = "UNRECONCILED_BANK"
	StatusUnreconciledInternal RowStatus = "UNRECONCILED_INTERNAL"
)

// Row is one line of the reconciliation view. The only implementations are
// ReconciledRow, UnreconciledBankRow and UnreconciledInternalRow.
type Row interface {
	Status() RowStatus
	// EffectiveDate is the bank post date when a bank line is present,
	// otherwise the internal transaction date.
	EffectiveDate() time.Time
	isRow()
}

// ReconciledRow is a bank line and an internal transaction joined by the
// link identified by ID.
type ReconciledRow struct {
	ID       uuid.UUID
	Bank     BankStatementLine
	Internal InternalTransaction
}

type UnreconciledBankRow struct {
	Bank BankStatementLine
}

type UnreconciledInternalRow struct {
	Internal InternalTransaction
}

func (ReconciledRow) Status() RowStatus           { return StatusReconciled }
func (UnreconciledBankRow) Status() RowStatus     { return StatusUnreconciledBank }
func (UnreconciledInternalRow) Status() RowStatus { return StatusUnreconciledInternal }

func (r ReconciledRow) EffectiveDate() time.Time           { return r.Bank.PostDate }
func (r UnreconciledBankRow) EffectiveDate() time.Time     { return r.Bank.PostDate }
func (r UnreconciledInternalRow) EffectiveDate() time.Time { return r.Internal.Date }

func (ReconciledRow) isRow()           {}
func (UnreconciledBankRow) isRow()     {}
func (UnreconciledInternalRow) isRow() {}

// SortRows orders rows ascending by effective date. Rows with equal dates
// keep their input order.
func SortRows(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].EffectiveDate().Before(rows[j].EffectiveDate())
	})
}

// RowPayload is the JSON shape of a Row. Status discriminates which of the
// optional fields are present.
type RowPayload struct {
	Status              RowStatus            `json:"status"`
	ID                  *uuid.UUID           `json:"id,omitempty"`
	BankStatement       *BankStatementLine   `json:"bankStatement,omitempty"`
	InternalTransaction *InternalTransaction `json:"internalTransaction,omitempty"`
}

func EncodeRow(r Row) RowPayload {
	switch v := r.(type) {
	case ReconciledRow:
		id, bank, internal := v.ID, v.Bank, v.Internal
		return RowPayload{Status: StatusReconciled, ID: &id, BankStatement: &bank, InternalTransaction: &internal}
	case UnreconciledBankRow:
		bank := v.Bank
		return RowPayload{Status: StatusUnreconciledBank, BankStatement: &bank}
	case UnreconciledInternalRow:
		internal := v.Internal
		return RowPayload{Status: StatusUnreconciledInternal, InternalTransaction: &internal}
	}
	return RowPayload{}
}

func EncodeRows(rows []Row) []RowPayload {
	out := make([]RowPayload, 0, len(rows))
	for _, r := range rows {
		out = append(out, EncodeRow(r))
	}
	return out
}

// Decode converts the payload into its Row variant, rejecting payloads whose
// present fields disagree with Status.
func (p RowPayload) Decode() (Row, error) {
	switch p.Status {
	case StatusReconciled:
		if p.ID == nil || p.BankStatement == nil || p.InternalTransaction == nil {
			return nil, fmt.Errorf("reconciled row requires id, bankStatement and internalTransaction")
		}
		if !p.InternalTransaction.Kind.Valid() {
			return nil, fmt.Errorf("reconciled row %s: unknown transaction type %q", *p.ID, p.InternalTransaction.Kind)
		}
		return ReconciledRow{ID: *p.ID, Bank: *p.BankStatement, Internal: *p.InternalTransaction}, nil
	case StatusUnreconciledBank:
		if p.BankStatement == nil || p.InternalTransaction != nil {
			return nil, fmt.Errorf("unreconciled bank row requires bankStatement only")
		}
		return UnreconciledBankRow{Bank: *p.BankStatement}, nil
	case StatusUnreconciledInternal:
		if p.InternalTransaction == nil || p.BankStatement != nil {
			return nil, fmt.Errorf("unreconciled internal row requires internalTransaction only")
		}
		if !p.InternalTransaction.Kind.Valid() {
			return nil, fmt.Errorf("unreconciled internal row %s: unknown transaction type %q", p.InternalTransaction.ID, p.InternalTransaction.Kind)
		}
		return UnreconciledInternalRow{Internal: *p.InternalTransaction}, nil
	}
	return nil, fmt.Errorf("unknown row status %q", p.Status)
}

func DecodeRows(payloads []RowPayload) ([]Row, error) {
	rows := make([]Row, 0, len(payloads))
	for i, p := range payloads {
		r, err := p.Decode()
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		rows = append(rows, r)
	}
	return rows, nil
}
