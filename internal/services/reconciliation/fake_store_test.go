package reconciliation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"estate-reconciliation-backend/internal/models"
	"estate-reconciliation-backend/internal/repository"
)

// memStore is an in-memory repository.DataSource. InTx restores the
// previous state when fn fails.
type memStore struct {
	accounts     map[uuid.UUID]models.Account
	lines        map[uuid.UUID]models.BankStatementLine
	receipts     map[uuid.UUID]models.Receipt
	expenditures map[uuid.UUID]models.Expenditure
	links        map[uuid.UUID]models.ReconciliationLink
	imports      map[uuid.UUID]models.StatementImport
	audit        []models.MatchAuditLog

	failCreateLink error
}

var _ repository.DataSource = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{
		accounts:     map[uuid.UUID]models.Account{},
		lines:        map[uuid.UUID]models.BankStatementLine{},
		receipts:     map[uuid.UUID]models.Receipt{},
		expenditures: map[uuid.UUID]models.Expenditure{},
		links:        map[uuid.UUID]models.ReconciliationLink{},
		imports:      map[uuid.UUID]models.StatementImport{},
	}
}

func inRange(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}

func (m *memStore) GetAccount(_ context.Context, id uuid.UUID) (*models.Account, error) {
	a, ok := m.accounts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &a, nil
}

func (m *memStore) ListAccounts(context.Context) ([]models.Account, error) {
	var out []models.Account
	for _, a := range m.accounts {
		out = append(out, a)
	}
	return out, nil
}

func (m *memStore) CreateAccount(_ context.Context, a *models.Account) error {
	for _, existing := range m.accounts {
		if existing.AccountNumber == a.AccountNumber {
			return gorm.ErrDuplicatedKey
		}
	}
	m.accounts[a.ID] = *a
	return nil
}

func (m *memStore) GetBankLine(_ context.Context, id uuid.UUID) (*models.BankStatementLine, error) {
	l, ok := m.lines[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &l, nil
}

func (m *memStore) CreateBankLine(_ context.Context, l *models.BankStatementLine) error {
	m.lines[l.ID] = *l
	return nil
}

func (m *memStore) ListBankLines(_ context.Context, accountID uuid.UUID, from, to time.Time) ([]models.BankStatementLine, error) {
	var out []models.BankStatementLine
	for _, l := range m.lines {
		if l.AccountID == accountID && inRange(l.PostDate, from, to) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *memStore) lineLinked(id uuid.UUID) bool {
	for _, l := range m.links {
		if l.BankStatementLineID == id {
			return true
		}
	}
	return false
}

func (m *memStore) internalLinked(id uuid.UUID, kind models.TransactionKind) bool {
	for _, l := range m.links {
		lid, lkind := l.InternalID()
		if lid == id && lkind == kind {
			return true
		}
	}
	return false
}

func (m *memStore) ListUnlinkedBankLines(ctx context.Context, accountID uuid.UUID, from, to time.Time) ([]models.BankStatementLine, error) {
	all, _ := m.ListBankLines(ctx, accountID, from, to)
	var out []models.BankStatementLine
	for _, l := range all {
		if !m.lineLinked(l.ID) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *memStore) ListInternal(_ context.Context, accountID uuid.UUID, from, to time.Time) ([]models.InternalTransaction, error) {
	var out []models.InternalTransaction
	for _, r := range m.receipts {
		if r.AccountID == accountID && inRange(r.Date, from, to) {
			out = append(out, r.Internal())
		}
	}
	for _, e := range m.expenditures {
		if e.AccountID == accountID && inRange(e.Date, from, to) {
			out = append(out, e.Internal())
		}
	}
	return out, nil
}

func (m *memStore) ListUnlinkedInternal(ctx context.Context, accountID uuid.UUID, from, to time.Time) ([]models.InternalTransaction, error) {
	all, _ := m.ListInternal(ctx, accountID, from, to)
	var out []models.InternalTransaction
	for _, it := range all {
		if !m.internalLinked(it.ID, it.Kind) {
			out = append(out, it)
		}
	}
	return out, nil
}

func (m *memStore) GetInternal(_ context.Context, id uuid.UUID, kind models.TransactionKind) (*models.InternalTransaction, error) {
	if kind == models.KindReceipt {
		if r, ok := m.receipts[id]; ok {
			it := r.Internal()
			return &it, nil
		}
	} else if e, ok := m.expenditures[id]; ok {
		it := e.Internal()
		return &it, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memStore) CreateReceipt(_ context.Context, r *models.Receipt) error {
	m.receipts[r.ID] = *r
	return nil
}

func (m *memStore) CreateExpenditure(_ context.Context, e *models.Expenditure) error {
	m.expenditures[e.ID] = *e
	return nil
}

func (m *memStore) ListLinksByBankLines(_ context.Context, lineIDs []uuid.UUID) ([]models.ReconciliationLink, error) {
	want := map[uuid.UUID]bool{}
	for _, id := range lineIDs {
		want[id] = true
	}
	var out []models.ReconciliationLink
	for _, l := range m.links {
		if want[l.BankStatementLineID] {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *memStore) LinkExistsForBankLine(_ context.Context, id uuid.UUID) (bool, error) {
	return m.lineLinked(id), nil
}

func (m *memStore) LinkExistsForInternal(_ context.Context, id uuid.UUID, kind models.TransactionKind) (bool, error) {
	return m.internalLinked(id, kind), nil
}

func (m *memStore) GetLink(_ context.Context, id uuid.UUID) (*models.ReconciliationLink, error) {
	l, ok := m.links[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &l, nil
}

func (m *memStore) CreateLink(_ context.Context, l *models.ReconciliationLink) error {
	if m.failCreateLink != nil {
		return m.failCreateLink
	}
	m.links[l.ID] = *l
	return nil
}

func (m *memStore) DeleteLink(_ context.Context, id uuid.UUID) (bool, error) {
	if _, ok := m.links[id]; !ok {
		return false, nil
	}
	delete(m.links, id)
	return true, nil
}

func (m *memStore) RecordAudit(_ context.Context, e *models.MatchAuditLog) error {
	m.audit = append(m.audit, *e)
	return nil
}

func (m *memStore) ListAudit(_ context.Context, lineID uuid.UUID) ([]models.MatchAuditLog, error) {
	var out []models.MatchAuditLog
	for _, e := range m.audit {
		if e.BankStatementLineID == lineID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memStore) CreateImport(_ context.Context, imp *models.StatementImport) error {
	m.imports[imp.ID] = *imp
	return nil
}

func (m *memStore) GetImport(_ context.Context, id uuid.UUID) (*models.StatementImport, error) {
	imp, ok := m.imports[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &imp, nil
}

func (m *memStore) UpdateImportProgress(_ context.Context, id uuid.UUID, processed, rejected int) error {
	imp := m.imports[id]
	imp.ProcessedCount, imp.RejectedCount = processed, rejected
	m.imports[id] = imp
	return nil
}

func (m *memStore) FinishImport(_ context.Context, id uuid.UUID, status string, total, processed, rejected int) error {
	imp := m.imports[id]
	imp.Status, imp.TotalRows, imp.ProcessedCount, imp.RejectedCount = status, total, processed, rejected
	now := time.Now()
	imp.CompletedAt = &now
	m.imports[id] = imp
	return nil
}

func (m *memStore) InTx(_ context.Context, fn func(tx repository.DataSource) error) error {
	links := make(map[uuid.UUID]models.ReconciliationLink, len(m.links))
	for k, v := range m.links {
		links[k] = v
	}
	audit := append([]models.MatchAuditLog(nil), m.audit...)

	if err := fn(m); err != nil {
		m.links = links
		m.audit = audit
		return err
	}
	return nil
}
