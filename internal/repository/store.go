package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"estate-reconciliation-backend/internal/models"
)

// DataSource is the storage surface of the reconciliation service.
type DataSource interface {
	GetAccount(ctx context.Context, id uuid.UUID) (*models.Account, error)
	ListAccounts(ctx context.Context) ([]models.Account, error)
	CreateAccount(ctx context.Context, account *models.Account) error

	GetBankLine(ctx context.Context, id uuid.UUID) (*models.BankStatementLine, error)
	CreateBankLine(ctx context.Context, line *models.BankStatementLine) error
	ListBankLines(ctx context.Context, accountID uuid.UUID, from, to time.Time) ([]models.BankStatementLine, error)
	ListUnlinkedBankLines(ctx context.Context, accountID uuid.UUID, from, to time.Time) ([]models.BankStatementLine, error)

	ListInternal(ctx context.Context, accountID uuid.UUID, from, to time.Time) ([]models.InternalTransaction, error)
	ListUnlinkedInternal(ctx context.Context, accountID uuid.UUID, from, to time.Time) ([]models.InternalTransaction, error)
	GetInternal(ctx context.Context, id uuid.UUID, kind models.TransactionKind) (*models.InternalTransaction, error)
	CreateReceipt(ctx context.Context, receipt *models.Receipt) error
	CreateExpenditure(ctx context.Context, expenditure *models.Expenditure) error

	ListLinksByBankLines(ctx context.Context, lineIDs []uuid.UUID) ([]models.ReconciliationLink, error)
	LinkExistsForBankLine(ctx context.Context, lineID uuid.UUID) (bool, error)
	LinkExistsForInternal(ctx context.Context, id uuid.UUID, kind models.TransactionKind) (bool, error)
	GetLink(ctx context.Context, id uuid.UUID) (*models.ReconciliationLink, error)
	CreateLink(ctx context.Context, link *models.ReconciliationLink) error
	DeleteLink(ctx context.Context, id uuid.UUID) (bool, error)

	RecordAudit(ctx context.Context, entry *models.MatchAuditLog) error
	ListAudit(ctx context.Context, lineID uuid.UUID) ([]models.MatchAuditLog, error)

	CreateImport(ctx context.Context, imp *models.StatementImport) error
	GetImport(ctx context.Context, id uuid.UUID) (*models.StatementImport, error)
	UpdateImportProgress(ctx context.Context, id uuid.UUID, processed, rejected int) error
	FinishImport(ctx context.Context, id uuid.UUID, status string, total, processed, rejected int) error

	// InTx runs fn against a DataSource bound to a single transaction. fn
	// returning an error rolls the transaction back.
	InTx(ctx context.Context, fn func(tx DataSource) error) error
}

var _ DataSource = (*Store)(nil)

// Store groups the repositories used by the reconciliation service so that
// they can share a database transaction.
type Store struct {
	db       *gorm.DB
	Accounts *AccountRepository
	Bank     *BankStatementRepository
	Ledger   *LedgerRepository
	Links    *LinkRepository
	Imports  *ImportRepository
	Audit    *AuditRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:       db,
		Accounts: NewAccountRepository(db),
		Bank:     NewBankStatementRepository(db),
		Ledger:   NewLedgerRepository(db),
		Links:    NewLinkRepository(db),
		Imports:  NewImportRepository(db),
		Audit:    NewAuditRepository(db),
	}
}

func (s *Store) GetAccount(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	return s.Accounts.GetByID(ctx, id)
}

func (s *Store) ListAccounts(ctx context.Context) ([]models.Account, error) {
	return s.Accounts.List(ctx)
}

func (s *Store) CreateAccount(ctx context.Context, account *models.Account) error {
	return s.Accounts.Create(ctx, account)
}

func (s *Store) GetBankLine(ctx context.Context, id uuid.UUID) (*models.BankStatementLine, error) {
	return s.Bank.GetByID(ctx, id)
}

func (s *Store) CreateBankLine(ctx context.Context, line *models.BankStatementLine) error {
	return s.Bank.Create(ctx, line)
}

func (s *Store) ListBankLines(ctx context.Context, accountID uuid.UUID, from, to time.Time) ([]models.BankStatementLine, error) {
	return s.Bank.ListByAccountAndRange(ctx, accountID, from, to)
}

func (s *Store) ListUnlinkedBankLines(ctx context.Context, accountID uuid.UUID, from, to time.Time) ([]models.BankStatementLine, error) {
	return s.Bank.ListUnlinked(ctx, accountID, from, to)
}

func (s *Store) ListInternal(ctx context.Context, accountID uuid.UUID, from, to time.Time) ([]models.InternalTransaction, error) {
	return s.Ledger.ListInRange(ctx, accountID, from, to)
}

func (s *Store) ListUnlinkedInternal(ctx context.Context, accountID uuid.UUID, from, to time.Time) ([]models.InternalTransaction, error) {
	return s.Ledger.ListUnlinked(ctx, accountID, from, to)
}

func (s *Store) GetInternal(ctx context.Context, id uuid.UUID, kind models.TransactionKind) (*models.InternalTransaction, error) {
	return s.Ledger.GetInternal(ctx, id, kind)
}

func (s *Store) CreateReceipt(ctx context.Context, receipt *models.Receipt) error {
	return s.Ledger.CreateReceipt(ctx, receipt)
}

func (s *Store) CreateExpenditure(ctx context.Context, expenditure *models.Expenditure) error {
	return s.Ledger.CreateExpenditure(ctx, expenditure)
}

func (s *Store) ListLinksByBankLines(ctx context.Context, lineIDs []uuid.UUID) ([]models.ReconciliationLink, error) {
	return s.Links.ListByBankLines(ctx, lineIDs)
}

func (s *Store) LinkExistsForBankLine(ctx context.Context, lineID uuid.UUID) (bool, error) {
	return s.Links.ExistsForBankLine(ctx, lineID)
}

func (s *Store) LinkExistsForInternal(ctx context.Context, id uuid.UUID, kind models.TransactionKind) (bool, error) {
	return s.Links.ExistsForInternal(ctx, id, kind)
}

func (s *Store) GetLink(ctx context.Context, id uuid.UUID) (*models.ReconciliationLink, error) {
	return s.Links.GetByID(ctx, id)
}

func (s *Store) CreateLink(ctx context.Context, link *models.ReconciliationLink) error {
	return s.Links.Create(ctx, link)
}

func (s *Store) DeleteLink(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.Links.Delete(ctx, id)
}

func (s *Store) RecordAudit(ctx context.Context, entry *models.MatchAuditLog) error {
	return s.Audit.Record(ctx, entry)
}

func (s *Store) ListAudit(ctx context.Context, lineID uuid.UUID) ([]models.MatchAuditLog, error) {
	return s.Audit.ListForBankLine(ctx, lineID)
}

func (s *Store) CreateImport(ctx context.Context, imp *models.StatementImport) error {
	return s.Imports.Create(ctx, imp)
}

func (s *Store) GetImport(ctx context.Context, id uuid.UUID) (*models.StatementImport, error) {
	return s.Imports.GetByID(ctx, id)
}

func (s *Store) UpdateImportProgress(ctx context.Context, id uuid.UUID, processed, rejected int) error {
	return s.Imports.UpdateProgress(ctx, id, processed, rejected)
}

func (s *Store) FinishImport(ctx context.Context, id uuid.UUID, status string, total, processed, rejected int) error {
	return s.Imports.Finish(ctx, id, status, total, processed, rejected)
}

func (s *Store) InTx(ctx context.Context, fn func(tx DataSource) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
