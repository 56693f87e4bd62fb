package handler

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"estate-reconciliation-backend/internal/models"
	service "estate-reconciliation-backend/internal/services/reconciliation"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) ListAccounts(ctx context.Context) ([]models.Account, error) {
	args := m.Called(ctx)
	accounts, _ := args.Get(0).([]models.Account)
	return accounts, args.Error(1)
}

func (m *MockService) CreateAccount(ctx context.Context, name, bankName, accountNumber string) (*models.Account, error) {
	args := m.Called(ctx, name, bankName, accountNumber)
	account, _ := args.Get(0).(*models.Account)
	return account, args.Error(1)
}

func (m *MockService) FetchRows(ctx context.Context, accountID uuid.UUID, rng service.Range) ([]models.Row, error) {
	args := m.Called(ctx, accountID, rng)
	rows, _ := args.Get(0).([]models.Row)
	return rows, args.Error(1)
}

func (m *MockService) AutoReconcile(ctx context.Context, accountID uuid.UUID, rng service.Range, performedBy string) (int, error) {
	args := m.Called(ctx, accountID, rng, performedBy)
	return args.Int(0), args.Error(1)
}

func (m *MockService) ManualReconcile(ctx context.Context, req service.ManualRequest, performedBy string) (*models.ReconciliationLink, error) {
	args := m.Called(ctx, req, performedBy)
	link, _ := args.Get(0).(*models.ReconciliationLink)
	return link, args.Error(1)
}

func (m *MockService) Unreconcile(ctx context.Context, linkID uuid.UUID, performedBy string) error {
	return m.Called(ctx, linkID, performedBy).Error(0)
}

func (m *MockService) History(ctx context.Context, lineID uuid.UUID) ([]models.MatchAuditLog, error) {
	args := m.Called(ctx, lineID)
	entries, _ := args.Get(0).([]models.MatchAuditLog)
	return entries, args.Error(1)
}

func (m *MockService) StartImport(ctx context.Context, accountID uuid.UUID, filename string) (*models.StatementImport, error) {
	args := m.Called(ctx, accountID, filename)
	imp, _ := args.Get(0).(*models.StatementImport)
	return imp, args.Error(1)
}

func (m *MockService) ProcessStatement(ctx context.Context, imp *models.StatementImport, r io.Reader) error {
	return m.Called(ctx, imp, r).Error(0)
}

func (m *MockService) GetImport(ctx context.Context, id uuid.UUID) (*models.StatementImport, error) {
	args := m.Called(ctx, id)
	imp, _ := args.Get(0).(*models.StatementImport)
	return imp, args.Error(1)
}

func (m *MockService) CreateReceipt(ctx context.Context, e service.LedgerEntry) (*models.Receipt, error) {
	args := m.Called(ctx, e)
	r, _ := args.Get(0).(*models.Receipt)
	return r, args.Error(1)
}

func (m *MockService) CreateExpenditure(ctx context.Context, e service.LedgerEntry) (*models.Expenditure, error) {
	args := m.Called(ctx, e)
	x, _ := args.Get(0).(*models.Expenditure)
	return x, args.Error(1)
}
