package handler

import (
	"context"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"estate-reconciliation-backend/internal/apierror"
	"estate-reconciliation-backend/internal/models"
	service "estate-reconciliation-backend/internal/services/reconciliation"
)

// Service is what the HTTP layer needs from the reconciliation service.
type Service interface {
	ListAccounts(ctx context.Context) ([]models.Account, error)
	CreateAccount(ctx context.Context, name, bankName, accountNumber string) (*models.Account, error)

	FetchRows(ctx context.Context, accountID uuid.UUID, rng service.Range) ([]models.Row, error)
	AutoReconcile(ctx context.Context, accountID uuid.UUID, rng service.Range, performedBy string) (int, error)
	ManualReconcile(ctx context.Context, req service.ManualRequest, performedBy string) (*models.ReconciliationLink, error)
	Unreconcile(ctx context.Context, linkID uuid.UUID, performedBy string) error
	History(ctx context.Context, lineID uuid.UUID) ([]models.MatchAuditLog, error)

	StartImport(ctx context.Context, accountID uuid.UUID, filename string) (*models.StatementImport, error)
	ProcessStatement(ctx context.Context, imp *models.StatementImport, r io.Reader) error
	GetImport(ctx context.Context, id uuid.UUID) (*models.StatementImport, error)

	CreateReceipt(ctx context.Context, e service.LedgerEntry) (*models.Receipt, error)
	CreateExpenditure(ctx context.Context, e service.LedgerEntry) (*models.Expenditure, error)
}

var _ Service = (*service.ReconciliationService)(nil)

type ReconciliationHandler struct {
	service Service
	// background runs statement processing after the upload response.
	background func(func())
}

func NewReconciliationHandler(s Service) *ReconciliationHandler {
	return &ReconciliationHandler{
		service:    s,
		background: func(fn func()) { go fn() },
	}
}

func respondError(c *gin.Context, err error) {
	status := apierror.MapErrorToHTTPStatus(err)
	if status >= 500 {
		logrus.WithError(err).WithField("path", c.FullPath()).Error("request failed")
	}
	c.JSON(status, apierror.Body(err))
}

func badRequest(c *gin.Context, err error) {
	c.JSON(400, apierror.Body(apierror.New(apierror.ErrBadRequest, err.Error())))
}

func paramUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(400, apierror.Body(apierror.New(apierror.ErrBadRequest, "invalid "+name)))
		return uuid.Nil, false
	}
	return id, true
}
