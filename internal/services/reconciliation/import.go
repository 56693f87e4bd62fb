package reconciliation

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"estate-reconciliation-backend/internal/apierror"
	"estate-reconciliation-backend/internal/models"
)

const progressEvery = 100

var statementDateLayouts = []string{"2006-01-02", "02-01-2006", "02/01/2006"}

// StartImport records a new statement import for an account.
func (s *ReconciliationService) StartImport(ctx context.Context, accountID uuid.UUID, filename string) (*models.StatementImport, error) {
	if err := s.requireAccount(ctx, accountID); err != nil {
		return nil, err
	}
	now := s.now()
	imp := &models.StatementImport{
		ID:        uuid.New(),
		AccountID: accountID,
		Filename:  filename,
		Status:    models.ImportProcessing,
		StartedAt: now,
		CreatedAt: now,
	}
	if err := s.store.CreateImport(ctx, imp); err != nil {
		return nil, fmt.Errorf("creating import: %w", err)
	}
	return imp, nil
}

func (s *ReconciliationService) GetImport(ctx context.Context, id uuid.UUID) (*models.StatementImport, error) {
	imp, err := s.store.GetImport(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("import %s not found", id)
		}
		return nil, err
	}
	return imp, nil
}

// ProcessStatement reads a statement CSV with the header
// date,remarks,debit,credit,balance and stores one line per valid row.
// Malformed rows are counted as rejected and skipped.
func (s *ReconciliationService) ProcessStatement(ctx context.Context, imp *models.StatementImport, r io.Reader) error {
	log := logrus.WithField("import_id", imp.ID)

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	if _, err := reader.Read(); err != nil {
		log.WithError(err).Error("cannot read statement header")
		s.finish(ctx, imp.ID, models.ImportFailed, 0, 0, 0)
		return fmt.Errorf("reading header: %w", err)
	}

	total, processed, rejected := 0, 0, 0
	for rowNum := 2; ; rowNum++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.WithError(err).Warnf("skipping unreadable row %d", rowNum)
			total++
			rejected++
			continue
		}
		if len(record) == 0 || strings.TrimSpace(strings.Join(record, "")) == "" {
			continue
		}
		total++

		line, err := parseStatementRow(record)
		if err != nil {
			log.WithError(err).Warnf("skipping row %d", rowNum)
			rejected++
			continue
		}
		id := imp.ID
		line.ID = uuid.New()
		line.AccountID = imp.AccountID
		line.ImportID = &id
		line.CreatedAt = s.now()

		if err := s.store.CreateBankLine(ctx, line); err != nil {
			log.WithError(err).Errorf("storing row %d", rowNum)
			rejected++
			continue
		}
		processed++

		if processed%progressEvery == 0 {
			if err := s.store.UpdateImportProgress(ctx, imp.ID, processed, rejected); err != nil {
				log.WithError(err).Warn("updating import progress")
			}
		}
	}

	s.finish(ctx, imp.ID, models.ImportCompleted, total, processed, rejected)
	log.WithFields(logrus.Fields{
		"total":     total,
		"processed": processed,
		"rejected":  rejected,
	}).Info("statement import completed")
	return nil
}

func (s *ReconciliationService) finish(ctx context.Context, id uuid.UUID, status string, total, processed, rejected int) {
	if err := s.store.FinishImport(ctx, id, status, total, processed, rejected); err != nil {
		logrus.WithError(err).WithField("import_id", id).Error("finishing import")
	}
}

func parseStatementRow(record []string) (*models.BankStatementLine, error) {
	if len(record) < 5 {
		return nil, fmt.Errorf("expected 5 columns, got %d", len(record))
	}

	postDate, err := parseStatementDate(strings.TrimSpace(record[0]))
	if err != nil {
		return nil, err
	}
	debit, err := parseAmount(record[2])
	if err != nil {
		return nil, fmt.Errorf("debit: %w", err)
	}
	credit, err := parseAmount(record[3])
	if err != nil {
		return nil, fmt.Errorf("credit: %w", err)
	}
	balance, err := parseAmount(record[4])
	if err != nil {
		return nil, fmt.Errorf("balance: %w", err)
	}

	if debit.IsNegative() || credit.IsNegative() {
		return nil, errors.New("debit and credit must not be negative")
	}
	if debit.IsZero() == credit.IsZero() {
		return nil, errors.New("exactly one of debit and credit must be non-zero")
	}

	return &models.BankStatementLine{
		PostDate:       postDate,
		Remarks:        strings.TrimSpace(record[1]),
		Debit:          debit,
		Credit:         credit,
		ClosingBalance: balance,
	}, nil
}

func parseStatementDate(s string) (time.Time, error) {
	for _, layout := range statementDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// parseAmount accepts thousands separators; an empty cell is zero.
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
