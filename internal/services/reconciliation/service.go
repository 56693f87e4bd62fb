package reconciliation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"estate-reconciliation-backend/internal/apierror"
	"estate-reconciliation-backend/internal/models"
	"estate-reconciliation-backend/internal/repository"
	"estate-reconciliation-backend/internal/services/matching"
)

var tracer = otel.Tracer("estate-reconciliation-backend/reconciliation")

func rangeAttributes(accountID uuid.UUID, rng Range) trace.SpanStartOption {
	return trace.WithAttributes(
		attribute.String("account_id", accountID.String()),
		attribute.String("start", rng.Start.Format(DateLayout)),
		attribute.String("end", rng.End.Format(DateLayout)),
	)
}

// DateLayout is the wire format of range bounds.
const DateLayout = "2006-01-02"

type ReconciliationService struct {
	store    repository.DataSource
	matching matching.Config
	now      func() time.Time
}

func NewReconciliationService(store repository.DataSource, cfg matching.Config) *ReconciliationService {
	return &ReconciliationService{
		store:    store,
		matching: cfg,
		now:      time.Now,
	}
}

// Range is an inclusive span of calendar days.
type Range struct {
	Start time.Time
	End   time.Time
}

// NewRange truncates both bounds to whole days and clamps End to Start when
// End precedes it.
func NewRange(start, end time.Time) Range {
	start = truncateDay(start)
	end = truncateDay(end)
	if end.Before(start) {
		end = start
	}
	return Range{Start: start, End: end}
}

// ParseRange parses two DateLayout strings into a Range.
func ParseRange(start, end string) (Range, error) {
	s, err := time.Parse(DateLayout, start)
	if err != nil {
		return Range{}, apierror.InvalidInput("invalid startDate %q, expected YYYY-MM-DD", start)
	}
	e, err := time.Parse(DateLayout, end)
	if err != nil {
		return Range{}, apierror.InvalidInput("invalid endDate %q, expected YYYY-MM-DD", end)
	}
	return NewRange(s, e), nil
}

// bounds returns the half-open interval [Start, End+1d).
func (r Range) bounds() (time.Time, time.Time) {
	return r.Start, r.End.AddDate(0, 0, 1)
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// FetchRows builds the reconciliation view of an account over a range: every
// bank line posted in range, reconciled or not, plus the unreconciled
// receipts and expenditures dated in range. Reconciled pairs appear under
// their bank post date.
func (s *ReconciliationService) FetchRows(ctx context.Context, accountID uuid.UUID, rng Range) ([]models.Row, error) {
	ctx, span := tracer.Start(ctx, "FetchRows", rangeAttributes(accountID, rng))
	defer span.End()

	if err := s.requireAccount(ctx, accountID); err != nil {
		return nil, err
	}

	from, to := rng.bounds()
	lines, err := s.store.ListBankLines(ctx, accountID, from, to)
	if err != nil {
		return nil, fmt.Errorf("listing bank lines: %w", err)
	}
	internals, err := s.store.ListInternal(ctx, accountID, from, to)
	if err != nil {
		return nil, fmt.Errorf("listing internal transactions: %w", err)
	}

	lineIDs := make([]uuid.UUID, 0, len(lines))
	for _, l := range lines {
		lineIDs = append(lineIDs, l.ID)
	}
	links, err := s.store.ListLinksByBankLines(ctx, lineIDs)
	if err != nil {
		return nil, fmt.Errorf("listing links: %w", err)
	}

	inRange := make(map[internalKey]models.InternalTransaction, len(internals))
	for _, it := range internals {
		inRange[internalKey{it.ID, it.Kind}] = it
	}
	linkByLine := make(map[uuid.UUID]models.ReconciliationLink, len(links))
	for _, l := range links {
		linkByLine[l.BankStatementLineID] = l
	}

	rows := make([]models.Row, 0, len(lines)+len(internals))
	for _, line := range lines {
		link, ok := linkByLine[line.ID]
		if !ok {
			rows = append(rows, models.UnreconciledBankRow{Bank: line})
			continue
		}
		id, kind := link.InternalID()
		it, ok := inRange[internalKey{id, kind}]
		if !ok {
			loaded, err := s.store.GetInternal(ctx, id, kind)
			if err != nil {
				return nil, fmt.Errorf("loading %s %s for link %s: %w", kind, id, link.ID, err)
			}
			it = *loaded
		}
		rows = append(rows, models.ReconciledRow{ID: link.ID, Bank: line, Internal: it})
	}

	unlinked, err := s.store.ListUnlinkedInternal(ctx, accountID, from, to)
	if err != nil {
		return nil, fmt.Errorf("listing unlinked internal transactions: %w", err)
	}
	for _, it := range unlinked {
		rows = append(rows, models.UnreconciledInternalRow{Internal: it})
	}

	models.SortRows(rows)
	logrus.WithFields(logrus.Fields{
		"account_id": accountID,
		"start":      rng.Start.Format(DateLayout),
		"end":        rng.End.Format(DateLayout),
		"rows":       len(rows),
	}).Debug("reconciliation rows fetched")
	return rows, nil
}

type internalKey struct {
	id   uuid.UUID
	kind models.TransactionKind
}

func (s *ReconciliationService) requireAccount(ctx context.Context, accountID uuid.UUID) error {
	if _, err := s.store.GetAccount(ctx, accountID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierror.NotFound("account %s not found", accountID)
		}
		return fmt.Errorf("loading account %s: %w", accountID, err)
	}
	return nil
}

// History returns the audit trail of a bank statement line.
func (s *ReconciliationService) History(ctx context.Context, lineID uuid.UUID) ([]models.MatchAuditLog, error) {
	if _, err := s.store.GetBankLine(ctx, lineID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NotFound("bank statement line %s not found", lineID)
		}
		return nil, err
	}
	return s.store.ListAudit(ctx, lineID)
}
