package reconciliation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"estate-reconciliation-backend/internal/apierror"
	"estate-reconciliation-backend/internal/models"
	"estate-reconciliation-backend/internal/repository"
	"estate-reconciliation-backend/internal/services/matching"
)

// ManualRequest links one bank line with exactly one of a receipt or an
// expenditure.
type ManualRequest struct {
	BankStatementID uuid.UUID
	ReceiptID       *uuid.UUID
	ExpenditureID   *uuid.UUID
}

func (r ManualRequest) internal() (uuid.UUID, models.TransactionKind, error) {
	switch {
	case r.ReceiptID != nil && r.ExpenditureID != nil:
		return uuid.Nil, "", apierror.InvalidInput("only one of receiptId and expenditureId may be set")
	case r.ReceiptID != nil:
		return *r.ReceiptID, models.KindReceipt, nil
	case r.ExpenditureID != nil:
		return *r.ExpenditureID, models.KindExpenditure, nil
	}
	return uuid.Nil, "", apierror.InvalidInput("one of receiptId and expenditureId is required")
}

// ManualReconcile creates a link chosen by an operator. Amounts do not have
// to agree; a difference is recorded in the link's match details.
func (s *ReconciliationService) ManualReconcile(ctx context.Context, req ManualRequest, performedBy string) (*models.ReconciliationLink, error) {
	ctx, span := tracer.Start(ctx, "ManualReconcile")
	defer span.End()

	internalID, kind, err := req.internal()
	if err != nil {
		return nil, err
	}

	var link *models.ReconciliationLink
	err = s.store.InTx(ctx, func(tx repository.DataSource) error {
		line, err := tx.GetBankLine(ctx, req.BankStatementID)
		if err != nil {
			return notFound(err, "bank statement line %s not found", req.BankStatementID)
		}
		it, err := tx.GetInternal(ctx, internalID, kind)
		if err != nil {
			return notFound(err, "%s %s not found", kindName(kind), internalID)
		}
		if it.AccountID != line.AccountID {
			return apierror.InvalidInput("%s %s belongs to a different account than bank statement line %s", kindName(kind), it.ID, line.ID)
		}
		if line.Kind() != kind {
			return apierror.InvalidInput("a %s bank line cannot be matched with a %s", direction(*line), kindName(kind))
		}

		if exists, err := tx.LinkExistsForBankLine(ctx, line.ID); err != nil {
			return err
		} else if exists {
			return apierror.Conflict("bank statement line %s is already reconciled", line.ID)
		}
		if exists, err := tx.LinkExistsForInternal(ctx, it.ID, kind); err != nil {
			return err
		} else if exists {
			return apierror.Conflict("%s %s is already reconciled", kindName(kind), it.ID)
		}

		details, _ := json.Marshal(map[string]interface{}{
			"bank_amount":     line.Amount().String(),
			"internal_amount": it.Amount.String(),
			"difference":      line.Amount().Sub(it.Amount).String(),
		})
		link = newLink(*line, *it, models.MethodManual, 100, details)
		return s.createLink(ctx, tx, link, performedBy)
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"link_id":      link.ID,
		"bank_line_id": link.BankStatementLineID,
		"performed_by": performedBy,
	}).Info("manual reconciliation created")
	return link, nil
}

// AutoReconcile runs the matching engine over the unreconciled lines and
// transactions of an account in range and persists every accepted match in
// a single transaction. It returns the number of links created.
func (s *ReconciliationService) AutoReconcile(ctx context.Context, accountID uuid.UUID, rng Range, performedBy string) (int, error) {
	ctx, span := tracer.Start(ctx, "AutoReconcile", rangeAttributes(accountID, rng))
	defer span.End()

	if err := s.requireAccount(ctx, accountID); err != nil {
		return 0, err
	}

	from, to := rng.bounds()
	var created int
	err := s.store.InTx(ctx, func(tx repository.DataSource) error {
		lines, err := tx.ListUnlinkedBankLines(ctx, accountID, from, to)
		if err != nil {
			return fmt.Errorf("listing unlinked bank lines: %w", err)
		}
		txns, err := tx.ListUnlinkedInternal(ctx, accountID, from, to)
		if err != nil {
			return fmt.Errorf("listing unlinked internal transactions: %w", err)
		}

		for _, m := range matching.Run(lines, txns, s.matching) {
			details, _ := json.Marshal(m.Details())
			link := newLink(m.Line, m.Internal, models.MethodAuto, m.Score, details)
			if err := s.createLink(ctx, tx, link, performedBy); err != nil {
				return err
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	logrus.WithFields(logrus.Fields{
		"account_id":   accountID,
		"start":        rng.Start.Format(DateLayout),
		"end":          rng.End.Format(DateLayout),
		"matched":      created,
		"performed_by": performedBy,
	}).Info("auto reconciliation completed")
	return created, nil
}

// Unreconcile deletes a link, returning both sides to unmatched.
func (s *ReconciliationService) Unreconcile(ctx context.Context, linkID uuid.UUID, performedBy string) error {
	ctx, span := tracer.Start(ctx, "Unreconcile")
	defer span.End()
	span.SetAttributes(attribute.String("link_id", linkID.String()))

	err := s.store.InTx(ctx, func(tx repository.DataSource) error {
		link, err := tx.GetLink(ctx, linkID)
		if err != nil {
			return notFound(err, "reconciliation %s not found", linkID)
		}
		deleted, err := tx.DeleteLink(ctx, linkID)
		if err != nil {
			return fmt.Errorf("deleting link %s: %w", linkID, err)
		}
		if !deleted {
			return apierror.NotFound("reconciliation %s not found", linkID)
		}
		internalID, _ := link.InternalID()
		return tx.RecordAudit(ctx, &models.MatchAuditLog{
			LinkID:              link.ID,
			BankStatementLineID: link.BankStatementLineID,
			InternalID:          &internalID,
			Action:              models.ActionUnreconciled,
			Method:              link.Method,
			PerformedBy:         performedBy,
			CreatedAt:           s.now(),
		})
	})
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"link_id":      linkID,
		"performed_by": performedBy,
	}).Info("reconciliation removed")
	return nil
}

func newLink(line models.BankStatementLine, it models.InternalTransaction, method string, score float64, details []byte) *models.ReconciliationLink {
	link := &models.ReconciliationLink{
		ID:                  uuid.New(),
		AccountID:           line.AccountID,
		BankStatementLineID: line.ID,
		Method:              method,
		ConfidenceScore:     score,
		MatchDetails:        details,
	}
	id := it.ID
	if it.Kind == models.KindReceipt {
		link.ReceiptID = &id
	} else {
		link.ExpenditureID = &id
	}
	return link
}

func (s *ReconciliationService) createLink(ctx context.Context, tx repository.DataSource, link *models.ReconciliationLink, performedBy string) error {
	link.CreatedAt = s.now()
	if err := tx.CreateLink(ctx, link); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apierror.Conflict("bank statement line %s is already reconciled", link.BankStatementLineID)
		}
		return fmt.Errorf("creating link: %w", err)
	}
	internalID, _ := link.InternalID()
	return tx.RecordAudit(ctx, &models.MatchAuditLog{
		LinkID:              link.ID,
		BankStatementLineID: link.BankStatementLineID,
		InternalID:          &internalID,
		Action:              models.ActionReconciled,
		Method:              link.Method,
		PerformedBy:         performedBy,
		CreatedAt:           link.CreatedAt,
	})
}

func notFound(err error, format string, args ...interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apierror.NotFound(format, args...)
	}
	return err
}

func kindName(kind models.TransactionKind) string {
	if kind == models.KindReceipt {
		return "receipt"
	}
	return "expenditure"
}

func direction(line models.BankStatementLine) string {
	if line.IsCredit() {
		return "credit"
	}
	return "debit"
}
