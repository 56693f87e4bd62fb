package handler

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	service "estate-reconciliation-backend/internal/services/reconciliation"
)

func isUUID(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if _, err := uuid.Parse(s); err != nil {
		return errors.New("must be a valid UUID")
	}
	return nil
}

func isDate(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if _, err := time.Parse(service.DateLayout, s); err != nil {
		return errors.New("must be a date in YYYY-MM-DD format")
	}
	return nil
}

func positive(value interface{}) error {
	d, _ := value.(decimal.Decimal)
	if !d.IsPositive() {
		return errors.New("must be greater than zero")
	}
	return nil
}

// rangeRequest is shared by the fetch query string and the auto reconcile body.
type rangeRequest struct {
	AccountID string `json:"accountId" form:"accountId"`
	StartDate string `json:"startDate" form:"startDate"`
	EndDate   string `json:"endDate" form:"endDate"`
}

func (r *rangeRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.AccountID, validation.Required, validation.By(isUUID)),
		validation.Field(&r.StartDate, validation.Required, validation.By(isDate)),
		validation.Field(&r.EndDate, validation.Required, validation.By(isDate)),
	)
}

func (r *rangeRequest) parse() (uuid.UUID, service.Range, error) {
	rng, err := service.ParseRange(r.StartDate, r.EndDate)
	if err != nil {
		return uuid.Nil, service.Range{}, err
	}
	return uuid.MustParse(r.AccountID), rng, nil
}

type manualRequest struct {
	BankStatementID string `json:"bankStatementId"`
	ReceiptID       string `json:"receiptId"`
	ExpenditureID   string `json:"expenditureId"`
}

func (r *manualRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.BankStatementID, validation.Required, validation.By(isUUID)),
		validation.Field(&r.ReceiptID,
			validation.When(r.ExpenditureID == "", validation.Required.Error("one of receiptId and expenditureId is required")),
			validation.When(r.ExpenditureID != "", validation.Empty.Error("only one of receiptId and expenditureId may be set")),
			validation.By(isUUID)),
		validation.Field(&r.ExpenditureID, validation.By(isUUID)),
	)
}

func (r *manualRequest) toService() service.ManualRequest {
	req := service.ManualRequest{BankStatementID: uuid.MustParse(r.BankStatementID)}
	if r.ReceiptID != "" {
		id := uuid.MustParse(r.ReceiptID)
		req.ReceiptID = &id
	}
	if r.ExpenditureID != "" {
		id := uuid.MustParse(r.ExpenditureID)
		req.ExpenditureID = &id
	}
	return req
}

type accountRequest struct {
	Name          string `json:"name"`
	BankName      string `json:"bankName"`
	AccountNumber string `json:"accountNumber"`
}

func (r *accountRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 120)),
		validation.Field(&r.BankName, validation.Length(0, 120)),
		validation.Field(&r.AccountNumber, validation.Required, validation.Length(1, 64)),
	)
}

type ledgerRequest struct {
	AccountID   string          `json:"accountId"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

func (r *ledgerRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.AccountID, validation.Required, validation.By(isUUID)),
		validation.Field(&r.Date, validation.Required, validation.By(isDate)),
		validation.Field(&r.Amount, validation.By(positive)),
	)
}

func (r *ledgerRequest) toEntry() service.LedgerEntry {
	date, _ := time.Parse(service.DateLayout, r.Date)
	return service.LedgerEntry{
		AccountID:   uuid.MustParse(r.AccountID),
		Date:        date,
		Description: r.Description,
		Amount:      r.Amount,
	}
}
