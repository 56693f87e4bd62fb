package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"estate-reconciliation-backend/internal/apierror"
	"estate-reconciliation-backend/internal/middleware"
	"estate-reconciliation-backend/internal/models"
	service "estate-reconciliation-backend/internal/services/reconciliation"
)

func setupRouter(svc *MockService) (*gin.Engine, *ReconciliationHandler) {
	gin.SetMode(gin.TestMode)
	h := NewReconciliationHandler(svc)
	h.background = func(fn func()) { fn() }

	r := gin.New()
	api := r.Group("/api", middleware.Operator())
	api.GET("/accounts", h.ListAccounts)
	api.POST("/accounts", h.CreateAccount)
	api.GET("/reconciliation", h.GetRows)
	api.POST("/reconciliation/auto", h.AutoReconcile)
	api.POST("/reconciliation/manual", h.ManualReconcile)
	api.DELETE("/reconciliation/:id", h.Unreconcile)
	api.POST("/bank-statements/upload", h.Upload)
	api.GET("/bank-statements/imports/:importId", h.GetImportProgress)
	api.GET("/bank-statements/:id/history", h.GetHistory)
	api.POST("/receipts", h.CreateReceipt)
	api.POST("/expenditures", h.CreateExpenditure)
	return r, h
}

func date(day int) time.Time {
	return time.Date(2024, time.June, day, 0, 0, 0, 0, time.UTC)
}

func doJSON(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.OperatorHeader, "siti")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestGetRows(t *testing.T) {
	svc := new(MockService)
	r, _ := setupRouter(svc)
	accountID := uuid.New()

	bank := models.BankStatementLine{ID: uuid.New(), AccountID: accountID, PostDate: date(2), Credit: decimal.NewFromInt(100)}
	internal := models.InternalTransaction{ID: uuid.New(), AccountID: accountID, Kind: models.KindExpenditure, Date: date(3), Amount: decimal.NewFromInt(5)}
	rows := []models.Row{
		models.UnreconciledBankRow{Bank: bank},
		models.UnreconciledInternalRow{Internal: internal},
	}
	svc.On("FetchRows", mock.Anything, accountID, service.NewRange(date(1), date(30))).Return(rows, nil)

	w := doJSON(r, http.MethodGet, "/api/reconciliation?accountId="+accountID.String()+"&startDate=2024-06-01&endDate=2024-06-30", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data []models.RowPayload `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	got, err := models.DecodeRows(body.Data)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, models.StatusUnreconciledBank, got[0].Status())
	assert.Equal(t, models.StatusUnreconciledInternal, got[1].Status())
	svc.AssertExpectations(t)
}

func TestGetRowsClampsEndDate(t *testing.T) {
	svc := new(MockService)
	r, _ := setupRouter(svc)
	accountID := uuid.New()
	svc.On("FetchRows", mock.Anything, accountID, service.Range{Start: date(10), End: date(10)}).Return([]models.Row{}, nil)

	w := doJSON(r, http.MethodGet, "/api/reconciliation?accountId="+accountID.String()+"&startDate=2024-06-10&endDate=2024-06-01", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestGetRowsRejectsBadQuery(t *testing.T) {
	svc := new(MockService)
	r, _ := setupRouter(svc)

	tests := []struct {
		name  string
		query string
	}{
		{"missing account", "startDate=2024-06-01&endDate=2024-06-30"},
		{"bad account", "accountId=abc&startDate=2024-06-01&endDate=2024-06-30"},
		{"bad date", "accountId=" + uuid.NewString() + "&startDate=01-06-2024&endDate=2024-06-30"},
		{"missing end", "accountId=" + uuid.NewString() + "&startDate=2024-06-01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(r, http.MethodGet, "/api/reconciliation?"+tt.query, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
	svc.AssertNotCalled(t, "FetchRows", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetRowsUnknownAccount(t *testing.T) {
	svc := new(MockService)
	r, _ := setupRouter(svc)
	accountID := uuid.New()
	svc.On("FetchRows", mock.Anything, accountID, mock.Anything).Return(nil, apierror.NotFound("account %s not found", accountID))

	w := doJSON(r, http.MethodGet, "/api/reconciliation?accountId="+accountID.String()+"&startDate=2024-06-01&endDate=2024-06-30", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", decodeBody(t, w)["code"])
}

func TestInternalErrorsAreHidden(t *testing.T) {
	svc := new(MockService)
	r, _ := setupRouter(svc)
	svc.On("ListAccounts", mock.Anything).Return(nil, errors.New("pq: connection refused"))

	w := doJSON(r, http.MethodGet, "/api/accounts", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal server error", decodeBody(t, w)["error"])
}

func TestManualReconcile(t *testing.T) {
	svc := new(MockService)
	r, _ := setupRouter(svc)
	bankID, receiptID := uuid.New(), uuid.New()
	want := service.ManualRequest{BankStatementID: bankID, ReceiptID: &receiptID}
	svc.On("ManualReconcile", mock.Anything, want, "siti").
		Return(&models.ReconciliationLink{ID: uuid.New(), BankStatementLineID: bankID, ReceiptID: &receiptID}, nil)

	w := doJSON(r, http.MethodPost, "/api/reconciliation/manual", gin.H{
		"bankStatementId": bankID.String(),
		"receiptId":       receiptID.String(),
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	svc.AssertExpectations(t)
}

func TestManualReconcileValidation(t *testing.T) {
	svc := new(MockService)
	r, _ := setupRouter(svc)
	id := uuid.NewString()

	tests := []struct {
		name string
		body gin.H
	}{
		{"neither side", gin.H{"bankStatementId": id}},
		{"both sides", gin.H{"bankStatementId": id, "receiptId": uuid.NewString(), "expenditureId": uuid.NewString()}},
		{"missing bank line", gin.H{"receiptId": id}},
		{"bad expenditure id", gin.H{"bankStatementId": id, "expenditureId": "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(r, http.MethodPost, "/api/reconciliation/manual", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
	svc.AssertNotCalled(t, "ManualReconcile", mock.Anything, mock.Anything, mock.Anything)
}

func TestManualReconcileConflict(t *testing.T) {
	svc := new(MockService)
	r, _ := setupRouter(svc)
	svc.On("ManualReconcile", mock.Anything, mock.Anything, "siti").Return(nil, apierror.Conflict("already reconciled"))

	w := doJSON(r, http.MethodPost, "/api/reconciliation/manual", gin.H{
		"bankStatementId": uuid.NewString(),
		"expenditureId":   uuid.NewString(),
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "already reconciled", decodeBody(t, w)["error"])
}

func TestAutoReconcile(t *testing.T) {
	svc := new(MockService)
	r, _ := setupRouter(svc)
	accountID := uuid.New()
	svc.On("AutoReconcile", mock.Anything, accountID, service.NewRange(date(1), date(30)), "siti").Return(4, nil)

	w := doJSON(r, http.MethodPost, "/api/reconciliation/auto", gin.H{
		"accountId": accountID.String(),
		"startDate": "2024-06-01",
		"endDate":   "2024-06-30",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(4), decodeBody(t, w)["matched"])
}

func TestUnreconcile(t *testing.T) {
	svc := new(MockService)
	r, _ := setupRouter(svc)
	linkID := uuid.New()
	svc.On("Unreconcile", mock.Anything, linkID, "siti").Return(nil)

	w := doJSON(r, http.MethodDelete, "/api/reconciliation/"+linkID.String(), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodDelete, "/api/reconciliation/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNumberOfCalls(t, "Unreconcile", 1)
}

func TestUpload(t *testing.T) {
	svc := new(MockService)
	r, _ := setupRouter(svc)
	accountID := uuid.New()
	imp := &models.StatementImport{ID: uuid.New(), AccountID: accountID, Status: models.ImportProcessing}
	content := "date,remarks,debit,credit,balance\n2024-06-01,FFB,,100.00,100.00\n"

	var processed string
	svc.On("StartImport", mock.Anything, accountID, "june.csv").Return(imp, nil)
	svc.On("ProcessStatement", mock.Anything, imp, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		data, _ := io.ReadAll(args.Get(2).(io.Reader))
		processed = string(data)
	})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("accountId", accountID.String()))
	fw, err := mw.CreateFormFile("file", "june.csv")
	require.NoError(t, err)
	_, _ = io.Copy(fw, strings.NewReader(content))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/bank-statements/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, imp.ID.String(), decodeBody(t, w)["import_id"])
	assert.Equal(t, content, processed)
	svc.AssertExpectations(t)
}

func TestUploadRequiresFile(t *testing.T) {
	svc := new(MockService)
	r, _ := setupRouter(svc)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("accountId", uuid.NewString()))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/bank-statements/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetImportProgress(t *testing.T) {
	svc := new(MockService)
	r, _ := setupRouter(svc)
	id := uuid.New()
	svc.On("GetImport", mock.Anything, id).Return(&models.StatementImport{
		ID: id, TotalRows: 10, ProcessedCount: 8, RejectedCount: 2, Status: models.ImportCompleted,
	}, nil)

	w := doJSON(r, http.MethodGet, "/api/bank-statements/imports/"+id.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, float64(8), body["processed_count"])
	assert.Equal(t, float64(2), body["rejected_count"])
	assert.Equal(t, models.ImportCompleted, body["status"])
}

func TestCreateReceipt(t *testing.T) {
	svc := new(MockService)
	r, _ := setupRouter(svc)
	accountID := uuid.New()
	svc.On("CreateReceipt", mock.Anything, mock.MatchedBy(func(e service.LedgerEntry) bool {
		return e.AccountID == accountID && e.Date.Equal(date(4)) && e.Amount.Equal(decimal.RequireFromString("10.50"))
	})).Return(&models.Receipt{ID: uuid.New()}, nil)

	w := doJSON(r, http.MethodPost, "/api/receipts", gin.H{
		"accountId":   accountID.String(),
		"date":        "2024-06-04",
		"description": "FFB sales",
		"amount":      "10.50",
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	svc.AssertExpectations(t)

	w = doJSON(r, http.MethodPost, "/api/expenditures", gin.H{
		"accountId": accountID.String(),
		"date":      "2024-06-04",
		"amount":    "0",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "CreateExpenditure", mock.Anything, mock.Anything)
}

func TestCreateAccount(t *testing.T) {
	svc := new(MockService)
	r, _ := setupRouter(svc)
	svc.On("CreateAccount", mock.Anything, "Estate Operating", "Maybank", "5140-001").
		Return(&models.Account{ID: uuid.New(), Name: "Estate Operating"}, nil)

	w := doJSON(r, http.MethodPost, "/api/accounts", gin.H{
		"name":          "Estate Operating",
		"bankName":      "Maybank",
		"accountNumber": "5140-001",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, http.MethodPost, "/api/accounts", gin.H{"name": "No number"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNumberOfCalls(t, "CreateAccount", 1)
}

func TestGetHistory(t *testing.T) {
	svc := new(MockService)
	r, _ := setupRouter(svc)
	lineID := uuid.New()
	svc.On("History", mock.Anything, lineID).Return([]models.MatchAuditLog{
		{ID: uuid.New(), BankStatementLineID: lineID, Action: models.ActionReconciled, PerformedBy: "siti"},
		{ID: uuid.New(), BankStatementLineID: lineID, Action: models.ActionUnreconciled, PerformedBy: "ahmad"},
	}, nil)

	w := doJSON(r, http.MethodGet, "/api/bank-statements/"+lineID.String()+"/history", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data, ok := decodeBody(t, w)["data"].([]interface{})
	require.True(t, ok)
	assert.Len(t, data, 2)

	w = doJSON(r, http.MethodGet, "/api/bank-statements/nope/history", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNumberOfCalls(t, "History", 1)
}
