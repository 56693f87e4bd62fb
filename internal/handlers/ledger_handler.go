package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *ReconciliationHandler) ListAccounts(c *gin.Context) {
	accounts, err := h.service.ListAccounts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": accounts})
}

func (h *ReconciliationHandler) CreateAccount(c *gin.Context) {
	var req accountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if err := req.Validate(); err != nil {
		badRequest(c, err)
		return
	}
	account, err := h.service.CreateAccount(c.Request.Context(), req.Name, req.BankName, req.AccountNumber)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "account created", "account": account})
}

func (h *ReconciliationHandler) CreateReceipt(c *gin.Context) {
	var req ledgerRequest
	if !bindLedger(c, &req) {
		return
	}
	receipt, err := h.service.CreateReceipt(c.Request.Context(), req.toEntry())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "receipt created", "receipt": receipt})
}

func (h *ReconciliationHandler) CreateExpenditure(c *gin.Context) {
	var req ledgerRequest
	if !bindLedger(c, &req) {
		return
	}
	expenditure, err := h.service.CreateExpenditure(c.Request.Context(), req.toEntry())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "expenditure created", "expenditure": expenditure})
}

func bindLedger(c *gin.Context, req *ledgerRequest) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return false
	}
	if err := req.Validate(); err != nil {
		badRequest(c, err)
		return false
	}
	return true
}
