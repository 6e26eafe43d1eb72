package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/opencampus/records-api/internal/models"
	"github.com/opencampus/records-api/internal/service"
	appErrors "github.com/opencampus/records-api/pkg/errors"
	"github.com/opencampus/records-api/pkg/response"
)

// AccountingHandler wires the accounting endpoints.
type AccountingHandler struct {
	ledger *service.LedgerService
}

// NewAccountingHandler creates a new handler.
func NewAccountingHandler(ledger *service.LedgerService) *AccountingHandler {
	return &AccountingHandler{ledger: ledger}
}

// PostFee godoc
// @Summary Post a fee
// @Description Append a charge to a student's ledger
// @Tags Accounting
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.CreateFeeRequest true "Fee payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /accounting/fees [post]
func (h *AccountingHandler) PostFee(c *gin.Context) {
	var req models.CreateFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid fee payload"))
		return
	}

	fee, err := h.ledger.PostFee(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, fee)
}

// PostPayment godoc
// @Summary Post a payment
// @Description Append a credit to a student's ledger
// @Tags Accounting
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.CreatePaymentRequest true "Payment payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /accounting/payments [post]
func (h *AccountingHandler) PostPayment(c *gin.Context) {
	var req models.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payment payload"))
		return
	}

	payment, err := h.ledger.PostPayment(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, payment)
}

// Payments godoc
// @Summary All payments
// @Tags Accounting
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /accounting/payments [get]
func (h *AccountingHandler) Payments(c *gin.Context) {
	payments, err := h.ledger.AllPayments(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, payments, nil)
}

// StudentPayments godoc
// @Summary Student payment history
// @Tags Accounting
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student profile ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /accounting/students/{id}/payments [get]
func (h *AccountingHandler) StudentPayments(c *gin.Context) {
	payments, err := h.ledger.PaymentsFor(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, payments, nil)
}

// Balance godoc
// @Summary Student balance
// @Description Derived ledger position for one student
// @Tags Accounting
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student profile ID"
// @Success 200 {object} response.Envelope
// @Router /accounting/students/{id}/balance [get]
func (h *AccountingHandler) Balance(c *gin.Context) {
	balance, err := h.ledger.BalanceFor(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, balance, nil)
}

// Statement godoc
// @Summary Student statement
// @Description Balance plus both ledgers for one student
// @Tags Accounting
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student profile ID"
// @Success 200 {object} response.Envelope
// @Router /accounting/students/{id}/statement [get]
func (h *AccountingHandler) Statement(c *gin.Context) {
	statement, err := h.ledger.StatementFor(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, statement, nil)
}

// StatementPDF godoc
// @Summary Student statement PDF
// @Description Render the statement of account as a PDF download
// @Tags Accounting
// @Produce application/pdf
// @Security BearerAuth
// @Param id path string true "Student profile ID"
// @Success 200 {file} binary
// @Router /accounting/students/{id}/statement.pdf [get]
func (h *AccountingHandler) StatementPDF(c *gin.Context) {
	studentID := c.Param("id")
	out, err := h.ledger.StatementPDF(c.Request.Context(), studentID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=statement-%s.pdf", studentID))
	c.Data(http.StatusOK, "application/pdf", out)
}

// PaymentsCSV godoc
// @Summary Payments CSV export
// @Tags Accounting
// @Produce text/csv
// @Security BearerAuth
// @Success 200 {file} binary
// @Router /accounting/payments/export [get]
func (h *AccountingHandler) PaymentsCSV(c *gin.Context) {
	out, err := h.ledger.PaymentsCSV(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=payments.csv")
	c.Data(http.StatusOK, "text/csv", out)
}
