package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/opencampus/records-api/internal/models"
	appErrors "github.com/opencampus/records-api/pkg/errors"
	"github.com/opencampus/records-api/pkg/export"
)

type ledgerRepository interface {
	CreateFee(ctx context.Context, fee *models.Fee) error
	CreatePayment(ctx context.Context, payment *models.Payment) error
	ListFeesByStudent(ctx context.Context, studentID string) ([]models.Fee, error)
	ListPaymentsByStudent(ctx context.Context, studentID string) ([]models.Payment, error)
	ListAllPayments(ctx context.Context) ([]models.Payment, error)
}

type ledgerProfileRepository interface {
	FindByID(ctx context.Context, id string) (*models.Profile, error)
	FindByUserID(ctx context.Context, userID string) (*models.Profile, error)
}

// LedgerService maintains the append-only fee and payment ledgers and
// derives balances from them. Amounts are fixed-point decimals end to end;
// floats never touch money.
type LedgerService struct {
	ledger    ledgerRepository
	profiles  ledgerProfileRepository
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	validator *validator.Validate
	logger    *zap.Logger
}

func NewLedgerService(ledger ledgerRepository, profiles ledgerProfileRepository, validate *validator.Validate, logger *zap.Logger) *LedgerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &LedgerService{
		ledger:    ledger,
		profiles:  profiles,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		validator: validate,
		logger:    logger,
	}
}

func (s *LedgerService) parseAmount(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid amount %q", raw))
	}
	if amount.Sign() <= 0 {
		return decimal.Zero, appErrors.Clone(appErrors.ErrValidation, "amount must be positive")
	}
	return amount, nil
}

func (s *LedgerService) requireStudent(ctx context.Context, studentID string) (*models.Profile, error) {
	profile, err := s.profiles.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve student")
	}
	if profile.Role != models.RoleStudent {
		return nil, appErrors.Clone(appErrors.ErrValidation, "ledger target is not a student")
	}
	return profile, nil
}

// PostFee appends a charge to a student's ledger.
func (s *LedgerService) PostFee(ctx context.Context, req models.CreateFeeRequest) (*models.Fee, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid fee payload")
	}
	amount, err := s.parseAmount(req.Amount)
	if err != nil {
		return nil, err
	}
	if _, err := s.requireStudent(ctx, req.StudentID); err != nil {
		return nil, err
	}

	fee := &models.Fee{StudentID: req.StudentID, Amount: amount, Description: req.Description}
	if err := s.ledger.CreateFee(ctx, fee); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create fee")
	}
	s.logger.Info("fee posted", zap.String("student_id", req.StudentID), zap.String("amount", amount.String()))
	return fee, nil
}

// PostPayment appends a credit to a student's ledger.
func (s *LedgerService) PostPayment(ctx context.Context, req models.CreatePaymentRequest) (*models.Payment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payment payload")
	}
	amount, err := s.parseAmount(req.Amount)
	if err != nil {
		return nil, err
	}
	if _, err := s.requireStudent(ctx, req.StudentID); err != nil {
		return nil, err
	}

	payment := &models.Payment{StudentID: req.StudentID, Amount: amount, Date: req.Date}
	if err := s.ledger.CreatePayment(ctx, payment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create payment")
	}
	s.logger.Info("payment posted", zap.String("student_id", req.StudentID), zap.String("amount", amount.String()))
	return payment, nil
}

// BalanceFor derives the student's position by summing both ledgers. The
// balance is never stored; it is always recomputed from the entries.
func (s *LedgerService) BalanceFor(ctx context.Context, studentID string) (*models.Balance, error) {
	fees, err := s.ledger.ListFeesByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list fees")
	}
	payments, err := s.ledger.ListPaymentsByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list payments")
	}

	due := decimal.Zero
	for _, fee := range fees {
		due = due.Add(fee.Amount)
	}
	paid := decimal.Zero
	for _, payment := range payments {
		paid = paid.Add(payment.Amount)
	}

	return &models.Balance{StudentID: studentID, Due: due, Paid: paid, Balance: due.Sub(paid)}, nil
}

// StatementFor combines the balance with both ledgers.
func (s *LedgerService) StatementFor(ctx context.Context, studentID string) (*models.Statement, error) {
	fees, err := s.ledger.ListFeesByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list fees")
	}
	payments, err := s.ledger.ListPaymentsByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list payments")
	}

	due := decimal.Zero
	for _, fee := range fees {
		due = due.Add(fee.Amount)
	}
	paid := decimal.Zero
	for _, payment := range payments {
		paid = paid.Add(payment.Amount)
	}

	return &models.Statement{
		Balance:  models.Balance{StudentID: studentID, Due: due, Paid: paid, Balance: due.Sub(paid)},
		Fees:     fees,
		Payments: payments,
	}, nil
}

// BalanceForUser resolves the caller's student profile and derives its
// balance.
func (s *LedgerService) BalanceForUser(ctx context.Context, userID string) (*models.Balance, error) {
	profile, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve profile")
	}
	return s.BalanceFor(ctx, profile.ID)
}

// PaymentsFor lists one student's payment history.
func (s *LedgerService) PaymentsFor(ctx context.Context, studentID string) ([]models.Payment, error) {
	if _, err := s.requireStudent(ctx, studentID); err != nil {
		return nil, err
	}
	payments, err := s.ledger.ListPaymentsByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list payments")
	}
	return payments, nil
}

// AllPayments lists every payment for the accounting overview.
func (s *LedgerService) AllPayments(ctx context.Context) ([]models.Payment, error) {
	payments, err := s.ledger.ListAllPayments(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list payments")
	}
	return payments, nil
}

// StatementPDF renders the student's statement as a PDF document.
func (s *LedgerService) StatementPDF(ctx context.Context, studentID string) ([]byte, error) {
	profile, err := s.requireStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	statement, err := s.StatementFor(ctx, studentID)
	if err != nil {
		return nil, err
	}

	data := export.Dataset{
		Headers: []string{"Date", "Type", "Description", "Amount"},
	}
	for _, fee := range statement.Fees {
		data.Rows = append(data.Rows, map[string]string{
			"Date":        fee.CreatedAt.Format("2006-01-02"),
			"Type":        "Fee",
			"Description": fee.Description,
			"Amount":      fee.Amount.StringFixed(2),
		})
	}
	for _, payment := range statement.Payments {
		data.Rows = append(data.Rows, map[string]string{
			"Date":        payment.Date,
			"Type":        "Payment",
			"Description": "Payment received",
			"Amount":      payment.Amount.StringFixed(2),
		})
	}

	title := fmt.Sprintf("Statement of Account - %s", profile.FullName())
	footer := []string{
		fmt.Sprintf("Total Due: %s", statement.Balance.Due.StringFixed(2)),
		fmt.Sprintf("Total Paid: %s", statement.Balance.Paid.StringFixed(2)),
		fmt.Sprintf("Balance: %s", statement.Balance.Balance.StringFixed(2)),
	}
	out, err := s.pdf.Render(data, title, footer...)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render statement pdf")
	}
	return out, nil
}

// PaymentsCSV renders every payment as a CSV export.
func (s *LedgerService) PaymentsCSV(ctx context.Context) ([]byte, error) {
	payments, err := s.ledger.ListAllPayments(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list payments")
	}

	data := export.Dataset{Headers: []string{"ID", "Student ID", "Amount", "Date"}}
	for _, payment := range payments {
		data.Rows = append(data.Rows, map[string]string{
			"ID":         payment.ID,
			"Student ID": payment.StudentID,
			"Amount":     payment.Amount.StringFixed(2),
			"Date":       payment.Date,
		})
	}
	out, err := s.csv.Render(data)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render payments csv")
	}
	return out, nil
}
