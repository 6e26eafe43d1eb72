package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/opencampus/records-api/internal/models"
)

// LedgerRepository persists the append-only fee and payment ledgers.
type LedgerRepository struct {
	db *sqlx.DB
}

// NewLedgerRepository creates a new instance of LedgerRepository.
func NewLedgerRepository(db *sqlx.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// CreateFee appends a fee entry.
func (r *LedgerRepository) CreateFee(ctx context.Context, fee *models.Fee) error {
	if fee.ID == "" {
		fee.ID = uuid.NewString()
	}
	if fee.CreatedAt.IsZero() {
		fee.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO fees (id, student_id, amount, description, created_at) VALUES (:id, :student_id, :amount, :description, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, fee); err != nil {
		return fmt.Errorf("create fee: %w", err)
	}
	return nil
}

// CreatePayment appends a payment entry.
func (r *LedgerRepository) CreatePayment(ctx context.Context, payment *models.Payment) error {
	if payment.ID == "" {
		payment.ID = uuid.NewString()
	}
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO payments (id, student_id, amount, date, created_at) VALUES (:id, :student_id, :amount, :date, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, payment); err != nil {
		return fmt.Errorf("create payment: %w", err)
	}
	return nil
}

// ListFeesByStudent returns a student's fee ledger.
func (r *LedgerRepository) ListFeesByStudent(ctx context.Context, studentID string) ([]models.Fee, error) {
	const query = `SELECT id, student_id, amount, description, created_at FROM fees WHERE student_id = $1 ORDER BY created_at`
	var fees []models.Fee
	if err := r.db.SelectContext(ctx, &fees, query, studentID); err != nil {
		return nil, fmt.Errorf("list fees by student: %w", err)
	}
	return fees, nil
}

// ListPaymentsByStudent returns a student's payment ledger.
func (r *LedgerRepository) ListPaymentsByStudent(ctx context.Context, studentID string) ([]models.Payment, error) {
	const query = `SELECT id, student_id, amount, date, created_at FROM payments WHERE student_id = $1 ORDER BY created_at`
	var payments []models.Payment
	if err := r.db.SelectContext(ctx, &payments, query, studentID); err != nil {
		return nil, fmt.Errorf("list payments by student: %w", err)
	}
	return payments, nil
}

// ListAllPayments returns every payment, most recent first.
func (r *LedgerRepository) ListAllPayments(ctx context.Context) ([]models.Payment, error) {
	const query = `SELECT id, student_id, amount, date, created_at FROM payments ORDER BY created_at DESC`
	var payments []models.Payment
	if err := r.db.SelectContext(ctx, &payments, query); err != nil {
		return nil, fmt.Errorf("list all payments: %w", err)
	}
	return payments, nil
}
