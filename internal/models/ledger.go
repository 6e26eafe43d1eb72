package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Fee is an append-only charge against a student.
type Fee struct {
	ID          string          `db:"id" json:"id"`
	StudentID   string          `db:"student_id" json:"student_id"`
	Amount      decimal.Decimal `db:"amount" json:"amount"`
	Description string          `db:"description" json:"description"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}

// Payment is an append-only credit from a student.
type Payment struct {
	ID        string          `db:"id" json:"id"`
	StudentID string          `db:"student_id" json:"student_id"`
	Amount    decimal.Decimal `db:"amount" json:"amount"`
	Date      string          `db:"date" json:"date"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}

// CreateFeeRequest is the accounting payload for posting a fee.
type CreateFeeRequest struct {
	StudentID   string `json:"student_id" validate:"required"`
	Amount      string `json:"amount" validate:"required"`
	Description string `json:"description" validate:"required"`
}

// CreatePaymentRequest is the accounting payload for posting a payment.
type CreatePaymentRequest struct {
	StudentID string `json:"student_id" validate:"required"`
	Amount    string `json:"amount" validate:"required"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
}

// Balance is the aggregated ledger position for a student.
type Balance struct {
	StudentID string          `json:"student_id"`
	Due       decimal.Decimal `json:"due"`
	Paid      decimal.Decimal `json:"paid"`
	Balance   decimal.Decimal `json:"balance"`
}

// Statement combines the balance with both ledgers.
type Statement struct {
	Balance  Balance   `json:"balance"`
	Fees     []Fee     `json:"fees"`
	Payments []Payment `json:"payments"`
}
