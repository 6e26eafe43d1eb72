package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/opencampus/records-api/internal/models"
)

func TestLedgerRepositoryCreateFee(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewLedgerRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO fees")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	fee := &models.Fee{StudentID: "st1", Amount: decimal.RequireFromString("1500.50"), Description: "Tuition"}
	require.NoError(t, repo.CreateFee(context.Background(), fee))
	require.NotEmpty(t, fee.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerRepositoryListFeesByStudent(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewLedgerRepository(db)
	rows := sqlmock.NewRows([]string{"id", "student_id", "amount", "description", "created_at"}).
		AddRow("f1", "st1", "1000.00", "Tuition", time.Now()).
		AddRow("f2", "st1", "150.25", "Lab fee", time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM fees WHERE student_id = $1")).
		WithArgs("st1").
		WillReturnRows(rows)

	fees, err := repo.ListFeesByStudent(context.Background(), "st1")
	require.NoError(t, err)
	require.Len(t, fees, 2)
	require.True(t, fees[1].Amount.Equal(decimal.RequireFromString("150.25")))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLedgerRepositoryListAllPayments(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewLedgerRepository(db)
	rows := sqlmock.NewRows([]string{"id", "student_id", "amount", "date", "created_at"}).
		AddRow("p1", "st1", "250.00", "2026-08-15", time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM payments ORDER BY created_at DESC")).
		WillReturnRows(rows)

	payments, err := repo.ListAllPayments(context.Background())
	require.NoError(t, err)
	require.Len(t, payments, 1)
	require.True(t, payments[0].Amount.Equal(decimal.RequireFromString("250")))
	require.NoError(t, mock.ExpectationsWereMet())
}
