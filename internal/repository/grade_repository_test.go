package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/opencampus/records-api/internal/models"
)

func TestGradeRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewGradeRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO grades")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	grade := &models.Grade{LoadID: "l1", StudentID: "st1", GradingPeriod: models.PeriodPrelim, Score: 90, Status: models.GradeSubmitted}
	require.NoError(t, repo.Create(context.Background(), grade))
	require.NotEmpty(t, grade.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGradeRepositoryUpdateStatus(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewGradeRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE grades SET status = $3, updated_at = $4 WHERE id = $1 AND status = $2")).
		WithArgs("g1", models.GradeSubmitted, models.GradeApproved, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateStatus(context.Background(), "g1", models.GradeSubmitted, models.GradeApproved))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGradeRepositoryUpdateStatusLostRace(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	// The guarded update touches nothing when the status moved underneath
	// us; the caller gets sql.ErrNoRows and decides what to report.
	repo := NewGradeRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE grades SET status = $3, updated_at = $4 WHERE id = $1 AND status = $2")).
		WithArgs("g1", models.GradeSubmitted, models.GradeApproved, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), "g1", models.GradeSubmitted, models.GradeApproved)
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGradeRepositoryCountByTriple(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewGradeRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM grades WHERE load_id = $1 AND student_id = $2 AND grading_period = $3")).
		WithArgs("l1", "st1", models.PeriodMidterm).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	total, err := repo.CountByTriple(context.Background(), "l1", "st1", models.PeriodMidterm)
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGradeRepositoryListByStudent(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewGradeRepository(db)
	rows := sqlmock.NewRows([]string{"id", "load_id", "student_id", "grading_period", "score", "remarks", "status", "created_at", "updated_at", "subject_code", "subject_name", "section"}).
		AddRow("g1", "l1", "st1", models.PeriodFinals, 92.5, nil, models.GradeApproved, time.Now(), time.Now(), "CS101", "Introduction to Computing", "BSCS-2A")
	mock.ExpectQuery(regexp.QuoteMeta("WHERE g.student_id = $1")).
		WithArgs("st1").
		WillReturnRows(rows)

	grades, err := repo.ListByStudent(context.Background(), "st1")
	require.NoError(t, err)
	require.Len(t, grades, 1)
	require.Equal(t, "CS101", grades[0].SubjectCode)
	require.Equal(t, models.GradeApproved, grades[0].Status)
	require.NoError(t, mock.ExpectationsWereMet())
}
