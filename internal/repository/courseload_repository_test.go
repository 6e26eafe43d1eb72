package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/opencampus/records-api/internal/models"
)

func TestCourseLoadRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewCourseLoadRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO course_loads")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	load := &models.CourseLoad{
		TeacherID:  "t1",
		SubjectID:  "s1",
		Section:    "BSCS-2A",
		Schedule:   "MWF 08:00-09:00",
		Room:       "R301",
		Semester:   "1st",
		SchoolYear: "2026-2027",
	}
	require.NoError(t, repo.Create(context.Background(), load))
	require.NotEmpty(t, load.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseLoadRepositoryCountByTeacherSlot(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewCourseLoadRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM course_loads WHERE teacher_id = $1 AND schedule = $2 AND semester = $3 AND school_year = $4")).
		WithArgs("t1", "MWF 08:00-09:00", "1st", "2026-2027").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	total, err := repo.CountByTeacherSlot(context.Background(), "t1", "MWF 08:00-09:00", "1st", "2026-2027")
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseLoadRepositoryCountByRoomSlot(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewCourseLoadRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM course_loads WHERE room = $1 AND schedule = $2 AND semester = $3 AND school_year = $4")).
		WithArgs("R301", "MWF 08:00-09:00", "1st", "2026-2027").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	total, err := repo.CountByRoomSlot(context.Background(), "R301", "MWF 08:00-09:00", "1st", "2026-2027")
	require.NoError(t, err)
	require.Zero(t, total)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseLoadRepositoryListByTeacher(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewCourseLoadRepository(db)
	rows := sqlmock.NewRows([]string{"id", "teacher_id", "subject_id", "section", "schedule", "room", "semester", "school_year", "created_at", "subject_code", "subject_name", "units"}).
		AddRow("l1", "t1", "s1", "BSCS-2A", "MWF 08:00-09:00", "R301", "1st", "2026-2027", time.Now(), "CS101", "Introduction to Computing", 3)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE cl.teacher_id = $1")).
		WithArgs("t1").
		WillReturnRows(rows)

	loads, err := repo.ListByTeacher(context.Background(), "t1")
	require.NoError(t, err)
	require.Len(t, loads, 1)
	require.Equal(t, "CS101", loads[0].SubjectCode)
	require.Equal(t, 3, loads[0].Units)
	require.NoError(t, mock.ExpectationsWereMet())
}
