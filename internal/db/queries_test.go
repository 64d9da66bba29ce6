package db

import (
	"context"
	"database/sql/driver"
	stderrors "errors"
	"testing"
	"time"

	"school-management-api/internal/model"
	"school-management-api/pkg/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepository(t *testing.T) (Repository, sqlmock.Sqlmock) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return NewRepository(conn), mock
}

func duplicateEntry(key string) error {
	return &mysql.MySQLError{Number: mysqlDuplicateEntry, Message: "Duplicate entry 'A1' for key '" + key + "'"}
}

func TestSchoolOwnedLookupsFilterBySchool(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		query string
		args  []driver.Value
		call  func(r Repository) error
	}{
		{
			name:  "student",
			query: `FROM students WHERE school_id = \? AND admission_number = \?`,
			args:  []driver.Value{7, "A1"},
			call: func(r Repository) error {
				_, err := r.FindStudentByAdmission(ctx, 7, "A1")
				return err
			},
		},
		{
			name:  "class",
			query: `FROM classes WHERE school_id = \? AND name = \?`,
			args:  []driver.Value{7, "Grade 5"},
			call: func(r Repository) error {
				_, err := r.FindClassByName(ctx, 7, "Grade 5")
				return err
			},
		},
		{
			name:  "subject",
			query: `FROM subjects WHERE school_id = \? AND code = \?`,
			args:  []driver.Value{7, "MATH"},
			call: func(r Repository) error {
				_, err := r.FindSubjectByCode(ctx, 7, "MATH")
				return err
			},
		},
		{
			name:  "attendance",
			query: `FROM attendances WHERE school_id = \? AND student_id = \? AND date = \?`,
			args:  []driver.Value{7, 11, "2024-03-05"},
			call: func(r Repository) error {
				_, err := r.FindAttendance(ctx, 7, 11, date)
				return err
			},
		},
		{
			name:  "exam",
			query: `FROM exams WHERE school_id = \? AND name = \?`,
			args:  []driver.Value{7, "Midterm"},
			call: func(r Repository) error {
				_, err := r.FindExamByName(ctx, 7, "Midterm")
				return err
			},
		},
		{
			name:  "upload",
			query: `FROM import_uploads WHERE school_id = \? AND id = \?`,
			args:  []driver.Value{7, 42},
			call: func(r Repository) error {
				_, err := r.GetUpload(ctx, 7, 42)
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepository(t)
			mock.ExpectQuery(tt.query).
				WithArgs(tt.args...).
				WillReturnRows(sqlmock.NewRows([]string{"id"}))

			err := tt.call(repo)
			assert.ErrorIs(t, err, errors.ErrNotFound)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestListUploadsFiltersBySchool(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectQuery(`FROM import_uploads WHERE school_id = \? ORDER BY created_at DESC, id DESC LIMIT \?`).
		WithArgs(7, 50).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	uploads, err := repo.ListUploads(context.Background(), 7, 50)
	require.NoError(t, err)
	assert.Empty(t, uploads)
	assert.NotNil(t, uploads)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceDateKeyIsCalendarDay(t *testing.T) {
	repo, mock := newMockRepository(t)
	ctx := context.Background()
	afternoon := time.Date(2024, 3, 5, 15, 30, 0, 0, time.UTC)

	mock.ExpectExec(`INSERT INTO attendances`).
		WithArgs(7, 11, "2024-03-05", "PRESENT", nil).
		WillReturnResult(sqlmock.NewResult(9, 1))
	mock.ExpectQuery(`FROM attendances WHERE school_id = \? AND student_id = \? AND date = \?`).
		WithArgs(7, 11, "2024-03-05").
		WillReturnRows(sqlmock.NewRows([]string{"id", "school_id", "student_id", "date", "status", "remarks"}).
			AddRow(9, 7, 11, afternoon.Truncate(24*time.Hour), "PRESENT", nil))

	att := &model.Attendance{SchoolID: 7, StudentID: 11, Date: afternoon, Status: model.AttendancePresent}
	require.NoError(t, repo.CreateAttendance(ctx, att))
	assert.Equal(t, int64(9), att.ID)

	found, err := repo.FindAttendance(ctx, 7, 11, afternoon)
	require.NoError(t, err)
	assert.Equal(t, int64(9), found.ID)
	assert.Nil(t, found.Remarks)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindExamByNameReturnsEarliest(t *testing.T) {
	repo, mock := newMockRepository(t)
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM exams WHERE school_id = \? AND name = \? ORDER BY id LIMIT 1`).
		WithArgs(7, "Midterm").
		WillReturnRows(sqlmock.NewRows([]string{"id", "school_id", "class_id", "name", "exam_type", "start_date", "end_date"}).
			AddRow(3, 7, nil, "Midterm", "TERM", start, nil))

	exam, err := repo.FindExamByName(context.Background(), 7, "Midterm")
	require.NoError(t, err)
	assert.Equal(t, int64(3), exam.ID)
	assert.Nil(t, exam.ClassID)
	assert.Nil(t, exam.EndDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateStudentDuplicateIsTranslated(t *testing.T) {
	repo, mock := newMockRepository(t)
	mock.ExpectExec(`INSERT INTO students`).
		WillReturnError(duplicateEntry("uq_students_school_admission"))

	err := repo.CreateStudent(context.Background(), &model.Student{SchoolID: 7, AdmissionNumber: "A1"})
	assert.ErrorIs(t, err, errors.ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSavepointReleasesOrRollsBackEachRow(t *testing.T) {
	repo, mock := newMockRepository(t)
	rowErr := stderrors.New("row 3 failed")

	mock.ExpectBegin()
	mock.ExpectExec(`^SAVEPOINT sp_1$`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO students`).
		WithArgs(7, nil, nil, "Ada", "A1", sqlmock.AnyArg(), "F", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(21, 1))
	mock.ExpectExec(`^RELEASE SAVEPOINT sp_1$`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`^SAVEPOINT sp_2$`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`^ROLLBACK TO SAVEPOINT sp_2$`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	ctx := context.Background()
	err := repo.InTx(ctx, func(tx Tx) error {
		err := tx.Savepoint(ctx, func() error {
			return tx.CreateStudent(ctx, &model.Student{SchoolID: 7, Name: "Ada", AdmissionNumber: "A1", Gender: "F"})
		})
		require.NoError(t, err)

		err = tx.Savepoint(ctx, func() error { return rowErr })
		assert.Equal(t, rowErr, err)
		return nil
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInTxRollsBackOnError(t *testing.T) {
	repo, mock := newMockRepository(t)
	failure := stderrors.New("abort")

	mock.ExpectBegin()
	mock.ExpectRollback()

	err := repo.InTx(context.Background(), func(tx Tx) error { return failure })
	assert.Equal(t, failure, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
