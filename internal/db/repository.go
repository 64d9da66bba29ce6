package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"school-management-api/internal/model"
)

// Queries holds every statement the service issues. All school-owned rows are
// looked up by school id as well as their natural key.
type Queries interface {
	FindUserByEmail(ctx context.Context, email string) (*model.User, error)
	CreateUser(ctx context.Context, user *model.User) error
	FindParentByUserID(ctx context.Context, userID int64) (*model.Parent, error)
	CreateParent(ctx context.Context, parent *model.Parent) error

	FindStudentByAdmission(ctx context.Context, schoolID int64, admissionNumber string) (*model.Student, error)
	CreateStudent(ctx context.Context, student *model.Student) error

	FindClassByName(ctx context.Context, schoolID int64, name string) (*model.Class, error)
	FindSubjectByCode(ctx context.Context, schoolID int64, code string) (*model.Subject, error)

	FindAttendance(ctx context.Context, schoolID, studentID int64, date time.Time) (*model.Attendance, error)
	CreateAttendance(ctx context.Context, attendance *model.Attendance) error
	UpdateAttendance(ctx context.Context, attendance *model.Attendance) error

	FindExamByName(ctx context.Context, schoolID int64, name string) (*model.Exam, error)
	CreateExam(ctx context.Context, exam *model.Exam) error

	FindExamResult(ctx context.Context, examID, studentID, subjectID int64) (*model.ExamResult, error)
	CreateExamResult(ctx context.Context, result *model.ExamResult) error
	UpdateExamResult(ctx context.Context, result *model.ExamResult) error

	CreateNotification(ctx context.Context, n *model.Notification) error

	CreateUpload(ctx context.Context, upload *model.ImportUpload) error
	FinishUpload(ctx context.Context, uploadID int64, status model.UploadStatus, outcome model.ImportOutcome, errorMessage *string) error
	GetUpload(ctx context.Context, schoolID, uploadID int64) (*model.ImportUpload, error)
	ListUploads(ctx context.Context, schoolID int64, limit int) ([]model.ImportUpload, error)
}

type Repository interface {
	Queries
	// InTx runs fn inside one transaction, committing when fn returns nil.
	InTx(ctx context.Context, fn func(tx Tx) error) error
}

type Tx interface {
	Queries
	// Savepoint runs fn under a savepoint and rolls back only fn's writes
	// when it fails.
	Savepoint(ctx context.Context, fn func() error) error
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type queries struct {
	q querier
}

type repository struct {
	*queries
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{queries: &queries{q: db}, db: db}
}

func (r *repository) InTx(ctx context.Context, fn func(tx Tx) error) error {
	sqlTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := fn(&transaction{queries: &queries{q: sqlTx}, tx: sqlTx}); err != nil {
		return err
	}

	return sqlTx.Commit()
}

type transaction struct {
	*queries
	tx  *sql.Tx
	seq int
}

func (t *transaction) Savepoint(ctx context.Context, fn func() error) error {
	t.seq++
	name := fmt.Sprintf("sp_%d", t.seq)

	if _, err := t.tx.ExecContext(ctx, "SAVEPOINT "+name); err != nil {
		return fmt.Errorf("failed to create savepoint: %w", err)
	}

	if err := fn(); err != nil {
		if _, rbErr := t.tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+name); rbErr != nil {
			return fmt.Errorf("failed to roll back savepoint: %w", rbErr)
		}
		return err
	}

	if _, err := t.tx.ExecContext(ctx, "RELEASE SAVEPOINT "+name); err != nil {
		return fmt.Errorf("failed to release savepoint: %w", err)
	}
	return nil
}

func insertID(res sql.Result, err error) (int64, error) {
	if err != nil {
		return 0, translate(err)
	}
	return res.LastInsertId()
}
