package db

import (
	"context"
	"time"

	"school-management-api/internal/model"
)

const userColumns = `id, school_id, name, email, phone, password_hash, role, created_at, updated_at`

func scanUser(row interface{ Scan(...interface{}) error }) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.SchoolID, &u.Name, &u.Email, &u.Phone,
		&u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

// FindUserByEmail is intentionally not school-scoped: account emails are
// unique across the whole system.
func (r *queries) FindUserByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	return scanUser(r.q.QueryRowContext(ctx, query, email))
}

func (r *queries) CreateUser(ctx context.Context, user *model.User) error {
	now := time.Now().UTC()
	query := `INSERT INTO users (school_id, name, email, phone, password_hash, role, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	id, err := insertID(r.q.ExecContext(ctx, query, user.SchoolID, user.Name, user.Email,
		user.Phone, user.PasswordHash, user.Role, now, now))
	if err != nil {
		return err
	}

	user.ID = id
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

func (r *queries) FindParentByUserID(ctx context.Context, userID int64) (*model.Parent, error) {
	query := `SELECT id, user_id, school_id, guardian_name, occupation, created_at FROM parents WHERE user_id = ?`

	var p model.Parent
	err := r.q.QueryRowContext(ctx, query, userID).Scan(
		&p.ID, &p.UserID, &p.SchoolID, &p.GuardianName, &p.Occupation, &p.CreatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *queries) CreateParent(ctx context.Context, parent *model.Parent) error {
	now := time.Now().UTC()
	query := `INSERT INTO parents (user_id, school_id, guardian_name, occupation, created_at) VALUES (?, ?, ?, ?, ?)`

	id, err := insertID(r.q.ExecContext(ctx, query, parent.UserID, parent.SchoolID,
		parent.GuardianName, parent.Occupation, now))
	if err != nil {
		return err
	}

	parent.ID = id
	parent.CreatedAt = now
	return nil
}

func (r *queries) FindStudentByAdmission(ctx context.Context, schoolID int64, admissionNumber string) (*model.Student, error) {
	query := `SELECT id, school_id, parent_id, class_id, name, admission_number, dob, gender, created_at
			  FROM students WHERE school_id = ? AND admission_number = ?`

	var s model.Student
	err := r.q.QueryRowContext(ctx, query, schoolID, admissionNumber).Scan(
		&s.ID, &s.SchoolID, &s.ParentID, &s.ClassID, &s.Name,
		&s.AdmissionNumber, &s.DOB, &s.Gender, &s.CreatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (r *queries) CreateStudent(ctx context.Context, student *model.Student) error {
	now := time.Now().UTC()
	query := `INSERT INTO students (school_id, parent_id, class_id, name, admission_number, dob, gender, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	id, err := insertID(r.q.ExecContext(ctx, query, student.SchoolID, student.ParentID, student.ClassID,
		student.Name, student.AdmissionNumber, student.DOB, student.Gender, now))
	if err != nil {
		return err
	}

	student.ID = id
	student.CreatedAt = now
	return nil
}

func (r *queries) CreateNotification(ctx context.Context, n *model.Notification) error {
	now := time.Now().UTC()
	query := `INSERT INTO notifications (school_id, user_id, title, message, type, status, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

	id, err := insertID(r.q.ExecContext(ctx, query, n.SchoolID, n.UserID, n.Title,
		n.Message, n.Type, n.Status, now))
	if err != nil {
		return err
	}

	n.ID = id
	n.CreatedAt = now
	return nil
}
