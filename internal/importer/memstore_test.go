package importer

import (
	"context"
	"fmt"
	"sort"
	"time"

	"school-management-api/internal/db"
	"school-management-api/internal/model"
	"school-management-api/pkg/errors"
)

// memStore is an in-memory db.Repository with copy-on-snapshot transactions.
type memStore struct {
	data   memData
	nextID int64
	// failStudent makes CreateStudent fail with the given error for an admission number.
	failStudent map[string]error
}

type memData struct {
	users       []model.User
	parents     []model.Parent
	students    []model.Student
	classes     []model.Class
	subjects    []model.Subject
	attendances []model.Attendance
	exams       []model.Exam
	results     []model.ExamResult
	notes       []model.Notification
	uploads     []model.ImportUpload
}

func (d memData) clone() memData {
	return memData{
		users:       append([]model.User(nil), d.users...),
		parents:     append([]model.Parent(nil), d.parents...),
		students:    append([]model.Student(nil), d.students...),
		classes:     append([]model.Class(nil), d.classes...),
		subjects:    append([]model.Subject(nil), d.subjects...),
		attendances: append([]model.Attendance(nil), d.attendances...),
		exams:       append([]model.Exam(nil), d.exams...),
		results:     append([]model.ExamResult(nil), d.results...),
		notes:       append([]model.Notification(nil), d.notes...),
		uploads:     append([]model.ImportUpload(nil), d.uploads...),
	}
}

var _ db.Repository = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{failStudent: map[string]error{}}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) InTx(ctx context.Context, fn func(tx db.Tx) error) error {
	snapshot := m.data.clone()
	if err := fn(memTx{m}); err != nil {
		m.data = snapshot
		return err
	}
	return nil
}

type memTx struct {
	*memStore
}

func (t memTx) Savepoint(ctx context.Context, fn func() error) error {
	snapshot := t.data.clone()
	if err := fn(); err != nil {
		t.data = snapshot
		return err
	}
	return nil
}

// seeding helpers

func (m *memStore) addClass(schoolID int64, name string) model.Class {
	c := model.Class{ID: m.id(), SchoolID: schoolID, Name: name}
	m.data.classes = append(m.data.classes, c)
	return c
}

func (m *memStore) addSubject(schoolID int64, code string) model.Subject {
	s := model.Subject{ID: m.id(), SchoolID: schoolID, Name: code, Code: code}
	m.data.subjects = append(m.data.subjects, s)
	return s
}

func (m *memStore) addStudent(schoolID int64, admission string) model.Student {
	s := model.Student{ID: m.id(), SchoolID: schoolID, Name: "Student " + admission, AdmissionNumber: admission, Gender: "Other"}
	m.data.students = append(m.data.students, s)
	return s
}

func (m *memStore) addExam(schoolID int64, name string) model.Exam {
	e := model.Exam{ID: m.id(), SchoolID: schoolID, Name: name, ExamType: "TERM"}
	m.data.exams = append(m.data.exams, e)
	return e
}

func (m *memStore) addUser(email string, role model.Role) model.User {
	u := model.User{ID: m.id(), Name: email, Email: email, Role: role}
	m.data.users = append(m.data.users, u)
	return u
}

// db.Queries

func (m *memStore) FindUserByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range m.data.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, errors.ErrNotFound
}


func (m *memStore) CreateUser(ctx context.Context, user *model.User) error {
	if _, err := m.FindUserByEmail(ctx, user.Email); err == nil {
		return fmt.Errorf("%w: users.email", errors.ErrDuplicate)
	}
	user.ID = m.id()
	m.data.users = append(m.data.users, *user)
	return nil
}

func (m *memStore) FindParentByUserID(ctx context.Context, userID int64) (*model.Parent, error) {
	for _, p := range m.data.parents {
		if p.UserID == userID {
			p := p
			return &p, nil
		}
	}
	return nil, errors.ErrNotFound
}

func (m *memStore) CreateParent(ctx context.Context, parent *model.Parent) error {
	parent.ID = m.id()
	m.data.parents = append(m.data.parents, *parent)
	return nil
}

func (m *memStore) FindStudentByAdmission(ctx context.Context, schoolID int64, admissionNumber string) (*model.Student, error) {
	for _, s := range m.data.students {
		if s.SchoolID == schoolID && s.AdmissionNumber == admissionNumber {
			s := s
			return &s, nil
		}
	}
	return nil, errors.ErrNotFound
}

func (m *memStore) CreateStudent(ctx context.Context, student *model.Student) error {
	if err, ok := m.failStudent[student.AdmissionNumber]; ok {
		return err
	}
	if _, err := m.FindStudentByAdmission(ctx, student.SchoolID, student.AdmissionNumber); err == nil {
		return fmt.Errorf("%w: students.admission_number", errors.ErrDuplicate)
	}
	student.ID = m.id()
	m.data.students = append(m.data.students, *student)
	return nil
}

func (m *memStore) FindClassByName(ctx context.Context, schoolID int64, name string) (*model.Class, error) {
	for _, c := range m.data.classes {
		if c.SchoolID == schoolID && c.Name == name {
			c := c
			return &c, nil
		}
	}
	return nil, errors.ErrNotFound
}

func (m *memStore) FindSubjectByCode(ctx context.Context, schoolID int64, code string) (*model.Subject, error) {
	for _, s := range m.data.subjects {
		if s.SchoolID == schoolID && s.Code == code {
			s := s
			return &s, nil
		}
	}
	return nil, errors.ErrNotFound
}

func (m *memStore) FindAttendance(ctx context.Context, schoolID, studentID int64, date time.Time) (*model.Attendance, error) {
	for _, a := range m.data.attendances {
		if a.SchoolID == schoolID && a.StudentID == studentID && a.Date.Equal(date) {
			a := a
			return &a, nil
		}
	}
	return nil, errors.ErrNotFound
}

func (m *memStore) CreateAttendance(ctx context.Context, attendance *model.Attendance) error {
	attendance.ID = m.id()
	m.data.attendances = append(m.data.attendances, *attendance)
	return nil
}

func (m *memStore) UpdateAttendance(ctx context.Context, attendance *model.Attendance) error {
	for i, a := range m.data.attendances {
		if a.ID == attendance.ID {
			m.data.attendances[i] = *attendance
			return nil
		}
	}
	return errors.ErrNotFound
}

func (m *memStore) FindExamByName(ctx context.Context, schoolID int64, name string) (*model.Exam, error) {
	for _, e := range m.data.exams {
		if e.SchoolID == schoolID && e.Name == name {
			e := e
			return &e, nil
		}
	}
	return nil, errors.ErrNotFound
}

func (m *memStore) CreateExam(ctx context.Context, exam *model.Exam) error {
	exam.ID = m.id()
	m.data.exams = append(m.data.exams, *exam)
	return nil
}

func (m *memStore) FindExamResult(ctx context.Context, examID, studentID, subjectID int64) (*model.ExamResult, error) {
	for _, r := range m.data.results {
		if r.ExamID == examID && r.StudentID == studentID && r.SubjectID == subjectID {
			r := r
			return &r, nil
		}
	}
	return nil, errors.ErrNotFound
}

func (m *memStore) CreateExamResult(ctx context.Context, result *model.ExamResult) error {
	result.ID = m.id()
	m.data.results = append(m.data.results, *result)
	return nil
}

func (m *memStore) UpdateExamResult(ctx context.Context, result *model.ExamResult) error {
	for i, r := range m.data.results {
		if r.ID == result.ID {
			m.data.results[i] = *result
			return nil
		}
	}
	return errors.ErrNotFound
}

func (m *memStore) CreateNotification(ctx context.Context, n *model.Notification) error {
	n.ID = m.id()
	m.data.notes = append(m.data.notes, *n)
	return nil
}

func (m *memStore) CreateUpload(ctx context.Context, upload *model.ImportUpload) error {
	upload.ID = m.id()
	m.data.uploads = append(m.data.uploads, *upload)
	return nil
}

func (m *memStore) FinishUpload(ctx context.Context, uploadID int64, status model.UploadStatus, outcome model.ImportOutcome, errorMessage *string) error {
	for i, u := range m.data.uploads {
		if u.ID == uploadID {
			u.Status = status
			u.TotalRows, u.SuccessCount, u.FailedCount = outcome.Total, outcome.Success, outcome.Failed
			u.ErrorMessage = errorMessage
			m.data.uploads[i] = u
			return nil
		}
	}
	return errors.ErrNotFound
}

func (m *memStore) GetUpload(ctx context.Context, schoolID, uploadID int64) (*model.ImportUpload, error) {
	for _, u := range m.data.uploads {
		if u.SchoolID == schoolID && u.ID == uploadID {
			u := u
			return &u, nil
		}
	}
	return nil, errors.ErrNotFound
}

func (m *memStore) ListUploads(ctx context.Context, schoolID int64, limit int) ([]model.ImportUpload, error) {
	var out []model.ImportUpload
	for _, u := range m.data.uploads {
		if u.SchoolID == schoolID {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
