package db

import (
	"context"
	"time"

	"school-management-api/internal/model"
)

func (r *queries) FindClassByName(ctx context.Context, schoolID int64, name string) (*model.Class, error) {
	query := `SELECT id, school_id, name FROM classes WHERE school_id = ? AND name = ?`

	var c model.Class
	if err := r.q.QueryRowContext(ctx, query, schoolID, name).Scan(&c.ID, &c.SchoolID, &c.Name); err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (r *queries) FindSubjectByCode(ctx context.Context, schoolID int64, code string) (*model.Subject, error) {
	query := `SELECT id, school_id, name, code FROM subjects WHERE school_id = ? AND code = ?`

	var s model.Subject
	if err := r.q.QueryRowContext(ctx, query, schoolID, code).Scan(&s.ID, &s.SchoolID, &s.Name, &s.Code); err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (r *queries) FindAttendance(ctx context.Context, schoolID, studentID int64, date time.Time) (*model.Attendance, error) {
	query := `SELECT id, school_id, student_id, date, status, remarks
			  FROM attendances WHERE school_id = ? AND student_id = ? AND date = ?`

	var a model.Attendance
	err := r.q.QueryRowContext(ctx, query, schoolID, studentID, date.Format("2006-01-02")).Scan(
		&a.ID, &a.SchoolID, &a.StudentID, &a.Date, &a.Status, &a.Remarks)
	if err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (r *queries) CreateAttendance(ctx context.Context, attendance *model.Attendance) error {
	query := `INSERT INTO attendances (school_id, student_id, date, status, remarks) VALUES (?, ?, ?, ?, ?)`

	id, err := insertID(r.q.ExecContext(ctx, query, attendance.SchoolID, attendance.StudentID,
		attendance.Date.Format("2006-01-02"), attendance.Status, attendance.Remarks))
	if err != nil {
		return err
	}

	attendance.ID = id
	return nil
}

func (r *queries) UpdateAttendance(ctx context.Context, attendance *model.Attendance) error {
	query := `UPDATE attendances SET status = ?, remarks = ? WHERE id = ? AND school_id = ?`
	_, err := r.q.ExecContext(ctx, query, attendance.Status, attendance.Remarks, attendance.ID, attendance.SchoolID)
	return translate(err)
}

// FindExamByName returns the earliest exam with that name; exam import never
// deduplicates, so several may share it.
func (r *queries) FindExamByName(ctx context.Context, schoolID int64, name string) (*model.Exam, error) {
	query := `SELECT id, school_id, class_id, name, exam_type, start_date, end_date
			  FROM exams WHERE school_id = ? AND name = ? ORDER BY id LIMIT 1`

	var e model.Exam
	err := r.q.QueryRowContext(ctx, query, schoolID, name).Scan(
		&e.ID, &e.SchoolID, &e.ClassID, &e.Name, &e.ExamType, &e.StartDate, &e.EndDate)
	if err != nil {
		return nil, translate(err)
	}
	return &e, nil
}

func (r *queries) CreateExam(ctx context.Context, exam *model.Exam) error {
	query := `INSERT INTO exams (school_id, class_id, name, exam_type, start_date, end_date) VALUES (?, ?, ?, ?, ?, ?)`

	id, err := insertID(r.q.ExecContext(ctx, query, exam.SchoolID, exam.ClassID, exam.Name,
		exam.ExamType, exam.StartDate, exam.EndDate))
	if err != nil {
		return err
	}

	exam.ID = id
	return nil
}

func (r *queries) FindExamResult(ctx context.Context, examID, studentID, subjectID int64) (*model.ExamResult, error) {
	query := `SELECT id, exam_id, student_id, subject_id, obtained_marks, total_marks, grade, remarks
			  FROM exam_results WHERE exam_id = ? AND student_id = ? AND subject_id = ?`

	var res model.ExamResult
	err := r.q.QueryRowContext(ctx, query, examID, studentID, subjectID).Scan(
		&res.ID, &res.ExamID, &res.StudentID, &res.SubjectID,
		&res.ObtainedMarks, &res.TotalMarks, &res.Grade, &res.Remarks)
	if err != nil {
		return nil, translate(err)
	}
	return &res, nil
}

func (r *queries) CreateExamResult(ctx context.Context, result *model.ExamResult) error {
	query := `INSERT INTO exam_results (exam_id, student_id, subject_id, obtained_marks, total_marks, grade, remarks)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

	id, err := insertID(r.q.ExecContext(ctx, query, result.ExamID, result.StudentID, result.SubjectID,
		result.ObtainedMarks, result.TotalMarks, result.Grade, result.Remarks))
	if err != nil {
		return err
	}

	result.ID = id
	return nil
}

func (r *queries) UpdateExamResult(ctx context.Context, result *model.ExamResult) error {
	query := `UPDATE exam_results SET obtained_marks = ?, total_marks = ?, grade = ?, remarks = ? WHERE id = ?`
	_, err := r.q.ExecContext(ctx, query, result.ObtainedMarks, result.TotalMarks,
		result.Grade, result.Remarks, result.ID)
	return translate(err)
}
