package importer

import (
	"context"

	"school-management-api/internal/model"
	"school-management-api/pkg/errors"
)

// ImportExamResults upserts marks per (exam, student, subject). On update the
// marks are always replaced; grade and remarks only when the sheet has them.
func (s *Service) ImportExamResults(ctx context.Context, schoolID int64, data []byte) (model.ImportOutcome, error) {
	rows, log, err := s.decode(ctx, model.ImportExamResults, schoolID, data)
	if err != nil {
		return model.ImportOutcome{}, err
	}

	return s.process(ctx, log, rows, false, func(ctx context.Context, row model.ImportRow) error {
		typed, err := s.mapper.ExamResult(row)
		if err != nil {
			return err
		}
		return s.importExamResult(ctx, schoolID, typed)
	})
}

func (s *Service) importExamResult(ctx context.Context, schoolID int64, row model.ExamResultRow) error {
	exam, err := s.repo.FindExamByName(ctx, schoolID, row.ExamName)
	if notFound(err) {
		return errors.NewRowError(row.Number, "Exam %s not found", row.ExamName)
	}
	if err != nil {
		return err
	}

	student, err := s.repo.FindStudentByAdmission(ctx, schoolID, row.AdmissionNumber)
	if notFound(err) {
		return errors.NewRowError(row.Number, "Student %s not found", row.AdmissionNumber)
	}
	if err != nil {
		return err
	}

	subject, err := s.repo.FindSubjectByCode(ctx, schoolID, row.SubjectCode)
	if notFound(err) {
		return errors.NewRowError(row.Number, "Subject %s not found", row.SubjectCode)
	}
	if err != nil {
		return err
	}

	existing, err := s.repo.FindExamResult(ctx, exam.ID, student.ID, subject.ID)
	if notFound(err) {
		return s.repo.CreateExamResult(ctx, &model.ExamResult{
			ExamID:        exam.ID,
			StudentID:     student.ID,
			SubjectID:     subject.ID,
			ObtainedMarks: row.Marks,
			TotalMarks:    row.TotalMarks,
			Grade:         row.Grade,
			Remarks:       row.Remarks,
		})
	}
	if err != nil {
		return err
	}

	existing.ObtainedMarks = row.Marks
	existing.TotalMarks = row.TotalMarks
	if row.Grade != "" {
		existing.Grade = row.Grade
	}
	if row.Remarks != "" {
		existing.Remarks = row.Remarks
	}
	return s.repo.UpdateExamResult(ctx, existing)
}
