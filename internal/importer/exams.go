package importer

import (
	"context"

	"school-management-api/internal/model"
	"school-management-api/pkg/errors"
)

// ImportExams always inserts; re-importing a sheet creates duplicate exams.
func (s *Service) ImportExams(ctx context.Context, schoolID int64, data []byte) (model.ImportOutcome, error) {
	rows, log, err := s.decode(ctx, model.ImportExams, schoolID, data)
	if err != nil {
		return model.ImportOutcome{}, err
	}

	return s.process(ctx, log, rows, false, func(ctx context.Context, row model.ImportRow) error {
		typed, err := s.mapper.Exam(row)
		if err != nil {
			return err
		}
		return s.importExam(ctx, schoolID, typed)
	})
}

func (s *Service) importExam(ctx context.Context, schoolID int64, row model.ExamRow) error {
	var classID *int64
	if row.ClassName != "" {
		class, err := s.repo.FindClassByName(ctx, schoolID, row.ClassName)
		if notFound(err) {
			return errors.NewRowError(row.Number, "Class %s not found", row.ClassName)
		}
		if err != nil {
			return err
		}
		classID = &class.ID
	}

	return s.repo.CreateExam(ctx, &model.Exam{
		SchoolID:  schoolID,
		ClassID:   classID,
		Name:      row.Name,
		ExamType:  row.Type,
		StartDate: row.StartDate,
		EndDate:   row.EndDate,
	})
}
