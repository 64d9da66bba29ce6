package importer

import (
	"context"
	stderrors "errors"

	"school-management-api/internal/model"
	"school-management-api/pkg/errors"
)

// ImportAttendance upserts one attendance record per (student, date). Rows
// commit independently.
func (s *Service) ImportAttendance(ctx context.Context, schoolID int64, data []byte) (model.ImportOutcome, error) {
	rows, log, err := s.decode(ctx, model.ImportAttendance, schoolID, data)
	if err != nil {
		return model.ImportOutcome{}, err
	}

	return s.process(ctx, log, rows, false, func(ctx context.Context, row model.ImportRow) error {
		typed, err := s.mapper.Attendance(row)
		if err != nil {
			return err
		}
		return s.importAttendance(ctx, schoolID, typed)
	})
}

func (s *Service) importAttendance(ctx context.Context, schoolID int64, row model.AttendanceRow) error {
	student, err := s.repo.FindStudentByAdmission(ctx, schoolID, row.AdmissionNumber)
	if notFound(err) {
		return errors.NewRowError(row.Number, "Student %s not found", row.AdmissionNumber)
	}
	if err != nil {
		return err
	}

	remarks := optional(row.Remarks)

	existing, err := s.repo.FindAttendance(ctx, schoolID, student.ID, row.Date)
	if notFound(err) {
		err = s.repo.CreateAttendance(ctx, &model.Attendance{
			SchoolID:  schoolID,
			StudentID: student.ID,
			Date:      row.Date,
			Status:    row.Status,
			Remarks:   remarks,
		})
		if !stderrors.Is(err, errors.ErrDuplicate) {
			return err
		}
		// Lost a race with a concurrent import of the same day; update instead.
		existing, err = s.repo.FindAttendance(ctx, schoolID, student.ID, row.Date)
	}
	if err != nil {
		return err
	}

	existing.Status = row.Status
	existing.Remarks = remarks
	return s.repo.UpdateAttendance(ctx, existing)
}
