package importer

import (
	"context"
	stderrors "errors"
	"fmt"

	"school-management-api/internal/db"
	"school-management-api/internal/model"
	"school-management-api/pkg/errors"
)

const defaultGender = "Other"

// ImportStudentsAndParents creates students and their parent accounts in one
// transaction. Each row runs under its own savepoint, so a rejected row leaves
// nothing behind while accepted rows commit together at the end. Any error
// that is not a row-level rejection rolls the whole upload back.
func (s *Service) ImportStudentsAndParents(ctx context.Context, schoolID int64, data []byte) (model.ImportOutcome, error) {
	rows, log, err := s.decode(ctx, model.ImportStudents, schoolID, data)
	if err != nil {
		return model.ImportOutcome{}, err
	}

	var outcome model.ImportOutcome
	err = s.repo.InTx(ctx, func(tx db.Tx) error {
		var txErr error
		outcome, txErr = s.process(ctx, log, rows, true, func(ctx context.Context, row model.ImportRow) error {
			typed, err := s.mapper.StudentParent(row)
			if err != nil {
				return err
			}
			return tx.Savepoint(ctx, func() error {
				return s.importStudent(ctx, tx, schoolID, typed)
			})
		})
		return txErr
	})
	if err != nil {
		log.Error().Err(err).Msg("Student import rolled back")
		return model.ImportOutcome{}, fmt.Errorf("student import rolled back: %w", err)
	}

	return outcome, nil
}

func (s *Service) importStudent(ctx context.Context, tx db.Tx, schoolID int64, row model.StudentParentRow) error {
	parent, err := s.resolveParent(ctx, tx, schoolID, row)
	if err != nil {
		return err
	}

	_, err = tx.FindStudentByAdmission(ctx, schoolID, row.AdmissionNumber)
	switch {
	case err == nil:
		return errors.NewRowError(row.Number, "Student with Admission Number %s already exists", row.AdmissionNumber)
	case !notFound(err):
		return err
	}

	var classID *int64
	if row.ClassName != "" {
		class, err := tx.FindClassByName(ctx, schoolID, row.ClassName)
		switch {
		case err == nil:
			classID = &class.ID
		case !notFound(err):
			return err
		}
	}

	dob := s.now().UTC()
	if row.DOB != nil {
		dob = *row.DOB
	}
	gender := row.Gender
	if gender == "" {
		gender = defaultGender
	}

	student := &model.Student{
		SchoolID:        schoolID,
		ParentID:        &parent.ID,
		ClassID:         classID,
		Name:            row.StudentName,
		AdmissionNumber: row.AdmissionNumber,
		DOB:             dob,
		Gender:          gender,
	}
	if err := tx.CreateStudent(ctx, student); err != nil {
		if stderrors.Is(err, errors.ErrDuplicate) {
			return errors.NewRowError(row.Number, "Student with Admission Number %s already exists", row.AdmissionNumber)
		}
		return err
	}

	return nil
}

// resolveParent reuses the account that owns the email when it is a parent
// and creates account plus profile otherwise.
func (s *Service) resolveParent(ctx context.Context, tx db.Tx, schoolID int64, row model.StudentParentRow) (*model.Parent, error) {
	user, err := tx.FindUserByEmail(ctx, row.ParentEmail)
	switch {
	case notFound(err):
		return s.createParent(ctx, tx, schoolID, row)
	case err != nil:
		return nil, err
	case user.Role != model.RoleParent:
		return nil, errors.NewRowError(row.Number, "Email %s belongs to a non-parent user", row.ParentEmail)
	}

	parent, err := tx.FindParentByUserID(ctx, user.ID)
	if notFound(err) {
		// Parent account without a profile: attach one instead of failing the row.
		parent = &model.Parent{
			UserID:       user.ID,
			SchoolID:     schoolID,
			GuardianName: row.ParentName,
			Occupation:   optional(row.Occupation),
		}
		err = tx.CreateParent(ctx, parent)
	}
	if err != nil {
		return nil, err
	}

	return parent, nil
}

func (s *Service) createParent(ctx context.Context, tx db.Tx, schoolID int64, row model.StudentParentRow) (*model.Parent, error) {
	hash, err := s.hasher.Hash(s.defaultPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash default password: %w", err)
	}

	school := schoolID
	user := &model.User{
		SchoolID:     &school,
		Name:         row.ParentName,
		Email:        row.ParentEmail,
		Phone:        optional(row.ParentPhone),
		PasswordHash: hash,
		Role:         model.RoleParent,
	}
	if err := tx.CreateUser(ctx, user); err != nil {
		if stderrors.Is(err, errors.ErrDuplicate) {
			return nil, errors.NewRowError(row.Number, "Email %s is already registered", row.ParentEmail)
		}
		return nil, err
	}

	parent := &model.Parent{
		UserID:       user.ID,
		SchoolID:     schoolID,
		GuardianName: row.ParentName,
		Occupation:   optional(row.Occupation),
	}
	if err := tx.CreateParent(ctx, parent); err != nil {
		return nil, err
	}

	return parent, nil
}
