package importer

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"school-management-api/internal/config"
	"school-management-api/internal/db"
	"school-management-api/internal/excel"
	"school-management-api/internal/logger"
	"school-management-api/internal/model"
	"school-management-api/pkg/errors"

	"github.com/rs/zerolog"
)

type Decoder interface {
	Parse(ctx context.Context, data []byte) ([]model.ImportRow, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
}

// Service runs the four bulk spreadsheet imports. Rows are handled strictly
// in sheet order; every lookup and write is scoped to the caller's school.
type Service struct {
	repo            db.Repository
	decoder         Decoder
	mapper          *excel.RowMapper
	hasher          PasswordHasher
	defaultPassword string
	now             func() time.Time
	log             zerolog.Logger
}

func NewService(cfg *config.Config, repo db.Repository, hasher PasswordHasher) *Service {
	return &Service{
		repo:            repo,
		decoder:         excel.NewParser(),
		mapper:          excel.NewRowMapper(),
		hasher:          hasher,
		defaultPassword: cfg.Import.DefaultParentPassword,
		now:             time.Now,
		log:             logger.Get(),
	}
}

// Import dispatches to the operation for kind.
func (s *Service) Import(ctx context.Context, kind model.ImportKind, schoolID int64, data []byte) (model.ImportOutcome, error) {
	switch kind {
	case model.ImportStudents:
		return s.ImportStudentsAndParents(ctx, schoolID, data)
	case model.ImportAttendance:
		return s.ImportAttendance(ctx, schoolID, data)
	case model.ImportExams:
		return s.ImportExams(ctx, schoolID, data)
	case model.ImportExamResults:
		return s.ImportExamResults(ctx, schoolID, data)
	default:
		return model.ImportOutcome{}, fmt.Errorf("%w: %s", errors.ErrUnknownImportKind, kind)
	}
}

type rowHandler func(ctx context.Context, row model.ImportRow) error

func (s *Service) decode(ctx context.Context, kind model.ImportKind, schoolID int64, data []byte) ([]model.ImportRow, zerolog.Logger, error) {
	log := s.log.With().Int64("school_id", schoolID).Str("kind", string(kind)).Logger()

	if len(data) == 0 {
		return nil, log, errors.ErrNoFile
	}

	rows, err := s.decoder.Parse(ctx, data)
	if err != nil {
		log.Error().Err(err).Msg("Failed to decode spreadsheet")
		return nil, log, err
	}

	log.Info().Int("row_count", len(rows)).Msg("Starting import")
	return rows, log, nil
}

// process folds rows into an outcome. With strict set, an error that is not a
// row-level failure stops the fold and is returned as is.
func (s *Service) process(ctx context.Context, log zerolog.Logger, rows []model.ImportRow, strict bool, handle rowHandler) (model.ImportOutcome, error) {
	started := s.now()
	outcome := model.NewImportOutcome()

	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return model.ImportOutcome{}, err
		}

		err := handle(ctx, row)
		switch {
		case err == nil:
			outcome = outcome.WithSuccess()
		case strict && !isRowFailure(err):
			log.Error().Err(err).Int("row", row.Number).Msg("Unexpected error, aborting import")
			return model.ImportOutcome{}, err
		default:
			msg := rowMessage(err)
			log.Debug().Int("row", row.Number).Str("reason", msg).Msg("Row rejected")
			outcome = outcome.WithFailure(row.Number, msg)
		}
	}

	log.Info().
		Int("total", outcome.Total).
		Int("success", outcome.Success).
		Int("failed", outcome.Failed).
		Dur("duration", s.now().Sub(started)).
		Msg("Import completed")

	return outcome, nil
}

// isRowFailure reports whether err is an anticipated per-row condition.
func isRowFailure(err error) bool {
	return errors.IsRowError(err) || stderrors.Is(err, errors.ErrDuplicate)
}

func rowMessage(err error) string {
	var re errors.RowError
	if stderrors.As(err, &re) {
		return re.Message
	}
	return err.Error()
}

func notFound(err error) bool {
	return stderrors.Is(err, errors.ErrNotFound)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
