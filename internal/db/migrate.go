package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"

	"school-management-api/internal/logger"

	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const migrationsDir = "migrations"

func init() {
	goose.SetBaseFS(migrationsFS)
}

// Migrate brings the schema up to the latest embedded goose migration.
func Migrate(ctx context.Context, db *sql.DB) error {
	log := logger.Get()
	goose.SetLogger(gooseLogger{log: log})

	if err := goose.SetDialect("mysql"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, migrationsDir); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	version, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	log.Info().Int64("version", version).Msg("Database migrated")
	return nil
}

// gooseLogger routes goose output through zerolog.
type gooseLogger struct {
	log zerolog.Logger
}

func (l gooseLogger) Fatal(v ...interface{}) {
	l.log.Fatal().Msg(strings.TrimSpace(fmt.Sprint(v...)))
}

func (l gooseLogger) Fatalf(format string, v ...interface{}) {
	l.log.Fatal().Msgf(strings.TrimSpace(format), v...)
}

func (l gooseLogger) Print(v ...interface{}) {
	l.log.Info().Msg(strings.TrimSpace(fmt.Sprint(v...)))
}

func (l gooseLogger) Println(v ...interface{}) {
	l.log.Info().Msg(strings.TrimSpace(fmt.Sprintln(v...)))
}

func (l gooseLogger) Printf(format string, v ...interface{}) {
	l.log.Info().Msgf(strings.TrimSpace(format), v...)
}
