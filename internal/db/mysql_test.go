package db

import (
	"database/sql"
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"school-management-api/pkg/errors"

	"github.com/go-sql-driver/mysql"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslate(t *testing.T) {
	assert.NoError(t, translate(nil))
	assert.ErrorIs(t, translate(sql.ErrNoRows), errors.ErrNotFound)
	assert.ErrorIs(t, translate(fmt.Errorf("scan: %w", sql.ErrNoRows)), errors.ErrNotFound)

	dup := &mysql.MySQLError{Number: mysqlDuplicateEntry, Message: "Duplicate entry 'A1' for key 'uq_students_school_admission'"}
	err := translate(dup)
	assert.ErrorIs(t, err, errors.ErrDuplicate)
	assert.Contains(t, err.Error(), "Duplicate entry 'A1'")

	other := stderrors.New("connection reset")
	assert.Equal(t, other, translate(other))
}

func TestEmbeddedMigrationsAreCollected(t *testing.T) {
	migrations, err := goose.CollectMigrations(migrationsDir, 0, goose.MaxVersion)
	require.NoError(t, err)
	require.NotEmpty(t, migrations)
	assert.Equal(t, int64(1), migrations[0].Version)
	assert.Contains(t, migrations[0].Source, "001_init.sql")

	for i := 1; i < len(migrations); i++ {
		assert.Greater(t, migrations[i].Version, migrations[i-1].Version)
	}
}

func TestInitMigrationIsAnnotated(t *testing.T) {
	body, err := migrationsFS.ReadFile("migrations/001_init.sql")
	require.NoError(t, err)

	up := strings.Index(string(body), "-- +goose Up")
	down := strings.Index(string(body), "-- +goose Down")
	require.NotEqual(t, -1, up)
	require.Greater(t, down, up)
	assert.Contains(t, string(body[down:]), "DROP TABLE IF EXISTS schools;")
}

func TestGooseLoggerSatisfiesInterface(t *testing.T) {
	var _ goose.Logger = gooseLogger{}
}
