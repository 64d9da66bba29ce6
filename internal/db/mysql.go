package db

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"time"

	"school-management-api/internal/config"
	"school-management-api/pkg/errors"

	"github.com/go-sql-driver/mysql"
)

const mysqlDuplicateEntry = 1062

func NewConnection(cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open("mysql", cfg.DatabaseDSN())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxConnections)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConnections)
	db.SetConnMaxLifetime(cfg.Database.ConnectionLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// translate maps driver errors onto the package sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if stderrors.Is(err, sql.ErrNoRows) {
		return errors.ErrNotFound
	}
	var myErr *mysql.MySQLError
	if stderrors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry {
		return fmt.Errorf("%w: %s", errors.ErrDuplicate, myErr.Message)
	}
	return err
}
