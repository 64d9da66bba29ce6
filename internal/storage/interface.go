package storage

import (
	"context"
	"fmt"
	"io"

	"school-management-api/internal/model"

	"github.com/google/uuid"
)

// Storage archives uploaded spreadsheets. Objects are write-once.
type Storage interface {
	Upload(ctx context.Context, key string, data io.ReadSeeker) error
}

// ArchiveKey returns a fresh object key for an uploaded spreadsheet.
func ArchiveKey(schoolID int64, kind model.ImportKind) string {
	return fmt.Sprintf("imports/%d/%s/%s.xlsx", schoolID, kind, uuid.NewString())
}
