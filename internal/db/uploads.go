package db

import (
	"context"
	"time"

	"school-management-api/internal/model"
)

const uploadColumns = `id, school_id, uploaded_by, kind, file_name, storage_key, status,
	total_rows, success_count, failed_count, error_message, created_at, updated_at`

func scanUpload(row interface{ Scan(...interface{}) error }) (*model.ImportUpload, error) {
	var u model.ImportUpload
	err := row.Scan(&u.ID, &u.SchoolID, &u.UploadedBy, &u.Kind, &u.FileName, &u.StorageKey,
		&u.Status, &u.TotalRows, &u.SuccessCount, &u.FailedCount, &u.ErrorMessage,
		&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *queries) CreateUpload(ctx context.Context, upload *model.ImportUpload) error {
	now := time.Now().UTC()
	query := `INSERT INTO import_uploads (school_id, uploaded_by, kind, file_name, storage_key, status, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	id, err := insertID(r.q.ExecContext(ctx, query, upload.SchoolID, upload.UploadedBy, upload.Kind,
		upload.FileName, upload.StorageKey, upload.Status, now, now))
	if err != nil {
		return err
	}

	upload.ID = id
	upload.CreatedAt = now
	upload.UpdatedAt = now
	return nil
}

func (r *queries) FinishUpload(ctx context.Context, uploadID int64, status model.UploadStatus, outcome model.ImportOutcome, errorMessage *string) error {
	query := `UPDATE import_uploads
			  SET status = ?, total_rows = ?, success_count = ?, failed_count = ?, error_message = ?, updated_at = ?
			  WHERE id = ?`
	_, err := r.q.ExecContext(ctx, query, status, outcome.Total, outcome.Success, outcome.Failed,
		errorMessage, time.Now().UTC(), uploadID)
	return translate(err)
}

func (r *queries) GetUpload(ctx context.Context, schoolID, uploadID int64) (*model.ImportUpload, error) {
	query := `SELECT ` + uploadColumns + ` FROM import_uploads WHERE school_id = ? AND id = ?`
	return scanUpload(r.q.QueryRowContext(ctx, query, schoolID, uploadID))
}

func (r *queries) ListUploads(ctx context.Context, schoolID int64, limit int) ([]model.ImportUpload, error) {
	query := `SELECT ` + uploadColumns + ` FROM import_uploads WHERE school_id = ? ORDER BY created_at DESC, id DESC LIMIT ?`

	rows, err := r.q.QueryContext(ctx, query, schoolID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	uploads := []model.ImportUpload{}
	for rows.Next() {
		u, err := scanUpload(rows)
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, *u)
	}

	return uploads, rows.Err()
}
