package model

import (
	"time"
)

type ImportKind string

const (
	ImportStudents    ImportKind = "students"
	ImportAttendance  ImportKind = "attendance"
	ImportExams       ImportKind = "exams"
	ImportExamResults ImportKind = "results"
)

// ImportRow is one decoded data row keyed by header text. Number is the
// sheet row it came from (first data row is 2).
type ImportRow struct {
	Number int
	Cells  map[string]string
}

func (r ImportRow) Get(column string) string {
	return r.Cells[column]
}

type RowFailure struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportOutcome is the per-upload summary. Values are never mutated in place;
// WithSuccess and WithFailure return a new outcome.
type ImportOutcome struct {
	Total   int          `json:"total"`
	Success int          `json:"success"`
	Failed  int          `json:"failed"`
	Errors  []RowFailure `json:"errors"`
}

func NewImportOutcome() ImportOutcome {
	return ImportOutcome{Errors: []RowFailure{}}
}

func (o ImportOutcome) WithSuccess() ImportOutcome {
	return ImportOutcome{
		Total:   o.Total + 1,
		Success: o.Success + 1,
		Failed:  o.Failed,
		Errors:  o.Errors,
	}
}

func (o ImportOutcome) WithFailure(row int, message string) ImportOutcome {
	errs := make([]RowFailure, len(o.Errors), len(o.Errors)+1)
	copy(errs, o.Errors)
	return ImportOutcome{
		Total:   o.Total + 1,
		Success: o.Success,
		Failed:  o.Failed + 1,
		Errors:  append(errs, RowFailure{Row: row, Message: message}),
	}
}

type UploadStatus string

const (
	UploadProcessing UploadStatus = "PROCESSING"
	UploadCompleted  UploadStatus = "COMPLETED"
	UploadFailed     UploadStatus = "FAILED"
)

// ImportUpload tracks one spreadsheet submitted to a bulk-upload endpoint.
type ImportUpload struct {
	ID           int64        `json:"id" db:"id"`
	SchoolID     int64        `json:"school_id" db:"school_id"`
	UploadedBy   int64        `json:"uploaded_by" db:"uploaded_by"`
	Kind         ImportKind   `json:"kind" db:"kind"`
	FileName     string       `json:"file_name" db:"file_name"`
	StorageKey   *string      `json:"storage_key,omitempty" db:"storage_key"`
	Status       UploadStatus `json:"status" db:"status"`
	TotalRows    int          `json:"total_rows" db:"total_rows"`
	SuccessCount int          `json:"success_count" db:"success_count"`
	FailedCount  int          `json:"failed_count" db:"failed_count"`
	ErrorMessage *string      `json:"error_message,omitempty" db:"error_message"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at" db:"updated_at"`
}
