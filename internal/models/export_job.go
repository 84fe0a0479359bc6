package models

import "time"

// ExportKind enumerates what an export job produces.
type ExportKind string

const (
	ExportKindWorkbook ExportKind = "workbook"
)

// ExportStatus captures background job lifecycle states.
type ExportStatus string

const (
	ExportStatusQueued     ExportStatus = "QUEUED"
	ExportStatusProcessing ExportStatus = "PROCESSING"
	ExportStatusFinished   ExportStatus = "FINISHED"
	ExportStatusFailed     ExportStatus = "FAILED"
)

// ExportJob is the state of an asynchronous export, kept in Redis or memory.
type ExportJob struct {
	ID           string       `json:"id"`
	Kind         ExportKind   `json:"kind"`
	Status       ExportStatus `json:"status"`
	FilePath     string       `json:"file_path,omitempty"`
	DownloadURL  string       `json:"download_url,omitempty"`
	ExpiresAt    *time.Time   `json:"expires_at,omitempty"`
	ErrorMessage string       `json:"error_message,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	FinishedAt   *time.Time   `json:"finished_at,omitempty"`
}
