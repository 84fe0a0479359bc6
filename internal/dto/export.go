package dto

import (
	"time"

	"github.com/eczbabil/ajans-yonetim-sistemi/internal/models"
)

// ExportJobRequest is the payload of POST /exports/jobs.
type ExportJobRequest struct {
	Kind models.ExportKind `json:"kind" form:"kind"`
}

// ExportJobResponse exposes export job progress without the storage path.
type ExportJobResponse struct {
	ID          string              `json:"id"`
	Kind        models.ExportKind   `json:"kind"`
	Status      models.ExportStatus `json:"status"`
	DownloadURL string              `json:"download_url,omitempty"`
	ExpiresAt   *time.Time          `json:"expires_at,omitempty"`
	Error       string              `json:"error,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	FinishedAt  *time.Time          `json:"finished_at,omitempty"`
}

// NewExportJobResponse projects a stored job.
func NewExportJobResponse(job *models.ExportJob) *ExportJobResponse {
	return &ExportJobResponse{
		ID:          job.ID,
		Kind:        job.Kind,
		Status:      job.Status,
		DownloadURL: job.DownloadURL,
		ExpiresAt:   job.ExpiresAt,
		Error:       job.ErrorMessage,
		CreatedAt:   job.CreatedAt,
		FinishedAt:  job.FinishedAt,
	}
}
