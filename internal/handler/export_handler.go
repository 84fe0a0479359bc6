package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/eczbabil/ajans-yonetim-sistemi/internal/dto"
	"github.com/eczbabil/ajans-yonetim-sistemi/internal/service"
	"github.com/eczbabil/ajans-yonetim-sistemi/pkg/response"
)

const csvContentType = "text/csv; charset=utf-8"

type exportService interface {
	Workbook(ctx context.Context) ([]byte, error)
	CSV(ctx context.Context, entity string) ([]byte, error)
}

type exportJobService interface {
	Create(ctx context.Context, req dto.ExportJobRequest) (*dto.ExportJobResponse, error)
	Status(ctx context.Context, id string) (*dto.ExportJobResponse, error)
	ResolveDownload(ctx context.Context, token string) (*service.ExportDownload, error)
}

// ExportHandler serves synchronous exports and the background export jobs.
type ExportHandler struct {
	exports exportService
	jobs    exportJobService
	now     func() time.Time
}

// NewExportHandler constructs the handler.
func NewExportHandler(exports exportService, jobs exportJobService) *ExportHandler {
	return &ExportHandler{exports: exports, jobs: jobs, now: time.Now}
}

// Workbook godoc
// @Summary Download every table as one Excel workbook
// @Tags Exports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file
// @Router /exports/workbook [get]
func (h *ExportHandler) Workbook(c *gin.Context) {
	data, err := h.exports.Workbook(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	filename := fmt.Sprintf("agency-export-%s.xlsx", h.now().Format("20060102"))
	response.Attachment(c, filename, service.XLSXContentType, data)
}

// CSV godoc
// @Summary Download one table as CSV
// @Tags Exports
// @Produce text/csv
// @Param entity path string true "clients, work-items, deliverables, social-posts, revisions or call-logs"
// @Success 200 {file} file
// @Router /exports/csv/{entity} [get]
func (h *ExportHandler) CSV(c *gin.Context) {
	entity := c.Param("entity")
	data, err := h.exports.CSV(c.Request.Context(), entity)
	if err != nil {
		response.Error(c, err)
		return
	}
	filename := fmt.Sprintf("%s-%s.csv", entity, h.now().Format("20060102"))
	response.Attachment(c, filename, csvContentType, data)
}

// CreateJob godoc
// @Summary Queue a background workbook export
// @Tags Exports
// @Accept json
// @Produce json
// @Param payload body dto.ExportJobRequest false "Export job payload"
// @Success 202 {object} response.Envelope
// @Router /exports/jobs [post]
func (h *ExportHandler) CreateJob(c *gin.Context) {
	var req dto.ExportJobRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, bindError(err, "invalid export payload"))
			return
		}
	}
	job, err := h.jobs.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, job)
}

// JobStatus godoc
// @Summary Export job status
// @Tags Exports
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} response.Envelope
// @Router /exports/jobs/{id} [get]
func (h *ExportHandler) JobStatus(c *gin.Context) {
	job, err := h.jobs.Status(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, job, nil)
}

// Download godoc
// @Summary Download a finished export through its signed token
// @Tags Exports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param token query string true "Signed download token"
// @Success 200 {file} file
// @Router /exports/download [get]
func (h *ExportHandler) Download(c *gin.Context) {
	download, err := h.jobs.ResolveDownload(c.Request.Context(), c.Query("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, download.Filename, download.ContentType, download.Data)
}
