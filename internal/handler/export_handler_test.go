package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eczbabil/ajans-yonetim-sistemi/internal/dto"
	"github.com/eczbabil/ajans-yonetim-sistemi/internal/models"
	"github.com/eczbabil/ajans-yonetim-sistemi/internal/service"
	appErrors "github.com/eczbabil/ajans-yonetim-sistemi/pkg/errors"
)

type exportServiceMock struct {
	entity string
}

func (m *exportServiceMock) Workbook(ctx context.Context) ([]byte, error) {
	return []byte("PK-workbook"), nil
}

func (m *exportServiceMock) CSV(ctx context.Context, entity string) ([]byte, error) {
	m.entity = entity
	if entity == "invoices" {
		return nil, appErrors.Validation("entity", "unknown table")
	}
	return []byte("\ufeffCode,Client Name\r\n"), nil
}

type exportJobServiceMock struct {
	lastReq dto.ExportJobRequest
}

func (m *exportJobServiceMock) Create(ctx context.Context, req dto.ExportJobRequest) (*dto.ExportJobResponse, error) {
	m.lastReq = req
	if req.Kind != "" && req.Kind != models.ExportKindWorkbook {
		return nil, appErrors.Validation("kind", "unsupported export kind")
	}
	return &dto.ExportJobResponse{ID: "job-1", Kind: models.ExportKindWorkbook, Status: models.ExportStatusQueued}, nil
}

func (m *exportJobServiceMock) Status(ctx context.Context, id string) (*dto.ExportJobResponse, error) {
	if id != "job-1" {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "export job not found")
	}
	return &dto.ExportJobResponse{ID: id, Status: models.ExportStatusFinished, DownloadURL: "/api/v1/exports/download?token=abc"}, nil
}

func (m *exportJobServiceMock) ResolveDownload(ctx context.Context, token string) (*service.ExportDownload, error) {
	if token != "abc" {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "invalid download token")
	}
	return &service.ExportDownload{Filename: "job-1.xlsx", ContentType: service.XLSXContentType, Data: []byte("PK")}, nil
}

func newExportRouter(exports *exportServiceMock, jobs *exportJobServiceMock) *gin.Engine {
	h := NewExportHandler(exports, jobs)
	h.now = func() time.Time { return time.Date(2025, time.March, 15, 9, 0, 0, 0, time.UTC) }
	router := newTestRouter()
	router.GET("/exports/workbook", h.Workbook)
	router.GET("/exports/csv/:entity", h.CSV)
	router.POST("/exports/jobs", h.CreateJob)
	router.GET("/exports/jobs/:id", h.JobStatus)
	router.GET("/exports/download", h.Download)
	return router
}

func TestExportHandlerSynchronousDownloads(t *testing.T) {
	exports := &exportServiceMock{}
	router := newExportRouter(exports, &exportJobServiceMock{})

	w := performRequest(router, http.MethodGet, "/exports/workbook", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, service.XLSXContentType, w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="agency-export-20250315.xlsx"`, w.Header().Get("Content-Disposition"))

	w = performRequest(router, http.MethodGet, "/exports/csv/clients", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "clients", exports.entity)
	assert.Equal(t, csvContentType, w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="clients-20250315.csv"`, w.Header().Get("Content-Disposition"))

	w = performRequest(router, http.MethodGet, "/exports/csv/invoices", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportHandlerJobs(t *testing.T) {
	jobs := &exportJobServiceMock{}
	router := newExportRouter(&exportServiceMock{}, jobs)

	w := performRequest(router, http.MethodPost, "/exports/jobs", nil)
	require.Equal(t, http.StatusAccepted, w.Code)
	var job dto.ExportJobResponse
	decodeData(t, w, &job)
	assert.Equal(t, models.ExportStatusQueued, job.Status)

	w = performRequest(router, http.MethodPost, "/exports/jobs", jsonBody(t, dto.ExportJobRequest{Kind: "pdf"}))
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, models.ExportKind("pdf"), jobs.lastReq.Kind)

	w = performRequest(router, http.MethodGet, "/exports/jobs/job-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeData(t, w, &job)
	assert.Equal(t, "/api/v1/exports/download?token=abc", job.DownloadURL)

	w = performRequest(router, http.MethodGet, "/exports/jobs/other", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestExportHandlerDownload(t *testing.T) {
	router := newExportRouter(&exportServiceMock{}, &exportJobServiceMock{})

	w := performRequest(router, http.MethodGet, "/exports/download?token=abc", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "PK", w.Body.String())
	assert.Equal(t, `attachment; filename="job-1.xlsx"`, w.Header().Get("Content-Disposition"))

	w = performRequest(router, http.MethodGet, "/exports/download?token=forged", nil)
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, appErrors.ErrForbidden.Code, decodeEnvelope(t, w).Error.Code)
}
