package handler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/eczbabil/ajans-yonetim-sistemi/internal/dto"
	"github.com/eczbabil/ajans-yonetim-sistemi/internal/models"
	"github.com/eczbabil/ajans-yonetim-sistemi/internal/service"
	appErrors "github.com/eczbabil/ajans-yonetim-sistemi/pkg/errors"
	"github.com/eczbabil/ajans-yonetim-sistemi/pkg/response"
)

type clientService interface {
	List(ctx context.Context, filter models.ClientFilter) ([]models.Client, *models.Pagination, error)
	Get(ctx context.Context, id int64) (*models.Client, error)
	Create(ctx context.Context, req dto.ClientRequest) (*models.Client, error)
	Update(ctx context.Context, id int64, req dto.ClientRequest) (*models.Client, error)
	Deliverables(ctx context.Context, clientID int64) (*dto.ClientDeliverables, error)
}

type clientMetricsService interface {
	Period(period string) (models.DateRange, error)
	ClientMetrics(ctx context.Context, clientID int64, rng models.DateRange) (*models.ClientMetrics, error)
}

type clientReportService interface {
	Generate(ctx context.Context, clientID int64, rng models.DateRange) ([]byte, string, error)
}

type clientImportService interface {
	ImportClients(ctx context.Context, r io.Reader) (*dto.ImportResult, error)
}

// ClientHandler exposes client endpoints.
type ClientHandler struct {
	clients       clientService
	stats         clientMetricsService
	reports       clientReportService
	imports       clientImportService
	maxUploadSize int64
}

// NewClientHandler constructs the handler. maxUploadSize bounds import files; zero disables the check.
func NewClientHandler(clients clientService, stats clientMetricsService, reports clientReportService, imports clientImportService, maxUploadSize int64) *ClientHandler {
	return &ClientHandler{clients: clients, stats: stats, reports: reports, imports: imports, maxUploadSize: maxUploadSize}
}

// List godoc
// @Summary List clients
// @Tags Clients
// @Produce json
// @Param search query string false "Name search"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /clients [get]
func (h *ClientHandler) List(c *gin.Context) {
	filter := models.ClientFilter{
		Search:   strings.TrimSpace(c.Query("search")),
		Page:     parseQueryInt(c, "page", 1),
		PageSize: parseQueryInt(c, "limit", 20),
	}
	clients, pagination, err := h.clients.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, clients, pagination)
}

// Create godoc
// @Summary Create client
// @Description The client code (MSTnnn) is assigned by the server.
// @Tags Clients
// @Accept json
// @Produce json
// @Param payload body dto.ClientRequest true "Client payload"
// @Success 201 {object} response.Envelope
// @Router /clients [post]
func (h *ClientHandler) Create(c *gin.Context) {
	var req dto.ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid client payload"))
		return
	}
	client, err := h.clients.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, client)
}

// Get godoc
// @Summary Get client
// @Tags Clients
// @Produce json
// @Param id path int true "Client ID"
// @Success 200 {object} response.Envelope
// @Router /clients/{id} [get]
func (h *ClientHandler) Get(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	client, err := h.clients.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, client, nil)
}

// Update godoc
// @Summary Update client
// @Tags Clients
// @Accept json
// @Produce json
// @Param id path int true "Client ID"
// @Param payload body dto.ClientRequest true "Client payload"
// @Success 200 {object} response.Envelope
// @Router /clients/{id} [put]
func (h *ClientHandler) Update(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid client payload"))
		return
	}
	client, err := h.clients.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, client, nil)
}

// Deliverables godoc
// @Summary List a client's deliverables
// @Tags Clients
// @Produce json
// @Param id path int true "Client ID"
// @Success 200 {object} response.Envelope
// @Router /clients/{id}/deliverables [get]
func (h *ClientHandler) Deliverables(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	out, err := h.clients.Deliverables(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, out, nil)
}

// Metrics godoc
// @Summary Client metrics for a period
// @Tags Clients
// @Produce json
// @Param id path int true "Client ID"
// @Param period query string false "month, year, 6months or all"
// @Success 200 {object} response.Envelope
// @Router /clients/{id}/metrics [get]
func (h *ClientHandler) Metrics(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	period := c.DefaultQuery("period", "month")
	rng, err := h.stats.Period(period)
	if err != nil {
		response.Error(c, err)
		return
	}
	metrics, err := h.stats.ClientMetrics(c.Request.Context(), id, rng)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, metrics, nil, map[string]interface{}{"period": period})
}

// Report godoc
// @Summary Download the client activity report
// @Description Without period or from/to the report covers the last 30 days.
// @Tags Clients
// @Produce application/pdf
// @Param id path int true "Client ID"
// @Param period query string false "month, year, 6months or all"
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Success 200 {file} file
// @Router /clients/{id}/report [get]
func (h *ClientHandler) Report(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var rng models.DateRange
	if period := c.Query("period"); period != "" {
		rng, err = h.stats.Period(period)
	} else {
		rng, err = parseDateRange(c)
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	data, filename, err := h.reports.Generate(c.Request.Context(), id, rng)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, filename, service.PDFContentType, data)
}

// Import godoc
// @Summary Import clients from a spreadsheet
// @Tags Clients
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Excel workbook"
// @Success 201 {object} response.Envelope
// @Router /clients/import [post]
func (h *ClientHandler) Import(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Validation("file", "is required"))
		return
	}
	if h.maxUploadSize > 0 && fileHeader.Size > h.maxUploadSize {
		response.Error(c, appErrors.Clone(appErrors.ErrPayloadTooLarge, fmt.Sprintf("file exceeds %d bytes", h.maxUploadSize)))
		return
	}
	src, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open file"))
		return
	}
	defer src.Close()

	result, err := h.imports.ImportClients(c.Request.Context(), src)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}
