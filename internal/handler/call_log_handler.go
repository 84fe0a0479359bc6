package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eczbabil/ajans-yonetim-sistemi/internal/dto"
	"github.com/eczbabil/ajans-yonetim-sistemi/internal/models"
	"github.com/eczbabil/ajans-yonetim-sistemi/pkg/response"
)

type callLogService interface {
	List(ctx context.Context, filter models.CallLogFilter) ([]models.CallLog, error)
	FollowUpsDue(ctx context.Context) ([]models.CallLog, error)
	Get(ctx context.Context, id int64) (*models.CallLog, error)
	Create(ctx context.Context, req dto.CallLogRequest) (*models.CallLog, error)
	Update(ctx context.Context, id int64, req dto.CallLogRequest) (*models.CallLog, error)
	Delete(ctx context.Context, id int64) error
}

// CallLogHandler exposes call log endpoints.
type CallLogHandler struct {
	calls callLogService
}

// NewCallLogHandler constructs the handler.
func NewCallLogHandler(calls callLogService) *CallLogHandler {
	return &CallLogHandler{calls: calls}
}

// List godoc
// @Summary List call logs
// @Tags CallLogs
// @Produce json
// @Param clientId query int false "Client filter"
// @Param status query string false "pending, done or cancelled"
// @Success 200 {object} response.Envelope
// @Router /call-logs [get]
func (h *CallLogHandler) List(c *gin.Context) {
	clientID, err := parseOptionalID(c, "clientId")
	if err != nil {
		response.Error(c, err)
		return
	}
	filter := models.CallLogFilter{ClientID: clientID, Status: models.CallLogStatus(c.Query("status"))}
	logs, err := h.calls.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, logs, nil)
}

// FollowUps godoc
// @Summary Pending calls whose follow-up date has arrived
// @Tags CallLogs
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /call-logs/follow-ups [get]
func (h *CallLogHandler) FollowUps(c *gin.Context) {
	logs, err := h.calls.FollowUpsDue(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, logs, nil)
}

// Create godoc
// @Summary Log a call
// @Tags CallLogs
// @Accept json
// @Produce json
// @Param payload body dto.CallLogRequest true "Call log payload"
// @Success 201 {object} response.Envelope
// @Router /call-logs [post]
func (h *CallLogHandler) Create(c *gin.Context) {
	var req dto.CallLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid call log payload"))
		return
	}
	log, err := h.calls.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, log)
}

// Get godoc
// @Summary Get call log
// @Tags CallLogs
// @Produce json
// @Param id path int true "Call log ID"
// @Success 200 {object} response.Envelope
// @Router /call-logs/{id} [get]
func (h *CallLogHandler) Get(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	log, err := h.calls.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, log, nil)
}

// Update godoc
// @Summary Update call log
// @Tags CallLogs
// @Accept json
// @Produce json
// @Param id path int true "Call log ID"
// @Param payload body dto.CallLogRequest true "Call log payload"
// @Success 200 {object} response.Envelope
// @Router /call-logs/{id} [put]
func (h *CallLogHandler) Update(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.CallLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid call log payload"))
		return
	}
	log, err := h.calls.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, log, nil)
}

// Delete godoc
// @Summary Delete call log
// @Tags CallLogs
// @Param id path int true "Call log ID"
// @Success 204
// @Router /call-logs/{id} [delete]
func (h *CallLogHandler) Delete(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.calls.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
