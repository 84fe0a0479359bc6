package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eczbabil/ajans-yonetim-sistemi/internal/dto"
	"github.com/eczbabil/ajans-yonetim-sistemi/internal/models"
	"github.com/eczbabil/ajans-yonetim-sistemi/pkg/response"
)

type workItemService interface {
	List(ctx context.Context, filter models.WorkItemFilter) ([]models.WorkItem, *models.Pagination, error)
	Create(ctx context.Context, req dto.WorkItemRequest) (*models.WorkItem, error)
	Detail(ctx context.Context, id int64) (*dto.WorkItemDetail, error)
}

type workLifecycleService interface {
	SubmitRevision(ctx context.Context, id int64, req dto.RevisionRequest) (*models.Revision, error)
	SendToApproval(ctx context.Context, id int64) (*models.WorkItem, error)
	Approve(ctx context.Context, id int64) (*dto.ApprovalResult, error)
	Reject(ctx context.Context, id int64) (*models.WorkItem, error)
	ResendToRevision(ctx context.Context, id int64) (*dto.ResendPreview, error)
	Edit(ctx context.Context, id int64, req dto.WorkItemRequest) (*models.WorkItem, error)
}

// WorkItemHandler exposes work item endpoints and their lifecycle transitions.
type WorkItemHandler struct {
	items     workItemService
	lifecycle workLifecycleService
}

// NewWorkItemHandler constructs the handler.
func NewWorkItemHandler(items workItemService, lifecycle workLifecycleService) *WorkItemHandler {
	return &WorkItemHandler{items: items, lifecycle: lifecycle}
}

// List godoc
// @Summary List work items
// @Tags WorkItems
// @Produce json
// @Param clientId query int false "Client filter"
// @Param status query string false "Status filter"
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /work-items [get]
func (h *WorkItemHandler) List(c *gin.Context) {
	clientID, err := parseOptionalID(c, "clientId")
	if err != nil {
		response.Error(c, err)
		return
	}
	rng, err := parseDateRange(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	filter := models.WorkItemFilter{
		ClientID: clientID,
		Status:   models.WorkItemStatus(c.Query("status")),
		Range:    rng,
		Page:     parseQueryInt(c, "page", 1),
		PageSize: parseQueryInt(c, "limit", 20),
	}
	items, pagination, err := h.items.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// Create godoc
// @Summary Log a work item
// @Tags WorkItems
// @Accept json
// @Produce json
// @Param payload body dto.WorkItemRequest true "Work item payload"
// @Success 201 {object} response.Envelope
// @Router /work-items [post]
func (h *WorkItemHandler) Create(c *gin.Context) {
	var req dto.WorkItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid work item payload"))
		return
	}
	item, err := h.items.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// Detail godoc
// @Summary Work item with revisions and deliverable
// @Tags WorkItems
// @Produce json
// @Param id path int true "Work item ID"
// @Success 200 {object} response.Envelope
// @Router /work-items/{id} [get]
func (h *WorkItemHandler) Detail(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	detail, err := h.items.Detail(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// Edit godoc
// @Summary Edit a work item
// @Description Shared fields are copied to its revisions and linked deliverable in the same transaction.
// @Tags WorkItems
// @Accept json
// @Produce json
// @Param id path int true "Work item ID"
// @Param payload body dto.WorkItemRequest true "Work item payload"
// @Success 200 {object} response.Envelope
// @Router /work-items/{id} [put]
func (h *WorkItemHandler) Edit(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.WorkItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid work item payload"))
		return
	}
	item, err := h.lifecycle.Edit(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// SubmitRevision godoc
// @Summary Submit a revision request
// @Tags WorkItems
// @Accept json
// @Produce json
// @Param id path int true "Work item ID"
// @Param payload body dto.RevisionRequest false "Revision payload"
// @Success 201 {object} response.Envelope
// @Router /work-items/{id}/revisions [post]
func (h *WorkItemHandler) SubmitRevision(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.RevisionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, bindError(err, "invalid revision payload"))
			return
		}
	}
	revision, err := h.lifecycle.SubmitRevision(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, revision)
}

// SendToApproval godoc
// @Summary Send a work item to approval
// @Tags WorkItems
// @Produce json
// @Param id path int true "Work item ID"
// @Success 200 {object} response.Envelope
// @Router /work-items/{id}/send-to-approval [post]
func (h *WorkItemHandler) SendToApproval(c *gin.Context) {
	h.transition(c, h.lifecycle.SendToApproval)
}

// Approve godoc
// @Summary Approve a work item
// @Description Marks the latest revision approved and creates or refreshes the auto-created deliverable.
// @Tags WorkItems
// @Produce json
// @Param id path int true "Work item ID"
// @Success 200 {object} response.Envelope
// @Router /work-items/{id}/approve [post]
func (h *WorkItemHandler) Approve(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.lifecycle.Approve(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Reject godoc
// @Summary Reject a work item
// @Tags WorkItems
// @Produce json
// @Param id path int true "Work item ID"
// @Success 200 {object} response.Envelope
// @Router /work-items/{id}/reject [post]
func (h *WorkItemHandler) Reject(c *gin.Context) {
	h.transition(c, h.lifecycle.Reject)
}

// ResendToRevision godoc
// @Summary Send a work item back to revision
// @Tags WorkItems
// @Produce json
// @Param id path int true "Work item ID"
// @Success 200 {object} response.Envelope
// @Router /work-items/{id}/resend-to-revision [post]
func (h *WorkItemHandler) ResendToRevision(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	preview, err := h.lifecycle.ResendToRevision(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, preview, nil)
}

func (h *WorkItemHandler) transition(c *gin.Context, fn func(context.Context, int64) (*models.WorkItem, error)) {
	id, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	item, err := fn(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

type revisionService interface {
	List(ctx context.Context, filter models.RevisionFilter) ([]models.Revision, error)
}

// RevisionHandler lists revisions across work items.
type RevisionHandler struct {
	revisions revisionService
}

// NewRevisionHandler constructs the handler.
func NewRevisionHandler(revisions revisionService) *RevisionHandler {
	return &RevisionHandler{revisions: revisions}
}

// List godoc
// @Summary List revisions
// @Tags Revisions
// @Produce json
// @Param clientId query int false "Client filter"
// @Param workItemId query int false "Work item filter"
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /revisions [get]
func (h *RevisionHandler) List(c *gin.Context) {
	clientID, err := parseOptionalID(c, "clientId")
	if err != nil {
		response.Error(c, err)
		return
	}
	workItemID, err := parseOptionalID(c, "workItemId")
	if err != nil {
		response.Error(c, err)
		return
	}
	rng, err := parseDateRange(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	revisions, err := h.revisions.List(c.Request.Context(), models.RevisionFilter{ClientID: clientID, WorkItemID: workItemID, Range: rng})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, revisions, nil)
}
