package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/eczbabil/ajans-yonetim-sistemi/internal/dto"
	"github.com/eczbabil/ajans-yonetim-sistemi/internal/models"
	"github.com/eczbabil/ajans-yonetim-sistemi/pkg/response"
)

type deliverableService interface {
	List(ctx context.Context, filter models.DeliverableFilter) ([]models.Deliverable, error)
	Get(ctx context.Context, id int64) (*models.Deliverable, error)
	Create(ctx context.Context, req dto.DeliverableRequest) (*models.Deliverable, error)
	Update(ctx context.Context, id int64, req dto.DeliverableRequest) (*models.Deliverable, error)
	Delete(ctx context.Context, id int64) error
}

// DeliverableHandler exposes deliverable endpoints.
type DeliverableHandler struct {
	deliverables deliverableService
}

// NewDeliverableHandler constructs the handler.
func NewDeliverableHandler(deliverables deliverableService) *DeliverableHandler {
	return &DeliverableHandler{deliverables: deliverables}
}

// List godoc
// @Summary List deliverables
// @Tags Deliverables
// @Produce json
// @Param clientId query int false "Client filter"
// @Param workItemId query int false "Work item filter"
// @Param status query string false "Status filter"
// @Param from query string false "Delivery date from (YYYY-MM-DD)"
// @Param to query string false "Delivery date to (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /deliverables [get]
func (h *DeliverableHandler) List(c *gin.Context) {
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
	filter := models.DeliverableFilter{
		ClientID:   clientID,
		WorkItemID: workItemID,
		Status:     strings.TrimSpace(c.Query("status")),
		Range:      rng,
	}
	items, err := h.deliverables.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Create godoc
// @Summary Create deliverable
// @Tags Deliverables
// @Accept json
// @Produce json
// @Param payload body dto.DeliverableRequest true "Deliverable payload"
// @Success 201 {object} response.Envelope
// @Router /deliverables [post]
func (h *DeliverableHandler) Create(c *gin.Context) {
	var req dto.DeliverableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid deliverable payload"))
		return
	}
	item, err := h.deliverables.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// Get godoc
// @Summary Get deliverable
// @Tags Deliverables
// @Produce json
// @Param id path int true "Deliverable ID"
// @Success 200 {object} response.Envelope
// @Router /deliverables/{id} [get]
func (h *DeliverableHandler) Get(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	item, err := h.deliverables.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Update godoc
// @Summary Update deliverable
// @Tags Deliverables
// @Accept json
// @Produce json
// @Param id path int true "Deliverable ID"
// @Param payload body dto.DeliverableRequest true "Deliverable payload"
// @Success 200 {object} response.Envelope
// @Router /deliverables/{id} [put]
func (h *DeliverableHandler) Update(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.DeliverableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid deliverable payload"))
		return
	}
	item, err := h.deliverables.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Delete godoc
// @Summary Delete deliverable
// @Tags Deliverables
// @Param id path int true "Deliverable ID"
// @Success 204
// @Router /deliverables/{id} [delete]
func (h *DeliverableHandler) Delete(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.deliverables.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

type socialPostService interface {
	List(ctx context.Context, filter models.SocialPostFilter) ([]models.SocialPost, error)
	Get(ctx context.Context, id int64) (*models.SocialPost, error)
	Create(ctx context.Context, req dto.SocialPostRequest) (*models.SocialPost, error)
}

// SocialPostHandler exposes social post endpoints.
type SocialPostHandler struct {
	posts socialPostService
}

// NewSocialPostHandler constructs the handler.
func NewSocialPostHandler(posts socialPostService) *SocialPostHandler {
	return &SocialPostHandler{posts: posts}
}

// List godoc
// @Summary List social posts
// @Tags SocialPosts
// @Produce json
// @Param clientId query int false "Client filter"
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /social-posts [get]
func (h *SocialPostHandler) List(c *gin.Context) {
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
	posts, err := h.posts.List(c.Request.Context(), models.SocialPostFilter{ClientID: clientID, Range: rng})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, posts, nil)
}

// Create godoc
// @Summary Record a social post
// @Tags SocialPosts
// @Accept json
// @Produce json
// @Param payload body dto.SocialPostRequest true "Social post payload"
// @Success 201 {object} response.Envelope
// @Router /social-posts [post]
func (h *SocialPostHandler) Create(c *gin.Context) {
	var req dto.SocialPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid social post payload"))
		return
	}
	post, err := h.posts.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, post)
}

// Get godoc
// @Summary Get social post
// @Tags SocialPosts
// @Produce json
// @Param id path int true "Social post ID"
// @Success 200 {object} response.Envelope
// @Router /social-posts/{id} [get]
func (h *SocialPostHandler) Get(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	post, err := h.posts.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, post, nil)
}
