package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eczbabil/ajans-yonetim-sistemi/internal/dto"
	"github.com/eczbabil/ajans-yonetim-sistemi/internal/models"
	appErrors "github.com/eczbabil/ajans-yonetim-sistemi/pkg/errors"
)

type deliverableServiceMock struct {
	lastFilter models.DeliverableFilter
	lastReq    dto.DeliverableRequest
	deleted    []int64
	err        error
}

func (m *deliverableServiceMock) List(ctx context.Context, filter models.DeliverableFilter) ([]models.Deliverable, error) {
	m.lastFilter = filter
	return []models.Deliverable{{ID: 1, Title: "Banner"}}, m.err
}

func (m *deliverableServiceMock) Get(ctx context.Context, id int64) (*models.Deliverable, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &models.Deliverable{ID: id}, nil
}

func (m *deliverableServiceMock) Create(ctx context.Context, req dto.DeliverableRequest) (*models.Deliverable, error) {
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	return &models.Deliverable{ID: 2, Code: "TSLMST001002", Title: req.Title}, nil
}

func (m *deliverableServiceMock) Update(ctx context.Context, id int64, req dto.DeliverableRequest) (*models.Deliverable, error) {
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	return &models.Deliverable{ID: id, Title: req.Title}, nil
}

func (m *deliverableServiceMock) Delete(ctx context.Context, id int64) error {
	if m.err != nil {
		return m.err
	}
	m.deleted = append(m.deleted, id)
	return nil
}

func TestDeliverableHandlerRoutes(t *testing.T) {
	svc := &deliverableServiceMock{}
	h := NewDeliverableHandler(svc)
	router := newTestRouter()
	router.GET("/deliverables", h.List)
	router.POST("/deliverables", h.Create)
	router.GET("/deliverables/:id", h.Get)
	router.PUT("/deliverables/:id", h.Update)
	router.DELETE("/deliverables/:id", h.Delete)

	w := performRequest(router, http.MethodGet, "/deliverables?clientId=2&status=Approved&to=2025-03-31", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.lastFilter.ClientID)
	assert.Equal(t, int64(2), *svc.lastFilter.ClientID)
	assert.Equal(t, models.DeliverableStatusApproved, svc.lastFilter.Status)
	assert.Nil(t, svc.lastFilter.Range.From)

	w = performRequest(router, http.MethodPost, "/deliverables", jsonBody(t, dto.DeliverableRequest{ClientID: 1, Title: "Reel", DeliveryType: "social", Likes: 4}))
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 4, svc.lastReq.Likes)

	w = performRequest(router, http.MethodPut, "/deliverables/2", jsonBody(t, dto.DeliverableRequest{ClientID: 1, Title: "Reel v2"}))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Reel v2", svc.lastReq.Title)

	w = performRequest(router, http.MethodDelete, "/deliverables/2", nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []int64{2}, svc.deleted)
	assert.Empty(t, w.Body.String())
}

func TestDeliverableHandlerErrors(t *testing.T) {
	svc := &deliverableServiceMock{err: appErrors.Clone(appErrors.ErrNotFound, "deliverable not found")}
	h := NewDeliverableHandler(svc)
	router := newTestRouter()
	router.GET("/deliverables/:id", h.Get)
	router.PUT("/deliverables/:id", h.Update)
	router.DELETE("/deliverables/:id", h.Delete)

	w := performRequest(router, http.MethodGet, "/deliverables/5", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = performRequest(router, http.MethodDelete, "/deliverables/5", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = performRequest(router, http.MethodPut, "/deliverables/5", stringsReader(`{"title": 5}`))
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, appErrors.ErrValidation.Code, decodeEnvelope(t, w).Error.Code)
}

type socialPostServiceMock struct {
	lastFilter models.SocialPostFilter
	lastReq    dto.SocialPostRequest
}

func (m *socialPostServiceMock) List(ctx context.Context, filter models.SocialPostFilter) ([]models.SocialPost, error) {
	m.lastFilter = filter
	return []models.SocialPost{}, nil
}

func (m *socialPostServiceMock) Get(ctx context.Context, id int64) (*models.SocialPost, error) {
	if id == 404 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "social post not found")
	}
	return &models.SocialPost{ID: id, Platform: "Instagram"}, nil
}

func (m *socialPostServiceMock) Create(ctx context.Context, req dto.SocialPostRequest) (*models.SocialPost, error) {
	m.lastReq = req
	return &models.SocialPost{ID: 1, Platform: req.Platform, PostType: req.PostType}, nil
}

func TestSocialPostHandlerRoutes(t *testing.T) {
	svc := &socialPostServiceMock{}
	h := NewSocialPostHandler(svc)
	router := newTestRouter()
	router.GET("/social-posts", h.List)
	router.POST("/social-posts", h.Create)
	router.GET("/social-posts/:id", h.Get)

	w := performRequest(router, http.MethodGet, "/social-posts?clientId=3&from=2025-03-01", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.lastFilter.ClientID)
	assert.Equal(t, "2025-03-01", svc.lastFilter.Range.From.Format("2006-01-02"))

	w = performRequest(router, http.MethodPost, "/social-posts", jsonBody(t, dto.SocialPostRequest{Date: "2025-03-02", ClientID: 3, Platform: "TikTok", PostType: models.PostTypeReels}))
	require.Equal(t, http.StatusCreated, w.Code)
	var post models.SocialPost
	decodeData(t, w, &post)
	assert.Equal(t, "TikTok", post.Platform)

	w = performRequest(router, http.MethodGet, "/social-posts/404", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}
