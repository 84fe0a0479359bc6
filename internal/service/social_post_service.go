package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/eczbabil/ajans-yonetim-sistemi/internal/dto"
	"github.com/eczbabil/ajans-yonetim-sistemi/internal/models"
)

type socialPostRepository interface {
	List(ctx context.Context, filter models.SocialPostFilter) ([]models.SocialPost, error)
	FindByID(ctx context.Context, id int64) (*models.SocialPost, error)
	Create(ctx context.Context, post *models.SocialPost) error
}

// SocialPostService records published social media content.
type SocialPostService struct {
	repo      socialPostRepository
	clients   clientReader
	workItems workItemLookup
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSocialPostService constructs a SocialPostService.
func NewSocialPostService(repo socialPostRepository, clients clientReader, workItems workItemLookup, validate *validator.Validate, logger *zap.Logger) *SocialPostService {
	validate, logger = defaults(validate, logger)
	return &SocialPostService{repo: repo, clients: clients, workItems: workItems, validator: validate, logger: logger}
}

// List returns social posts matching filter.
func (s *SocialPostService) List(ctx context.Context, filter models.SocialPostFilter) ([]models.SocialPost, error) {
	posts, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, internalError(err, "failed to list social posts")
	}
	if posts == nil {
		posts = []models.SocialPost{}
	}
	return posts, nil
}

// Get returns one social post.
func (s *SocialPostService) Get(ctx context.Context, id int64) (*models.SocialPost, error) {
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "social post", "load social post")
	}
	return post, nil
}

// Create records a post, optionally linked to a work item.
func (s *SocialPostService) Create(ctx context.Context, req dto.SocialPostRequest) (*models.SocialPost, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid social post payload")
	}
	date, err := dto.ParseRequiredDate("date", req.Date)
	if err != nil {
		return nil, err
	}
	if _, err := s.clients.FindByID(ctx, nil, req.ClientID); err != nil {
		return nil, lookupError(err, "client", "load client")
	}
	workItemID := dto.OptionalID(req.WorkItemID)
	if err := checkWorkItemLink(ctx, s.workItems, req.ClientID, workItemID); err != nil {
		return nil, err
	}
	post := &models.SocialPost{
		Date:         date,
		ClientID:     req.ClientID,
		WorkItemID:   workItemID,
		Platform:     strings.TrimSpace(req.Platform),
		ContentTitle: strings.TrimSpace(req.ContentTitle),
		PostType:     strings.TrimSpace(req.PostType),
		Engagement:   req.Engagement,
		Impressions:  req.Impressions,
		Likes:        req.Likes,
		Comments:     req.Comments,
		Shares:       req.Shares,
		Status:       strings.TrimSpace(req.Status),
	}
	if err := s.repo.Create(ctx, post); err != nil {
		return nil, internalError(err, "failed to create social post")
	}
	return post, nil
}
