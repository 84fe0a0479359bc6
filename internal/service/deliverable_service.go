package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/eczbabil/ajans-yonetim-sistemi/internal/dto"
	"github.com/eczbabil/ajans-yonetim-sistemi/internal/models"
)

type deliverableRepository interface {
	List(ctx context.Context, filter models.DeliverableFilter) ([]models.Deliverable, error)
	FindByID(ctx context.Context, id int64) (*models.Deliverable, error)
	Create(ctx context.Context, exec sqlx.ExtContext, item *models.Deliverable) error
	Update(ctx context.Context, exec sqlx.ExtContext, item *models.Deliverable) error
	Delete(ctx context.Context, id int64) error
}

// DeliverableService manages deliverables entered by hand.
type DeliverableService struct {
	repo      deliverableRepository
	clients   clientReader
	workItems workItemLookup
	codes     *CodeGenerator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewDeliverableService constructs a DeliverableService.
func NewDeliverableService(repo deliverableRepository, clients clientReader, workItems workItemLookup, codes *CodeGenerator, validate *validator.Validate, logger *zap.Logger) *DeliverableService {
	validate, logger = defaults(validate, logger)
	return &DeliverableService{repo: repo, clients: clients, workItems: workItems, codes: codes, validator: validate, logger: logger}
}

// List returns deliverables matching filter.
func (s *DeliverableService) List(ctx context.Context, filter models.DeliverableFilter) ([]models.Deliverable, error) {
	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, internalError(err, "failed to list deliverables")
	}
	if items == nil {
		items = []models.Deliverable{}
	}
	return items, nil
}

// Get returns one deliverable.
func (s *DeliverableService) Get(ctx context.Context, id int64) (*models.Deliverable, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "deliverable", "load deliverable")
	}
	return item, nil
}

// Create stores a manual deliverable under the client's next TSL code.
func (s *DeliverableService) Create(ctx context.Context, req dto.DeliverableRequest) (*models.Deliverable, error) {
	item := &models.Deliverable{}
	if err := s.apply(item, req); err != nil {
		return nil, err
	}
	client, err := s.clients.FindByID(ctx, nil, item.ClientID)
	if err != nil {
		return nil, lookupError(err, "client", "load client")
	}
	if err := checkWorkItemLink(ctx, s.workItems, item.ClientID, item.WorkItemID); err != nil {
		return nil, err
	}
	err = s.codes.Allocate(ctx, nil, "deliverable", func() error {
		code, err := s.codes.NextDeliverableCode(ctx, nil, client)
		if err != nil {
			return err
		}
		item.Code = code
		return s.repo.Create(ctx, nil, item)
	})
	if err != nil {
		return nil, internalError(err, "failed to create deliverable")
	}
	s.logger.Sugar().Infow("deliverable created", "deliverable_id", item.ID, "code", item.Code)
	return item, nil
}

// Update edits a deliverable. Switching away from a social delivery type clears the social block.
func (s *DeliverableService) Update(ctx context.Context, id int64, req dto.DeliverableRequest) (*models.Deliverable, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "deliverable", "load deliverable")
	}
	if err := s.apply(item, req); err != nil {
		return nil, err
	}
	if _, err := s.clients.FindByID(ctx, nil, item.ClientID); err != nil {
		return nil, lookupError(err, "client", "load client")
	}
	if err := checkWorkItemLink(ctx, s.workItems, item.ClientID, item.WorkItemID); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, nil, item); err != nil {
		return nil, lookupError(err, "deliverable", "update deliverable")
	}
	return item, nil
}

// Delete removes a deliverable.
func (s *DeliverableService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return lookupError(err, "deliverable", "delete deliverable")
	}
	s.logger.Sugar().Infow("deliverable deleted", "deliverable_id", id)
	return nil
}

// apply copies the request onto item. The work item link is only taken on create.
func (s *DeliverableService) apply(item *models.Deliverable, req dto.DeliverableRequest) error {
	req.Title = strings.TrimSpace(req.Title)
	if err := s.validator.Struct(req); err != nil {
		return validationError(err, "invalid deliverable payload")
	}
	createdOn, err := dto.ParseDate("created_on", req.CreatedOn)
	if err != nil {
		return err
	}
	deliveryDate, err := dto.ParseDate("delivery_date", req.DeliveryDate)
	if err != nil {
		return err
	}
	if item.ID == 0 {
		item.WorkItemID = dto.OptionalID(req.WorkItemID)
	}
	item.ClientID = req.ClientID
	item.ActivityType = strings.TrimSpace(req.ActivityType)
	item.Project = strings.TrimSpace(req.Project)
	item.DeliveryType = req.DeliveryType
	item.Title = req.Title
	item.Owner = strings.TrimSpace(req.Owner)
	item.CreatedOn = createdOn
	item.DeliveryDate = deliveryDate
	item.Status = strings.TrimSpace(req.Status)
	if item.Status == "" {
		item.Status = models.DeliverableStatusPreparing
	}
	item.Description = req.Description
	item.ApplySocial(models.SocialMetrics{
		Platform:    strings.TrimSpace(req.Platform),
		PostType:    strings.TrimSpace(req.PostType),
		Engagement:  req.Engagement,
		Impressions: req.Impressions,
		Likes:       req.Likes,
		Comments:    req.Comments,
		Shares:      req.Shares,
	})
	return nil
}
