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

type workItemRepository interface {
	List(ctx context.Context, filter models.WorkItemFilter) ([]models.WorkItem, int, error)
	FindByID(ctx context.Context, exec sqlx.ExtContext, id int64) (*models.WorkItem, error)
	Create(ctx context.Context, exec sqlx.ExtContext, item *models.WorkItem) error
}

type clientReader interface {
	FindByID(ctx context.Context, exec sqlx.ExtContext, id int64) (*models.Client, error)
}

type workItemRevisionReader interface {
	ListByWorkItem(ctx context.Context, exec sqlx.ExtContext, workItemID int64) ([]models.Revision, error)
}

type linkedDeliverableReader interface {
	FindByWorkItem(ctx context.Context, exec sqlx.ExtContext, workItemID int64) (*models.Deliverable, error)
}

// WorkItemService logs work items and serves their detail projection.
type WorkItemService struct {
	repo         workItemRepository
	clients      clientReader
	revisions    workItemRevisionReader
	deliverables linkedDeliverableReader
	codes        *CodeGenerator
	validator    *validator.Validate
	logger       *zap.Logger
}

// NewWorkItemService constructs a WorkItemService.
func NewWorkItemService(repo workItemRepository, clients clientReader, revisions workItemRevisionReader, deliverables linkedDeliverableReader, codes *CodeGenerator, validate *validator.Validate, logger *zap.Logger) *WorkItemService {
	validate, logger = defaults(validate, logger)
	return &WorkItemService{
		repo:         repo,
		clients:      clients,
		revisions:    revisions,
		deliverables: deliverables,
		codes:        codes,
		validator:    validate,
		logger:       logger,
	}
}

// List returns a page of work items.
func (s *WorkItemService) List(ctx context.Context, filter models.WorkItemFilter) ([]models.WorkItem, *models.Pagination, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, internalError(err, "failed to list work items")
	}
	return items, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// Create logs a work item in Pending status under the client's next IS code.
func (s *WorkItemService) Create(ctx context.Context, req dto.WorkItemRequest) (*models.WorkItem, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid work item payload")
	}
	date, err := dto.ParseRequiredDate("date", req.Date)
	if err != nil {
		return nil, err
	}
	client, err := s.clients.FindByID(ctx, nil, req.ClientID)
	if err != nil {
		return nil, lookupError(err, "client", "load client")
	}

	item := &models.WorkItem{
		Date:            date,
		ClientID:        client.ID,
		Project:         strings.TrimSpace(req.Project),
		ActivityType:    strings.TrimSpace(req.ActivityType),
		Description:     req.Description,
		Owner:           strings.TrimSpace(req.Owner),
		DurationMinutes: req.DurationMinutes(),
		Tags:            strings.TrimSpace(req.Tags),
		Status:          models.WorkItemStatusPending,
	}
	err = s.codes.Allocate(ctx, nil, "work item", func() error {
		code, err := s.codes.NextWorkItemCode(ctx, nil, client)
		if err != nil {
			return err
		}
		item.Code = code
		return s.repo.Create(ctx, nil, item)
	})
	if err != nil {
		return nil, internalError(err, "failed to create work item")
	}
	s.logger.Sugar().Infow("work item created", "work_item_id", item.ID, "code", item.Code, "client_id", item.ClientID)
	return item, nil
}

// Detail returns a work item with its client, revisions and linked deliverable.
func (s *WorkItemService) Detail(ctx context.Context, id int64) (*dto.WorkItemDetail, error) {
	item, err := s.repo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, lookupError(err, "work item", "load work item")
	}
	detail := &dto.WorkItemDetail{
		WorkItem:     *item,
		DurationHour: item.DurationMinutes / 60,
		DurationMin:  item.DurationMinutes % 60,
	}
	client, err := s.clients.FindByID(ctx, nil, item.ClientID)
	if err != nil {
		return nil, lookupError(err, "client", "load client")
	}
	detail.ClientCode = client.Code
	detail.ClientName = client.Name

	revisions, err := s.revisions.ListByWorkItem(ctx, nil, id)
	if err != nil {
		return nil, internalError(err, "failed to load revisions")
	}
	if revisions == nil {
		revisions = []models.Revision{}
	}
	detail.Revisions = revisions

	deliverable, err := s.deliverables.FindByWorkItem(ctx, nil, id)
	if err != nil {
		return nil, internalError(err, "failed to load deliverable")
	}
	detail.Deliverable = deliverable
	return detail, nil
}
