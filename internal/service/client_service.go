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

type clientRepository interface {
	List(ctx context.Context, filter models.ClientFilter) ([]models.Client, int, error)
	FindByID(ctx context.Context, exec sqlx.ExtContext, id int64) (*models.Client, error)
	Create(ctx context.Context, exec sqlx.ExtContext, client *models.Client) error
	Update(ctx context.Context, client *models.Client) error
}

type clientDeliverableReader interface {
	ListSummariesByClient(ctx context.Context, clientID int64) ([]models.DeliverableSummary, error)
}

// ClientService manages agency clients.
type ClientService struct {
	repo         clientRepository
	deliverables clientDeliverableReader
	codes        *CodeGenerator
	validator    *validator.Validate
	logger       *zap.Logger
}

// NewClientService constructs a ClientService.
func NewClientService(repo clientRepository, deliverables clientDeliverableReader, codes *CodeGenerator, validate *validator.Validate, logger *zap.Logger) *ClientService {
	validate, logger = defaults(validate, logger)
	return &ClientService{repo: repo, deliverables: deliverables, codes: codes, validator: validate, logger: logger}
}

// List returns a page of clients.
func (s *ClientService) List(ctx context.Context, filter models.ClientFilter) ([]models.Client, *models.Pagination, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	filter.Search = strings.TrimSpace(filter.Search)
	clients, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, internalError(err, "failed to list clients")
	}
	return clients, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// Get returns a single client.
func (s *ClientService) Get(ctx context.Context, id int64) (*models.Client, error) {
	client, err := s.repo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, lookupError(err, "client", "load client")
	}
	return client, nil
}

// Create registers a client under the next free MST code.
func (s *ClientService) Create(ctx context.Context, req dto.ClientRequest) (*models.Client, error) {
	client, err := s.buildClient(req)
	if err != nil {
		return nil, err
	}
	if err := insertClient(ctx, nil, s.codes, s.repo, client); err != nil {
		return nil, internalError(err, "failed to create client")
	}
	s.logger.Sugar().Infow("client created", "client_id", client.ID, "code", client.Code)
	return client, nil
}

type clientInserter interface {
	Create(ctx context.Context, exec sqlx.ExtContext, client *models.Client) error
}

// insertClient allocates a code and stores client, retrying on code collisions.
func insertClient(ctx context.Context, exec sqlx.ExtContext, codes *CodeGenerator, repo clientInserter, client *models.Client) error {
	return codes.Allocate(ctx, exec, "client", func() error {
		code, err := codes.NextClientCode(ctx, exec)
		if err != nil {
			return err
		}
		client.Code = code
		return repo.Create(ctx, exec, client)
	})
}

// Update rewrites a client's editable fields. The code is kept.
func (s *ClientService) Update(ctx context.Context, id int64, req dto.ClientRequest) (*models.Client, error) {
	existing, err := s.repo.FindByID(ctx, nil, id)
	if err != nil {
		return nil, lookupError(err, "client", "load client")
	}
	client, err := s.buildClient(req)
	if err != nil {
		return nil, err
	}
	client.ID = existing.ID
	client.Code = existing.Code
	client.CreatedAt = existing.CreatedAt
	if err := s.repo.Update(ctx, client); err != nil {
		return nil, lookupError(err, "client", "update client")
	}
	return client, nil
}

// Deliverables lists the id, code, title and status of a client's deliverables.
func (s *ClientService) Deliverables(ctx context.Context, clientID int64) (*dto.ClientDeliverables, error) {
	if _, err := s.repo.FindByID(ctx, nil, clientID); err != nil {
		return nil, lookupError(err, "client", "load client")
	}
	items, err := s.deliverables.ListSummariesByClient(ctx, clientID)
	if err != nil {
		return nil, internalError(err, "failed to list deliverables")
	}
	if items == nil {
		items = []models.DeliverableSummary{}
	}
	return &dto.ClientDeliverables{ClientID: clientID, Deliverables: items}, nil
}

func (s *ClientService) buildClient(req dto.ClientRequest) (*models.Client, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid client payload")
	}
	contractStart, err := dto.ParseDate("contract_start", req.ContractStart)
	if err != nil {
		return nil, err
	}
	return &models.Client{
		Name:          req.Name,
		Sector:        strings.TrimSpace(req.Sector),
		ContractStart: contractStart,
		MonthlyFee:    req.MonthlyFee,
		ContactPerson: strings.TrimSpace(req.ContactPerson),
		Phone:         strings.TrimSpace(req.Phone),
		Email:         req.Email,
		Notes:         req.Notes,
	}, nil
}
