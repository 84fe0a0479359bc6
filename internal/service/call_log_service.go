package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/eczbabil/ajans-yonetim-sistemi/internal/dto"
	"github.com/eczbabil/ajans-yonetim-sistemi/internal/models"
	appErrors "github.com/eczbabil/ajans-yonetim-sistemi/pkg/errors"
)

type callLogRepository interface {
	List(ctx context.Context, filter models.CallLogFilter) ([]models.CallLog, error)
	ListFollowUpsDue(ctx context.Context, today time.Time) ([]models.CallLog, error)
	FindByID(ctx context.Context, id int64) (*models.CallLog, error)
	Create(ctx context.Context, log *models.CallLog) error
	Update(ctx context.Context, log *models.CallLog) error
	Delete(ctx context.Context, id int64) error
}

// CallLogService tracks client calls and their follow-ups.
type CallLogService struct {
	repo      callLogRepository
	clients   clientReader
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewCallLogService constructs a CallLogService.
func NewCallLogService(repo callLogRepository, clients clientReader, validate *validator.Validate, logger *zap.Logger) *CallLogService {
	validate, logger = defaults(validate, logger)
	return &CallLogService{repo: repo, clients: clients, validator: validate, logger: logger, now: time.Now}
}

// List returns call logs matching filter.
func (s *CallLogService) List(ctx context.Context, filter models.CallLogFilter) ([]models.CallLog, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, appErrors.Validation("status", "must be pending, done or cancelled")
	}
	logs, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, internalError(err, "failed to list call logs")
	}
	if logs == nil {
		logs = []models.CallLog{}
	}
	return logs, nil
}

// FollowUpsDue lists pending calls whose follow-up date has arrived.
func (s *CallLogService) FollowUpsDue(ctx context.Context) ([]models.CallLog, error) {
	logs, err := s.repo.ListFollowUpsDue(ctx, today(s.now))
	if err != nil {
		return nil, internalError(err, "failed to list follow-ups")
	}
	if logs == nil {
		logs = []models.CallLog{}
	}
	return logs, nil
}

// Get returns one call log.
func (s *CallLogService) Get(ctx context.Context, id int64) (*models.CallLog, error) {
	log, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "call log", "load call log")
	}
	return log, nil
}

// Create logs a call. It starts pending when a follow-up date is set and done otherwise.
func (s *CallLogService) Create(ctx context.Context, req dto.CallLogRequest) (*models.CallLog, error) {
	log := &models.CallLog{}
	if err := s.apply(ctx, log, req); err != nil {
		return nil, err
	}
	log.Status = models.CallLogStatusDone
	if log.FollowUpDate != nil {
		log.Status = models.CallLogStatusPending
	}
	if err := s.repo.Create(ctx, log); err != nil {
		return nil, internalError(err, "failed to create call log")
	}
	return log, nil
}

// Update edits a call log. An empty status keeps the current one.
func (s *CallLogService) Update(ctx context.Context, id int64, req dto.CallLogRequest) (*models.CallLog, error) {
	log, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "call log", "load call log")
	}
	if err := s.apply(ctx, log, req); err != nil {
		return nil, err
	}
	if req.Status != "" {
		log.Status = models.CallLogStatus(req.Status)
	}
	if err := s.repo.Update(ctx, log); err != nil {
		return nil, lookupError(err, "call log", "update call log")
	}
	return log, nil
}

// Delete removes a call log.
func (s *CallLogService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return lookupError(err, "call log", "delete call log")
	}
	return nil
}

func (s *CallLogService) apply(ctx context.Context, log *models.CallLog, req dto.CallLogRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return validationError(err, "invalid call log payload")
	}
	date, err := dto.ParseRequiredDate("date", req.Date)
	if err != nil {
		return err
	}
	followUp, err := dto.ParseDate("follow_up_date", req.FollowUpDate)
	if err != nil {
		return err
	}
	if _, err := s.clients.FindByID(ctx, nil, req.ClientID); err != nil {
		return lookupError(err, "client", "load client")
	}
	log.Date = date
	log.ClientID = req.ClientID
	log.Counterpart = strings.TrimSpace(req.Counterpart)
	log.Subject = strings.TrimSpace(req.Subject)
	log.Outcome = req.Outcome
	log.Owner = strings.TrimSpace(req.Owner)
	log.Notes = req.Notes
	log.FollowUpDate = followUp
	return nil
}
