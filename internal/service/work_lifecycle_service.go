package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/eczbabil/ajans-yonetim-sistemi/internal/dto"
	"github.com/eczbabil/ajans-yonetim-sistemi/internal/models"
)

type lifecycleWorkItemStore interface {
	LockByID(ctx context.Context, exec sqlx.ExtContext, id int64) (*models.WorkItem, error)
	Update(ctx context.Context, exec sqlx.ExtContext, item *models.WorkItem) error
	UpdateStatus(ctx context.Context, exec sqlx.ExtContext, id int64, status models.WorkItemStatus) error
	IncrementRevisionCount(ctx context.Context, exec sqlx.ExtContext, id int64) (int, error)
}

type lifecycleRevisionStore interface {
	Create(ctx context.Context, exec sqlx.ExtContext, revision *models.Revision) error
	Latest(ctx context.Context, exec sqlx.ExtContext, workItemID int64) (*models.Revision, error)
	UpdateStatus(ctx context.Context, exec sqlx.ExtContext, id int64, status models.RevisionStatus) error
	SyncWithWorkItem(ctx context.Context, exec sqlx.ExtContext, workItemID, clientID int64, date time.Time) error
}

type lifecycleDeliverableStore interface {
	FindByWorkItem(ctx context.Context, exec sqlx.ExtContext, workItemID int64) (*models.Deliverable, error)
	FindAutoCreated(ctx context.Context, exec sqlx.ExtContext, workItemID int64) (*models.Deliverable, error)
	Create(ctx context.Context, exec sqlx.ExtContext, item *models.Deliverable) error
	SyncWithWorkItem(ctx context.Context, exec sqlx.ExtContext, id int64, title, project, owner string, createdOn time.Time) error
}

// WorkLifecycleService moves work items through revision and approval. Every operation runs in
// one transaction with the work item row locked.
type WorkLifecycleService struct {
	tx           transactor
	workItems    lifecycleWorkItemStore
	revisions    lifecycleRevisionStore
	deliverables lifecycleDeliverableStore
	clients      clientReader
	codes        *CodeGenerator
	validator    *validator.Validate
	logger       *zap.Logger
	now          func() time.Time
}

// NewWorkLifecycleService constructs the lifecycle engine.
func NewWorkLifecycleService(tx transactor, workItems lifecycleWorkItemStore, revisions lifecycleRevisionStore, deliverables lifecycleDeliverableStore, clients clientReader, codes *CodeGenerator, validate *validator.Validate, logger *zap.Logger) *WorkLifecycleService {
	validate, logger = defaults(validate, logger)
	return &WorkLifecycleService{
		tx:           tx,
		workItems:    workItems,
		revisions:    revisions,
		deliverables: deliverables,
		clients:      clients,
		codes:        codes,
		validator:    validate,
		logger:       logger,
		now:          time.Now,
	}
}

// SubmitRevision records a new client revision request against a work item.
func (s *WorkLifecycleService) SubmitRevision(ctx context.Context, id int64, req dto.RevisionRequest) (*models.Revision, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid revision payload")
	}
	date, err := dto.ParseDate("date", req.Date)
	if err != nil {
		return nil, err
	}
	if date == nil {
		d := today(s.now)
		date = &d
	}

	var revision *models.Revision
	_, err = s.transition(ctx, id, "submit revision", func(tx sqlx.ExtContext, item *models.WorkItem) error {
		count, err := s.workItems.IncrementRevisionCount(ctx, tx, item.ID)
		if err != nil {
			return err
		}
		if err := s.workItems.UpdateStatus(ctx, tx, item.ID, models.WorkItemStatusInRevision); err != nil {
			return err
		}
		if err := s.markLatest(ctx, tx, item.ID, models.RevisionStatusReturnedForRevision); err != nil {
			return err
		}
		workItemID := item.ID
		revision = &models.Revision{
			Date:           *date,
			ClientID:       item.ClientID,
			WorkItemID:     &workItemID,
			RevisionNumber: count,
			Title:          models.RevisionTitle(count),
			RequestedBy:    strings.TrimSpace(req.RequestedBy),
			Subject:        req.Subject,
			Status:         models.RevisionStatusPending,
		}
		return s.revisions.Create(ctx, tx, revision)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Sugar().Infow("revision submitted", "work_item_id", id, "revision_number", revision.RevisionNumber)
	return revision, nil
}

// SendToApproval marks a work item as awaiting client approval.
func (s *WorkLifecycleService) SendToApproval(ctx context.Context, id int64) (*models.WorkItem, error) {
	return s.transition(ctx, id, "send work item to approval", func(tx sqlx.ExtContext, item *models.WorkItem) error {
		item.Status = models.WorkItemStatusApprovalRequested
		return s.workItems.UpdateStatus(ctx, tx, item.ID, item.Status)
	})
}

// Approve approves a work item and its latest revision, and creates the work item's
// deliverable unless one was already created by an earlier approval.
func (s *WorkLifecycleService) Approve(ctx context.Context, id int64) (*dto.ApprovalResult, error) {
	result := &dto.ApprovalResult{}
	item, err := s.transition(ctx, id, "approve work item", func(tx sqlx.ExtContext, item *models.WorkItem) error {
		item.Status = models.WorkItemStatusApproved
		if err := s.workItems.UpdateStatus(ctx, tx, item.ID, item.Status); err != nil {
			return err
		}
		if err := s.markLatest(ctx, tx, item.ID, models.RevisionStatusApproved); err != nil {
			return err
		}
		existing, err := s.deliverables.FindAutoCreated(ctx, tx, item.ID)
		if err != nil {
			return err
		}
		if existing != nil {
			result.Deliverable = existing
			return nil
		}
		deliverable, err := s.createDeliverable(ctx, tx, item)
		if err != nil {
			return err
		}
		result.Deliverable = deliverable
		result.Created = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	result.WorkItem = item
	s.logger.Sugar().Infow("work item approved", "work_item_id", id, "deliverable_code", result.Deliverable.Code, "deliverable_created", result.Created)
	return result, nil
}

// Reject rejects a work item and its latest revision.
func (s *WorkLifecycleService) Reject(ctx context.Context, id int64) (*models.WorkItem, error) {
	return s.transition(ctx, id, "reject work item", func(tx sqlx.ExtContext, item *models.WorkItem) error {
		item.Status = models.WorkItemStatusRejected
		if err := s.workItems.UpdateStatus(ctx, tx, item.ID, item.Status); err != nil {
			return err
		}
		return s.markLatest(ctx, tx, item.ID, models.RevisionStatusRejected)
	})
}

// ResendToRevision sends a work item back to revision without inserting a revision. The
// preview carries the number the next submitted revision will get.
func (s *WorkLifecycleService) ResendToRevision(ctx context.Context, id int64) (*dto.ResendPreview, error) {
	item, err := s.transition(ctx, id, "resend work item to revision", func(tx sqlx.ExtContext, item *models.WorkItem) error {
		item.Status = models.WorkItemStatusInRevision
		if err := s.workItems.UpdateStatus(ctx, tx, item.ID, item.Status); err != nil {
			return err
		}
		return s.markLatest(ctx, tx, item.ID, models.RevisionStatusSentBackToRevision)
	})
	if err != nil {
		return nil, err
	}
	return &dto.ResendPreview{
		WorkItemID:     item.ID,
		WorkItemCode:   item.Code,
		RevisionNumber: item.RevisionCount + 1,
		Message:        fmt.Sprintf("%s sent back to revision", item.Code),
	}, nil
}

// Edit rewrites a work item and carries client and date onto its revisions and title, project,
// owner and date onto its linked deliverable. A failure at any step leaves everything unchanged.
func (s *WorkLifecycleService) Edit(ctx context.Context, id int64, req dto.WorkItemRequest) (*models.WorkItem, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid work item payload")
	}
	date, err := dto.ParseRequiredDate("date", req.Date)
	if err != nil {
		return nil, err
	}
	item, err := s.transition(ctx, id, "edit work item", func(tx sqlx.ExtContext, item *models.WorkItem) error {
		if _, err := s.clients.FindByID(ctx, tx, req.ClientID); err != nil {
			return lookupError(err, "client", "load client")
		}
		item.ClientID = req.ClientID
		item.Date = date
		item.Project = strings.TrimSpace(req.Project)
		item.ActivityType = strings.TrimSpace(req.ActivityType)
		item.Description = req.Description
		item.Owner = strings.TrimSpace(req.Owner)
		item.DurationMinutes = req.DurationMinutes()
		item.Tags = strings.TrimSpace(req.Tags)
		if err := s.workItems.Update(ctx, tx, item); err != nil {
			return err
		}
		if err := s.revisions.SyncWithWorkItem(ctx, tx, item.ID, item.ClientID, item.Date); err != nil {
			return err
		}
		deliverable, err := s.deliverables.FindByWorkItem(ctx, tx, item.ID)
		if err != nil {
			return err
		}
		if deliverable == nil {
			return nil
		}
		return s.deliverables.SyncWithWorkItem(ctx, tx, deliverable.ID, deliverableTitle(item), item.Project, item.Owner, item.Date)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Sugar().Infow("work item edited", "work_item_id", id)
	return item, nil
}

// transition locks the work item and runs fn in one transaction.
func (s *WorkLifecycleService) transition(ctx context.Context, id int64, action string, fn func(tx sqlx.ExtContext, item *models.WorkItem) error) (*models.WorkItem, error) {
	var locked *models.WorkItem
	err := s.tx.WithinTx(ctx, func(tx sqlx.ExtContext) error {
		item, err := s.workItems.LockByID(ctx, tx, id)
		if err != nil {
			return lookupError(err, "work item", "load work item")
		}
		if err := fn(tx, item); err != nil {
			return err
		}
		locked = item
		return nil
	})
	if err != nil {
		return nil, internalError(err, "failed to "+action)
	}
	return locked, nil
}

// latestRevision returns the work item's highest-numbered revision, or nil when it has none.
func (s *WorkLifecycleService) latestRevision(ctx context.Context, tx sqlx.ExtContext, workItemID int64) (*models.Revision, error) {
	return s.revisions.Latest(ctx, tx, workItemID)
}

func (s *WorkLifecycleService) markLatest(ctx context.Context, tx sqlx.ExtContext, workItemID int64, status models.RevisionStatus) error {
	latest, err := s.latestRevision(ctx, tx, workItemID)
	if err != nil || latest == nil {
		return err
	}
	return s.revisions.UpdateStatus(ctx, tx, latest.ID, status)
}

func (s *WorkLifecycleService) createDeliverable(ctx context.Context, tx sqlx.ExtContext, item *models.WorkItem) (*models.Deliverable, error) {
	client, err := s.clients.FindByID(ctx, tx, item.ClientID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	workItemID := item.ID
	createdOn := item.Date
	deliveryDate := today(s.now)
	deliverable := &models.Deliverable{
		ClientID:     item.ClientID,
		WorkItemID:   &workItemID,
		AutoCreated:  true,
		ActivityType: item.ActivityType,
		Project:      item.Project,
		Title:        deliverableTitle(item),
		Owner:        item.Owner,
		CreatedOn:    &createdOn,
		DeliveryDate: &deliveryDate,
		Status:       models.DeliverableStatusPreparing,
		Description:  fmt.Sprintf("Work code: %s - created automatically", item.Code),
	}
	err = s.codes.Allocate(ctx, tx, "deliverable", func() error {
		code, err := s.codes.NextDeliverableCode(ctx, tx, client)
		if err != nil {
			return err
		}
		deliverable.Code = code
		return s.deliverables.Create(ctx, tx, deliverable)
	})
	if err != nil {
		return nil, err
	}
	return deliverable, nil
}

// deliverableTitleMax is the width of deliverables.title.
const deliverableTitleMax = 100

// deliverableTitle is the description of a work item, or its project when the description is empty,
// cut to deliverableTitleMax characters.
func deliverableTitle(item *models.WorkItem) string {
	title := strings.TrimSpace(item.Description)
	if title == "" {
		title = item.Project
	}
	return clipRunes(title, deliverableTitleMax)
}

// clipRunes keeps at most limit characters of s without splitting a multi-byte character.
func clipRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return strings.TrimSpace(string(runes[:limit]))
}
