package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/eczbabil/ajans-yonetim-sistemi/internal/models"
	appErrors "github.com/eczbabil/ajans-yonetim-sistemi/pkg/errors"
)

// transactor runs fn inside a single database transaction.
type transactor interface {
	WithinTx(ctx context.Context, fn func(tx sqlx.ExtContext) error) error
}

type workItemLookup interface {
	FindByID(ctx context.Context, exec sqlx.ExtContext, id int64) (*models.WorkItem, error)
}

// checkWorkItemLink verifies that an optional work item link exists and belongs to clientID.
func checkWorkItemLink(ctx context.Context, items workItemLookup, clientID int64, workItemID *int64) error {
	if workItemID == nil {
		return nil
	}
	item, err := items.FindByID(ctx, nil, *workItemID)
	if err != nil {
		return lookupError(err, "work item", "load work item")
	}
	if item.ClientID != clientID {
		return appErrors.Validation("work_item_id", "belongs to another client")
	}
	return nil
}

func defaults(validate *validator.Validate, logger *zap.Logger) (*validator.Validate, *zap.Logger) {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return validate, logger
}

// internalError wraps err as an internal error unless it already carries an application error.
func internalError(err error, message string) error {
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}

// lookupError maps a missing row to NotFound and anything else to an internal error.
func lookupError(err error, entity, action string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, entity+" not found")
	}
	return internalError(err, "failed to "+action)
}

func validationError(err error, message string) error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
}

func today(now func() time.Time) time.Time {
	t := now()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
