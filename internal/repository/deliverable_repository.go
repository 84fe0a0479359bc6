package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/eczbabil/ajans-yonetim-sistemi/internal/models"
)

const deliverableColumns = `id, code, client_id, work_item_id, auto_created, activity_type, project, delivery_type, title, owner,
created_on, delivery_date, status, description, platform, post_type, engagement, impressions, likes, comments, shares, created_at, updated_at`

// DeliverableRepository manages persistence for deliverables.
type DeliverableRepository struct {
	db *sqlx.DB
}

// NewDeliverableRepository constructs a DeliverableRepository.
func NewDeliverableRepository(db *sqlx.DB) *DeliverableRepository {
	return &DeliverableRepository{db: db}
}

func (r *DeliverableRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// List returns deliverables matching the filter, most recent delivery first.
func (r *DeliverableRepository) List(ctx context.Context, filter models.DeliverableFilter) ([]models.Deliverable, error) {
	var conds conditions
	conds.addClient("client_id", filter.ClientID)
	if filter.WorkItemID != nil {
		conds.add("work_item_id = $%d", *filter.WorkItemID)
	}
	if filter.Status != "" {
		conds.add("status = $%d", filter.Status)
	}
	conds.addRange("delivery_date", filter.Range)
	var items []models.Deliverable
	query := "SELECT " + deliverableColumns + " FROM deliverables" + conds.where() + " ORDER BY delivery_date DESC NULLS LAST, id DESC"
	if err := sqlx.SelectContext(ctx, r.db, &items, query, conds.args...); err != nil {
		return nil, fmt.Errorf("list deliverables: %w", err)
	}
	return items, nil
}

// ListAll returns every deliverable ordered by id.
func (r *DeliverableRepository) ListAll(ctx context.Context) ([]models.Deliverable, error) {
	var items []models.Deliverable
	if err := sqlx.SelectContext(ctx, r.db, &items, "SELECT "+deliverableColumns+" FROM deliverables ORDER BY id"); err != nil {
		return nil, fmt.Errorf("list all deliverables: %w", err)
	}
	return items, nil
}

// ListSummariesByClient returns the id, code, title and status of a client's deliverables.
func (r *DeliverableRepository) ListSummariesByClient(ctx context.Context, clientID int64) ([]models.DeliverableSummary, error) {
	var items []models.DeliverableSummary
	const query = `SELECT id, code, title, status FROM deliverables WHERE client_id = $1 ORDER BY id DESC`
	if err := sqlx.SelectContext(ctx, r.db, &items, query, clientID); err != nil {
		return nil, fmt.Errorf("list client deliverables: %w", err)
	}
	return items, nil
}

// FindByID fetches a deliverable. Missing rows surface as sql.ErrNoRows.
func (r *DeliverableRepository) FindByID(ctx context.Context, id int64) (*models.Deliverable, error) {
	var item models.Deliverable
	if err := sqlx.GetContext(ctx, r.db, &item, "SELECT "+deliverableColumns+" FROM deliverables WHERE id = $1", id); err != nil {
		return nil, err
	}
	return &item, nil
}

// FindByWorkItem returns the first deliverable linked to a work item, or nil.
func (r *DeliverableRepository) FindByWorkItem(ctx context.Context, exec sqlx.ExtContext, workItemID int64) (*models.Deliverable, error) {
	return r.findOne(ctx, exec, "SELECT "+deliverableColumns+" FROM deliverables WHERE work_item_id = $1 ORDER BY id LIMIT 1", workItemID)
}

// FindAutoCreated returns the deliverable approval created for a work item, or nil.
func (r *DeliverableRepository) FindAutoCreated(ctx context.Context, exec sqlx.ExtContext, workItemID int64) (*models.Deliverable, error) {
	return r.findOne(ctx, exec, "SELECT "+deliverableColumns+" FROM deliverables WHERE work_item_id = $1 AND auto_created LIMIT 1", workItemID)
}

func (r *DeliverableRepository) findOne(ctx context.Context, exec sqlx.ExtContext, query string, args ...interface{}) (*models.Deliverable, error) {
	var item models.Deliverable
	if err := sqlx.GetContext(ctx, r.exec(exec), &item, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find deliverable: %w", err)
	}
	return &item, nil
}

// LastCodeForClient returns the code of the client's most recent deliverable, or "".
func (r *DeliverableRepository) LastCodeForClient(ctx context.Context, exec sqlx.ExtContext, clientID int64) (string, error) {
	var code string
	if err := sqlx.GetContext(ctx, r.exec(exec), &code, "SELECT code FROM deliverables WHERE client_id = $1 ORDER BY id DESC LIMIT 1", clientID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("last deliverable code: %w", err)
	}
	return code, nil
}

// CodeExists reports whether a deliverable already uses code.
func (r *DeliverableRepository) CodeExists(ctx context.Context, exec sqlx.ExtContext, code string) (bool, error) {
	var exists bool
	if err := sqlx.GetContext(ctx, r.exec(exec), &exists, "SELECT EXISTS(SELECT 1 FROM deliverables WHERE code = $1)", code); err != nil {
		return false, fmt.Errorf("check deliverable code: %w", err)
	}
	return exists, nil
}

// Create inserts a deliverable and assigns its id.
func (r *DeliverableRepository) Create(ctx context.Context, exec sqlx.ExtContext, item *models.Deliverable) error {
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now
	const query = `INSERT INTO deliverables (code, client_id, work_item_id, auto_created, activity_type, project, delivery_type, title, owner,
created_on, delivery_date, status, description, platform, post_type, engagement, impressions, likes, comments, shares, created_at, updated_at)
VALUES (:code, :client_id, :work_item_id, :auto_created, :activity_type, :project, :delivery_type, :title, :owner,
:created_on, :delivery_date, :status, :description, :platform, :post_type, :engagement, :impressions, :likes, :comments, :shares, :created_at, :updated_at)
RETURNING id`
	if err := namedGet(ctx, r.exec(exec), &item.ID, query, item); err != nil {
		return fmt.Errorf("create deliverable: %w", err)
	}
	return nil
}

// Update rewrites the editable fields of a deliverable, including the social block.
func (r *DeliverableRepository) Update(ctx context.Context, exec sqlx.ExtContext, item *models.Deliverable) error {
	item.UpdatedAt = time.Now().UTC()
	const query = `UPDATE deliverables SET client_id = :client_id, activity_type = :activity_type, project = :project, delivery_type = :delivery_type,
title = :title, owner = :owner, created_on = :created_on, delivery_date = :delivery_date, status = :status, description = :description,
platform = :platform, post_type = :post_type, engagement = :engagement, impressions = :impressions, likes = :likes, comments = :comments,
shares = :shares, updated_at = :updated_at WHERE id = :id`
	result, err := sqlx.NamedExecContext(ctx, r.exec(exec), query, item)
	if err != nil {
		return fmt.Errorf("update deliverable: %w", err)
	}
	return affectedOne(result)
}

// SyncWithWorkItem copies title, project, owner and creation date from a work item onto a deliverable.
func (r *DeliverableRepository) SyncWithWorkItem(ctx context.Context, exec sqlx.ExtContext, id int64, title, project, owner string, createdOn time.Time) error {
	const query = `UPDATE deliverables SET title = $2, project = $3, owner = $4, created_on = $5, updated_at = $6 WHERE id = $1`
	result, err := r.exec(exec).ExecContext(ctx, query, id, title, project, owner, createdOn, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("sync deliverable: %w", err)
	}
	return affectedOne(result)
}

// Delete removes a deliverable.
func (r *DeliverableRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM deliverables WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete deliverable: %w", err)
	}
	return affectedOne(result)
}
