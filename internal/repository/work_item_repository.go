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

const workItemColumns = `id, code, date, client_id, project, activity_type, description, owner, duration_minutes, tags, status, revision_count, created_at, updated_at`

// WorkItemRepository manages persistence for work items.
type WorkItemRepository struct {
	db *sqlx.DB
}

// NewWorkItemRepository constructs a WorkItemRepository.
func NewWorkItemRepository(db *sqlx.DB) *WorkItemRepository {
	return &WorkItemRepository{db: db}
}

func (r *WorkItemRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// List returns a page of work items, newest first.
func (r *WorkItemRepository) List(ctx context.Context, filter models.WorkItemFilter) ([]models.WorkItem, int, error) {
	var conds conditions
	conds.addClient("client_id", filter.ClientID)
	if filter.Status != "" {
		conds.add("status = $%d", filter.Status)
	}
	conds.addRange("date", filter.Range)
	_, size, offset := paginate(filter.Page, filter.PageSize)

	query := fmt.Sprintf("SELECT %s FROM work_items%s ORDER BY date DESC, id DESC LIMIT %d OFFSET %d", workItemColumns, conds.where(), size, offset)
	var items []models.WorkItem
	if err := sqlx.SelectContext(ctx, r.db, &items, query, conds.args...); err != nil {
		return nil, 0, fmt.Errorf("list work items: %w", err)
	}

	var total int
	if err := sqlx.GetContext(ctx, r.db, &total, "SELECT COUNT(*) FROM work_items"+conds.where(), conds.args...); err != nil {
		return nil, 0, fmt.Errorf("count work items: %w", err)
	}
	return items, total, nil
}

// ListAll returns every work item ordered by id.
func (r *WorkItemRepository) ListAll(ctx context.Context) ([]models.WorkItem, error) {
	var items []models.WorkItem
	if err := sqlx.SelectContext(ctx, r.db, &items, "SELECT "+workItemColumns+" FROM work_items ORDER BY id"); err != nil {
		return nil, fmt.Errorf("list all work items: %w", err)
	}
	return items, nil
}

// ListByClient returns a client's work items within the range, oldest first.
func (r *WorkItemRepository) ListByClient(ctx context.Context, clientID int64, rng models.DateRange) ([]models.WorkItem, error) {
	var conds conditions
	conds.addClient("client_id", &clientID)
	conds.addRange("date", rng)
	var items []models.WorkItem
	if err := sqlx.SelectContext(ctx, r.db, &items, "SELECT "+workItemColumns+" FROM work_items"+conds.where()+" ORDER BY date, id", conds.args...); err != nil {
		return nil, fmt.Errorf("list client work items: %w", err)
	}
	return items, nil
}

// FindByID fetches a work item. Missing rows surface as sql.ErrNoRows.
func (r *WorkItemRepository) FindByID(ctx context.Context, exec sqlx.ExtContext, id int64) (*models.WorkItem, error) {
	var item models.WorkItem
	if err := sqlx.GetContext(ctx, r.exec(exec), &item, "SELECT "+workItemColumns+" FROM work_items WHERE id = $1", id); err != nil {
		return nil, err
	}
	return &item, nil
}

// LockByID fetches a work item and holds its row lock until the transaction ends.
func (r *WorkItemRepository) LockByID(ctx context.Context, exec sqlx.ExtContext, id int64) (*models.WorkItem, error) {
	var item models.WorkItem
	if err := sqlx.GetContext(ctx, r.exec(exec), &item, "SELECT "+workItemColumns+" FROM work_items WHERE id = $1 FOR UPDATE", id); err != nil {
		return nil, err
	}
	return &item, nil
}

// LastCodeForClient returns the code of the client's most recent work item, or "".
func (r *WorkItemRepository) LastCodeForClient(ctx context.Context, exec sqlx.ExtContext, clientID int64) (string, error) {
	var code string
	if err := sqlx.GetContext(ctx, r.exec(exec), &code, "SELECT code FROM work_items WHERE client_id = $1 ORDER BY id DESC LIMIT 1", clientID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("last work item code: %w", err)
	}
	return code, nil
}

// CodeExists reports whether a work item already uses code.
func (r *WorkItemRepository) CodeExists(ctx context.Context, exec sqlx.ExtContext, code string) (bool, error) {
	var exists bool
	if err := sqlx.GetContext(ctx, r.exec(exec), &exists, "SELECT EXISTS(SELECT 1 FROM work_items WHERE code = $1)", code); err != nil {
		return false, fmt.Errorf("check work item code: %w", err)
	}
	return exists, nil
}

// Create inserts a work item and assigns its id.
func (r *WorkItemRepository) Create(ctx context.Context, exec sqlx.ExtContext, item *models.WorkItem) error {
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now
	const query = `INSERT INTO work_items (code, date, client_id, project, activity_type, description, owner, duration_minutes, tags, status, revision_count, created_at, updated_at)
VALUES (:code, :date, :client_id, :project, :activity_type, :description, :owner, :duration_minutes, :tags, :status, :revision_count, :created_at, :updated_at)
RETURNING id`
	if err := namedGet(ctx, r.exec(exec), &item.ID, query, item); err != nil {
		return fmt.Errorf("create work item: %w", err)
	}
	return nil
}

// Update rewrites the editable fields of a work item. Status and the revision counter are untouched.
func (r *WorkItemRepository) Update(ctx context.Context, exec sqlx.ExtContext, item *models.WorkItem) error {
	item.UpdatedAt = time.Now().UTC()
	const query = `UPDATE work_items SET client_id = :client_id, date = :date, project = :project, activity_type = :activity_type,
description = :description, owner = :owner, duration_minutes = :duration_minutes, tags = :tags, updated_at = :updated_at WHERE id = :id`
	result, err := sqlx.NamedExecContext(ctx, r.exec(exec), query, item)
	if err != nil {
		return fmt.Errorf("update work item: %w", err)
	}
	return affectedOne(result)
}

// UpdateStatus sets the lifecycle status of a work item.
func (r *WorkItemRepository) UpdateStatus(ctx context.Context, exec sqlx.ExtContext, id int64, status models.WorkItemStatus) error {
	result, err := r.exec(exec).ExecContext(ctx, "UPDATE work_items SET status = $2, updated_at = $3 WHERE id = $1", id, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update work item status: %w", err)
	}
	return affectedOne(result)
}

// IncrementRevisionCount bumps the revision counter and returns the new value.
func (r *WorkItemRepository) IncrementRevisionCount(ctx context.Context, exec sqlx.ExtContext, id int64) (int, error) {
	var count int
	const query = `UPDATE work_items SET revision_count = revision_count + 1, updated_at = $2 WHERE id = $1 RETURNING revision_count`
	if err := sqlx.GetContext(ctx, r.exec(exec), &count, query, id, time.Now().UTC()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, err
		}
		return 0, fmt.Errorf("increment revision count: %w", err)
	}
	return count, nil
}
