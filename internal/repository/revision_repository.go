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

const revisionColumns = `id, date, client_id, work_item_id, revision_number, title, requested_by, subject, status, created_at, updated_at`

// RevisionRepository manages persistence for revisions.
type RevisionRepository struct {
	db *sqlx.DB
}

// NewRevisionRepository constructs a RevisionRepository.
func NewRevisionRepository(db *sqlx.DB) *RevisionRepository {
	return &RevisionRepository{db: db}
}

func (r *RevisionRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// Create inserts a revision and assigns its id.
func (r *RevisionRepository) Create(ctx context.Context, exec sqlx.ExtContext, revision *models.Revision) error {
	now := time.Now().UTC()
	revision.CreatedAt = now
	revision.UpdatedAt = now
	const query = `INSERT INTO revisions (date, client_id, work_item_id, revision_number, title, requested_by, subject, status, created_at, updated_at)
VALUES (:date, :client_id, :work_item_id, :revision_number, :title, :requested_by, :subject, :status, :created_at, :updated_at)
RETURNING id`
	if err := namedGet(ctx, r.exec(exec), &revision.ID, query, revision); err != nil {
		return fmt.Errorf("create revision: %w", err)
	}
	return nil
}

// Latest returns the highest-numbered revision of a work item, or nil when it has none.
func (r *RevisionRepository) Latest(ctx context.Context, exec sqlx.ExtContext, workItemID int64) (*models.Revision, error) {
	var revision models.Revision
	const query = "SELECT " + revisionColumns + " FROM revisions WHERE work_item_id = $1 ORDER BY revision_number DESC, id DESC LIMIT 1"
	if err := sqlx.GetContext(ctx, r.exec(exec), &revision, query, workItemID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("latest revision: %w", err)
	}
	return &revision, nil
}

// UpdateStatus sets the status of one revision.
func (r *RevisionRepository) UpdateStatus(ctx context.Context, exec sqlx.ExtContext, id int64, status models.RevisionStatus) error {
	result, err := r.exec(exec).ExecContext(ctx, "UPDATE revisions SET status = $2, updated_at = $3 WHERE id = $1", id, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update revision status: %w", err)
	}
	return affectedOne(result)
}

// ListByWorkItem returns a work item's revisions ordered by number.
func (r *RevisionRepository) ListByWorkItem(ctx context.Context, exec sqlx.ExtContext, workItemID int64) ([]models.Revision, error) {
	var revisions []models.Revision
	const query = "SELECT " + revisionColumns + " FROM revisions WHERE work_item_id = $1 ORDER BY revision_number, id"
	if err := sqlx.SelectContext(ctx, r.exec(exec), &revisions, query, workItemID); err != nil {
		return nil, fmt.Errorf("list work item revisions: %w", err)
	}
	return revisions, nil
}

// SyncWithWorkItem copies the work item's client and date onto all of its revisions.
func (r *RevisionRepository) SyncWithWorkItem(ctx context.Context, exec sqlx.ExtContext, workItemID, clientID int64, date time.Time) error {
	const query = `UPDATE revisions SET client_id = $2, date = $3, updated_at = $4 WHERE work_item_id = $1`
	if _, err := r.exec(exec).ExecContext(ctx, query, workItemID, clientID, date, time.Now().UTC()); err != nil {
		return fmt.Errorf("sync revisions: %w", err)
	}
	return nil
}

// List returns revisions matching the filter, newest first.
func (r *RevisionRepository) List(ctx context.Context, filter models.RevisionFilter) ([]models.Revision, error) {
	var conds conditions
	conds.addClient("client_id", filter.ClientID)
	if filter.WorkItemID != nil {
		conds.add("work_item_id = $%d", *filter.WorkItemID)
	}
	conds.addRange("date", filter.Range)
	var revisions []models.Revision
	if err := sqlx.SelectContext(ctx, r.db, &revisions, "SELECT "+revisionColumns+" FROM revisions"+conds.where()+" ORDER BY date DESC, id DESC", conds.args...); err != nil {
		return nil, fmt.Errorf("list revisions: %w", err)
	}
	return revisions, nil
}

// ListAll returns every revision ordered by id.
func (r *RevisionRepository) ListAll(ctx context.Context) ([]models.Revision, error) {
	var revisions []models.Revision
	if err := sqlx.SelectContext(ctx, r.db, &revisions, "SELECT "+revisionColumns+" FROM revisions ORDER BY id"); err != nil {
		return nil, fmt.Errorf("list all revisions: %w", err)
	}
	return revisions, nil
}
