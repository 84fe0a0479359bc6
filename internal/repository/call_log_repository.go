package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/eczbabil/ajans-yonetim-sistemi/internal/models"
)

const callLogColumns = `id, date, client_id, counterpart, subject, outcome, owner, notes, follow_up_date, status, created_at, updated_at`

// CallLogRepository manages persistence for call logs.
type CallLogRepository struct {
	db *sqlx.DB
}

// NewCallLogRepository constructs a CallLogRepository.
func NewCallLogRepository(db *sqlx.DB) *CallLogRepository {
	return &CallLogRepository{db: db}
}

// List returns call logs matching the filter, newest first.
func (r *CallLogRepository) List(ctx context.Context, filter models.CallLogFilter) ([]models.CallLog, error) {
	var conds conditions
	conds.addClient("client_id", filter.ClientID)
	if filter.Status != "" {
		conds.add("status = $%d", filter.Status)
	}
	var logs []models.CallLog
	if err := sqlx.SelectContext(ctx, r.db, &logs, "SELECT "+callLogColumns+" FROM call_logs"+conds.where()+" ORDER BY date DESC, id DESC", conds.args...); err != nil {
		return nil, fmt.Errorf("list call logs: %w", err)
	}
	return logs, nil
}

// ListAll returns every call log ordered by id.
func (r *CallLogRepository) ListAll(ctx context.Context) ([]models.CallLog, error) {
	var logs []models.CallLog
	if err := sqlx.SelectContext(ctx, r.db, &logs, "SELECT "+callLogColumns+" FROM call_logs ORDER BY id"); err != nil {
		return nil, fmt.Errorf("list all call logs: %w", err)
	}
	return logs, nil
}

// ListFollowUpsDue returns pending calls whose follow-up date is on or before today.
func (r *CallLogRepository) ListFollowUpsDue(ctx context.Context, today time.Time) ([]models.CallLog, error) {
	var logs []models.CallLog
	query := "SELECT " + callLogColumns + " FROM call_logs WHERE status = $1 AND follow_up_date IS NOT NULL AND follow_up_date <= $2 ORDER BY follow_up_date, id"
	if err := sqlx.SelectContext(ctx, r.db, &logs, query, models.CallLogStatusPending, today); err != nil {
		return nil, fmt.Errorf("list due follow-ups: %w", err)
	}
	return logs, nil
}

// FindByID fetches a call log. Missing rows surface as sql.ErrNoRows.
func (r *CallLogRepository) FindByID(ctx context.Context, id int64) (*models.CallLog, error) {
	var log models.CallLog
	if err := sqlx.GetContext(ctx, r.db, &log, "SELECT "+callLogColumns+" FROM call_logs WHERE id = $1", id); err != nil {
		return nil, err
	}
	return &log, nil
}

// Create inserts a call log and assigns its id.
func (r *CallLogRepository) Create(ctx context.Context, log *models.CallLog) error {
	now := time.Now().UTC()
	log.CreatedAt = now
	log.UpdatedAt = now
	const query = `INSERT INTO call_logs (date, client_id, counterpart, subject, outcome, owner, notes, follow_up_date, status, created_at, updated_at)
VALUES (:date, :client_id, :counterpart, :subject, :outcome, :owner, :notes, :follow_up_date, :status, :created_at, :updated_at)
RETURNING id`
	if err := namedGet(ctx, r.db, &log.ID, query, log); err != nil {
		return fmt.Errorf("create call log: %w", err)
	}
	return nil
}

// Update rewrites a call log.
func (r *CallLogRepository) Update(ctx context.Context, log *models.CallLog) error {
	log.UpdatedAt = time.Now().UTC()
	const query = `UPDATE call_logs SET date = :date, client_id = :client_id, counterpart = :counterpart, subject = :subject, outcome = :outcome,
owner = :owner, notes = :notes, follow_up_date = :follow_up_date, status = :status, updated_at = :updated_at WHERE id = :id`
	result, err := sqlx.NamedExecContext(ctx, r.db, query, log)
	if err != nil {
		return fmt.Errorf("update call log: %w", err)
	}
	return affectedOne(result)
}

// Delete removes a call log.
func (r *CallLogRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM call_logs WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete call log: %w", err)
	}
	return affectedOne(result)
}
