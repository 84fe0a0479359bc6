package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/eczbabil/ajans-yonetim-sistemi/internal/models"
)

// StatisticsRepository runs the aggregate queries behind dashboards and reports.
// Every call reads the live tables; nothing is cached.
type StatisticsRepository struct {
	db *sqlx.DB
}

// NewStatisticsRepository constructs a StatisticsRepository.
func NewStatisticsRepository(db *sqlx.DB) *StatisticsRepository {
	return &StatisticsRepository{db: db}
}

func scoped(scope models.StatsScope, dateColumn string) conditions {
	var conds conditions
	conds.addClient("client_id", scope.ClientID)
	conds.addRange(dateColumn, scope.Range)
	return conds
}

// CountClients returns the number of clients.
func (r *StatisticsRepository) CountClients(ctx context.Context) (int, error) {
	var total int
	if err := sqlx.GetContext(ctx, r.db, &total, "SELECT COUNT(*) FROM clients"); err != nil {
		return 0, fmt.Errorf("count clients: %w", err)
	}
	return total, nil
}

// WorkItemTotals counts work items, minutes, distinct days and owners in scope.
func (r *StatisticsRepository) WorkItemTotals(ctx context.Context, scope models.StatsScope) (*models.WorkItemTotals, error) {
	conds := scoped(scope, "date")
	query := fmt.Sprintf(`SELECT COUNT(*) AS count,
COALESCE(SUM(duration_minutes), 0) AS minutes,
COUNT(DISTINCT date) AS work_days,
COUNT(DISTINCT NULLIF(owner, '')) AS team_size,
COUNT(*) FILTER (WHERE status = '%s') AS awaiting_approval
FROM work_items%s`, models.WorkItemStatusApprovalRequested, conds.where())
	var totals models.WorkItemTotals
	if err := sqlx.GetContext(ctx, r.db, &totals, query, conds.args...); err != nil {
		return nil, fmt.Errorf("work item totals: %w", err)
	}
	return &totals, nil
}

// DeliverableTotals counts deliverables per status bucket in scope.
func (r *StatisticsRepository) DeliverableTotals(ctx context.Context, scope models.StatsScope) (*models.DeliverableTotals, error) {
	conds := scoped(scope, "delivery_date")
	query := fmt.Sprintf(`SELECT COUNT(*) AS count,
COUNT(*) FILTER (WHERE status = '%s') AS approved,
COUNT(*) FILTER (WHERE status IN ('%s', '%s')) AS finished,
COUNT(*) FILTER (WHERE status = '%s') AS preparing,
COUNT(*) FILTER (WHERE status IN ('%s', '%s', '%s')) AS pending,
COUNT(*) FILTER (WHERE delivery_type = '%s') AS social
FROM deliverables%s`,
		models.DeliverableStatusApproved,
		models.DeliverableStatusCompleted, models.DeliverableStatusDelivered,
		models.DeliverableStatusPreparing,
		models.DeliverableStatusPreparing, models.DeliverableStatusPending, models.DeliverableStatusInRevision,
		models.DeliveryTypeSocial,
		conds.where())
	var totals models.DeliverableTotals
	if err := sqlx.GetContext(ctx, r.db, &totals, query, conds.args...); err != nil {
		return nil, fmt.Errorf("deliverable totals: %w", err)
	}
	return &totals, nil
}

// SocialPostTotals counts posts, reels and published posts in scope.
func (r *StatisticsRepository) SocialPostTotals(ctx context.Context, scope models.StatsScope) (*models.SocialPostTotals, error) {
	conds := scoped(scope, "date")
	query := fmt.Sprintf(`SELECT COUNT(*) AS count,
COUNT(*) FILTER (WHERE post_type = '%s') AS reels,
COUNT(*) FILTER (WHERE status = '%s') AS published
FROM social_posts%s`, models.PostTypeReels, models.SocialPostStatusPublished, conds.where())
	var totals models.SocialPostTotals
	if err := sqlx.GetContext(ctx, r.db, &totals, query, conds.args...); err != nil {
		return nil, fmt.Errorf("social post totals: %w", err)
	}
	return &totals, nil
}

// CountRevisions counts revisions in scope.
func (r *StatisticsRepository) CountRevisions(ctx context.Context, scope models.StatsScope) (int, error) {
	conds := scoped(scope, "date")
	var total int
	if err := sqlx.GetContext(ctx, r.db, &total, "SELECT COUNT(*) FROM revisions"+conds.where(), conds.args...); err != nil {
		return 0, fmt.Errorf("count revisions: %w", err)
	}
	return total, nil
}

// WorkTypeCounts groups work items in scope by activity type.
func (r *StatisticsRepository) WorkTypeCounts(ctx context.Context, scope models.StatsScope) ([]models.KeyCount, error) {
	conds := scoped(scope, "date")
	conds.clauses = append(conds.clauses, "activity_type <> ''")
	query := "SELECT activity_type AS key, COUNT(*) AS count FROM work_items" + conds.where() + " GROUP BY activity_type ORDER BY count DESC, key"
	var rows []models.KeyCount
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, conds.args...); err != nil {
		return nil, fmt.Errorf("work type counts: %w", err)
	}
	return rows, nil
}

// DeliverableStatusCounts groups deliverables in scope by status.
func (r *StatisticsRepository) DeliverableStatusCounts(ctx context.Context, scope models.StatsScope) ([]models.KeyCount, error) {
	conds := scoped(scope, "delivery_date")
	conds.clauses = append(conds.clauses, "status <> ''")
	query := "SELECT status AS key, COUNT(*) AS count FROM deliverables" + conds.where() + " GROUP BY status ORDER BY count DESC, key"
	var rows []models.KeyCount
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, conds.args...); err != nil {
		return nil, fmt.Errorf("deliverable status counts: %w", err)
	}
	return rows, nil
}

// TopOwners returns the owners with the most work items in scope.
func (r *StatisticsRepository) TopOwners(ctx context.Context, scope models.StatsScope, limit int) ([]models.OwnerCount, error) {
	conds := scoped(scope, "date")
	conds.clauses = append(conds.clauses, "owner <> ''")
	query := fmt.Sprintf(`SELECT owner, COUNT(*) AS count, COALESCE(SUM(duration_minutes), 0) AS minutes
FROM work_items%s GROUP BY owner ORDER BY count DESC, owner LIMIT %d`, conds.where(), limit)
	var rows []models.OwnerCount
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, conds.args...); err != nil {
		return nil, fmt.Errorf("top owners: %w", err)
	}
	for i := range rows {
		rows[i].Hours = models.MinutesToHours(rows[i].Minutes)
	}
	return rows, nil
}

// DailyWorkItemCounts counts work items per day within [from, to].
func (r *StatisticsRepository) DailyWorkItemCounts(ctx context.Context, from, to time.Time) ([]models.KeyCount, error) {
	const query = `SELECT TO_CHAR(date, 'YYYY-MM-DD') AS key, COUNT(*) AS count
FROM work_items WHERE date >= $1 AND date <= $2 GROUP BY date ORDER BY date`
	var rows []models.KeyCount
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, from, to); err != nil {
		return nil, fmt.Errorf("daily work item counts: %w", err)
	}
	return rows, nil
}

// ClientSummaries returns work count and minutes per client in range, busiest first.
func (r *StatisticsRepository) ClientSummaries(ctx context.Context, rng models.DateRange) ([]models.ClientSummary, error) {
	var conds conditions
	conds.addRange("w.date", rng)
	query := `SELECT c.id AS client_id, c.name, COUNT(w.id) AS work_count, COALESCE(SUM(w.duration_minutes), 0) AS minutes
FROM clients c JOIN work_items w ON w.client_id = c.id` + conds.where() + `
GROUP BY c.id, c.name ORDER BY work_count DESC, c.name`
	var rows []models.ClientSummary
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, conds.args...); err != nil {
		return nil, fmt.Errorf("client summaries: %w", err)
	}
	for i := range rows {
		rows[i].TotalHours = models.MinutesToHours(rows[i].Minutes)
	}
	return rows, nil
}

// CountFollowUpsDue counts pending calls whose follow-up date is on or before today.
func (r *StatisticsRepository) CountFollowUpsDue(ctx context.Context, today time.Time) (int, error) {
	var total int
	const query = `SELECT COUNT(*) FROM call_logs WHERE status = $1 AND follow_up_date IS NOT NULL AND follow_up_date <= $2`
	if err := sqlx.GetContext(ctx, r.db, &total, query, models.CallLogStatusPending, today); err != nil {
		return 0, fmt.Errorf("count due follow-ups: %w", err)
	}
	return total, nil
}
