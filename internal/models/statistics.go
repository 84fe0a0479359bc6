package models

import (
	"math"
	"time"
)

// DateRange bounds a date filter. A nil bound is unrestricted.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// Distribution counts records per key, for example per activity type or status.
type Distribution map[string]int

// KeyCount is one grouped row of a distribution query.
type KeyCount struct {
	Key   string `db:"key" json:"key"`
	Count int    `db:"count" json:"count"`
}

// ToDistribution folds grouped rows into a map, skipping empty keys.
func ToDistribution(rows []KeyCount) Distribution {
	out := make(Distribution, len(rows))
	for _, row := range rows {
		if row.Key == "" {
			continue
		}
		out[row.Key] += row.Count
	}
	return out
}

// OwnerCount is the number of work items logged by one person.
type OwnerCount struct {
	Owner   string  `db:"owner" json:"owner"`
	Count   int     `db:"count" json:"count"`
	Minutes int     `db:"minutes" json:"-"`
	Hours   float64 `db:"-" json:"hours"`
}

// DashboardMetrics is the global overview.
type DashboardMetrics struct {
	TotalClients         int          `json:"total_clients"`
	WorkItemsThisMonth   int          `json:"work_items_this_month"`
	ApprovedDeliverables int          `json:"approved_deliverables"`
	TotalHours           float64      `json:"total_hours"`
	HoursThisMonth       float64      `json:"hours_this_month"`
	ReelsCount           int          `json:"reels_count"`
	PendingDeliverables  int          `json:"pending_deliverables"`
	FollowUpsDue         int          `json:"follow_ups_due"`
	TopOwners            []OwnerCount `json:"top_owners"`
}

// ClientMetrics aggregates one client's activity over a date range.
type ClientMetrics struct {
	ClientID                 int64        `json:"client_id"`
	TotalHours               float64      `json:"total_hours"`
	WorkItemCount            int          `json:"work_item_count"`
	DeliverableCount         int          `json:"deliverable_count"`
	ApprovedDeliverables     int          `json:"approved_deliverables"`
	InProgressDeliverables   int          `json:"in_progress_deliverables"`
	SocialDeliverables       int          `json:"social_deliverables"`
	RevisionCount            int          `json:"revision_count"`
	SocialPostCount          int          `json:"social_post_count"`
	AwaitingApproval         int          `json:"awaiting_approval"`
	WorkDays                 int          `json:"work_days"`
	TeamSize                 int          `json:"team_size"`
	WorkTypeDistribution     Distribution `json:"work_type_distribution"`
	DeliverableStatusSummary Distribution `json:"deliverable_status_distribution"`
	TopOwners                []OwnerCount `json:"top_owners"`
}

// ClientSummary is one row of the per-client work summary.
type ClientSummary struct {
	ClientID   int64   `db:"client_id" json:"client_id"`
	Name       string  `db:"name" json:"name"`
	WorkCount  int     `db:"work_count" json:"work_count"`
	Minutes    int     `db:"minutes" json:"-"`
	TotalHours float64 `db:"-" json:"total_hours"`
}

// MonthlySummary totals one calendar month.
type MonthlySummary struct {
	Year                 int     `json:"year"`
	Month                int     `json:"month"`
	WorkCount            int     `json:"work_count"`
	TotalHours           float64 `json:"total_hours"`
	ApprovedDeliverables int     `json:"approved_deliverables"`
}

// MinutesToHours converts minutes to hours rounded to one decimal.
func MinutesToHours(minutes int) float64 {
	return math.Round(float64(minutes)/60*10) / 10
}

// StatsScope restricts an aggregate to one client and/or a date range.
type StatsScope struct {
	ClientID *int64
	Range    DateRange
}

// WorkItemTotals aggregates work items in a scope.
type WorkItemTotals struct {
	Count            int `db:"count"`
	Minutes          int `db:"minutes"`
	WorkDays         int `db:"work_days"`
	TeamSize         int `db:"team_size"`
	AwaitingApproval int `db:"awaiting_approval"`
}

// DeliverableTotals aggregates deliverables in a scope. The range applies to delivery_date.
type DeliverableTotals struct {
	Count     int `db:"count"`
	Approved  int `db:"approved"`
	Finished  int `db:"finished"`
	Preparing int `db:"preparing"`
	Pending   int `db:"pending"`
	Social    int `db:"social"`
}

// SocialPostTotals aggregates social posts in a scope.
type SocialPostTotals struct {
	Count     int `db:"count"`
	Reels     int `db:"reels"`
	Published int `db:"published"`
}
