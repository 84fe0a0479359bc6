package models

import "time"

// WorkItemStatus tracks a work item through the approval lifecycle.
type WorkItemStatus string

const (
	WorkItemStatusPending           WorkItemStatus = "Pending"
	WorkItemStatusInRevision        WorkItemStatus = "InRevision"
	WorkItemStatusApprovalRequested WorkItemStatus = "ApprovalRequested"
	WorkItemStatusApproved          WorkItemStatus = "Approved"
	WorkItemStatusRejected          WorkItemStatus = "Rejected"
)

// UnknownWorkItemCode is the first code given to work items whose client has no code.
const UnknownWorkItemCode = "UNKNOWN-IS001"

// WorkItem is one logged unit of agency work.
type WorkItem struct {
	ID              int64          `db:"id" json:"id"`
	Code            string         `db:"code" json:"code"`
	Date            time.Time      `db:"date" json:"date"`
	ClientID        int64          `db:"client_id" json:"client_id"`
	Project         string         `db:"project" json:"project"`
	ActivityType    string         `db:"activity_type" json:"activity_type"`
	Description     string         `db:"description" json:"description"`
	Owner           string         `db:"owner" json:"owner"`
	DurationMinutes int            `db:"duration_minutes" json:"duration_minutes"`
	Tags            string         `db:"tags" json:"tags"`
	Status          WorkItemStatus `db:"status" json:"status"`
	RevisionCount   int            `db:"revision_count" json:"revision_count"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at" json:"updated_at"`
}

// WorkItemFilter narrows work item listings.
type WorkItemFilter struct {
	ClientID *int64
	Status   WorkItemStatus
	Range    DateRange
	Page     int
	PageSize int
}
