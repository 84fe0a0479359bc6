package models

import (
	"fmt"
	"time"
)

// RevisionStatus tracks a single revision request.
type RevisionStatus string

const (
	RevisionStatusPending             RevisionStatus = "Pending"
	RevisionStatusReturnedForRevision RevisionStatus = "ReturnedForRevision"
	RevisionStatusSentBackToRevision  RevisionStatus = "SentBackToRevision"
	RevisionStatusApproved            RevisionStatus = "Approved"
	RevisionStatusRejected            RevisionStatus = "Rejected"
)

// Revision is one client-requested change round on a work item.
type Revision struct {
	ID             int64          `db:"id" json:"id"`
	Date           time.Time      `db:"date" json:"date"`
	ClientID       int64          `db:"client_id" json:"client_id"`
	WorkItemID     *int64         `db:"work_item_id" json:"work_item_id,omitempty"`
	RevisionNumber int            `db:"revision_number" json:"revision_number"`
	Title          string         `db:"title" json:"title"`
	RequestedBy    string         `db:"requested_by" json:"requested_by"`
	Subject        string         `db:"subject" json:"subject"`
	Status         RevisionStatus `db:"status" json:"status"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updated_at"`
}

// RevisionTitle is the display title of the n-th revision.
func RevisionTitle(n int) string {
	return fmt.Sprintf("Revision %d", n)
}

// RevisionFilter narrows revision listings.
type RevisionFilter struct {
	ClientID   *int64
	WorkItemID *int64
	Range      DateRange
}
