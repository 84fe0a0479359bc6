package models

import "time"

// CallLogStatus tracks whether a call still needs a follow-up.
type CallLogStatus string

const (
	CallLogStatusPending   CallLogStatus = "pending"
	CallLogStatusDone      CallLogStatus = "done"
	CallLogStatusCancelled CallLogStatus = "cancelled"
)

// Valid reports whether s is one of the known statuses.
func (s CallLogStatus) Valid() bool {
	switch s {
	case CallLogStatusPending, CallLogStatusDone, CallLogStatusCancelled:
		return true
	}
	return false
}

// CallLog records a phone call with a client contact.
type CallLog struct {
	ID           int64         `db:"id" json:"id"`
	Date         time.Time     `db:"date" json:"date"`
	ClientID     int64         `db:"client_id" json:"client_id"`
	Counterpart  string        `db:"counterpart" json:"counterpart"`
	Subject      string        `db:"subject" json:"subject"`
	Outcome      string        `db:"outcome" json:"outcome"`
	Owner        string        `db:"owner" json:"owner"`
	Notes        string        `db:"notes" json:"notes"`
	FollowUpDate *time.Time    `db:"follow_up_date" json:"follow_up_date,omitempty"`
	Status       CallLogStatus `db:"status" json:"status"`
	CreatedAt    time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time     `db:"updated_at" json:"updated_at"`
}

// CallLogFilter narrows call log listings.
type CallLogFilter struct {
	ClientID *int64
	Status   CallLogStatus
}
