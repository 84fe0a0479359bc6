package models

import "time"

// ClientCodePrefix starts every generated client code.
const ClientCodePrefix = "MST"

// Client is an agency customer. Every other record hangs off a client.
type Client struct {
	ID            int64      `db:"id" json:"id"`
	Code          string     `db:"code" json:"code"`
	Name          string     `db:"name" json:"name"`
	Sector        string     `db:"sector" json:"sector"`
	ContractStart *time.Time `db:"contract_start" json:"contract_start,omitempty"`
	MonthlyFee    float64    `db:"monthly_fee" json:"monthly_fee"`
	ContactPerson string     `db:"contact_person" json:"contact_person"`
	Phone         string     `db:"phone" json:"phone"`
	Email         string     `db:"email" json:"email"`
	Notes         string     `db:"notes" json:"notes"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

// ClientFilter narrows client listings.
type ClientFilter struct {
	Search   string
	Page     int
	PageSize int
}
