package dto

import "github.com/eczbabil/ajans-yonetim-sistemi/internal/models"

// ClientRequest is the payload of POST /clients and PUT /clients/:id.
type ClientRequest struct {
	Name          string  `json:"name" form:"name" validate:"required,max=100"`
	Sector        string  `json:"sector" form:"sector" validate:"max=50"`
	ContractStart string  `json:"contract_start" form:"contract_start"`
	MonthlyFee    float64 `json:"monthly_fee" form:"monthly_fee" validate:"gte=0"`
	ContactPerson string  `json:"contact_person" form:"contact_person" validate:"max=100"`
	Phone         string  `json:"phone" form:"phone" validate:"max=20"`
	Email         string  `json:"email" form:"email" validate:"omitempty,email,max=100"`
	Notes         string  `json:"notes" form:"notes"`
}

// ClientDeliverables lists a client's deliverables for pickers.
type ClientDeliverables struct {
	ClientID     int64                       `json:"client_id"`
	Deliverables []models.DeliverableSummary `json:"deliverables"`
}

// ImportResult reports the outcome of a spreadsheet import.
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Codes    []string `json:"codes"`
}
