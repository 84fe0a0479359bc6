package dto

// CallLogRequest is the payload for logging or editing a call. Status is only honoured on edit.
type CallLogRequest struct {
	Date         string `json:"date" form:"date" validate:"required"`
	ClientID     int64  `json:"client_id" form:"client_id" validate:"required,gt=0"`
	Counterpart  string `json:"counterpart" form:"counterpart" validate:"max=100"`
	Subject      string `json:"subject" form:"subject" validate:"max=255"`
	Outcome      string `json:"outcome" form:"outcome" validate:"max=50"`
	Owner        string `json:"owner" form:"owner" validate:"max=100"`
	Notes        string `json:"notes" form:"notes"`
	FollowUpDate string `json:"follow_up_date" form:"follow_up_date"`
	Status       string `json:"status" form:"status" validate:"omitempty,oneof=pending done cancelled"`
}
