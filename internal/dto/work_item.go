package dto

import "github.com/eczbabil/ajans-yonetim-sistemi/internal/models"

// WorkItemRequest is the payload for creating or editing a work item.
// Duration is entered as hours plus minutes.
type WorkItemRequest struct {
	ClientID     int64  `json:"client_id" form:"client_id" validate:"required,gt=0"`
	Date         string `json:"date" form:"date" validate:"required"`
	Project      string `json:"project" form:"project" validate:"max=100"`
	ActivityType string `json:"activity_type" form:"activity_type" validate:"max=50"`
	Description  string `json:"description" form:"description"`
	Owner        string `json:"owner" form:"owner" validate:"max=100"`
	Hours        int    `json:"hours" form:"hours" validate:"gte=0"`
	Minutes      int    `json:"minutes" form:"minutes" validate:"gte=0"`
	Tags         string `json:"tags" form:"tags" validate:"max=200"`
}

// DurationMinutes folds hours and minutes into one value.
func (r WorkItemRequest) DurationMinutes() int {
	return r.Hours*60 + r.Minutes
}

// RevisionRequest is the payload of POST /work-items/:id/revisions.
type RevisionRequest struct {
	Date        string `json:"date" form:"date"`
	RequestedBy string `json:"requested_by" form:"requested_by" validate:"max=100"`
	Subject     string `json:"subject" form:"subject"`
}

// WorkItemDetail is the JSON projection of a work item with its revisions and deliverable.
type WorkItemDetail struct {
	models.WorkItem
	ClientCode   string              `json:"client_code"`
	ClientName   string              `json:"client_name"`
	DurationHour int                 `json:"duration_hours"`
	DurationMin  int                 `json:"duration_remainder_minutes"`
	Revisions    []models.Revision   `json:"revisions"`
	Deliverable  *models.Deliverable `json:"deliverable"`
}

// ResendPreview is returned when a work item goes back to revision. RevisionNumber is the
// number the next submitted revision will get.
type ResendPreview struct {
	WorkItemID     int64  `json:"work_item_id"`
	WorkItemCode   string `json:"work_item_code"`
	RevisionNumber int    `json:"revision_number"`
	Message        string `json:"message"`
}

// ApprovalResult is returned by approve: the work item and its auto-created deliverable.
type ApprovalResult struct {
	WorkItem    *models.WorkItem    `json:"work_item"`
	Deliverable *models.Deliverable `json:"deliverable"`
	Created     bool                `json:"deliverable_created"`
}
