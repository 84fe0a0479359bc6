package dto

// DeliverableRequest is the payload for creating or editing a deliverable.
// The social block is only stored when DeliveryType is social.
type DeliverableRequest struct {
	ClientID     int64  `json:"client_id" form:"client_id" validate:"required,gt=0"`
	WorkItemID   *int64 `json:"work_item_id" form:"work_item_id"`
	ActivityType string `json:"activity_type" form:"activity_type" validate:"max=50"`
	Project      string `json:"project" form:"project" validate:"max=100"`
	DeliveryType string `json:"delivery_type" form:"delivery_type" validate:"omitempty,oneof=social conventional other"`
	Title        string `json:"title" form:"title" validate:"required,max=100"`
	Owner        string `json:"owner" form:"owner" validate:"max=100"`
	CreatedOn    string `json:"created_on" form:"created_on"`
	DeliveryDate string `json:"delivery_date" form:"delivery_date"`
	Status       string `json:"status" form:"status" validate:"max=20"`
	Description  string `json:"description" form:"description"`
	Platform     string `json:"platform" form:"platform" validate:"max=50"`
	PostType     string `json:"post_type" form:"post_type" validate:"max=50"`
	Engagement   int    `json:"engagement" form:"engagement" validate:"gte=0"`
	Impressions  int    `json:"impressions" form:"impressions" validate:"gte=0"`
	Likes        int    `json:"likes" form:"likes" validate:"gte=0"`
	Comments     int    `json:"comments" form:"comments" validate:"gte=0"`
	Shares       int    `json:"shares" form:"shares" validate:"gte=0"`
}

// SocialPostRequest is the payload of POST /social-posts.
type SocialPostRequest struct {
	Date         string `json:"date" form:"date" validate:"required"`
	ClientID     int64  `json:"client_id" form:"client_id" validate:"required,gt=0"`
	WorkItemID   *int64 `json:"work_item_id" form:"work_item_id"`
	Platform     string `json:"platform" form:"platform" validate:"max=50"`
	ContentTitle string `json:"content_title" form:"content_title" validate:"max=100"`
	PostType     string `json:"post_type" form:"post_type" validate:"max=20"`
	Engagement   int    `json:"engagement" form:"engagement" validate:"gte=0"`
	Impressions  int    `json:"impressions" form:"impressions" validate:"gte=0"`
	Likes        int    `json:"likes" form:"likes" validate:"gte=0"`
	Comments     int    `json:"comments" form:"comments" validate:"gte=0"`
	Shares       int    `json:"shares" form:"shares" validate:"gte=0"`
	Status       string `json:"status" form:"status" validate:"max=20"`
}
