package models

import "time"

// Deliverable statuses the system writes or aggregates on. Other values are accepted as-is.
const (
	DeliverableStatusPreparing  = "Preparing"
	DeliverableStatusPending    = "Pending"
	DeliverableStatusInRevision = "InRevision"
	DeliverableStatusApproved   = "Approved"
	DeliverableStatusCompleted  = "Completed"
	DeliverableStatusDelivered  = "Delivered"
)

// Delivery types.
const (
	DeliveryTypeSocial       = "social"
	DeliveryTypeConventional = "conventional"
	DeliveryTypeOther        = "other"
)

const (
	// DeliverableCodePrefix starts every generated deliverable code.
	DeliverableCodePrefix = "TSL"
	// UnknownDeliverableCode is the first code given to deliverables whose client has no code.
	UnknownDeliverableCode = "TSLUNKNOWN001"
)

// Deliverable is an output handed to a client. Social fields are only set for social deliveries.
type Deliverable struct {
	ID           int64      `db:"id" json:"id"`
	Code         string     `db:"code" json:"code"`
	ClientID     int64      `db:"client_id" json:"client_id"`
	WorkItemID   *int64     `db:"work_item_id" json:"work_item_id,omitempty"`
	AutoCreated  bool       `db:"auto_created" json:"auto_created"`
	ActivityType string     `db:"activity_type" json:"activity_type"`
	Project      string     `db:"project" json:"project"`
	DeliveryType string     `db:"delivery_type" json:"delivery_type"`
	Title        string     `db:"title" json:"title"`
	Owner        string     `db:"owner" json:"owner"`
	CreatedOn    *time.Time `db:"created_on" json:"created_on,omitempty"`
	DeliveryDate *time.Time `db:"delivery_date" json:"delivery_date,omitempty"`
	Status       string     `db:"status" json:"status"`
	Description  string     `db:"description" json:"description"`
	Platform     *string    `db:"platform" json:"platform,omitempty"`
	PostType     *string    `db:"post_type" json:"post_type,omitempty"`
	Engagement   *int       `db:"engagement" json:"engagement,omitempty"`
	Impressions  *int       `db:"impressions" json:"impressions,omitempty"`
	Likes        *int       `db:"likes" json:"likes,omitempty"`
	Comments     *int       `db:"comments" json:"comments,omitempty"`
	Shares       *int       `db:"shares" json:"shares,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// IsSocial reports whether the deliverable carries social metrics.
func (d *Deliverable) IsSocial() bool {
	return d.DeliveryType == DeliveryTypeSocial
}

// SocialMetrics holds the social block of a deliverable.
type SocialMetrics struct {
	Platform    string
	PostType    string
	Engagement  int
	Impressions int
	Likes       int
	Comments    int
	Shares      int
}

// ApplySocial sets the social fields when the delivery type is social and clears them otherwise.
func (d *Deliverable) ApplySocial(m SocialMetrics) {
	if !d.IsSocial() {
		d.Platform, d.PostType = nil, nil
		d.Engagement, d.Impressions, d.Likes, d.Comments, d.Shares = nil, nil, nil, nil, nil
		return
	}
	platform, postType := m.Platform, m.PostType
	engagement, impressions, likes, comments, shares := m.Engagement, m.Impressions, m.Likes, m.Comments, m.Shares
	d.Platform, d.PostType = &platform, &postType
	d.Engagement, d.Impressions, d.Likes, d.Comments, d.Shares = &engagement, &impressions, &likes, &comments, &shares
}

// DeliverableFilter narrows deliverable listings. Range applies to delivery_date.
type DeliverableFilter struct {
	ClientID   *int64
	WorkItemID *int64
	Status     string
	Range      DateRange
}

// DeliverableSummary is the short projection used by client pickers.
type DeliverableSummary struct {
	ID     int64  `db:"id" json:"id"`
	Code   string `db:"code" json:"code"`
	Title  string `db:"title" json:"title"`
	Status string `db:"status" json:"status"`
}
