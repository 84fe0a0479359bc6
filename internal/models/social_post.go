package models

import "time"

const (
	// PostTypeReels is the post type counted on the dashboard.
	PostTypeReels = "Reels"
	// SocialPostStatusPublished marks a post that went live.
	SocialPostStatusPublished = "Published"
)

// SocialPost is a piece of content published on a client's social account.
type SocialPost struct {
	ID           int64     `db:"id" json:"id"`
	Date         time.Time `db:"date" json:"date"`
	ClientID     int64     `db:"client_id" json:"client_id"`
	WorkItemID   *int64    `db:"work_item_id" json:"work_item_id,omitempty"`
	Platform     string    `db:"platform" json:"platform"`
	ContentTitle string    `db:"content_title" json:"content_title"`
	PostType     string    `db:"post_type" json:"post_type"`
	Engagement   int       `db:"engagement" json:"engagement"`
	Impressions  int       `db:"impressions" json:"impressions"`
	Likes        int       `db:"likes" json:"likes"`
	Comments     int       `db:"comments" json:"comments"`
	Shares       int       `db:"shares" json:"shares"`
	Status       string    `db:"status" json:"status"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// SocialPostFilter narrows social post listings.
type SocialPostFilter struct {
	ClientID *int64
	Range    DateRange
}
