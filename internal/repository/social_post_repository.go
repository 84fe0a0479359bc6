package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/eczbabil/ajans-yonetim-sistemi/internal/models"
)

const socialPostColumns = `id, date, client_id, work_item_id, platform, content_title, post_type, engagement, impressions, likes, comments, shares, status, created_at, updated_at`

// SocialPostRepository manages persistence for social posts.
type SocialPostRepository struct {
	db *sqlx.DB
}

// NewSocialPostRepository constructs a SocialPostRepository.
func NewSocialPostRepository(db *sqlx.DB) *SocialPostRepository {
	return &SocialPostRepository{db: db}
}

// List returns posts matching the filter, newest first.
func (r *SocialPostRepository) List(ctx context.Context, filter models.SocialPostFilter) ([]models.SocialPost, error) {
	var conds conditions
	conds.addClient("client_id", filter.ClientID)
	conds.addRange("date", filter.Range)
	var posts []models.SocialPost
	if err := sqlx.SelectContext(ctx, r.db, &posts, "SELECT "+socialPostColumns+" FROM social_posts"+conds.where()+" ORDER BY date DESC, id DESC", conds.args...); err != nil {
		return nil, fmt.Errorf("list social posts: %w", err)
	}
	return posts, nil
}

// ListAll returns every post ordered by id.
func (r *SocialPostRepository) ListAll(ctx context.Context) ([]models.SocialPost, error) {
	var posts []models.SocialPost
	if err := sqlx.SelectContext(ctx, r.db, &posts, "SELECT "+socialPostColumns+" FROM social_posts ORDER BY id"); err != nil {
		return nil, fmt.Errorf("list all social posts: %w", err)
	}
	return posts, nil
}

// FindByID fetches a post. Missing rows surface as sql.ErrNoRows.
func (r *SocialPostRepository) FindByID(ctx context.Context, id int64) (*models.SocialPost, error) {
	var post models.SocialPost
	if err := sqlx.GetContext(ctx, r.db, &post, "SELECT "+socialPostColumns+" FROM social_posts WHERE id = $1", id); err != nil {
		return nil, err
	}
	return &post, nil
}

// Create inserts a post and assigns its id.
func (r *SocialPostRepository) Create(ctx context.Context, post *models.SocialPost) error {
	now := time.Now().UTC()
	post.CreatedAt = now
	post.UpdatedAt = now
	const query = `INSERT INTO social_posts (date, client_id, work_item_id, platform, content_title, post_type, engagement, impressions, likes, comments, shares, status, created_at, updated_at)
VALUES (:date, :client_id, :work_item_id, :platform, :content_title, :post_type, :engagement, :impressions, :likes, :comments, :shares, :status, :created_at, :updated_at)
RETURNING id`
	if err := namedGet(ctx, r.db, &post.ID, query, post); err != nil {
		return fmt.Errorf("create social post: %w", err)
	}
	return nil
}
