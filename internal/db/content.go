package db

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/letterbox/letterbox/internal/models"
)

// PostRepository provides post-related database operations
type PostRepository struct {
	*Repository
}

// NewPostRepository creates a new post repository
func NewPostRepository(repo *Repository) *PostRepository {
	return &PostRepository{Repository: repo}
}

// GetByID retrieves a post by ID
func (r *PostRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// Create creates a new post. Empty content is rejected defensively even
// though the boundary validates it first.
func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	if post.Content == "" {
		return fmt.Errorf("post content must not be empty")
	}
	return r.db.WithContext(ctx).Create(post).Error
}

// Delete removes a post if and only if it belongs to userID. Ownership and
// existence are indistinguishable in the result: both surface as "not
// deleted" so the boundary cannot leak whether the post exists.
func (r *PostRepository) Delete(ctx context.Context, postID, userID int64) (bool, error) {
	deleted := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", postID, userID).Delete(&models.Post{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		deleted = true
		if err := tx.Where("post_id = ?", postID).Delete(&models.Reply{}).Error; err != nil {
			return err
		}
		return tx.Where("post_id = ?", postID).Delete(&models.Notification{}).Error
	})
	return deleted, err
}

// ReplyRepository provides reply-related database operations
type ReplyRepository struct {
	*Repository
}

// NewReplyRepository creates a new reply repository
func NewReplyRepository(repo *Repository) *ReplyRepository {
	return &ReplyRepository{Repository: repo}
}

// Create creates a new reply
func (r *ReplyRepository) Create(ctx context.Context, reply *models.Reply) error {
	if reply.Content == "" {
		return fmt.Errorf("reply content must not be empty")
	}
	return r.db.WithContext(ctx).Create(reply).Error
}

// GetByPostID retrieves all replies under a post, oldest first
func (r *ReplyRepository) GetByPostID(ctx context.Context, postID int64) ([]*models.Reply, error) {
	var replies []*models.Reply
	if err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at ASC, id ASC").
		Find(&replies).Error; err != nil {
		return nil, err
	}
	return replies, nil
}
