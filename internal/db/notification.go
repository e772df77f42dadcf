package db

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/letterbox/letterbox/internal/models"
)

// NotificationRepository provides notification-related database operations
type NotificationRepository struct {
	*Repository
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(repo *Repository) *NotificationRepository {
	return &NotificationRepository{Repository: repo}
}

// GetByID retrieves a notification by ID
func (r *NotificationRepository) GetByID(ctx context.Context, id int64) (*models.Notification, error) {
	var notif models.Notification
	if err := r.db.WithContext(ctx).First(&notif, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &notif, nil
}

// GetByPostID retrieves the open notification for a post, if any
func (r *NotificationRepository) GetByPostID(ctx context.Context, postID int64) (*models.Notification, error) {
	var notif models.Notification
	if err := r.db.WithContext(ctx).Where("post_id = ?", postID).First(&notif).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &notif, nil
}

// Upsert records a reply arrival as a single atomic step: insert an open
// notification if the post has none, otherwise bump its counter. The unique
// index on post_id makes two concurrent replies serialize onto one row;
// first_new_reply_id keeps pointing at the oldest unseen reply either way.
func (r *NotificationRepository) Upsert(ctx context.Context, ownerID, postID, replyID int64, now time.Time) error {
	notif := &models.Notification{
		UserID:          ownerID,
		PostID:          postID,
		FirstNewReplyID: replyID,
		NumOfReplies:    1,
		CreatedAt:       now,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "post_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"num_of_replies": gorm.Expr("num_of_replies + 1"),
		}),
	}).Create(notif).Error
}

// Delete dismisses a notification if it belongs to userID and reports
// whether a row was removed. A second dismissal of the same id reports
// false, not an error.
func (r *NotificationRepository) Delete(ctx context.Context, notifID, userID int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", notifID, userID).
		Delete(&models.Notification{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// CountByUserID counts open notifications addressed to a user
func (r *NotificationRepository) CountByUserID(ctx context.Context, userID int64) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
