package notify

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/letterbox/letterbox/internal/db"
	"github.com/letterbox/letterbox/internal/models"
	"github.com/letterbox/letterbox/pkg/logging"
)

// Aggregator coalesces reply arrivals into at most one open notification
// per post. A fresh reply opens a notification pointing at itself; further
// replies bump the counter and leave first_new_reply_id at the oldest
// unseen reply. Dismissal by the post owner closes the notification.
type Aggregator struct {
	repo   *db.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewAggregator creates an aggregator backed by the repository
func NewAggregator(repo *db.Repository) *Aggregator {
	return &Aggregator{
		repo:   repo,
		logger: logging.WithComponent("notify"),
		now:    time.Now,
	}
}

// RecordReply inserts a reply and applies the notification transition in
// one transaction, so a crash cannot leave a reply without its
// notification and two concurrent replies cannot both open one.
func (a *Aggregator) RecordReply(ctx context.Context, post *models.Post, content string) (*models.Reply, error) {
	now := a.now().UTC()
	reply := &models.Reply{
		PostID:    post.ID,
		Content:   content,
		CreatedAt: now,
	}

	err := a.repo.Transaction(ctx, func(tx *db.Repository) error {
		if err := db.NewReplyRepository(tx).Create(ctx, reply); err != nil {
			return err
		}
		return db.NewNotificationRepository(tx).Upsert(ctx, post.UserID, post.ID, reply.ID, now)
	})
	if err != nil {
		return nil, err
	}

	a.logger.Debug("Reply recorded",
		zap.Int64("post_id", post.ID),
		zap.Int64("reply_id", reply.ID))
	return reply, nil
}

// Dismiss acknowledges a notification by deleting it. Only the owning user
// may dismiss; a repeat dismissal reports false rather than an error. The
// underlying replies are untouched.
func (a *Aggregator) Dismiss(ctx context.Context, notifID, userID int64) (bool, error) {
	return db.NewNotificationRepository(a.repo).Delete(ctx, notifID, userID)
}
