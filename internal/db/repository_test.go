package db

import (
	"context"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/letterbox/letterbox/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Discard,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}

	if err := gdb.AutoMigrate(
		&models.User{},
		&models.Token{},
		&models.Post{},
		&models.Reply{},
		&models.Notification{},
	); err != nil {
		t.Fatalf("Failed to migrate schema: %v", err)
	}

	return gdb
}

func seedUser(t *testing.T, repo *Repository, hash string) *models.User {
	t.Helper()
	user := &models.User{PasswordHash: hash, CreatedAt: time.Now().UTC()}
	if err := NewUserRepository(repo).Create(context.Background(), user); err != nil {
		t.Fatalf("Failed to seed user: %v", err)
	}
	return user
}

func TestUserRepository_GetByPasswordHash(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()

	user := seedUser(t, repo, "hash-a")
	users := NewUserRepository(repo)

	got, err := users.GetByPasswordHash(ctx, "hash-a")
	if err != nil {
		t.Fatalf("GetByPasswordHash failed: %v", err)
	}
	if got == nil || got.ID != user.ID {
		t.Errorf("Expected user %d, got %+v", user.ID, got)
	}

	// Absence is nil, nil - never an error
	missing, err := users.GetByPasswordHash(ctx, "no-such-hash")
	if err != nil {
		t.Fatalf("Lookup of absent hash should not error: %v", err)
	}
	if missing != nil {
		t.Errorf("Expected nil for absent hash, got %+v", missing)
	}
}

func TestUserRepository_DeleteCascades(t *testing.T) {
	gdb := newTestDB(t)
	repo := NewRepository(gdb)
	ctx := context.Background()

	user := seedUser(t, repo, "hash-b")
	tokens := NewTokenRepository(repo)
	posts := NewPostRepository(repo)
	notifs := NewNotificationRepository(repo)

	if err := tokens.Create(ctx, &models.Token{UserID: user.ID, ExpiresAt: time.Now().Add(time.Hour)}); err != nil {
		t.Fatalf("Failed to create token: %v", err)
	}
	post := &models.Post{UserID: user.ID, Content: "hello", CreatedAt: time.Now().UTC()}
	if err := posts.Create(ctx, post); err != nil {
		t.Fatalf("Failed to create post: %v", err)
	}
	if err := NewReplyRepository(repo).Create(ctx, &models.Reply{PostID: post.ID, Content: "hi", CreatedAt: time.Now().UTC()}); err != nil {
		t.Fatalf("Failed to create reply: %v", err)
	}
	if err := notifs.Upsert(ctx, user.ID, post.ID, 1, time.Now().UTC()); err != nil {
		t.Fatalf("Failed to create notification: %v", err)
	}

	deleted, err := NewUserRepository(repo).Delete(ctx, user.ID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if !deleted {
		t.Fatal("Expected user to be deleted")
	}

	for _, check := range []struct {
		name  string
		model interface{}
	}{
		{"tokens", &models.Token{}},
		{"posts", &models.Post{}},
		{"replies", &models.Reply{}},
		{"notifications", &models.Notification{}},
	} {
		var count int64
		if err := gdb.Model(check.model).Count(&count).Error; err != nil {
			t.Fatalf("Count %s failed: %v", check.name, err)
		}
		if count != 0 {
			t.Errorf("Expected %s to cascade, %d rows remain", check.name, count)
		}
	}

	// Second delete reports not-deleted
	deleted, err = NewUserRepository(repo).Delete(ctx, user.ID)
	if err != nil {
		t.Fatalf("Second delete errored: %v", err)
	}
	if deleted {
		t.Error("Second delete should report not-deleted")
	}
}

func TestTokenRepository_Refresh(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()

	user := seedUser(t, repo, "hash-c")
	tokens := NewTokenRepository(repo)

	// Refresh before any token exists reports no update
	updated, err := tokens.Refresh(ctx, user.ID, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if updated {
		t.Error("Refresh without a token should report no update")
	}

	if err := tokens.Create(ctx, &models.Token{UserID: user.ID, ExpiresAt: time.Now().Add(time.Hour)}); err != nil {
		t.Fatalf("Failed to create token: %v", err)
	}

	expiry := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second)
	updated, err = tokens.Refresh(ctx, user.ID, expiry)
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if !updated {
		t.Error("Refresh of an existing token should report an update")
	}

	token, err := tokens.GetByUserID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByUserID failed: %v", err)
	}
	if !token.ExpiresAt.Equal(expiry) {
		t.Errorf("Expected expiry %v, got %v", expiry, token.ExpiresAt)
	}
}

func TestPostRepository_RoundTrip(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()

	user := seedUser(t, repo, "hash-d")
	posts := NewPostRepository(repo)

	post := &models.Post{UserID: user.ID, Content: "hello", CreatedAt: time.Now().UTC()}
	if err := posts.Create(ctx, post); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := posts.GetByID(ctx, post.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got == nil || got.Content != "hello" {
		t.Errorf("Expected content 'hello', got %+v", got)
	}
}

func TestPostRepository_RejectsEmptyContent(t *testing.T) {
	repo := NewRepository(newTestDB(t))

	err := NewPostRepository(repo).Create(context.Background(), &models.Post{UserID: 1})
	if err == nil {
		t.Error("Expected error for empty post content")
	}
	err = NewReplyRepository(repo).Create(context.Background(), &models.Reply{PostID: 1})
	if err == nil {
		t.Error("Expected error for empty reply content")
	}
}

func TestPostRepository_DeleteOwnership(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()

	owner := seedUser(t, repo, "hash-owner")
	stranger := seedUser(t, repo, "hash-stranger")
	posts := NewPostRepository(repo)

	post := &models.Post{UserID: owner.ID, Content: "mine", CreatedAt: time.Now().UTC()}
	if err := posts.Create(ctx, post); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Wrong owner: not deleted, post still exists
	deleted, err := posts.Delete(ctx, post.ID, stranger.ID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if deleted {
		t.Error("Delete by non-owner should report not-deleted")
	}
	still, err := posts.GetByID(ctx, post.ID)
	if err != nil || still == nil {
		t.Fatalf("Post should survive a non-owner delete, got %+v, %v", still, err)
	}

	// Right owner: deleted
	deleted, err = posts.Delete(ctx, post.ID, owner.ID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if !deleted {
		t.Error("Delete by owner should report deleted")
	}
}

func TestNotificationRepository_UpsertCoalesces(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()
	notifs := NewNotificationRepository(repo)

	now := time.Now().UTC()
	for replyID := int64(10); replyID <= 12; replyID++ {
		if err := notifs.Upsert(ctx, 1, 5, replyID, now); err != nil {
			t.Fatalf("Upsert failed: %v", err)
		}
	}

	notif, err := notifs.GetByPostID(ctx, 5)
	if err != nil {
		t.Fatalf("GetByPostID failed: %v", err)
	}
	if notif == nil {
		t.Fatal("Expected an open notification")
	}
	if notif.NumOfReplies != 3 {
		t.Errorf("Expected num_of_replies 3, got %d", notif.NumOfReplies)
	}
	if notif.FirstNewReplyID != 10 {
		t.Errorf("Expected first_new_reply_id 10, got %d", notif.FirstNewReplyID)
	}

	var count int64
	if err := repo.db.Model(&models.Notification{}).Where("post_id = ?", 5).Count(&count).Error; err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected exactly one notification row, got %d", count)
	}
}

func TestNotificationRepository_DeleteIdempotent(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()
	notifs := NewNotificationRepository(repo)

	if err := notifs.Upsert(ctx, 1, 5, 10, time.Now().UTC()); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	notif, err := notifs.GetByPostID(ctx, 5)
	if err != nil || notif == nil {
		t.Fatalf("Expected a notification, got %+v, %v", notif, err)
	}

	// Wrong owner cannot dismiss
	deleted, err := notifs.Delete(ctx, notif.ID, 99)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if deleted {
		t.Error("Dismiss by non-owner should report not-deleted")
	}

	deleted, err = notifs.Delete(ctx, notif.ID, 1)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if !deleted {
		t.Error("Dismiss by owner should report deleted")
	}

	// Second dismissal: already gone, not an error
	deleted, err = notifs.Delete(ctx, notif.ID, 1)
	if err != nil {
		t.Fatalf("Second dismiss errored: %v", err)
	}
	if deleted {
		t.Error("Second dismiss should report not-deleted")
	}
}
