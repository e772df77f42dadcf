package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/letterbox/letterbox/internal/db"
	"github.com/letterbox/letterbox/internal/models"
	"github.com/letterbox/letterbox/pkg/config"
	"github.com/letterbox/letterbox/pkg/logging"
)

// ErrActiveToken is returned by IssueToken when the user already holds a
// live token; the caller must refresh instead
var ErrActiveToken = errors.New("user already has an active token")

// Credentials owns user records and session tokens. Plaintext passwords are
// returned once at registration and never persisted.
type Credentials struct {
	users  *db.UserRepository
	tokens *db.TokenRepository

	secret         string
	passwordLength int
	tokenTTL       time.Duration

	logger *zap.Logger
	now    func() time.Time
}

// NewCredentials creates a credential service backed by the repository
func NewCredentials(repo *db.Repository, cfg *config.AuthConfig) *Credentials {
	return &Credentials{
		users:          db.NewUserRepository(repo),
		tokens:         db.NewTokenRepository(repo),
		secret:         cfg.Secret,
		passwordLength: cfg.PasswordLength,
		tokenTTL:       cfg.TokenTTL,
		logger:         logging.WithComponent("credentials"),
		now:            time.Now,
	}
}

// CreateUser registers a new account. The server generates the password;
// only its keyed hash is stored, and the plaintext is returned exactly once.
func (c *Credentials) CreateUser(ctx context.Context) (int64, string, error) {
	password, err := GeneratePassword(c.passwordLength)
	if err != nil {
		return 0, "", err
	}
	user := &models.User{
		PasswordHash: HashPassword(c.secret, password),
		CreatedAt:    c.now().UTC(),
	}
	if err := c.users.Create(ctx, user); err != nil {
		return 0, "", fmt.Errorf("failed to create user: %w", err)
	}
	c.logger.Info("User created", zap.Int64("user_id", user.ID))
	return user.ID, password, nil
}

// Authenticate resolves a plaintext password to its user. Returns nil, nil
// when no account matches; an error means the storage layer failed.
func (c *Credentials) Authenticate(ctx context.Context, password string) (*models.User, error) {
	return c.users.GetByPasswordHash(ctx, HashPassword(c.secret, password))
}

// IssueToken creates a session token expiring after the configured TTL.
// If a live token already exists the call fails with ErrActiveToken; an
// expired leftover row is reused by extending its expiry.
func (c *Credentials) IssueToken(ctx context.Context, userID int64) (*models.Token, error) {
	now := c.now().UTC()
	existing, err := c.tokens.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.Live(now) {
			return nil, ErrActiveToken
		}
		expiresAt := now.Add(c.tokenTTL)
		if _, err := c.tokens.Refresh(ctx, userID, expiresAt); err != nil {
			return nil, err
		}
		existing.ExpiresAt = expiresAt
		return existing, nil
	}

	token := &models.Token{
		UserID:    userID,
		ExpiresAt: now.Add(c.tokenTTL),
	}
	if err := c.tokens.Create(ctx, token); err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return token, nil
}

// RefreshToken extends the expiry of an existing token and reports whether
// a row was actually updated
func (c *Credentials) RefreshToken(ctx context.Context, userID int64) (bool, error) {
	return c.tokens.Refresh(ctx, userID, c.now().UTC().Add(c.tokenTTL))
}

// Login issues a token for the user, or refreshes the existing one
func (c *Credentials) Login(ctx context.Context, userID int64) (*models.Token, error) {
	token, err := c.IssueToken(ctx, userID)
	if err == nil {
		return token, nil
	}
	if !errors.Is(err, ErrActiveToken) {
		return nil, err
	}
	if _, err := c.RefreshToken(ctx, userID); err != nil {
		return nil, err
	}
	return c.tokens.GetByUserID(ctx, userID)
}

// DeleteUser removes an account and cascades to its posts, tokens, and
// notifications. Reports whether the account existed.
func (c *Credentials) DeleteUser(ctx context.Context, userID int64) (bool, error) {
	deleted, err := c.users.Delete(ctx, userID)
	if err != nil {
		return false, err
	}
	if deleted {
		c.logger.Info("User deleted", zap.Int64("user_id", userID))
	}
	return deleted, nil
}
