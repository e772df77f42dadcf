package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/letterbox/letterbox/internal/db"
)

// Reason classifies why a credential failed to resolve
type Reason int

// Failure reasons. MissingCredential and Unauthenticated are client
// failures; StorageError is a server fault and must never be presented to
// the user as "please log in".
const (
	MissingCredential Reason = iota
	Unauthenticated
	StorageError
)

func (r Reason) String() string {
	switch r {
	case MissingCredential:
		return "missing credential"
	case Unauthenticated:
		return "unauthenticated"
	case StorageError:
		return "storage error"
	}
	return "unknown"
}

// AuthError is the typed failure returned by Gate.Resolve
type AuthError struct {
	Reason Reason
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("auth: %s: %v", e.Reason, e.Err)
	}
	return "auth: " + e.Reason.String()
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// Gate resolves a client-supplied credential token to a user identity.
// The token is the stored password hash itself, matched exactly.
type Gate struct {
	users  *db.UserRepository
	tokens *db.TokenRepository
	now    func() time.Time
}

// NewGate creates a gate backed by the repository
func NewGate(repo *db.Repository) *Gate {
	return &Gate{
		users:  db.NewUserRepository(repo),
		tokens: db.NewTokenRepository(repo),
		now:    time.Now,
	}
}

// Resolve maps a credential token to a user id. Expired tokens are treated
// as absent, not purged; cleanup is out of scope here.
func (g *Gate) Resolve(ctx context.Context, credential string) (int64, *AuthError) {
	if credential == "" {
		return 0, &AuthError{Reason: MissingCredential}
	}

	user, err := g.users.GetByPasswordHash(ctx, credential)
	if err != nil {
		return 0, &AuthError{Reason: StorageError, Err: err}
	}
	if user == nil {
		return 0, &AuthError{Reason: Unauthenticated}
	}

	token, err := g.tokens.GetByUserID(ctx, user.ID)
	if err != nil {
		return 0, &AuthError{Reason: StorageError, Err: err}
	}
	if token == nil || !token.Live(g.now().UTC()) {
		return 0, &AuthError{Reason: Unauthenticated}
	}

	return user.ID, nil
}
