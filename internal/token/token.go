package token

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Token is a GitHub App installation access token together with its expiry.
type Token struct {
	Value     string
	ExpiresAt time.Time
}

// Expired reports whether the token is unusable at the given instant.
func (t Token) Expired(now time.Time) bool {
	return t.Value == "" || !now.Before(t.ExpiresAt)
}

// Authenticator performs the actual installation-token exchange against
// GitHub. It is a single-method capability so tests can substitute it.
type Authenticator interface {
	CreateInstallationToken(ctx context.Context, installationID int64) (Token, error)
}

// Store persists tokens keyed by installation id. Implementations must report
// a miss with ErrTokenNotFound and keep writes scoped to the installation key,
// with a TTL matching the token expiry.
type Store interface {
	GetToken(ctx context.Context, installationID int64) (Token, error)
	SetToken(ctx context.Context, installationID int64, tok Token) error
}

// ErrTokenNotFound indicates no cached token exists for the installation.
var ErrTokenNotFound = errors.New("token: not found")

// Service resolves installation tokens, caching them in the injected Store.
// Concurrent refreshes for the same installation may race; the overwrite is
// last-write-wins and any valid token is equally usable.
type Service struct {
	store Store
	auth  Authenticator
	log   *slog.Logger
	now   func() time.Time
}

// NewService constructs a Service. The logger may be nil.
func NewService(store Store, auth Authenticator, log *slog.Logger) *Service {
	return &Service{store: store, auth: auth, log: log, now: time.Now}
}

// GetAppToken returns a valid installation access token, reading the cache
// first and exchanging a fresh one on miss or expiry. A store failure is
// treated as fatal rather than as a miss, so a stale token can never be
// served past an unreachable cache. Authenticator failures propagate
// unchanged.
func (s *Service) GetAppToken(ctx context.Context, installationID int64) (string, error) {
	if installationID <= 0 {
		return "", fmt.Errorf("installation id must be positive, got %d", installationID)
	}

	cached, err := s.store.GetToken(ctx, installationID)
	if err != nil && !errors.Is(err, ErrTokenNotFound) {
		return "", fmt.Errorf("read cached token for installation %d: %w", installationID, err)
	}

	if err == nil && !cached.Expired(s.now()) {
		return cached.Value, nil
	}

	fresh, err := s.auth.CreateInstallationToken(ctx, installationID)
	if err != nil {
		if s.log != nil {
			s.log.Error("installation token exchange failed", "installation_id", installationID, "error", err)
		}
		return "", err
	}

	if err := s.store.SetToken(ctx, installationID, fresh); err != nil {
		return "", fmt.Errorf("cache token for installation %d: %w", installationID, err)
	}

	return fresh.Value, nil
}
