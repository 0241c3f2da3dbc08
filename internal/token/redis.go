package token

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	fieldToken     = "token"
	fieldExpiresAt = "expiresAt"
)

// RedisStore keeps one hash per installation with the token value and expiry,
// and sets the key TTL to the token expiry so stale entries self-evict.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore wraps an existing Redis client.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func installationKey(installationID int64) string {
	return fmt.Sprintf("installation:%d:token", installationID)
}

// GetToken reads the cached token for the installation. A missing or already
// evicted key is reported as ErrTokenNotFound.
func (s *RedisStore) GetToken(ctx context.Context, installationID int64) (Token, error) {
	fields, err := s.client.HGetAll(ctx, installationKey(installationID)).Result()
	if err != nil {
		return Token{}, fmt.Errorf("redis hgetall: %w", err)
	}

	if len(fields) == 0 {
		return Token{}, ErrTokenNotFound
	}

	expiresAt, err := time.Parse(time.RFC3339, fields[fieldExpiresAt])
	if err != nil {
		return Token{}, fmt.Errorf("parse cached expiry: %w", err)
	}

	return Token{Value: fields[fieldToken], ExpiresAt: expiresAt}, nil
}

// SetToken stores the token under the installation key with a TTL matching
// its expiry.
func (s *RedisStore) SetToken(ctx context.Context, installationID int64, tok Token) error {
	key := installationKey(installationID)

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key, fieldToken, tok.Value, fieldExpiresAt, tok.ExpiresAt.UTC().Format(time.RFC3339))
	pipe.ExpireAt(ctx, key, tok.ExpiresAt)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis store token: %w", err)
	}

	return nil
}
