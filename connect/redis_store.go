package connect

import (
	"context"
	"errors"
	"fmt"

	"tradejournal-bot/cache"
)

const (
	redisKeyPrefix    = "telegram_connect_token:"
	redisIssueRetries = 10
)

// RedisStore is the primary token backend. Codes are keys with a native TTL;
// SET NX makes issuance collision-safe and GETDEL makes consumption atomic in
// a single round trip.
type RedisStore struct {
	redis *cache.RedisClient
}

// NewRedisStore creates a Redis-backed token store
func NewRedisStore(redis *cache.RedisClient) *RedisStore {
	return &RedisStore{redis: redis}
}

// Issue generates a code and claims it with SET NX and the token TTL,
// retrying on the (unlikely) collision with a live code.
func (s *RedisStore) Issue(ctx context.Context, accountID string) (string, error) {
	for i := 0; i < redisIssueRetries; i++ {
		token, err := generateToken()
		if err != nil {
			return "", err
		}
		created, err := s.redis.SetNX(ctx, redisKeyPrefix+token, accountID, TokenTTL)
		if err != nil {
			return "", fmt.Errorf("redis issue: %w", err)
		}
		if created {
			return token, nil
		}
	}
	return "", fmt.Errorf("redis issue: no free code after %d attempts", redisIssueRetries)
}

// Consume atomically fetches and deletes the code. Two concurrent redeemers
// cannot both succeed: GETDEL is a single Redis command.
func (s *RedisStore) Consume(ctx context.Context, token string) (string, error) {
	accountID, err := s.redis.GetDel(ctx, redisKeyPrefix+token)
	if errors.Is(err, cache.ErrNil) {
		return "", ErrTokenNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis consume: %w", err)
	}
	return accountID, nil
}
