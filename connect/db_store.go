package connect

import (
	"context"
	"errors"
	"fmt"
	"time"

	models "tradejournal-bot/database/models_pkg"
	"tradejournal-bot/database/tokens"

	"github.com/google/uuid"
)

const dbIssueRetries = 20

// TokenRepository is the durable-table surface DatabaseStore needs.
// Implemented by database/tokens.Repository.
type TokenRepository interface {
	Insert(token *models.ConnectToken) error
	Exists(code string) (bool, error)
	FindByToken(code string) (*models.ConnectToken, error)
	DeleteByToken(code string) (bool, error)
	PurgeExpired(now time.Time) error
}

// DatabaseStore is the durable token backend used when Redis is unavailable.
// Rows carry an explicit expiry timestamp and are swept opportunistically on
// every operation.
type DatabaseStore struct {
	repo TokenRepository
	now  func() time.Time
}

// NewDatabaseStore creates a Postgres-backed token store
func NewDatabaseStore(repo TokenRepository) *DatabaseStore {
	return &DatabaseStore{repo: repo, now: time.Now}
}

// Issue purges expired rows, then loops generate-and-uniqueness-check until a
// free code is found.
func (s *DatabaseStore) Issue(_ context.Context, accountID string) (string, error) {
	accountUUID, err := uuid.Parse(accountID)
	if err != nil {
		return "", fmt.Errorf("db issue: invalid account id: %w", err)
	}

	now := s.now().UTC()
	if err := s.repo.PurgeExpired(now); err != nil {
		return "", fmt.Errorf("db issue: %w", err)
	}

	for i := 0; i < dbIssueRetries; i++ {
		token, err := generateToken()
		if err != nil {
			return "", err
		}
		exists, err := s.repo.Exists(token)
		if err != nil {
			return "", fmt.Errorf("db issue: %w", err)
		}
		if exists {
			continue
		}
		row := &models.ConnectToken{
			Token:     token,
			AccountID: accountUUID,
			ExpiresAt: now.Add(TokenTTL),
		}
		if err := s.repo.Insert(row); err != nil {
			return "", fmt.Errorf("db issue: %w", err)
		}
		return token, nil
	}
	return "", fmt.Errorf("db issue: no free code after %d attempts", dbIssueRetries)
}

// Consume locates the row, deletes expired rows as a side effect, and deletes
// the live row in the same logical step. The rows-affected guard in
// DeleteByToken keeps redemption exactly-once under concurrency.
func (s *DatabaseStore) Consume(_ context.Context, token string) (string, error) {
	row, err := s.repo.FindByToken(token)
	if err != nil {
		if errors.Is(err, tokens.ErrNotFound) {
			return "", ErrTokenNotFound
		}
		return "", fmt.Errorf("db consume: %w", err)
	}

	if row.ExpiresAt.Before(s.now().UTC()) {
		_, _ = s.repo.DeleteByToken(token)
		return "", ErrTokenNotFound
	}

	deleted, err := s.repo.DeleteByToken(token)
	if err != nil {
		return "", fmt.Errorf("db consume: %w", err)
	}
	if !deleted {
		// A concurrent redeemer got here first.
		return "", ErrTokenNotFound
	}
	return row.AccountID.String(), nil
}
