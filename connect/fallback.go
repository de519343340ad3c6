package connect

import (
	"context"
	"errors"
	"log"
)

// FallbackStore coordinates the primary (Redis) and durable (Postgres) token
// backends. Selection lives here so call sites never branch on backend errors:
// primary-store failures fall through to the durable table, and only a failure
// of both surfaces as ErrStoreUnavailable.
type FallbackStore struct {
	primary Store // may be nil when Redis is down at startup
	durable Store
}

// NewFallbackStore creates the coordinating store. primary may be nil.
func NewFallbackStore(primary, durable Store) *FallbackStore {
	return &FallbackStore{primary: primary, durable: durable}
}

// Issue tries the primary store first, then the durable table.
func (s *FallbackStore) Issue(ctx context.Context, accountID string) (string, error) {
	if s.primary != nil {
		token, err := s.primary.Issue(ctx, accountID)
		if err == nil {
			return token, nil
		}
		log.Printf("⚠️  Primary token store issue failed, falling back to database: %v", err)
	}

	token, err := s.durable.Issue(ctx, accountID)
	if err != nil {
		log.Printf("⚠️  Durable token store issue failed: %v", err)
		return "", ErrStoreUnavailable
	}
	return token, nil
}

// Consume tries the primary store first. A miss there falls through to the
// durable table so codes issued while Redis was down stay redeemable.
func (s *FallbackStore) Consume(ctx context.Context, token string) (string, error) {
	if s.primary != nil {
		accountID, err := s.primary.Consume(ctx, token)
		if err == nil {
			return accountID, nil
		}
		if !errors.Is(err, ErrTokenNotFound) {
			log.Printf("⚠️  Primary token store consume failed, falling back to database: %v", err)
		}
	}

	accountID, err := s.durable.Consume(ctx, token)
	if err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			return "", ErrTokenNotFound
		}
		log.Printf("⚠️  Durable token store consume failed: %v", err)
		return "", ErrStoreUnavailable
	}
	return accountID, nil
}
