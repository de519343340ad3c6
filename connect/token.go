// Package connect implements the single-use Telegram connect-code protocol.
//
// A code proves control of a chat identity: the dashboard issues it to an
// account holder, the holder sends it to the bot, and consuming it binds the
// chat to the account. Codes live for 15 minutes and are redeemable at most
// once even under concurrent redemption.
//
// The primary store is Redis (native TTL, atomic SET NX / GETDEL); the durable
// fallback is a Postgres table with explicit expiry timestamps. FallbackStore
// coordinates the two so call sites never branch on backend errors.
package connect

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"regexp"
	"time"
)

const (
	// TokenTTL is the absolute lifetime of a connect code.
	TokenTTL = 15 * time.Minute

	tokenPrefix   = "TM-"
	tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	tokenLength   = 6
)

var (
	// ErrTokenNotFound is returned when a code is unknown, already consumed or expired.
	ErrTokenNotFound = errors.New("connect token not found or expired")

	// ErrStoreUnavailable is returned only when both backends fail.
	ErrStoreUnavailable = errors.New("token storage unavailable")

	tokenPattern = regexp.MustCompile(`^TM-[A-Z0-9]{6}$`)
)

// Store issues and atomically consumes single-use connect codes.
// Consume returns the bound account id for exactly one caller per code.
type Store interface {
	Issue(ctx context.Context, accountID string) (string, error)
	Consume(ctx context.Context, token string) (string, error)
}

// ValidFormat reports whether a candidate string has the exact code shape.
// Routers check this before touching any backend.
func ValidFormat(token string) bool {
	return tokenPattern.MatchString(token)
}

// generateToken returns a fresh TM-XXXXXX code from a cryptographically
// strong random source.
func generateToken() (string, error) {
	buf := make([]byte, tokenLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generateToken: %w", err)
	}
	code := make([]byte, tokenLength)
	for i, b := range buf {
		code[i] = tokenAlphabet[int(b)%len(tokenAlphabet)]
	}
	return tokenPrefix + string(code), nil
}
