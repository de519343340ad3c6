package journal

import (
	"fmt"
	"time"

	models "tradejournal-bot/database/models_pkg"

	"github.com/google/uuid"
)

// QuotaError rejects a write because the free-tier monthly cap is reached
type QuotaError struct {
	Cap int
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("free plan limit reached: %d trades per month", e.Cap)
}

// TradeCounter is the counting surface the limiter needs. Implemented by
// database/trades.Repository.
type TradeCounter interface {
	CountInRange(accountID uuid.UUID, from, to time.Time) (int64, error)
}

// PlanLimiter enforces the monthly trade quota for free-tier accounts.
// This is a soft cap: count-then-write is not transactional against
// concurrent writers from the same account, and an occasional off-by-one
// overshoot under race is tolerated.
type PlanLimiter struct {
	trades TradeCounter
	cap    int
	now    func() time.Time
}

// NewPlanLimiter creates a limiter with the configured monthly cap
func NewPlanLimiter(trades TradeCounter, monthlyCap int) *PlanLimiter {
	return &PlanLimiter{trades: trades, cap: monthlyCap, now: time.Now}
}

// CheckAndReserve allows or rejects one pending write. Paid tiers bypass the
// check entirely.
func (l *PlanLimiter) CheckAndReserve(account *models.Account) error {
	if !account.IsFree() {
		return nil
	}

	from, to := currentMonthUTC(l.now())
	count, err := l.trades.CountInRange(account.ID, from, to)
	if err != nil {
		return fmt.Errorf("quota check: %w", err)
	}
	if count >= int64(l.cap) {
		return &QuotaError{Cap: l.cap}
	}
	return nil
}

// currentMonthUTC returns [first-of-month 00:00:00, first-of-next-month
// 00:00:00) in UTC.
func currentMonthUTC(now time.Time) (time.Time, time.Time) {
	now = now.UTC()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)
	return from, to
}
