package journal

import (
	"encoding/json"
	"fmt"
	"time"

	models "tradejournal-bot/database/models_pkg"
	"tradejournal-bot/extract"

	"github.com/google/uuid"
)

// TradeStore is the persistence surface the journal needs. Implemented by
// database/trades.Repository.
type TradeStore interface {
	Create(trade *models.Trade) error
	CountInRange(accountID uuid.UUID, from, to time.Time) (int64, error)
}

// Broadcaster pushes journal events to connected dashboard clients.
// Implemented by realtime.Hub.
type Broadcaster interface {
	Broadcast(event string, payload interface{})
}

// Service runs the persistence gate for one draft: validate, check quota,
// write, announce. A draft that fails any step produces a typed error and no
// partial write.
type Service struct {
	trades  TradeStore
	limiter *PlanLimiter
	hub     Broadcaster
}

// NewService creates the journal service
func NewService(trades TradeStore, monthlyCap int, hub Broadcaster) *Service {
	return &Service{
		trades:  trades,
		limiter: NewPlanLimiter(trades, monthlyCap),
		hub:     hub,
	}
}

// Log validates and persists one draft for an account. inputType tags the
// source (text, screenshot, voice); raw is kept verbatim for audit and
// replay.
func (s *Service) Log(account *models.Account, draft *extract.TradeDraft, inputType string, raw map[string]interface{}) (*models.Trade, error) {
	if err := Validate(draft); err != nil {
		return nil, err
	}
	if err := s.limiter.CheckAndReserve(account); err != nil {
		return nil, err
	}

	rawJSON := "{}"
	if raw != nil {
		if data, err := json.Marshal(raw); err == nil {
			rawJSON = string(data)
		}
	}

	trade := &models.Trade{
		AccountID:  account.ID,
		Instrument: draft.Instrument,
		Direction:  draft.Direction,
		EntryPrice: draft.EntryPrice,
		ExitPrice:  draft.ExitPrice,
		Result:     draft.Result,
		RMultiple:  draft.RMultiple,
		Emotion:    draft.Emotion,
		InputType:  inputType,
		RawInput:   rawJSON,
	}

	if err := s.trades.Create(trade); err != nil {
		return nil, fmt.Errorf("persist trade: %w", err)
	}

	if s.hub != nil {
		s.hub.Broadcast("trade_logged", trade)
	}

	return trade, nil
}
