package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Plan tiers. Free accounts are quota-limited and cannot use the Telegram link.
const (
	PlanFree  = "free"
	PlanPro   = "pro"
	PlanElite = "elite"
)

// Account represents a journal account that may be linked to one Telegram chat.
//
// Key Fields:
//   - AccountID: human-shareable short identifier (TRD-XXXXX) shown on the dashboard
//   - Plan: subscription tier (free, pro, elite) gating features and quota
//   - TelegramChatID: the bound chat, unique across accounts; nil when not linked
//   - TelegramConnected: whether the binding is active
type Account struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email             string    `gorm:"uniqueIndex;not null" json:"email"`
	Name              string    `gorm:"not null" json:"name"`
	AccountID         string    `gorm:"size:16;uniqueIndex;not null" json:"account_id"`
	Plan              string    `gorm:"size:16;not null;default:free" json:"plan"`
	TelegramChatID    *int64    `gorm:"uniqueIndex" json:"telegram_chat_id,omitempty"`
	TelegramUsername  string    `gorm:"size:64" json:"telegram_username,omitempty"`
	TelegramConnected bool      `gorm:"not null;default:false" json:"telegram_connected"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// TableName specifies the table name for Account
func (Account) TableName() string {
	return "accounts"
}

// BeforeCreate assigns a UUID primary key when missing
func (a *Account) BeforeCreate(_ *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// IsFree reports whether the account is on the free tier
func (a *Account) IsFree() bool {
	return a.Plan == "" || a.Plan == PlanFree
}

// ConnectToken is the durable fallback row for a Telegram connect code.
// The primary store is Redis with a native TTL; rows here carry an explicit
// expiry timestamp and are swept on access.
type ConnectToken struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Token     string    `gorm:"size:16;uniqueIndex;not null" json:"token"`
	AccountID uuid.UUID `gorm:"type:uuid;not null" json:"account_id"`
	ExpiresAt time.Time `gorm:"index;not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for ConnectToken
func (ConnectToken) TableName() string {
	return "connect_tokens"
}

// BeforeCreate assigns a UUID primary key when missing
func (t *ConnectToken) BeforeCreate(_ *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// Trade directions and results
const (
	DirectionLong  = "LONG"
	DirectionShort = "SHORT"

	ResultWin       = "WIN"
	ResultLoss      = "LOSS"
	ResultBreakEven = "BREAK_EVEN"
	ResultPending   = "PENDING"
)

// Input source tags recorded on persisted trades
const (
	InputText       = "text"
	InputScreenshot = "screenshot"
	InputVoice      = "voice"
)

// Trade represents a persisted journal entry. Immutable once created except for
// downstream mistake annotations which are out of scope here.
//
// Key Fields:
//   - Instrument: ticker symbol, the mandatory anchor field
//   - Direction: LONG or SHORT, may be empty when unknown
//   - Result: WIN, LOSS, BREAK_EVEN or PENDING
//   - InputType: text, screenshot or voice
//   - RawInput: original payload kept for audit and replay
type Trade struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AccountID  uuid.UUID `gorm:"type:uuid;index;not null" json:"account_id"`
	Instrument string    `gorm:"size:16;not null" json:"instrument"`
	Direction  string    `gorm:"size:8" json:"direction,omitempty"`
	EntryPrice *float64  `gorm:"type:decimal(16,4)" json:"entry_price,omitempty"`
	ExitPrice  *float64  `gorm:"type:decimal(16,4)" json:"exit_price,omitempty"`
	Result     string    `gorm:"size:16" json:"result,omitempty"`
	RMultiple  *float64  `gorm:"type:decimal(8,4)" json:"r_multiple,omitempty"`
	Emotion    string    `gorm:"size:32" json:"emotion,omitempty"`
	InputType  string    `gorm:"size:16" json:"input_type,omitempty"`
	RawInput   string    `gorm:"type:jsonb" json:"raw_input,omitempty"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

// TableName specifies the table name for Trade
func (Trade) TableName() string {
	return "trades"
}

// BeforeCreate assigns a UUID primary key when missing
func (t *Trade) BeforeCreate(_ *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
