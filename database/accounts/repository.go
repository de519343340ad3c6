package accounts

import (
	"errors"
	"fmt"

	models "tradejournal-bot/database/models_pkg"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrNotFound is returned when no account matches the lookup.
var ErrNotFound = errors.New("account not found")

// Repository handles database operations for accounts
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new accounts repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ByID retrieves an account by its UUID primary key
func (r *Repository) ByID(id uuid.UUID) (*models.Account, error) {
	var account models.Account
	if err := r.db.First(&account, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ByID: %w", err)
	}
	return &account, nil
}

// ByAccountID retrieves an account by its short shareable identifier (TRD-XXXXX)
func (r *Repository) ByAccountID(accountID string) (*models.Account, error) {
	var account models.Account
	if err := r.db.First(&account, "account_id = ?", accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ByAccountID: %w", err)
	}
	return &account, nil
}

// ByChatID retrieves the account bound to a Telegram chat, if any
func (r *Repository) ByChatID(chatID int64) (*models.Account, error) {
	var account models.Account
	err := r.db.First(&account, "telegram_chat_id = ? AND telegram_connected = true", chatID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ByChatID: %w", err)
	}
	return &account, nil
}

// BindChat records the chat binding on the account. Idempotent when re-binding
// the same pair.
func (r *Repository) BindChat(accountID uuid.UUID, chatID int64, username string) error {
	result := r.db.Model(&models.Account{}).
		Where("id = ?", accountID).
		Updates(map[string]interface{}{
			"telegram_chat_id":   chatID,
			"telegram_username":  username,
			"telegram_connected": true,
		})
	if result.Error != nil {
		return fmt.Errorf("BindChat: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UnbindChat clears the chat binding on the account
func (r *Repository) UnbindChat(accountID uuid.UUID) error {
	result := r.db.Model(&models.Account{}).
		Where("id = ?", accountID).
		Updates(map[string]interface{}{
			"telegram_chat_id":   nil,
			"telegram_connected": false,
		})
	if result.Error != nil {
		return fmt.Errorf("UnbindChat: %w", result.Error)
	}
	return nil
}

// Create inserts a new account
func (r *Repository) Create(account *models.Account) error {
	if err := r.db.Create(account).Error; err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}
