package tokens

import (
	"errors"
	"fmt"
	"time"

	models "tradejournal-bot/database/models_pkg"

	"gorm.io/gorm"
)

// ErrNotFound is returned when no live token row matches the code.
var ErrNotFound = errors.New("connect token not found")

// Repository handles database operations for the durable connect-token fallback table
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new tokens repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Insert records a new token row with an explicit expiry timestamp
func (r *Repository) Insert(token *models.ConnectToken) error {
	if err := r.db.Create(token).Error; err != nil {
		return fmt.Errorf("Insert: %w", err)
	}
	return nil
}

// Exists reports whether a token row with this code is present
func (r *Repository) Exists(code string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.ConnectToken{}).Where("token = ?", code).Count(&count).Error; err != nil {
		return false, fmt.Errorf("Exists: %w", err)
	}
	return count > 0, nil
}

// FindByToken retrieves a token row by its code
func (r *Repository) FindByToken(code string) (*models.ConnectToken, error) {
	var token models.ConnectToken
	if err := r.db.First(&token, "token = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("FindByToken: %w", err)
	}
	return &token, nil
}

// DeleteByToken removes a token row and reports whether this caller deleted it.
// The rows-affected check is what makes concurrent redemption exactly-once: only
// one of two racing consumers observes a deleted row.
func (r *Repository) DeleteByToken(code string) (bool, error) {
	result := r.db.Where("token = ?", code).Delete(&models.ConnectToken{})
	if result.Error != nil {
		return false, fmt.Errorf("DeleteByToken: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// PurgeExpired removes all token rows past their expiry
func (r *Repository) PurgeExpired(now time.Time) error {
	if err := r.db.Where("expires_at < ?", now).Delete(&models.ConnectToken{}).Error; err != nil {
		return fmt.Errorf("PurgeExpired: %w", err)
	}
	return nil
}
