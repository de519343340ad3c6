package trades

import (
	"fmt"
	"time"

	models "tradejournal-bot/database/models_pkg"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository handles database operations for journal trades
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new trades repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create saves a trade record
func (r *Repository) Create(trade *models.Trade) error {
	if err := r.db.Create(trade).Error; err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

// CountInRange counts an account's trades created in [from, to)
func (r *Repository) CountInRange(accountID uuid.UUID, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.Trade{}).
		Where("account_id = ? AND created_at >= ? AND created_at < ?", accountID, from, to).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("CountInRange: %w", err)
	}
	return count, nil
}

// Recent retrieves an account's most recent trades
func (r *Repository) Recent(accountID uuid.UUID, limit int) ([]models.Trade, error) {
	var trades []models.Trade
	query := r.db.Where("account_id = ?", accountID).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&trades).Error; err != nil {
		return nil, fmt.Errorf("Recent: %w", err)
	}
	return trades, nil
}
