// Package database provides database connection management for the tradejournal-bot
// ingestion service.
//
// This package includes:
//   - Database connection management using GORM and PostgreSQL
//   - Schema auto-migration for accounts, trades and connect tokens
//
// Data Models:
//
//	All data models (Account, Trade, ConnectToken) are defined in the models_pkg
//	package to avoid circular import dependencies. Per-domain repositories live in
//	the accounts, trades and tokens subpackages.
package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	models "tradejournal-bot/database/models_pkg"
)

// Database holds the GORM database connection and provides access to the underlying DB instance.
type Database struct {
	db *gorm.DB
}

// DB returns the underlying GORM database instance for direct access when needed.
func (d *Database) DB() *gorm.DB {
	return d.db
}

// Connect establishes database connection using GORM
func Connect(host string, port int, dbname, user, password string) (*Database, error) {
	dsn := fmt.Sprintf("host=%s port=%d dbname=%s user=%s password=%s sslmode=disable",
		host, port, dbname, user, password)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent), // Silent logging for production
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &Database{db: db}, nil
}

// InitSchema performs auto-migration for all models
func (d *Database) InitSchema() error {
	if err := d.db.AutoMigrate(
		&models.Account{},
		&models.ConnectToken{},
		&models.Trade{},
	); err != nil {
		return fmt.Errorf("auto-migration failed: %w", err)
	}
	return nil
}

// Close closes the underlying database connection
func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
