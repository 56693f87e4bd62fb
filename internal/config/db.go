package config

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"estate-reconciliation-backend/internal/models"
)

// InitDB opens the PostgreSQL connection and migrates the schema.
func InitDB(cfg *Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	if err := db.AutoMigrate(
		&models.Account{},
		&models.BankStatementLine{},
		&models.Receipt{},
		&models.Expenditure{},
		&models.ReconciliationLink{},
		&models.StatementImport{},
		&models.MatchAuditLog{},
	); err != nil {
		return nil, fmt.Errorf("migrating schema: %w", err)
	}

	logrus.Info("database connected and migrated")
	return db, nil
}
