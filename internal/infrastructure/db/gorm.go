package db

import (
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"coven-backend/internal/domain/covenant"
	"coven-backend/internal/domain/dna"
	"coven-backend/internal/domain/document"
	"coven-backend/internal/domain/loan"
	"coven-backend/internal/domain/risk"
	"coven-backend/internal/domain/timeline"
)

func OpenGorm(dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}
	db, err := gorm.Open(mysql.Open(dsn), cfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(30)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the schema for every domain table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&loan.Loan{},
		&covenant.Covenant{},
		&timeline.Event{},
		&risk.Prediction{},
		&dna.LoanDNA{},
		&dna.ExtractedCovenant{},
		&document.Document{},
	)
}
