package db

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/salonbook/salon-scheduler/internal/config"
	"github.com/salonbook/salon-scheduler/internal/models"
)

func NewDB(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.Salon{},
		&models.Service{},
		&models.Staff{},
		&models.WorkingHours{},
		&models.Reservation{},
		&models.Review{},
		&models.AuditLog{},
	); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	// Constraints gorm tags cannot express live in the SQL migrations.
	if err := Migrate(ctx, db, logger); err != nil {
		return nil, err
	}

	if cfg.DefaultTimezone != "" {
		db.Exec(`
			UPDATE salons
			SET timezone = ?
			WHERE timezone IS NULL OR timezone = ''
		`, cfg.DefaultTimezone)
	}

	return db, nil
}
