package database

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"vetcita/internal/config"
	"vetcita/internal/domain"
	"vetcita/internal/domain/appointment"
	"vetcita/internal/domain/catalog"
	"vetcita/internal/domain/pet"
)

// Connect opens the postgres pool with the configured limits.
func Connect(cfg config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("acquiring sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	log.Info("database connected",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Name),
	)
	return db, nil
}

// Migrate creates the schemas and tables. Tables live in three schemas:
// auth for accounts, clinical for pets/appointments/directories, audit for
// the trail.
func Migrate(db *gorm.DB, log *zap.Logger) error {
	for _, schema := range []string{"auth", "clinical", "audit"} {
		if err := db.Exec("CREATE SCHEMA IF NOT EXISTS " + schema).Error; err != nil {
			return fmt.Errorf("creating schema %s: %w", schema, err)
		}
	}

	start := time.Now()
	if err := db.AutoMigrate(
		&domain.User{},
		&domain.AuditLog{},
		&pet.Pet{},
		&catalog.Service{},
		&catalog.Veterinarian{},
		&appointment.Appointment{},
	); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	log.Info("migrations applied", zap.Duration("took", time.Since(start)))
	return nil
}
