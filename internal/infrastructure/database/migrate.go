package database

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fitrahmoef/Saintara-Mobile/internal/domain/model"
)

// Migrate runs database migrations
func Migrate(db *gorm.DB, logger *zap.Logger) error {
	logger.Info("Running database migrations...")

	postgres := db.Dialector.Name() == "postgres"

	if postgres {
		logger.Info("Creating PostgreSQL extensions...")
		if err := createExtensions(db); err != nil {
			logger.Error("Failed to create extensions", zap.Error(err))
			return err
		}
	}

	// Auto-migrate all models
	logger.Info("Running GORM auto-migrations...")
	err := db.AutoMigrate(
		&model.User{},
		&model.Order{},
		&model.Participant{},
		&model.Payment{},
		&model.Activity{},
		&model.PaymentNotification{},
		&model.TestResult{},
	)
	if err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		return err
	}
	logger.Info("GORM auto-migrations completed successfully")

	// Create custom indexes and constraints
	logger.Info("Creating custom indexes...")
	if err := createCustomIndexes(db); err != nil {
		logger.Error("Failed to create custom indexes", zap.Error(err))
		return err
	}

	if postgres {
		logger.Info("Creating database functions...")
		if err := createDatabaseFunctions(db); err != nil {
			logger.Error("Failed to create database functions", zap.Error(err))
			return err
		}
	}

	logger.Info("Database migrations completed successfully")
	return nil
}

// createCustomIndexes creates indexes that GORM doesn't handle automatically
func createCustomIndexes(db *gorm.DB) error {
	// At most one PENDING payment attempt per order
	if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS unique_pending_payment_per_order ON payments (order_id) WHERE status = 'PENDING'`).Error; err != nil {
		return err
	}

	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_payment_notifications_unprocessed ON payment_notifications (created_at) WHERE status IN ('RECEIVED', 'FAILED')`).Error; err != nil {
		return err
	}

	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_activities_user_created ON activities (user_id, created_at)`).Error; err != nil {
		return err
	}

	return nil
}

// createExtensions creates required PostgreSQL extensions
func createExtensions(db *gorm.DB) error {
	return db.Exec(`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`).Error
}

// createDatabaseFunctions keeps the activity log append-only at the database level
func createDatabaseFunctions(db *gorm.DB) error {
	if err := db.Exec(`
CREATE OR REPLACE FUNCTION reject_activity_changes() RETURNS TRIGGER AS $$
BEGIN
    RAISE EXCEPTION 'activities are append-only';
END;
$$ LANGUAGE plpgsql`).Error; err != nil {
		return err
	}

	if err := db.Exec(`DROP TRIGGER IF EXISTS activities_append_only ON activities`).Error; err != nil {
		return err
	}

	return db.Exec(`
CREATE TRIGGER activities_append_only
    BEFORE UPDATE OR DELETE ON activities
    FOR EACH ROW EXECUTE FUNCTION reject_activity_changes()`).Error
}
