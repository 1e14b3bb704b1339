package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fitrahmoef/Saintara-Mobile/internal/domain/model"
	domainRepo "github.com/fitrahmoef/Saintara-Mobile/internal/domain/repository"
)

type notificationRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewNotificationRepository creates a new gateway notification repository
func NewNotificationRepository(db *gorm.DB, logger *zap.Logger) domainRepo.NotificationRepository {
	return &notificationRepository{
		db:     db,
		logger: logger,
	}
}

// Save records a notification; redeliveries with a known event key are ignored
func (r *notificationRepository) Save(ctx context.Context, notification *model.PaymentNotification) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "event_key"}},
			DoNothing: true,
		}).
		Create(notification)

	if result.Error != nil {
		r.logger.Error("Failed to save payment notification",
			zap.String("event_key", notification.EventKey),
			zap.String("provider", notification.Provider),
			zap.Error(result.Error))
		return false, fmt.Errorf("failed to save payment notification: %w", result.Error)
	}

	return result.RowsAffected == 1, nil
}

func (r *notificationRepository) FindByEventKey(ctx context.Context, eventKey string) (*model.PaymentNotification, error) {
	var notification model.PaymentNotification

	err := r.db.WithContext(ctx).
		Where("event_key = ?", eventKey).
		First(&notification).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to get payment notification",
			zap.String("event_key", eventKey),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get payment notification: %w", err)
	}

	return &notification, nil
}

// MarkProcessed marks a notification as applied
func (r *notificationRepository) MarkProcessed(ctx context.Context, eventKey string) error {
	now := time.Now()

	result := r.db.WithContext(ctx).
		Model(&model.PaymentNotification{}).
		Where("event_key = ?", eventKey).
		Updates(map[string]interface{}{
			"status":        model.NotificationStatusProcessed,
			"processed_at":  &now,
			"error_message": nil,
		})
	if result.Error != nil {
		r.logger.Error("Failed to mark notification as processed",
			zap.String("event_key", eventKey),
			zap.Error(result.Error))
		return fmt.Errorf("failed to mark notification as processed: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("payment notification not found: %s", eventKey)
	}

	return nil
}

// MarkFailed records why a notification could not be applied
func (r *notificationRepository) MarkFailed(ctx context.Context, eventKey string, err error) error {
	errorMsg := err.Error()

	result := r.db.WithContext(ctx).
		Model(&model.PaymentNotification{}).
		Where("event_key = ?", eventKey).
		Updates(map[string]interface{}{
			"status":        model.NotificationStatusFailed,
			"error_message": &errorMsg,
		})
	if result.Error != nil {
		r.logger.Error("Failed to mark notification as failed",
			zap.String("event_key", eventKey),
			zap.Error(result.Error))
		return fmt.Errorf("failed to mark notification as failed: %w", result.Error)
	}

	return nil
}
