package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fitrahmoef/Saintara-Mobile/internal/domain/model"
	domainRepo "github.com/fitrahmoef/Saintara-Mobile/internal/domain/repository"
)

type activityRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewActivityRepository creates a new activity log repository
func NewActivityRepository(db *gorm.DB, logger *zap.Logger) domainRepo.ActivityRepository {
	return &activityRepository{
		db:     db,
		logger: logger,
	}
}

func (r *activityRepository) Create(ctx context.Context, activity *model.Activity) error {
	if err := r.db.WithContext(ctx).Create(activity).Error; err != nil {
		r.logger.Error("Failed to append activity",
			zap.String("user_id", activity.UserID.String()),
			zap.String("action", string(activity.Action)),
			zap.Error(err))
		return fmt.Errorf("failed to append activity: %w", err)
	}
	return nil
}

func (r *activityRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*model.Activity, error) {
	var activities []*model.Activity

	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&activities).Error; err != nil {
		r.logger.Error("Failed to list activities",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	return activities, nil
}
