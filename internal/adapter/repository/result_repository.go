package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fitrahmoef/Saintara-Mobile/internal/domain/entity"
	"github.com/fitrahmoef/Saintara-Mobile/internal/domain/model"
	domainRepo "github.com/fitrahmoef/Saintara-Mobile/internal/domain/repository"
)

type resultRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewResultRepository creates a new test result repository
func NewResultRepository(db *gorm.DB, logger *zap.Logger) domainRepo.ResultRepository {
	return &resultRepository{
		db:     db,
		logger: logger,
	}
}

func (r *resultRepository) scoped(ctx context.Context, userID *uuid.UUID) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&model.TestResult{})
	if userID != nil {
		query = query.
			Joins("JOIN test_participants ON test_participants.id = test_results.participant_id").
			Joins("JOIN test_orders ON test_orders.id = test_participants.order_id").
			Where("test_orders.user_id = ?", *userID)
	}
	return query
}

func (r *resultRepository) List(ctx context.Context, filter domainRepo.ResultFilter, params entity.PaginationParams) ([]*model.TestResult, int64, error) {
	query := r.scoped(ctx, filter.UserID)
	if filter.CharacterType != "" {
		query = query.Where("test_results.character_type = ?", filter.CharacterType)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		r.logger.Error("Failed to count test results", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to count test results: %w", err)
	}

	var results []*model.TestResult
	err := query.
		Preload("Participant.Order").
		Order("test_results.completed_at DESC").
		Limit(params.Limit).
		Offset(params.CalculateOffset()).
		Find(&results).Error
	if err != nil {
		r.logger.Error("Failed to list test results", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to list test results: %w", err)
	}

	return results, total, nil
}

func (r *resultRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.TestResult, error) {
	var result model.TestResult

	err := r.db.WithContext(ctx).
		Preload("Participant.Order").
		Where("id = ?", id).
		First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to get test result",
			zap.String("result_id", id.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get test result: %w", err)
	}

	return &result, nil
}

func (r *resultRepository) Recent(ctx context.Context, userID uuid.UUID, limit int) ([]*model.TestResult, error) {
	var results []*model.TestResult

	err := r.scoped(ctx, &userID).
		Preload("Participant").
		Order("test_results.completed_at DESC").
		Limit(limit).
		Find(&results).Error
	if err != nil {
		r.logger.Error("Failed to get recent test results",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get recent test results: %w", err)
	}

	return results, nil
}
