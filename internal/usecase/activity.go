package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fitrahmoef/Saintara-Mobile/internal/domain/entity"
	"github.com/fitrahmoef/Saintara-Mobile/internal/domain/model"
	"github.com/fitrahmoef/Saintara-Mobile/internal/domain/repository"
)

const (
	defaultActivityLimit = 20
	maxActivityLimit     = 100
)

func newActivity(userID uuid.UUID, action model.ActivityAction, label, description, entityType, entityID string) *model.Activity {
	return &model.Activity{
		UserID:      userID,
		Action:      action,
		Label:       label,
		Description: description,
		EntityType:  entityType,
		EntityID:    entityID,
	}
}

// ActivityUsecase reads a user's audit trail
type ActivityUsecase struct {
	store  repository.Store
	logger *zap.Logger
}

func NewActivityUsecase(store repository.Store, logger *zap.Logger) *ActivityUsecase {
	return &ActivityUsecase{
		store:  store,
		logger: logger,
	}
}

// List returns the principal's most recent activities, newest first
func (u *ActivityUsecase) List(ctx context.Context, principal entity.Principal, limit int) ([]*model.Activity, error) {
	if limit < 1 {
		limit = defaultActivityLimit
	} else if limit > maxActivityLimit {
		limit = maxActivityLimit
	}

	activities, err := u.store.Activities().ListByUser(ctx, principal.UserID, limit)
	if err != nil {
		u.logger.Error("failed to list activities",
			zap.String("user_id", principal.UserID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	return activities, nil
}
