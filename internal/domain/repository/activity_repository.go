package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/fitrahmoef/Saintara-Mobile/internal/domain/model"
)

// ActivityRepository is append-only
type ActivityRepository interface {
	Create(ctx context.Context, activity *model.Activity) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*model.Activity, error)
}
