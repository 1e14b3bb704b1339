package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/fitrahmoef/Saintara-Mobile/internal/domain/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByVerificationToken(ctx context.Context, token string) (*model.User, error)
	Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error
}
