package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/fitrahmoef/Saintara-Mobile/internal/domain/entity"
	"github.com/fitrahmoef/Saintara-Mobile/internal/domain/model"
)

// ResultFilter narrows result listings. A nil UserID lists every result.
type ResultFilter struct {
	UserID        *uuid.UUID
	CharacterType string
}

type ResultRepository interface {
	List(ctx context.Context, filter ResultFilter, params entity.PaginationParams) ([]*model.TestResult, int64, error)
	// FindByID preloads the participant and its order
	FindByID(ctx context.Context, id uuid.UUID) (*model.TestResult, error)
	Recent(ctx context.Context, userID uuid.UUID, limit int) ([]*model.TestResult, error)
}
