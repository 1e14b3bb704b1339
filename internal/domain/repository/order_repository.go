package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/fitrahmoef/Saintara-Mobile/internal/domain/entity"
	"github.com/fitrahmoef/Saintara-Mobile/internal/domain/model"
)

// OrderFilter narrows order listings. A nil UserID lists every user's orders.
type OrderFilter struct {
	UserID *uuid.UUID
	Status model.OrderStatus
}

// OrderStats aggregates a user's orders for the dashboard
type OrderStats struct {
	Total             int64
	Completed         int64
	PendingPayment    int64
	Active            int64
	TotalParticipants int64
}

type OrderRepository interface {
	// Create inserts the order together with its participants
	Create(ctx context.Context, order *model.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	// FindByIDForUpdate locks the order row until the transaction ends
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Order, error)
	// FindDetail loads participants and payment attempts, newest attempt first
	FindDetail(ctx context.Context, id uuid.UUID) (*model.Order, error)
	List(ctx context.Context, filter OrderFilter, params entity.PaginationParams) ([]*model.Order, int64, error)
	// UpdateStatus moves the order from one status to another and reports whether it did
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.OrderStatus, extra map[string]interface{}) (bool, error)
	Stats(ctx context.Context, userID uuid.UUID) (*OrderStats, error)
}
