package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/fitrahmoef/Saintara-Mobile/internal/domain/model"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *model.Payment) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Payment, error)
	// FindByIDForUpdate locks the payment row; callers lock the order first
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Payment, error)
	FindByTransactionID(ctx context.Context, transactionID string) (*model.Payment, error)
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*model.Payment, error)
	HasPending(ctx context.Context, orderID uuid.UUID) (bool, error)
	// UpdateStatus is a compare-and-set on status; false means another writer won
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.PaymentStatus, extra map[string]interface{}) (bool, error)
	// AttachTransaction stores the gateway handle on a payment that is still PENDING
	AttachTransaction(ctx context.Context, id uuid.UUID, transactionID, token, redirectURL string) (bool, error)
	// CancelPendingByOrder moves every PENDING payment of the order to CANCELLED
	CancelPendingByOrder(ctx context.Context, orderID uuid.UUID) (int64, error)
}
