package repository

import (
	"context"

	"github.com/fitrahmoef/Saintara-Mobile/internal/domain/model"
)

// NotificationRepository records inbound gateway notifications
type NotificationRepository interface {
	// Save inserts the notification unless its event key is already recorded.
	// It reports whether a new row was inserted.
	Save(ctx context.Context, notification *model.PaymentNotification) (bool, error)
	FindByEventKey(ctx context.Context, eventKey string) (*model.PaymentNotification, error)
	MarkProcessed(ctx context.Context, eventKey string) error
	MarkFailed(ctx context.Context, eventKey string, err error) error
}
