package repository

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	domainRepo "github.com/fitrahmoef/Saintara-Mobile/internal/domain/repository"
)

// store implements the Store interface over a gorm handle
type store struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewStore creates a new store instance
func NewStore(db *gorm.DB, logger *zap.Logger) domainRepo.Store {
	return &store{
		db:     db,
		logger: logger,
	}
}

func (s *store) Orders() domainRepo.OrderRepository {
	return NewOrderRepository(s.db, s.logger)
}

func (s *store) Payments() domainRepo.PaymentRepository {
	return NewPaymentRepository(s.db, s.logger)
}

func (s *store) Activities() domainRepo.ActivityRepository {
	return NewActivityRepository(s.db, s.logger)
}

func (s *store) Users() domainRepo.UserRepository {
	return NewUserRepository(s.db, s.logger)
}

func (s *store) Notifications() domainRepo.NotificationRepository {
	return NewNotificationRepository(s.db, s.logger)
}

func (s *store) Results() domainRepo.ResultRepository {
	return NewResultRepository(s.db, s.logger)
}

// WithinTransaction runs fn with a store bound to a single database transaction
func (s *store) WithinTransaction(ctx context.Context, fn func(tx domainRepo.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&store{db: tx, logger: s.logger})
	})
}
