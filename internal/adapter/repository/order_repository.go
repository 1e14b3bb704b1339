package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fitrahmoef/Saintara-Mobile/internal/domain/entity"
	"github.com/fitrahmoef/Saintara-Mobile/internal/domain/model"
	domainRepo "github.com/fitrahmoef/Saintara-Mobile/internal/domain/repository"
)

type orderRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewOrderRepository creates a new test order repository instance
func NewOrderRepository(db *gorm.DB, logger *zap.Logger) domainRepo.OrderRepository {
	return &orderRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts an order and its participants
func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		r.logger.Error("Failed to create test order",
			zap.String("order_number", order.OrderNumber),
			zap.Error(err))
		return fmt.Errorf("failed to create test order: %w", err)
	}
	return nil
}

// FindByID retrieves an order without relations
func (r *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	return r.first(ctx, r.db.WithContext(ctx), id)
}

// FindByIDForUpdate retrieves an order and locks its row
func (r *orderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	return r.first(ctx, r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

// FindDetail retrieves an order with participants and payment attempts
func (r *orderRepository) FindDetail(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	query := r.db.WithContext(ctx).
		Preload("Participants", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		})
	return r.first(ctx, query, id)
}

func (r *orderRepository) first(ctx context.Context, query *gorm.DB, id uuid.UUID) (*model.Order, error) {
	var order model.Order
	if err := query.Where("id = ?", id).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to get test order",
			zap.String("order_id", id.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get test order: %w", err)
	}
	return &order, nil
}

// List returns one page of orders, newest first, with the total count
func (r *orderRepository) List(ctx context.Context, filter domainRepo.OrderFilter, params entity.PaginationParams) ([]*model.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Order{})
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		r.logger.Error("Failed to count test orders", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to count test orders: %w", err)
	}

	var orders []*model.Order
	err := query.
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Order("created_at DESC").
		Limit(params.Limit).
		Offset(params.CalculateOffset()).
		Find(&orders).Error
	if err != nil {
		r.logger.Error("Failed to list test orders", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to list test orders: %w", err)
	}

	return orders, total, nil
}

// UpdateStatus applies a status change only if the order is still in from
func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.OrderStatus, extra map[string]interface{}) (bool, error) {
	fields := map[string]interface{}{"status": to}
	for k, v := range extra {
		fields[k] = v
	}

	result := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ? AND status = ?", id, from).
		Updates(fields)
	if result.Error != nil {
		r.logger.Error("Failed to update test order status",
			zap.String("order_id", id.String()),
			zap.String("from", string(from)),
			zap.String("to", string(to)),
			zap.Error(result.Error))
		return false, fmt.Errorf("failed to update test order status: %w", result.Error)
	}

	return result.RowsAffected == 1, nil
}

// Stats aggregates a user's orders in one pass
func (r *orderRepository) Stats(ctx context.Context, userID uuid.UUID) (*domainRepo.OrderStats, error) {
	var stats domainRepo.OrderStats

	err := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Select(`COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS completed,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS pending_payment,
			COALESCE(SUM(CASE WHEN status IN (?, ?) THEN 1 ELSE 0 END), 0) AS active`,
			model.OrderStatusCompleted,
			model.OrderStatusPendingPayment,
			model.OrderStatusPaid, model.OrderStatusProcessing).
		Where("user_id = ?", userID).
		Scan(&stats).Error
	if err != nil {
		r.logger.Error("Failed to aggregate test orders",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to aggregate test orders: %w", err)
	}

	err = r.db.WithContext(ctx).
		Model(&model.Participant{}).
		Joins("JOIN test_orders ON test_orders.id = test_participants.order_id").
		Where("test_orders.user_id = ?", userID).
		Count(&stats.TotalParticipants).Error
	if err != nil {
		r.logger.Error("Failed to count participants",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to count participants: %w", err)
	}

	return &stats, nil
}
