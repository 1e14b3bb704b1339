package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fitrahmoef/Saintara-Mobile/internal/domain/model"
	domainRepo "github.com/fitrahmoef/Saintara-Mobile/internal/domain/repository"
)

type paymentRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewPaymentRepository creates a new payment repository instance
func NewPaymentRepository(db *gorm.DB, logger *zap.Logger) domainRepo.PaymentRepository {
	return &paymentRepository{
		db:     db,
		logger: logger,
	}
}

func (r *paymentRepository) Create(ctx context.Context, payment *model.Payment) error {
	if err := r.db.WithContext(ctx).Create(payment).Error; err != nil {
		r.logger.Error("Failed to create payment",
			zap.String("order_id", payment.OrderID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

func (r *paymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Payment, error) {
	return r.first(r.db.WithContext(ctx).Where("id = ?", id), "id", id.String())
}

func (r *paymentRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Payment, error) {
	query := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id)
	return r.first(query, "id", id.String())
}

func (r *paymentRepository) FindByTransactionID(ctx context.Context, transactionID string) (*model.Payment, error) {
	return r.first(r.db.WithContext(ctx).Where("transaction_id = ?", transactionID), "transaction_id", transactionID)
}

func (r *paymentRepository) first(query *gorm.DB, field, value string) (*model.Payment, error) {
	var payment model.Payment
	if err := query.First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Error("Failed to get payment",
			zap.String(field, value),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return &payment, nil
}

// ListByOrder returns every payment attempt of an order, newest first
func (r *paymentRepository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*model.Payment, error) {
	var payments []*model.Payment
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at DESC").
		Find(&payments).Error
	if err != nil {
		r.logger.Error("Failed to list payments",
			zap.String("order_id", orderID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}

func (r *paymentRepository) HasPending(ctx context.Context, orderID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Payment{}).
		Where("order_id = ? AND status = ?", orderID, model.PaymentStatusPending).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to count pending payments: %w", err)
	}
	return count > 0, nil
}

// UpdateStatus applies a status change only if the payment is still in from
func (r *paymentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.PaymentStatus, extra map[string]interface{}) (bool, error) {
	fields := map[string]interface{}{"status": to}
	for k, v := range extra {
		fields[k] = v
	}

	result := r.db.WithContext(ctx).
		Model(&model.Payment{}).
		Where("id = ? AND status = ?", id, from).
		Updates(fields)
	if result.Error != nil {
		r.logger.Error("Failed to update payment status",
			zap.String("payment_id", id.String()),
			zap.String("from", string(from)),
			zap.String("to", string(to)),
			zap.Error(result.Error))
		return false, fmt.Errorf("failed to update payment status: %w", result.Error)
	}

	return result.RowsAffected == 1, nil
}

func (r *paymentRepository) AttachTransaction(ctx context.Context, id uuid.UUID, transactionID, token, redirectURL string) (bool, error) {
	fields := map[string]interface{}{
		"transaction_id": transactionID,
		"redirect_url":   redirectURL,
	}
	if token != "" {
		fields["checkout_token"] = token
	}

	result := r.db.WithContext(ctx).
		Model(&model.Payment{}).
		Where("id = ? AND status = ?", id, model.PaymentStatusPending).
		Updates(fields)
	if result.Error != nil {
		r.logger.Error("Failed to attach gateway transaction",
			zap.String("payment_id", id.String()),
			zap.String("transaction_id", transactionID),
			zap.Error(result.Error))
		return false, fmt.Errorf("failed to attach gateway transaction: %w", result.Error)
	}

	return result.RowsAffected == 1, nil
}

func (r *paymentRepository) CancelPendingByOrder(ctx context.Context, orderID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Payment{}).
		Where("order_id = ? AND status = ?", orderID, model.PaymentStatusPending).
		Updates(map[string]interface{}{
			"status":         model.PaymentStatusCancelled,
			"failure_reason": "Test order cancelled",
		})
	if result.Error != nil {
		r.logger.Error("Failed to cancel pending payments",
			zap.String("order_id", orderID.String()),
			zap.Error(result.Error))
		return 0, fmt.Errorf("failed to cancel pending payments: %w", result.Error)
	}
	return result.RowsAffected, nil
}
