package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domainErrors "github.com/fitrahmoef/Saintara-Mobile/internal/domain/errors"
	"github.com/fitrahmoef/Saintara-Mobile/internal/domain/event"
	"github.com/fitrahmoef/Saintara-Mobile/internal/domain/model"
	"github.com/fitrahmoef/Saintara-Mobile/internal/domain/repository"
	"github.com/fitrahmoef/Saintara-Mobile/internal/domain/service"
)

const (
	SourceNotification = "notification"
	SourceStatusQuery  = "status_query"
)

// GatewayUpdate is a gateway's report about one transaction
type GatewayUpdate struct {
	TransactionStatus string
	FraudStatus       string
	PaymentType       string
	Source            string
}

// ApplyResult describes the outcome of reconciling a payment
type ApplyResult struct {
	Payment     *model.Payment
	OrderStatus model.OrderStatus
	From        model.PaymentStatus
	To          model.PaymentStatus
	Changed     bool
}

// ReconciliationService moves payments and their orders to the state a gateway reports
type ReconciliationService struct {
	store  repository.Store
	events *EventPublisher
	logger *zap.Logger
}

// NewReconciliationService creates a new reconciliation service
func NewReconciliationService(store repository.Store, events *EventPublisher, logger *zap.Logger) *ReconciliationService {
	return &ReconciliationService{
		store:  store,
		events: events,
		logger: logger,
	}
}

// Apply reconciles a payment against a gateway report in one transaction.
// Reapplying the same report is a no-op.
func (s *ReconciliationService) Apply(ctx context.Context, paymentID uuid.UUID, update GatewayUpdate) (*ApplyResult, error) {
	target := service.MapTransactionStatus(update.TransactionStatus, update.FraudStatus)
	result := &ApplyResult{To: target}
	var orderNumber string

	err := s.store.WithinTransaction(ctx, func(tx repository.Store) error {
		payment, err := tx.Payments().FindByID(ctx, paymentID)
		if err != nil {
			return err
		}
		if payment == nil {
			return domainErrors.ErrPaymentNotFound
		}

		// Lock order: order row first, then payment row
		order, err := tx.Orders().FindByIDForUpdate(ctx, payment.OrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domainErrors.ErrOrderNotFound
		}
		payment, err = tx.Payments().FindByIDForUpdate(ctx, paymentID)
		if err != nil {
			return err
		}
		if payment == nil {
			return domainErrors.ErrPaymentNotFound
		}

		result.Payment = payment
		result.From = payment.Status
		result.OrderStatus = order.Status
		orderNumber = order.OrderNumber

		decision, err := service.DecideTransition(payment, order.Status, target)
		if err != nil {
			s.logger.Warn("Gateway reported payment for a cancelled order",
				zap.String("payment_id", payment.ID.String()),
				zap.String("order_id", order.ID.String()),
				zap.String("transaction_status", update.TransactionStatus))
			return err
		}
		if !decision.Change {
			s.logger.Info("Payment reconciliation skipped",
				zap.String("payment_id", payment.ID.String()),
				zap.String("current", string(payment.Status)),
				zap.String("target", string(target)),
				zap.String("reason", decision.SkipReason),
				zap.String("source", update.Source))
			return nil
		}

		now := time.Now().UTC()
		extra := make(map[string]interface{})
		if decision.StampPaidAt {
			extra["paid_at"] = now
		}
		if update.PaymentType != "" {
			extra["payment_type"] = update.PaymentType
		}

		ok, err := tx.Payments().UpdateStatus(ctx, payment.ID, payment.Status, target, extra)
		if err != nil {
			return err
		}
		if !ok {
			return domainErrors.ErrPaymentConflict
		}

		if decision.PromoteOrder {
			ok, err := tx.Orders().UpdateStatus(ctx, order.ID, model.OrderStatusPendingPayment, model.OrderStatusPaid, nil)
			if err != nil {
				return err
			}
			if !ok {
				return domainErrors.ErrOrderConflict
			}
			result.OrderStatus = model.OrderStatusPaid
		}

		description := fmt.Sprintf("Payment %s for order %s", statusVerb(target), order.OrderNumber)
		if update.PaymentType != "" && target == model.PaymentStatusPaid {
			description += " via " + update.PaymentType
		}
		activity := newActivity(payment.UserID, model.ActivityPaymentStatus,
			service.PaymentActivityLabel(target), description, "payment", payment.ID.String())
		if err := tx.Activities().Create(ctx, activity); err != nil {
			return err
		}

		payment.Status = target
		if decision.StampPaidAt {
			payment.PaidAt = &now
		}
		if update.PaymentType != "" {
			paymentType := update.PaymentType
			payment.PaymentType = &paymentType
		}
		result.Changed = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Changed {
		s.logger.Info("Payment status reconciled",
			zap.String("payment_id", paymentID.String()),
			zap.String("order_number", orderNumber),
			zap.String("from", string(result.From)),
			zap.String("to", string(result.To)),
			zap.String("source", update.Source))

		s.events.publish(ctx, event.TypePaymentStatusChanged, result.Payment.OrderID.String(), event.PaymentStatusChanged{
			PaymentID:     result.Payment.ID,
			PaymentNumber: result.Payment.PaymentNumber,
			OrderID:       result.Payment.OrderID,
			UserID:        result.Payment.UserID,
			From:          string(result.From),
			To:            string(result.To),
			OrderStatus:   string(result.OrderStatus),
			Source:        update.Source,
		})
	}

	return result, nil
}

func statusVerb(status model.PaymentStatus) string {
	if status == model.PaymentStatusPaid {
		return "completed"
	}
	return strings.ToLower(string(status))
}
