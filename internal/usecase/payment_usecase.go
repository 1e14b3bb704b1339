package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/fitrahmoef/Saintara-Mobile/internal/catalog"
	domainErrors "github.com/fitrahmoef/Saintara-Mobile/internal/domain/errors"
	"github.com/fitrahmoef/Saintara-Mobile/internal/domain/entity"
	"github.com/fitrahmoef/Saintara-Mobile/internal/domain/model"
	"github.com/fitrahmoef/Saintara-Mobile/internal/domain/provider"
	"github.com/fitrahmoef/Saintara-Mobile/internal/domain/repository"
	"github.com/fitrahmoef/Saintara-Mobile/internal/domain/service"
)

const defaultGatewayTimeout = 30 * time.Second

// GatewayResolver looks up payment gateways by name
type GatewayResolver interface {
	Default() (provider.PaymentGateway, error)
	GetProviderFromString(name string) (provider.PaymentGateway, error)
}

// CreatePaymentRequest starts a payment attempt for an order
type CreatePaymentRequest struct {
	OrderID  uuid.UUID `json:"orderId" validate:"required"`
	Method   string    `json:"paymentMethod" validate:"omitempty,oneof=BANK_TRANSFER CREDIT_CARD E_WALLET CONVENIENCE_STORE"`
	Provider string    `json:"provider,omitempty" validate:"omitempty,oneof=midtrans stripe"`
}

// CreatePaymentResponse is the checkout handle returned to the client
type CreatePaymentResponse struct {
	PaymentID     uuid.UUID `json:"paymentId"`
	PaymentNumber string    `json:"paymentNumber"`
	CheckoutToken string    `json:"checkoutToken,omitempty"`
	RedirectURL   string    `json:"redirectUrl"`
	ClientKey     string    `json:"clientKey,omitempty"`
	Provider      string    `json:"provider"`
}

type PaymentUsecase struct {
	store          repository.Store
	gateways       GatewayResolver
	reconciler     *ReconciliationService
	catalog        *catalog.Catalog
	gatewayTimeout time.Duration
	logger         *zap.Logger
}

func NewPaymentUsecase(
	store repository.Store,
	gateways GatewayResolver,
	reconciler *ReconciliationService,
	packages *catalog.Catalog,
	gatewayTimeout time.Duration,
	logger *zap.Logger,
) *PaymentUsecase {
	if gatewayTimeout <= 0 {
		gatewayTimeout = defaultGatewayTimeout
	}
	return &PaymentUsecase{
		store:          store,
		gateways:       gateways,
		reconciler:     reconciler,
		catalog:        packages,
		gatewayTimeout: gatewayTimeout,
		logger:         logger,
	}
}

// CreatePayment opens a gateway transaction for an order the principal owns
func (u *PaymentUsecase) CreatePayment(ctx context.Context, principal entity.Principal, req CreatePaymentRequest) (*CreatePaymentResponse, error) {
	order, err := u.store.Orders().FindByID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domainErrors.ErrOrderNotFound
	}
	if !principal.CanAccess(order.UserID) {
		return nil, domainErrors.ErrOrderForbidden
	}

	if req.Method != "" && !model.PaymentMethod(req.Method).IsValid() {
		return nil, domainErrors.ErrInvalidMethod
	}

	gateway, err := u.resolveGateway(req.Provider)
	if err != nil {
		return nil, err
	}

	paymentNumber, err := generateNumber("PAY")
	if err != nil {
		return nil, err
	}

	var payment *model.Payment
	err = u.store.WithinTransaction(ctx, func(tx repository.Store) error {
		locked, err := tx.Orders().FindByIDForUpdate(ctx, order.ID)
		if err != nil {
			return err
		}
		if locked == nil {
			return domainErrors.ErrOrderNotFound
		}

		hasPending, err := tx.Payments().HasPending(ctx, locked.ID)
		if err != nil {
			return err
		}
		if err := service.CanCreatePayment(locked.Status, hasPending); err != nil {
			return err
		}

		payment = &model.Payment{
			PaymentNumber: paymentNumber,
			OrderID:       locked.ID,
			UserID:        locked.UserID,
			Amount:        locked.TotalAmount,
			Provider:      gateway.Name(),
			Status:        model.PaymentStatusPending,
		}
		if req.Method != "" {
			method := req.Method
			payment.Method = &method
		}
		if err := tx.Payments().Create(ctx, payment); err != nil {
			// The partial unique index caught a concurrent attempt
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return domainErrors.ErrPaymentAlreadyPending
			}
			return err
		}

		activity := newActivity(principal.UserID, model.ActivityInitiatePayment, "Payment initiated",
			fmt.Sprintf("Payment %s initiated for order %s", paymentNumber, locked.OrderNumber),
			"payment", payment.ID.String())
		return tx.Activities().Create(ctx, activity)
	})
	if err != nil {
		return nil, err
	}

	gatewayCtx, cancel := context.WithTimeout(ctx, u.gatewayTimeout)
	defer cancel()

	resp, err := gateway.OpenTransaction(gatewayCtx, u.buildTransactionRequest(ctx, order, payment, req.Method))
	if err != nil {
		u.logger.Error("failed to open gateway transaction",
			zap.String("payment_id", payment.ID.String()),
			zap.String("provider", gateway.Name()),
			zap.Error(err))
		u.markFailed(ctx, payment.ID, err)
		return nil, domainErrors.NewGatewayError(gatewayMessage(err), err)
	}

	attached, err := u.store.Payments().AttachTransaction(ctx, payment.ID, resp.TransactionID, resp.Token, resp.RedirectURL)
	if err != nil {
		return nil, err
	}
	if !attached {
		// The order was cancelled while the gateway call was in flight
		return nil, domainErrors.ErrPaymentOrderCancelled
	}

	u.logger.Info("Payment created",
		zap.String("payment_id", payment.ID.String()),
		zap.String("payment_number", payment.PaymentNumber),
		zap.String("order_id", order.ID.String()),
		zap.String("provider", gateway.Name()),
		zap.String("transaction_id", resp.TransactionID))

	return &CreatePaymentResponse{
		PaymentID:     payment.ID,
		PaymentNumber: payment.PaymentNumber,
		CheckoutToken: resp.Token,
		RedirectURL:   resp.RedirectURL,
		ClientKey:     gateway.ClientKey(),
		Provider:      gateway.Name(),
	}, nil
}

// GetPayment returns a payment, refreshing it from the gateway while it is pending
func (u *PaymentUsecase) GetPayment(ctx context.Context, principal entity.Principal, id uuid.UUID) (*model.Payment, error) {
	payment, err := u.store.Payments().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, domainErrors.ErrPaymentNotFound
	}
	if !principal.CanAccess(payment.UserID) {
		return nil, domainErrors.ErrPaymentForbidden
	}

	if payment.Status != model.PaymentStatusPending || !payment.HasTransaction() {
		return payment, nil
	}

	gateway, err := u.gateways.GetProviderFromString(payment.Provider)
	if err != nil {
		u.logger.Warn("No gateway for pending payment",
			zap.String("payment_id", payment.ID.String()),
			zap.String("provider", payment.Provider))
		return payment, nil
	}

	gatewayCtx, cancel := context.WithTimeout(ctx, u.gatewayTimeout)
	defer cancel()

	status, err := gateway.QueryStatus(gatewayCtx, *payment.TransactionID)
	if err != nil {
		u.logger.Warn("Failed to query gateway status",
			zap.String("payment_id", payment.ID.String()),
			zap.String("transaction_id", *payment.TransactionID),
			zap.Error(err))
		return payment, nil
	}

	result, err := u.reconciler.Apply(ctx, payment.ID, GatewayUpdate{
		TransactionStatus: status.TransactionStatus,
		FraudStatus:       status.FraudStatus,
		PaymentType:       status.PaymentType,
		Source:            SourceStatusQuery,
	})
	if err != nil {
		u.logger.Warn("Failed to reconcile payment from status query",
			zap.String("payment_id", payment.ID.String()),
			zap.Error(err))
		return payment, nil
	}

	return result.Payment, nil
}

// HandleNotification verifies, records and applies a gateway push notification.
// Redeliveries of a processed notification succeed without side effects.
func (u *PaymentUsecase) HandleNotification(ctx context.Context, providerName string, payload []byte, headers http.Header) error {
	gateway, err := u.resolveGateway(providerName)
	if err != nil {
		return err
	}

	n, err := gateway.ParseNotification(payload, headers)
	if err != nil {
		switch {
		case provider.IsCode(err, provider.ErrCodeInvalidSignature):
			u.recordRejected(ctx, gateway.Name(), n, payload)
			return domainErrors.ErrInvalidSignature
		case provider.IsCode(err, provider.ErrCodeInvalidNotification):
			u.logger.Warn("Malformed payment notification",
				zap.String("provider", gateway.Name()),
				zap.Error(err))
			return domainErrors.ErrInvalidNotification
		default:
			return fmt.Errorf("failed to parse notification: %w", err)
		}
	}

	record := &model.PaymentNotification{
		Provider:          gateway.Name(),
		EventKey:          n.EventKey,
		TransactionID:     n.TransactionID,
		TransactionStatus: n.TransactionStatus.TransactionStatus,
		FraudStatus:       n.FraudStatus,
		SignatureValid:    true,
		Status:            model.NotificationStatusReceived,
		Payload:           datatypes.JSON(n.Raw),
	}
	inserted, err := u.store.Notifications().Save(ctx, record)
	if err != nil {
		return err
	}
	if !inserted {
		existing, err := u.store.Notifications().FindByEventKey(ctx, n.EventKey)
		if err != nil {
			return err
		}
		if existing != nil && existing.Status == model.NotificationStatusProcessed {
			u.logger.Info("Duplicate payment notification",
				zap.String("provider", gateway.Name()),
				zap.String("event_key", n.EventKey))
			return nil
		}
	}

	if n.Ignored {
		return u.store.Notifications().MarkProcessed(ctx, n.EventKey)
	}

	payment, err := u.store.Payments().FindByTransactionID(ctx, n.TransactionID)
	if err != nil {
		return err
	}
	if payment == nil {
		u.logger.Warn("Notification for unknown payment",
			zap.String("provider", gateway.Name()),
			zap.String("transaction_id", n.TransactionID))
		u.markNotificationFailed(ctx, n.EventKey, domainErrors.ErrPaymentNotFound)
		return domainErrors.ErrPaymentNotFound
	}

	if _, err := u.reconciler.Apply(ctx, payment.ID, GatewayUpdate{
		TransactionStatus: n.TransactionStatus.TransactionStatus,
		FraudStatus:       n.FraudStatus,
		PaymentType:       n.PaymentType,
		Source:            SourceNotification,
	}); err != nil {
		u.markNotificationFailed(ctx, n.EventKey, err)
		return err
	}

	return u.store.Notifications().MarkProcessed(ctx, n.EventKey)
}

func (u *PaymentUsecase) resolveGateway(name string) (provider.PaymentGateway, error) {
	var (
		gateway provider.PaymentGateway
		err     error
	)
	if name == "" {
		gateway, err = u.gateways.Default()
	} else {
		gateway, err = u.gateways.GetProviderFromString(name)
	}
	if err != nil {
		u.logger.Warn("Unknown payment provider", zap.String("provider", name), zap.Error(err))
		return nil, domainErrors.ErrUnknownProvider
	}
	return gateway, nil
}

// buildTransactionRequest itemizes the order by package. When package prices
// no longer add up to the stored total a single line is sent instead.
func (u *PaymentUsecase) buildTransactionRequest(ctx context.Context, order *model.Order, payment *model.Payment, method string) *provider.OpenTransactionRequest {
	amount := order.TotalAmount.Round(0).IntPart()

	req := &provider.OpenTransactionRequest{
		PaymentID:     payment.ID.String(),
		PaymentNumber: payment.PaymentNumber,
		OrderID:       order.ID.String(),
		OrderNumber:   order.OrderNumber,
		Amount:        amount,
		Currency:      "IDR",
		Method:        method,
		Items:         u.orderItems(order),
	}

	if user, err := u.store.Users().FindByID(ctx, order.UserID); err == nil && user != nil {
		req.Customer = provider.Customer{Name: user.FullName, Email: user.Email}
		if user.Phone != nil {
			req.Customer.Phone = *user.Phone
		}
	}

	return req
}

func (u *PaymentUsecase) orderItems(order *model.Order) []provider.Item {
	single := []provider.Item{{
		ID:       order.OrderNumber,
		Name:     "SAINTARA test order " + order.OrderNumber,
		Price:    order.TotalAmount.Round(0).IntPart(),
		Quantity: 1,
	}}

	codes, err := order.PackageCodes()
	if err != nil || len(codes) == 0 || u.catalog == nil {
		return single
	}

	items := make([]provider.Item, 0, len(codes))
	sum := decimal.Zero
	for _, code := range codes {
		pkg, ok := u.catalog.Get(code)
		if !ok {
			return single
		}
		items = append(items, provider.Item{
			ID:       pkg.Code,
			Name:     pkg.Name,
			Price:    pkg.Price.Round(0).IntPart(),
			Quantity: order.ParticipantCount,
		})
		sum = sum.Add(pkg.Price.Mul(decimal.NewFromInt(int64(order.ParticipantCount))))
	}
	if !sum.Equal(order.TotalAmount) {
		return single
	}
	return items
}

func (u *PaymentUsecase) markFailed(ctx context.Context, paymentID uuid.UUID, cause error) {
	reason := cause.Error()
	ok, err := u.store.Payments().UpdateStatus(ctx, paymentID, model.PaymentStatusPending, model.PaymentStatusFailed,
		map[string]interface{}{"failure_reason": reason})
	if err != nil || !ok {
		u.logger.Error("failed to mark payment as failed",
			zap.String("payment_id", paymentID.String()),
			zap.Bool("updated", ok),
			zap.Error(err))
	}
}

func (u *PaymentUsecase) recordRejected(ctx context.Context, providerName string, n *provider.Notification, payload []byte) {
	record := &model.PaymentNotification{
		Provider:       providerName,
		EventKey:       providerName + ":rejected:" + uuid.NewString(),
		SignatureValid: false,
		Status:         model.NotificationStatusRejected,
	}
	if json.Valid(payload) {
		record.Payload = datatypes.JSON(payload)
	}
	if n != nil {
		record.TransactionID = n.TransactionID
		record.TransactionStatus = n.TransactionStatus.TransactionStatus
		record.FraudStatus = n.FraudStatus
	}

	u.logger.Warn("Rejected payment notification with invalid signature",
		zap.Bool("security_event", true),
		zap.String("provider", providerName),
		zap.String("transaction_id", record.TransactionID))

	if _, err := u.store.Notifications().Save(ctx, record); err != nil {
		u.logger.Error("failed to record rejected notification",
			zap.String("provider", providerName),
			zap.Error(err))
	}
}

func (u *PaymentUsecase) markNotificationFailed(ctx context.Context, eventKey string, cause error) {
	if err := u.store.Notifications().MarkFailed(ctx, eventKey, cause); err != nil {
		u.logger.Error("failed to mark notification as failed",
			zap.String("event_key", eventKey),
			zap.Error(err))
	}
}

func gatewayMessage(err error) string {
	var pe *provider.ProviderError
	if errors.As(err, &pe) && pe.Message != "" {
		return pe.Message
	}
	return ""
}
