package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/fitrahmoef/Saintara-Mobile/internal/catalog"
	domainErrors "github.com/fitrahmoef/Saintara-Mobile/internal/domain/errors"
	"github.com/fitrahmoef/Saintara-Mobile/internal/domain/entity"
	"github.com/fitrahmoef/Saintara-Mobile/internal/domain/event"
	"github.com/fitrahmoef/Saintara-Mobile/internal/domain/model"
	"github.com/fitrahmoef/Saintara-Mobile/internal/domain/repository"
	"github.com/fitrahmoef/Saintara-Mobile/internal/domain/service"
)

// ParticipantInput is one participant in an order request
type ParticipantInput struct {
	FullName      string     `json:"fullName" validate:"required,max=255"`
	NickName      string     `json:"nickName,omitempty" validate:"max=100"`
	Email         string     `json:"email" validate:"required,email"`
	Phone         string     `json:"phone,omitempty" validate:"max=50"`
	DateOfBirth   *time.Time `json:"dateOfBirth,omitempty"`
	Gender        string     `json:"gender,omitempty" validate:"omitempty,oneof=MALE FEMALE"`
	BloodType     string     `json:"bloodType,omitempty" validate:"omitempty,oneof=A B AB O"`
	StudentNumber string     `json:"studentNumber,omitempty" validate:"max=50"`
	ClassName     string     `json:"className,omitempty" validate:"max=100"`
}

// CreateOrderRequest places a test order
type CreateOrderRequest struct {
	Type          model.OrderType    `json:"type" validate:"omitempty,oneof=INDIVIDUAL INSTITUTION"`
	Packages      []string           `json:"packages" validate:"required,min=1,dive,required"`
	Participants  []ParticipantInput `json:"participants" validate:"required,min=1,dive"`
	ScheduledDate *time.Time         `json:"scheduledDate,omitempty"`
	Notes         string             `json:"notes,omitempty"`
}

type OrderUsecase struct {
	store   repository.Store
	catalog *catalog.Catalog
	events  *EventPublisher
	logger  *zap.Logger
}

func NewOrderUsecase(store repository.Store, packages *catalog.Catalog, events *EventPublisher, logger *zap.Logger) *OrderUsecase {
	return &OrderUsecase{
		store:   store,
		catalog: packages,
		events:  events,
		logger:  logger,
	}
}

// Create prices the requested packages and stores a PENDING_PAYMENT order
func (u *OrderUsecase) Create(ctx context.Context, principal entity.Principal, req CreateOrderRequest) (*model.Order, error) {
	if len(req.Participants) == 0 {
		return nil, domainErrors.ErrNoParticipants
	}

	orderType := req.Type
	if orderType == "" {
		orderType = model.OrderTypeIndividual
	}
	if orderType != model.OrderTypeIndividual && orderType != model.OrderTypeInstitution {
		return nil, domainErrors.ErrInvalidOrderType
	}

	codes := lo.Uniq(req.Packages)
	if len(codes) == 0 {
		return nil, domainErrors.ErrUnknownPackage
	}
	pricePerPerson, err := u.catalog.PricePerPerson(codes)
	if err != nil {
		u.logger.Info("Order requested unknown package",
			zap.Strings("packages", codes),
			zap.Error(err))
		return nil, domainErrors.ErrUnknownPackage
	}

	packages, err := json.Marshal(codes)
	if err != nil {
		return nil, fmt.Errorf("failed to encode packages: %w", err)
	}

	orderNumber, err := generateNumber("ORD")
	if err != nil {
		return nil, err
	}

	count := len(req.Participants)
	order := &model.Order{
		OrderNumber:      orderNumber,
		UserID:           principal.UserID,
		Type:             orderType,
		Packages:         packages,
		ParticipantCount: count,
		PricePerPerson:   pricePerPerson,
		TotalAmount:      pricePerPerson.Mul(decimal.NewFromInt(int64(count))),
		ScheduledDate:    req.ScheduledDate,
		Notes:            req.Notes,
		Status:           model.OrderStatusPendingPayment,
		Participants: lo.Map(req.Participants, func(p ParticipantInput, _ int) model.Participant {
			return model.Participant{
				FullName:      p.FullName,
				NickName:      p.NickName,
				Email:         p.Email,
				Phone:         p.Phone,
				DateOfBirth:   p.DateOfBirth,
				Gender:        p.Gender,
				BloodType:     p.BloodType,
				StudentNumber: p.StudentNumber,
				ClassName:     p.ClassName,
			}
		}),
	}

	err = u.store.WithinTransaction(ctx, func(tx repository.Store) error {
		if err := tx.Orders().Create(ctx, order); err != nil {
			return err
		}
		activity := newActivity(principal.UserID, model.ActivityCreateOrder, "Test order created",
			fmt.Sprintf("Order %s for %d participant(s)", order.OrderNumber, count),
			"order", order.ID.String())
		return tx.Activities().Create(ctx, activity)
	})
	if err != nil {
		return nil, err
	}

	u.logger.Info("Test order created",
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.Int("participants", count),
		zap.String("total_amount", order.TotalAmount.String()))

	u.events.publish(ctx, event.TypeOrderCreated, order.ID.String(), event.OrderCreated{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID,
		TotalAmount: order.TotalAmount.String(),
	})

	return order, nil
}

// List pages through the principal's orders; super admins see every order
func (u *OrderUsecase) List(ctx context.Context, principal entity.Principal, status string, params entity.PaginationParams) (*entity.Paginated[*model.Order], error) {
	params.Validate()

	filter := repository.OrderFilter{}
	if !principal.IsSuperAdmin() {
		userID := principal.UserID
		filter.UserID = &userID
	}
	if status != "" {
		filter.Status = model.OrderStatus(status)
		if !filter.Status.IsValid() {
			return nil, domainErrors.ErrInvalidOrderStatus
		}
	}

	orders, total, err := u.store.Orders().List(ctx, filter, params)
	if err != nil {
		return nil, err
	}
	return entity.NewPaginated(orders, params, total), nil
}

// Get returns an order with its participants and payment attempts
func (u *OrderUsecase) Get(ctx context.Context, principal entity.Principal, id uuid.UUID) (*model.Order, error) {
	order, err := u.store.Orders().FindDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domainErrors.ErrOrderNotFound
	}
	if !principal.CanAccess(order.UserID) {
		return nil, domainErrors.ErrOrderForbidden
	}
	return order, nil
}

// Cancel cancels an order and every payment attempt still pending for it
func (u *OrderUsecase) Cancel(ctx context.Context, principal entity.Principal, id uuid.UUID) (*model.Order, error) {
	var (
		order     *model.Order
		previous  model.OrderStatus
		cancelled int64
	)

	err := u.store.WithinTransaction(ctx, func(tx repository.Store) error {
		var err error
		order, err = tx.Orders().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if order == nil {
			return domainErrors.ErrOrderNotFound
		}
		if !principal.CanAccess(order.UserID) {
			return domainErrors.ErrOrderForbidden
		}
		if err := service.CanCancel(order.Status); err != nil {
			return err
		}

		previous = order.Status
		now := time.Now().UTC()
		ok, err := tx.Orders().UpdateStatus(ctx, order.ID, previous, model.OrderStatusCancelled,
			map[string]interface{}{"cancelled_at": now})
		if err != nil {
			return err
		}
		if !ok {
			return domainErrors.ErrOrderConflict
		}
		order.Status = model.OrderStatusCancelled
		order.CancelledAt = &now

		cancelled, err = tx.Payments().CancelPendingByOrder(ctx, order.ID)
		if err != nil {
			return err
		}

		activity := newActivity(principal.UserID, model.ActivityCancelOrder, "Test order cancelled",
			fmt.Sprintf("Order %s cancelled", order.OrderNumber),
			"order", order.ID.String())
		return tx.Activities().Create(ctx, activity)
	})
	if err != nil {
		return nil, err
	}

	u.logger.Info("Test order cancelled",
		zap.String("order_id", order.ID.String()),
		zap.String("previous_status", string(previous)),
		zap.Int64("cancelled_payments", cancelled))

	u.events.publish(ctx, event.TypeOrderCancelled, order.ID.String(), event.OrderCancelled{
		OrderID:           order.ID,
		OrderNumber:       order.OrderNumber,
		UserID:            order.UserID,
		CancelledPayments: cancelled,
	})

	return u.detailOrFallback(ctx, order)
}

// UpdateStatus moves a paid order through fulfillment. Super admin only.
func (u *OrderUsecase) UpdateStatus(ctx context.Context, principal entity.Principal, id uuid.UUID, to model.OrderStatus) (*model.Order, error) {
	if !principal.IsSuperAdmin() {
		return nil, domainErrors.ErrAdminOnly
	}
	if !to.IsValid() {
		return nil, domainErrors.ErrInvalidOrderStatus
	}
	// Payment and cancellation have their own flows
	if to == model.OrderStatusPaid || to == model.OrderStatusCancelled || to == model.OrderStatusPendingPayment {
		return nil, domainErrors.ErrInvalidOrderTransition
	}

	var (
		order *model.Order
		from  model.OrderStatus
	)
	err := u.store.WithinTransaction(ctx, func(tx repository.Store) error {
		var err error
		order, err = tx.Orders().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if order == nil {
			return domainErrors.ErrOrderNotFound
		}
		from = order.Status
		if err := service.CanTransition(from, to); err != nil {
			return err
		}

		ok, err := tx.Orders().UpdateStatus(ctx, order.ID, from, to, nil)
		if err != nil {
			return err
		}
		if !ok {
			return domainErrors.ErrOrderConflict
		}
		order.Status = to

		activity := newActivity(principal.UserID, model.ActivityUpdateOrderStatus, "Test order status updated",
			fmt.Sprintf("Order %s moved from %s to %s", order.OrderNumber, from, to),
			"order", order.ID.String())
		return tx.Activities().Create(ctx, activity)
	})
	if err != nil {
		return nil, err
	}

	u.logger.Info("Test order status updated",
		zap.String("order_id", order.ID.String()),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
		zap.String("admin_id", principal.UserID.String()))

	u.events.publish(ctx, event.TypeOrderStatusChanged, order.ID.String(), event.OrderStatusChanged{
		OrderID: order.ID,
		From:    string(from),
		To:      string(to),
	})

	return u.detailOrFallback(ctx, order)
}

func (u *OrderUsecase) detailOrFallback(ctx context.Context, order *model.Order) (*model.Order, error) {
	detail, err := u.store.Orders().FindDetail(ctx, order.ID)
	if err != nil || detail == nil {
		u.logger.Warn("Failed to reload order", zap.String("order_id", order.ID.String()), zap.Error(err))
		return order, nil
	}
	return detail, nil
}
