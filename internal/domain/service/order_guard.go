package service

import (
	"github.com/samber/lo"

	domainErrors "github.com/fitrahmoef/Saintara-Mobile/internal/domain/errors"
	"github.com/fitrahmoef/Saintara-Mobile/internal/domain/model"
)

// orderTransitions lists the allowed edges of the order lifecycle
var orderTransitions = map[model.OrderStatus][]model.OrderStatus{
	model.OrderStatusPendingPayment: {model.OrderStatusPaid, model.OrderStatusCancelled},
	model.OrderStatusPaid:           {model.OrderStatusProcessing, model.OrderStatusCancelled},
	model.OrderStatusProcessing:     {model.OrderStatusCompleted},
}

// CanTransition reports whether an order may move from one status to another
func CanTransition(from, to model.OrderStatus) error {
	if !lo.Contains(orderTransitions[from], to) {
		return domainErrors.ErrInvalidOrderTransition
	}
	return nil
}

// CanCancel checks whether an order in status may be cancelled
func CanCancel(status model.OrderStatus) error {
	switch status {
	case model.OrderStatusPendingPayment, model.OrderStatusPaid:
		return nil
	case model.OrderStatusProcessing:
		return domainErrors.ErrOrderInProcessing
	case model.OrderStatusCompleted:
		return domainErrors.ErrOrderAlreadyCompleted
	case model.OrderStatusCancelled:
		return domainErrors.ErrOrderAlreadyCancelled
	default:
		return domainErrors.ErrInvalidOrderTransition
	}
}

// CanCreatePayment checks whether a new payment attempt may be opened for an
// order in status. hasPending reports an existing PENDING attempt.
func CanCreatePayment(status model.OrderStatus, hasPending bool) error {
	switch status {
	case model.OrderStatusPaid, model.OrderStatusProcessing, model.OrderStatusCompleted:
		return domainErrors.ErrPaymentAlreadyPaid
	case model.OrderStatusCancelled:
		return domainErrors.ErrPaymentOrderCancelled
	}

	if hasPending {
		return domainErrors.ErrPaymentAlreadyPending
	}
	return nil
}
