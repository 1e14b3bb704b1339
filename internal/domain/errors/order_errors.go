package errors

import (
	apperrors "github.com/fitrahmoef/Saintara-Mobile/pkg/errors"
)

var (
	// ErrOrderNotFound indicates that the test order does not exist
	ErrOrderNotFound = apperrors.NewAppError(apperrors.ErrNotFound, "Test order not found", nil)

	// ErrOrderForbidden indicates that the caller does not own the test order
	ErrOrderForbidden = apperrors.NewAppError(apperrors.ErrForbidden, "You do not have access to this test order", nil)

	ErrOrderAlreadyCancelled = apperrors.NewAppError(apperrors.ErrOrderCancelled, "Test order is already cancelled", nil)
	ErrOrderAlreadyCompleted = apperrors.NewAppError(apperrors.ErrOrderCompleted, "Completed test orders cannot be cancelled", nil)

	// ErrOrderInProcessing is a business rule, not a transient failure
	ErrOrderInProcessing = apperrors.NewAppError(apperrors.ErrContactSupport, "Test order is already being processed, please contact support to cancel it", nil)

	ErrInvalidOrderTransition = apperrors.NewAppError(apperrors.ErrInvalidTransition, "Test order status transition is not allowed", nil)

	// ErrOrderConflict is returned when the order changed between read and write
	ErrOrderConflict = apperrors.NewAppError(apperrors.ErrConflict, "Test order was modified concurrently, please reload and retry", nil)

	ErrUnknownPackage   = apperrors.NewAppError(apperrors.ErrInvalidArgument, "Unknown test package", nil)
	ErrNoParticipants   = apperrors.NewAppError(apperrors.ErrInvalidArgument, "At least one participant is required", nil)
	ErrInvalidOrderType = apperrors.NewAppError(apperrors.ErrInvalidArgument, "Unknown order type", nil)

	ErrInvalidOrderStatus = apperrors.NewAppError(apperrors.ErrInvalidArgument, "Unknown order status", nil)
)
