package errors

import (
	apperrors "github.com/fitrahmoef/Saintara-Mobile/pkg/errors"
)

var (
	ErrPaymentNotFound  = apperrors.NewAppError(apperrors.ErrNotFound, "Payment not found", nil)
	ErrPaymentForbidden = apperrors.NewAppError(apperrors.ErrForbidden, "You do not have access to this payment", nil)

	ErrPaymentAlreadyPaid    = apperrors.NewAppError(apperrors.ErrAlreadyPaid, "Test order is already paid", nil)
	ErrPaymentAlreadyPending = apperrors.NewAppError(apperrors.ErrAlreadyPending, "A payment is already pending for this test order", nil)
	ErrPaymentOrderCancelled = apperrors.NewAppError(apperrors.ErrOrderCancelled, "Cannot pay for a cancelled test order", nil)

	// ErrPaymentConflict is returned when a concurrent writer changed the payment first
	ErrPaymentConflict = apperrors.NewAppError(apperrors.ErrConflict, "Payment was modified concurrently", nil)

	// ErrOrderCancelledConflict is returned when a settlement arrives for an
	// order that was cancelled first
	ErrOrderCancelledConflict = apperrors.NewAppError(apperrors.ErrConflict, "Test order was cancelled before the payment completed", nil)

	ErrInvalidSignature    = apperrors.NewAppError(apperrors.ErrInvalidSignature, "Invalid notification signature", nil)
	ErrInvalidNotification = apperrors.NewAppError(apperrors.ErrInvalidNotification, "Malformed payment notification", nil)
	ErrUnknownProvider     = apperrors.NewAppError(apperrors.ErrInvalidArgument, "Unknown payment provider", nil)
	ErrInvalidMethod       = apperrors.NewAppError(apperrors.ErrInvalidArgument, "Unsupported payment method", nil)
)

// NewGatewayError reports a failed gateway call to the client with the
// gateway's message.
func NewGatewayError(message string, cause error) *apperrors.AppError {
	if message == "" {
		message = "Failed to create payment transaction"
	}
	return apperrors.NewAppError(apperrors.ErrGateway, message, cause)
}
