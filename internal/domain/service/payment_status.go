package service

import (
	"strings"

	domainErrors "github.com/fitrahmoef/Saintara-Mobile/internal/domain/errors"
	"github.com/fitrahmoef/Saintara-Mobile/internal/domain/model"
)

// Gateway transaction statuses, in Midtrans vocabulary. Other gateways
// translate into these before reconciliation.
const (
	TransactionCapture    = "capture"
	TransactionSettlement = "settlement"
	TransactionPending    = "pending"
	TransactionDeny       = "deny"
	TransactionCancel     = "cancel"
	TransactionExpire     = "expire"
	TransactionFailure    = "failure"

	FraudAccept    = "accept"
	FraudChallenge = "challenge"
	FraudDeny      = "deny"
)

// MapTransactionStatus maps a gateway transaction status and fraud verdict
// to a local payment status. Rules are evaluated in order; anything
// unrecognized stays PENDING.
func MapTransactionStatus(transactionStatus, fraudStatus string) model.PaymentStatus {
	if fraudStatus == FraudDeny || transactionStatus == TransactionDeny {
		return model.PaymentStatusFailed
	}

	switch transactionStatus {
	case TransactionCapture, TransactionSettlement:
		return model.PaymentStatusPaid
	case TransactionPending:
		return model.PaymentStatusPending
	case TransactionCancel, TransactionExpire:
		return model.PaymentStatusCancelled
	case TransactionFailure:
		return model.PaymentStatusFailed
	default:
		return model.PaymentStatusPending
	}
}

// TransitionDecision says what reconciling a payment towards Target requires
type TransitionDecision struct {
	Target model.PaymentStatus
	// Change is false for a no-op; nothing is written and no activity is emitted
	Change bool
	// StampPaidAt is set only on the first entry into PAID
	StampPaidAt bool
	// PromoteOrder moves a PENDING_PAYMENT order to PAID
	PromoteOrder bool
	// SkipReason explains a no-op for logging
	SkipReason string
}

// DecideTransition decides how a payment in its current state, belonging to
// an order in orderStatus, moves towards target.
//
// A PAID payment is final. CANCELLED and FAILED payments only move to
// PAID, since a capture reported by the gateway means money was collected;
// a late pending or a different failure verdict is a no-op. A cancelled
// order only accepts no-ops; a settlement arriving after cancellation is a
// conflict.
func DecideTransition(payment *model.Payment, orderStatus model.OrderStatus, target model.PaymentStatus) (TransitionDecision, error) {
	decision := TransitionDecision{Target: target}

	if target == payment.Status {
		decision.SkipReason = "status unchanged"
		return decision, nil
	}

	if payment.Status == model.PaymentStatusPaid {
		decision.SkipReason = "paid payments are final"
		return decision, nil
	}

	if payment.IsClosed() && target != model.PaymentStatusPaid {
		decision.SkipReason = "closed payments only accept settlement"
		return decision, nil
	}

	if orderStatus == model.OrderStatusCancelled {
		if target == model.PaymentStatusPaid {
			return decision, domainErrors.ErrOrderCancelledConflict
		}
		decision.SkipReason = "order cancelled"
		return decision, nil
	}

	decision.Change = true
	decision.StampPaidAt = target == model.PaymentStatusPaid && payment.PaidAt == nil
	decision.PromoteOrder = target == model.PaymentStatusPaid && orderStatus == model.OrderStatusPendingPayment
	return decision, nil
}

// PaymentActivityLabel is the activity label recorded for a transition
func PaymentActivityLabel(status model.PaymentStatus) string {
	if status == model.PaymentStatusPaid {
		return "Payment completed"
	}
	return "Payment " + strings.ToLower(string(status))
}
