package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/fitrahmoef/Saintara-Mobile/internal/domain/errors"
	"github.com/fitrahmoef/Saintara-Mobile/internal/domain/model"
	"github.com/fitrahmoef/Saintara-Mobile/internal/domain/service"
)

func TestMapTransactionStatus(t *testing.T) {
	tests := []struct {
		name              string
		transactionStatus string
		fraudStatus       string
		expected          model.PaymentStatus
	}{
		{"settlement", "settlement", "", model.PaymentStatusPaid},
		{"capture accepted", "capture", "accept", model.PaymentStatusPaid},
		{"capture challenged", "capture", "challenge", model.PaymentStatusPaid},
		{"capture denied by fraud", "capture", "deny", model.PaymentStatusFailed},
		{"settlement denied by fraud", "settlement", "deny", model.PaymentStatusFailed},
		{"deny", "deny", "", model.PaymentStatusFailed},
		{"pending", "pending", "", model.PaymentStatusPending},
		{"cancel", "cancel", "", model.PaymentStatusCancelled},
		{"expire", "expire", "", model.PaymentStatusCancelled},
		{"failure", "failure", "", model.PaymentStatusFailed},
		{"unknown status", "refund", "", model.PaymentStatusPending},
		{"empty status", "", "", model.PaymentStatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, service.MapTransactionStatus(tt.transactionStatus, tt.fraudStatus))
		})
	}
}

func TestDecideTransition(t *testing.T) {
	t.Run("unchanged status is a no-op", func(t *testing.T) {
		payment := &model.Payment{Status: model.PaymentStatusPending}

		decision, err := service.DecideTransition(payment, model.OrderStatusPendingPayment, model.PaymentStatusPending)

		require.NoError(t, err)
		assert.False(t, decision.Change)
		assert.NotEmpty(t, decision.SkipReason)
	})

	t.Run("settlement promotes pending order", func(t *testing.T) {
		payment := &model.Payment{Status: model.PaymentStatusPending}

		decision, err := service.DecideTransition(payment, model.OrderStatusPendingPayment, model.PaymentStatusPaid)

		require.NoError(t, err)
		assert.True(t, decision.Change)
		assert.True(t, decision.StampPaidAt)
		assert.True(t, decision.PromoteOrder)
	})

	t.Run("paid payment is never demoted", func(t *testing.T) {
		for _, target := range []model.PaymentStatus{
			model.PaymentStatusPending, model.PaymentStatusFailed, model.PaymentStatusCancelled,
		} {
			payment := &model.Payment{Status: model.PaymentStatusPaid}

			decision, err := service.DecideTransition(payment, model.OrderStatusPaid, target)

			require.NoError(t, err)
			assert.False(t, decision.Change, "target %s", target)
		}
	})

	t.Run("closed payments only move to paid", func(t *testing.T) {
		for _, current := range []model.PaymentStatus{model.PaymentStatusCancelled, model.PaymentStatusFailed} {
			for _, target := range []model.PaymentStatus{
				model.PaymentStatusPending, model.PaymentStatusFailed, model.PaymentStatusCancelled,
			} {
				payment := &model.Payment{Status: current}

				decision, err := service.DecideTransition(payment, model.OrderStatusPendingPayment, target)

				require.NoError(t, err)
				assert.False(t, decision.Change, "%s -> %s", current, target)
			}

			decision, err := service.DecideTransition(&model.Payment{Status: current}, model.OrderStatusPendingPayment, model.PaymentStatusPaid)
			require.NoError(t, err)
			assert.True(t, decision.Change, "%s -> PAID", current)
		}
	})

	t.Run("paid after cancellation conflicts", func(t *testing.T) {
		payment := &model.Payment{Status: model.PaymentStatusCancelled}

		_, err := service.DecideTransition(payment, model.OrderStatusCancelled, model.PaymentStatusPaid)

		assert.ErrorIs(t, err, domainErrors.ErrOrderCancelledConflict)
	})

	t.Run("non-paid target on cancelled order is a no-op", func(t *testing.T) {
		payment := &model.Payment{Status: model.PaymentStatusCancelled}

		decision, err := service.DecideTransition(payment, model.OrderStatusCancelled, model.PaymentStatusFailed)

		require.NoError(t, err)
		assert.False(t, decision.Change)
	})

	t.Run("paid at is stamped only once", func(t *testing.T) {
		paidAt := time.Now()
		payment := &model.Payment{Status: model.PaymentStatusCancelled, PaidAt: &paidAt}

		decision, err := service.DecideTransition(payment, model.OrderStatusPendingPayment, model.PaymentStatusPaid)

		require.NoError(t, err)
		assert.True(t, decision.Change)
		assert.False(t, decision.StampPaidAt)
	})

	t.Run("failure leaves order untouched", func(t *testing.T) {
		payment := &model.Payment{Status: model.PaymentStatusPending}

		decision, err := service.DecideTransition(payment, model.OrderStatusPendingPayment, model.PaymentStatusFailed)

		require.NoError(t, err)
		assert.True(t, decision.Change)
		assert.False(t, decision.PromoteOrder)
		assert.False(t, decision.StampPaidAt)
	})

	t.Run("paid on already paid order does not promote", func(t *testing.T) {
		payment := &model.Payment{Status: model.PaymentStatusPending}

		decision, err := service.DecideTransition(payment, model.OrderStatusPaid, model.PaymentStatusPaid)

		require.NoError(t, err)
		assert.True(t, decision.Change)
		assert.False(t, decision.PromoteOrder)
	})
}

func TestPaymentActivityLabel(t *testing.T) {
	assert.Equal(t, "Payment completed", service.PaymentActivityLabel(model.PaymentStatusPaid))
	assert.Equal(t, "Payment failed", service.PaymentActivityLabel(model.PaymentStatusFailed))
	assert.Equal(t, "Payment cancelled", service.PaymentActivityLabel(model.PaymentStatusCancelled))
}
