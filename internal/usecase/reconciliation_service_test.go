package usecase_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/fitrahmoef/Saintara-Mobile/internal/domain/errors"
	"github.com/fitrahmoef/Saintara-Mobile/internal/domain/model"
	"github.com/fitrahmoef/Saintara-Mobile/internal/testutil"
	"github.com/fitrahmoef/Saintara-Mobile/internal/usecase"
)

func countActivities(t *testing.T, f *fixture, action model.ActivityAction) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&model.Activity{}).Where("action = ?", action).Count(&n).Error)
	return n
}

func reload(t *testing.T, f *fixture, payment *model.Payment) (*model.Payment, *model.Order) {
	t.Helper()
	var p model.Payment
	require.NoError(t, f.db.First(&p, "id = ?", payment.ID).Error)
	var o model.Order
	require.NoError(t, f.db.First(&o, "id = ?", payment.OrderID).Error)
	return &p, &o
}

func TestReconciliationService_Apply(t *testing.T) {
	ctx := context.Background()

	t.Run("settlement pays payment and order", func(t *testing.T) {
		f := newFixture(t)
		user := testutil.CreateUser(t, f.db, model.RoleCustomer)
		order := testutil.CreateOrder(t, f.db, user.ID, model.OrderStatusPendingPayment)
		payment := testutil.CreatePayment(t, f.db, order, model.PaymentStatusPending, "tx-1")

		result, err := f.reconciler.Apply(ctx, payment.ID, usecase.GatewayUpdate{
			TransactionStatus: "settlement",
			PaymentType:       "bank_transfer",
			Source:            usecase.SourceNotification,
		})
		require.NoError(t, err)
		assert.True(t, result.Changed)
		assert.Equal(t, model.PaymentStatusPending, result.From)
		assert.Equal(t, model.PaymentStatusPaid, result.To)
		assert.Equal(t, model.OrderStatusPaid, result.OrderStatus)

		p, o := reload(t, f, payment)
		assert.Equal(t, model.PaymentStatusPaid, p.Status)
		require.NotNil(t, p.PaidAt)
		assert.Nil(t, p.Method)
		require.NotNil(t, p.PaymentType)
		assert.Equal(t, "bank_transfer", *p.PaymentType)
		assert.Equal(t, model.OrderStatusPaid, o.Status)

		var activity model.Activity
		require.NoError(t, f.db.Where("action = ?", model.ActivityPaymentStatus).First(&activity).Error)
		assert.Equal(t, "Payment completed", activity.Label)
		assert.Equal(t, user.ID, activity.UserID)
		assert.Equal(t, 1, f.publisher.count())
	})

	t.Run("repeated settlement is a no-op", func(t *testing.T) {
		f := newFixture(t)
		user := testutil.CreateUser(t, f.db, model.RoleCustomer)
		order := testutil.CreateOrder(t, f.db, user.ID, model.OrderStatusPendingPayment)
		payment := testutil.CreatePayment(t, f.db, order, model.PaymentStatusPending, "tx-1")

		update := usecase.GatewayUpdate{TransactionStatus: "settlement", Source: usecase.SourceNotification}
		_, err := f.reconciler.Apply(ctx, payment.ID, update)
		require.NoError(t, err)
		first, _ := reload(t, f, payment)

		result, err := f.reconciler.Apply(ctx, payment.ID, update)
		require.NoError(t, err)
		assert.False(t, result.Changed)

		second, _ := reload(t, f, payment)
		assert.True(t, first.PaidAt.Equal(*second.PaidAt))
		assert.Equal(t, int64(1), countActivities(t, f, model.ActivityPaymentStatus))
		assert.Equal(t, 1, f.publisher.count())
	})

	t.Run("paid payment is never demoted", func(t *testing.T) {
		f := newFixture(t)
		user := testutil.CreateUser(t, f.db, model.RoleCustomer)
		order := testutil.CreateOrder(t, f.db, user.ID, model.OrderStatusPaid)
		payment := testutil.CreatePayment(t, f.db, order, model.PaymentStatusPaid, "tx-1")

		for _, status := range []string{"expire", "pending", "something-new"} {
			result, err := f.reconciler.Apply(ctx, payment.ID, usecase.GatewayUpdate{TransactionStatus: status})
			require.NoError(t, err)
			assert.False(t, result.Changed, status)
		}

		p, o := reload(t, f, payment)
		assert.Equal(t, model.PaymentStatusPaid, p.Status)
		assert.Equal(t, model.OrderStatusPaid, o.Status)
		assert.Zero(t, countActivities(t, f, model.ActivityPaymentStatus))
	})

	t.Run("fraud deny fails the payment and keeps the order payable", func(t *testing.T) {
		f := newFixture(t)
		user := testutil.CreateUser(t, f.db, model.RoleCustomer)
		order := testutil.CreateOrder(t, f.db, user.ID, model.OrderStatusPendingPayment)
		payment := testutil.CreatePayment(t, f.db, order, model.PaymentStatusPending, "tx-1")

		result, err := f.reconciler.Apply(ctx, payment.ID, usecase.GatewayUpdate{
			TransactionStatus: "capture",
			FraudStatus:       "deny",
		})
		require.NoError(t, err)
		assert.Equal(t, model.PaymentStatusFailed, result.To)

		p, o := reload(t, f, payment)
		assert.Equal(t, model.PaymentStatusFailed, p.Status)
		assert.Nil(t, p.PaidAt)
		assert.Equal(t, model.OrderStatusPendingPayment, o.Status)

		var activity model.Activity
		require.NoError(t, f.db.Where("action = ?", model.ActivityPaymentStatus).First(&activity).Error)
		assert.Equal(t, "Payment failed", activity.Label)
	})

	t.Run("expire cancels the payment only", func(t *testing.T) {
		f := newFixture(t)
		user := testutil.CreateUser(t, f.db, model.RoleCustomer)
		order := testutil.CreateOrder(t, f.db, user.ID, model.OrderStatusPendingPayment)
		payment := testutil.CreatePayment(t, f.db, order, model.PaymentStatusPending, "tx-1")

		_, err := f.reconciler.Apply(ctx, payment.ID, usecase.GatewayUpdate{TransactionStatus: "expire"})
		require.NoError(t, err)

		p, o := reload(t, f, payment)
		assert.Equal(t, model.PaymentStatusCancelled, p.Status)
		assert.Equal(t, model.OrderStatusPendingPayment, o.Status)
	})

	t.Run("late pending does not reopen an expired payment", func(t *testing.T) {
		f := newFixture(t)
		user := testutil.CreateUser(t, f.db, model.RoleCustomer)
		order := testutil.CreateOrder(t, f.db, user.ID, model.OrderStatusPendingPayment)
		payment := testutil.CreatePayment(t, f.db, order, model.PaymentStatusPending, "tx-1")

		_, err := f.reconciler.Apply(ctx, payment.ID, usecase.GatewayUpdate{TransactionStatus: "expire"})
		require.NoError(t, err)

		result, err := f.reconciler.Apply(ctx, payment.ID, usecase.GatewayUpdate{TransactionStatus: "pending"})
		require.NoError(t, err)
		assert.False(t, result.Changed)

		p, o := reload(t, f, payment)
		assert.Equal(t, model.PaymentStatusCancelled, p.Status)
		assert.Equal(t, model.OrderStatusPendingPayment, o.Status)
		assert.Equal(t, int64(1), countActivities(t, f, model.ActivityPaymentStatus))
		assert.Equal(t, 1, f.publisher.count())
	})

	t.Run("late pending for an old attempt leaves the new attempt alone", func(t *testing.T) {
		f := newFixture(t)
		user := testutil.CreateUser(t, f.db, model.RoleCustomer)
		order := testutil.CreateOrder(t, f.db, user.ID, model.OrderStatusPendingPayment)
		old := testutil.CreatePayment(t, f.db, order, model.PaymentStatusCancelled, "tx-old")
		current := testutil.CreatePayment(t, f.db, order, model.PaymentStatusPending, "tx-new")

		result, err := f.reconciler.Apply(ctx, old.ID, usecase.GatewayUpdate{TransactionStatus: "pending"})
		require.NoError(t, err)
		assert.False(t, result.Changed)

		p, _ := reload(t, f, old)
		assert.Equal(t, model.PaymentStatusCancelled, p.Status)
		p, _ = reload(t, f, current)
		assert.Equal(t, model.PaymentStatusPending, p.Status)
		assert.Zero(t, countActivities(t, f, model.ActivityPaymentStatus))
	})

	t.Run("failed payment keeps its verdict", func(t *testing.T) {
		f := newFixture(t)
		user := testutil.CreateUser(t, f.db, model.RoleCustomer)
		order := testutil.CreateOrder(t, f.db, user.ID, model.OrderStatusPendingPayment)
		payment := testutil.CreatePayment(t, f.db, order, model.PaymentStatusFailed, "tx-1")

		for _, status := range []string{"pending", "expire", "cancel"} {
			result, err := f.reconciler.Apply(ctx, payment.ID, usecase.GatewayUpdate{TransactionStatus: status})
			require.NoError(t, err)
			assert.False(t, result.Changed, status)
		}

		p, _ := reload(t, f, payment)
		assert.Equal(t, model.PaymentStatusFailed, p.Status)
		assert.Zero(t, f.publisher.count())
	})

	t.Run("settlement after expiry still pays the order", func(t *testing.T) {
		f := newFixture(t)
		user := testutil.CreateUser(t, f.db, model.RoleCustomer)
		order := testutil.CreateOrder(t, f.db, user.ID, model.OrderStatusPendingPayment)
		payment := testutil.CreatePayment(t, f.db, order, model.PaymentStatusCancelled, "tx-1")

		result, err := f.reconciler.Apply(ctx, payment.ID, usecase.GatewayUpdate{TransactionStatus: "settlement"})
		require.NoError(t, err)
		assert.True(t, result.Changed)

		p, o := reload(t, f, payment)
		assert.Equal(t, model.PaymentStatusPaid, p.Status)
		assert.Equal(t, model.OrderStatusPaid, o.Status)
	})

	t.Run("settlement after cancellation conflicts", func(t *testing.T) {
		f := newFixture(t)
		user := testutil.CreateUser(t, f.db, model.RoleCustomer)
		order := testutil.CreateOrder(t, f.db, user.ID, model.OrderStatusCancelled)
		payment := testutil.CreatePayment(t, f.db, order, model.PaymentStatusCancelled, "tx-1")

		_, err := f.reconciler.Apply(ctx, payment.ID, usecase.GatewayUpdate{TransactionStatus: "settlement"})
		assert.ErrorIs(t, err, domainErrors.ErrOrderCancelledConflict)

		p, o := reload(t, f, payment)
		assert.Equal(t, model.PaymentStatusCancelled, p.Status)
		assert.Equal(t, model.OrderStatusCancelled, o.Status)
		assert.Zero(t, f.publisher.count())
	})

	t.Run("unknown payment", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.reconciler.Apply(ctx, uuid.New(), usecase.GatewayUpdate{TransactionStatus: "settlement"})
		assert.ErrorIs(t, err, domainErrors.ErrPaymentNotFound)
	})
}
