package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fitrahmoef/Saintara-Mobile/internal/adapter/repository"
	"github.com/fitrahmoef/Saintara-Mobile/internal/domain/entity"
	"github.com/fitrahmoef/Saintara-Mobile/internal/domain/model"
	domainRepo "github.com/fitrahmoef/Saintara-Mobile/internal/domain/repository"
	"github.com/fitrahmoef/Saintara-Mobile/internal/testutil"
)

func TestStore_WithinTransaction(t *testing.T) {
	db := testutil.NewDB(t)
	store := repository.NewStore(db, zap.NewNop())
	ctx := context.Background()
	user := testutil.CreateUser(t, db, model.RoleCustomer)

	t.Run("rolls back on error", func(t *testing.T) {
		err := store.WithinTransaction(ctx, func(tx domainRepo.Store) error {
			require.NoError(t, tx.Activities().Create(ctx, &model.Activity{
				UserID: user.ID, Action: model.ActivityLogin, Label: "Logged in",
			}))
			return errors.New("boom")
		})
		require.Error(t, err)

		activities, err := store.Activities().ListByUser(ctx, user.ID, 10)
		require.NoError(t, err)
		assert.Empty(t, activities)
	})

	t.Run("commits on success", func(t *testing.T) {
		err := store.WithinTransaction(ctx, func(tx domainRepo.Store) error {
			return tx.Activities().Create(ctx, &model.Activity{
				UserID: user.ID, Action: model.ActivityLogin, Label: "Logged in",
			})
		})
		require.NoError(t, err)

		activities, err := store.Activities().ListByUser(ctx, user.ID, 10)
		require.NoError(t, err)
		assert.Len(t, activities, 1)
	})
}

func TestOrderRepository(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewOrderRepository(db, zap.NewNop())
	ctx := context.Background()
	user := testutil.CreateUser(t, db, model.RoleCustomer)
	other := testutil.CreateUser(t, db, model.RoleCustomer)

	pending := testutil.CreateOrder(t, db, user.ID, model.OrderStatusPendingPayment)
	paid := testutil.CreateOrder(t, db, user.ID, model.OrderStatusPaid)
	testutil.CreateOrder(t, db, user.ID, model.OrderStatusCompleted)
	testutil.CreateOrder(t, db, other.ID, model.OrderStatusPendingPayment)

	t.Run("find by id returns nil when missing", func(t *testing.T) {
		order, err := repo.FindByID(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, order)
	})

	t.Run("find detail preloads relations", func(t *testing.T) {
		testutil.CreatePayment(t, db, pending, model.PaymentStatusFailed, "")
		time.Sleep(time.Millisecond)
		latest := testutil.CreatePayment(t, db, pending, model.PaymentStatusPending, "tx-latest")

		order, err := repo.FindDetail(ctx, pending.ID)
		require.NoError(t, err)
		require.NotNil(t, order)
		assert.Len(t, order.Participants, 1)
		require.Len(t, order.Payments, 2)
		assert.Equal(t, latest.ID, order.Payments[0].ID)
	})

	t.Run("list filters by user and status", func(t *testing.T) {
		params := entity.PaginationParams{}
		params.Validate()

		orders, total, err := repo.List(ctx, domainRepo.OrderFilter{UserID: &user.ID}, params)
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, orders, 3)

		orders, total, err = repo.List(ctx, domainRepo.OrderFilter{UserID: &user.ID, Status: model.OrderStatusPaid}, params)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, paid.ID, orders[0].ID)

		_, total, err = repo.List(ctx, domainRepo.OrderFilter{}, params)
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
	})

	t.Run("list paginates", func(t *testing.T) {
		orders, total, err := repo.List(ctx, domainRepo.OrderFilter{UserID: &user.ID}, entity.PaginationParams{Page: 2, Limit: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, orders, 1)
	})

	t.Run("update status is compare and set", func(t *testing.T) {
		ok, err := repo.UpdateStatus(ctx, paid.ID, model.OrderStatusPendingPayment, model.OrderStatusCancelled, nil)
		require.NoError(t, err)
		assert.False(t, ok)

		ok, err = repo.UpdateStatus(ctx, paid.ID, model.OrderStatusPaid, model.OrderStatusProcessing, nil)
		require.NoError(t, err)
		assert.True(t, ok)

		order, err := repo.FindByIDForUpdate(ctx, paid.ID)
		require.NoError(t, err)
		assert.Equal(t, model.OrderStatusProcessing, order.Status)
	})

	t.Run("stats", func(t *testing.T) {
		stats, err := repo.Stats(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(3), stats.Total)
		assert.Equal(t, int64(1), stats.Completed)
		assert.Equal(t, int64(1), stats.PendingPayment)
		assert.Equal(t, int64(1), stats.Active)
		assert.Equal(t, int64(3), stats.TotalParticipants)
	})
}

func TestPaymentRepository(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewPaymentRepository(db, zap.NewNop())
	ctx := context.Background()
	user := testutil.CreateUser(t, db, model.RoleCustomer)
	order := testutil.CreateOrder(t, db, user.ID, model.OrderStatusPendingPayment)

	t.Run("one pending payment per order", func(t *testing.T) {
		testutil.CreatePayment(t, db, order, model.PaymentStatusPending, "")

		err := repo.Create(ctx, &model.Payment{
			PaymentNumber: "PAY-dup",
			OrderID:       order.ID,
			UserID:        user.ID,
			Amount:        order.TotalAmount,
			Provider:      "midtrans",
			Status:        model.PaymentStatusPending,
		})
		assert.Error(t, err)

		pending, err := repo.HasPending(ctx, order.ID)
		require.NoError(t, err)
		assert.True(t, pending)
	})

	t.Run("attach transaction and find by it", func(t *testing.T) {
		other := testutil.CreateOrder(t, db, user.ID, model.OrderStatusPendingPayment)
		payment := testutil.CreatePayment(t, db, other, model.PaymentStatusPending, "")

		ok, err := repo.AttachTransaction(ctx, payment.ID, "tx-attach", "token", "https://pay")
		require.NoError(t, err)
		assert.True(t, ok)

		found, err := repo.FindByTransactionID(ctx, "tx-attach")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, payment.ID, found.ID)
		assert.Equal(t, "token", *found.CheckoutToken)
	})

	t.Run("update status is compare and set", func(t *testing.T) {
		other := testutil.CreateOrder(t, db, user.ID, model.OrderStatusPendingPayment)
		payment := testutil.CreatePayment(t, db, other, model.PaymentStatusPending, "tx-cas")

		ok, err := repo.UpdateStatus(ctx, payment.ID, model.PaymentStatusPending, model.PaymentStatusPaid, map[string]interface{}{"paid_at": time.Now()})
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.UpdateStatus(ctx, payment.ID, model.PaymentStatusPending, model.PaymentStatusFailed, nil)
		require.NoError(t, err)
		assert.False(t, ok)

		found, err := repo.FindByIDForUpdate(ctx, payment.ID)
		require.NoError(t, err)
		assert.Equal(t, model.PaymentStatusPaid, found.Status)
		assert.NotNil(t, found.PaidAt)
	})

	t.Run("cancel pending leaves paid untouched", func(t *testing.T) {
		other := testutil.CreateOrder(t, db, user.ID, model.OrderStatusPaid)
		paid := testutil.CreatePayment(t, db, other, model.PaymentStatusPaid, "tx-paid")
		pending := testutil.CreatePayment(t, db, other, model.PaymentStatusPending, "tx-pending")

		n, err := repo.CancelPendingByOrder(ctx, other.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		found, err := repo.FindByID(ctx, pending.ID)
		require.NoError(t, err)
		assert.Equal(t, model.PaymentStatusCancelled, found.Status)

		found, err = repo.FindByID(ctx, paid.ID)
		require.NoError(t, err)
		assert.Equal(t, model.PaymentStatusPaid, found.Status)
	})

	t.Run("missing payment is nil", func(t *testing.T) {
		found, err := repo.FindByTransactionID(ctx, "unknown")
		require.NoError(t, err)
		assert.Nil(t, found)
	})
}

func TestNotificationRepository(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewNotificationRepository(db, zap.NewNop())
	ctx := context.Background()

	notification := func() *model.PaymentNotification {
		return &model.PaymentNotification{
			Provider:          "midtrans",
			EventKey:          "midtrans:evt-1",
			TransactionID:     "pay-1",
			TransactionStatus: "settlement",
			SignatureValid:    true,
			Status:            model.NotificationStatusReceived,
		}
	}

	inserted, err := repo.Save(ctx, notification())
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = repo.Save(ctx, notification())
	require.NoError(t, err)
	assert.False(t, inserted)

	require.NoError(t, repo.MarkProcessed(ctx, "midtrans:evt-1"))
	found, err := repo.FindByEventKey(ctx, "midtrans:evt-1")
	require.NoError(t, err)
	assert.Equal(t, model.NotificationStatusProcessed, found.Status)
	assert.NotNil(t, found.ProcessedAt)

	require.NoError(t, repo.MarkFailed(ctx, "midtrans:evt-1", errors.New("payment not found")))
	found, err = repo.FindByEventKey(ctx, "midtrans:evt-1")
	require.NoError(t, err)
	assert.Equal(t, model.NotificationStatusFailed, found.Status)
	assert.Equal(t, "payment not found", *found.ErrorMessage)

	assert.Error(t, repo.MarkProcessed(ctx, "missing"))
}

func TestUserRepository(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewUserRepository(db, zap.NewNop())
	ctx := context.Background()

	token := "verify-token"
	user := &model.User{
		Email:             "Budi@Example.com",
		PasswordHash:      "hash",
		FullName:          "Budi",
		Role:              model.RoleCustomer,
		Status:            model.UserStatusPendingVerification,
		VerificationToken: &token,
	}
	require.NoError(t, repo.Create(ctx, user))

	found, err := repo.FindByEmail(ctx, "budi@example.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, user.ID, found.ID)

	found, err = repo.FindByVerificationToken(ctx, token)
	require.NoError(t, err)
	require.NotNil(t, found)

	require.NoError(t, repo.Update(ctx, user.ID, map[string]interface{}{"status": model.UserStatusActive}))
	found, err = repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, model.UserStatusActive, found.Status)

	duplicate := &model.User{Email: "budi@example.com", PasswordHash: "x", FullName: "B", Role: model.RoleCustomer, Status: model.UserStatusActive}
	assert.Error(t, repo.Create(ctx, duplicate))
}

func TestResultRepository(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repository.NewResultRepository(db, zap.NewNop())
	ctx := context.Background()

	owner := testutil.CreateUser(t, db, model.RoleCustomer)
	other := testutil.CreateUser(t, db, model.RoleCustomer)
	order := testutil.CreateOrder(t, db, owner.ID, model.OrderStatusCompleted)
	otherOrder := testutil.CreateOrder(t, db, other.ID, model.OrderStatusCompleted)

	mine := &model.TestResult{ParticipantID: order.Participants[0].ID, CharacterType: "ANALYST", CompletedAt: time.Now()}
	require.NoError(t, db.Create(mine).Error)
	require.NoError(t, db.Create(&model.TestResult{ParticipantID: otherOrder.Participants[0].ID, CharacterType: "ANALYST", CompletedAt: time.Now()}).Error)

	params := entity.PaginationParams{}
	params.Validate()

	results, total, err := repo.List(ctx, domainRepo.ResultFilter{UserID: &owner.ID}, params)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, results, 1)
	require.NotNil(t, results[0].Participant)
	require.NotNil(t, results[0].Participant.Order)
	assert.Equal(t, owner.ID, results[0].Participant.Order.UserID)

	_, total, err = repo.List(ctx, domainRepo.ResultFilter{UserID: &owner.ID, CharacterType: "DIPLOMAT"}, params)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)

	found, err := repo.FindByID(ctx, mine.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, found.Participant.Order.ID)

	recent, err := repo.Recent(ctx, owner.ID, 5)
	require.NoError(t, err)
	assert.Len(t, recent, 1)
}
