package usecase_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fitrahmoef/Saintara-Mobile/internal/catalog"
	domainErrors "github.com/fitrahmoef/Saintara-Mobile/internal/domain/errors"
	"github.com/fitrahmoef/Saintara-Mobile/internal/domain/entity"
	"github.com/fitrahmoef/Saintara-Mobile/internal/domain/event"
	"github.com/fitrahmoef/Saintara-Mobile/internal/domain/model"
	"github.com/fitrahmoef/Saintara-Mobile/internal/testutil"
	"github.com/fitrahmoef/Saintara-Mobile/internal/usecase"
)

func newOrderUsecase(f *fixture) *usecase.OrderUsecase {
	return usecase.NewOrderUsecase(f.store, catalog.Default(), f.events, zap.NewNop())
}

func TestOrderUsecase_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("prices packages per participant", func(t *testing.T) {
		f := newFixture(t)
		uc := newOrderUsecase(f)
		user := testutil.CreateUser(t, f.db, model.RoleCustomer)

		order, err := uc.Create(ctx, principalFor(user), usecase.CreateOrderRequest{
			Packages: []string{"LAPORAN_UMUM_10", "PELATIHAN_ONLINE", "LAPORAN_UMUM_10"},
			Participants: []usecase.ParticipantInput{
				{FullName: "Ayu", Email: "ayu@example.com"},
				{FullName: "Budi", Email: "budi@example.com"},
			},
		})
		require.NoError(t, err)
		assert.Regexp(t, `^ORD-\d{13}-[A-Z0-9]{9}$`, order.OrderNumber)
		assert.Equal(t, model.OrderStatusPendingPayment, order.Status)
		assert.Equal(t, model.OrderTypeIndividual, order.Type)
		assert.Equal(t, "60000", order.PricePerPerson.String())
		assert.Equal(t, "120000", order.TotalAmount.String())

		codes, err := order.PackageCodes()
		require.NoError(t, err)
		assert.Equal(t, []string{"LAPORAN_UMUM_10", "PELATIHAN_ONLINE"}, codes)

		var participants int64
		require.NoError(t, f.db.Model(&model.Participant{}).Where("order_id = ?", order.ID).Count(&participants).Error)
		assert.Equal(t, int64(2), participants)
		assert.Equal(t, int64(1), countActivities(t, f, model.ActivityCreateOrder))

		require.Equal(t, 1, f.publisher.count())
		envelope := f.publisher.messages[0].Message.(event.Envelope)
		assert.Equal(t, event.TypeOrderCreated, envelope.Type)
	})

	t.Run("validation", func(t *testing.T) {
		f := newFixture(t)
		uc := newOrderUsecase(f)
		user := testutil.CreateUser(t, f.db, model.RoleCustomer)
		participants := []usecase.ParticipantInput{{FullName: "Ayu", Email: "ayu@example.com"}}

		_, err := uc.Create(ctx, principalFor(user), usecase.CreateOrderRequest{Packages: []string{"LAPORAN_UMUM_10"}})
		assert.ErrorIs(t, err, domainErrors.ErrNoParticipants)

		_, err = uc.Create(ctx, principalFor(user), usecase.CreateOrderRequest{Packages: []string{"NOPE"}, Participants: participants})
		assert.ErrorIs(t, err, domainErrors.ErrUnknownPackage)

		_, err = uc.Create(ctx, principalFor(user), usecase.CreateOrderRequest{Type: "FAMILY", Packages: []string{"LAPORAN_UMUM_10"}, Participants: participants})
		assert.ErrorIs(t, err, domainErrors.ErrInvalidOrderType)
	})
}

func TestOrderUsecase_ListAndGet(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	uc := newOrderUsecase(f)
	owner := testutil.CreateUser(t, f.db, model.RoleCustomer)
	other := testutil.CreateUser(t, f.db, model.RoleCustomer)
	admin := testutil.CreateUser(t, f.db, model.RoleSuperAdmin)

	paid := testutil.CreateOrder(t, f.db, owner.ID, model.OrderStatusPaid)
	testutil.CreateOrder(t, f.db, owner.ID, model.OrderStatusPendingPayment)
	testutil.CreateOrder(t, f.db, other.ID, model.OrderStatusPendingPayment)

	page, err := uc.List(ctx, principalFor(owner), "", entity.PaginationParams{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Pagination.Total)
	assert.Equal(t, entity.DefaultPageSize, page.Pagination.PerPage)

	page, err = uc.List(ctx, principalFor(owner), "PAID", entity.PaginationParams{Page: 1, Limit: 500})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, paid.ID, page.Data[0].ID)
	assert.Equal(t, entity.MaxPageSize, page.Pagination.PerPage)

	page, err = uc.List(ctx, principalFor(admin), "", entity.PaginationParams{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Pagination.Total)

	_, err = uc.List(ctx, principalFor(owner), "SHIPPED", entity.PaginationParams{})
	assert.ErrorIs(t, err, domainErrors.ErrInvalidOrderStatus)

	detail, err := uc.Get(ctx, principalFor(owner), paid.ID)
	require.NoError(t, err)
	assert.Len(t, detail.Participants, 1)

	_, err = uc.Get(ctx, principalFor(other), paid.ID)
	assert.ErrorIs(t, err, domainErrors.ErrOrderForbidden)

	_, err = uc.Get(ctx, principalFor(owner), uuid.New())
	assert.ErrorIs(t, err, domainErrors.ErrOrderNotFound)
}

func TestOrderUsecase_Cancel(t *testing.T) {
	ctx := context.Background()

	t.Run("cascades to pending payments", func(t *testing.T) {
		f := newFixture(t)
		uc := newOrderUsecase(f)
		user := testutil.CreateUser(t, f.db, model.RoleCustomer)
		order := testutil.CreateOrder(t, f.db, user.ID, model.OrderStatusPendingPayment)
		pending := testutil.CreatePayment(t, f.db, order, model.PaymentStatusPending, "tx-1")
		failed := testutil.CreatePayment(t, f.db, order, model.PaymentStatusFailed, "tx-0")

		cancelled, err := uc.Cancel(ctx, principalFor(user), order.ID)
		require.NoError(t, err)
		assert.Equal(t, model.OrderStatusCancelled, cancelled.Status)
		assert.NotNil(t, cancelled.CancelledAt)

		p, _ := reload(t, f, pending)
		assert.Equal(t, model.PaymentStatusCancelled, p.Status)
		p, _ = reload(t, f, failed)
		assert.Equal(t, model.PaymentStatusFailed, p.Status)
		assert.Equal(t, int64(1), countActivities(t, f, model.ActivityCancelOrder))
		assert.Equal(t, 1, f.publisher.count())
	})

	t.Run("paid order keeps its paid payment", func(t *testing.T) {
		f := newFixture(t)
		uc := newOrderUsecase(f)
		user := testutil.CreateUser(t, f.db, model.RoleCustomer)
		order := testutil.CreateOrder(t, f.db, user.ID, model.OrderStatusPaid)
		payment := testutil.CreatePayment(t, f.db, order, model.PaymentStatusPaid, "tx-1")

		_, err := uc.Cancel(ctx, principalFor(user), order.ID)
		require.NoError(t, err)

		p, o := reload(t, f, payment)
		assert.Equal(t, model.PaymentStatusPaid, p.Status)
		assert.Equal(t, model.OrderStatusCancelled, o.Status)
	})

	t.Run("guards", func(t *testing.T) {
		tests := []struct {
			status model.OrderStatus
			want   error
		}{
			{model.OrderStatusProcessing, domainErrors.ErrOrderInProcessing},
			{model.OrderStatusCompleted, domainErrors.ErrOrderAlreadyCompleted},
			{model.OrderStatusCancelled, domainErrors.ErrOrderAlreadyCancelled},
		}
		for _, tt := range tests {
			t.Run(string(tt.status), func(t *testing.T) {
				f := newFixture(t)
				uc := newOrderUsecase(f)
				user := testutil.CreateUser(t, f.db, model.RoleCustomer)
				order := testutil.CreateOrder(t, f.db, user.ID, tt.status)

				_, err := uc.Cancel(ctx, principalFor(user), order.ID)
				assert.ErrorIs(t, err, tt.want)
				assert.Zero(t, countActivities(t, f, model.ActivityCancelOrder))
			})
		}
	})

	t.Run("other user", func(t *testing.T) {
		f := newFixture(t)
		uc := newOrderUsecase(f)
		owner := testutil.CreateUser(t, f.db, model.RoleCustomer)
		other := testutil.CreateUser(t, f.db, model.RoleCustomer)
		order := testutil.CreateOrder(t, f.db, owner.ID, model.OrderStatusPendingPayment)

		_, err := uc.Cancel(ctx, principalFor(other), order.ID)
		assert.ErrorIs(t, err, domainErrors.ErrOrderForbidden)
	})

	t.Run("then a settlement arrives", func(t *testing.T) {
		f := newFixture(t)
		uc := newOrderUsecase(f)
		user := testutil.CreateUser(t, f.db, model.RoleCustomer)
		order := testutil.CreateOrder(t, f.db, user.ID, model.OrderStatusPendingPayment)
		payment := testutil.CreatePayment(t, f.db, order, model.PaymentStatusPending, "tx-1")

		_, err := uc.Cancel(ctx, principalFor(user), order.ID)
		require.NoError(t, err)

		_, err = f.reconciler.Apply(ctx, payment.ID, usecase.GatewayUpdate{TransactionStatus: "settlement"})
		assert.ErrorIs(t, err, domainErrors.ErrOrderCancelledConflict)
	})
}

func TestOrderUsecase_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	uc := newOrderUsecase(f)
	customer := testutil.CreateUser(t, f.db, model.RoleCustomer)
	admin := testutil.CreateUser(t, f.db, model.RoleSuperAdmin)
	order := testutil.CreateOrder(t, f.db, customer.ID, model.OrderStatusPaid)

	_, err := uc.UpdateStatus(ctx, principalFor(customer), order.ID, model.OrderStatusProcessing)
	assert.ErrorIs(t, err, domainErrors.ErrAdminOnly)

	_, err = uc.UpdateStatus(ctx, principalFor(admin), order.ID, model.OrderStatusCompleted)
	assert.ErrorIs(t, err, domainErrors.ErrInvalidOrderTransition)

	updated, err := uc.UpdateStatus(ctx, principalFor(admin), order.ID, model.OrderStatusProcessing)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusProcessing, updated.Status)

	updated, err = uc.UpdateStatus(ctx, principalFor(admin), order.ID, model.OrderStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusCompleted, updated.Status)

	_, err = uc.UpdateStatus(ctx, principalFor(admin), order.ID, model.OrderStatusCancelled)
	assert.ErrorIs(t, err, domainErrors.ErrInvalidOrderTransition)

	assert.Equal(t, int64(2), countActivities(t, f, model.ActivityUpdateOrderStatus))
}
