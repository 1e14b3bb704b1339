package testutil

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/fitrahmoef/Saintara-Mobile/internal/domain/model"
)

// CreateUser inserts an active customer
func CreateUser(t *testing.T, db *gorm.DB, role model.UserRole) *model.User {
	t.Helper()
	user := &model.User{
		Email:        fmt.Sprintf("%s@example.com", uuid.NewString()[:8]),
		PasswordHash: "x",
		FullName:     "Test User",
		Role:         role,
		Status:       model.UserStatusActive,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateOrder inserts an order for userID in the given status with one participant
func CreateOrder(t *testing.T, db *gorm.DB, userID uuid.UUID, status model.OrderStatus) *model.Order {
	t.Helper()
	packages, err := json.Marshal([]string{"LENGKAP_35_KARAKTER"})
	require.NoError(t, err)

	order := &model.Order{
		OrderNumber:      "ORD-" + uuid.NewString()[:12],
		UserID:           userID,
		Type:             model.OrderTypeIndividual,
		Packages:         packages,
		ParticipantCount: 1,
		PricePerPerson:   decimal.NewFromInt(35000),
		TotalAmount:      decimal.NewFromInt(35000),
		Status:           status,
		Participants: []model.Participant{
			{FullName: "Participant", Email: "participant@example.com"},
		},
	}
	require.NoError(t, db.Create(order).Error)
	return order
}

// CreatePayment inserts a payment attempt for order
func CreatePayment(t *testing.T, db *gorm.DB, order *model.Order, status model.PaymentStatus, transactionID string) *model.Payment {
	t.Helper()
	payment := &model.Payment{
		PaymentNumber: "PAY-" + uuid.NewString()[:12],
		OrderID:       order.ID,
		UserID:        order.UserID,
		Amount:        order.TotalAmount,
		Provider:      "midtrans",
		Status:        status,
	}
	if transactionID != "" {
		payment.TransactionID = &transactionID
	}
	if status == model.PaymentStatusPaid {
		now := time.Now().UTC()
		payment.PaidAt = &now
	}
	require.NoError(t, db.Create(payment).Error)
	return payment
}
