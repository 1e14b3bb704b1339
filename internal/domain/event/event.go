// Package event defines the integration events this service publishes.
package event

import (
	"time"

	"github.com/google/uuid"
)

const (
	TypePaymentStatusChanged = "payment.status_changed"
	TypeOrderCreated         = "order.created"
	TypeOrderCancelled       = "order.cancelled"
	TypeOrderStatusChanged   = "order.status_changed"
	TypeUserRegistered       = "user.registered"
)

// Envelope wraps every published event
type Envelope struct {
	ID         string      `json:"id"`
	Type       string      `json:"type"`
	OccurredAt time.Time   `json:"occurred_at"`
	Data       interface{} `json:"data"`
}

// New wraps data in an envelope with a fresh id
func New(eventType string, data interface{}) Envelope {
	return Envelope{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}
}

type PaymentStatusChanged struct {
	PaymentID     uuid.UUID `json:"payment_id"`
	PaymentNumber string    `json:"payment_number"`
	OrderID       uuid.UUID `json:"order_id"`
	UserID        uuid.UUID `json:"user_id"`
	From          string    `json:"from"`
	To            string    `json:"to"`
	OrderStatus   string    `json:"order_status"`
	// Source is "notification" or "status_query"
	Source string `json:"source"`
}

type OrderCreated struct {
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	UserID      uuid.UUID `json:"user_id"`
	TotalAmount string    `json:"total_amount"`
}

type OrderCancelled struct {
	OrderID           uuid.UUID `json:"order_id"`
	OrderNumber       string    `json:"order_number"`
	UserID            uuid.UUID `json:"user_id"`
	CancelledPayments int64     `json:"cancelled_payments"`
}

type OrderStatusChanged struct {
	OrderID uuid.UUID `json:"order_id"`
	From    string    `json:"from"`
	To      string    `json:"to"`
}

// UserRegistered carries the verification token for the mailer
type UserRegistered struct {
	UserID            uuid.UUID `json:"user_id"`
	Email             string    `json:"email"`
	FullName          string    `json:"full_name"`
	VerificationToken string    `json:"verification_token"`
	ExpiresAt         time.Time `json:"expires_at"`
}
