package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatus is the local status of a payment attempt
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusPaid      PaymentStatus = "PAID"
	PaymentStatusFailed    PaymentStatus = "FAILED"
	PaymentStatusCancelled PaymentStatus = "CANCELLED"
)

// PaymentMethod is the customer's chosen way to pay
type PaymentMethod string

const (
	PaymentMethodBankTransfer     PaymentMethod = "BANK_TRANSFER"
	PaymentMethodCreditCard       PaymentMethod = "CREDIT_CARD"
	PaymentMethodEWallet          PaymentMethod = "E_WALLET"
	PaymentMethodConvenienceStore PaymentMethod = "CONVENIENCE_STORE"
)

func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodBankTransfer, PaymentMethodCreditCard, PaymentMethodEWallet, PaymentMethodConvenienceStore:
		return true
	}
	return false
}

// Payment is a single attempt to collect an order's total through a gateway.
// TransactionID is the gateway correlation key.
type Payment struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	PaymentNumber string          `gorm:"size:64;not null;uniqueIndex" json:"payment_number"`
	OrderID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	UserID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	Amount        decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Provider      string          `gorm:"size:20;not null" json:"provider"`
	Method        *string         `gorm:"size:50" json:"method,omitempty"`
	PaymentType   *string         `gorm:"size:50" json:"payment_type,omitempty"`
	Status        PaymentStatus   `gorm:"size:20;not null;index" json:"status"`
	TransactionID *string         `gorm:"size:255;uniqueIndex" json:"transaction_id,omitempty"`
	CheckoutToken *string         `gorm:"size:255" json:"checkout_token,omitempty"`
	RedirectURL   *string         `gorm:"type:text" json:"redirect_url,omitempty"`
	FailureReason *string         `gorm:"type:text" json:"failure_reason,omitempty"`
	PaidAt        *time.Time      `json:"paid_at,omitempty"`
	CreatedAt     time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (Payment) TableName() string {
	return "payments"
}

// IsClosed reports whether the attempt ended without collecting money
func (p *Payment) IsClosed() bool {
	return p.Status == PaymentStatusCancelled || p.Status == PaymentStatusFailed
}

// HasTransaction reports whether the gateway accepted this attempt
func (p *Payment) HasTransaction() bool {
	return p.TransactionID != nil && *p.TransactionID != ""
}
