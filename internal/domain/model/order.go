package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// OrderStatus is the lifecycle state of a test order
type OrderStatus string

const (
	OrderStatusPendingPayment OrderStatus = "PENDING_PAYMENT"
	OrderStatusPaid           OrderStatus = "PAID"
	OrderStatusProcessing     OrderStatus = "PROCESSING"
	OrderStatusCompleted      OrderStatus = "COMPLETED"
	OrderStatusCancelled      OrderStatus = "CANCELLED"
)

// IsValid reports whether s is a known order status
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPendingPayment, OrderStatusPaid, OrderStatusProcessing,
		OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

type OrderType string

const (
	OrderTypeIndividual  OrderType = "INDIVIDUAL"
	OrderTypeInstitution OrderType = "INSTITUTION"
)

// Order is a customer's request for test packages for a set of participants.
// TotalAmount is fixed at creation.
type Order struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	OrderNumber      string          `gorm:"size:64;not null;uniqueIndex" json:"order_number"`
	UserID           uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	Type             OrderType       `gorm:"size:20;not null" json:"type"`
	Packages         datatypes.JSON  `gorm:"not null" json:"packages"`
	ParticipantCount int             `gorm:"not null" json:"participant_count"`
	PricePerPerson   decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"price_per_person"`
	TotalAmount      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"total_amount"`
	ScheduledDate    *time.Time      `json:"scheduled_date,omitempty"`
	Notes            string          `gorm:"type:text" json:"notes,omitempty"`
	Status           OrderStatus     `gorm:"size:30;not null;index" json:"status"`
	CancelledAt      *time.Time      `json:"cancelled_at,omitempty"`
	CreatedAt        time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`

	Participants []Participant `gorm:"foreignKey:OrderID" json:"participants,omitempty"`
	Payments     []Payment     `gorm:"foreignKey:OrderID" json:"payments,omitempty"`
}

func (Order) TableName() string {
	return "test_orders"
}

// PackageCodes decodes the stored package list
func (o *Order) PackageCodes() ([]string, error) {
	var codes []string
	if len(o.Packages) == 0 {
		return codes, nil
	}
	if err := json.Unmarshal(o.Packages, &codes); err != nil {
		return nil, err
	}
	return codes, nil
}

// Participant is one person taking the test within an order
type Participant struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	OrderID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"order_id"`
	FullName      string     `gorm:"size:255;not null" json:"full_name"`
	NickName      string     `gorm:"size:100" json:"nick_name,omitempty"`
	Email         string     `gorm:"size:255;not null" json:"email"`
	Phone         string     `gorm:"size:50" json:"phone,omitempty"`
	DateOfBirth   *time.Time `json:"date_of_birth,omitempty"`
	Gender        string     `gorm:"size:20" json:"gender,omitempty"`
	BloodType     string     `gorm:"size:5" json:"blood_type,omitempty"`
	StudentNumber string     `gorm:"size:50" json:"student_number,omitempty"`
	ClassName     string     `gorm:"size:100" json:"class_name,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`

	Order *Order `gorm:"foreignKey:OrderID" json:"order,omitempty"`
}

func (Participant) TableName() string {
	return "test_participants"
}
