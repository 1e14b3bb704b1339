package model

import (
	"time"

	"github.com/google/uuid"
)

type ActivityAction string

const (
	ActivityLogin             ActivityAction = "LOGIN"
	ActivityRegister          ActivityAction = "REGISTER"
	ActivityVerifyEmail       ActivityAction = "VERIFY_EMAIL"
	ActivityCreateOrder       ActivityAction = "CREATE_ORDER"
	ActivityCancelOrder       ActivityAction = "CANCEL_ORDER"
	ActivityUpdateOrderStatus ActivityAction = "UPDATE_ORDER_STATUS"
	ActivityInitiatePayment   ActivityAction = "INITIATE_PAYMENT"
	ActivityPaymentStatus     ActivityAction = "PAYMENT_STATUS"
)

// Activity is an append-only audit record of a state-changing action
type Activity struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Action      ActivityAction `gorm:"size:50;not null;index" json:"action"`
	Label       string         `gorm:"size:255;not null" json:"label"`
	Description string         `gorm:"type:text" json:"description,omitempty"`
	EntityType  string         `gorm:"size:50" json:"entity_type,omitempty"`
	EntityID    string         `gorm:"size:64;index" json:"entity_id,omitempty"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
}

func (Activity) TableName() string {
	return "activities"
}
