package model

import (
	"time"

	"gorm.io/datatypes"
)

// NotificationStatus is the processing state of an inbound gateway notification
type NotificationStatus string

const (
	NotificationStatusReceived  NotificationStatus = "RECEIVED"
	NotificationStatusProcessed NotificationStatus = "PROCESSED"
	NotificationStatusRejected  NotificationStatus = "REJECTED"
	NotificationStatusFailed    NotificationStatus = "FAILED"
)

// PaymentNotification logs every webhook delivery, including rejected ones.
// EventKey deduplicates redeliveries of the same gateway event.
type PaymentNotification struct {
	ID                int64              `gorm:"primaryKey;autoIncrement" json:"id"`
	Provider          string             `gorm:"size:20;not null" json:"provider"`
	EventKey          string             `gorm:"size:128;not null;uniqueIndex" json:"event_key"`
	TransactionID     string             `gorm:"size:255;index" json:"transaction_id"`
	TransactionStatus string             `gorm:"size:50" json:"transaction_status"`
	FraudStatus       string             `gorm:"size:50" json:"fraud_status,omitempty"`
	SignatureValid    bool               `gorm:"not null" json:"signature_valid"`
	Status            NotificationStatus `gorm:"size:20;not null;index" json:"status"`
	ErrorMessage      *string            `gorm:"type:text" json:"error_message,omitempty"`
	Payload           datatypes.JSON     `json:"payload"`
	ProcessedAt       *time.Time         `json:"processed_at,omitempty"`
	CreatedAt         time.Time          `gorm:"index" json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

func (PaymentNotification) TableName() string {
	return "payment_notifications"
}
