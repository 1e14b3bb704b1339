package provider

import (
	"context"
	"errors"
	"net/http"
)

// PaymentGateway defines the interface for hosted-checkout payment gateways (Midtrans, Stripe)
type PaymentGateway interface {
	// OpenTransaction registers a payment attempt with the gateway and returns the checkout handle
	OpenTransaction(ctx context.Context, req *OpenTransactionRequest) (*OpenTransactionResponse, error)

	// QueryStatus fetches the gateway's current view of a transaction
	QueryStatus(ctx context.Context, transactionID string) (*TransactionStatus, error)

	// ParseNotification verifies and decodes an inbound notification.
	// On INVALID_SIGNATURE the returned notification still carries the
	// unverified fields so the receipt can be recorded.
	ParseNotification(payload []byte, headers http.Header) (*Notification, error)

	// Name returns the provider name
	Name() string

	// ClientKey returns the public key handed to checkout clients
	ClientKey() string
}

// OpenTransactionRequest represents a provider-agnostic transaction request
type OpenTransactionRequest struct {
	PaymentID     string   `json:"payment_id"` // Used as the gateway-side order reference
	PaymentNumber string   `json:"payment_number"`
	OrderID       string   `json:"order_id"`
	OrderNumber   string   `json:"order_number"`
	Amount        int64    `json:"amount"` // Whole IDR
	Currency      string   `json:"currency"`
	Method        string   `json:"method,omitempty"`
	Customer      Customer `json:"customer"`
	Items         []Item   `json:"items"`
}

type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

type Item struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
}

// OpenTransactionResponse represents the gateway's checkout handle
type OpenTransactionResponse struct {
	TransactionID string `json:"transaction_id"` // Correlation key for status queries and notifications
	Token         string `json:"token,omitempty"`
	RedirectURL   string `json:"redirect_url"`
}

// TransactionStatus is a gateway status report in Midtrans vocabulary
type TransactionStatus struct {
	TransactionID     string `json:"transaction_id"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status,omitempty"`
	PaymentType       string `json:"payment_type,omitempty"`
	StatusCode        string `json:"status_code,omitempty"`
	GrossAmount       string `json:"gross_amount,omitempty"`
}

// Notification is a verified push notification from a gateway
type Notification struct {
	EventKey string `json:"event_key"` // Stable identity used to deduplicate redeliveries
	TransactionStatus
	// Ignored marks event types that carry no payment state change
	Ignored bool   `json:"ignored,omitempty"`
	Raw     []byte `json:"-"`
}

// ProviderType represents the type of payment provider
type ProviderType string

const (
	ProviderTypeMidtrans ProviderType = "midtrans"
	ProviderTypeStripe   ProviderType = "stripe"
)

// Error codes for provider operations
const (
	ErrCodeMarshal             = "MARSHAL_ERROR"
	ErrCodeRequest             = "REQUEST_ERROR"
	ErrCodeAPI                 = "API_ERROR"
	ErrCodeResponse            = "RESPONSE_ERROR"
	ErrCodeParse               = "PARSE_ERROR"
	ErrCodeInvalidSignature    = "INVALID_SIGNATURE"
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeInvalidNotification = "INVALID_NOTIFICATION"
)

// ProviderError is returned by every gateway operation
type ProviderError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func (e *ProviderError) Error() string {
	if e.Details != "" {
		return e.Message + ": " + e.Details
	}
	return e.Message
}

// IsCode reports whether err is a ProviderError with the given code
func IsCode(err error, code string) bool {
	var pe *ProviderError
	return errors.As(err, &pe) && pe.Code == code
}
