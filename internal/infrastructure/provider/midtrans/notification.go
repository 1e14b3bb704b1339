package midtrans

import (
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/fitrahmoef/Saintara-Mobile/internal/domain/provider"
)

type notificationPayload struct {
	TransactionTime   string `json:"transaction_time"`
	TransactionStatus string `json:"transaction_status"`
	TransactionID     string `json:"transaction_id"`
	StatusMessage     string `json:"status_message"`
	StatusCode        string `json:"status_code"`
	SignatureKey      string `json:"signature_key"`
	SettlementTime    string `json:"settlement_time"`
	PaymentType       string `json:"payment_type"`
	OrderID           string `json:"order_id"`
	MerchantID        string `json:"merchant_id"`
	GrossAmount       string `json:"gross_amount"`
	FraudStatus       string `json:"fraud_status"`
	Currency          string `json:"currency"`
}

// ParseNotification decodes an HTTP notification and verifies its signature_key
func (g *Gateway) ParseNotification(payload []byte, _ http.Header) (*provider.Notification, error) {
	var n notificationPayload
	if err := json.Unmarshal(payload, &n); err != nil {
		return nil, &provider.ProviderError{
			Code:    provider.ErrCodeInvalidNotification,
			Message: "Malformed notification body",
			Details: err.Error(),
		}
	}

	if missing := missingFields(&n); len(missing) > 0 {
		return nil, &provider.ProviderError{
			Code:    provider.ErrCodeInvalidNotification,
			Message: "Notification is missing required fields",
			Details: strings.Join(missing, ","),
		}
	}

	notification := &provider.Notification{
		EventKey: eventKey(&n),
		TransactionStatus: provider.TransactionStatus{
			TransactionID:     n.OrderID,
			TransactionStatus: n.TransactionStatus,
			FraudStatus:       n.FraudStatus,
			PaymentType:       n.PaymentType,
			StatusCode:        n.StatusCode,
			GrossAmount:       n.GrossAmount,
		},
		Raw: payload,
	}

	if !VerifySignature(n.OrderID, n.StatusCode, n.GrossAmount, g.serverKey, n.SignatureKey) {
		g.logger.Warn("Midtrans: Notification signature mismatch",
			zap.String("order_id", n.OrderID),
			zap.String("transaction_status", n.TransactionStatus))
		return notification, &provider.ProviderError{
			Code:    provider.ErrCodeInvalidSignature,
			Message: "Invalid notification signature",
		}
	}

	return notification, nil
}

// Signature computes the hex SHA-512 of order_id + status_code + gross_amount + server key
func Signature(orderID, statusCode, grossAmount, serverKey string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}

// VerifySignature compares a received signature_key byte for byte in constant time
func VerifySignature(orderID, statusCode, grossAmount, serverKey, signatureKey string) bool {
	expected := Signature(orderID, statusCode, grossAmount, serverKey)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(signatureKey)) == 1
}

func missingFields(n *notificationPayload) []string {
	var missing []string
	for _, field := range []struct{ name, value string }{
		{"order_id", n.OrderID},
		{"status_code", n.StatusCode},
		{"gross_amount", n.GrossAmount},
		{"signature_key", n.SignatureKey},
		{"transaction_status", n.TransactionStatus},
	} {
		if field.value == "" {
			missing = append(missing, field.name)
		}
	}
	return missing
}

// eventKey identifies a delivery; Midtrans redelivers the same body on retry
func eventKey(n *notificationPayload) string {
	sum := sha256.Sum256([]byte(strings.Join([]string{
		n.OrderID, n.TransactionStatus, n.StatusCode, n.TransactionTime,
	}, "|")))
	return "midtrans:" + hex.EncodeToString(sum[:])
}
