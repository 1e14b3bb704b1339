package stripe

import (
	"encoding/json"
	"net/http"

	stripego "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/webhook"
	"go.uber.org/zap"

	"github.com/fitrahmoef/Saintara-Mobile/internal/domain/provider"
)

// SignatureHeader carries the Stripe webhook signature
const SignatureHeader = "Stripe-Signature"

// ParseNotification verifies the Stripe-Signature header and maps Checkout Session events
func (g *Gateway) ParseNotification(payload []byte, headers http.Header) (*provider.Notification, error) {
	event, err := webhook.ConstructEventWithOptions(payload, headers.Get(SignatureHeader), g.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		g.logger.Warn("Stripe: Webhook signature verification failed", zap.Error(err))

		notification := &provider.Notification{Raw: payload}
		var unverified stripego.Event
		if json.Unmarshal(payload, &unverified) == nil {
			notification.EventKey = "stripe:" + unverified.ID
		}
		return notification, &provider.ProviderError{
			Code:    provider.ErrCodeInvalidSignature,
			Message: "Invalid webhook signature",
			Details: err.Error(),
		}
	}

	notification := &provider.Notification{
		EventKey: "stripe:" + event.ID,
		Raw:      payload,
	}

	var override string
	switch event.Type {
	case stripego.EventTypeCheckoutSessionCompleted:
	case stripego.EventTypeCheckoutSessionAsyncPaymentSucceeded:
		override = "settlement"
	case stripego.EventTypeCheckoutSessionAsyncPaymentFailed:
		override = "failure"
	case stripego.EventTypeCheckoutSessionExpired:
		override = "expire"
	default:
		g.logger.Debug("Stripe: Ignoring webhook event", zap.String("event_type", string(event.Type)))
		notification.Ignored = true
		return notification, nil
	}

	var session stripego.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil || session.ID == "" {
		return notification, &provider.ProviderError{
			Code:    provider.ErrCodeInvalidNotification,
			Message: "Malformed checkout session payload",
		}
	}

	notification.TransactionStatus = *sessionStatus(&session, override)
	return notification, nil
}
