package stripe

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/samber/lo"
	stripego "github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"go.uber.org/zap"

	"github.com/fitrahmoef/Saintara-Mobile/internal/domain/provider"
)

// zeroDecimalCurrencies are charged in whole units; everything else in hundredths
var zeroDecimalCurrencies = []string{"bif", "clp", "djf", "gnf", "jpy", "kmf", "krw", "mga", "pyg", "rwf", "ugx", "vnd", "vuv", "xaf", "xof", "xpf"}

// Options configures the Stripe gateway
type Options struct {
	SecretKey     string
	WebhookSecret string
	Currency      string
	AppURL        string
	// Backends overrides the Stripe API endpoints, used in tests
	Backends *stripego.Backends
}

// Gateway implements provider.PaymentGateway with Stripe Checkout Sessions
type Gateway struct {
	api           *client.API
	webhookSecret string
	currency      string
	appURL        string
	logger        *zap.Logger
}

// NewGateway creates a new Stripe gateway
func NewGateway(opts Options, logger *zap.Logger) *Gateway {
	currency := strings.ToLower(opts.Currency)
	if currency == "" {
		currency = "idr"
	}

	return &Gateway{
		api:           client.New(opts.SecretKey, opts.Backends),
		webhookSecret: opts.WebhookSecret,
		currency:      currency,
		appURL:        opts.AppURL,
		logger:        logger,
	}
}

// Name returns the provider name
func (g *Gateway) Name() string {
	return string(provider.ProviderTypeStripe)
}

// ClientKey is empty; Checkout is a hosted redirect and needs no publishable key
func (g *Gateway) ClientKey() string {
	return ""
}

// OpenTransaction creates a Checkout Session in payment mode
func (g *Gateway) OpenTransaction(ctx context.Context, req *provider.OpenTransactionRequest) (*provider.OpenTransactionResponse, error) {
	g.logger.Info("Stripe: Creating checkout session",
		zap.String("payment_id", req.PaymentID),
		zap.String("order_number", req.OrderNumber),
		zap.Int64("amount", req.Amount))

	query := "?orderId=" + url.QueryEscape(req.OrderID)
	params := &stripego.CheckoutSessionParams{
		Mode:              stripego.String(string(stripego.CheckoutSessionModePayment)),
		ClientReferenceID: stripego.String(req.PaymentID),
		SuccessURL:        stripego.String(g.appURL + "/customer/payments/success" + query),
		CancelURL:         stripego.String(g.appURL + "/customer/payments/failed" + query),
	}
	if req.Customer.Email != "" {
		params.CustomerEmail = stripego.String(req.Customer.Email)
	}
	for _, item := range req.Items {
		params.LineItems = append(params.LineItems, &stripego.CheckoutSessionLineItemParams{
			PriceData: &stripego.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripego.String(g.currency),
				UnitAmount: stripego.Int64(g.minorUnits(item.Price)),
				ProductData: &stripego.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripego.String(item.Name),
				},
			},
			Quantity: stripego.Int64(int64(item.Quantity)),
		})
	}
	params.AddMetadata("payment_id", req.PaymentID)
	params.AddMetadata("order_id", req.OrderID)
	params.Context = ctx

	session, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		g.logger.Error("Stripe: Failed to create checkout session",
			zap.String("payment_id", req.PaymentID),
			zap.Error(err))
		return nil, toProviderError(err)
	}

	g.logger.Info("Stripe: Checkout session created",
		zap.String("payment_id", req.PaymentID),
		zap.String("session_id", session.ID))

	return &provider.OpenTransactionResponse{
		TransactionID: session.ID,
		RedirectURL:   session.URL,
	}, nil
}

// QueryStatus retrieves a Checkout Session and reports it in Midtrans vocabulary
func (g *Gateway) QueryStatus(ctx context.Context, transactionID string) (*provider.TransactionStatus, error) {
	params := &stripego.CheckoutSessionParams{}
	params.Context = ctx

	session, err := g.api.CheckoutSessions.Get(transactionID, params)
	if err != nil {
		return nil, toProviderError(err)
	}

	return sessionStatus(session, ""), nil
}

func (g *Gateway) minorUnits(amount int64) int64 {
	if lo.Contains(zeroDecimalCurrencies, g.currency) {
		return amount
	}
	return amount * 100
}

// MapSessionStatus translates a Checkout Session state into a gateway transaction status
func MapSessionStatus(status stripego.CheckoutSessionStatus, paymentStatus stripego.CheckoutSessionPaymentStatus) string {
	if paymentStatus == stripego.CheckoutSessionPaymentStatusPaid ||
		paymentStatus == stripego.CheckoutSessionPaymentStatusNoPaymentRequired {
		return "settlement"
	}

	switch status {
	case stripego.CheckoutSessionStatusExpired:
		return "expire"
	default:
		// open, or complete with an async payment still unpaid
		return "pending"
	}
}

func sessionStatus(session *stripego.CheckoutSession, override string) *provider.TransactionStatus {
	status := override
	if status == "" {
		status = MapSessionStatus(session.Status, session.PaymentStatus)
	}

	var paymentType string
	if len(session.PaymentMethodTypes) > 0 {
		paymentType = session.PaymentMethodTypes[0]
	}

	return &provider.TransactionStatus{
		TransactionID:     session.ID,
		TransactionStatus: status,
		PaymentType:       paymentType,
		StatusCode:        string(session.PaymentStatus),
	}
}

func toProviderError(err error) *provider.ProviderError {
	var stripeErr *stripego.Error
	if errors.As(err, &stripeErr) {
		code := provider.ErrCodeAPI
		if stripeErr.HTTPStatusCode == http.StatusNotFound {
			code = provider.ErrCodeNotFound
		}
		return &provider.ProviderError{
			Code:    code,
			Message: stripeErr.Msg,
			Details: string(stripeErr.Code),
		}
	}

	return &provider.ProviderError{
		Code:    provider.ErrCodeRequest,
		Message: "Stripe API request failed",
		Details: err.Error(),
	}
}
