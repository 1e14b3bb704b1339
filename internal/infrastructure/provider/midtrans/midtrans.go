package midtrans

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	midtransgo "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"
	"go.uber.org/zap"

	"github.com/fitrahmoef/Saintara-Mobile/internal/domain/provider"
)

const (
	sandboxSnapHost    = "app.sandbox.midtrans.com"
	productionSnapHost = "app.midtrans.com"
	sandboxAPIHost     = "api.sandbox.midtrans.com"
	productionAPIHost  = "api.midtrans.com"

	defaultTimeout = 30 * time.Second
)

// Options configures the Midtrans gateway
type Options struct {
	ServerKey    string
	ClientKey    string
	IsProduction bool
	// SnapURL and APIURL replace the scheme and host of the environment
	// defaults when set
	SnapURL string
	APIURL  string
	// AppURL is where Snap redirects the customer after checkout
	AppURL  string
	Timeout time.Duration
}

// Gateway implements provider.PaymentGateway for Midtrans Snap
type Gateway struct {
	serverKey string
	clientKey string
	env       midtransgo.EnvironmentType
	appURL    string
	timeout   time.Duration
	rewrites  map[string]*url.URL
	logger    *zap.Logger
}

// NewGateway creates a new Midtrans gateway
func NewGateway(opts Options, logger *zap.Logger) *Gateway {
	env, snapHost, apiHost := midtransgo.Sandbox, sandboxSnapHost, sandboxAPIHost
	if opts.IsProduction {
		env, snapHost, apiHost = midtransgo.Production, productionSnapHost, productionAPIHost
	}

	rewrites := make(map[string]*url.URL)
	for host, override := range map[string]string{snapHost: opts.SnapURL, apiHost: opts.APIURL} {
		if override == "" {
			continue
		}
		target, err := url.Parse(override)
		if err != nil || target.Host == "" {
			logger.Warn("Midtrans: Ignoring invalid endpoint override",
				zap.String("host", host),
				zap.String("override", override))
			continue
		}
		rewrites[host] = target
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Gateway{
		serverKey: opts.ServerKey,
		clientKey: opts.ClientKey,
		env:       env,
		appURL:    opts.AppURL,
		timeout:   timeout,
		rewrites:  rewrites,
		logger:    logger,
	}
}

// Name returns the provider name
func (g *Gateway) Name() string {
	return string(provider.ProviderTypeMidtrans)
}

// ClientKey returns the Snap client key
func (g *Gateway) ClientKey() string {
	return g.clientKey
}

// enabledPayments narrows the Snap page to the channels of a chosen method
var enabledPayments = map[string][]snap.SnapPaymentType{
	"BANK_TRANSFER":     {"bca_va", "bni_va", "bri_va", "permata_va", "echannel", "other_va"},
	"CREDIT_CARD":       {"credit_card"},
	"E_WALLET":          {"gopay", "shopeepay", "qris"},
	"CONVENIENCE_STORE": {"indomaret", "alfamart"},
}

// OpenTransaction creates a Snap transaction keyed by the payment id
func (g *Gateway) OpenTransaction(ctx context.Context, req *provider.OpenTransactionRequest) (*provider.OpenTransactionResponse, error) {
	g.logger.Info("Midtrans: Creating Snap transaction",
		zap.String("payment_id", req.PaymentID),
		zap.String("order_number", req.OrderNumber),
		zap.Int64("amount", req.Amount))

	snapReq := &snap.Request{
		TransactionDetails: midtransgo.TransactionDetails{
			OrderID:  req.PaymentID,
			GrossAmt: req.Amount,
		},
		CustomerDetail: &midtransgo.CustomerDetails{
			FName: req.Customer.Name,
			Email: req.Customer.Email,
			Phone: req.Customer.Phone,
		},
		EnabledPayments: enabledPayments[req.Method],
	}
	if len(req.Items) > 0 {
		items := make([]midtransgo.ItemDetails, 0, len(req.Items))
		for _, item := range req.Items {
			items = append(items, midtransgo.ItemDetails{
				ID:    item.ID,
				Name:  truncate(item.Name, 50),
				Price: item.Price,
				Qty:   int32(item.Quantity),
			})
		}
		snapReq.Items = &items
	}
	if g.appURL != "" {
		snapReq.Callbacks = &snap.Callbacks{
			Finish: g.appURL + "/customer/payments/success?orderId=" + url.QueryEscape(req.OrderID),
		}
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	var client snap.Client
	client.New(g.serverKey, g.env)
	client.HttpClient = g.httpClient(ctx)

	resp, midErr := client.CreateTransaction(snapReq)
	if midErr != nil {
		g.logger.Error("Midtrans: Snap transaction rejected",
			zap.Int("status_code", midErr.StatusCode),
			zap.String("payment_id", req.PaymentID),
			zap.String("message", midErr.Message))
		return nil, toProviderError(midErr, "Failed to create transaction")
	}
	if resp == nil || resp.Token == "" {
		message := "Failed to create transaction"
		if resp != nil && len(resp.ErrorMessages) > 0 {
			message = resp.ErrorMessages[0]
		}
		return nil, &provider.ProviderError{
			Code:    provider.ErrCodeResponse,
			Message: message,
		}
	}

	g.logger.Info("Midtrans: Snap transaction created",
		zap.String("payment_id", req.PaymentID))

	return &provider.OpenTransactionResponse{
		TransactionID: req.PaymentID,
		Token:         resp.Token,
		RedirectURL:   resp.RedirectURL,
	}, nil
}

// QueryStatus fetches the status of a transaction by its Midtrans order id
func (g *Gateway) QueryStatus(ctx context.Context, transactionID string) (*provider.TransactionStatus, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	var client coreapi.Client
	client.New(g.serverKey, g.env)
	client.HttpClient = g.httpClient(ctx)

	result, midErr := client.CheckTransaction(url.PathEscape(transactionID))
	if midErr != nil {
		return nil, toProviderError(midErr, "Failed to get transaction status")
	}

	// Midtrans reports unknown transactions with HTTP 200 and a body status_code
	if result.StatusCode == "404" {
		return nil, &provider.ProviderError{
			Code:    provider.ErrCodeNotFound,
			Message: "Transaction not found",
			Details: result.StatusMessage,
		}
	}
	if result.TransactionStatus == "" {
		message := result.StatusMessage
		if message == "" {
			message = "Failed to get transaction status"
		}
		return nil, &provider.ProviderError{
			Code:    provider.ErrCodeAPI,
			Message: message,
			Details: result.StatusCode,
		}
	}

	g.logger.Debug("Midtrans: Transaction status fetched",
		zap.String("order_id", transactionID),
		zap.String("transaction_status", result.TransactionStatus),
		zap.String("fraud_status", result.FraudStatus))

	return &provider.TransactionStatus{
		TransactionID:     result.OrderID,
		TransactionStatus: result.TransactionStatus,
		FraudStatus:       result.FraudStatus,
		PaymentType:       result.PaymentType,
		StatusCode:        result.StatusCode,
		GrossAmount:       result.GrossAmount,
	}, nil
}

// httpClient builds the SDK transport for one call, bound to ctx
func (g *Gateway) httpClient(ctx context.Context) *midtransgo.HttpClientImplementation {
	impl := midtransgo.GetHttpClient(g.env)
	impl.HttpClient = &http.Client{
		Transport: &boundTransport{
			ctx:      ctx,
			rewrites: g.rewrites,
			base:     http.DefaultTransport,
		},
	}
	impl.Logger = &sdkLogger{sugar: g.logger.WithOptions(zap.AddCallerSkip(1)).Sugar()}
	return impl
}

// boundTransport attaches the caller's context to SDK requests, which are
// built without one, and redirects environment hosts to configured overrides.
type boundTransport struct {
	ctx      context.Context
	rewrites map[string]*url.URL
	base     http.RoundTripper
}

func (t *boundTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(t.ctx)
	if target, ok := t.rewrites[req.URL.Host]; ok {
		req.URL.Scheme = target.Scheme
		req.URL.Host = target.Host
		req.URL.Path = strings.TrimSuffix(target.Path, "/") + req.URL.Path
		req.Host = target.Host
	}
	return t.base.RoundTrip(req)
}

// sdkLogger routes the SDK's printf logging into zap
type sdkLogger struct {
	sugar *zap.SugaredLogger
}

func (l *sdkLogger) Error(format string, a ...interface{}) {
	l.sugar.Errorf(format, a...)
}

func (l *sdkLogger) Warn(format string, a ...interface{}) {
	l.sugar.Warnf(format, a...)
}

func (l *sdkLogger) Info(format string, a ...interface{}) {
	l.sugar.Debugf(format, a...)
}

func (l *sdkLogger) Debug(format string, a ...interface{}) {
	l.sugar.Debugf(format, a...)
}

func toProviderError(err *midtransgo.Error, fallback string) *provider.ProviderError {
	code := provider.ErrCodeAPI
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case err.StatusCode == http.StatusNotFound:
		code = provider.ErrCodeNotFound
	case errors.As(err.RawError, &syntaxErr), errors.As(err.RawError, &typeErr):
		code = provider.ErrCodeParse
	}

	message := err.Message
	if message == "" {
		message = fallback
	}
	pe := &provider.ProviderError{
		Code:    code,
		Message: message,
	}
	if err.RawError != nil {
		pe.Details = err.RawError.Error()
	}
	return pe
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
