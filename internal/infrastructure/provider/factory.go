package provider

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/fitrahmoef/Saintara-Mobile/internal/config"
	"github.com/fitrahmoef/Saintara-Mobile/internal/domain/provider"
	midtransProvider "github.com/fitrahmoef/Saintara-Mobile/internal/infrastructure/provider/midtrans"
	stripeProvider "github.com/fitrahmoef/Saintara-Mobile/internal/infrastructure/provider/stripe"
)

// Factory creates payment gateways based on the provider type.
// Gateways are built once and reused.
type Factory struct {
	config   *config.Config
	logger   *zap.Logger
	gateways map[provider.ProviderType]provider.PaymentGateway
}

// NewFactory creates a new gateway factory with every configured gateway
func NewFactory(config *config.Config, logger *zap.Logger) (*Factory, error) {
	f := &Factory{
		config:   config,
		logger:   logger,
		gateways: make(map[provider.ProviderType]provider.PaymentGateway),
	}

	if config.Midtrans.ServerKey != "" {
		f.gateways[provider.ProviderTypeMidtrans] = f.createMidtransGateway()
	}
	if config.Stripe.SecretKey != "" {
		f.gateways[provider.ProviderTypeStripe] = f.createStripeGateway()
	}

	if _, err := f.Default(); err != nil {
		return nil, err
	}
	return f, nil
}

// NewFactoryWithGateways builds a factory from ready gateways
func NewFactoryWithGateways(defaultProvider string, logger *zap.Logger, gateways ...provider.PaymentGateway) *Factory {
	f := &Factory{
		config:   &config.Config{Payment: config.PaymentConfig{Provider: defaultProvider}},
		logger:   logger,
		gateways: make(map[provider.ProviderType]provider.PaymentGateway),
	}
	for _, g := range gateways {
		f.gateways[provider.ProviderType(g.Name())] = g
	}
	return f
}

// GetProvider returns a configured gateway by type
func (f *Factory) GetProvider(providerType provider.ProviderType) (provider.PaymentGateway, error) {
	gateway, ok := f.gateways[providerType]
	if !ok {
		return nil, fmt.Errorf("unsupported or unconfigured provider type: %s", providerType)
	}
	return gateway, nil
}

// GetProviderFromString returns a gateway from a string type, falling back to the default
func (f *Factory) GetProviderFromString(providerStr string) (provider.PaymentGateway, error) {
	if providerStr == "" {
		return f.Default()
	}
	return f.GetProvider(provider.ProviderType(providerStr))
}

// Default returns the gateway new payments are opened with
func (f *Factory) Default() (provider.PaymentGateway, error) {
	name := f.config.Payment.Provider
	if name == "" {
		name = string(provider.ProviderTypeMidtrans)
	}
	return f.GetProvider(provider.ProviderType(name))
}

func (f *Factory) createMidtransGateway() provider.PaymentGateway {
	return midtransProvider.NewGateway(midtransProvider.Options{
		ServerKey:    f.config.Midtrans.ServerKey,
		ClientKey:    f.config.Midtrans.ClientKey,
		IsProduction: f.config.Midtrans.IsProduction,
		SnapURL:      f.config.Midtrans.SnapURL,
		APIURL:       f.config.Midtrans.APIURL,
		AppURL:       f.config.Service.AppURL,
		Timeout:      f.config.Payment.GatewayTimeout,
	}, f.logger.Named("midtrans"))
}

func (f *Factory) createStripeGateway() provider.PaymentGateway {
	return stripeProvider.NewGateway(stripeProvider.Options{
		SecretKey:     f.config.Stripe.SecretKey,
		WebhookSecret: f.config.Stripe.WebhookSecret,
		Currency:      f.config.Stripe.Currency,
		AppURL:        f.config.Service.AppURL,
	}, f.logger.Named("stripe"))
}
