package config

import "time"

type ServiceConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	Version     string `mapstructure:"version"`
	// AppURL is the customer-facing web app; gateway callbacks redirect there
	AppURL string `mapstructure:"app_url"`
}

type PaymentConfig struct {
	// Provider is the gateway new payments are opened with
	Provider       string        `mapstructure:"provider"`
	GatewayTimeout time.Duration `mapstructure:"gateway_timeout"`
}

type MidtransConfig struct {
	ServerKey    string `mapstructure:"server_key"`
	ClientKey    string `mapstructure:"client_key"`
	IsProduction bool   `mapstructure:"is_production"`
	// Optional base URL overrides, mostly for tests
	SnapURL string `mapstructure:"snap_url"`
	APIURL  string `mapstructure:"api_url"`
}

type StripeConfig struct {
	SecretKey     string `mapstructure:"secret_key"`
	WebhookSecret string `mapstructure:"webhook_secret"`
	Currency      string `mapstructure:"currency"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type MessagingConfig struct {
	// Driver is one of none, redis, kafka, rabbitmq
	Driver       string   `mapstructure:"driver"`
	Topic        string   `mapstructure:"topic"`
	KafkaBrokers []string `mapstructure:"kafka_brokers"`
	RabbitMQURL  string   `mapstructure:"rabbitmq_url"`
}
