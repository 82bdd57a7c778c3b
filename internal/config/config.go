package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	StoreDriverDynamoDB = "dynamodb"
	StoreDriverBolt     = "bolt"
)

// Config holds every runtime setting of the billing gateway service.
//
// All values come from the environment (optionally seeded from a .env file
// through godotenv/autoload in main).
type Config struct {
	Port   int
	LogEnv string

	Store    StoreConfig
	AWS      AWSConfig
	Gateways GatewaysConfig
	Dispatch DispatchConfig
	Lock     LockConfig
	Events   EventsConfig
	Worker   WorkerConfig
}

type StoreConfig struct {
	Driver               string
	BoltPath             string
	OperationsTable      string
	PaymentMethodsTable  string
	AccountBindingsTable string
}

type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	DynamoEndpoint  string
	SNSEndpoint     string
}

type GatewaysConfig struct {
	StripeSecretKey        string
	MercadoPagoAccessToken string
	MercadoPagoCurrency    string
	MockMode               bool
}

type DispatchConfig struct {
	MaxRetries     int
	BackoffBase    time.Duration
	BackoffMax     time.Duration
	CallTimeout    time.Duration
	RateLimit      float64
	RateBurst      int
	NotFoundGrace  time.Duration
	StalePendingAt time.Duration
}

type LockConfig struct {
	RedisAddr string
	TTL       time.Duration
}

type EventsConfig struct {
	OutcomeTopicARN string
}

type WorkerConfig struct {
	Enabled   bool
	Interval  time.Duration
	BatchSize int
	Workers   int
}

// LoadConfig reads the configuration from the environment and applies defaults.
func LoadConfig() (Config, error) {
	var errs []string
	p := parser{errs: &errs}

	cfg := Config{
		Port:   p.int("PORT", 8080),
		LogEnv: getenvDefault("LOG_ENV", "development"),
		Store: StoreConfig{
			Driver:               strings.ToLower(getenvDefault("STORE_DRIVER", StoreDriverDynamoDB)),
			BoltPath:             getenvDefault("BOLT_PATH", "billing_gateway.db"),
			OperationsTable:      getenvDefault("OPERATIONS_TABLE", "payment_operations"),
			PaymentMethodsTable:  getenvDefault("PAYMENT_METHODS_TABLE", "payment_methods"),
			AccountBindingsTable: getenvDefault("ACCOUNT_BINDINGS_TABLE", "account_bindings"),
		},
		AWS: AWSConfig{
			Region:          getenvDefault("AWS_REGION", "us-east-1"),
			AccessKeyID:     getenvDefault("AWS_ACCESS_KEY_ID", "local"),
			SecretAccessKey: getenvDefault("AWS_SECRET_ACCESS_KEY", "local"),
			DynamoEndpoint:  os.Getenv("DYNAMODB_ENDPOINT"),
			SNSEndpoint:     os.Getenv("SNS_ENDPOINT"),
		},
		Gateways: GatewaysConfig{
			StripeSecretKey:        os.Getenv("STRIPE_SECRET_KEY"),
			MercadoPagoAccessToken: os.Getenv("MERCADOPAGO_ACCESS_TOKEN"),
			MercadoPagoCurrency:    strings.ToUpper(getenvDefault("MERCADOPAGO_CURRENCY", "BRL")),
			MockMode:               isMockEnabled(),
		},
		Dispatch: DispatchConfig{
			MaxRetries:     p.int("GATEWAY_MAX_RETRIES", 3),
			BackoffBase:    p.duration("GATEWAY_BACKOFF_BASE", 200*time.Millisecond),
			BackoffMax:     p.duration("GATEWAY_BACKOFF_MAX", 5*time.Second),
			CallTimeout:    p.duration("GATEWAY_CALL_TIMEOUT", 20*time.Second),
			RateLimit:      p.float("GATEWAY_RATE_LIMIT", 25),
			RateBurst:      p.int("GATEWAY_RATE_BURST", 10),
			NotFoundGrace:  p.duration("LOOKUP_NOT_FOUND_GRACE", 10*time.Minute),
			StalePendingAt: p.duration("RECONCILE_STALE_AFTER", 5*time.Minute),
		},
		Lock: LockConfig{
			RedisAddr: os.Getenv("REDIS_ADDR"),
			TTL:       p.duration("LOCK_TTL", 3*time.Minute),
		},
		Events: EventsConfig{
			OutcomeTopicARN: os.Getenv("OUTCOME_TOPIC_ARN"),
		},
		Worker: WorkerConfig{
			Enabled:   p.bool("RECONCILE_ENABLED", true),
			Interval:  p.duration("RECONCILE_INTERVAL", time.Minute),
			BatchSize: p.int("RECONCILE_BATCH_SIZE", 100),
			Workers:   p.int("RECONCILE_WORKERS", 4),
		},
	}

	switch cfg.Store.Driver {
	case StoreDriverDynamoDB, StoreDriverBolt:
	default:
		errs = append(errs, fmt.Sprintf("STORE_DRIVER: unsupported driver %q", cfg.Store.Driver))
	}
	if cfg.Dispatch.MaxRetries < 0 {
		errs = append(errs, "GATEWAY_MAX_RETRIES: must not be negative")
	}
	if cfg.Dispatch.RateBurst < 1 {
		errs = append(errs, "GATEWAY_RATE_BURST: must be at least 1")
	}
	if cfg.Worker.Workers < 1 {
		errs = append(errs, "RECONCILE_WORKERS: must be at least 1")
	}

	if len(errs) > 0 {
		return Config{}, fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return cfg, nil
}

type parser struct {
	errs *[]string
}

func (p parser) int(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		*p.errs = append(*p.errs, fmt.Sprintf("%s: %v", key, err))
		return def
	}
	return n
}

func (p parser) float(key string, def float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		*p.errs = append(*p.errs, fmt.Sprintf("%s: %v", key, err))
		return def
	}
	return f
}

func (p parser) duration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		*p.errs = append(*p.errs, fmt.Sprintf("%s: %v", key, err))
		return def
	}
	return d
}

func (p parser) bool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		*p.errs = append(*p.errs, fmt.Sprintf("%s: %v", key, err))
		return def
	}
	return b
}

func isMockEnabled() bool {
	for _, key := range []string{"PAYMENT_GATEWAY_MOCK", "MERCADOPAGO_MOCK"} {
		v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
		switch v {
		case "1", "true", "yes", "on", "mock":
			return true
		}
	}
	return false
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
