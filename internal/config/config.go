package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment names.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress         string
	DatabaseURI        string
	Environment        string
	WebhookSecret      string
	ProcessorName      string
	SuccessStatus      string
	ResponseCodesFile  string
	NotifyWorkers      int
	NotifyQueueSize    int
	NotifyTimeout      time.Duration
	NotifyEndpoint     string
	AMQPURL            string
	AMQPExchange       string
	StoreTimeout       time.Duration
	ShutdownTimeout    time.Duration
	WebhookLogCapacity int
	WebhookLogMaxLimit int
	RedeliveryWindow   time.Duration
	MockMaxDelay       time.Duration
	TaxRateBps         int
	LogLevel           string
}

// IsDevelopment reports whether development-only behaviour is enabled.
func (c *Config) IsDevelopment() bool {
	return c.Environment == EnvDevelopment
}

const (
	defaultRunAddress         = ":8080"
	defaultEnvironment        = EnvProduction
	defaultProcessorName      = "gateway"
	defaultSuccessStatus      = "processing"
	defaultNotifyWorkers      = 4
	defaultNotifyQueueSize    = 256
	defaultNotifyTimeout      = 5 * time.Second
	defaultAMQPExchange       = "order-notifications"
	defaultStoreTimeout       = 3 * time.Second
	defaultShutdownTimeout    = 10 * time.Second
	defaultWebhookLogCapacity = 1000
	defaultWebhookLogMaxLimit = 100
	defaultRedeliveryWindow   = 72 * time.Hour
	defaultMockMaxDelay       = 10 * time.Second
	defaultLogLevel           = "info"
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:         getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:        getString(lookup, "DATABASE_URI", ""),
		Environment:        getString(lookup, "ENVIRONMENT", defaultEnvironment),
		WebhookSecret:      getString(lookup, "WEBHOOK_SECRET", ""),
		ProcessorName:      getString(lookup, "PROCESSOR_NAME", defaultProcessorName),
		SuccessStatus:      getString(lookup, "SUCCESS_STATUS", defaultSuccessStatus),
		ResponseCodesFile:  getString(lookup, "RESPONSE_CODES_FILE", ""),
		NotifyWorkers:      getInt(lookup, "NOTIFY_WORKERS", defaultNotifyWorkers),
		NotifyQueueSize:    getInt(lookup, "NOTIFY_QUEUE_SIZE", defaultNotifyQueueSize),
		NotifyTimeout:      getDuration(lookup, "NOTIFY_TIMEOUT", defaultNotifyTimeout),
		NotifyEndpoint:     getString(lookup, "NOTIFY_ENDPOINT", ""),
		AMQPURL:            getString(lookup, "AMQP_URL", ""),
		AMQPExchange:       getString(lookup, "AMQP_EXCHANGE", defaultAMQPExchange),
		StoreTimeout:       getDuration(lookup, "STORE_TIMEOUT", defaultStoreTimeout),
		ShutdownTimeout:    getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		WebhookLogCapacity: getInt(lookup, "WEBHOOK_LOG_CAPACITY", defaultWebhookLogCapacity),
		WebhookLogMaxLimit: getInt(lookup, "WEBHOOK_LOG_MAX_LIMIT", defaultWebhookLogMaxLimit),
		RedeliveryWindow:   getDuration(lookup, "REDELIVERY_WINDOW", defaultRedeliveryWindow),
		MockMaxDelay:       getDuration(lookup, "MOCK_MAX_DELAY", defaultMockMaxDelay),
		TaxRateBps:         getInt(lookup, "TAX_RATE_BPS", 0),
		LogLevel:           getString(lookup, "LOG_LEVEL", defaultLogLevel),
	}

	fs := flag.NewFlagSet("paywebhook", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		notifyTimeoutStr   = cfg.NotifyTimeout.String()
		storeTimeoutStr    = cfg.StoreTimeout.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN, in-memory storage when empty")
	fs.StringVar(&cfg.Environment, "env", cfg.Environment, "Deployment environment (development|production)")
	fs.StringVar(&cfg.WebhookSecret, "webhook-secret", cfg.WebhookSecret, "Shared secret for webhook signatures")
	fs.StringVar(&cfg.ProcessorName, "processor", cfg.ProcessorName, "Payment processor route name")
	fs.StringVar(&cfg.SuccessStatus, "success-status", cfg.SuccessStatus, "Order status applied on processor success")
	fs.IntVar(&cfg.NotifyWorkers, "notify-workers", cfg.NotifyWorkers, "Number of concurrent notification workers")
	fs.StringVar(&notifyTimeoutStr, "notify-timeout", notifyTimeoutStr, "Timeout for a single notification delivery")
	fs.StringVar(&storeTimeoutStr, "store-timeout", storeTimeoutStr, "Timeout for order store calls")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.StringVar(&cfg.AMQPURL, "amqp-url", cfg.AMQPURL, "RabbitMQ URL for notification publishing")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.NotifyTimeout, err = time.ParseDuration(notifyTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid notify timeout: %w", err)
	}

	if cfg.StoreTimeout, err = time.ParseDuration(storeTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid store timeout: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if secretFile, ok := lookup("WEBHOOK_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read webhook secret file: %w", err)
		}
		cfg.WebhookSecret = strings.TrimSpace(string(content))
	}

	if cfg.NotifyWorkers <= 0 {
		cfg.NotifyWorkers = defaultNotifyWorkers
	}

	if cfg.NotifyQueueSize <= 0 {
		cfg.NotifyQueueSize = defaultNotifyQueueSize
	}

	if cfg.NotifyTimeout <= 0 {
		cfg.NotifyTimeout = defaultNotifyTimeout
	}

	if cfg.StoreTimeout <= 0 {
		cfg.StoreTimeout = defaultStoreTimeout
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.WebhookLogCapacity <= 0 {
		cfg.WebhookLogCapacity = defaultWebhookLogCapacity
	}

	if cfg.WebhookLogMaxLimit <= 0 {
		cfg.WebhookLogMaxLimit = defaultWebhookLogMaxLimit
	}

	if cfg.RedeliveryWindow < 0 {
		cfg.RedeliveryWindow = defaultRedeliveryWindow
	}

	if cfg.MockMaxDelay < 0 {
		cfg.MockMaxDelay = defaultMockMaxDelay
	}

	if cfg.TaxRateBps < 0 {
		cfg.TaxRateBps = 0
	}

	cfg.Environment = strings.ToLower(cfg.Environment)
	if cfg.Environment != EnvDevelopment && cfg.Environment != EnvProduction {
		return nil, fmt.Errorf("unknown environment %q", cfg.Environment)
	}

	if cfg.SuccessStatus != "processing" && cfg.SuccessStatus != "completed" {
		return nil, fmt.Errorf("success status must be processing or completed, got %q", cfg.SuccessStatus)
	}

	if cfg.ProcessorName == "" || cfg.ProcessorName == "refund" || cfg.ProcessorName == "mock" || cfg.ProcessorName == "logs" {
		return nil, fmt.Errorf("invalid processor name %q", cfg.ProcessorName)
	}

	if !cfg.IsDevelopment() && cfg.WebhookSecret == "" {
		return nil, fmt.Errorf("webhook secret must be provided outside development")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
