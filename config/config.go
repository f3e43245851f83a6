package config

import (
	"flag"
	"os"
	"strconv"
	"sync"
	"time"
)

const (
	defaultServerAddress     = ":8080"
	defaultDatabaseDSN       = ""
	defaultCatalogAddr       = "http://localhost:8181"
	defaultNotifyAddr        = "http://localhost:8182"
	defaultAssistAddr        = "http://localhost:8183"
	defaultLogLevel          = "debug"
	defaultRateLimit         = 10
	defaultRateWindow        = 60 * time.Second
	defaultBreakerThreshold  = 3
	defaultBreakerCooldown   = 60 * time.Second
	defaultRetryAttemptLimit = 3
	defaultRetryCooldown     = 60 * time.Second
)

type Config struct {
	ServerAddr        string
	DatabaseDSN       string
	CatalogAddr       string
	NotifyAddr        string
	AssistAddr        string
	LogLevel          string
	TokenKey          string
	GatewaySecretHash string

	RateLimit         int
	RateWindow        time.Duration
	BreakerThreshold  int
	BreakerCooldown   time.Duration
	RetryAttemptLimit int
	RetryCooldown     time.Duration
}

var (
	once      sync.Once
	singleton *Config
)

// New returns new Config. It parses command line and environment variables only once.
func New() (*Config, error) {
	once.Do(func() {
		cfg := Config{
			RateLimit:         defaultRateLimit,
			RateWindow:        defaultRateWindow,
			BreakerThreshold:  defaultBreakerThreshold,
			BreakerCooldown:   defaultBreakerCooldown,
			RetryAttemptLimit: defaultRetryAttemptLimit,
			RetryCooldown:     defaultRetryCooldown,
		}

		// initialize flags
		flag.StringVar(&cfg.ServerAddr, "a", defaultServerAddress, "order server address")
		flag.StringVar(&cfg.DatabaseDSN, "d", defaultDatabaseDSN, "order database DSN")
		flag.StringVar(&cfg.CatalogAddr, "c", defaultCatalogAddr, "catalog service address")
		flag.StringVar(&cfg.NotifyAddr, "n", defaultNotifyAddr, "message send provider address")
		flag.StringVar(&cfg.AssistAddr, "g", defaultAssistAddr, "text generation provider address")
		flag.StringVar(&cfg.LogLevel, "l", defaultLogLevel, "log level")
		flag.StringVar(&cfg.TokenKey, "t", "", "staff token signing key (hex)")
		flag.StringVar(&cfg.GatewaySecretHash, "p", "", "bcrypt hash of payment gateway secret")

		flag.Parse()

		// if environment variable is set, then using it
		if runAddrEnv := os.Getenv("RUN_ADDRESS"); runAddrEnv != "" {
			cfg.ServerAddr = runAddrEnv
		}
		if databaseURIEnv := os.Getenv("DATABASE_URI"); databaseURIEnv != "" {
			cfg.DatabaseDSN = databaseURIEnv
		}
		if catalogAddrEnv := os.Getenv("CATALOG_ADDRESS"); catalogAddrEnv != "" {
			cfg.CatalogAddr = catalogAddrEnv
		}
		if notifyAddrEnv := os.Getenv("NOTIFY_ADDRESS"); notifyAddrEnv != "" {
			cfg.NotifyAddr = notifyAddrEnv
		}
		if assistAddrEnv := os.Getenv("ASSIST_ADDRESS"); assistAddrEnv != "" {
			cfg.AssistAddr = assistAddrEnv
		}
		if logLevelEnv := os.Getenv("LOG_LEVEL"); logLevelEnv != "" {
			cfg.LogLevel = logLevelEnv
		}
		if tokenKeyEnv := os.Getenv("TOKEN_KEY"); tokenKeyEnv != "" {
			cfg.TokenKey = tokenKeyEnv
		}
		if gatewaySecretEnv := os.Getenv("GATEWAY_SECRET_HASH"); gatewaySecretEnv != "" {
			cfg.GatewaySecretHash = gatewaySecretEnv
		}
		if rateLimitEnv := os.Getenv("RATE_LIMIT"); rateLimitEnv != "" {
			if v, err := strconv.Atoi(rateLimitEnv); err == nil && v > 0 {
				cfg.RateLimit = v
			}
		}

		singleton = &cfg
	})

	return singleton, nil
}
