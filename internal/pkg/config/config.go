package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Store backends accepted by ACCOUNT_STORE.
const (
	StoreMemory = "memory"
	StoreMongo  = "mongo"
)

type Config struct {
	Port     string `env:"PORT,      default=5000"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	AccountStore  string        `env:"ACCOUNT_STORE,  default=memory"`
	EditCooldown  time.Duration `env:"EDIT_COOLDOWN,  default=24h"`
	NotifyWorkers int           `env:"NOTIFY_WORKERS, default=4"`

	Mongo MongoConfig
	Redis RedisConfig
	S3    S3Config
	Kryos KryosConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=employee_accounts"`
}

// RedisConfig is optional: an empty Addr disables rate limiting.
type RedisConfig struct {
	Addr       string        `env:"REDIS_ADDR"`
	Password   string        `env:"REDIS_PASSWORD"`
	DB         int           `env:"REDIS_DB,         default=0"`
	RateLimit  int           `env:"AUTH_RATE_LIMIT,  default=20"`
	RateWindow time.Duration `env:"AUTH_RATE_WINDOW, default=1m"`
}

type S3Config struct {
	Bucket          string `env:"S3_BUCKET_NAME, default=demo-kryos"`
	Region          string `env:"AWS_REGION,     default=us-east-1"`
	AccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`
	Endpoint        string `env:"S3_ENDPOINT"`
}

type KryosConfig struct {
	BaseURL string        `env:"KRYOS_BASE_URL, default=http://localhost:8000"`
	APIKey  string        `env:"KRYOS_API_KEY,  default=demo-api-key"`
	Timeout time.Duration `env:"KRYOS_TIMEOUT,  default=5s"`
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadFrom(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(err.Error())
	}
	return cfg
}

// LoadFrom is Load with an explicit lookuper, used by tests.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.AccountStore {
	case StoreMemory, StoreMongo:
	default:
		return fmt.Errorf("ACCOUNT_STORE must be %q or %q, got %q", StoreMemory, StoreMongo, c.AccountStore)
	}
	if c.NotifyWorkers < 1 {
		return fmt.Errorf("NOTIFY_WORKERS must be positive, got %d", c.NotifyWorkers)
	}
	if c.EditCooldown < 0 {
		return fmt.Errorf("EDIT_COOLDOWN must not be negative, got %s", c.EditCooldown)
	}
	return nil
}
