package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "PACKFINDERZ"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvAppEnv               = "PACKFINDERZ_APP_ENV"
	EnvLogLevel             = "PACKFINDERZ_LOG_LEVEL"
	EnvRedisURL             = "PACKFINDERZ_REDIS_URL"
	EnvRedisEnabled         = "PACKFINDERZ_REDIS_ENABLED"
	EnvVariationCacheTTL    = "PACKFINDERZ_VARIATION_CACHE_TTL"
	EnvResolverMemoSize     = "PACKFINDERZ_RESOLVER_MEMO_SIZE"
	EnvNotificationClose    = "PACKFINDERZ_NOTIFICATION_AUTO_CLOSE"
	EnvItemAPIBaseURL       = "PACKFINDERZ_ITEM_API_BASE_URL"
	EnvItemAPITemplate      = "PACKFINDERZ_ITEM_API_TEMPLATE"
	EnvItemAPITimeout       = "PACKFINDERZ_ITEM_API_TIMEOUT"
	EnvRequireOrderProps    = "PACKFINDERZ_ITEM_REQUIRE_ORDER_PROPERTIES"
	EnvItemDefaultLanguage  = "PACKFINDERZ_ITEM_DEFAULT_LANGUAGE"
	EnvItemSeparator        = "PACKFINDERZ_ITEM_MESSAGE_SEPARATOR"
	defaultResolverMemoSize = 512
)

type Config struct {
	App           AppConfig
	Redis         RedisConfig
	Resolver      ResolverConfig
	Notifications NotificationConfig
	ItemAPI       ItemAPIConfig
	Item          ItemConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"PACKFINDERZ_APP_ENV" default:"dev"`
	LogLevel     string `envconfig:"PACKFINDERZ_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PACKFINDERZ_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// RedisConfig configures the shared variation detail cache.
type RedisConfig struct {
	Enabled      bool          `envconfig:"PACKFINDERZ_REDIS_ENABLED" default:"false"`
	URL          string        `envconfig:"PACKFINDERZ_REDIS_URL"`
	Address      string        `envconfig:"PACKFINDERZ_REDIS_ADDR"`
	Password     string        `envconfig:"PACKFINDERZ_REDIS_PASSWORD"`
	DB           int           `envconfig:"PACKFINDERZ_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PACKFINDERZ_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PACKFINDERZ_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PACKFINDERZ_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PACKFINDERZ_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PACKFINDERZ_REDIS_WRITE_TIMEOUT" default:"5s"`
	VariationTTL time.Duration `envconfig:"PACKFINDERZ_VARIATION_CACHE_TTL" default:"1h"`
}

type ResolverConfig struct {
	MemoSize int `envconfig:"PACKFINDERZ_RESOLVER_MEMO_SIZE" default:"512"`
}

// Size returns the memo capacity, falling back to the default for non-positive values.
func (r ResolverConfig) Size() int {
	if r.MemoSize <= 0 {
		return defaultResolverMemoSize
	}
	return r.MemoSize
}

type NotificationConfig struct {
	AutoClose time.Duration `envconfig:"PACKFINDERZ_NOTIFICATION_AUTO_CLOSE" default:"5s"`
}

type ItemAPIConfig struct {
	BaseURL  string        `envconfig:"PACKFINDERZ_ITEM_API_BASE_URL"`
	Template string        `envconfig:"PACKFINDERZ_ITEM_API_TEMPLATE" default:"Ceres::Item.SingleItem"`
	Timeout  time.Duration `envconfig:"PACKFINDERZ_ITEM_API_TIMEOUT" default:"10s"`
}

// Enabled reports whether a remote item API is configured.
func (i ItemAPIConfig) Enabled() bool {
	return strings.TrimSpace(i.BaseURL) != ""
}

type ItemConfig struct {
	RequireOrderProperties bool   `envconfig:"PACKFINDERZ_ITEM_REQUIRE_ORDER_PROPERTIES" default:"true"`
	DefaultLanguage        string `envconfig:"PACKFINDERZ_ITEM_DEFAULT_LANGUAGE" default:"de"`
	MessageSeparator       string `envconfig:"PACKFINDERZ_ITEM_MESSAGE_SEPARATOR" default:"\n"`
}

func (c *Config) validate() error {
	if c.Redis.Enabled && c.Redis.URL == "" && c.Redis.Address == "" {
		return fmt.Errorf("%s or PACKFINDERZ_REDIS_ADDR is required when redis is enabled", EnvRedisURL)
	}
	if c.ItemAPI.Enabled() {
		parsed, err := url.Parse(c.ItemAPI.BaseURL)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("%s must be an absolute url", EnvItemAPIBaseURL)
		}
	}
	if c.Notifications.AutoClose < 0 {
		return fmt.Errorf("%s must be non-negative", EnvNotificationClose)
	}
	return nil
}
