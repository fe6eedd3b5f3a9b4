package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App           AppConfig           `mapstructure:"app"`
	HTTP          HTTPConfig          `mapstructure:"http"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Redis         RedisConfig         `mapstructure:"redis"`
	BillingAPI    BillingAPIConfig    `mapstructure:"billing_api"`
	Fixtures      FixturesConfig      `mapstructure:"fixtures"`
	Tags          TagsConfig          `mapstructure:"tags"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

type AppConfig struct {
	Name     string `mapstructure:"name"`
	Env      string `mapstructure:"env"`
	Version  string `mapstructure:"version"`
	Timezone string `mapstructure:"timezone"`
}

func (c AppConfig) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development") || strings.EqualFold(c.Env, "dev")
}

type HTTPConfig struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	Driver       string `mapstructure:"driver"` // postgres | mysql | sqlite
	DSN          string `mapstructure:"dsn"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
}

type RedisConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	Addr        string        `mapstructure:"addr"`
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db"`
	SnapshotTTL time.Duration `mapstructure:"snapshot_ttl"`
}

type BillingAPIConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	AccessKeyID string        `mapstructure:"access_key_id"`
	SecretKey   string        `mapstructure:"secret_key"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type FixturesConfig struct {
	Dir   string `mapstructure:"dir"`
	Watch bool   `mapstructure:"watch"`
}

// TagsConfig holds the name patterns that tag charges at ingestion.
type TagsConfig struct {
	Holiday       string `mapstructure:"holiday"`
	Discount      string `mapstructure:"discount"`
	NForN         string `mapstructure:"n_for_n"`
	NonRefundable string `mapstructure:"non_refundable"`
}

type ObservabilityConfig struct {
	LogLevel     string `mapstructure:"log_level"`
	ServiceName  string `mapstructure:"service_name"`
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
}

var defaults = map[string]any{
	"app.name":     "subview",
	"app.env":      "production",
	"app.version":  "dev",
	"app.timezone": "UTC",

	"http.addr":          ":8080",
	"http.read_timeout":  "15s",
	"http.write_timeout": "30s",

	"database.enabled":        false,
	"database.driver":         "postgres",
	"database.dsn":            "",
	"database.max_open_conns": 20,
	"database.max_idle_conns": 2,

	"redis.enabled":      false,
	"redis.addr":         "localhost:6379",
	"redis.password":     "",
	"redis.db":           0,
	"redis.snapshot_ttl": "10m",

	"billing_api.base_url":      "https://api.zuora.com/rest",
	"billing_api.access_key_id": "",
	"billing_api.secret_key":    "",
	"billing_api.timeout":       "20s",

	"fixtures.dir":   "",
	"fixtures.watch": true,

	"tags.holiday":        `(?i)holiday`,
	"tags.discount":       `(?i)discount|percentage|adjustment`,
	"tags.n_for_n":        `(?i)issues`,
	"tags.non_refundable": `(?i)membership`,

	"observability.log_level":     "info",
	"observability.service_name":  "subview",
	"observability.otlp_endpoint": "",
}

// Load reads .env (if present) and the environment. Every key has a
// default; APP_ENV, HTTP_ADDR, BILLING_API_BASE_URL and so on override it.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}
