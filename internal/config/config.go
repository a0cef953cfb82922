// Package config assembles runtime configuration from defaults, an optional
// YAML file and environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

const (
	defaultPort             = "8080"
	defaultBackend          = BackendDynamoDB
	defaultMaxConns         = 10
	defaultIdempotencyTTL   = 48 * time.Hour
	defaultMetricsNamespace = "PurchaseOrderflow"
	defaultLogLevel         = "info"
	defaultSeedCustomers    = 20
	defaultSeedProducts     = 20
)

// Storage backends.
const (
	BackendDynamoDB = "dynamodb"
	BackendPostgres = "postgres"
)

var defaultPaymentMethods = []string{"pix", "creditcard", "paypal"}

// Config captures all runtime configuration organised by concern.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Storage     StorageConfig     `yaml:"storage"`
	Idempotency IdempotencyConfig `yaml:"idempotency"`
	Queue       QueueConfig       `yaml:"queue"`
	Metrics     MetricsConfig     `yaml:"metrics"`
	Payments    PaymentsConfig    `yaml:"payments"`
	Log         LogConfig         `yaml:"log"`
}

// ServerConfig configures the HTTP entrypoint.
type ServerConfig struct {
	Port     string `yaml:"port"`
	RunLocal bool   `yaml:"run_local"`
}

// StorageConfig selects and configures the repository backend.
type StorageConfig struct {
	Backend       string       `yaml:"backend"`
	DatabaseURL   string       `yaml:"database_url"`
	MaxConns      int32        `yaml:"max_conns"`
	Tables        TablesConfig `yaml:"tables"`
	SeedDemoData  bool         `yaml:"seed_demo_data"`
	SeedCustomers int          `yaml:"seed_customers"`
	SeedProducts  int          `yaml:"seed_products"`
}

// TablesConfig names the DynamoDB tables.
type TablesConfig struct {
	Customers string `yaml:"customers"`
	Orders    string `yaml:"orders"`
	Products  string `yaml:"products"`
	Numbers   string `yaml:"numbers"`
	Counters  string `yaml:"counters"`
}

// IdempotencyConfig enables request and delivery deduplication when Table is set.
type IdempotencyConfig struct {
	Table string        `yaml:"table"`
	TTL   time.Duration `yaml:"ttl"`
}

// Enabled reports whether an idempotency table is configured.
func (c IdempotencyConfig) Enabled() bool { return c.Table != "" }

// QueueConfig points at the order events queue. Empty disables publishing.
type QueueConfig struct {
	OrdersURL string `yaml:"orders_url"`
}

type MetricsConfig struct {
	Namespace string `yaml:"namespace"`
}

// PaymentsConfig lists the payment methods offered at startup.
type PaymentsConfig struct {
	Methods []string `yaml:"methods"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// ValidationError is returned when required configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Option customises Load behaviour.
type Option func(*loaderOptions)

type loaderOptions struct {
	configFile   string
	envMap       map[string]string
	useSystemEnv bool
}

// WithConfigFile reads path as the YAML layer, overriding CONFIG_FILE.
func WithConfigFile(path string) Option {
	return func(o *loaderOptions) {
		o.configFile = path
	}
}

// WithEnvMap injects an explicit key/value map for environment lookups. Values in the map
// take precedence over system environment variables.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) {
		o.envMap = values
	}
}

// WithoutSystemEnv disables reading from os.LookupEnv.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) {
		o.useSystemEnv = false
	}
}

// Defaults returns the configuration used before any file or environment layer.
func Defaults() Config {
	return Config{
		Server: ServerConfig{Port: defaultPort},
		Storage: StorageConfig{
			Backend:       defaultBackend,
			MaxConns:      defaultMaxConns,
			SeedCustomers: defaultSeedCustomers,
			SeedProducts:  defaultSeedProducts,
		},
		Idempotency: IdempotencyConfig{TTL: defaultIdempotencyTTL},
		Metrics:     MetricsConfig{Namespace: defaultMetricsNamespace},
		Payments:    PaymentsConfig{Methods: append([]string(nil), defaultPaymentMethods...)},
		Log:         LogConfig{Level: defaultLogLevel},
	}
}

// Load assembles the configuration. It does not validate; callers pick
// Validate or ValidateWorker depending on the entrypoint.
func Load(opts ...Option) (Config, error) {
	options := loaderOptions{useSystemEnv: true}
	for _, opt := range opts {
		opt(&options)
	}

	lookup := func(key string) (string, bool) {
		if options.envMap != nil {
			if value, ok := options.envMap[key]; ok {
				return value, true
			}
		}
		if options.useSystemEnv {
			if value, ok := os.LookupEnv(key); ok {
				return value, true
			}
		}
		return "", false
	}

	cfg := Defaults()

	path := options.configFile
	if path == "" {
		path, _ = lookup("CONFIG_FILE")
	}
	if strings.TrimSpace(path) != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	var errs []error
	setString(lookup, "PORT", &cfg.Server.Port)
	setBool(lookup, "RUN_LOCAL", &cfg.Server.RunLocal, &errs)
	setString(lookup, "STORE_BACKEND", &cfg.Storage.Backend)
	setString(lookup, "DATABASE_URL", &cfg.Storage.DatabaseURL)
	setString(lookup, "CUSTOMERS_TABLE", &cfg.Storage.Tables.Customers)
	setString(lookup, "ORDERS_TABLE", &cfg.Storage.Tables.Orders)
	setString(lookup, "PRODUCTS_TABLE", &cfg.Storage.Tables.Products)
	setString(lookup, "NUMBERS_TABLE", &cfg.Storage.Tables.Numbers)
	setString(lookup, "COUNTERS_TABLE", &cfg.Storage.Tables.Counters)
	setBool(lookup, "SEED_DEMO_DATA", &cfg.Storage.SeedDemoData, &errs)
	setString(lookup, "IDEMPOTENCY_TABLE", &cfg.Idempotency.Table)
	setDuration(lookup, "IDEMPOTENCY_TTL", &cfg.Idempotency.TTL, &errs)
	setString(lookup, "ORDERS_QUEUE_URL", &cfg.Queue.OrdersURL)
	setString(lookup, "METRICS_NAMESPACE", &cfg.Metrics.Namespace)
	setString(lookup, "LOG_LEVEL", &cfg.Log.Level)
	if value, ok := lookup("PAYMENT_METHODS"); ok {
		cfg.Payments.Methods = splitList(value)
	}
	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}

	cfg.Storage.Backend = strings.ToLower(strings.TrimSpace(cfg.Storage.Backend))
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// Validate checks everything the API entrypoint needs.
func (c Config) Validate() error {
	var fields []string
	switch c.Storage.Backend {
	case BackendDynamoDB:
		for name, value := range map[string]string{
			"Storage.Tables.Customers": c.Storage.Tables.Customers,
			"Storage.Tables.Orders":    c.Storage.Tables.Orders,
			"Storage.Tables.Products":  c.Storage.Tables.Products,
			"Storage.Tables.Numbers":   c.Storage.Tables.Numbers,
			"Storage.Tables.Counters":  c.Storage.Tables.Counters,
		} {
			if strings.TrimSpace(value) == "" {
				fields = append(fields, name)
			}
		}
	case BackendPostgres:
		if strings.TrimSpace(c.Storage.DatabaseURL) == "" {
			fields = append(fields, "Storage.DatabaseURL")
		}
	default:
		fields = append(fields, "Storage.Backend")
	}
	if strings.TrimSpace(c.Server.Port) == "" {
		fields = append(fields, "Server.Port")
	}
	if len(c.Payments.Methods) == 0 {
		fields = append(fields, "Payments.Methods")
	}
	fields = append(fields, c.commonFields()...)
	return validationResult(fields)
}

// ValidateWorker checks what the queue worker needs.
func (c Config) ValidateWorker() error {
	var fields []string
	if !c.Idempotency.Enabled() {
		fields = append(fields, "Idempotency.Table")
	}
	fields = append(fields, c.commonFields()...)
	return validationResult(fields)
}

func (c Config) commonFields() []string {
	var fields []string
	if c.Idempotency.TTL <= 0 {
		fields = append(fields, "Idempotency.TTL")
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		fields = append(fields, "Log.Level")
	}
	return fields
}

func validationResult(fields []string) error {
	if len(fields) == 0 {
		return nil
	}
	sort.Strings(fields)
	return &ValidationError{fields: fields}
}

func setString(lookup func(string) (string, bool), key string, dst *string) {
	if value, ok := lookup(key); ok {
		*dst = strings.TrimSpace(value)
	}
}

func setBool(lookup func(string) (string, bool), key string, dst *bool, errs *[]error) {
	value, ok := lookup(key)
	if !ok || strings.TrimSpace(value) == "" {
		return
	}
	parsed, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return
	}
	*dst = parsed
}

func setDuration(lookup func(string) (string, bool), key string, dst *time.Duration, errs *[]error) {
	value, ok := lookup(key)
	if !ok || strings.TrimSpace(value) == "" {
		return
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return
	}
	*dst = parsed
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
