package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	DB         DBConfig
	Storage    StorageConfig
	Analyzer   AnalyzerConfig
	Resilience ResilienceConfig
	JWT        JWTConfig
	Queue      QueueConfig
	Notify     NotifyConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
	CORSOrigins  []string      `mapstructure:"cors_origins"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// StorageConfig holds object storage settings. Provider is "s3" or "minio".
type StorageConfig struct {
	Provider      string `mapstructure:"provider"`
	Bucket        string `mapstructure:"bucket"`
	Region        string `mapstructure:"region"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	UseSSL        bool   `mapstructure:"use_ssl"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
}

// AnalyzerConfig holds document analysis service settings. Prebuilt models and
// custom-trained models live behind separate resources with their own keys.
type AnalyzerConfig struct {
	PrebuiltEndpoint string   `mapstructure:"prebuilt_endpoint"`
	PrebuiltKey      string   `mapstructure:"prebuilt_key"`
	CustomEndpoint   string   `mapstructure:"custom_endpoint"`
	CustomKey        string   `mapstructure:"custom_key"`
	APIVersion       string   `mapstructure:"api_version"`
	PollIntervalMS   int      `mapstructure:"poll_interval_ms"`
	TimeoutSecs      int      `mapstructure:"timeout_secs"`
	RateLimit        float64  `mapstructure:"rate_limit"`
	RateBurst        int      `mapstructure:"rate_burst"`
	FallbackModel    string   `mapstructure:"fallback_model"`
	CustomFormTypes  []string `mapstructure:"custom_form_types"`
	CustomModel      string   `mapstructure:"custom_model"`
	ModelMapFile     string   `mapstructure:"model_map_file"`
}

// HasCustom reports whether a custom-model resource is configured.
func (a *AnalyzerConfig) HasCustom() bool {
	return a.CustomEndpoint != "" && a.CustomKey != ""
}

// ResilienceConfig holds retry and circuit breaker settings for analysis calls.
type ResilienceConfig struct {
	RetryMaxAttempts    int           `mapstructure:"retry_max_attempts"`
	RetryInitialBackoff time.Duration `mapstructure:"retry_initial_backoff"`
	RetryMaxBackoff     time.Duration `mapstructure:"retry_max_backoff"`
	BreakerEnabled      bool          `mapstructure:"breaker_enabled"`
	BreakerMinRequests  uint32        `mapstructure:"breaker_min_requests"`
	BreakerFailureRatio float64       `mapstructure:"breaker_failure_ratio"`
	BreakerOpenTimeout  time.Duration `mapstructure:"breaker_open_timeout"`
}

// JWTConfig holds JWT signing and expiry settings.
type JWTConfig struct {
	Secret            string        `mapstructure:"secret"`
	Issuer            string        `mapstructure:"issuer"`
	AccessTokenExpiry time.Duration `mapstructure:"access_expiry"`
}

// QueueConfig holds extraction queue worker settings.
type QueueConfig struct {
	PollIntervalSecs int `mapstructure:"poll_interval_secs"`
	MaxAttempts      int `mapstructure:"max_attempts"`
	Concurrency      int `mapstructure:"concurrency"`
}

// NotifyConfig holds job notification settings.
type NotifyConfig struct {
	Provider    string   `mapstructure:"provider"`
	Region      string   `mapstructure:"region"`
	FromAddress string   `mapstructure:"from_address"`
	FromName    string   `mapstructure:"from_name"`
	Recipients  []string `mapstructure:"recipients"`
}

// Load reads configuration from environment variables with the TAXEXTRACT_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("TAXEXTRACT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "5m")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.cors_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "taxextract")
	v.SetDefault("db.password", "taxextract_secret")
	v.SetDefault("db.name", "taxextract_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// Storage defaults
	v.SetDefault("storage.provider", "s3")
	v.SetDefault("storage.bucket", "tax-documents")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.use_ssl", true)
	v.SetDefault("storage.presign_expiry", 3600)
	v.SetDefault("storage.max_file_size_mb", 50)

	// Analyzer defaults
	v.SetDefault("analyzer.prebuilt_endpoint", "")
	v.SetDefault("analyzer.prebuilt_key", "")
	v.SetDefault("analyzer.custom_endpoint", "")
	v.SetDefault("analyzer.custom_key", "")
	v.SetDefault("analyzer.api_version", "2024-11-30")
	v.SetDefault("analyzer.poll_interval_ms", 1000)
	v.SetDefault("analyzer.timeout_secs", 300)
	v.SetDefault("analyzer.rate_limit", 10)
	v.SetDefault("analyzer.rate_burst", 5)
	v.SetDefault("analyzer.fallback_model", "unsorted")
	v.SetDefault("analyzer.custom_form_types", "K1-1065")
	v.SetDefault("analyzer.custom_model", "k1-1065")
	v.SetDefault("analyzer.model_map_file", "")

	// Resilience defaults
	v.SetDefault("resilience.retry_max_attempts", 3)
	v.SetDefault("resilience.retry_initial_backoff", "500ms")
	v.SetDefault("resilience.retry_max_backoff", "10s")
	v.SetDefault("resilience.breaker_enabled", true)
	v.SetDefault("resilience.breaker_min_requests", 10)
	v.SetDefault("resilience.breaker_failure_ratio", 0.5)
	v.SetDefault("resilience.breaker_open_timeout", "30s")

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.issuer", "taxextract")
	v.SetDefault("jwt.access_expiry", "24h")

	// Queue defaults
	v.SetDefault("queue.poll_interval_secs", 5)
	v.SetDefault("queue.max_attempts", 3)
	v.SetDefault("queue.concurrency", 2)

	// Notify defaults
	v.SetDefault("notify.provider", "noop")
	v.SetDefault("notify.region", "us-east-1")
	v.SetDefault("notify.from_address", "noreply@taxextract.local")
	v.SetDefault("notify.from_name", "Tax Extract")
	v.SetDefault("notify.recipients", "")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                      "TAXEXTRACT_SERVER_PORT",
		"server.read_timeout":              "TAXEXTRACT_SERVER_READ_TIMEOUT",
		"server.write_timeout":             "TAXEXTRACT_SERVER_WRITE_TIMEOUT",
		"server.environment":               "TAXEXTRACT_SERVER_ENVIRONMENT",
		"server.cors_origins":              "TAXEXTRACT_SERVER_CORS_ORIGINS",
		"db.host":                          "TAXEXTRACT_DB_HOST",
		"db.port":                          "TAXEXTRACT_DB_PORT",
		"db.user":                          "TAXEXTRACT_DB_USER",
		"db.password":                      "TAXEXTRACT_DB_PASSWORD",
		"db.name":                          "TAXEXTRACT_DB_NAME",
		"db.sslmode":                       "TAXEXTRACT_DB_SSLMODE",
		"db.max_open":                      "TAXEXTRACT_DB_MAX_OPEN",
		"db.max_idle":                      "TAXEXTRACT_DB_MAX_IDLE",
		"storage.provider":                 "TAXEXTRACT_STORAGE_PROVIDER",
		"storage.bucket":                   "TAXEXTRACT_STORAGE_BUCKET",
		"storage.region":                   "TAXEXTRACT_STORAGE_REGION",
		"storage.endpoint":                 "TAXEXTRACT_STORAGE_ENDPOINT",
		"storage.access_key":               "TAXEXTRACT_STORAGE_ACCESS_KEY",
		"storage.secret_key":               "TAXEXTRACT_STORAGE_SECRET_KEY",
		"storage.use_ssl":                  "TAXEXTRACT_STORAGE_USE_SSL",
		"storage.presign_expiry":           "TAXEXTRACT_STORAGE_PRESIGN_EXPIRY",
		"storage.max_file_size_mb":         "TAXEXTRACT_STORAGE_MAX_FILE_SIZE_MB",
		"analyzer.prebuilt_endpoint":       "TAXEXTRACT_ANALYZER_PREBUILT_ENDPOINT",
		"analyzer.prebuilt_key":            "TAXEXTRACT_ANALYZER_PREBUILT_KEY",
		"analyzer.custom_endpoint":         "TAXEXTRACT_ANALYZER_CUSTOM_ENDPOINT",
		"analyzer.custom_key":              "TAXEXTRACT_ANALYZER_CUSTOM_KEY",
		"analyzer.api_version":             "TAXEXTRACT_ANALYZER_API_VERSION",
		"analyzer.poll_interval_ms":        "TAXEXTRACT_ANALYZER_POLL_INTERVAL_MS",
		"analyzer.timeout_secs":            "TAXEXTRACT_ANALYZER_TIMEOUT_SECS",
		"analyzer.rate_limit":              "TAXEXTRACT_ANALYZER_RATE_LIMIT",
		"analyzer.rate_burst":              "TAXEXTRACT_ANALYZER_RATE_BURST",
		"analyzer.fallback_model":          "TAXEXTRACT_ANALYZER_FALLBACK_MODEL",
		"analyzer.custom_form_types":       "TAXEXTRACT_ANALYZER_CUSTOM_FORM_TYPES",
		"analyzer.custom_model":            "TAXEXTRACT_ANALYZER_CUSTOM_MODEL",
		"analyzer.model_map_file":          "TAXEXTRACT_ANALYZER_MODEL_MAP_FILE",
		"resilience.retry_max_attempts":    "TAXEXTRACT_RESILIENCE_RETRY_MAX_ATTEMPTS",
		"resilience.retry_initial_backoff": "TAXEXTRACT_RESILIENCE_RETRY_INITIAL_BACKOFF",
		"resilience.retry_max_backoff":     "TAXEXTRACT_RESILIENCE_RETRY_MAX_BACKOFF",
		"resilience.breaker_enabled":       "TAXEXTRACT_RESILIENCE_BREAKER_ENABLED",
		"resilience.breaker_min_requests":  "TAXEXTRACT_RESILIENCE_BREAKER_MIN_REQUESTS",
		"resilience.breaker_failure_ratio": "TAXEXTRACT_RESILIENCE_BREAKER_FAILURE_RATIO",
		"resilience.breaker_open_timeout":  "TAXEXTRACT_RESILIENCE_BREAKER_OPEN_TIMEOUT",
		"jwt.secret":                       "TAXEXTRACT_JWT_SECRET",
		"jwt.issuer":                       "TAXEXTRACT_JWT_ISSUER",
		"jwt.access_expiry":                "TAXEXTRACT_JWT_ACCESS_EXPIRY",
		"queue.poll_interval_secs":         "TAXEXTRACT_QUEUE_POLL_INTERVAL_SECS",
		"queue.max_attempts":               "TAXEXTRACT_QUEUE_MAX_ATTEMPTS",
		"queue.concurrency":                "TAXEXTRACT_QUEUE_CONCURRENCY",
		"notify.provider":                  "TAXEXTRACT_NOTIFY_PROVIDER",
		"notify.region":                    "TAXEXTRACT_NOTIFY_REGION",
		"notify.from_address":              "TAXEXTRACT_NOTIFY_FROM_ADDRESS",
		"notify.from_name":                 "TAXEXTRACT_NOTIFY_FROM_NAME",
		"notify.recipients":                "TAXEXTRACT_NOTIFY_RECIPIENTS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Hosting platforms set PORT. Use it if TAXEXTRACT_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("TAXEXTRACT_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
		CORSOrigins:  splitList(v.GetString("server.cors_origins")),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.Storage = StorageConfig{
		Provider:      strings.ToLower(v.GetString("storage.provider")),
		Bucket:        v.GetString("storage.bucket"),
		Region:        v.GetString("storage.region"),
		Endpoint:      v.GetString("storage.endpoint"),
		AccessKey:     v.GetString("storage.access_key"),
		SecretKey:     v.GetString("storage.secret_key"),
		UseSSL:        v.GetBool("storage.use_ssl"),
		PresignExpiry: v.GetInt64("storage.presign_expiry"),
		MaxFileSizeMB: v.GetInt64("storage.max_file_size_mb"),
	}
	cfg.Analyzer = AnalyzerConfig{
		PrebuiltEndpoint: strings.TrimRight(v.GetString("analyzer.prebuilt_endpoint"), "/"),
		PrebuiltKey:      v.GetString("analyzer.prebuilt_key"),
		CustomEndpoint:   strings.TrimRight(v.GetString("analyzer.custom_endpoint"), "/"),
		CustomKey:        v.GetString("analyzer.custom_key"),
		APIVersion:       v.GetString("analyzer.api_version"),
		PollIntervalMS:   v.GetInt("analyzer.poll_interval_ms"),
		TimeoutSecs:      v.GetInt("analyzer.timeout_secs"),
		RateLimit:        v.GetFloat64("analyzer.rate_limit"),
		RateBurst:        v.GetInt("analyzer.rate_burst"),
		FallbackModel:    v.GetString("analyzer.fallback_model"),
		CustomFormTypes:  splitList(v.GetString("analyzer.custom_form_types")),
		CustomModel:      v.GetString("analyzer.custom_model"),
		ModelMapFile:     v.GetString("analyzer.model_map_file"),
	}
	cfg.Resilience = ResilienceConfig{
		RetryMaxAttempts:    v.GetInt("resilience.retry_max_attempts"),
		RetryInitialBackoff: v.GetDuration("resilience.retry_initial_backoff"),
		RetryMaxBackoff:     v.GetDuration("resilience.retry_max_backoff"),
		BreakerEnabled:      v.GetBool("resilience.breaker_enabled"),
		BreakerMinRequests:  v.GetUint32("resilience.breaker_min_requests"),
		BreakerFailureRatio: v.GetFloat64("resilience.breaker_failure_ratio"),
		BreakerOpenTimeout:  v.GetDuration("resilience.breaker_open_timeout"),
	}
	cfg.JWT = JWTConfig{
		Secret:            v.GetString("jwt.secret"),
		Issuer:            v.GetString("jwt.issuer"),
		AccessTokenExpiry: v.GetDuration("jwt.access_expiry"),
	}
	cfg.Queue = QueueConfig{
		PollIntervalSecs: v.GetInt("queue.poll_interval_secs"),
		MaxAttempts:      v.GetInt("queue.max_attempts"),
		Concurrency:      v.GetInt("queue.concurrency"),
	}
	cfg.Notify = NotifyConfig{
		Provider:    strings.ToLower(v.GetString("notify.provider")),
		Region:      v.GetString("notify.region"),
		FromAddress: v.GetString("notify.from_address"),
		FromName:    v.GetString("notify.from_name"),
		Recipients:  splitList(v.GetString("notify.recipients")),
	}

	return cfg, nil
}

// splitList parses a comma-separated value, dropping blanks.
func splitList(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
