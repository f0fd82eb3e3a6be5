package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DevJWTSecret is the signing key used when no secret is configured outside production.
const DevJWTSecret = "fridgechef-dev-secret"

// Config holds all configuration for the application
type Config struct {
	Env Environment `mapstructure:"-"`

	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Auth      AuthConfig      `mapstructure:"auth"`
	AI        AIConfig        `mapstructure:"ai"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Dataset   DatasetConfig   `mapstructure:"dataset"`
	Matching  MatchingConfig  `mapstructure:"matching"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	PublicURL       string        `mapstructure:"public_url"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
}

// DatabaseConfig selects the gorm dialect. URL, when set, wins over the discrete fields.
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	URL             string        `mapstructure:"url"`
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	SQLitePath      string        `mapstructure:"sqlite_path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	URL      string `mapstructure:"url"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

// AIConfig carries the credentials and limits of the external generators.
// It is built once at startup and handed to the clients that need it.
type AIConfig struct {
	Text     TextAIConfig  `mapstructure:"text"`
	Image    ImageAIConfig `mapstructure:"image"`
	Breaker  BreakerConfig `mapstructure:"breaker"`
	Parallel bool          `mapstructure:"parallel"`
}

type TextAIConfig struct {
	APIKey    string        `mapstructure:"api_key"`
	BaseURL   string        `mapstructure:"base_url"`
	Model     string        `mapstructure:"model"`
	MaxTokens int           `mapstructure:"max_tokens"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

type ImageAIConfig struct {
	APIKey         string        `mapstructure:"api_key"`
	BaseURL        string        `mapstructure:"base_url"`
	Model          string        `mapstructure:"model"`
	Timeout        time.Duration `mapstructure:"timeout"`
	PlaceholderURL string        `mapstructure:"placeholder_url"`
}

type BreakerConfig struct {
	FailureThreshold uint32        `mapstructure:"failure_threshold"`
	MaxRequests      uint32        `mapstructure:"max_requests"`
	OpenTimeout      time.Duration `mapstructure:"open_timeout"`
}

// StorageConfig picks where generated images are written: "local" or "s3".
type StorageConfig struct {
	Backend  string `mapstructure:"backend"`
	MediaDir string `mapstructure:"media_dir"`
	S3Bucket string `mapstructure:"s3_bucket"`
	S3Region string `mapstructure:"s3_region"`
}

type DatasetConfig struct {
	Paths []string `mapstructure:"paths"`
}

// MatchingConfig tunes the ingredient matcher. Exclusions are "user:recipe" pairs.
type MatchingConfig struct {
	Threshold  float64  `mapstructure:"threshold"`
	TopN       int      `mapstructure:"top_n"`
	Exclusions []string `mapstructure:"exclusions"`
}

type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// LoadConfig builds a Config from defaults, an optional .env file, environment
// variables and Docker secrets, in increasing order of precedence.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := bindEnvAliases(v); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Env = GetEnvironment()

	// CI passes everything through the environment; elsewhere secret files win.
	if cfg.Env != CI {
		applySecrets(cfg)
	}

	if cfg.Auth.JWTSecret == "" && (cfg.Env == Development || cfg.Env == Test) {
		cfg.Auth.JWTSecret = DevJWTSecret
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8000")
	v.SetDefault("server.public_url", "http://127.0.0.1:8000")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173", "http://localhost:3000"})

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.url", "")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "fridgechef")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.sqlite_path", "fridgechef.db")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 25)
	v.SetDefault("database.conn_max_lifetime", "5m")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.url", "")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl", "24h")

	v.SetDefault("ai.text.api_key", "")
	v.SetDefault("ai.text.base_url", "https://api.upstage.ai/v1")
	v.SetDefault("ai.text.model", "solar-pro2")
	v.SetDefault("ai.text.max_tokens", 2048)
	v.SetDefault("ai.text.timeout", "30s")
	v.SetDefault("ai.image.api_key", "")
	v.SetDefault("ai.image.base_url", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("ai.image.model", "gemini-2.0-flash-exp-image-generation")
	v.SetDefault("ai.image.timeout", "45s")
	v.SetDefault("ai.image.placeholder_url", "https://source.unsplash.com/800x600/?%s,food")
	v.SetDefault("ai.breaker.failure_threshold", 5)
	v.SetDefault("ai.breaker.max_requests", 1)
	v.SetDefault("ai.breaker.open_timeout", "30s")
	v.SetDefault("ai.parallel", false)

	v.SetDefault("storage.backend", "local")
	v.SetDefault("storage.media_dir", "media")
	v.SetDefault("storage.s3_bucket", "")
	v.SetDefault("storage.s3_region", "")

	v.SetDefault("dataset.paths", []string{"backend_dj/recipe_dataset.csv", "recipe_dataset.csv"})

	v.SetDefault("matching.threshold", 10.0)
	v.SetDefault("matching.top_n", 3)
	v.SetDefault("matching.exclusions", []string{"파:양파", "콩:땅콩", "고추:고추장", "고추:고추냉이", "버터:땅콩버터", "참치:참치액"})

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests", 30)
	v.SetDefault("rate_limit.window", "1m")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
}

// bindEnvAliases maps the well-known variable names onto config keys.
func bindEnvAliases(v *viper.Viper) error {
	aliases := map[string][]string{
		"server.port":           {"APP_SERVER_PORT", "SERVER_PORT", "PORT"},
		"server.host":           {"APP_SERVER_HOST", "SERVER_HOST"},
		"server.public_url":     {"APP_SERVER_PUBLIC_URL", "PUBLIC_URL"},
		"database.driver":       {"APP_DATABASE_DRIVER", "DB_DRIVER"},
		"database.url":          {"APP_DATABASE_URL", "DATABASE_URL"},
		"database.host":         {"APP_DATABASE_HOST", "DB_HOST"},
		"database.port":         {"APP_DATABASE_PORT", "DB_PORT"},
		"database.user":         {"APP_DATABASE_USER", "DB_USER"},
		"database.password":     {"APP_DATABASE_PASSWORD", "DB_PASSWORD"},
		"database.name":         {"APP_DATABASE_NAME", "DB_NAME"},
		"database.ssl_mode":     {"APP_DATABASE_SSL_MODE", "DB_SSL_MODE"},
		"database.sqlite_path":  {"APP_DATABASE_SQLITE_PATH", "SQLITE_PATH"},
		"redis.enabled":         {"APP_REDIS_ENABLED", "REDIS_ENABLED"},
		"redis.url":             {"APP_REDIS_URL", "REDIS_URL"},
		"redis.host":            {"APP_REDIS_HOST", "REDIS_HOST"},
		"redis.port":            {"APP_REDIS_PORT", "REDIS_PORT"},
		"redis.password":        {"APP_REDIS_PASSWORD", "REDIS_PASSWORD"},
		"auth.jwt_secret":       {"APP_AUTH_JWT_SECRET", "JWT_SECRET"},
		"ai.text.api_key":       {"APP_AI_TEXT_API_KEY", "UPSTAGE_API_KEY"},
		"ai.text.base_url":      {"APP_AI_TEXT_BASE_URL", "UPSTAGE_API_URL"},
		"ai.image.api_key":      {"APP_AI_IMAGE_API_KEY", "GEMINI_API_KEY"},
		"ai.image.base_url":     {"APP_AI_IMAGE_BASE_URL", "GEMINI_API_URL"},
		"storage.backend":       {"APP_STORAGE_BACKEND", "STORAGE_BACKEND"},
		"storage.media_dir":     {"APP_STORAGE_MEDIA_DIR", "MEDIA_ROOT"},
		"storage.s3_bucket":     {"APP_STORAGE_S3_BUCKET", "S3_BUCKET_NAME"},
		"storage.s3_region":     {"APP_STORAGE_S3_REGION", "AWS_REGION"},
		"dataset.paths":         {"APP_DATASET_PATHS", "RECIPE_DATASET_PATH"},
		"matching.exclusions":   {"APP_MATCHING_EXCLUSIONS", "MATCH_EXCLUSIONS"},
		"rate_limit.enabled":    {"APP_RATE_LIMIT_ENABLED", "RATE_LIMIT_ENABLED"},
		"rate_limit.requests":   {"APP_RATE_LIMIT_REQUESTS", "RATE_LIMIT_REQUESTS"},
		"rate_limit.window":     {"APP_RATE_LIMIT_WINDOW", "RATE_LIMIT_WINDOW"},
		"log.level":             {"APP_LOG_LEVEL", "LOG_LEVEL"},
		"log.file":              {"APP_LOG_FILE", "LOG_FILE"},
	}
	for key, envs := range aliases {
		args := append([]string{key}, envs...)
		if err := v.BindEnv(args...); err != nil {
			return fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}
	return nil
}

// applySecrets overrides sensitive values with Docker secrets when present.
func applySecrets(cfg *Config) {
	overrides := map[string]*string{
		"db_password":     &cfg.Database.Password,
		"db_user":         &cfg.Database.User,
		"database_url":    &cfg.Database.URL,
		"jwt_secret":      &cfg.Auth.JWTSecret,
		"redis_password":  &cfg.Redis.Password,
		"redis_url":       &cfg.Redis.URL,
		"upstage_api_key": &cfg.AI.Text.APIKey,
		"gemini_api_key":  &cfg.AI.Image.APIKey,
	}
	for name, field := range overrides {
		if value := readSecret(name); value != "" {
			*field = value
		}
	}
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	if data, err := os.ReadFile(filepath.Join(secretsDir, name)); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

// TextAIEnabled reports whether a text generation key is configured.
func (c *Config) TextAIEnabled() bool {
	return c.AI.Text.APIKey != ""
}

// ImageAIEnabled reports whether an image generation key is configured.
func (c *Config) ImageAIEnabled() bool {
	return c.AI.Image.APIKey != ""
}
