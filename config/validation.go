package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors aggregates every problem found in one pass.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, ve := range e {
		msgs = append(msgs, ve.Error())
	}
	return strings.Join(msgs, "\n")
}

// ValidateConfig checks if the configuration meets the requirements for the current environment
func ValidateConfig(cfg *Config) error {
	var errs ValidationErrors
	add := func(field, msg string) {
		errs = append(errs, ValidationError{Field: field, Message: msg})
	}

	if cfg.Server.Port == "" {
		add("server.port", "is required")
	}

	switch cfg.Database.Driver {
	case "postgres":
		if cfg.Database.URL == "" && (cfg.Database.Host == "" || cfg.Database.Name == "") {
			add("database", "postgres requires either url or host and name")
		}
	case "sqlite":
		if cfg.Database.SQLitePath == "" {
			add("database.sqlite_path", "is required for sqlite")
		}
	default:
		add("database.driver", fmt.Sprintf("unsupported driver %q", cfg.Database.Driver))
	}

	if cfg.Auth.JWTSecret == "" {
		add("auth.jwt_secret", "is required")
	} else if cfg.Env == Production && cfg.Auth.JWTSecret == DevJWTSecret {
		add("auth.jwt_secret", "must not use the development secret in production")
	}

	if cfg.AI.Text.Timeout <= 0 {
		add("ai.text.timeout", "must be positive")
	}
	if cfg.AI.Image.Timeout <= 0 {
		add("ai.image.timeout", "must be positive")
	}
	if !strings.Contains(cfg.AI.Image.PlaceholderURL, "%s") {
		add("ai.image.placeholder_url", "must contain a %s placeholder for the recipe name")
	}

	if cfg.Matching.Threshold < 0 || cfg.Matching.Threshold > 100 {
		add("matching.threshold", "must be between 0 and 100")
	}
	if cfg.Matching.TopN < 1 {
		add("matching.top_n", "must be at least 1")
	}
	for _, pair := range cfg.Matching.Exclusions {
		u, r, ok := strings.Cut(pair, ":")
		if !ok || strings.TrimSpace(u) == "" || strings.TrimSpace(r) == "" {
			add("matching.exclusions", fmt.Sprintf("invalid pair %q, expected user:recipe", pair))
		}
	}

	switch cfg.Storage.Backend {
	case "local":
	case "s3":
		if cfg.Storage.S3Bucket == "" {
			add("storage.s3_bucket", "is required for the s3 backend")
		}
	default:
		add("storage.backend", fmt.Sprintf("unsupported backend %q", cfg.Storage.Backend))
	}

	if cfg.RateLimit.Enabled && (cfg.RateLimit.Requests < 1 || cfg.RateLimit.Window <= 0) {
		add("rate_limit", "requests and window must be positive when enabled")
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
