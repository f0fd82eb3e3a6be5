package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolateEnv(t *testing.T) string {
	t.Helper()
	secretsDir := t.TempDir()
	t.Setenv("SECRETS_DIR", secretsDir)
	t.Setenv("CI", "false")
	t.Setenv("ENV", "test")
	return secretsDir
}

func TestLoadConfigWithDefaults(t *testing.T) {
	isolateEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, Test, cfg.Env)
	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, DevJWTSecret, cfg.Auth.JWTSecret)
	assert.Equal(t, 10.0, cfg.Matching.Threshold)
	assert.Equal(t, 3, cfg.Matching.TopN)
	assert.Contains(t, cfg.Matching.Exclusions, "파:양파")
	assert.Equal(t, "solar-pro2", cfg.AI.Text.Model)
	assert.Equal(t, 30*time.Second, cfg.AI.Text.Timeout)
	assert.False(t, cfg.TextAIEnabled())
	assert.False(t, cfg.ImageAIEnabled())
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	isolateEnv(t)
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_NAME", "recipes")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("UPSTAGE_API_KEY", "up-key")
	t.Setenv("GEMINI_API_KEY", "gm-key")
	t.Setenv("APP_AI_TEXT_TIMEOUT", "5s")
	t.Setenv("RECIPE_DATASET_PATH", "/data/a.csv,/data/b.csv")
	t.Setenv("MATCH_EXCLUSIONS", "파:양파,김:김치")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "recipes", cfg.Database.Name)
	assert.Equal(t, "test-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, "up-key", cfg.AI.Text.APIKey)
	assert.Equal(t, "gm-key", cfg.AI.Image.APIKey)
	assert.Equal(t, 5*time.Second, cfg.AI.Text.Timeout)
	assert.Equal(t, []string{"/data/a.csv", "/data/b.csv"}, cfg.Dataset.Paths)
	assert.Equal(t, []string{"파:양파", "김:김치"}, cfg.Matching.Exclusions)
}

func TestSecretsOverrideEnvironment(t *testing.T) {
	secretsDir := isolateEnv(t)
	t.Setenv("JWT_SECRET", "from-env")
	require.NoError(t, os.WriteFile(filepath.Join(secretsDir, "jwt_secret"), []byte("from-secret\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(secretsDir, "upstage_api_key"), []byte("secret-key"), 0o600))

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "from-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, "secret-key", cfg.AI.Text.APIKey)
}

func TestCIIgnoresSecretFiles(t *testing.T) {
	secretsDir := isolateEnv(t)
	t.Setenv("CI", "true")
	t.Setenv("JWT_SECRET", "ci-secret")
	require.NoError(t, os.WriteFile(filepath.Join(secretsDir, "jwt_secret"), []byte("file-secret"), 0o600))

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, CI, cfg.Env)
	assert.Equal(t, "ci-secret", cfg.Auth.JWTSecret)
}

func TestProductionRequiresSecret(t *testing.T) {
	isolateEnv(t)
	t.Setenv("ENV", "production")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "auth.jwt_secret")
}

func TestValidateConfig(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Env:      Development,
			Server:   ServerConfig{Port: "8000"},
			Database: DatabaseConfig{Driver: "sqlite", SQLitePath: "x.db"},
			Auth:     AuthConfig{JWTSecret: "secret"},
			AI: AIConfig{
				Text:  TextAIConfig{Timeout: time.Second},
				Image: ImageAIConfig{Timeout: time.Second, PlaceholderURL: "https://img/?%s"},
			},
			Storage:  StorageConfig{Backend: "local"},
			Matching: MatchingConfig{Threshold: 10, TopN: 3, Exclusions: []string{"파:양파"}},
		}
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, ValidateConfig(valid()))
	})

	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"missing port", func(c *Config) { c.Server.Port = "" }, "server.port"},
		{"unknown driver", func(c *Config) { c.Database.Driver = "mysql" }, "database.driver"},
		{"postgres without host", func(c *Config) { c.Database = DatabaseConfig{Driver: "postgres"} }, "database"},
		{"threshold out of range", func(c *Config) { c.Matching.Threshold = 101 }, "matching.threshold"},
		{"zero top n", func(c *Config) { c.Matching.TopN = 0 }, "matching.top_n"},
		{"bad exclusion", func(c *Config) { c.Matching.Exclusions = []string{"파양파"} }, "matching.exclusions"},
		{"s3 without bucket", func(c *Config) { c.Storage.Backend = "s3" }, "storage.s3_bucket"},
		{"placeholder without verb", func(c *Config) { c.AI.Image.PlaceholderURL = "https://img" }, "ai.image.placeholder_url"},
		{"zero text timeout", func(c *Config) { c.AI.Text.Timeout = 0 }, "ai.text.timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := ValidateConfig(cfg)
			require.Error(t, err)

			var verrs ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Equal(t, tt.field, verrs[0].Field)
		})
	}
}

func TestParseEnvironment(t *testing.T) {
	assert.Equal(t, Production, ParseEnvironment("production"))
	assert.Equal(t, Production, ParseEnvironment(" PROD "))
	assert.Equal(t, Test, ParseEnvironment("test"))
	assert.Equal(t, Development, ParseEnvironment(""))
	assert.Equal(t, Development, ParseEnvironment("staging"))
}
