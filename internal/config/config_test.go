package config

import (
	"os"
	"testing"
	"time"
)

func setEnvVars(vars map[string]string) {
	for k, v := range vars {
		os.Setenv(k, v)
	}
}

func clearEnvVars(vars []string) {
	for _, k := range vars {
		os.Unsetenv(k)
	}
}

var allEnvVars = []string{
	"HOST", "PORT", "READ_TIMEOUT", "WRITE_TIMEOUT", "IDLE_TIMEOUT", "ENVIRONMENT",
	"DB_DRIVER", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSL_MODE",
	"DB_MAX_OPEN_CONNS", "DB_MAX_IDLE_CONNS", "DB_CONN_MAX_LIFETIME",
	"REDIS_HOST", "REDIS_PORT", "REDIS_PASSWORD", "REDIS_DB", "REDIS_POOL_SIZE",
	"REDIS_MIN_IDLE_CONNS", "REDIS_MAX_RETRIES", "REDIS_DIAL_TIMEOUT", "REDIS_READ_TIMEOUT", "REDIS_WRITE_TIMEOUT",
	"JWT_SECRET", "ACCESS_TOKEN_TTL", "REFRESH_TOKEN_TTL", "BCRYPT_COST",
	"RATE_LIMIT_ENABLED", "RATE_LIMIT_RPM", "RATE_LIMIT_BURST", "RATE_LIMIT_CLEANUP",
	"GENAI_ENDPOINT", "GENAI_API_KEY", "GENAI_MODEL", "GENAI_TIMEOUT",
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnvVars(allEnvVars)

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("Expected no error with default config, got: %v", err)
	}

	if config.Server.Host != "localhost" {
		t.Errorf("Expected default host 'localhost', got %s", config.Server.Host)
	}

	if config.Server.Port != "8080" {
		t.Errorf("Expected default port '8080', got %s", config.Server.Port)
	}

	if config.Server.Environment != "development" {
		t.Errorf("Expected default environment 'development', got %s", config.Server.Environment)
	}

	if config.Database.Driver != "postgres" {
		t.Errorf("Expected default driver 'postgres', got %s", config.Database.Driver)
	}

	if config.Auth.AccessTokenTTL != 15*time.Minute {
		t.Errorf("Expected default access token TTL 15m, got %v", config.Auth.AccessTokenTTL)
	}

	if config.Suggest.Model != "llama3" {
		t.Errorf("Expected default suggest model 'llama3', got %s", config.Suggest.Model)
	}

	if config.Suggest.Timeout != 30*time.Second {
		t.Errorf("Expected default suggest timeout 30s, got %v", config.Suggest.Timeout)
	}

	if !config.RateLimit.Enabled {
		t.Error("Expected rate limiting enabled by default")
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	clearEnvVars(allEnvVars)
	setEnvVars(map[string]string{
		"PORT":           "9090",
		"DB_DRIVER":      "sqlite",
		"GENAI_ENDPOINT": "https://genai.example.com/v1/generate",
		"GENAI_MODEL":    "text-large",
		"BCRYPT_COST":    "12",
	})
	defer clearEnvVars(allEnvVars)

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if config.Server.Port != "9090" {
		t.Errorf("Expected port '9090', got %s", config.Server.Port)
	}
	if config.Database.Driver != "sqlite" {
		t.Errorf("Expected driver 'sqlite', got %s", config.Database.Driver)
	}
	if config.Suggest.Endpoint != "https://genai.example.com/v1/generate" {
		t.Errorf("Unexpected suggest endpoint %s", config.Suggest.Endpoint)
	}
	if config.Suggest.Model != "text-large" {
		t.Errorf("Expected model 'text-large', got %s", config.Suggest.Model)
	}
	if config.Auth.BCryptCost != 12 {
		t.Errorf("Expected bcrypt cost 12, got %d", config.Auth.BCryptCost)
	}
}

func TestLoadConfig_UnsupportedDriver(t *testing.T) {
	clearEnvVars(allEnvVars)
	setEnvVars(map[string]string{"DB_DRIVER": "mongodb"})
	defer clearEnvVars(allEnvVars)

	if _, err := LoadConfig(); err == nil {
		t.Error("Expected error for unsupported driver")
	}
}

func TestLoadConfig_ProductionRequiresSecret(t *testing.T) {
	clearEnvVars(allEnvVars)
	setEnvVars(map[string]string{
		"ENVIRONMENT": "production",
		"DB_PASSWORD": "secret",
	})
	defer clearEnvVars(allEnvVars)

	if _, err := LoadConfig(); err == nil {
		t.Error("Expected error when JWT secret is unset in production")
	}
}

func TestLoadConfig_ProductionRequiresDBPassword(t *testing.T) {
	clearEnvVars(allEnvVars)
	setEnvVars(map[string]string{
		"ENVIRONMENT": "production",
		"JWT_SECRET":  "real-secret",
	})
	defer clearEnvVars(allEnvVars)

	if _, err := LoadConfig(); err == nil {
		t.Error("Expected error when DB password is unset in production")
	}
}

func TestGetDatabaseDSN(t *testing.T) {
	clearEnvVars(allEnvVars)

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	dsn := config.GetDatabaseDSN()
	expected := "host=localhost port=5432 user=postgres password= dbname=tasktrack sslmode=disable"
	if dsn != expected {
		t.Errorf("Expected DSN %q, got %q", expected, dsn)
	}
}

func TestGetRedisAddr(t *testing.T) {
	clearEnvVars(allEnvVars)

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if addr := config.GetRedisAddr(); addr != "localhost:6379" {
		t.Errorf("Expected redis addr 'localhost:6379', got %s", addr)
	}
}
