package database

import (
	"testing"

	"tasktrack/backend/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Database: config.DatabaseConfig{
			Driver:       "sqlite",
			Name:         ":memory:",
			MaxOpenConns: 1,
			MaxIdleConns: 1,
		},
	}
}

func TestOpen_SQLiteMigrates(t *testing.T) {
	db, err := Open(testConfig())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	for _, table := range []string{"users", "tokens", "tasks"} {
		if !db.Migrator().HasTable(table) {
			t.Errorf("Expected table %q after migration", table)
		}
	}
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	cfg := testConfig()
	cfg.Database.Driver = "oracle"

	if _, err := Open(cfg); err == nil {
		t.Error("Expected error for unsupported driver")
	}
}
