package config

import (
	"testing"
	"time"

	"go-inventory-pos/pkg/database"
)

func TestLoadDefaultsToLocalSQLiteFile(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("DB_PATH", "")
	t.Setenv("PORT", "")

	cfg := Load()
	if cfg.Database.Driver != database.DriverSQLite {
		t.Fatalf("expected sqlite driver, got %q", cfg.Database.Driver)
	}
	if cfg.Database.Path != "inventory.db" {
		t.Fatalf("expected inventory.db, got %q", cfg.Database.Path)
	}
	if cfg.Address() != ":3000" {
		t.Fatalf("expected :3000, got %q", cfg.Address())
	}
}

func TestLoadIgnoresInvalidIntegers(t *testing.T) {
	t.Setenv("LOW_STOCK_THRESHOLD", "lots")
	t.Setenv("JWT_TTL_HOURS", "-3")
	t.Setenv("REPORT_CACHE_TTL_SECONDS", "5")

	cfg := Load()
	if cfg.LowStockThreshold != 10 {
		t.Fatalf("expected default threshold 10, got %d", cfg.LowStockThreshold)
	}
	if cfg.JWTTTL != 24*time.Hour {
		t.Fatalf("expected default ttl 24h, got %s", cfg.JWTTTL)
	}
	if cfg.ReportCacheTTL != 5*time.Second {
		t.Fatalf("expected 5s cache ttl, got %s", cfg.ReportCacheTTL)
	}
}

func TestLoadDoesNotInjectWeakSecrets(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("ADMIN_PASSWORD", "")

	cfg := Load()
	if cfg.JWTSecret != "" {
		t.Fatalf("expected empty JWT_SECRET when unset, got %q", cfg.JWTSecret)
	}
	if cfg.AdminPassword != "" {
		t.Fatalf("expected empty ADMIN_PASSWORD when unset, got %q", cfg.AdminPassword)
	}
}
