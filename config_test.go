package main

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"ADDR", "JWT_SECRET", "ACCESS_TOKEN_TTL", "REFRESH_TOKEN_TTL", "TOKEN_SWEEP_INTERVAL", "DB_AUTO_MIGRATE"} {
		t.Setenv(key, "")
	}
	c := loadConfig()
	if c.Addr != ":8081" {
		t.Fatalf("Addr = %q", c.Addr)
	}
	if c.AccessTokenTTL != 15*time.Minute || c.RefreshTokenTTL != 7*24*time.Hour {
		t.Fatalf("TTLs = %v / %v", c.AccessTokenTTL, c.RefreshTokenTTL)
	}
	if c.SweepInterval != 6*time.Hour {
		t.Fatalf("SweepInterval = %v", c.SweepInterval)
	}
	if !c.AutoMigrate {
		t.Fatal("AutoMigrate default should be true")
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_TTL", "30m")
	t.Setenv("TOKEN_SWEEP_INTERVAL", "1h")
	t.Setenv("DB_AUTO_MIGRATE", "false")
	c := loadConfig()
	if c.AccessTokenTTL != 30*time.Minute {
		t.Fatalf("AccessTokenTTL = %v", c.AccessTokenTTL)
	}
	if c.SweepInterval != time.Hour {
		t.Fatalf("SweepInterval = %v", c.SweepInterval)
	}
	if c.AutoMigrate {
		t.Fatal("AutoMigrate should be false")
	}
	// malformed durations fall back to the default
	t.Setenv("ACCESS_TOKEN_TTL", "soon")
	if c := loadConfig(); c.AccessTokenTTL != 15*time.Minute {
		t.Fatalf("fallback AccessTokenTTL = %v", c.AccessTokenTTL)
	}
}
