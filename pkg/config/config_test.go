package config

import (
	"strings"
	"testing"
)

func TestEnsureDSNPassThrough(t *testing.T) {
	cfg := DBConfig{DSN: "postgres://app:secret@db:5432/franchise?sslmode=disable"}
	if err := cfg.ensureDSN(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DSN != "postgres://app:secret@db:5432/franchise?sslmode=disable" {
		t.Fatalf("dsn should be untouched, got %q", cfg.DSN)
	}
}

func TestEnsureDSNFromParts(t *testing.T) {
	cfg := DBConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "app",
		Password: "secret",
		Name:     "franchise",
		SSLMode:  "disable",
	}
	if err := cfg.ensureDSN(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, fragment := range []string{"postgres://", "app:secret@", "localhost:5432", "/franchise", "sslmode=disable"} {
		if !strings.Contains(cfg.DSN, fragment) {
			t.Fatalf("dsn %q missing %q", cfg.DSN, fragment)
		}
	}
}

func TestEnsureDSNReportsMissingParts(t *testing.T) {
	cfg := DBConfig{Host: "localhost"}
	err := cfg.ensureDSN()
	if err == nil {
		t.Fatal("expected error for incomplete config")
	}
	if !strings.Contains(err.Error(), "FRANCHISE_DB_USER") {
		t.Fatalf("error should name missing vars, got %v", err)
	}
}

func TestAppEnvHelpers(t *testing.T) {
	app := AppConfig{Env: "DEV"}
	if !app.IsDev() || app.IsProd() {
		t.Fatalf("expected dev env, got %+v", app)
	}
	app.Env = "prod"
	if !app.IsProd() || app.IsDev() {
		t.Fatalf("expected prod env, got %+v", app)
	}
}
