package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Success(t *testing.T) {
	setMinimalEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.App.Env != "prod" {
		t.Fatalf("expected App.Env to be prod, got %q", cfg.App.Env)
	}

	if cfg.Catalog.BaseURL != "https://api.example.test/square-eyes" {
		t.Fatalf("unexpected catalog base URL: %q", cfg.Catalog.BaseURL)
	}

	if got := cfg.Catalog.RequestTimeout; got != 10*time.Second {
		t.Fatalf("expected default request timeout 10s, got %v", got)
	}

	if cfg.Storage.UseRedis() {
		t.Fatalf("expected sqlite storage backend by default, got %q", cfg.Storage.Backend)
	}

	if cfg.DB.DSN != DefaultSQLitePath {
		t.Fatalf("expected default sqlite DSN %q, got %q", DefaultSQLitePath, cfg.DB.DSN)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	setMinimalEnv(t)
	if err := os.Unsetenv(EnvCatalogBaseURL); err != nil {
		t.Fatalf("failed to unset %s: %v", EnvCatalogBaseURL, err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("expected missing required env to return an error")
	}
}

func TestLoad_RedisBackendRequiresAddress(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvStorageBackend, "redis")

	if _, err := Load(); err == nil {
		t.Fatal("expected redis backend without URL/address to fail")
	}

	t.Setenv(EnvRedisURL, "redis://localhost:6379/0")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if !cfg.Storage.UseRedis() {
		t.Fatalf("expected redis backend, got %q", cfg.Storage.Backend)
	}
}

func TestLoad_UnknownBackendRejected(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvStorageBackend, "memcached")

	if _, err := Load(); err == nil {
		t.Fatal("expected unknown storage backend to fail")
	}
}

func TestLoad_PostgresDriverNeedsDSNOrParts(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvDBDriver, "postgres")

	if _, err := Load(); err == nil {
		t.Fatal("expected postgres driver without DSN or host/user/name to fail")
	}

	t.Setenv(EnvDBHost, "localhost")
	t.Setenv(EnvDBUser, "squareeyes")
	t.Setenv(EnvDBName, "squareeyes")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	want := "postgres://squareeyes@localhost:5432/squareeyes?sslmode=disable"
	if cfg.DB.DSN != want {
		t.Fatalf("expected DSN %q, got %q", want, cfg.DB.DSN)
	}
}

func setMinimalEnv(t *testing.T) {
	t.Helper()

	t.Setenv(EnvAppEnv, "prod")
	t.Setenv(EnvCatalogBaseURL, "https://api.example.test/square-eyes")
}

func TestAppConfigEnvHelpers(t *testing.T) {
	devConfig := AppConfig{Env: "DEV"}
	if !devConfig.IsDev() {
		t.Fatalf("expected IsDev true for %q", devConfig.Env)
	}
	if devConfig.IsProd() {
		t.Fatalf("expected IsProd false for %q", devConfig.Env)
	}

	prodConfig := AppConfig{Env: "prod"}
	if !prodConfig.IsProd() {
		t.Fatalf("expected IsProd true for %q", prodConfig.Env)
	}
	if prodConfig.IsDev() {
		t.Fatalf("expected IsDev false for %q", prodConfig.Env)
	}
}
