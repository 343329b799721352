package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/squareeyes/backend/pkg/config"
)

func TestNewRequiresDSN(t *testing.T) {
	if _, err := New(context.Background(), config.DBConfig{Driver: "sqlite"}, nil); err == nil {
		t.Fatal("expected error for empty DSN")
	}
}

func TestNewSQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	cfg := config.DBConfig{
		Driver:       "sqlite",
		DSN:          filepath.Join(t.TempDir(), "test.db"),
		MaxOpenConns: 1,
	}

	client, err := New(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer client.Close()

	if err := client.Ping(ctx); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}
	if client.DB() == nil {
		t.Fatal("expected non-nil gorm connection")
	}
}
