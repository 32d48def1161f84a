package postgres

import (
	"context"
	"testing"
	"time"
)

func TestNewPoolWithConfigInvalidURL(t *testing.T) {
	ctx := context.Background()

	if _, err := NewPoolWithConfig(ctx, PoolConfig{DatabaseURL: "not-a-url"}); err == nil {
		t.Fatalf("expected error when parsing invalid URL")
	}
}

func TestNewPoolWithConfigPingFailure(t *testing.T) {
	ctx := context.Background()
	cfg := PoolConfig{
		DatabaseURL:    "postgres://billcycle@127.0.0.1:1/billcycle",
		MaxConns:       1,
		MinConns:       0,
		ConnectTimeout: 500 * time.Millisecond,
	}

	if _, err := NewPoolWithConfig(ctx, cfg); err == nil {
		t.Fatalf("expected error when pool cannot connect")
	}
}

func TestRunMigrationsMissingSource(t *testing.T) {
	err := RunMigrations("postgres://billcycle@127.0.0.1:1/billcycle?sslmode=disable", t.TempDir()+"/missing")
	if err == nil {
		t.Fatalf("expected error for missing migrations directory")
	}
}

func TestSourceURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"internal/infrastructure/postgres/migrations", "file://internal/infrastructure/postgres/migrations"},
		{"/migrations", "file:///migrations"},
		{"file:///migrations", "file:///migrations"},
	}

	for _, tt := range tests {
		if got := sourceURL(tt.in); got != tt.want {
			t.Fatalf("sourceURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
