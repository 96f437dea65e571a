package application

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/dkrasnov/envguard/internal/config"
)

func baseTestConfig(port string) config.Config {
	return config.Config{
		Port:              port,
		LogLevel:          "info",
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		RateLimitRPS:      25,
		RateLimitBurst:    50,
	}
}

func TestNewInitializesDependencies(t *testing.T) {
	cfg := baseTestConfig(":8085")
	logger := zaptest.NewLogger(t)

	app, err := New(cfg, logger)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	spec, err := app.storage.GetSpec()
	if err != nil {
		t.Fatalf("GetSpec returned error: %v", err)
	}
	if spec == nil || len(spec.Global) != 0 {
		t.Fatalf("expected empty initial spec, got %+v", spec)
	}
	if app.server == nil || app.router == nil || app.handler == nil || app.resolver == nil {
		t.Fatalf("expected server, router, handler, and resolver to be initialized")
	}
	if app.Server() != app.server {
		t.Fatalf("Server accessor did not return underlying instance")
	}
}

func TestNewSeedsSpecFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spec.yaml")
	doc := "global:\n  - name: PORT\n    type: int\n  - name: TOKEN\n    required: true\n"
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cfg := baseTestConfig(":8086")
	cfg.SpecFile = path

	app, err := New(cfg, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	spec, err := app.storage.GetSpec()
	if err != nil {
		t.Fatalf("GetSpec returned error: %v", err)
	}
	if len(spec.Global) != 2 || spec.Global[1].Name != "TOKEN" {
		t.Fatalf("expected seeded spec, got %+v", spec)
	}
}

func TestNewFailsOnBrokenSpecFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spec.yaml")
	if err := os.WriteFile(path, []byte("global: 5"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cfg := baseTestConfig(":8087")
	cfg.SpecFile = path

	if _, err := New(cfg, zaptest.NewLogger(t)); err == nil {
		t.Fatalf("expected error for broken spec file")
	}
}

func TestNewServerAppliesConfig(t *testing.T) {
	cfg := baseTestConfig("9090")
	handler := http.NewServeMux()

	server := NewServer(cfg, handler)
	if server.Addr != ":9090" {
		t.Fatalf("expected address :9090, got %s", server.Addr)
	}
	if server.Handler != handler {
		t.Fatalf("expected handler to be applied")
	}
	if server.ReadHeaderTimeout != cfg.ReadHeaderTimeout ||
		server.WriteTimeout != cfg.WriteTimeout ||
		server.IdleTimeout != cfg.IdleTimeout {
		t.Fatalf("server timeouts do not match configuration")
	}
}
