package application

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/dkrasnov/envguard/internal/api"
	"github.com/dkrasnov/envguard/internal/config"
	"github.com/dkrasnov/envguard/internal/resolver"
	"github.com/dkrasnov/envguard/internal/schema"
	"github.com/dkrasnov/envguard/internal/storage"
)

// App encapsulates the application dependencies and HTTP server.
type App struct {
	storage  storage.Storage
	resolver *resolver.Resolver
	handler  *api.Handler
	router   http.Handler
	logger   *zap.Logger
	server   *http.Server
}

// New initializes the application with all dependencies from the provided
// configuration. When a spec file is configured it seeds the stored spec;
// otherwise the service starts with an empty declaration list.
func New(cfg config.Config, logger *zap.Logger) (*App, error) {
	store := storage.NewMemoryStorage()
	if cfg.SpecFile != "" {
		spec, err := schema.LoadFile(cfg.SpecFile)
		if err != nil {
			return nil, fmt.Errorf("load spec file: %w", err)
		}
		if err := store.SetSpec(spec); err != nil {
			return nil, fmt.Errorf("apply initial spec: %w", err)
		}
		logger.Info("spec loaded", zap.String("path", cfg.SpecFile), zap.Int("entries", len(spec.Global)))
	}

	res := resolver.New()
	handler := api.NewHandler(res, store)
	router := api.NewRouter(handler, logger,
		api.WithLogging(cfg.EnableRequestLogging),
		api.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
	)

	server := NewServer(cfg, router)

	return &App{
		storage:  store,
		resolver: res,
		handler:  handler,
		router:   router,
		logger:   logger,
		server:   server,
	}, nil
}

// NewServer creates and configures an HTTP server from the provided configuration.
func NewServer(cfg config.Config, handler http.Handler) *http.Server {
	addr := cfg.Port
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

// Start starts the HTTP server in a goroutine and logs the listening address.
func (a *App) Start() error {
	go func() {
		a.logger.Info("server listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Fatal("server error", zap.Error(err))
		}
	}()
	return nil
}

// Server returns the HTTP server instance for shutdown handling.
func (a *App) Server() *http.Server {
	return a.server
}
