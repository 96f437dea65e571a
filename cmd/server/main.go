package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/dkrasnov/envguard/internal/application"
	"github.com/dkrasnov/envguard/internal/config"
	"github.com/dkrasnov/envguard/internal/logging"
)

var signalNotify = signal.Notify

type cliFlags struct {
	configFile     *string
	port           *string
	specFile       *string
	logLevel       *string
	rateLimitRPS   *float64
	rateLimitBurst *int
}

func main() {
	kingpinApp := kingpin.New("envguard", "Environment configuration validator - resolves declared variable specs into typed, validated configuration")
	flags := cliFlags{
		configFile:     kingpinApp.Flag("config", "Path to YAML configuration file").String(),
		port:           kingpinApp.Flag("port", "HTTP port exposed by the service").String(),
		specFile:       kingpinApp.Flag("spec", "Path to the YAML variable declaration file served at startup").String(),
		logLevel:       kingpinApp.Flag("log-level", "Log level (debug, info, warn, error)").String(),
		rateLimitRPS:   kingpinApp.Flag("rate-limit-rps", "Requests per second allowed (set 0 to disable)").Default("-1").Float64(),
		rateLimitBurst: kingpinApp.Flag("rate-limit-burst", "Burst capacity for rate limiter (set 0 to disable)").Default("-1").Int(),
	}

	kingpin.MustParse(kingpinApp.Parse(os.Args[1:]))

	cfg, err := config.Load(buildOverrides(flags))
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	app, err := application.New(cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize application", zap.Error(err))
	}

	if err := app.Start(); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}

	shutdown(app.Server(), cfg.ShutdownGracePeriod, logger)
}

func buildOverrides(flags cliFlags) *config.CLIOverrides {
	overrides := &config.CLIOverrides{
		ConfigFile: *flags.configFile,
	}

	if *flags.port != "" {
		overrides.Port = flags.port
	}

	if *flags.specFile != "" {
		overrides.SpecFile = flags.specFile
	}

	if *flags.logLevel != "" {
		overrides.LogLevel = flags.logLevel
	}

	if *flags.rateLimitRPS >= 0 {
		overrides.RateLimitRPS = flags.rateLimitRPS
	}

	if *flags.rateLimitBurst >= 0 {
		overrides.RateLimitBurst = flags.rateLimitBurst
	}

	return overrides
}

func shutdown(server *http.Server, timeout time.Duration, logger *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signalNotify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
		if closeErr := server.Close(); closeErr != nil {
			logger.Error("forced close failed", zap.Error(closeErr))
		}
	}
}
