// Command whispering-server exposes the transcription service over HTTP.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/kbukum/whispering/cleanup"
	"github.com/kbukum/whispering/config"
	"github.com/kbukum/whispering/logger"
	"github.com/kbukum/whispering/observability"
	"github.com/kbukum/whispering/resilience"
	"github.com/kbukum/whispering/server"
	"github.com/kbukum/whispering/server/endpoint"
	"github.com/kbukum/whispering/settings"
	"github.com/kbukum/whispering/transcriber"
	"github.com/kbukum/whispering/version"
)

const (
	serviceName     = "whispering-server"
	gracefulTimeout = 15 * time.Second
)

// AppConfig is the server's configuration document. The transcription
// section is read separately by settings.Load so it can be reloaded.
type AppConfig struct {
	config.ServiceConfig `mapstructure:",squash"`
	Server               server.Config        `yaml:"server" mapstructure:"server"`
	Observability        observability.Config `yaml:"observability" mapstructure:"observability"`
	// RetryAttempts retries retryable provider failures when above 1.
	RetryAttempts int `yaml:"retry_attempts" mapstructure:"retry_attempts"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "whispering-server:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configFile  = pflag.StringP("config", "c", "", "path to config.yml")
		envFile     = pflag.String("env-file", "", "path to a .env file")
		showVersion = pflag.BoolP("version", "v", false, "print the version and exit")
	)
	pflag.Parse()

	if *showVersion {
		fmt.Println(version.Get().String())
		return nil
	}

	loaderOpts := []config.LoaderOption{
		config.WithConfigFile(*configFile),
		config.WithEnvFile(*envFile),
		config.WithDefault("name", serviceName),
	}

	var cfg AppConfig
	if err := config.LoadConfig(serviceName, &cfg, loaderOpts...); err != nil {
		return err
	}
	cfg.ApplyDefaults()
	cfg.Server.ApplyDefaults()
	if cfg.Version == "" {
		cfg.Version = version.Get().Version
	}
	if err := cfg.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := cfg.Server.Validate(); err != nil {
		return err
	}

	logger.Init(cfg.Logging, cfg.Name)
	log := logger.GetGlobalLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg.Observability.ServiceName = cfg.Name
	cfg.Observability.ServiceVersion = cfg.Version
	cfg.Observability.Environment = cfg.Environment
	metrics, shutdownTelemetry, err := observability.Setup(ctx, cfg.Observability)
	if err != nil {
		return fmt.Errorf("observability: %w", err)
	}

	src, err := settings.Load(serviceName, loaderOpts...)
	if err != nil {
		return err
	}
	go reloadOnHangup(ctx, src, log)

	logger.Register("transcriber", log.WithComponent("transcriber"))
	logger.Register("cleanup", log.WithComponent("cleanup"))

	svcOpts := []transcriber.Option{transcriber.WithMetrics(metrics)}
	if cfg.RetryAttempts > 1 {
		retry := resilience.DefaultRetryConfig()
		retry.MaxAttempts = cfg.RetryAttempts
		svcOpts = append(svcOpts, transcriber.WithRetry(retry))
	}
	svc := transcriber.New(src, svcOpts...)

	srv := server.New(cfg.Server, log)
	endpoint.Register(srv.Engine(), endpoint.Routes{
		ServiceName: cfg.Name,
		Transcriber: svc,
		NewCleaner: func(apiKey string) (endpoint.Cleaner, error) {
			cc := src.Snapshot().Cleanup
			cc.APIKey = apiKey
			return cleanup.New(cc, cleanup.WithMetrics(metrics))
		},
		Health: func(ctx context.Context) []observability.Health {
			return []observability.Health{svc.Health(ctx)}
		},
	})

	if err := srv.Start(ctx); err != nil {
		return err
	}
	log.Info("whispering-server ready", logger.Fields(
		"version", cfg.Version,
		logger.FieldProvider, string(src.Snapshot().Provider),
	))

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), gracefulTimeout)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		log.WithError(err).Error("server stop failed")
	}
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		log.WithError(err).Warn("telemetry shutdown failed")
	}
	return nil
}

// reloadOnHangup re-reads the transcription settings on SIGHUP. A failed
// reload keeps the current settings.
func reloadOnHangup(ctx context.Context, src *settings.FileSource, log *logger.Logger) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			if err := src.Reload(); err != nil {
				log.WithError(err).Warn("settings reload failed")
				continue
			}
			log.Info("settings reloaded", logger.Fields(logger.FieldProvider, string(src.Snapshot().Provider)))
		}
	}
}
