package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"billpay/internal/backend"
	"billpay/internal/cache"
	"billpay/internal/cli"
	"billpay/internal/config"
	apphttp "billpay/internal/http"
	applog "billpay/internal/log"
	"billpay/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentApp)
	cfg := cli.LoadAndValidateConfig(logger)

	ctx, cancel := cli.SignalContext(logger)
	defer cancel()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Server error", applog.FieldError, err.Error())
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}

func run(ctx context.Context, cfg *config.Config, logger *applog.Logger) error {
	bc, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}

	factory := backend.NewFactory(logger)
	opts, err := factory.CreateOptions(ctx, bc)
	if err != nil {
		return err
	}
	defer func() {
		if err := opts.Close(); err != nil {
			logger.Error("Failed to close option backend", applog.FieldError, err.Error())
		}
	}()

	// A nil *amqp.Client must not end up inside the interface.
	var publisher services.Publisher
	if client := factory.CreatePublisher(bc); client != nil {
		defer client.Close()
		publisher = client
	}

	drafts := services.NewDraftService(cfg.MaxDrafts, cfg.DraftTTL, publisher, logger)
	options := services.NewOptionsService(opts.Options, cfg.OptionsCacheTTL, logger)
	if _, err := options.List(ctx); err != nil {
		logger.Warn("Option catalog not available at startup", applog.FieldError, err.Error())
	}

	caches := cache.NewManager(logger)
	caches.Register("drafts", drafts.Sessions())
	caches.Register("options", options.Cache())
	caches.StartCleanup(time.Minute)
	defer caches.Stop()

	srv := apphttp.NewServer(cfg.Addr(), apphttp.Dependencies{
		Drafts:             drafts,
		Options:            options,
		Ready:              opts.Ping,
		Logger:             logger,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting billpay server",
			"addr", cfg.Addr(),
			applog.FieldBackend, cfg.OptionsBackend,
			"events_enabled", publisher != nil)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen on %s: %w", cfg.Addr(), err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		logger.Info("Shutting down server", applog.FieldOperation, applog.OpShutdown)
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
