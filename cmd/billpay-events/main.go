package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"billpay/internal/amqp"
	"billpay/internal/cli"
	"billpay/internal/config"
	applog "billpay/internal/log"
	gsheet "billpay/internal/sheets/google"
	"billpay/internal/storage"
	"billpay/internal/worker"
)

const (
	summaryInterval     = time.Minute
	optionsSyncInterval = 24 * time.Hour
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentEvents)
	cfg := cli.LoadAndValidateConfig(logger)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the event consumer")
		os.Exit(1)
	}

	ctx, cancel := cli.SignalContext(logger)
	defer cancel()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Event consumer failed", applog.FieldError, err.Error())
		os.Exit(1)
	}
	logger.Info("Event consumer stopped")
}

func run(ctx context.Context, cfg *config.Config, logger *applog.Logger) error {
	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		return fmt.Errorf("connect AMQP: %w", err)
	}
	defer client.Close()

	events := worker.NewEventWorker(logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := client.ConsumeDraftEvents(gctx, events.HandleDraftEvent)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		return events.RunSummary(gctx, summaryInterval)
	})

	// Keep the local SQLite catalog in step with the spreadsheet when both
	// are configured.
	if cfg.GoogleSpreadsheetID != "" && cfg.OptionsBackend == "sqlite" {
		optionsSync, cleanup, err := newOptionsSync(gctx, cfg, logger)
		if err != nil {
			return err
		}
		defer cleanup()
		g.Go(func() error {
			return optionsSync.Run(gctx, optionsSyncInterval)
		})
	} else {
		logger.Info("Option catalog sync disabled")
	}

	logger.Info("Consuming draft events", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	return g.Wait()
}

func newOptionsSync(ctx context.Context, cfg *config.Config, logger *applog.Logger) (*worker.OptionsSync, func(), error) {
	source, err := gsheet.NewClient(ctx, gsheet.Config{
		SpreadsheetID:   cfg.GoogleSpreadsheetID,
		SheetName:       cfg.GoogleOptionsSheetName,
		CredentialsJSON: cfg.GoogleServiceAccountJSON,
		CredentialsFile: cfg.GoogleServiceAccountFile,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("init Google Sheets client: %w", err)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("init SQLite repository: %w", err)
	}
	cleanup := func() {
		if err := repo.Close(); err != nil {
			logger.Error("Failed to close SQLite repository", applog.FieldError, err.Error())
		}
	}
	return worker.NewOptionsSync(source, repo, logger), cleanup, nil
}
