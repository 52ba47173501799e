package backend

import (
	"context"
	"fmt"

	"billpay/internal/amqp"
	applog "billpay/internal/log"
	gsheet "billpay/internal/sheets/google"
	"billpay/internal/sheets/memory"
	"billpay/internal/storage"
)

// Factory creates the option catalog backend and the event publisher.
type Factory struct {
	logger *applog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *applog.Logger) *Factory {
	if logger == nil {
		logger = applog.Default(applog.ComponentBackend)
	}
	return &Factory{logger: logger.WithComponent(applog.ComponentBackend)}
}

// CreateOptions builds the option catalog backend selected by config.
func (f *Factory) CreateOptions(ctx context.Context, config Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case SQLiteBackend:
		return f.createSQLite(config)
	case SheetsBackend:
		return f.createSheets(ctx, config)
	default:
		return f.createMemory(config), nil
	}
}

func (f *Factory) createSQLite(config Config) (*Result, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	f.logger.Info("Initialized SQLite option backend", "db_path", config.SQLiteDBPath)
	return &Result{Options: repo, Ping: repo.Ping, Cleanup: repo.Close}, nil
}

func (f *Factory) createSheets(ctx context.Context, config Config) (*Result, error) {
	client, err := gsheet.NewClient(ctx, config.Google)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
	}

	f.logger.Info("Initialized Google Sheets option backend", "spreadsheet_id", config.Google.SpreadsheetID)
	return &Result{Options: client}, nil
}

func (f *Factory) createMemory(config Config) *Result {
	dataDir := config.DataDirectory
	if dataDir == "" {
		dataDir = "data"
	}

	f.logger.Info("Initialized memory option backend", "data_directory", dataDir)
	return &Result{Options: memory.NewFromFiles(dataDir)}
}

// CreatePublisher connects the draft event publisher. It returns nil without
// error when AMQP is not configured, and nil with a logged warning when the
// broker is unreachable, so draft editing never depends on the broker.
func (f *Factory) CreatePublisher(config Config) *amqp.Client {
	if config.AMQPURL == "" {
		f.logger.Info("AMQP not configured, draft events disabled")
		return nil
	}

	client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
	if err != nil {
		f.logger.Warn("Failed to initialize AMQP client, continuing without draft events", applog.FieldError, err.Error())
		return nil
	}

	f.logger.Info("Initialized AMQP client", "exchange", config.AMQPExchange, "queue", config.AMQPQueue)
	return client
}
