package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"billpay/internal/core"
	ports "billpay/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Ensure interface conformance
var _ ports.OptionsReader = (*Client)(nil)

// Config selects the spreadsheet and credentials.
type Config struct {
	SpreadsheetID   string
	SheetName       string // defaults to "Options"
	CredentialsJSON string
	CredentialsFile string
}

// Client reads option sets from a sheet laid out as
// kind | value | label | hint, with a header row.
type Client struct {
	spreadsheetID string
	optionsSheet  string
	fetch         func(ctx context.Context, rng string) ([][]interface{}, error)
}

// NewClient creates a Sheets client using service account credentials.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	spreadsheetID := strings.TrimSpace(cfg.SpreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing spreadsheet ID")
	}
	sheet := strings.TrimSpace(cfg.SheetName)
	if sheet == "" {
		sheet = "Options"
	}

	svc, err := newSheetsService(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	c := &Client{spreadsheetID: spreadsheetID, optionsSheet: sheet}
	c.fetch = func(ctx context.Context, rng string) ([][]interface{}, error) {
		resp, err := svc.Spreadsheets.Values.Get(spreadsheetID, rng).Context(ctx).Do()
		if err != nil {
			return nil, err
		}
		return resp.Values, nil
	}
	return c, nil
}

// newSheetsService initializes a read-only Sheets Service from inline JSON
// or a credentials file.
func newSheetsService(ctx context.Context, cfg Config) (*gsheet.Service, error) {
	var credentialsJSON []byte
	switch {
	case strings.TrimSpace(cfg.CredentialsJSON) != "":
		slog.InfoContext(ctx, "Using inline JSON credentials")
		credentialsJSON = []byte(cfg.CredentialsJSON)
	case strings.TrimSpace(cfg.CredentialsFile) != "":
		slog.InfoContext(ctx, "Reading credentials from file", "path", cfg.CredentialsFile)
		b, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		credentialsJSON = b
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	slog.InfoContext(ctx, "Google Sheets service created successfully")
	return service, nil
}

// ListOptions implements sheets.OptionsReader.
func (c *Client) ListOptions(ctx context.Context) (core.Options, error) {
	if c.fetch == nil {
		return core.Options{}, errors.New("sheets service not initialized")
	}
	rng := fmt.Sprintf("%s!A2:D", c.optionsSheet)
	values, err := c.fetch(ctx, rng)
	if err != nil {
		return core.Options{}, fmt.Errorf("read %s: %w", rng, err)
	}
	opts, skipped := parseOptions(values)
	if skipped > 0 {
		slog.WarnContext(ctx, "Skipped malformed option rows", "sheet", c.optionsSheet, "rows", skipped)
	}
	return opts, nil
}
