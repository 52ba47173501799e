package worker

import (
	"context"
	"fmt"
	"time"

	"billpay/internal/core"
	applog "billpay/internal/log"
	"billpay/internal/sheets"
)

// OptionsWriter is the local catalog store kept in line with the source.
type OptionsWriter interface {
	sheets.OptionsReader
	UpsertOption(ctx context.Context, o core.Option) error
	DeleteOption(ctx context.Context, kind core.OptionKind, value string) (bool, error)
}

// OptionsSync copies the option catalog from a source (usually the
// spreadsheet) into a local store.
type OptionsSync struct {
	source sheets.OptionsReader
	target OptionsWriter
	logger *applog.Logger
}

func NewOptionsSync(source sheets.OptionsReader, target OptionsWriter, logger *applog.Logger) *OptionsSync {
	if logger == nil {
		logger = applog.Default(applog.ComponentSheets)
	}
	return &OptionsSync{source: source, target: target, logger: logger.WithComponent(applog.ComponentSheets)}
}

// SyncOnce upserts every source option, deletes local options the source no
// longer lists and returns how many were written. An empty source is an
// error and deletes nothing.
func (s *OptionsSync) SyncOnce(ctx context.Context) (int, error) {
	opts, err := s.source.ListOptions(ctx)
	if err != nil {
		return 0, fmt.Errorf("read source options: %w", err)
	}
	if opts.IsEmpty() {
		return 0, fmt.Errorf("source returned no options")
	}

	type optionKey struct {
		kind  core.OptionKind
		value string
	}
	listed := make(map[optionKey]bool)
	written := 0
	for _, o := range opts.All() {
		if err := s.target.UpsertOption(ctx, o); err != nil {
			return written, fmt.Errorf("upsert %s %q: %w", o.Kind, o.Value, err)
		}
		listed[optionKey{o.Kind, o.Value}] = true
		written++
	}

	local, err := s.target.ListOptions(ctx)
	if err != nil {
		return written, fmt.Errorf("read local options: %w", err)
	}
	pruned := 0
	for _, o := range local.All() {
		if listed[optionKey{o.Kind, o.Value}] {
			continue
		}
		ok, err := s.target.DeleteOption(ctx, o.Kind, o.Value)
		if err != nil {
			return written, fmt.Errorf("delete %s %q: %w", o.Kind, o.Value, err)
		}
		if ok {
			pruned++
		}
	}

	s.logger.InfoContext(ctx, "Option catalog synced", "options", written, "pruned", pruned)
	return written, nil
}

// Run syncs immediately and then every interval until ctx is done. Failed
// passes are logged and retried on the next tick.
func (s *OptionsSync) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if _, err := s.SyncOnce(ctx); err != nil && ctx.Err() == nil {
			applog.LogError(ctx, "Option catalog sync failed", err, applog.ComponentSheets, applog.OpList, nil)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
