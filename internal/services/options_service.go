package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"billpay/internal/cache"
	"billpay/internal/core"
	applog "billpay/internal/log"
	ports "billpay/internal/sheets"
)

const optionsKey = "options"

// OptionsService serves the option catalog from a cache in front of the
// configured backend. Concurrent misses share one backend call.
type OptionsService struct {
	reader ports.OptionsReader
	cache  *cache.LRUCache[core.Options]
	group  singleflight.Group
	logger *applog.Logger
}

func NewOptionsService(reader ports.OptionsReader, ttl time.Duration, logger *applog.Logger) *OptionsService {
	if logger == nil {
		logger = applog.Default(applog.ComponentOptions)
	}
	return &OptionsService{
		reader: reader,
		cache:  cache.NewLRUCache[core.Options](1, ttl),
		logger: logger.WithComponent(applog.ComponentOptions),
	}
}

// Cache exposes the catalog cache for periodic expiry.
func (s *OptionsService) Cache() cache.Cleaner {
	return s.cache
}

// List returns the option catalog.
func (s *OptionsService) List(ctx context.Context) (core.Options, error) {
	if opts, ok := s.cache.Get(optionsKey); ok {
		return opts, nil
	}

	v, err, shared := s.group.Do(optionsKey, func() (interface{}, error) {
		start := time.Now()
		opts, err := s.reader.ListOptions(ctx)
		if err != nil {
			return core.Options{}, err
		}
		s.cache.Set(optionsKey, opts)
		s.logger.DebugContext(ctx, "Option catalog loaded",
			"accounts", len(opts.Accounts),
			"payees", len(opts.Payees),
			"repeats", len(opts.Repeats),
			"duration", time.Since(start))
		return opts, nil
	})
	if err != nil {
		return core.Options{}, fmt.Errorf("list options: %w", err)
	}
	if shared {
		s.logger.DebugContext(ctx, "Option catalog load shared")
	}
	return v.(core.Options), nil
}
