package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"billpay/internal/amqp"
	"billpay/internal/cache"
	"billpay/internal/core"
	applog "billpay/internal/log"
)

var (
	ErrDraftNotFound    = errors.New("draft not found")
	ErrIndexOutOfRange  = errors.New("entry index out of range")
	ErrFirstEntryPinned = errors.New("first entry cannot be removed")
)

// Publisher receives an event after every successful draft change.
type Publisher interface {
	PublishDraftEvent(ctx context.Context, event *amqp.DraftEvent) error
}

// draft is one session. The collection value is swapped whole under mu.
type draft struct {
	mu      sync.Mutex
	id      string
	entries core.Collection
	closed  bool
}

// DraftService owns the draft sessions. Sessions live in an LRU cache with a
// sliding TTL and end when evicted or closed.
type DraftService struct {
	drafts    *cache.LRUCache[*draft]
	publisher Publisher
	logger    *applog.Logger
	newID     func() string
}

// NewDraftService creates a service holding at most maxDrafts sessions, each
// expiring after ttl without use. publisher may be nil.
func NewDraftService(maxDrafts int, ttl time.Duration, publisher Publisher, logger *applog.Logger) *DraftService {
	if logger == nil {
		logger = applog.Default(applog.ComponentDraft)
	}
	s := &DraftService{
		publisher: publisher,
		logger:    logger.WithComponent(applog.ComponentDraft),
		newID:     uuid.NewString,
	}
	s.drafts = cache.NewLRUCache[*draft](maxDrafts, ttl).OnEvict(s.onEvict)
	return s
}

// Sessions exposes the session cache for periodic expiry.
func (s *DraftService) Sessions() cache.Cleaner {
	return s.drafts
}

// Count returns the number of live sessions.
func (s *DraftService) Count() int {
	return s.drafts.Size()
}

// Create starts a session holding one default entry.
func (s *DraftService) Create(ctx context.Context) (string, core.Collection, error) {
	d := &draft{id: s.newID(), entries: core.NewCollection()}
	s.drafts.Set(d.id, d)

	s.logger.InfoContext(ctx, "Draft created",
		applog.NewFields().WithOperation(applog.OpCreate).WithDraft(d.id, d.entries.Len(), d.entries.CanAppend()).ToSlice()...)
	s.publish(ctx, d.id, amqp.EventCreated, -1, "", d.entries)
	return d.id, d.entries, nil
}

// Get returns the current collection of a session.
func (s *DraftService) Get(_ context.Context, id string) (core.Collection, error) {
	d, err := s.lookup(id)
	if err != nil {
		return core.Collection{}, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return core.Collection{}, ErrDraftNotFound
	}
	return d.entries, nil
}

// Append adds a default entry. It returns core.ErrAppendNotAllowed while any
// entry is incomplete or the collection is full.
func (s *DraftService) Append(ctx context.Context, id string) (core.Collection, error) {
	return s.mutate(ctx, id, applog.OpAppend, func(c core.Collection) (core.Collection, int, string, error) {
		next, err := c.Append()
		return next, next.Len() - 1, "", err
	})
}

// UpdateField sets one field of the entry at index.
func (s *DraftService) UpdateField(ctx context.Context, id string, index int, field, value string) (core.Collection, error) {
	f, err := core.ParseField(field)
	if err != nil {
		return core.Collection{}, fmt.Errorf("update %q: %w", field, err)
	}
	return s.mutate(ctx, id, applog.OpUpdate, func(c core.Collection) (core.Collection, int, string, error) {
		if index < 0 || index >= c.Len() {
			return c, index, string(f), ErrIndexOutOfRange
		}
		next, err := c.UpdateField(index, f, value)
		return next, index, string(f), err
	})
}

// Remove deletes the entry at index. The first entry is pinned.
func (s *DraftService) Remove(ctx context.Context, id string, index int) (core.Collection, error) {
	return s.mutate(ctx, id, applog.OpRemove, func(c core.Collection) (core.Collection, int, string, error) {
		if index < 0 || index >= c.Len() {
			return c, index, "", ErrIndexOutOfRange
		}
		if !c.Removable(index) {
			return c, index, "", ErrFirstEntryPinned
		}
		return c.Remove(index), index, "", nil
	})
}

// Close ends a session.
func (s *DraftService) Close(_ context.Context, id string) error {
	if !s.drafts.Delete(id) {
		return ErrDraftNotFound
	}
	return nil
}

func (s *DraftService) lookup(id string) (*draft, error) {
	d, ok := s.drafts.Get(id)
	if !ok {
		return nil, ErrDraftNotFound
	}
	return d, nil
}

func (s *DraftService) mutate(ctx context.Context, id, op string, fn func(core.Collection) (core.Collection, int, string, error)) (core.Collection, error) {
	d, err := s.lookup(id)
	if err != nil {
		return core.Collection{}, err
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return core.Collection{}, ErrDraftNotFound
	}
	next, index, field, err := fn(d.entries)
	if err != nil {
		current := d.entries
		d.mu.Unlock()
		s.logger.DebugContext(ctx, "Draft change rejected",
			applog.NewFields().WithOperation(op).WithDraft(id, current.Len(), current.CanAppend()).
				WithEntry(index, field).WithError(err).ToSlice()...)
		return current, err
	}
	d.entries = next
	d.mu.Unlock()

	s.logger.DebugContext(ctx, "Draft changed",
		applog.NewFields().WithOperation(op).WithDraft(id, next.Len(), next.CanAppend()).WithEntry(index, field).ToSlice()...)
	s.publish(ctx, id, eventKind(op), index, field, next)
	return next, nil
}

func (s *DraftService) onEvict(id string, d *draft, reason cache.EvictReason) {
	d.mu.Lock()
	d.closed = true
	entries := d.entries
	d.mu.Unlock()

	fields := applog.NewFields().WithOperation(applog.OpClose).WithDraft(id, entries.Len(), entries.CanAppend())
	fields["reason"] = reason.String()
	s.logger.Info("Draft closed", fields.ToSlice()...)
	s.publish(context.Background(), id, amqp.EventClosed, -1, "", entries)
}

func (s *DraftService) publish(ctx context.Context, id string, kind amqp.EventKind, index int, field string, c core.Collection) {
	if s.publisher == nil {
		return
	}
	event := amqp.NewDraftEvent(id, kind, index, field, c.Len(), c.CanAppend())
	if err := s.publisher.PublishDraftEvent(ctx, event); err != nil {
		applog.LogError(ctx, "Failed to publish draft event", err, applog.ComponentAMQP, applog.OpPublish,
			applog.NewFields().WithDraft(id, c.Len(), c.CanAppend()))
	}
}

func eventKind(op string) amqp.EventKind {
	switch op {
	case applog.OpAppend:
		return amqp.EventAppended
	case applog.OpUpdate:
		return amqp.EventUpdated
	case applog.OpRemove:
		return amqp.EventRemoved
	}
	return amqp.EventKind(op)
}
