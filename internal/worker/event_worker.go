package worker

import (
	"context"
	"sync"
	"time"

	"billpay/internal/amqp"
	applog "billpay/internal/log"
)

// Stats summarises the draft events seen by an EventWorker.
type Stats struct {
	Events     map[amqp.EventKind]int64
	OpenDrafts int
}

// EventWorker logs draft events and tracks which drafts are still open.
type EventWorker struct {
	logger *applog.Logger

	mu     sync.Mutex
	counts map[amqp.EventKind]int64
	open   map[string]int // draft id -> entries
}

func NewEventWorker(logger *applog.Logger) *EventWorker {
	if logger == nil {
		logger = applog.Default(applog.ComponentEvents)
	}
	return &EventWorker{
		logger: logger.WithComponent(applog.ComponentEvents),
		counts: make(map[amqp.EventKind]int64),
		open:   make(map[string]int),
	}
}

// HandleDraftEvent records one event. It never fails: events are
// informational and requeueing them would only repeat the log line.
func (w *EventWorker) HandleDraftEvent(ctx context.Context, ev *amqp.DraftEvent) error {
	w.mu.Lock()
	w.counts[ev.Kind]++
	if ev.Kind == amqp.EventClosed {
		delete(w.open, ev.DraftID)
	} else {
		w.open[ev.DraftID] = ev.Entries
	}
	w.mu.Unlock()

	fields := applog.NewFields().
		WithOperation(applog.OpConsume).
		WithDraft(ev.DraftID, ev.Entries, ev.CanAppend)
	if ev.Index >= 0 {
		fields.WithEntry(ev.Index, ev.Field)
	}
	fields["kind"] = string(ev.Kind)
	fields["lag"] = time.Since(ev.Timestamp).String()

	w.logger.InfoContext(ctx, "Draft event", fields.ToSlice()...)
	return nil
}

// Stats returns a snapshot of the counters.
func (w *EventWorker) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	events := make(map[amqp.EventKind]int64, len(w.counts))
	for k, v := range w.counts {
		events[k] = v
	}
	return Stats{Events: events, OpenDrafts: len(w.open)}
}

// LogSummary logs the counters.
func (w *EventWorker) LogSummary(ctx context.Context) {
	s := w.Stats()
	w.logger.InfoContext(ctx, "Draft event summary",
		"open_drafts", s.OpenDrafts,
		"created", s.Events[amqp.EventCreated],
		"appended", s.Events[amqp.EventAppended],
		"updated", s.Events[amqp.EventUpdated],
		"removed", s.Events[amqp.EventRemoved],
		"closed", s.Events[amqp.EventClosed])
}

// RunSummary logs the counters every interval until ctx is done.
func (w *EventWorker) RunSummary(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.LogSummary(context.Background())
			return nil
		case <-ticker.C:
			w.LogSummary(ctx)
		}
	}
}
