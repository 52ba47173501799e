package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"billpay/internal/amqp"
	"billpay/internal/core"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []*amqp.DraftEvent
	err    error
}

func (p *recordingPublisher) PublishDraftEvent(_ context.Context, ev *amqp.DraftEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func (p *recordingPublisher) kinds() []amqp.EventKind {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]amqp.EventKind, len(p.events))
	for i, ev := range p.events {
		out[i] = ev.Kind
	}
	return out
}

func fillFirst(t *testing.T, svc *DraftService, id string, index int) {
	t.Helper()
	values := map[string]string{
		"amount":      "12.50",
		"fromAccount": "12000",
		"payee":       "London Hydro",
		"date":        "2023-10-12",
		"repeat":      "2",
		"note":        "rent",
	}
	for field, value := range values {
		if _, err := svc.UpdateField(context.Background(), id, index, field, value); err != nil {
			t.Fatalf("update %s: %v", field, err)
		}
	}
}

func TestDraftService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	svc := NewDraftService(10, time.Minute, pub, nil)

	id, c, err := svc.Create(ctx)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id == "" || c.Len() != 1 {
		t.Fatalf("expected id and one entry, got %q len=%d", id, c.Len())
	}

	if _, err := svc.Append(ctx, id); !errors.Is(err, core.ErrAppendNotAllowed) {
		t.Fatalf("expected ErrAppendNotAllowed, got %v", err)
	}

	fillFirst(t, svc, id, 0)
	c, err = svc.Append(ctx, id)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if c.Len() != 2 || !c.At(1).Equal(core.NewEntry()) {
		t.Fatalf("expected default second entry, got %+v", c.Entries())
	}

	c, err = svc.Remove(ctx, id, 1)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if c.Len() != 1 {
		t.Fatalf("expected 1 entry after remove, got %d", c.Len())
	}

	if err := svc.Close(ctx, id); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := svc.Get(ctx, id); !errors.Is(err, ErrDraftNotFound) {
		t.Fatalf("expected ErrDraftNotFound after close, got %v", err)
	}

	kinds := pub.kinds()
	if kinds[0] != amqp.EventCreated || kinds[len(kinds)-1] != amqp.EventClosed {
		t.Fatalf("unexpected event sequence %v", kinds)
	}
	updated := 0
	for _, k := range kinds {
		if k == amqp.EventUpdated {
			updated++
		}
	}
	// six updates, the rejected append publishes nothing
	if updated != 6 || len(kinds) != 10 {
		t.Fatalf("unexpected event sequence %v", kinds)
	}
}

func TestDraftService_Errors(t *testing.T) {
	ctx := context.Background()
	svc := NewDraftService(10, time.Minute, nil, nil)
	id, _, _ := svc.Create(ctx)

	tests := []struct {
		name string
		run  func() error
		want error
	}{
		{"unknown draft", func() error { _, err := svc.Get(ctx, "missing"); return err }, ErrDraftNotFound},
		{"unknown field", func() error { _, err := svc.UpdateField(ctx, id, 0, "colour", "red"); return err }, core.ErrUnknownField},
		{"bad date", func() error { _, err := svc.UpdateField(ctx, id, 0, "date", "12/10/2023"); return err }, core.ErrInvalidDate},
		{"long note", func() error {
			_, err := svc.UpdateField(ctx, id, 0, "note", "this note is definitely longer than allowed")
			return err
		}, core.ErrNoteTooLong},
		{"update out of range", func() error { _, err := svc.UpdateField(ctx, id, 3, "payee", "x"); return err }, ErrIndexOutOfRange},
		{"negative index", func() error { _, err := svc.Remove(ctx, id, -1); return err }, ErrIndexOutOfRange},
		{"remove first", func() error { _, err := svc.Remove(ctx, id, 0); return err }, ErrFirstEntryPinned},
		{"close unknown", func() error { return svc.Close(ctx, "missing") }, ErrDraftNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.run(); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}

	c, err := svc.Get(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !c.Equal(core.NewCollection()) {
		t.Fatalf("rejected changes must leave the draft untouched, got %+v", c.Entries())
	}
}

func TestDraftService_CapacityEvictionClosesOldest(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	svc := NewDraftService(1, time.Minute, pub, nil)

	first, _, _ := svc.Create(ctx)
	second, _, _ := svc.Create(ctx)

	if _, err := svc.Get(ctx, first); !errors.Is(err, ErrDraftNotFound) {
		t.Fatalf("expected oldest draft evicted, got %v", err)
	}
	if _, err := svc.Get(ctx, second); err != nil {
		t.Fatalf("newest draft should survive: %v", err)
	}
	if svc.Count() != 1 {
		t.Fatalf("expected 1 live draft, got %d", svc.Count())
	}

	var closed bool
	for _, ev := range pub.events {
		if ev.Kind == amqp.EventClosed && ev.DraftID == first {
			closed = true
		}
	}
	if !closed {
		t.Fatalf("expected closed event for evicted draft")
	}
}

func TestDraftService_PublishFailureIsNotSurfaced(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	svc := NewDraftService(10, time.Minute, pub, nil)

	id, _, err := svc.Create(context.Background())
	if err != nil {
		t.Fatalf("create must succeed when publishing fails: %v", err)
	}
	if _, err := svc.UpdateField(context.Background(), id, 0, "payee", "Miami Bobr"); err != nil {
		t.Fatalf("update must succeed when publishing fails: %v", err)
	}
}

func TestDraftService_ConcurrentUpdates(t *testing.T) {
	ctx := context.Background()
	svc := NewDraftService(10, time.Minute, nil, nil)
	id, _, _ := svc.Create(ctx)

	var wg sync.WaitGroup
	for _, f := range core.Fields {
		wg.Add(1)
		go func(f core.Field) {
			defer wg.Done()
			value := "x"
			if f == core.FieldDate {
				value = "2023-10-12"
			}
			if _, err := svc.UpdateField(ctx, id, 0, string(f), value); err != nil {
				t.Errorf("update %s: %v", f, err)
			}
		}(f)
	}
	wg.Wait()

	c, _ := svc.Get(ctx, id)
	if !c.At(0).IsComplete() {
		t.Fatalf("every concurrent update should be kept, got %+v", c.At(0))
	}
}
