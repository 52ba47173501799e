package worker

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"billpay/internal/amqp"
	"billpay/internal/core"
	"billpay/internal/sheets/memory"
	"billpay/internal/storage"
)

func TestEventWorkerTracksOpenDrafts(t *testing.T) {
	w := NewEventWorker(nil)
	ctx := context.Background()

	events := []*amqp.DraftEvent{
		amqp.NewDraftEvent("a", amqp.EventCreated, -1, "", 1, false),
		amqp.NewDraftEvent("b", amqp.EventCreated, -1, "", 1, false),
		amqp.NewDraftEvent("a", amqp.EventUpdated, 0, "note", 1, false),
		amqp.NewDraftEvent("a", amqp.EventClosed, -1, "", 1, false),
	}
	for _, ev := range events {
		if err := w.HandleDraftEvent(ctx, ev); err != nil {
			t.Fatalf("handle: %v", err)
		}
	}

	s := w.Stats()
	if s.OpenDrafts != 1 {
		t.Fatalf("expected 1 open draft, got %d", s.OpenDrafts)
	}
	if s.Events[amqp.EventCreated] != 2 || s.Events[amqp.EventUpdated] != 1 || s.Events[amqp.EventClosed] != 1 {
		t.Fatalf("unexpected counts %+v", s.Events)
	}
}

type failingReader struct{}

func (failingReader) ListOptions(context.Context) (core.Options, error) {
	return core.Options{}, errors.New("quota exceeded")
}

func TestOptionsSync(t *testing.T) {
	ctx := context.Background()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "sync.db"))
	if err != nil {
		t.Fatalf("repo: %v", err)
	}
	defer repo.Close()

	source := memory.New(core.Options{
		Payees: []core.Option{{Kind: core.KindPayee, Value: "Toronto Gas", Label: "Toronto Gas", Hint: "Last payment was 9 days ago"}},
	})

	n, err := NewOptionsSync(source, repo, nil).SyncOnce(ctx)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 option written, got %d", n)
	}

	opts, err := repo.ListOptions(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if got := opts.PayeeHint("Toronto Gas"); got != "Last payment was 9 days ago" {
		t.Fatalf("synced payee missing, hint %q", got)
	}
	if len(opts.Payees) != 1 || len(opts.Accounts) != 0 || len(opts.Repeats) != 0 {
		t.Fatalf("seeded options not listed by the source should be pruned, got %+v", opts)
	}

	if _, err := NewOptionsSync(failingReader{}, repo, nil).SyncOnce(ctx); err == nil {
		t.Fatal("expected source error")
	}
	if _, err := NewOptionsSync(memory.New(core.Options{}), repo, nil).SyncOnce(ctx); err == nil {
		t.Fatal("expected error for empty source")
	}
	if opts, err := repo.ListOptions(ctx); err != nil || len(opts.Payees) != 1 {
		t.Fatalf("failed syncs must keep the catalog, got %+v (%v)", opts, err)
	}
}
