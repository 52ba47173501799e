package services

import (
	"testing"

	"billpay/internal/core"
)

func TestNewDraftView(t *testing.T) {
	first := core.NewEntry()
	first, _ = first.With(core.FieldAmount, "12a")
	first, _ = first.With(core.FieldPayee, "London Hydro")
	first, _ = first.With(core.FieldNote, "héllo")
	second := core.NewEntry()

	view := NewDraftView("d1", core.CollectionOf(first, second), core.DefaultOptions())

	if view.ID != "d1" || view.Limit != core.BlocksLimitMax || view.CanAppend {
		t.Fatalf("unexpected header %+v", view)
	}
	if len(view.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(view.Entries))
	}

	e := view.Entries[0]
	if e.Amount != "12a" || e.DisplayAmount != "" {
		t.Errorf("amount %q display %q", e.Amount, e.DisplayAmount)
	}
	if e.PayeeHint != "Last payment was 2 days ago" {
		t.Errorf("payee hint %q", e.PayeeHint)
	}
	if e.NoteCounter != "5/31" {
		t.Errorf("note counter %q", e.NoteCounter)
	}
	if e.Removable || !view.Entries[1].Removable {
		t.Errorf("only entries after the first are removable")
	}
	if view.Entries[1].DisplayAmount != "0.00" || view.Entries[1].Date != "" {
		t.Errorf("unexpected default entry %+v", view.Entries[1])
	}
}

func TestNoteCounter(t *testing.T) {
	tests := map[string]string{
		"":     "0/31",
		"rent": "4/31",
		"€€€":  "3/31",
	}
	for note, want := range tests {
		if got := NoteCounter(note); got != want {
			t.Errorf("NoteCounter(%q) = %q, want %q", note, got, want)
		}
	}
}
