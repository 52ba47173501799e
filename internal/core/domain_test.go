package core

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func completeEntry() Entry {
	return Entry{
		Amount:      "12.50",
		FromAccount: "12000",
		Payee:       "London Hydro",
		Date:        NewDate(2025, 10, 12),
		Repeat:      "2",
		Note:        "rent",
	}
}

func TestNewEntryDefaults(t *testing.T) {
	e := NewEntry()
	if e.Amount != "0.00" {
		t.Fatalf("expected default amount 0.00, got %q", e.Amount)
	}
	if e.FromAccount != "" || e.Payee != "" || e.Repeat != "" || e.Note != "" {
		t.Fatalf("expected empty text fields, got %+v", e)
	}
	if !e.Date.IsEmpty() {
		t.Fatalf("expected unset date")
	}
	if e.IsComplete() {
		t.Fatalf("default entry must not be complete")
	}
}

func TestEntryIsComplete(t *testing.T) {
	if !completeEntry().IsComplete() {
		t.Fatalf("expected complete entry")
	}
	cases := []struct {
		name  string
		clear func(e Entry) Entry
	}{
		{"amount", func(e Entry) Entry { e.Amount = ""; return e }},
		{"fromAccount", func(e Entry) Entry { e.FromAccount = ""; return e }},
		{"payee", func(e Entry) Entry { e.Payee = ""; return e }},
		{"date", func(e Entry) Entry { e.Date = Date{Time: time.Time{}}; return e }},
		{"repeat", func(e Entry) Entry { e.Repeat = ""; return e }},
		{"note", func(e Entry) Entry { e.Note = ""; return e }},
	}
	for _, tc := range cases {
		if tc.clear(completeEntry()).IsComplete() {
			t.Errorf("%s: expected incomplete entry", tc.name)
		}
	}
}

// Completeness only checks non-emptiness: an amount the sanitizer rejects
// still counts.
func TestEntryIsCompleteIgnoresAmountValidity(t *testing.T) {
	e := completeEntry()
	e.Amount = "abc"
	if !e.IsComplete() {
		t.Fatalf("non-numeric amount must still count as complete")
	}
	if e.DisplayAmount() != "" {
		t.Fatalf("expected display amount to be discarded, got %q", e.DisplayAmount())
	}
	if e.Amount != "abc" {
		t.Fatalf("stored amount must stay unsanitized, got %q", e.Amount)
	}
}

func TestEntryWith(t *testing.T) {
	base := completeEntry()

	got, err := base.With(FieldDate, "2026-01-31")
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if got.Date.String() != "2026-01-31" {
		t.Fatalf("unexpected date %q", got.Date.String())
	}

	got, err = base.With(FieldDate, "")
	if err != nil || !got.Date.IsEmpty() {
		t.Fatalf("empty value must clear the date, got %v / %v", got.Date, err)
	}

	if _, err := base.With(FieldDate, "31/01/2026"); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}

	if _, err := base.With(FieldNote, strings.Repeat("x", NoteCharacterLimit+1)); !errors.Is(err, ErrNoteTooLong) {
		t.Fatalf("expected ErrNoteTooLong, got %v", err)
	}
	got, err = base.With(FieldNote, strings.Repeat("é", NoteCharacterLimit))
	if err != nil {
		t.Fatalf("31 characters must be accepted, got %v", err)
	}
	if got.Get(FieldNote) != strings.Repeat("é", NoteCharacterLimit) {
		t.Fatalf("note not stored")
	}

	if _, err := base.With(Field("colour"), "red"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}

	got, _ = base.With(FieldAmount, "12.5.6")
	if got.Amount != "12.5.6" {
		t.Fatalf("amount must be stored as given, got %q", got.Amount)
	}
}

func TestParseField(t *testing.T) {
	for _, f := range Fields {
		got, err := ParseField(string(f))
		if err != nil || got != f {
			t.Fatalf("%s: got %q, %v", f, got, err)
		}
	}
	if _, err := ParseField("Amount"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("field names are case sensitive, got %v", err)
	}
}
