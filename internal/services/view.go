package services

import (
	"fmt"
	"unicode/utf8"

	"billpay/internal/core"
)

// EntryView is one entry as the presentation layer renders it.
type EntryView struct {
	Index         int    `json:"index"`
	Amount        string `json:"amount"`
	DisplayAmount string `json:"displayAmount"`
	FromAccount   string `json:"fromAccount"`
	Payee         string `json:"payee"`
	PayeeHint     string `json:"payeeHint,omitempty"`
	Date          string `json:"date"`
	Repeat        string `json:"repeat"`
	Note          string `json:"note"`
	NoteCounter   string `json:"noteCounter"`
	Removable     bool   `json:"removable"`
	Complete      bool   `json:"complete"`
}

// DraftView is a draft session as the presentation layer renders it.
type DraftView struct {
	ID        string      `json:"id"`
	Entries   []EntryView `json:"entries"`
	CanAppend bool        `json:"canAppend"`
	Limit     int         `json:"limit"`
}

// NewDraftView renders c. opts supplies payee hints and may be empty.
func NewDraftView(id string, c core.Collection, opts core.Options) DraftView {
	entries := c.Entries()
	view := DraftView{
		ID:        id,
		Entries:   make([]EntryView, len(entries)),
		CanAppend: c.CanAppend(),
		Limit:     core.BlocksLimitMax,
	}
	for i, e := range entries {
		view.Entries[i] = EntryView{
			Index:         i,
			Amount:        e.Amount,
			DisplayAmount: e.DisplayAmount(),
			FromAccount:   e.FromAccount,
			Payee:         e.Payee,
			PayeeHint:     opts.PayeeHint(e.Payee),
			Date:          e.Date.String(),
			Repeat:        e.Repeat,
			Note:          e.Note,
			NoteCounter:   NoteCounter(e.Note),
			Removable:     c.Removable(i),
			Complete:      e.IsComplete(),
		}
	}
	return view
}

// NoteCounter renders the "used/limit" counter shown under the note input.
func NoteCounter(note string) string {
	return fmt.Sprintf("%d/%d", utf8.RuneCountInString(note), core.NoteCharacterLimit)
}
