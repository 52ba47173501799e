package core

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// BlocksLimitMax is the maximum number of entries a collection may hold.
	BlocksLimitMax = 5
	// NoteCharacterLimit caps the length of Entry.Note.
	NoteCharacterLimit = 31
	// DefaultAmount is the amount every new entry starts with.
	DefaultAmount = "0.00"

	dateLayout = "2006-01-02"
)

const (
	FieldAmount      Field = "amount"
	FieldFromAccount Field = "fromAccount"
	FieldPayee       Field = "payee"
	FieldDate        Field = "date"
	FieldRepeat      Field = "repeat"
	FieldNote        Field = "note"
)

type (
	// Field names one of the six editable entry fields.
	Field string

	Date struct {
		time.Time
	}

	// Entry is one bill-payment draft.
	Entry struct {
		Amount      string
		FromAccount string
		Payee       string
		Date        Date // zero means unset
		Repeat      string
		Note        string
	}
)

var (
	ErrUnknownField     = errors.New("unknown field")
	ErrInvalidDate      = errors.New("invalid date")
	ErrNoteTooLong      = errors.New("note too long")
	ErrAppendNotAllowed = errors.New("cannot append another entry")
)

// Fields lists the editable fields in display order.
var Fields = []Field{FieldAmount, FieldFromAccount, FieldPayee, FieldDate, FieldRepeat, FieldNote}

// ParseField maps a field name onto a Field.
func ParseField(name string) (Field, error) {
	for _, f := range Fields {
		if string(f) == name {
			return f, nil
		}
	}
	return "", ErrUnknownField
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string. An empty string yields the unset date.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// IsEmpty returns true if the date is unset
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

// String formats the date as YYYY-MM-DD, or "" when unset.
func (d Date) String() string {
	if d.IsEmpty() {
		return ""
	}
	return d.Format(dateLayout)
}

// NewEntry returns an entry with every field at its default.
func NewEntry() Entry {
	return Entry{Amount: DefaultAmount}
}

// IsComplete reports whether every field is set. Amount only has to be
// non-empty; "abc" counts.
func (e Entry) IsComplete() bool {
	return len(e.Amount) > 0 &&
		!e.Date.IsEmpty() &&
		len(e.Note) > 0 &&
		len(e.Payee) > 0 &&
		len(e.FromAccount) > 0 &&
		len(e.Repeat) > 0
}

// DisplayAmount returns the amount as the presentation layer should show it.
func (e Entry) DisplayAmount() string {
	return SanitizeAmount(e.Amount)
}

// Get returns the textual value of a field.
func (e Entry) Get(f Field) string {
	switch f {
	case FieldAmount:
		return e.Amount
	case FieldFromAccount:
		return e.FromAccount
	case FieldPayee:
		return e.Payee
	case FieldDate:
		return e.Date.String()
	case FieldRepeat:
		return e.Repeat
	case FieldNote:
		return e.Note
	}
	return ""
}

// With returns a copy of e with field f replaced by value. Dates are parsed
// from YYYY-MM-DD; an empty value clears the date.
func (e Entry) With(f Field, value string) (Entry, error) {
	switch f {
	case FieldAmount:
		e.Amount = value
	case FieldFromAccount:
		e.FromAccount = value
	case FieldPayee:
		e.Payee = value
	case FieldDate:
		d, err := ParseDate(value)
		if err != nil {
			return e, err
		}
		e.Date = d
	case FieldRepeat:
		e.Repeat = value
	case FieldNote:
		if utf8.RuneCountInString(value) > NoteCharacterLimit {
			return e, ErrNoteTooLong
		}
		e.Note = value
	default:
		return e, ErrUnknownField
	}
	return e, nil
}

// WithDate returns a copy of e with the date replaced.
func (e Entry) WithDate(d Date) Entry {
	e.Date = d
	return e
}

// Equal compares two entries field by field.
func (e Entry) Equal(o Entry) bool {
	return e.Amount == o.Amount &&
		e.FromAccount == o.FromAccount &&
		e.Payee == o.Payee &&
		e.Date.Equal(o.Date.Time) &&
		e.Repeat == o.Repeat &&
		e.Note == o.Note
}
