package core

import "fmt"

// Collection is an ordered, immutable list of entries. Position is the only
// identity an entry has. Every mutating method returns a new Collection and
// leaves the receiver untouched.
type Collection struct {
	entries []Entry
}

// NewCollection returns a collection holding a single default entry.
func NewCollection() Collection {
	return Collection{entries: []Entry{NewEntry()}}
}

// CollectionOf builds a collection from existing entries. It panics if more
// than BlocksLimitMax entries are given.
func CollectionOf(entries ...Entry) Collection {
	if len(entries) > BlocksLimitMax {
		panic(fmt.Sprintf("core: collection of %d entries exceeds limit %d", len(entries), BlocksLimitMax))
	}
	return Collection{entries: append([]Entry(nil), entries...)}
}

// Len returns the number of entries.
func (c Collection) Len() int {
	return len(c.entries)
}

// Entries returns a copy of the entries in order.
func (c Collection) Entries() []Entry {
	return append([]Entry(nil), c.entries...)
}

// At returns the entry at index.
func (c Collection) At(index int) Entry {
	c.mustIndex(index)
	return c.entries[index]
}

// CanAppend reports whether another entry may be added: all entries are
// complete and the limit has not been reached.
func (c Collection) CanAppend() bool {
	if len(c.entries) >= BlocksLimitMax {
		return false
	}
	for _, e := range c.entries {
		if !e.IsComplete() {
			return false
		}
	}
	return true
}

// Append adds a default entry at the end. When CanAppend is false the
// receiver is returned as is, with ErrAppendNotAllowed.
func (c Collection) Append() (Collection, error) {
	if !c.CanAppend() {
		return c, ErrAppendNotAllowed
	}
	next := make([]Entry, len(c.entries), len(c.entries)+1)
	copy(next, c.entries)
	return Collection{entries: append(next, NewEntry())}, nil
}

// UpdateField replaces one field of the entry at index. It panics when index
// is out of range. Rejected values (bad date, long note) leave the
// collection unchanged and return the error.
func (c Collection) UpdateField(index int, f Field, value string) (Collection, error) {
	c.mustIndex(index)
	updated, err := c.entries[index].With(f, value)
	if err != nil {
		return c, fmt.Errorf("update %s at %d: %w", f, index, err)
	}
	return c.replace(index, updated), nil
}

// UpdateDate sets the date of the entry at index. It panics when index is
// out of range.
func (c Collection) UpdateDate(index int, d Date) Collection {
	c.mustIndex(index)
	return c.replace(index, c.entries[index].WithDate(d))
}

// Remove deletes the entry at index; later entries shift down by one. It
// panics when index is out of range.
func (c Collection) Remove(index int) Collection {
	c.mustIndex(index)
	next := make([]Entry, 0, len(c.entries)-1)
	next = append(next, c.entries[:index]...)
	next = append(next, c.entries[index+1:]...)
	return Collection{entries: next}
}

// Removable reports whether the presentation layer should offer removal of
// the entry at index. The first entry is permanent.
func (c Collection) Removable(index int) bool {
	return index > 0 && index < len(c.entries)
}

// Equal reports whether both collections hold the same entries in order.
func (c Collection) Equal(other Collection) bool {
	if len(c.entries) != len(other.entries) {
		return false
	}
	for i := range c.entries {
		if !c.entries[i].Equal(other.entries[i]) {
			return false
		}
	}
	return true
}

func (c Collection) replace(index int, e Entry) Collection {
	next := make([]Entry, len(c.entries))
	copy(next, c.entries)
	next[index] = e
	return Collection{entries: next}
}

func (c Collection) mustIndex(index int) {
	if index < 0 || index >= len(c.entries) {
		panic(fmt.Sprintf("core: entry index %d out of range [0,%d)", index, len(c.entries)))
	}
}
