package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Entry is a snapshot of the values accepted by one submission.
type Entry struct {
	ID          string            `json:"id"`
	FormType    string            `json:"formType"`
	Values      map[string]string `json:"values"`
	SubmittedAt time.Time         `json:"submittedAt"`
}

// Clone returns a deep copy of the entry.
func (e Entry) Clone() Entry {
	out := e
	out.Values = CloneValues(e.Values)
	return out
}

// CloneValues copies a value map; nil and empty maps both yield an empty map.
func CloneValues(src map[string]string) map[string]string {
	out := make(map[string]string, len(src))
	for key, value := range src {
		out[key] = value
	}
	return out
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithIDGenerator overrides the function used to assign entry IDs.
func WithIDGenerator(fn func() string) Option {
	return func(l *Ledger) {
		if fn != nil {
			l.newID = fn
		}
	}
}

// Ledger is an ordered, position-addressed list of entries. It is not safe for
// concurrent use; callers serialise access.
type Ledger struct {
	entries []Entry
	newID   func() string
}

// New constructs an empty ledger.
func New(options ...Option) *Ledger {
	l := &Ledger{newID: uuid.NewString}
	for _, opt := range options {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// Append stores a copy of entry at the end of the ledger and returns the stored
// copy. An empty ID is replaced with a generated one.
func (l *Ledger) Append(entry Entry) Entry {
	stored := entry.Clone()
	if stored.ID == "" {
		stored.ID = l.newID()
	}
	l.entries = append(l.entries, stored)
	return stored.Clone()
}

// At returns a copy of the entry at pos.
func (l *Ledger) At(pos int) (Entry, error) {
	if err := l.check(pos); err != nil {
		return Entry{}, err
	}
	return l.entries[pos].Clone(), nil
}

// RemoveAt deletes the entry at pos, shifting later entries down by one, and
// returns the removed entry.
func (l *Ledger) RemoveAt(pos int) (Entry, error) {
	if err := l.check(pos); err != nil {
		return Entry{}, err
	}
	removed := l.entries[pos]
	l.entries = append(l.entries[:pos:pos], l.entries[pos+1:]...)
	return removed, nil
}

// RecallAt hands the entry at pos back to the caller for editing and removes
// it from the ledger. It shares RemoveAt's semantics; the distinction is what
// the caller does with the returned entry.
func (l *Ledger) RecallAt(pos int) (Entry, error) {
	return l.RemoveAt(pos)
}

// Entries returns copies of every entry in position order.
func (l *Ledger) Entries() []Entry {
	if l == nil || len(l.entries) == 0 {
		return []Entry{}
	}
	out := make([]Entry, len(l.entries))
	for idx, entry := range l.entries {
		out[idx] = entry.Clone()
	}
	return out
}

// Len reports the number of stored entries.
func (l *Ledger) Len() int {
	if l == nil {
		return 0
	}
	return len(l.entries)
}

func (l *Ledger) check(pos int) error {
	if l == nil || pos < 0 || pos >= len(l.entries) {
		return fmt.Errorf("%w: position %d (size %d)", ErrIndexOutOfRange, pos, l.Len())
	}
	return nil
}
