// Package addressbook holds the contact data model: validated values, records,
// the keyed collection and the upcoming-birthdays query.
//
// The package is single-owner by contract. Nothing here is safe for concurrent
// use and nothing needs to be.
package addressbook

import "slices"

// AddressBook is an owned, insertion-ordered mapping from contact name to Record.
// Only the operations below may mutate it, so name uniqueness always holds.
type AddressBook struct {
	records map[string]*Record
	order   []string
	clock   Clock
}

// Option configures an AddressBook.
type Option func(*AddressBook)

// WithClock overrides the clock used by UpcomingBirthdays.
func WithClock(c Clock) Option {
	return func(b *AddressBook) {
		b.clock = c
	}
}

// New returns an empty address book using the real clock unless overridden.
func New(opts ...Option) *AddressBook {
	b := &AddressBook{
		records: make(map[string]*Record),
		clock:   RealClock{},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Clock returns the clock the book was built with.
func (b *AddressBook) Clock() Clock { return b.clock }

// AddRecord inserts r keyed by its name.
// It returns ErrDuplicateContact when that name is already present.
func (b *AddressBook) AddRecord(r *Record) error {
	key := r.Name()
	if _, ok := b.records[key]; ok {
		return ErrDuplicateContact
	}
	b.records[key] = r
	b.order = append(b.order, key)
	return nil
}

// Find returns the record stored under name.
func (b *AddressBook) Find(name string) (*Record, bool) {
	r, ok := b.records[name]
	return r, ok
}

// Delete removes the record stored under name, if any.
func (b *AddressBook) Delete(name string) {
	if _, ok := b.records[name]; !ok {
		return
	}
	delete(b.records, name)
	b.order = slices.DeleteFunc(b.order, func(k string) bool { return k == name })
}

// Len returns the number of records.
func (b *AddressBook) Len() int { return len(b.order) }

// Records returns the records in insertion order.
// The slice is a fresh copy; the records themselves are shared.
func (b *AddressBook) Records() []*Record {
	out := make([]*Record, 0, len(b.order))
	for _, k := range b.order {
		out = append(out, b.records[k])
	}
	return out
}
