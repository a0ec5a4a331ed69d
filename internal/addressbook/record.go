package addressbook

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/tartampluch/go-addressbook/internal/config"
)

// Record is one contact: an immutable name, an ordered set of phones and an
// optional birthday.
type Record struct {
	name     Name
	phones   []Phone
	birthday *Birthday
}

// NewRecord creates a record with no phones and no birthday.
func NewRecord(name string) *Record {
	return &Record{name: NewName(name)}
}

// Name returns the contact name.
func (r *Record) Name() string { return r.name.String() }

// Phones returns a copy of the phones in insertion order.
func (r *Record) Phones() []Phone {
	return slices.Clone(r.phones)
}

// Birthday returns the birthday and whether it is set.
func (r *Record) Birthday() (Birthday, bool) {
	if r.birthday == nil {
		return Birthday{}, false
	}
	return *r.birthday, true
}

// AddPhone validates value and appends it.
// The record is left untouched on ErrInvalidPhoneFormat or ErrDuplicatePhone.
func (r *Record) AddPhone(value string) error {
	if _, ok := r.FindPhone(value); ok {
		return ErrDuplicatePhone
	}
	p, err := NewPhone(value)
	if err != nil {
		return err
	}
	r.phones = append(r.phones, p)
	return nil
}

// RemovePhone drops every phone equal to value. Unknown values are ignored.
func (r *Record) RemovePhone(value string) {
	r.phones = slices.DeleteFunc(r.phones, func(p Phone) bool {
		return p.value == value
	})
}

// FindPhone returns the first phone equal to query.
func (r *Record) FindPhone(query string) (Phone, bool) {
	i := slices.IndexFunc(r.phones, func(p Phone) bool { return p.value == query })
	if i < 0 {
		return Phone{}, false
	}
	return r.phones[i], true
}

// EditPhone replaces oldValue with newValue as two separate steps:
// RemovePhone(oldValue) then AddPhone(newValue).
//
// It is not atomic. When newValue is invalid or already present, oldValue has
// been removed and stays removed. Callers rely on this sequencing.
func (r *Record) EditPhone(oldValue, newValue string) error {
	r.RemovePhone(oldValue)
	return r.AddPhone(newValue)
}

// AddBirthday parses value relative to now and replaces any existing birthday.
func (r *Record) AddBirthday(value string, now time.Time) error {
	b, err := NewBirthday(value, now)
	if err != nil {
		return err
	}
	r.birthday = &b
	return nil
}

// String renders the one-line summary shown by the "all" command.
func (r *Record) String() string {
	phones := config.RecordNoPhones
	if len(r.phones) > 0 {
		values := make([]string, len(r.phones))
		for i, p := range r.phones {
			values[i] = p.value
		}
		phones = fmt.Sprintf(config.FormatRecordPhones, strings.Join(values, config.PhoneSeparator))
	}

	birthday := config.RecordNoBirthday
	if r.birthday != nil {
		birthday = fmt.Sprintf(config.FormatRecordBday, r.birthday)
	}

	return fmt.Sprintf(config.FormatRecord, r.name, phones, birthday)
}
