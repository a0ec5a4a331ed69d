// Package storage is the persistence boundary of the address book.
// The whole book is kept in a single vCard 4.0 file that is read or written in
// one call; nothing holds the file open between calls.
package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/emersion/go-vcard"
	"github.com/tartampluch/go-addressbook/internal/addressbook"
	"github.com/tartampluch/go-addressbook/internal/config"
	"github.com/zarlcorp/core/pkg/zfilesystem"
)

// ErrCorruptData is wrapped by Load when the file exists but cannot be decoded
// into a valid address book.
var ErrCorruptData = errors.New(config.ErrCorruptData)

// Store saves and loads an address book as one file on a filesystem.
type Store struct {
	fs   zfilesystem.ReadWriteFileFS
	name string
}

// NewStore returns a store writing the file name inside fsys.
func NewStore(fsys zfilesystem.ReadWriteFileFS, name string) *Store {
	return &Store{fs: fsys, name: name}
}

// NewFileStore returns a store for an OS path, e.g. config.DefaultDataFile.
func NewFileStore(path string) *Store {
	return NewStore(zfilesystem.NewOSFileSystem(filepath.Dir(path)), filepath.Base(path))
}

// Name returns the file name handled by the store.
func (s *Store) Name() string { return s.name }

// Save encodes every record and replaces the file content.
func (s *Store) Save(book *addressbook.AddressBook) error {
	var buf bytes.Buffer
	enc := vcard.NewEncoder(&buf)

	for _, r := range book.Records() {
		if err := enc.Encode(recordToCard(r)); err != nil {
			return fmt.Errorf("%s: %s: %w", config.ErrVCardEncode, r.Name(), err)
		}
	}

	if err := s.fs.WriteFile(s.name, buf.Bytes(), config.FilePermUserRW); err != nil {
		slog.Error(config.MsgBookSaveFail,
			config.LogKeyComponent, config.CompStorage,
			config.LogKeyFile, s.name,
			config.LogKeyError, err)
		return fmt.Errorf("%s: %w", config.ErrWriteData, err)
	}

	slog.Info(config.MsgBookSaved,
		config.LogKeyComponent, config.CompStorage,
		config.LogKeyFile, s.name,
		config.LogKeyCount, book.Len(),
		config.LogKeySizeBytes, buf.Len())
	return nil
}

// Load reads the file into a new address book using clock.
//
// The returned book is never nil. found is false when the file does not exist,
// which is not an error. Any read or decode failure yields an empty book and an
// error wrapping ErrCorruptData; callers report it and carry on.
func (s *Store) Load(clock addressbook.Clock) (book *addressbook.AddressBook, found bool, err error) {
	log := slog.With(
		config.LogKeyComponent, config.CompStorage,
		config.LogKeyFile, s.name,
	)

	data, err := s.fs.ReadFile(s.name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Info(config.MsgBookMissing)
			return addressbook.New(addressbook.WithClock(clock)), false, nil
		}
		log.Warn(config.MsgBookCorrupt, config.LogKeyError, err)
		return addressbook.New(addressbook.WithClock(clock)), true,
			fmt.Errorf("%w: %s: %w", ErrCorruptData, config.ErrReadData, err)
	}

	book, err = decodeBook(data, clock)
	if err != nil {
		log.Warn(config.MsgBookCorrupt, config.LogKeyError, err)
		return addressbook.New(addressbook.WithClock(clock)), true, fmt.Errorf("%w: %w", ErrCorruptData, err)
	}

	log.Info(config.MsgBookLoaded, config.LogKeyCount, book.Len())
	return book, true, nil
}

// decodeBook is strict: the file is ours, so any invalid card means corruption.
// Content that holds no card at all is corrupt too; only a blank file is an
// empty book.
func decodeBook(data []byte, clock addressbook.Clock) (*addressbook.AddressBook, error) {
	book := addressbook.New(addressbook.WithClock(clock))
	now := clock.Now()
	dec := vcard.NewDecoder(bytes.NewReader(data))

	for cards := 0; ; cards++ {
		card, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			if cards == 0 && len(bytes.TrimSpace(data)) > 0 {
				return nil, errors.New(config.ErrNoVCard)
			}
			return book, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", config.ErrVCardParse, err)
		}

		rec, err := cardToRecord(card, now)
		if err != nil {
			return nil, err
		}
		if err := book.AddRecord(rec); err != nil {
			return nil, fmt.Errorf("%s: %w", rec.Name(), err)
		}
	}
}

func recordToCard(r *addressbook.Record) vcard.Card {
	card := make(vcard.Card)
	card.SetValue(vcard.FieldVersion, config.VCardVersion)
	card.SetValue(vcard.FieldFormattedName, r.Name())

	for _, p := range r.Phones() {
		card.AddValue(vcard.FieldTelephone, p.String())
	}

	if b, ok := r.Birthday(); ok {
		card.SetValue(vcard.FieldBirthday, b.Date().Format(config.DateFormatFullBasic))
	}
	return card
}

func cardToRecord(card vcard.Card, now time.Time) (*addressbook.Record, error) {
	name := card.Value(vcard.FieldFormattedName)
	if name == "" {
		return nil, fmt.Errorf("%s: missing %s", config.ErrVCardParse, vcard.FieldFormattedName)
	}

	rec := addressbook.NewRecord(name)
	for _, tel := range card.Values(vcard.FieldTelephone) {
		if err := rec.AddPhone(tel); err != nil {
			return nil, fmt.Errorf("%s: %s %q: %w", name, vcard.FieldTelephone, tel, err)
		}
	}

	if raw := card.Value(vcard.FieldBirthday); raw != "" {
		date, yearKnown, err := parseDate(raw)
		if err != nil || !yearKnown {
			return nil, fmt.Errorf("%s: %s %q: %s", name, vcard.FieldBirthday, raw, config.ErrDateParse)
		}
		if err := rec.AddBirthday(date.Format(config.DateFormatBirthday), now); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	}
	return rec, nil
}

// parseDate handles the vCard date formats seen in the wild.
// yearKnown is false for truncated --MM-DD values.
func parseDate(value string) (time.Time, bool, error) {
	formatsWithYear := []string{
		config.DateFormatFullBasic,
		config.DateFormatFullDash,
		config.DateFormatRFC3339,
		config.DateFormatFullT,
	}
	for _, f := range formatsWithYear {
		if t, err := time.Parse(f, value); err == nil {
			return t, true, nil
		}
	}

	for _, f := range []string{dateFormatNoYearDash, dateFormatNoYearBasic} {
		if t, err := time.Parse(f, value); err == nil {
			return t, false, nil
		}
	}

	return time.Time{}, false, errors.New(config.ErrDateParse)
}

const (
	dateFormatNoYearDash  = "--01-02"
	dateFormatNoYearBasic = "--0102"
)
