package storage_test

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-addressbook/internal/addressbook"
	"github.com/tartampluch/go-addressbook/internal/storage"
	"github.com/zarlcorp/core/pkg/zfilesystem"
)

// MockClock controls time for deterministic testing.
type MockClock struct {
	CurrentTime time.Time
}

func (m MockClock) Now() time.Time {
	return m.CurrentTime
}

var clock = MockClock{CurrentTime: time.Date(2025, 6, 9, 10, 0, 0, 0, time.UTC)}

func sampleBook(t *testing.T) *addressbook.AddressBook {
	t.Helper()
	b := addressbook.New(addressbook.WithClock(clock))

	alice := addressbook.NewRecord("Alice")
	require.NoError(t, alice.AddPhone("0123456789"))
	require.NoError(t, alice.AddPhone("1112223333"))
	require.NoError(t, alice.AddBirthday("29.02.2000", clock.Now()))
	require.NoError(t, b.AddRecord(alice))

	bob := addressbook.NewRecord("Bob")
	require.NoError(t, bob.AddPhone("5555555555"))
	require.NoError(t, b.AddRecord(bob))

	require.NoError(t, b.AddRecord(addressbook.NewRecord("Carol")))
	return b
}

func assertSameBook(t *testing.T, want, got *addressbook.AddressBook) {
	t.Helper()
	require.Equal(t, want.Len(), got.Len())

	for i, w := range want.Records() {
		g := got.Records()[i]
		assert.Equal(t, w.Name(), g.Name(), "names and order must survive")
		assert.Equal(t, w.Phones(), g.Phones(), "phones of %s", w.Name())

		wb, wok := w.Birthday()
		gb, gok := g.Birthday()
		assert.Equal(t, wok, gok, "birthday presence of %s", w.Name())
		assert.Equal(t, wb.String(), gb.String(), "birthday of %s", w.Name())
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	fs := zfilesystem.NewMemFS()
	s := storage.NewStore(fs, "book.vcf")
	want := sampleBook(t)

	require.NoError(t, s.Save(want))

	got, found, err := s.Load(clock)
	require.NoError(t, err)
	assert.True(t, found)
	assertSameBook(t, want, got)
	assert.Equal(t, clock, got.Clock(), "Loaded book must use the given clock")
}

func TestSaveLoad_RoundTripOnDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contacts.vcf")
	want := sampleBook(t)

	require.NoError(t, storage.NewFileStore(path).Save(want))

	got, found, err := storage.NewFileStore(path).Load(clock)
	require.NoError(t, err)
	assert.True(t, found)
	assertSameBook(t, want, got)
}

func TestSave_WritesVCard(t *testing.T) {
	fs := zfilesystem.NewMemFS()
	s := storage.NewStore(fs, "book.vcf")

	require.NoError(t, s.Save(sampleBook(t)))

	data, err := fs.ReadFile("book.vcf")
	require.NoError(t, err)
	content := string(data)
	assert.Equal(t, 3, strings.Count(content, "BEGIN:VCARD"))
	assert.Contains(t, content, "FN:Alice")
	assert.Contains(t, content, "TEL:0123456789")
	assert.Contains(t, content, "BDAY:20000229")
}

func TestSave_EmptyBook(t *testing.T) {
	fs := zfilesystem.NewMemFS()
	s := storage.NewStore(fs, "book.vcf")

	require.NoError(t, s.Save(addressbook.New()))

	got, found, err := s.Load(clock)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 0, got.Len())
}

func TestLoad_BlankFileIsEmptyBook(t *testing.T) {
	fs := zfilesystem.NewMemFS()
	require.NoError(t, fs.WriteFile("book.vcf", []byte(" \n\n"), 0o600))

	got, found, err := storage.NewStore(fs, "book.vcf").Load(clock)

	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 0, got.Len())
}

func TestLoad_MissingFile(t *testing.T) {
	s := storage.NewStore(zfilesystem.NewMemFS(), "absent.vcf")

	got, found, err := s.Load(clock)

	require.NoError(t, err)
	assert.False(t, found)
	require.NotNil(t, got)
	assert.Equal(t, 0, got.Len())
}

func TestLoad_MissingFileOnDisk(t *testing.T) {
	s := storage.NewFileStore(filepath.Join(t.TempDir(), "nope.vcf"))

	got, found, err := s.Load(clock)

	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, 0, got.Len())
}

func TestLoad_CorruptFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not a vcard", "this is not an address book\n"},
		{"binary junk", "\x80\x04\x95garbage pickle bytes"},
		{"invalid phone", "BEGIN:VCARD\nVERSION:4.0\nFN:Alice\nTEL:12\nEND:VCARD\n"},
		{"future birthday", "BEGIN:VCARD\nVERSION:4.0\nFN:Alice\nBDAY:21000101\nEND:VCARD\n"},
		{"year-less birthday", "BEGIN:VCARD\nVERSION:4.0\nFN:Alice\nBDAY:--0315\nEND:VCARD\n"},
		{"missing name", "BEGIN:VCARD\nVERSION:4.0\nTEL:0123456789\nEND:VCARD\n"},
		{
			"duplicate names",
			"BEGIN:VCARD\nVERSION:4.0\nFN:Alice\nEND:VCARD\nBEGIN:VCARD\nVERSION:4.0\nFN:Alice\nEND:VCARD\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := zfilesystem.NewMemFS()
			require.NoError(t, fs.WriteFile("book.vcf", []byte(tt.content), 0o600))
			s := storage.NewStore(fs, "book.vcf")

			got, found, err := s.Load(clock)

			assert.ErrorIs(t, err, storage.ErrCorruptData)
			assert.True(t, found)
			require.NotNil(t, got, "A corrupt file still yields a usable book")
			assert.Equal(t, 0, got.Len())
		})
	}
}

func TestLoad_AcceptsDashedBirthday(t *testing.T) {
	fs := zfilesystem.NewMemFS()
	content := "BEGIN:VCARD\nVERSION:3.0\nFN:Dana\nTEL:0123456789\nBDAY:1990-03-15\nEND:VCARD\n"
	require.NoError(t, fs.WriteFile("book.vcf", []byte(content), 0o600))

	got, _, err := storage.NewStore(fs, "book.vcf").Load(clock)

	require.NoError(t, err)
	r, ok := got.Find("Dana")
	require.True(t, ok)
	b, ok := r.Birthday()
	require.True(t, ok)
	assert.Equal(t, "15.03.1990", b.String())
}

func TestStore_Name(t *testing.T) {
	assert.Equal(t, "book.vcf", storage.NewFileStore("/tmp/x/book.vcf").Name())
}
