package assistant_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-addressbook/internal/addressbook"
	"github.com/tartampluch/go-addressbook/internal/assistant"
	"github.com/tartampluch/go-addressbook/internal/locale"
	"github.com/tartampluch/go-addressbook/internal/storage"
	"github.com/zarlcorp/core/pkg/zfilesystem"
)

func TestSession_ExitSavesBook(t *testing.T) {
	a, store := newAssistant(t)
	s := &assistant.Session{Assistant: a}
	var out bytes.Buffer

	in := strings.NewReader("hello\nadd Alice 0123456789\nfoo\nexit\nadd Bob 1112223333\n")
	err := s.Run(context.Background(), in, &out)

	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		"Welcome to the assistant bot!",
		"How can I help you?",
		"Contact added.",
		"Invalid command.",
		"Saving contacts...Done",
		"Good bye!",
		"",
	}, "\n"), out.String())

	book, found, err := store.Load(MockClock{CurrentTime: refNow})
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 1, book.Len(), "lines after exit are ignored")
}

func TestSession_EndOfInputSaves(t *testing.T) {
	a, store := newAssistant(t)
	s := &assistant.Session{Assistant: a}
	var out bytes.Buffer

	err := s.Run(context.Background(), strings.NewReader("add Alice 0123456789"), &out)

	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(out.String(), "Saving contacts...Done\nGood bye!\n"), out.String())
	_, found, _ := store.Load(MockClock{CurrentTime: refNow})
	assert.True(t, found)
}

func TestSession_CancelledContextSaves(t *testing.T) {
	a, store := newAssistant(t)
	s := &assistant.Session{Assistant: a}
	var out bytes.Buffer

	pr, pw := io.Pipe()
	defer func() { _ = pw.Close() }()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Run(ctx, pr, &out)

	require.NoError(t, err)
	assert.Contains(t, out.String(), "Good bye!")
	_, found, _ := store.Load(MockClock{CurrentTime: refNow})
	assert.True(t, found)
}

// readOnlyFS rejects every write.
type readOnlyFS struct {
	zfilesystem.ReadWriteFileFS
}

func (readOnlyFS) WriteFile(string, []byte, fs.FileMode) error {
	return errors.New("read-only filesystem")
}

func TestSession_SaveFailureStillEnds(t *testing.T) {
	store := storage.NewStore(readOnlyFS{zfilesystem.NewMemFS()}, "book.vcf")
	book := addressbook.New(addressbook.WithClock(MockClock{CurrentTime: refNow}))
	s := &assistant.Session{Assistant: assistant.New(book, store, locale.New("en"))}
	var out bytes.Buffer

	err := s.Run(context.Background(), strings.NewReader("add Alice 0123456789\nexit\n"), &out)

	require.NoError(t, err, "a failed save never aborts the session")
	assert.True(t, strings.HasSuffix(out.String(),
		"Saving contacts...Error. Can't save address book to a file\nGood bye!\n"), out.String())
}

func TestSession_Prompt(t *testing.T) {
	a, _ := newAssistant(t)
	s := &assistant.Session{Assistant: a, Prompt: true}
	var out bytes.Buffer

	require.NoError(t, s.Run(context.Background(), strings.NewReader("hi\nclose\n"), &out))

	assert.Equal(t, 2, strings.Count(out.String(), "Enter a command: "))
	assert.Contains(t, out.String(), "Enter a command: How can I help you?\n")
}

func TestLoadBook(t *testing.T) {
	clock := MockClock{CurrentTime: refNow}
	tr := locale.New("en")

	t.Run("missing", func(t *testing.T) {
		store := storage.NewStore(zfilesystem.NewMemFS(), "book.vcf")
		var out bytes.Buffer

		book := assistant.LoadBook(store, clock, tr, &out)

		require.NotNil(t, book)
		assert.Equal(t, 0, book.Len())
		assert.Equal(t, "Loading saved contacts...Not found. Creating empty address book\n", out.String())
	})

	t.Run("saved", func(t *testing.T) {
		store := storage.NewStore(zfilesystem.NewMemFS(), "book.vcf")
		saved := addressbook.New(addressbook.WithClock(clock))
		for _, name := range []string{"Alice", "Bob"} {
			require.NoError(t, saved.AddRecord(addressbook.NewRecord(name)))
		}
		require.NoError(t, store.Save(saved))
		var out bytes.Buffer

		book := assistant.LoadBook(store, clock, tr, &out)

		assert.Equal(t, 2, book.Len())
		assert.Equal(t, "Loading saved contacts...2 contacts loaded\n", out.String())
	})

	t.Run("corrupt", func(t *testing.T) {
		fsys := zfilesystem.NewMemFS()
		require.NoError(t, fsys.WriteFile("book.vcf", []byte("this is not a vcard\n"), 0o600))
		store := storage.NewStore(fsys, "book.vcf")
		var out bytes.Buffer

		book := assistant.LoadBook(store, clock, tr, &out)

		assert.Equal(t, 0, book.Len())
		assert.Contains(t, out.String(), "Loading saved contacts...Error.")
		assert.Contains(t, out.String(), "book.vcf will be rewritten on exit.")
	})
}
