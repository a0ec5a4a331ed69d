// Package assistant turns one line of user input into one reply.
//
// Parsing, dispatch and error-to-message mapping live here. The address book
// itself is owned by the Assistant and is only touched from the goroutine
// calling Handle.
package assistant

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/tartampluch/go-addressbook/internal/addressbook"
	"github.com/tartampluch/go-addressbook/internal/calendar"
	"github.com/tartampluch/go-addressbook/internal/config"
	"github.com/tartampluch/go-addressbook/internal/locale"
	"github.com/tartampluch/go-addressbook/internal/storage"
)

// ErrInsufficientArguments is returned when a verb gets fewer arguments than it needs.
var ErrInsufficientArguments = errors.New(config.ErrNotEnoughArgs)

// Importer loads contacts from a file path or an http(s) URL into a book.
type Importer interface {
	ImportFrom(ctx context.Context, book *addressbook.AddressBook, source, user, pass string) (storage.ImportStats, error)
}

// Credentials stores import passwords.
type Credentials interface {
	Password(user string) string
	SetPassword(user, pass string) error
}

// Publisher receives a fresh calendar every time the book changes.
type Publisher interface {
	Publish(data []byte)
}

// Reply is the answer to one input line.
type Reply struct {
	Text string
	Err  bool // Text describes a failure
	Quit bool // the session must end after this reply
}

type handler func(ctx context.Context, args []string) (string, error)

// Assistant executes commands against an address book.
type Assistant struct {
	book     *addressbook.AddressBook
	store    *storage.Store
	tr       *locale.Translator
	importer Importer
	creds    Credentials
	feed     Publisher
	gen      *calendar.Generator

	handlers map[string]handler
	mutating map[string]bool
}

// Option configures an Assistant.
type Option func(*Assistant)

// WithImporter replaces the default file/URL importer.
func WithImporter(im Importer) Option {
	return func(a *Assistant) { a.importer = im }
}

// WithCredentials replaces the OS keyring as the password store.
func WithCredentials(c Credentials) Option {
	return func(a *Assistant) { a.creds = c }
}

// WithPublisher sends every regenerated calendar to p.
func WithPublisher(p Publisher) Option {
	return func(a *Assistant) { a.feed = p }
}

// New returns an Assistant working on book. store is used by Save; tr
// provides the reply texts.
func New(book *addressbook.AddressBook, store *storage.Store, tr *locale.Translator, opts ...Option) *Assistant {
	a := &Assistant{
		book:     book,
		store:    store,
		tr:       tr,
		importer: storage.NewImporter(),
		creds:    storage.KeyringCredentials{},
	}
	for _, opt := range opts {
		opt(a)
	}

	a.gen = &calendar.Generator{
		Clock:         book.Clock(),
		FormatSummary: a.eventSummary,
	}

	a.handlers = map[string]handler{
		config.VerbHello:        a.hello,
		config.VerbHi:           a.hello,
		config.VerbAdd:          a.addContact,
		config.VerbChange:       a.changeContact,
		config.VerbPhone:        a.showPhones,
		config.VerbAll:          a.listContacts,
		config.VerbAddBirthday:  a.addBirthday,
		config.VerbShowBirthday: a.showBirthday,
		config.VerbBirthdays:    a.upcomingBirthdays,
		config.VerbDelete:       a.deleteContact,
		config.VerbExportICS:    a.exportCalendar,
		config.VerbImport:       a.importContacts,
		config.VerbImportLogin:  a.importLogin,
		config.VerbHelp:         a.help,
	}
	a.mutating = map[string]bool{
		config.VerbAdd:         true,
		config.VerbChange:      true,
		config.VerbAddBirthday: true,
		config.VerbDelete:      true,
		config.VerbImport:      true,
	}
	return a
}

// Book returns the address book the assistant works on.
func (a *Assistant) Book() *addressbook.AddressBook { return a.book }

// Translator returns the reply translator.
func (a *Assistant) Translator() *locale.Translator { return a.tr }

// Parse splits a line into a lowercased verb and its arguments.
// Blank input gives an empty verb.
func Parse(line string) (string, []string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}
	return strings.ToLower(fields[0]), fields[1:]
}

// Handle executes one line. It never fails: every error becomes a reply.
func (a *Assistant) Handle(ctx context.Context, line string) Reply {
	verb, args := Parse(line)

	if verb == config.VerbClose || verb == config.VerbExit {
		return Reply{Text: a.tr.Msg(config.TKeyGoodbye), Quit: true}
	}

	h, ok := a.handlers[verb]
	if !ok {
		return Reply{Text: a.tr.Msg(config.TKeyInvalidCommand), Err: true}
	}

	text, err := h(ctx, args)
	if err != nil {
		slog.Debug(config.MsgCommandFailed,
			config.LogKeyComponent, config.CompAssistant,
			config.LogKeyVerb, verb,
			config.LogKeyArgs, len(args),
			config.LogKeyError, err)
		return Reply{Text: a.errorText(err), Err: true}
	}

	slog.Debug(config.MsgCommand,
		config.LogKeyComponent, config.CompAssistant,
		config.LogKeyVerb, verb,
		config.LogKeyArgs, len(args))

	if a.mutating[verb] {
		a.Refresh()
	}
	return Reply{Text: text}
}

// Refresh regenerates the birthday calendar and hands it to the publisher.
func (a *Assistant) Refresh() {
	if a.feed == nil {
		return
	}
	data, _, err := a.gen.Generate(a.book)
	if err != nil {
		slog.Error(config.ErrICalEncode,
			config.LogKeyComponent, config.CompAssistant,
			config.LogKeyError, err)
		return
	}
	a.feed.Publish(data)
}

// opError carries a failure of an outer operation (export, import, keyring)
// together with the translation key describing it.
type opError struct {
	key string
	err error
}

func (e *opError) Error() string { return e.err.Error() }
func (e *opError) Unwrap() error { return e.err }

var errorKeys = []struct {
	err error
	key string
}{
	{ErrInsufficientArguments, config.TKeyErrNotEnoughArgs},
	{addressbook.ErrInvalidPhoneFormat, config.TKeyErrPhoneFormat},
	{addressbook.ErrInvalidDateFormat, config.TKeyErrDateFormat},
	{addressbook.ErrBirthdayInFuture, config.TKeyErrBirthFuture},
	{addressbook.ErrDuplicateContact, config.TKeyErrDuplicate},
	{addressbook.ErrDuplicatePhone, config.TKeyErrDupPhone},
	{addressbook.ErrContactNotFound, config.TKeyErrNotFound},
}

func (a *Assistant) errorText(err error) string {
	var op *opError
	if errors.As(err, &op) {
		return a.tr.T(op.key, map[string]any{"Error": op.err.Error()})
	}
	for _, ek := range errorKeys {
		if errors.Is(err, ek.err) {
			return a.tr.Msg(ek.key)
		}
	}
	return err.Error()
}

func (a *Assistant) eventSummary(name string, age int) string {
	if age > 0 {
		return a.tr.T(config.TKeyEvtSummaryAge, map[string]any{"Name": name, "Age": age})
	}
	return a.tr.T(config.TKeyEvtSummary, map[string]any{"Name": name})
}
