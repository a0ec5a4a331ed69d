package assistant

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/tartampluch/go-addressbook/internal/addressbook"
	"github.com/tartampluch/go-addressbook/internal/config"
	"github.com/tartampluch/go-addressbook/internal/locale"
	"github.com/tartampluch/go-addressbook/internal/storage"
)

// LoadBook reads the saved book and reports progress to out.
// It always returns a usable book; failures only change the report.
func LoadBook(store *storage.Store, clock addressbook.Clock, tr *locale.Translator, out io.Writer) *addressbook.AddressBook {
	_, _ = fmt.Fprint(out, tr.Msg(config.TKeyLoading))

	book, found, err := store.Load(clock)
	switch {
	case err != nil:
		slog.Warn(config.MsgBookCorrupt,
			config.LogKeyComponent, config.CompAssistant,
			config.LogKeyFile, store.Name(),
			config.LogKeyError, err)
		_, _ = fmt.Fprintln(out, tr.T(config.TKeyLoadCorrupt, map[string]any{"File": store.Name()}))
	case !found:
		_, _ = fmt.Fprintln(out, tr.Msg(config.TKeyLoadNotFound))
	default:
		_, _ = fmt.Fprintln(out, tr.T(config.TKeyLoaded, map[string]any{"Count": book.Len()}))
	}
	return book
}

// Save writes the book through the store and reports progress to out.
func (a *Assistant) Save(out io.Writer) error {
	_, _ = fmt.Fprint(out, a.tr.Msg(config.TKeySaving))

	if a.store == nil {
		err := errors.New(config.ErrWriteData)
		_, _ = fmt.Fprintln(out, a.tr.Msg(config.TKeySaveFailed))
		return err
	}
	if err := a.store.Save(a.book); err != nil {
		_, _ = fmt.Fprintln(out, a.tr.Msg(config.TKeySaveFailed))
		return err
	}

	_, _ = fmt.Fprintln(out, a.tr.Msg(config.TKeySaveDone))
	return nil
}
