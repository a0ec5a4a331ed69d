package assistant

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tartampluch/go-addressbook/internal/addressbook"
	"github.com/tartampluch/go-addressbook/internal/config"
	"github.com/zarlcorp/core/pkg/zfilesystem"
)

func needArgs(args []string, n int) error {
	if len(args) < n {
		return ErrInsufficientArguments
	}
	return nil
}

func (a *Assistant) find(name string) (*addressbook.Record, error) {
	r, ok := a.book.Find(name)
	if !ok {
		return nil, addressbook.ErrContactNotFound
	}
	return r, nil
}

func (a *Assistant) hello(context.Context, []string) (string, error) {
	return a.tr.Msg(config.TKeyGreeting), nil
}

func (a *Assistant) help(context.Context, []string) (string, error) {
	return a.tr.Msg(config.TKeyHelp), nil
}

// addContact creates the contact when needed and appends the phone.
// A new contact is only stored once its first phone is accepted.
func (a *Assistant) addContact(_ context.Context, args []string) (string, error) {
	if err := needArgs(args, 2); err != nil {
		return "", err
	}
	name, phone := args[0], args[1]

	r, exists := a.book.Find(name)
	if !exists {
		r = addressbook.NewRecord(name)
	}
	if err := r.AddPhone(phone); err != nil {
		return "", err
	}
	if !exists {
		if err := a.book.AddRecord(r); err != nil {
			return "", err
		}
	}
	return a.tr.Msg(config.TKeyContactAdded), nil
}

func (a *Assistant) changeContact(_ context.Context, args []string) (string, error) {
	if err := needArgs(args, 3); err != nil {
		return "", err
	}
	r, err := a.find(args[0])
	if err != nil {
		return "", err
	}
	if err := r.EditPhone(args[1], args[2]); err != nil {
		return "", err
	}
	return a.tr.Msg(config.TKeyContactUpdated), nil
}

func (a *Assistant) showPhones(_ context.Context, args []string) (string, error) {
	if err := needArgs(args, 1); err != nil {
		return "", err
	}
	r, err := a.find(args[0])
	if err != nil {
		return "", err
	}

	phones := r.Phones()
	if len(phones) == 0 {
		return a.tr.T(config.TKeyNoPhones, map[string]any{"Name": r.Name()}), nil
	}
	values := make([]string, 0, len(phones))
	for _, p := range phones {
		values = append(values, p.String())
	}
	return strings.Join(values, config.PhoneListSeparator), nil
}

func (a *Assistant) listContacts(context.Context, []string) (string, error) {
	if a.book.Len() == 0 {
		return a.tr.Msg(config.TKeyContactsEmpty), nil
	}
	lines := make([]string, 0, a.book.Len())
	for _, r := range a.book.Records() {
		lines = append(lines, r.String())
	}
	return strings.Join(lines, "\n"), nil
}

func (a *Assistant) addBirthday(_ context.Context, args []string) (string, error) {
	if err := needArgs(args, 2); err != nil {
		return "", err
	}
	r, err := a.find(args[0])
	if err != nil {
		return "", err
	}
	if err := r.AddBirthday(args[1], a.book.Clock().Now()); err != nil {
		return "", err
	}
	return a.tr.T(config.TKeyBirthdayAdded, map[string]any{"Name": r.Name()}), nil
}

func (a *Assistant) showBirthday(_ context.Context, args []string) (string, error) {
	if err := needArgs(args, 1); err != nil {
		return "", err
	}
	r, err := a.find(args[0])
	if err != nil {
		return "", err
	}

	b, ok := r.Birthday()
	if !ok {
		return a.tr.T(config.TKeyBirthdayNotSet, map[string]any{"Name": r.Name()}), nil
	}
	return a.tr.T(config.TKeyBirthdayShow, map[string]any{"Name": r.Name(), "Date": b.String()}), nil
}

func (a *Assistant) upcomingBirthdays(context.Context, []string) (string, error) {
	if a.book.Len() == 0 {
		return a.tr.Msg(config.TKeyContactsEmpty), nil
	}

	upcoming := a.book.UpcomingBirthdays()
	if len(upcoming) == 0 {
		return a.tr.Msg(config.TKeyNoUpcoming), nil
	}

	lines := make([]string, 0, len(upcoming))
	for _, c := range upcoming {
		lines = append(lines, a.tr.T(config.TKeyCongratulate, map[string]any{
			"Name": c.Name,
			"Date": c.Date.Format(config.DateFormatBirthday),
		}))
	}
	return strings.Join(lines, "\n"), nil
}

func (a *Assistant) deleteContact(_ context.Context, args []string) (string, error) {
	if err := needArgs(args, 1); err != nil {
		return "", err
	}
	if _, err := a.find(args[0]); err != nil {
		return "", err
	}
	a.book.Delete(args[0])
	return a.tr.Msg(config.TKeyContactDeleted), nil
}

// exportCalendar writes the birthday calendar to a file. A path without an
// extension gets ".ics".
func (a *Assistant) exportCalendar(_ context.Context, args []string) (string, error) {
	if err := needArgs(args, 1); err != nil {
		return "", err
	}
	path := args[0]
	if filepath.Ext(path) == "" {
		path += config.ExtICS
	}

	data, _, err := a.gen.Generate(a.book)
	if err != nil {
		return "", &opError{key: config.TKeyErrExport, err: err}
	}

	fsys := zfilesystem.NewOSFileSystem(filepath.Dir(path))
	if err := fsys.WriteFile(filepath.Base(path), data, config.FilePermUserRW); err != nil {
		return "", &opError{key: config.TKeyErrExport, err: fmt.Errorf("%s: %w", config.ErrExportWrite, err)}
	}
	return a.tr.T(config.TKeyCalendarExport, map[string]any{"File": path}), nil
}

// importContacts merges vCards from a file or URL. The optional second
// argument names the user whose keyring password authenticates the download.
func (a *Assistant) importContacts(ctx context.Context, args []string) (string, error) {
	if err := needArgs(args, 1); err != nil {
		return "", err
	}
	source, user, pass := args[0], "", ""
	if len(args) > 1 {
		user = args[1]
		pass = a.creds.Password(user)
	}

	stats, err := a.importer.ImportFrom(ctx, a.book, source, user, pass)
	if err != nil {
		return "", &opError{key: config.TKeyErrImport, err: err}
	}
	return a.tr.T(config.TKeyImportDone, map[string]any{
		"Added":   stats.Added,
		"Skipped": stats.Skipped,
	}), nil
}

func (a *Assistant) importLogin(_ context.Context, args []string) (string, error) {
	if err := needArgs(args, 2); err != nil {
		return "", err
	}
	if err := a.creds.SetPassword(args[0], args[1]); err != nil {
		return "", &opError{key: config.TKeyErrKeyring, err: err}
	}
	return a.tr.T(config.TKeyImportLoginDone, map[string]any{"User": args[0]}), nil
}
