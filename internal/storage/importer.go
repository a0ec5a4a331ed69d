package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/emersion/go-vcard"
	"github.com/tartampluch/go-addressbook/internal/addressbook"
	"github.com/tartampluch/go-addressbook/internal/config"
	"github.com/zarlcorp/core/pkg/zfilesystem"
)

// maxDecodeErrors stops an import whose stream keeps failing to decode.
const maxDecodeErrors = 100

// ImportStats summarises one import run.
type ImportStats struct {
	Added   int
	Skipped int
}

// Importer merges vCards from a local file or a remote URL into a book.
// Unlike Load it is lenient: bad cards, phones or dates are skipped.
type Importer struct {
	Fetcher VCardFetcher // Used for http(s) sources.

	// Files resolves local sources; nil means the OS filesystem around the path.
	Files zfilesystem.ReadWriteFileFS
}

// NewImporter returns an importer using the default HTTP fetcher.
func NewImporter() *Importer {
	return &Importer{Fetcher: NewHTTPFetcher()}
}

// ImportFrom opens source (path or http(s) URL) and imports every card into book.
func (im *Importer) ImportFrom(ctx context.Context, book *addressbook.AddressBook, source, user, pass string) (ImportStats, error) {
	start := time.Now()

	reader, err := im.open(ctx, source, user, pass)
	if err != nil {
		if ctx.Err() != nil {
			return ImportStats{}, ctx.Err()
		}
		return ImportStats{}, err
	}
	defer func() { _ = reader.Close() }()

	stats, err := Import(ctx, reader, book)
	if err == nil {
		slog.Debug(config.MsgImportDone,
			config.LogKeyComponent, config.CompStorage,
			config.LogKeyDuration, time.Since(start).Milliseconds())
	}
	return stats, err
}

// open picks the data source the same way for files and URLs.
func (im *Importer) open(ctx context.Context, source, user, pass string) (io.ReadCloser, error) {
	if source == "" {
		return nil, errors.New(config.ErrSourceEmpty)
	}

	if u, err := url.Parse(source); err == nil && (u.Scheme == config.SchemeHTTP || u.Scheme == config.SchemeHTTPS) {
		if im.Fetcher == nil {
			return nil, errors.New(config.ErrFetcherMissing)
		}
		return im.Fetcher.Fetch(ctx, source, user, pass)
	}

	fsys, name := im.Files, source
	if fsys == nil {
		fsys, name = zfilesystem.NewOSFileSystem(filepath.Dir(source)), filepath.Base(source)
	}
	data, err := fsys.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrReadSource, err)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Import decodes r and adds each card whose name is not yet in book.
// Existing contacts are left alone and counted as skipped.
func Import(ctx context.Context, r io.Reader, book *addressbook.AddressBook) (ImportStats, error) {
	var stats ImportStats
	now := book.Clock().Now()
	dec := vcard.NewDecoder(r)
	decodeErrors := 0

	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		card, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// Log error but continue to next card to maximize data recovery
			slog.Warn(config.MsgSkippedCard,
				config.LogKeyComponent, config.CompStorage,
				config.LogKeyError, err)
			stats.Skipped++
			decodeErrors++
			if decodeErrors >= maxDecodeErrors {
				return stats, fmt.Errorf("%s: %w", config.ErrVCardParse, err)
			}
			continue
		}
		decodeErrors = 0

		rec, ok := importCard(card, now)
		if !ok {
			stats.Skipped++
			continue
		}

		if err := book.AddRecord(rec); err != nil {
			slog.Debug(config.MsgSkippedDup,
				config.LogKeyComponent, config.CompStorage,
				config.LogKeyName, rec.Name())
			stats.Skipped++
			continue
		}
		stats.Added++
	}

	slog.Info(config.MsgImportDone,
		config.LogKeyComponent, config.CompStorage,
		config.LogKeyAdded, stats.Added,
		config.LogKeySkipped, stats.Skipped)
	return stats, nil
}

// importCard keeps whatever part of a card is valid.
// Name strategy: FN (Formatted) > N (Structured). Cards with neither are dropped.
func importCard(card vcard.Card, now time.Time) (*addressbook.Record, bool) {
	name := card.Value(vcard.FieldFormattedName)
	if name == "" {
		if n := card.Name(); n != nil {
			name = strings.TrimSpace(n.GivenName + " " + n.FamilyName)
		}
	}
	if name == "" {
		slog.Warn(config.MsgSkippedCard, config.LogKeyComponent, config.CompStorage)
		return nil, false
	}

	rec := addressbook.NewRecord(name)
	for _, tel := range card.Values(vcard.FieldTelephone) {
		if err := rec.AddPhone(tel); err != nil {
			slog.Debug(config.MsgSkippedPhone,
				config.LogKeyComponent, config.CompStorage,
				config.LogKeyName, name,
				config.LogKeyValue, tel)
		}
	}

	if raw := card.Value(vcard.FieldBirthday); raw != "" {
		date, yearKnown, err := parseDate(raw)
		if err == nil && yearKnown {
			err = rec.AddBirthday(date.Format(config.DateFormatBirthday), now)
		}
		if err != nil || !yearKnown {
			slog.Debug(config.MsgSkippedDate,
				config.LogKeyComponent, config.CompStorage,
				config.LogKeyName, name,
				config.LogKeyValue, raw)
		}
	}
	return rec, true
}
