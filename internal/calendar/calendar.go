// Package calendar renders the birthdays of an address book as an iCalendar feed.
package calendar

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"time"

	"github.com/emersion/go-ical"
	"github.com/tartampluch/go-addressbook/internal/addressbook"
	"github.com/tartampluch/go-addressbook/internal/config"
)

// Generator converts an address book into ICS data.
type Generator struct {
	Clock addressbook.Clock

	// FormatSummary lets the caller inject localized event titles.
	FormatSummary func(name string, age int) string
}

// Generate builds one all-day event per contact birthday for the previous,
// current and next year, skipping years before the contact was born.
// It returns the ICS bytes and the number of birthdays falling today.
func (g *Generator) Generate(book *addressbook.AddressBook) ([]byte, int, error) {
	cal := ical.NewCalendar()
	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	refreshProp := ical.NewProp(config.PropRefresh)
	refreshProp.SetDuration(config.DefaultICalRefresh)
	cal.Props.Set(refreshProp)

	// Local time decides which day it is; UTC is only for the stamp.
	now := g.Clock.Now()
	dtStampProp := ical.NewProp(config.PropDTStamp)
	dtStampProp.SetDateTime(now.UTC())

	today := 0
	for _, r := range book.Records() {
		bday, ok := r.Birthday()
		if !ok {
			continue
		}

		events, isToday := g.createEvents(r.Name(), bday.Date(), now)
		if isToday {
			today++
		}
		for _, e := range events {
			e.Props.Set(dtStampProp)
			cal.Children = append(cal.Children, e.Component)
		}
	}

	if len(cal.Children) == 0 {
		// An empty VCALENDAR would fail encoding; serve a valid stub instead.
		return []byte(config.StubVCalendar), 0, nil
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}

	slog.Info(config.MsgGenSuccess,
		config.LogKeyComponent, config.CompCalendar,
		config.LogKeyEvents, len(cal.Children),
		config.LogKeyCount, today)
	return buf.Bytes(), today, nil
}

func (g *Generator) createEvents(name string, birth, now time.Time) ([]*ical.Event, bool) {
	currentYear := now.Year()
	loc := now.Location()
	todayYear, todayMonth, todayDay := now.Date()

	hash := sha256.Sum256([]byte(fmt.Sprintf(config.FormatHashInput, name, birth.Format(time.RFC3339), config.UIDSalt)))
	uidBase := fmt.Sprintf("%x", hash[:config.UIDHashLength])

	var events []*ical.Event
	isToday := false

	for _, y := range []int{currentYear - 1, currentYear, currentYear + 1} {
		if y < birth.Year() {
			continue
		}

		// Feb 29 becomes Mar 1 in non-leap years, like the birthdays report.
		eventDate := time.Date(y, birth.Month(), birth.Day(), 0, 0, 0, 0, loc)
		if y == todayYear && eventDate.Month() == todayMonth && eventDate.Day() == todayDay {
			isToday = true
		}

		event := ical.NewEvent()
		event.Props.SetText(config.PropUID, fmt.Sprintf(config.FormatUID, uidBase, y, config.ICalDomain))
		event.Props.SetText(config.PropSummary, g.summary(name, y-birth.Year()))

		dtStartProp := ical.NewProp(config.PropDTStart)
		dtStartProp.SetDate(eventDate)
		event.Props.Set(dtStartProp)

		events = append(events, event)
	}
	return events, isToday
}

func (g *Generator) summary(name string, age int) string {
	if g.FormatSummary != nil {
		return g.FormatSummary(name, age)
	}
	if age > 0 {
		return fmt.Sprintf(config.FallbackSummaryAge, name, age)
	}
	return fmt.Sprintf(config.FallbackSummary, name)
}
