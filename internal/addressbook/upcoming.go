package addressbook

import (
	"time"

	"github.com/tartampluch/go-addressbook/internal/config"
)

const hoursPerDay = 24

// Congratulation is one entry of the upcoming-birthdays report.
type Congratulation struct {
	Name string

	// Date is the day the birthday should be acknowledged, at local midnight.
	// Weekend birthdays are moved to the following Monday.
	Date time.Time
}

// UpcomingBirthdays lists the contacts whose next birthday is at most
// config.UpcomingWindowDays days away, today included.
// Results follow the insertion order of the book, not the date order.
func (b *AddressBook) UpcomingBirthdays() []Congratulation {
	now := b.clock.Now()
	loc := now.Location()
	today := calendarDay(now)

	result := []Congratulation{}
	for _, r := range b.Records() {
		bday, ok := r.Birthday()
		if !ok {
			continue
		}

		next := nextOccurrence(today, bday.Date())
		if daysBetween(today, next) > config.UpcomingWindowDays {
			continue
		}

		next = skipWeekend(next)
		result = append(result, Congratulation{
			Name: r.Name(),
			Date: time.Date(next.Year(), next.Month(), next.Day(), 0, 0, 0, 0, loc),
		})
	}
	return result
}

// calendarDay drops the clock time and zone, keeping the local calendar date.
// Arithmetic runs in UTC so DST transitions never skew day counts.
func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// nextOccurrence returns this year's anniversary of birth, or next year's when
// it is strictly before today. time.Date normalizes Feb 29 to Mar 1 in
// non-leap years.
func nextOccurrence(today, birth time.Time) time.Time {
	candidate := time.Date(today.Year(), birth.Month(), birth.Day(), 0, 0, 0, 0, time.UTC)
	if candidate.Before(today) {
		candidate = time.Date(today.Year()+1, birth.Month(), birth.Day(), 0, 0, 0, 0, time.UTC)
	}
	return candidate
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / hoursPerDay)
}

// skipWeekend moves Saturday and Sunday to the following Monday.
func skipWeekend(d time.Time) time.Time {
	switch d.Weekday() {
	case time.Saturday:
		return d.AddDate(0, 0, 2)
	case time.Sunday:
		return d.AddDate(0, 0, 1)
	default:
		return d
	}
}
