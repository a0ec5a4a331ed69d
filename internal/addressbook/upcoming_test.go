package addressbook_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-addressbook/internal/addressbook"
)

type contact struct {
	name     string
	birthday string
}

func newBook(t *testing.T, now time.Time, contacts ...contact) *addressbook.AddressBook {
	t.Helper()
	b := addressbook.New(addressbook.WithClock(MockClock{CurrentTime: now}))
	for _, c := range contacts {
		r := addressbook.NewRecord(c.name)
		if c.birthday != "" {
			require.NoError(t, r.AddBirthday(c.birthday, now))
		}
		require.NoError(t, b.AddRecord(r))
	}
	return b
}

func day(y int, m time.Month, d int) string {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
}

func datesByName(list []addressbook.Congratulation) map[string]string {
	out := make(map[string]string, len(list))
	for _, c := range list {
		out[c.Name] = c.Date.Format("2006-01-02")
	}
	return out
}

// TestUpcomingBirthdays covers the 7-day window and the weekend shift.
// Reference "Now": Monday June 9th, 2025.
func TestUpcomingBirthdays(t *testing.T) {
	tests := []struct {
		name     string
		birthday string
		want     string // empty when the contact must not be reported
	}{
		{"today", "09.06.1990", day(2025, 6, 9)},
		{"in three days (Thursday)", "12.06.1990", day(2025, 6, 12)},
		{"Saturday moves to Monday", "14.06.1985", day(2025, 6, 16)},
		{"Sunday moves to Monday", "15.06.1985", day(2025, 6, 16)},
		{"exactly seven days", "16.06.1985", day(2025, 6, 16)},
		{"eight days is outside", "17.06.1985", ""},
		{"yesterday rolls to next year", "08.06.1990", ""},
		{"months away", "01.12.1990", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBook(t, refNow, contact{"X", tt.birthday})

			got := b.UpcomingBirthdays()

			if tt.want == "" {
				assert.Empty(t, got)
				return
			}
			require.Len(t, got, 1)
			assert.Equal(t, "X", got[0].Name)
			assert.Equal(t, tt.want, got[0].Date.Format("2006-01-02"))
		})
	}
}

func TestUpcomingBirthdays_InsertionOrder(t *testing.T) {
	// Later birthday inserted first: output must not be sorted by date.
	b := newBook(t, refNow,
		contact{"Late", "14.06.1980"},
		contact{"NoBirthday", ""},
		contact{"Early", "10.06.1980"},
		contact{"Far", "01.09.1980"},
	)

	got := b.UpcomingBirthdays()

	require.Len(t, got, 2)
	assert.Equal(t, "Late", got[0].Name)
	assert.Equal(t, "Early", got[1].Name)
}

func TestUpcomingBirthdays_EmptyNeverNil(t *testing.T) {
	b := newBook(t, refNow)

	got := b.UpcomingBirthdays()

	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestUpcomingBirthdays_YearBoundary(t *testing.T) {
	now := time.Date(2025, 12, 29, 9, 0, 0, 0, time.UTC) // Monday
	b := newBook(t, now,
		contact{"NewYear", "02.01.1990"},  // Friday Jan 2nd, 2026
		contact{"Weekend", "03.01.1990"},  // Saturday Jan 3rd, 2026
		contact{"TooLate", "06.01.1990"},  // 8 days away
		contact{"Passed", "28.12.1990"},   // yesterday
		contact{"Tomorrow", "30.12.1990"}, // Tuesday
	)

	got := datesByName(b.UpcomingBirthdays())

	assert.Equal(t, map[string]string{
		"NewYear":  day(2026, 1, 2),
		"Weekend":  day(2026, 1, 5),
		"Tomorrow": day(2025, 12, 30),
	}, got)
}

// TestUpcomingBirthdays_Leapling checks the Feb 29 fallback: in a non-leap year
// the occurrence is March 1st.
func TestUpcomingBirthdays_Leapling(t *testing.T) {
	t.Run("non-leap year uses March 1st", func(t *testing.T) {
		now := time.Date(2025, 2, 27, 9, 0, 0, 0, time.UTC) // Thursday
		b := newBook(t, now, contact{"Leap", "29.02.2000"})

		got := b.UpcomingBirthdays()

		require.Len(t, got, 1)
		// March 1st 2025 is a Saturday, congratulated on Monday March 3rd.
		assert.Equal(t, day(2025, 3, 3), got[0].Date.Format("2006-01-02"))
	})

	t.Run("leap year keeps February 29th", func(t *testing.T) {
		now := time.Date(2024, 2, 26, 9, 0, 0, 0, time.UTC)
		b := newBook(t, now, contact{"Leap", "29.02.2000"})

		got := b.UpcomingBirthdays()

		require.Len(t, got, 1)
		assert.Equal(t, day(2024, 2, 29), got[0].Date.Format("2006-01-02"))
	})
}

func TestUpcomingBirthdays_DateInClockLocation(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	now := time.Date(2025, 6, 9, 23, 30, 0, 0, loc)
	b := newBook(t, now, contact{"X", "10.06.1990"})

	got := b.UpcomingBirthdays()

	require.Len(t, got, 1)
	assert.Equal(t, loc, got[0].Date.Location())
	assert.Equal(t, 0, got[0].Date.Hour())
	assert.Equal(t, 10, got[0].Date.Day())
}
