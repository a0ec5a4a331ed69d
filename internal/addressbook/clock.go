package addressbook

import "time"

// Clock abstracts time.Now() to allow deterministic testing.
// The AddressBook uses it to decide what "today" is for the birthdays query.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the standard time package.
type RealClock struct{}

// Now returns the current local time.
func (RealClock) Now() time.Time {
	return time.Now()
}
