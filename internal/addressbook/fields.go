package addressbook

import (
	"fmt"
	"time"

	"github.com/tartampluch/go-addressbook/internal/config"
)

// Name identifies a contact. It is the key of the AddressBook.
type Name struct {
	value string
}

// NewName wraps value. It never fails.
func NewName(value string) Name {
	return Name{value: value}
}

func (n Name) String() string { return n.value }

// Phone is a validated phone number of exactly config.PhoneDigits ASCII digits.
// The zero value is not a valid phone; use NewPhone.
type Phone struct {
	value string
}

// NewPhone validates value and returns ErrInvalidPhoneFormat when it is not
// exactly ten ASCII digits.
func NewPhone(value string) (Phone, error) {
	if len(value) != config.PhoneDigits {
		return Phone{}, ErrInvalidPhoneFormat
	}
	for i := 0; i < len(value); i++ {
		if value[i] < '0' || value[i] > '9' {
			return Phone{}, ErrInvalidPhoneFormat
		}
	}
	return Phone{value: value}, nil
}

func (p Phone) String() string { return p.value }

// Birthday is a calendar date (local midnight) that is not in the future.
type Birthday struct {
	date time.Time
}

// NewBirthday parses value as DD.MM.YYYY in the location of now.
// It returns ErrInvalidDateFormat when the text does not match the layout or is
// not a real date, and ErrBirthdayInFuture when the date is after now.
func NewBirthday(value string, now time.Time) (Birthday, error) {
	date, err := time.ParseInLocation(config.DateFormatBirthday, value, now.Location())
	if err != nil {
		return Birthday{}, fmt.Errorf("%w: %q", ErrInvalidDateFormat, value)
	}
	if date.After(now) {
		return Birthday{}, ErrBirthdayInFuture
	}
	return Birthday{date: date}, nil
}

// Date returns the stored date at midnight.
func (b Birthday) Date() time.Time { return b.date }

// String renders the date as DD.MM.YYYY regardless of locale.
func (b Birthday) String() string {
	return b.date.Format(config.DateFormatBirthday)
}
