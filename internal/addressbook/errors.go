package addressbook

import (
	"errors"

	"github.com/tartampluch/go-addressbook/internal/config"
)

// Errors returned by value construction and collection operations.
// Callers match them with errors.Is.
var (
	ErrInvalidPhoneFormat = errors.New(config.ErrPhoneFormat)
	ErrInvalidDateFormat  = errors.New(config.ErrDateFormat)
	ErrBirthdayInFuture   = errors.New(config.ErrBirthFuture)
	ErrDuplicateContact   = errors.New(config.ErrDuplicateContact)
	ErrDuplicatePhone     = errors.New(config.ErrDuplicatePhone)
	ErrContactNotFound    = errors.New(config.ErrContactNotFound)
)
