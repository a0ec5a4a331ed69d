package storage

import (
	"fmt"
	"log/slog"

	"github.com/tartampluch/go-addressbook/internal/config"
	"github.com/zalando/go-keyring"
)

// KeyringCredentials keeps remote import passwords in the OS keyring,
// one entry per user name under config.KeyringService.
type KeyringCredentials struct{}

// Password returns the stored password for user, or "" when none is stored.
func (KeyringCredentials) Password(user string) string {
	if user == "" {
		return ""
	}
	p, err := keyring.Get(config.KeyringService, user)
	if err != nil {
		slog.Debug(config.MsgPassFail,
			config.LogKeyComponent, config.CompStorage,
			config.LogKeyUser, user,
			config.LogKeyError, err)
		return ""
	}
	return p
}

// SetPassword stores pass for user.
func (KeyringCredentials) SetPassword(user, pass string) error {
	if err := keyring.Set(config.KeyringService, user, pass); err != nil {
		return fmt.Errorf("%s: %w", config.ErrKeyringSet, err)
	}
	return nil
}
