package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-addressbook/internal/config"
)

// TestConstants_Integrity ensures critical constants are not empty or malformed.
func TestConstants_Integrity(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"AppName", config.AppName},
		{"AppID", config.AppID},
		{"Version", config.Version},
		{"UserAgent", config.UserAgent},
		{"DefaultDataFile", config.DefaultDataFile},
		{"ICalProdid", config.ICalProdid},
		{"VCardVersion", config.VCardVersion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEmpty(t, tt.value, "Critical constant %s should not be empty", tt.name)
		})
	}
}

// TestDefaults_Sanity checks that default values make sense logically.
func TestDefaults_Sanity(t *testing.T) {
	assert.Equal(t, 7, config.UpcomingWindowDays)
	assert.Equal(t, 10, config.PhoneDigits)
	assert.Contains(t, config.SupportedLanguages, config.DefaultLanguage)

	// The birthday layout must render DD.MM.YYYY.
	d := time.Date(1990, time.March, 4, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "04.03.1990", d.Format(config.DateFormatBirthday))
}

func TestUserAgent_Format(t *testing.T) {
	assert.True(t, strings.HasPrefix(config.UserAgent, "Go-AddressBook/"), "UserAgent must start with AppName/")
}

func TestTimeoutsAndLimits(t *testing.T) {
	t.Parallel()

	assert.Greater(t, config.HTTPTimeout, 0*time.Second, "HTTPTimeout must be positive")
	assert.LessOrEqual(t, config.HTTPTimeout, 2*time.Minute, "HTTPTimeout should not be excessively long")
	assert.Greater(t, config.ShutdownTimeout, 0*time.Second, "ShutdownTimeout must be positive")
	assert.Greater(t, config.MaxHTTPResponseSize, 0, "MaxHTTPResponseSize must be positive")
}

func TestLoadSettings_MissingFileGivesDefaults(t *testing.T) {
	s, err := config.LoadSettings(filepath.Join(t.TempDir(), "absent.yaml"))

	require.NoError(t, err)
	assert.Equal(t, config.DefaultSettings(), s)
}

func TestLoadSettings_EmptyPathGivesDefaults(t *testing.T) {
	s, err := config.LoadSettings("")

	require.NoError(t, err)
	assert.Equal(t, config.DefaultDataFile, s.DataFile)
}

func TestLoadSettings_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "data_file: /tmp/contacts.vcf\nlanguage: uk\nserve_port: \"18081\"\ndebug: true\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	s, err := config.LoadSettings(path)

	require.NoError(t, err)
	assert.Equal(t, "/tmp/contacts.vcf", s.DataFile)
	assert.Equal(t, "uk", s.Language)
	assert.Equal(t, "18081", s.ServePort)
	assert.True(t, s.Debug)
}

func TestLoadSettings_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("debug: true\n"), 0o600))

	s, err := config.LoadSettings(path)

	require.NoError(t, err)
	assert.Equal(t, config.DefaultDataFile, s.DataFile)
	assert.Equal(t, config.DefaultLanguage, s.Language)
}

func TestLoadSettings_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{"broken yaml", "data_file: [unterminated\n", config.ErrSettingsParse},
		{"bad port", "serve_port: \"http\"\n", config.ErrPortNumber},
		{"port out of range", "serve_port: \"70000\"\n", config.ErrPortRange},
		{"unknown language", "language: xx\n", config.ErrLangUnsupport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			_, err := config.LoadSettings(path)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestValidatePort(t *testing.T) {
	assert.NoError(t, config.ValidatePort("18080"))
	assert.EqualError(t, config.ValidatePort(""), config.ErrPortRequired)
	assert.EqualError(t, config.ValidatePort("0"), config.ErrPortRange)
	assert.EqualError(t, config.ValidatePort("abc"), config.ErrPortNumber)
}
