package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Settings holds the user-tunable part of the configuration.
// Every field can be set in the YAML settings file and overridden by a flag.
type Settings struct {
	// DataFile is the address book location. Passed explicitly to storage.
	DataFile string `yaml:"data_file"`

	// Language selects the reply locale (see SupportedLanguages).
	Language string `yaml:"language"`

	// ServePort enables the calendar feed when non-empty.
	ServePort string `yaml:"serve_port"`

	Debug bool `yaml:"debug"`
}

// DefaultSettings returns the settings used when no file exists.
func DefaultSettings() Settings {
	return Settings{
		DataFile:  DefaultDataFile,
		Language:  DefaultLanguage,
		ServePort: DefaultPort,
	}
}

// DefaultSettingsPath returns <UserConfigDir>/go-addressbook/config.yaml.
func DefaultSettingsPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", ErrConfigDir, err)
	}
	return filepath.Join(dir, SettingsDirName, SettingsFile), nil
}

// LoadSettings reads a YAML settings file on top of the defaults.
// A missing file is not an error: the defaults are returned as is.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return s, fmt.Errorf("%s: %w", ErrSettingsRead, err)
	}

	if err := yaml.Unmarshal(data, &s); err != nil {
		return DefaultSettings(), fmt.Errorf("%s: %w", ErrSettingsParse, err)
	}

	// Empty keys in the file keep their defaults.
	if s.DataFile == "" {
		s.DataFile = DefaultDataFile
	}
	if s.Language == "" {
		s.Language = DefaultLanguage
	}

	return s, s.Validate()
}

// Validate checks the language and, when set, the feed port.
func (s Settings) Validate() error {
	if !slices.Contains(SupportedLanguages, s.Language) {
		return fmt.Errorf("%s: %q", ErrLangUnsupport, s.Language)
	}
	if s.ServePort == "" {
		return nil
	}
	return ValidatePort(s.ServePort)
}

// ValidatePort checks that port is a number within MinPort..MaxPort.
func ValidatePort(port string) error {
	if port == "" {
		return errors.New(ErrPortRequired)
	}
	n, err := strconv.Atoi(port)
	if err != nil {
		return errors.New(ErrPortNumber)
	}
	if n < MinPort || n > MaxPort {
		return errors.New(ErrPortRange)
	}
	return nil
}
