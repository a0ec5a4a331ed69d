package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// UserAgent identifies the HTTP client used for remote vCard imports.
var UserAgent = "Go-AddressBook/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName         = "Go AddressBook"
	AppID           = "com.github.tartampluch.go-addressbook"
	AppCommand      = "go-addressbook"
	KeyringService  = "com.github.tartampluch.go-addressbook"
	LocalhostBind   = "127.0.0.1"
	LogFileName     = "app.log"
	SettingsDirName = "go-addressbook"
	SettingsFile    = "config.yaml"

	// DefaultDataFile is the address book file used when neither the settings
	// file nor the command line names one. Relative to the working directory.
	DefaultDataFile = "book.vcf"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	// Used for the address book, exported calendars and logs.
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// CLI Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagDebug      = "debug"
	FlagFile       = "file"
	FlagLang       = "lang"
	FlagServe      = "serve"
	FlagConfig     = "config"
	FlagDescDebug  = "Enable debug logging to stderr"
	FlagDescFile   = "Path of the address book file"
	FlagDescLang   = "Language of the assistant replies (en, uk)"
	FlagDescServe  = "Serve the birthday calendar on this localhost port"
	FlagDescConfig = "Path of the YAML settings file"

	CmdShort         = "Contact manager with birthday reminders"
	CmdVersionUse    = "version"
	CmdVersionShort  = "Show application version and exit"
	MsgVersionOutput = "%s version %s, commit %s, built %s (%s/%s)\n"
)

// -----------------------------------------------------------------------------
// Assistant Verbs
// -----------------------------------------------------------------------------

const (
	VerbHello        = "hello"
	VerbHi           = "hi"
	VerbAdd          = "add"
	VerbChange       = "change"
	VerbPhone        = "phone"
	VerbAll          = "all"
	VerbAddBirthday  = "add-birthday"
	VerbShowBirthday = "show-birthday"
	VerbBirthdays    = "birthdays"
	VerbDelete       = "delete"
	VerbExportICS    = "export-ics"
	VerbImport       = "import"
	VerbImportLogin  = "import-login"
	VerbHelp         = "help"
	VerbClose        = "close"
	VerbExit         = "exit"
)

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyWelcome        = "welcome"
	TKeyPrompt         = "prompt"
	TKeyGreeting       = "greeting"
	TKeyGoodbye        = "goodbye"
	TKeyInvalidCommand = "invalid_command"
	TKeyHelp           = "help"

	TKeyContactAdded    = "contact_added"
	TKeyContactUpdated  = "contact_updated"
	TKeyContactDeleted  = "contact_deleted"
	TKeyContactsEmpty   = "contacts_empty"
	TKeyNoPhones        = "no_phones"
	TKeyBirthdayAdded   = "birthday_added"   // Requires Name
	TKeyBirthdayShow    = "birthday_show"    // Requires Name, Date
	TKeyBirthdayNotSet  = "birthday_not_set" // Requires Name
	TKeyNoUpcoming      = "no_upcoming"
	TKeyCongratulate    = "congratulate" // Requires Name, Date
	TKeyCalendarExport  = "calendar_exported"
	TKeyImportDone      = "import_done" // Requires Added, Skipped
	TKeyImportLoginDone = "import_login_saved"

	TKeyLoading       = "loading"
	TKeyLoaded        = "loaded" // Requires Count
	TKeyLoadNotFound  = "load_not_found"
	TKeyLoadCorrupt   = "load_corrupt" // Requires File
	TKeySaving        = "saving"
	TKeySaveDone      = "save_done"
	TKeySaveFailed    = "save_failed"
	TKeyServeStarted  = "serve_started" // Requires Port
	TKeyServeFailed   = "serve_failed"  // Requires Port
	TKeyEvtSummary    = "event_summary"
	TKeyEvtSummaryAge = "event_summary_age"

	// Error replies
	TKeyErrNotEnoughArgs = "err_not_enough_args"
	TKeyErrPhoneFormat   = "err_phone_format"
	TKeyErrDateFormat    = "err_date_format"
	TKeyErrBirthFuture   = "err_birth_future"
	TKeyErrDuplicate     = "err_duplicate_contact"
	TKeyErrDupPhone      = "err_duplicate_phone"
	TKeyErrNotFound      = "err_contact_not_found"
	TKeyErrExport        = "err_export"
	TKeyErrImport        = "err_import"
	TKeyErrKeyring       = "err_keyring"
)

// -----------------------------------------------------------------------------
// Default Values & Business Logic
// -----------------------------------------------------------------------------

const (
	DefaultLanguage = "en"
	DefaultPort     = ""

	// UpcomingWindowDays is the inclusive lookahead of the birthdays query.
	UpcomingWindowDays = 7

	// PhoneDigits is the exact length of a valid phone number.
	PhoneDigits = 10

	// UIDSalt seeds deterministic calendar event identifiers.
	UIDSalt = "go-addressbook-v1-"
)

// SupportedLanguages defines the list of available reply languages (ISO 639-1).
var SupportedLanguages = []string{"en", "uk"}

// -----------------------------------------------------------------------------
// Standards: iCalendar & vCard
// -----------------------------------------------------------------------------

const (
	// iCal Properties
	ICalVersion = "2.0"
	ICalProdid  = "-//Go AddressBook//Calendar//EN"
	ICalCalName = "Birthdays"
	ICalMethod  = "PUBLISH"
	ICalScale   = "GREGORIAN"
	ICalDomain  = "goaddressbook"

	PropUID        = "UID"
	PropSummary    = "SUMMARY"
	PropDTStart    = "DTSTART"
	PropDTStamp    = "DTSTAMP"
	PropRefresh    = "REFRESH-INTERVAL"
	PropVersion    = "VERSION"
	PropProdid     = "PRODID"
	PropXWRCalName = "X-WR-CALNAME"
	PropCalScale   = "CALSCALE"
	PropMethod     = "METHOD"

	// VCardVersion is written on every saved card.
	VCardVersion = "4.0"

	DefaultICalRefresh = 1 * time.Hour
)

// -----------------------------------------------------------------------------
// Data Formats, Limits & File Extensions
// -----------------------------------------------------------------------------

const (
	// DateFormatBirthday is the DD.MM.YYYY layout users type and read.
	DateFormatBirthday = "02.01.2006"

	// Date layouts accepted for vCard BDAY fields.
	DateFormatFullDash  = "2006-01-02"
	DateFormatFullBasic = "20060102"
	DateFormatRFC3339   = time.RFC3339
	DateFormatFullT     = "2006-01-02T15:04:05Z"

	// Limits
	MinPort = 1
	MaxPort = 65535

	// UID Generation
	UIDHashLength   = 16
	FormatHashInput = "%s|%s|%s"
	FormatUID       = "%s-%d@%s"

	// Rendering
	PhoneSeparator     = "; "
	PhoneListSeparator = ", "
	FormatRecord       = "Contact name: %s%s%s"
	FormatRecordPhones = ", phones: %s"
	RecordNoPhones     = ", has no phones"
	RecordNoBirthday   = ", birthday not set"
	FormatRecordBday   = ", %s"

	ExtICS = ".ics"
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	HTTPTimeout         = 30 * time.Second
	ShutdownTimeout     = 5 * time.Second
	ServerReadTimeout   = 10 * time.Second
	ServerWriteTimeout  = 30 * time.Second
	ServerIdleTimeout   = 60 * time.Second
	RetryAfterSeconds   = "10"
	AllowedMethods      = "GET, HEAD"
	MaxHTTPResponseSize = 16 * 1024 * 1024 // 16MB of vCards is plenty for a personal book
	SchemeHTTP          = "http"
	SchemeHTTPS         = "https"
	RouteRoot           = "/"
	RouteFeed           = "/birthdays.ics"
	ETagHashLength      = 16
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType     = "Content-Type"
	HeaderCacheControl    = "Cache-Control"
	HeaderETag            = "ETag"
	HeaderLastModified    = "Last-Modified"
	HeaderRetryAfter      = "Retry-After"
	HeaderAllow           = "Allow"
	HeaderXContentType    = "X-Content-Type-Options"
	HeaderUserAgent       = "User-Agent"
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"
	HeaderAccept          = "Accept"
	HeaderContentDisp     = "Content-Disposition"

	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeVCard           = "text/vcard, text/x-vcard;q=0.9, */*;q=0.5"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"
	ContentDispFeed     = `inline; filename="birthdays.ics"`

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
)

// -----------------------------------------------------------------------------
// Error Messages (Domain)
// -----------------------------------------------------------------------------

const (
	ErrPhoneFormat      = "wrong phone number format"
	ErrDateFormat       = "invalid date format, use DD.MM.YYYY"
	ErrBirthFuture      = "birth date can't be in the future"
	ErrDuplicateContact = "contact already exist"
	ErrDuplicatePhone   = "phone already added"
	ErrContactNotFound  = "contact not found"
	ErrNotEnoughArgs    = "not enough arguments"
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrCorruptData    = "address book file is corrupted"
	ErrVCardParse     = "failed to parse vCard stream"
	ErrNoVCard        = "no vCard found in non-empty file"
	ErrVCardEncode    = "failed to encode vCard data"
	ErrICalEncode     = "failed to encode iCalendar data"
	ErrDateParse      = "unable to parse date"
	ErrReadData       = "failed to read address book"
	ErrWriteData      = "failed to write address book"
	ErrSourceEmpty    = "import source is empty"
	ErrReadSource     = "failed to read import source"
	ErrFetcherMissing = "internal error: network fetcher is not initialized"
	ErrServerStartup  = "server startup failed"
	ErrServerShutdown = "server shutdown failed"
	ErrPortRequired   = "server port is required"
	ErrPortNumber     = "server port must be a number"
	ErrPortRange      = "server port must be between 1 and 65535"
	ErrLangUnsupport  = "unsupported language"
	ErrInvalidURL     = "invalid URL structure"
	ErrProtocol       = "unsupported protocol scheme (http/https only)"
	ErrLogFile        = "failed to open log file"
	ErrCacheDir       = "could not determine user cache dir"
	ErrCreateDir      = "could not create app cache dir"
	ErrConfigDir      = "could not determine user config dir"
	ErrSettingsRead   = "failed to read settings file"
	ErrSettingsParse  = "failed to parse settings file"
	ErrAppFailed      = "application failed unexpectedly"
	ErrWriteResp      = "failed to write response body"
	ErrLocalesAccess  = "failed to access embedded locales"
	ErrLocaleLoad     = "failed to load locale file"
	ErrExportWrite    = "failed to write calendar file"
	ErrKeyringSet     = "failed to store credentials in keyring"
	ErrFetchRequest   = "failed to create request"
	ErrFetchNetwork   = "network error during fetch"
	ErrFetchStatus    = "server returned unexpected status"

	ErrResponseTooLarge = "remote vCard stream exceeds the size limit"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgInitializing = "Calendar initializing, please try again shortly."
	HTTPMsgMethodNotAll = "Method Not Allowed"
)

// -----------------------------------------------------------------------------
// Fallbacks & Log Messages
// -----------------------------------------------------------------------------

const (
	FallbackSummary    = "Birthday: %s"
	FallbackSummaryAge = "Birthday: %s (%d)"

	// StubVCalendar is the minimal valid iCalendar object used when no events are found.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"

	MsgAppStarting   = "Starting application"
	MsgAppStop       = "Application stopped gracefully"
	MsgCtxCancel     = "Context cancelled, closing session"
	MsgSessionStart  = "Session started"
	MsgCommand       = "Command handled"
	MsgCommandFailed = "Command failed"
	MsgBookLoaded    = "Address book loaded"
	MsgBookMissing   = "Address book file not found, starting empty"
	MsgBookCorrupt   = "Address book file unreadable, starting empty"
	MsgBookSaved     = "Address book saved"
	MsgBookSaveFail  = "Address book save failed"
	MsgSkippedCard   = "Skipping malformed vCard"
	MsgSkippedPhone  = "Skipping invalid phone"
	MsgSkippedDate   = "Skipping invalid date format"
	MsgSkippedDup    = "Skipping existing contact"
	MsgImportDone    = "Import finished"
	MsgFetchStart    = "Initiating vCard download"
	MsgFetchStatus   = "Server returned error status"
	MsgGenSuccess    = "Calendar generation successful"
	MsgServerListen  = "HTTP server listening"
	MsgServerStop    = "Shutting down HTTP server..."
	MsgCacheUpdated  = "Calendar cache updated"
	MsgLocaleSkip    = "Skipping non-locale file"
	MsgLocaleBadName = "Skipping malformed locale filename"
	MsgLocaleLoaded  = "Locale loaded successfully"
	MsgTransMissing  = "Missing translation key"
	MsgPassFail      = "Password retrieval failed (might be empty)"
	MsgLogWarning    = "Warning: %s at %s: %v\n"
	MsgSettings      = "Settings resolved"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyURL       = "url"
	LogKeyStatus    = "status_code"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyPort      = "port"
	LogKeyUser      = "user"
	LogKeyVerb      = "verb"
	LogKeyArgs      = "args"
	LogKeyName      = "name"
	LogKeyValue     = "value"
	LogKeyCount     = "count"
	LogKeyAdded     = "added"
	LogKeySkipped   = "skipped"
	LogKeyEvents    = "events"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyDuration  = "duration_ms"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompMain      = "main"
	CompAssistant = "assistant"
	CompStorage   = "storage"
	CompFetcher   = "fetcher"
	CompCalendar  = "calendar"
	CompServer    = "server"
	CompI18n      = "i18n"
	CompConfig    = "config"
)
