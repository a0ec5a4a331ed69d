package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/tartampluch/go-addressbook/internal/addressbook"
	"github.com/tartampluch/go-addressbook/internal/assistant"
	"github.com/tartampluch/go-addressbook/internal/config"
	"github.com/tartampluch/go-addressbook/internal/locale"
	"github.com/tartampluch/go-addressbook/internal/server"
	"github.com/tartampluch/go-addressbook/internal/storage"
	"github.com/zarlcorp/core/pkg/zapp"
	"golang.org/x/term"
)

// main is the application entry point.
// It delegates execution to runMain so that deferred calls (closing the log
// file, stopping the feed server) run before the process exits.
func main() {
	os.Exit(runMain())
}

// runMain manages the application lifecycle and exit codes.
// The log file and the calendar feed are tracked by app and released by its
// Close once the session is over.
func runMain() int {
	app := zapp.New(zapp.WithName(config.AppCommand))

	// Cancels on SIGINT/SIGTERM; the session saves the book on the way out.
	ctx, cancel := zapp.SignalContext(context.Background())
	defer cancel()

	code := config.ExitCodeSuccess
	root := newRootCmd(app, os.Stdin, os.Stdout)
	if err := root.ExecuteContext(ctx); err != nil {
		slog.Error(config.ErrAppFailed,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err,
		)
		fmt.Fprintln(os.Stderr, err)
		code = config.ExitCodeError
	} else {
		slog.Info(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
	}

	if err := app.Close(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return config.ExitCodeError
	}
	return code
}

// cliOptions holds the raw flag values. They only override the settings file
// when given explicitly.
type cliOptions struct {
	dataFile   string
	lang       string
	port       string
	configPath string
	debug      bool
}

func newRootCmd(app *zapp.App, stdin io.Reader, stdout io.Writer) *cobra.Command {
	var opts cliOptions

	root := &cobra.Command{
		Use:           config.AppCommand,
		Short:         config.CmdShort,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, err := resolveSettings(cmd, opts)
			if err != nil {
				return err
			}

			if logCloser := setupLogging(settings.Debug); logCloser != nil {
				app.Track(logCloser)
			}
			logStartupInfo(settings)

			return run(cmd.Context(), app, settings, stdin, stdout)
		},
	}

	root.Flags().StringVar(&opts.dataFile, config.FlagFile, config.DefaultDataFile, config.FlagDescFile)
	root.Flags().StringVar(&opts.lang, config.FlagLang, config.DefaultLanguage, config.FlagDescLang)
	root.Flags().StringVar(&opts.port, config.FlagServe, config.DefaultPort, config.FlagDescServe)
	root.Flags().StringVar(&opts.configPath, config.FlagConfig, "", config.FlagDescConfig)
	root.Flags().BoolVar(&opts.debug, config.FlagDebug, false, config.FlagDescDebug)

	root.AddCommand(&cobra.Command{
		Use:   config.CmdVersionUse,
		Short: config.CmdVersionShort,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			printVersion(cmd.OutOrStdout())
		},
	})

	return root
}

// resolveSettings layers explicit flags over the settings file over defaults.
func resolveSettings(cmd *cobra.Command, opts cliOptions) (config.Settings, error) {
	path := opts.configPath
	if path == "" {
		p, err := config.DefaultSettingsPath()
		if err != nil {
			slog.Debug(config.ErrConfigDir,
				config.LogKeyComponent, config.CompConfig,
				config.LogKeyError, err)
		}
		path = p
	}

	settings, err := config.LoadSettings(path)
	if err != nil {
		return settings, err
	}

	flags := cmd.Flags()
	if flags.Changed(config.FlagFile) {
		settings.DataFile = opts.dataFile
	}
	if flags.Changed(config.FlagLang) {
		settings.Language = opts.lang
	}
	if flags.Changed(config.FlagServe) {
		settings.ServePort = opts.port
	}
	if flags.Changed(config.FlagDebug) {
		settings.Debug = opts.debug
	}

	if err := settings.Validate(); err != nil {
		return settings, err
	}

	slog.Debug(config.MsgSettings,
		config.LogKeyComponent, config.CompConfig,
		config.LogKeyFile, settings.DataFile,
		config.LogKeyLang, settings.Language,
		config.LogKeyPort, settings.ServePort)
	return settings, nil
}

// run wires the book, the optional calendar feed and the session together and
// blocks until the session ends.
func run(ctx context.Context, app *zapp.App, settings config.Settings, stdin io.Reader, stdout io.Writer) error {
	tr := locale.New(settings.Language)
	store := storage.NewFileStore(settings.DataFile)
	book := assistant.LoadBook(store, addressbook.RealClock{}, tr, stdout)

	var opts []assistant.Option
	if settings.ServePort != "" {
		feed, err := startFeed(ctx, settings.ServePort)
		if err != nil {
			slog.Error(config.ErrServerStartup,
				config.LogKeyComponent, config.CompMain,
				config.LogKeyPort, settings.ServePort,
				config.LogKeyError, err)
			_, _ = fmt.Fprintln(stdout, tr.T(config.TKeyServeFailed, map[string]any{"Port": settings.ServePort}))
		} else {
			app.Track(zapp.CloserFunc(feed.stop))
			opts = append(opts, assistant.WithPublisher(feed.srv))
			_, _ = fmt.Fprintln(stdout, tr.T(config.TKeyServeStarted, map[string]any{"Port": settings.ServePort}))
		}
	}

	a := assistant.New(book, store, tr, opts...)
	a.Refresh()

	session := &assistant.Session{Assistant: a, Prompt: isTerminal(stdin)}
	if session.Prompt && isTerminal(stdout) {
		session.Styles = assistant.DefaultStyles()
	}
	return session.Run(ctx, stdin, stdout)
}

// runningFeed is a calendar feed serving in the background.
type runningFeed struct {
	srv    *server.FeedServer
	cancel context.CancelFunc
	done   chan struct{}
}

// stop shuts the feed down and waits for it.
func (f *runningFeed) stop() error {
	f.cancel()
	<-f.done
	return nil
}

// startFeed binds port synchronously, so a busy port is reported before the
// session starts, then serves in the background.
func startFeed(ctx context.Context, port string) (*runningFeed, error) {
	feed := server.NewFeedServer(port)
	ln, err := feed.Listen()
	if err != nil {
		return nil, err
	}

	serverCtx, cancel := context.WithCancel(ctx)
	f := &runningFeed{srv: feed, cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(f.done)
		if err := feed.Serve(serverCtx, ln); err != nil {
			slog.Error(config.ErrServerShutdown,
				config.LogKeyComponent, config.CompMain,
				config.LogKeyError, err)
		}
	}()
	return f, nil
}

// isTerminal reports whether v is an interactive terminal.
func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// printVersion outputs the build information.
func printVersion(w io.Writer) {
	_, _ = fmt.Fprintf(w, config.MsgVersionOutput,
		config.AppName,
		config.Version,
		config.Commit,
		config.Date,
		runtime.GOOS,
		runtime.GOARCH,
	)
}

// logStartupInfo logs environment details useful for debugging.
func logStartupInfo(settings config.Settings) {
	slog.Info(config.MsgAppStarting,
		config.LogKeyComponent, config.CompMain,
		slog.Group(config.LogKeyBuild,
			slog.String(config.LogKeyApp, config.AppName),
			slog.String(config.LogKeyVersion, config.Version),
			slog.String(config.LogKeyGoVer, runtime.Version()),
		),
		slog.Group(config.LogKeyEnv,
			slog.String(config.LogKeyOS, runtime.GOOS),
			slog.String(config.LogKeyArch, runtime.GOARCH),
			slog.Int(config.LogKeyPID, os.Getpid()),
		),
		config.LogKeyFile, settings.DataFile,
		config.LogKeyLang, settings.Language,
	)
}

// setupLogging configures the default slog logger.
// Stdout belongs to the session, so logs go to the cache-dir file and, in
// debug mode, to stderr.
func setupLogging(debugMode bool) io.Closer {
	var writers []io.Writer
	var logFile *os.File

	if logPath, err := getLogFilePath(); err == nil {
		// O_TRUNC resets logs on restart to prevent indefinite growth.
		f, err := os.OpenFile(logPath, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, config.FilePermUserRW)
		if err == nil {
			writers = append(writers, f)
			logFile = f
		} else {
			fmt.Fprintf(os.Stderr, config.MsgLogWarning, config.ErrLogFile, logPath, err)
		}
	} else if debugMode {
		fmt.Fprintf(os.Stderr, config.MsgLogWarning, config.ErrLogFile, config.LogFileName, err)
	}

	level := slog.LevelInfo
	if debugMode {
		level = slog.LevelDebug
		writers = append(writers, os.Stderr)
	}
	if len(writers) == 0 {
		writers = append(writers, io.Discard)
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: debugMode,
	}

	logger := slog.New(slog.NewJSONHandler(io.MultiWriter(writers...), opts))
	slog.SetDefault(logger)

	if logFile == nil {
		return nil
	}
	return logFile
}

// getLogFilePath determines the platform-specific cache directory for logs.
func getLogFilePath() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCacheDir, err)
	}
	if cacheDir == "" {
		return "", errors.New(config.ErrCacheDir)
	}

	appDir := filepath.Join(cacheDir, config.AppID)

	// Ensure the directory exists with restricted permissions (700).
	if err := os.MkdirAll(appDir, config.DirPermUserRWX); err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}

	return filepath.Join(appDir, config.LogFileName), nil
}
