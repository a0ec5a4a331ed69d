// Package server publishes the birthday calendar over HTTP on localhost, so a
// calendar client can subscribe to the address book.
package server

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/tartampluch/go-addressbook/internal/config"
)

// snapshot is one published calendar with its HTTP cache metadata.
type snapshot struct {
	data     []byte
	etag     string
	modified time.Time // truncated to seconds, the precision of HTTP dates
}

// FeedServer serves the latest published ICS snapshot.
// The session publishes whole snapshots; handlers never see the address book.
type FeedServer struct {
	current atomic.Pointer[snapshot]
	Port    string
}

// NewFeedServer creates a server for port. Nothing listens until Start.
func NewFeedServer(port string) *FeedServer {
	return &FeedServer{Port: port}
}

// Listen binds the localhost port. Port "0" picks a free one.
func (s *FeedServer) Listen() (net.Listener, error) {
	if s.Port == "" {
		return nil, errors.New(config.ErrPortRequired)
	}
	ln, err := net.Listen("tcp", net.JoinHostPort(config.LocalhostBind, s.Port))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
	return ln, nil
}

// Start binds the port and serves until ctx is cancelled.
// A busy port is reported right away.
func (s *FeedServer) Start(ctx context.Context) error {
	ln, err := s.Listen()
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve handles feed requests on ln until ctx is cancelled, then shuts down
// gracefully.
func (s *FeedServer) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	serveErr := make(chan error, config.ChannelBufferSize)
	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyPort, ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info(config.MsgServerStop, config.LogKeyComponent, config.CompServer)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: %w", config.ErrServerShutdown, err)
		}
		return nil

	case err := <-serveErr:
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
}

// Handler routes the feed at the root and at its file name; anything else is 404.
func (s *FeedServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(config.RouteRoot+"{$}", s.handleFeed)
	mux.HandleFunc(config.RouteFeed, s.handleFeed)
	return mux
}

// Publish atomically replaces the served calendar.
func (s *FeedServer) Publish(data []byte) {
	sum := sha256.Sum256(data)
	snap := &snapshot{
		data:     data,
		etag:     fmt.Sprintf(config.FormatETag, hex.EncodeToString(sum[:config.ETagHashLength])),
		modified: time.Now().UTC().Truncate(time.Second),
	}
	s.current.Store(snap)

	slog.Debug(config.MsgCacheUpdated,
		config.LogKeyComponent, config.CompServer,
		config.LogKeySizeBytes, len(data),
		config.LogKeyETag, snap.etag)
}

func (s *FeedServer) handleFeed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set(config.HeaderAllow, config.AllowedMethods)
		http.Error(w, config.HTTPMsgMethodNotAll, http.StatusMethodNotAllowed)
		return
	}

	snap := s.current.Load()
	if snap == nil {
		w.Header().Set(config.HeaderRetryAfter, config.RetryAfterSeconds)
		http.Error(w, config.HTTPMsgInitializing, http.StatusServiceUnavailable)
		return
	}

	h := w.Header()
	h.Set(config.HeaderContentType, config.MimeTextCalendar)
	h.Set(config.HeaderXContentType, config.MimeNoSniff)
	h.Set(config.HeaderCacheControl, config.CacheControlPrivate)
	h.Set(config.HeaderContentDisp, config.ContentDispFeed)
	h.Set(config.HeaderETag, snap.etag)
	h.Set(config.HeaderLastModified, snap.modified.Format(http.TimeFormat))

	if fresh(r, snap) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	if r.Method == http.MethodHead {
		return
	}
	if _, err := bytes.NewReader(snap.data).WriteTo(w); err != nil {
		slog.Error(config.ErrWriteResp,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err)
	}
}

// fresh reports whether the client copy is current. If-None-Match wins over
// If-Modified-Since when both are sent.
func fresh(r *http.Request, snap *snapshot) bool {
	if inm := r.Header.Get(config.HeaderIfNoneMatch); inm != "" {
		return etagMatches(inm, snap.etag)
	}

	since := r.Header.Get(config.HeaderIfModifiedSince)
	if since == "" {
		return false
	}
	t, err := http.ParseTime(since)
	if err != nil {
		return false
	}
	return !snap.modified.After(t)
}

// etagMatches applies the weak comparison of If-None-Match lists.
func etagMatches(header, etag string) bool {
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == etag {
			return true
		}
	}
	return false
}
