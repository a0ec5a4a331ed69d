package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/tartampluch/go-addressbook/internal/config"
)

// ErrResponseTooLarge is returned while reading a remote vCard stream that
// exceeds config.MaxHTTPResponseSize.
var ErrResponseTooLarge = errors.New(config.ErrResponseTooLarge)

// VCardFetcher retrieves a remote vCard stream (CardDAV export, shared .vcf).
type VCardFetcher interface {
	Fetch(ctx context.Context, url, user, pass string) (io.ReadCloser, error)
}

// HTTPFetcher downloads vCards over HTTP(S).
type HTTPFetcher struct {
	Client *http.Client

	// MaxBytes caps the body; zero means config.MaxHTTPResponseSize.
	MaxBytes int64
}

// NewHTTPFetcher returns a fetcher with the import timeout.
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{
		Client: &http.Client{Timeout: config.HTTPTimeout},
	}
}

// Fetch downloads targetURL. Explicit credentials win over ones embedded in
// the URL. The returned body fails with ErrResponseTooLarge past the size cap.
func (f *HTTPFetcher) Fetch(ctx context.Context, targetURL, user, pass string) (io.ReadCloser, error) {
	u, err := url.Parse(targetURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrInvalidURL, err)
	}
	if u.Scheme != config.SchemeHTTP && u.Scheme != config.SchemeHTTPS {
		return nil, fmt.Errorf("%s: %s", config.ErrProtocol, u.Scheme)
	}

	if user == "" && u.User != nil {
		user = u.User.Username()
		pass, _ = u.User.Password()
	}

	log := slog.With(
		config.LogKeyComponent, config.CompFetcher,
		config.LogKeyURL, redactURL(u),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrFetchRequest, err)
	}
	req.Header.Set(config.HeaderUserAgent, config.UserAgent)
	req.Header.Set(config.HeaderAccept, config.MimeVCard)
	if user != "" || pass != "" {
		req.SetBasicAuth(user, pass)
	}

	log.Debug(config.MsgFetchStart)
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrFetchNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		log.Warn(config.MsgFetchStatus, config.LogKeyStatus, resp.StatusCode)
		return nil, fmt.Errorf("%s: %s", config.ErrFetchStatus, resp.Status)
	}

	limit := f.MaxBytes
	if limit <= 0 {
		limit = config.MaxHTTPResponseSize
	}
	return &cappedBody{body: resp.Body, left: limit}, nil
}

// redactURL drops credentials and the query, which may carry tokens.
func redactURL(u *url.URL) string {
	return u.Scheme + "://" + u.Host + u.Path
}

// cappedBody reads at most left bytes and reports an error, rather than a
// silent truncation, when the stream is longer.
type cappedBody struct {
	body io.ReadCloser
	left int64
}

func (c *cappedBody) Read(p []byte) (int, error) {
	if c.left <= 0 {
		// One probe byte tells a stream that ends exactly at the cap from a longer one.
		var probe [1]byte
		n, err := c.body.Read(probe[:])
		if n > 0 {
			return 0, ErrResponseTooLarge
		}
		if err == nil {
			return 0, nil
		}
		return 0, err
	}
	if int64(len(p)) > c.left {
		p = p[:c.left]
	}
	n, err := c.body.Read(p)
	c.left -= int64(n)
	return n, err
}

func (c *cappedBody) Close() error {
	return c.body.Close()
}
