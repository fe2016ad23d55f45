// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/danielhkuo/payshoff/auth"
	"github.com/danielhkuo/payshoff/middleware"
	"github.com/danielhkuo/payshoff/models"
	"github.com/danielhkuo/payshoff/page"
)

// UserAgent is sent with every request
const UserAgent = "payshoff-cli/1.0"

var ErrGameNotFound = errors.New("game not found")

// ExpiryRefresh is how far the server must push the session expiry forward
// before the stored copy is rewritten
const ExpiryRefresh = 24 * time.Hour

// SessionStore persists the server's session cookies between runs
type SessionStore interface {
	Load(ctx context.Context, baseURL string) (auth.Session, error)
	Save(ctx context.Context, baseURL string, session auth.Session) error
}

// Client talks to one Payshoff server
type Client struct {
	base  *url.URL
	http  *http.Client
	jar   http.CookieJar
	store SessionStore
	now   func() time.Time

	mu   sync.Mutex
	last auth.Session
}

// New creates a client for baseURL. store may be nil.
func New(baseURL string, store SessionStore) (*Client, error) {
	base, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", baseURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	transport := middleware.WithLogging(middleware.WithUserAgent(http.DefaultTransport, UserAgent))

	return &Client{
		base:  base,
		http:  &http.Client{Jar: jar, Transport: transport},
		jar:   jar,
		store: store,
		now:   time.Now,
	}, nil
}

// BaseURL returns the server URL without a trailing slash
func (c *Client) BaseURL() string {
	return c.base.String()
}

// GamePath builds /p/{gameID}[/part...]. The game id is path-escaped.
func GamePath(gameID string, parts ...string) string {
	path := "/p/" + url.PathEscape(gameID)
	for _, p := range parts {
		path += "/" + p
	}
	return path
}

// GameIDFromPath extracts the game id from a /p/{gameID}... path
func GameIDFromPath(path string) (string, bool) {
	rest, ok := strings.CutPrefix(path, "/p/")
	if !ok {
		return "", false
	}
	gameID, _, _ := strings.Cut(rest, "/")
	return gameID, gameID != ""
}

// RestoreSession loads the stored session into the cookie jar. A missing
// session is not an error: the server creates a user on the first request.
func (c *Client) RestoreSession(ctx context.Context) error {
	if c.store == nil {
		return nil
	}
	session, err := c.store.Load(ctx, c.BaseURL())
	if errors.Is(err, auth.ErrNoSession) {
		return nil
	}
	if err != nil {
		return err
	}

	c.jar.SetCookies(c.base, session.Cookies())
	c.mu.Lock()
	c.last = session
	c.mu.Unlock()

	slog.Info("session restored", "uid", session.UID)
	return nil
}

// Session returns the credentials currently in the cookie jar
func (c *Client) Session() (auth.Session, error) {
	return auth.FromCookies(c.jar.Cookies(c.base), c.now())
}

// syncSession saves the jar's session if the server changed it or
// extended it by at least ExpiryRefresh
func (c *Client) syncSession(ctx context.Context) {
	if c.store == nil {
		return
	}
	session, err := c.Session()
	if err != nil {
		return
	}

	c.mu.Lock()
	changed := !session.Equal(c.last) || session.Expires.Sub(c.last.Expires) >= ExpiryRefresh
	if changed {
		c.last = session
	}
	c.mu.Unlock()

	if !changed {
		return
	}
	if err := c.store.Save(ctx, c.BaseURL(), session); err != nil {
		slog.Warn("failed to save session", "error", err)
		return
	}
	slog.Info("session saved", "uid", session.UID)
}

func (c *Client) do(ctx context.Context, req *http.Request) (*http.Response, error) {
	resp, err := c.http.Do(req.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	c.syncSession(ctx)
	return resp, nil
}

func (c *Client) get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL()+path, nil)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, req)
}

// PostJSON sends payload as a JSON body to path. The caller owns the
// response body.
func (c *Client) PostJSON(ctx context.Context, path string, payload interface{}) (*http.Response, error) {
	body, err := middleware.JSONBody(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL()+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(ctx, req)
}

// GetPage fetches and parses a game page. The server may redirect to
// another game; the page URL is the final one.
func (c *Client) GetPage(ctx context.Context, gameID string) (*page.Page, error) {
	resp, err := c.get(ctx, GamePath(gameID))
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		text, _ := middleware.ReadText(resp)
		if resp.StatusCode == http.StatusNotFound {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to load game %s: status %d: %s", gameID, resp.StatusCode, strings.TrimSpace(text))
	}
	defer resp.Body.Close()

	return page.Parse(resp.Body, resp.Request.URL.String())
}

// CreateGame asks the server for a new game and returns its id
func (c *Client) CreateGame(ctx context.Context) (string, error) {
	resp, err := c.get(ctx, "/p")
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		text, _ := middleware.ReadText(resp)
		return "", fmt.Errorf("failed to create game: status %d: %s", resp.StatusCode, strings.TrimSpace(text))
	}
	middleware.Drain(resp)

	gameID, ok := GameIDFromPath(resp.Request.URL.Path)
	if !ok {
		return "", fmt.Errorf("failed to create game: unexpected final URL %s", resp.Request.URL)
	}

	slog.Info("game created", "game_id", gameID)
	return gameID, nil
}

// WaitForUpdate blocks until the server reports a change to the game or
// its wait times out. It reports whether the game changed.
func (c *Client) WaitForUpdate(ctx context.Context, gameID string) (bool, error) {
	resp, err := c.get(ctx, GamePath(gameID, "poll"))
	if err != nil {
		return false, err
	}

	text, err := middleware.ReadText(resp)
	if err != nil {
		return false, err
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return strings.TrimSpace(text) == models.ReloadText, nil
	case http.StatusNotFound:
		return false, ErrGameNotFound
	default:
		return false, fmt.Errorf("poll failed: status %d: %s", resp.StatusCode, strings.TrimSpace(text))
	}
}
