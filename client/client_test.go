// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package client

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/payshoff/auth"
	"github.com/danielhkuo/payshoff/db"
	"github.com/danielhkuo/payshoff/models"
	"github.com/danielhkuo/payshoff/testutil"
)

// memoryStore is a SessionStore kept in a map
type memoryStore struct {
	mu       sync.Mutex
	sessions map[string]auth.Session
	saves    int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{sessions: make(map[string]auth.Session)}
}

func (m *memoryStore) Load(_ context.Context, baseURL string) (auth.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[baseURL]
	if !ok {
		return auth.Session{}, auth.ErrNoSession
	}
	return s, nil
}

func (m *memoryStore) Save(_ context.Context, baseURL string, s auth.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[baseURL] = s
	m.saves++
	return nil
}

func TestNew_RejectsBadURLs(t *testing.T) {
	for _, raw := range []string{"localhost:5000", "ftp://example.test", "://"} {
		if _, err := New(raw, nil); err == nil {
			t.Errorf("New(%q) should fail", raw)
		}
	}
}

func TestNew_TrimsTrailingSlash(t *testing.T) {
	c, err := New("http://example.test:5000/", nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := c.BaseURL(); got != "http://example.test:5000" {
		t.Errorf("BaseURL() = %q", got)
	}
}

func TestGamePath(t *testing.T) {
	tests := []struct {
		gameID string
		parts  []string
		want   string
	}{
		{"42", nil, "/p/42"},
		{"42", []string{"adm_kick"}, "/p/42/adm_kick"},
		{"a/b", []string{"poll"}, "/p/a%2Fb/poll"},
	}
	for _, tt := range tests {
		if got := GamePath(tt.gameID, tt.parts...); got != tt.want {
			t.Errorf("GamePath(%q, %v) = %q, want %q", tt.gameID, tt.parts, got, tt.want)
		}
	}
}

func TestGameIDFromPath(t *testing.T) {
	tests := []struct {
		path   string
		want   string
		wantOK bool
	}{
		{"/p/42", "42", true},
		{"/p/42/poll", "42", true},
		{"/p/", "", false},
		{"/p", "", false},
		{"/setname", "", false},
	}
	for _, tt := range tests {
		got, ok := GameIDFromPath(tt.path)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("GameIDFromPath(%q) = %q, %v; want %q, %v", tt.path, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestCreateGame(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	srv.NewGameID = "b7c9"

	c, err := New(srv.URL, nil)
	if err != nil {
		t.Fatal(err)
	}

	gameID, err := c.CreateGame(context.Background())
	if err != nil {
		t.Fatalf("CreateGame() error = %v", err)
	}
	if gameID != "b7c9" {
		t.Errorf("CreateGame() = %q, want b7c9", gameID)
	}
}

func TestCreateGame_ServerError(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	srv.Reply(http.MethodGet, "/p", http.StatusInternalServerError, "Fatal Error. Contact admin")

	c, _ := New(srv.URL, nil)
	if _, err := c.CreateGame(context.Background()); err == nil {
		t.Error("CreateGame() should fail on 500")
	}
}

func TestGetPage(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	srv.SetPage("42", testutil.GamePage{GameID: "42", Username: "alice", Options: []string{"Pizza"}, CanRemove: true}.HTML())

	c, _ := New(srv.URL, nil)
	p, err := c.GetPage(context.Background(), "42")
	if err != nil {
		t.Fatalf("GetPage() error = %v", err)
	}

	if p.URL != srv.URL+"/p/42" {
		t.Errorf("page URL = %q", p.URL)
	}
	state := p.State()
	if state.Username != "alice" || state.OptionCount != 1 {
		t.Errorf("unexpected state %+v", state)
	}
}

func TestGetPage_NotFound(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	c, _ := New(srv.URL, nil)

	if _, err := c.GetPage(context.Background(), "missing"); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("GetPage() error = %v, want ErrGameNotFound", err)
	}
}

func TestGetPage_FollowsRedirect(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /p/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/p/current", http.StatusFound)
	})
	mux.HandleFunc("GET /p/current", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(testutil.GamePage{GameID: "current"}.HTML()))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c, _ := New(srv.URL, nil)
	p, err := c.GetPage(context.Background(), "old")
	if err != nil {
		t.Fatal(err)
	}
	if p.URL != srv.URL+"/p/current" {
		t.Errorf("page URL = %q, want the redirect target", p.URL)
	}
}

func TestWaitForUpdate(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantChanged bool
		wantErr     error
		wantAnyErr  bool
	}{
		{"reload", http.StatusOK, "reload", true, nil, false},
		{"other text", http.StatusOK, "nothing", false, nil, false},
		{"game gone", http.StatusNotFound, "no game", false, ErrGameNotFound, true},
		{"server error", http.StatusInternalServerError, "boom", false, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := testutil.NewFakeServer(t)
			srv.Reply(http.MethodGet, "/p/42/poll", tt.status, tt.body)
			c, _ := New(srv.URL, nil)

			changed, err := c.WaitForUpdate(context.Background(), "42")

			if changed != tt.wantChanged {
				t.Errorf("changed = %v, want %v", changed, tt.wantChanged)
			}
			if (err != nil) != tt.wantAnyErr {
				t.Errorf("error = %v, wantErr %v", err, tt.wantAnyErr)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestPostJSON(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	c, _ := New(srv.URL, nil)

	resp, err := c.PostJSON(context.Background(), GamePath("42", models.ActionAdminKick), models.KickRequest{Target: "alice"})
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	posts := srv.Posts()
	if len(posts) != 1 {
		t.Fatalf("expected 1 post, got %d", len(posts))
	}
	if posts[0].Path != "/p/42/adm_kick" {
		t.Errorf("path = %q", posts[0].Path)
	}
	if posts[0].ContentType != "application/json" {
		t.Errorf("Content-Type = %q", posts[0].ContentType)
	}
	if posts[0].Body != `{"target":"alice"}` {
		t.Errorf("body = %s", posts[0].Body)
	}
}

func TestUserAgent(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.UserAgent()
	}))
	defer srv.Close()

	c, _ := New(srv.URL, nil)
	resp, err := c.PostJSON(context.Background(), "/setname", models.SetNameRequest{Name: "x"})
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if got != UserAgent {
		t.Errorf("User-Agent = %q, want %q", got, UserAgent)
	}
}

func TestSession_SavedOnceAndReused(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	srv.SetPage("42", testutil.GamePage{GameID: "42"}.HTML())
	store := newMemoryStore()
	ctx := context.Background()

	c, _ := New(srv.URL, store)
	if _, err := c.Session(); !errors.Is(err, auth.ErrNoSession) {
		t.Errorf("Session() before any request = %v, want ErrNoSession", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := c.GetPage(ctx, "42"); err != nil {
			t.Fatal(err)
		}
	}

	if store.saves != 1 {
		t.Errorf("expected 1 save, got %d", store.saves)
	}
	saved, err := store.Load(ctx, c.BaseURL())
	if err != nil {
		t.Fatal(err)
	}

	// Every request after the first carries the same user
	reqs := srv.Requests()
	for _, r := range reqs {
		if r.UID != saved.UID.String() {
			t.Errorf("request %s carried uid %s, want %s", r.Path, r.UID, saved.UID)
		}
	}
}

func TestRestoreSession(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	srv.SetPage("42", testutil.GamePage{GameID: "42"}.HTML())
	ctx := context.Background()

	stored := auth.Session{UID: uuid.New(), PWD: uuid.New(), Expires: time.Now().Add(time.Hour)}
	store := newMemoryStore()
	store.sessions[srv.URL] = stored

	c, _ := New(srv.URL, store)
	if err := c.RestoreSession(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := c.GetPage(ctx, "42"); err != nil {
		t.Fatal(err)
	}

	reqs := srv.Requests()
	if len(reqs) != 1 || reqs[0].UID != stored.UID.String() {
		t.Errorf("expected the stored uid %s to be sent, got %+v", stored.UID, reqs)
	}
	// The server extends the session on use, so the stored copy is refreshed
	if store.saves != 1 {
		t.Fatalf("expected the extended session to be saved once, got %d saves", store.saves)
	}
	saved := store.sessions[srv.URL]
	if !saved.Equal(stored) {
		t.Errorf("saved session changed user: %v", saved.UID)
	}
	if !saved.Expires.After(stored.Expires) {
		t.Errorf("saved expiry %v not extended past %v", saved.Expires, stored.Expires)
	}
}

func TestSession_ExpiryRefreshedInStore(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	srv.SetPage("42", testutil.GamePage{GameID: "42"}.HTML())
	ctx := context.Background()

	conn, err := sql.Open("sqlite", "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatal(err)
	}
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { conn.Close() })
	if err := db.CreateSchema(conn); err != nil {
		t.Fatal(err)
	}
	store := db.NewSessionStore(conn)

	// A session close to its stored expiry
	start := time.Now()
	stored := auth.Session{UID: uuid.New(), PWD: uuid.New(), Expires: start.Add(time.Minute)}
	if err := store.Save(ctx, srv.URL, stored); err != nil {
		t.Fatal(err)
	}

	c, _ := New(srv.URL, store)
	if err := c.RestoreSession(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := c.GetPage(ctx, "42"); err != nil {
		t.Fatal(err)
	}

	got, err := store.Load(ctx, srv.URL)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !got.Equal(stored) {
		t.Errorf("stored user changed to %v", got.UID)
	}
	if want := start.Add(auth.SessionLifetime - time.Hour); got.Expires.Before(want) {
		t.Errorf("stored expiry = %v, want at least %v", got.Expires, want)
	}
}

func TestSession_RefreshedOncePerInterval(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	srv.SetPage("42", testutil.GamePage{GameID: "42"}.HTML())
	store := newMemoryStore()
	ctx := context.Background()

	now := time.Now()
	c, _ := New(srv.URL, store)
	c.now = func() time.Time { return now }

	steps := []struct {
		advance   time.Duration
		wantSaves int
	}{
		{0, 1},
		{time.Hour, 1},
		{ExpiryRefresh - 2*time.Hour, 1},
		{2 * time.Hour, 2},
	}
	for i, step := range steps {
		now = now.Add(step.advance)
		if _, err := c.GetPage(ctx, "42"); err != nil {
			t.Fatal(err)
		}
		if store.saves != step.wantSaves {
			t.Errorf("step %d: saves = %d, want %d", i, store.saves, step.wantSaves)
		}
	}
}

func TestRestoreSession_NothingStored(t *testing.T) {
	c, _ := New("http://example.test", newMemoryStore())
	if err := c.RestoreSession(context.Background()); err != nil {
		t.Errorf("RestoreSession() error = %v", err)
	}

	// A client without a store has nothing to restore either
	c, _ = New("http://example.test", nil)
	if err := c.RestoreSession(context.Background()); err != nil {
		t.Errorf("RestoreSession() without store error = %v", err)
	}
}
