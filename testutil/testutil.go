// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"fmt"
	"html"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/danielhkuo/payshoff/auth"
	"github.com/danielhkuo/payshoff/page"
)

// Request is one request the fake server received
type Request struct {
	Method      string
	Path        string
	ContentType string
	Body        string
	UID         string
}

type reply struct {
	status int
	body   string
}

// FakeServer plays the Payshoff server: it serves game pages, answers
// actions with "OK" unless told otherwise and records every request.
type FakeServer struct {
	*httptest.Server

	// NewGameID is where GET /p redirects
	NewGameID string

	mu       sync.Mutex
	requests []Request
	replies  map[string]reply
	pages    map[string]string
	hooks    map[string]func()
}

// NewFakeServer starts a fake server, closed when the test ends
func NewFakeServer(t *testing.T) *FakeServer {
	t.Helper()

	f := &FakeServer{
		NewGameID: "new-game",
		replies:   make(map[string]reply),
		pages:     make(map[string]string),
		hooks:     make(map[string]func()),
	}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Close)
	return f
}

// Reply makes "METHOD path" answer with status and body
func (f *FakeServer) Reply(method, path string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies[method+" "+path] = reply{status: status, body: body}
}

// OnRequest runs fn when "METHOD path" arrives, before answering
func (f *FakeServer) OnRequest(method, path string, fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hooks[method+" "+path] = fn
}

// SetPage serves html at /p/{gameID}
func (f *FakeServer) SetPage(gameID, html string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pages[gameID] = html
}

func (f *FakeServer) Requests() []Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Request, len(f.requests))
	copy(out, f.requests)
	return out
}

// Posts returns the POST requests, in arrival order
func (f *FakeServer) Posts() []Request {
	var out []Request
	for _, r := range f.Requests() {
		if r.Method == http.MethodPost {
			out = append(out, r)
		}
	}
	return out
}

// Count returns how many "METHOD path" requests arrived
func (f *FakeServer) Count(method, path string) int {
	n := 0
	for _, r := range f.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

func (f *FakeServer) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	uid := ""
	if c, err := r.Cookie(auth.CookieUID); err == nil {
		uid = c.Value
	} else {
		// first visit creates a user
		uid = uuid.NewString()
		http.SetCookie(w, &http.Cookie{Name: auth.CookieUID, Value: uid, Path: "/"})
		http.SetCookie(w, &http.Cookie{Name: auth.CookiePWD, Value: uuid.NewString(), Path: "/"})
	}

	key := r.Method + " " + r.URL.Path

	f.mu.Lock()
	f.requests = append(f.requests, Request{
		Method:      r.Method,
		Path:        r.URL.Path,
		ContentType: r.Header.Get("Content-Type"),
		Body:        string(body),
		UID:         uid,
	})
	rep, hasReply := f.replies[key]
	hook := f.hooks[key]
	pages := f.pages
	newGameID := f.NewGameID
	f.mu.Unlock()

	if hook != nil {
		hook()
	}

	if hasReply {
		w.WriteHeader(rep.status)
		io.WriteString(w, rep.body)
		return
	}

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/p":
		http.Redirect(w, r, "/p/"+newGameID, http.StatusFound)
	case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/poll"):
		io.WriteString(w, "reload")
	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/p/"):
		f.mu.Lock()
		doc, ok := pages[strings.TrimPrefix(r.URL.Path, "/p/")]
		f.mu.Unlock()
		if !ok {
			http.Error(w, "no game", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		io.WriteString(w, doc)
	case r.Method == http.MethodPost:
		io.WriteString(w, "OK")
	default:
		http.NotFound(w, r)
	}
}

// GamePage describes a rendered game page
type GamePage struct {
	GameID       string
	Username     string
	Options      []string
	Participants []string
	CanAdd       bool
	CanSelect    bool
	CanRemove    bool
	Admin        bool
}

// HTML renders the page the way the server's template lays it out
func (g GamePage) HTML() string {
	gid := html.EscapeString(g.GameID)

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html><html><head><title>Payshoff</title></head><body>\n")
	fmt.Fprintf(&sb, `<div>Hello <span id="current-username">%s</span> <i id="username-edit" class="fa fa-pen"></i></div>`+"\n",
		html.EscapeString(g.Username))

	sb.WriteString("<ol>\n")
	for i, opt := range g.Options {
		fmt.Fprintf(&sb, "<li>%s", html.EscapeString(opt))
		if g.CanRemove {
			fmt.Fprintf(&sb, ` <i class="fa fa-trash" gameid="%s" option="%d"></i>`, gid, i+1)
		}
		sb.WriteString("</li>\n")
	}
	sb.WriteString("</ol>\n")

	if g.CanAdd {
		fmt.Fprintf(&sb, `<button id="add-new-item" gameid="%s">Add</button>`+"\n", gid)
	}
	if g.CanSelect {
		fmt.Fprintf(&sb, `<button id="select-item" gameid="%s">Select</button>`+"\n", gid)
	}
	if g.Admin {
		fmt.Fprintf(&sb, `<button id="adm-skip" gameid="%s">Skip</button>`+"\n", gid)
		fmt.Fprintf(&sb, `<button id="adm-toggle" gameid="%s">Toggle</button>`+"\n", gid)
	}

	sb.WriteString("<ul>\n")
	for _, name := range g.Participants {
		n := html.EscapeString(name)
		fmt.Fprintf(&sb, "<li>%s", n)
		if g.Admin {
			fmt.Fprintf(&sb, ` <i class="fa fa-gavel" gameid="%s" name="%s"></i>`, gid, n)
		}
		sb.WriteString("</li>\n")
	}
	sb.WriteString("</ul>\n</body></html>\n")
	return sb.String()
}

// Element builds a page element from alternating attribute names and values
func Element(tag string, attrs ...string) *page.Element {
	m := make(map[string]string, len(attrs)/2)
	for i := 0; i+1 < len(attrs); i += 2 {
		m[attrs[i]] = attrs[i+1]
	}
	return page.NewElement(tag, m)
}
