// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package console

import (
	"context"
	"errors"
	"io"
	"net/url"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"

	"github.com/danielhkuo/payshoff/auth"
	"github.com/danielhkuo/payshoff/client"
	"github.com/danielhkuo/payshoff/dispatch"
	"github.com/danielhkuo/payshoff/models"
	"github.com/danielhkuo/payshoff/page"
	"github.com/danielhkuo/payshoff/router"
)

// GameClient is the part of *client.Client the shell uses
type GameClient interface {
	dispatch.Poster
	GetPage(ctx context.Context, gameID string) (*page.Page, error)
	Session() (auth.Session, error)
}

// Shell is a terminal stand-in for the game page: every command clicks the
// element the page would offer for it.
type Shell struct {
	client     GameClient
	term       *Terminal
	dispatcher *dispatch.Dispatcher

	// reloadMu orders reloads so the newest fetch is the page shown
	reloadMu sync.Mutex

	mu      sync.Mutex
	gameID  string
	current *page.Page

	answersMu sync.Mutex
	answers   []string
}

func NewShell(c GameClient, term *Terminal, gameID string, opts dispatch.Options) *Shell {
	s := &Shell{client: c, term: term, gameID: gameID}

	observe := opts.OnResult
	opts.OnResult = func(r dispatch.Result) {
		s.showResult(r)
		if observe != nil {
			observe(r)
		}
	}
	s.dispatcher = dispatch.New(c, s, opts)
	return s
}

func (s *Shell) GameID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gameID
}

// Page returns the page currently shown, nil before the first Reload
func (s *Shell) Page() *page.Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Reload fetches the game page again and wires its elements, replacing
// the current page.
func (s *Shell) Reload(ctx context.Context) error {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	p, err := s.client.GetPage(ctx, s.GameID())
	if err != nil {
		return err
	}
	router.Wire(p, s.dispatcher, s)

	s.mu.Lock()
	s.current = p
	if gameID, ok := client.GameIDFromPath(urlPath(p.URL)); ok {
		s.gameID = gameID
	}
	s.mu.Unlock()

	s.render(p.State())
	return nil
}

// Prompt answers from the command line arguments first, then asks.
// CancelAnswer cancels either way.
func (s *Shell) Prompt(label, defaultValue string) (string, bool) {
	s.answersMu.Lock()
	if len(s.answers) > 0 {
		answer := s.answers[0]
		s.answers = s.answers[1:]
		s.answersMu.Unlock()
		if answer == CancelAnswer {
			return "", false
		}
		return answer, true
	}
	s.answersMu.Unlock()

	return s.term.Prompt(label, defaultValue)
}

func (s *Shell) Alert(message string) {
	s.term.Alert(message)
}

func (s *Shell) setAnswers(answers ...string) {
	s.answersMu.Lock()
	s.answers = answers
	s.answersMu.Unlock()
}

// Run loads the game and reads commands until quit or EOF
func (s *Shell) Run(ctx context.Context) error {
	if err := s.Reload(ctx); err != nil {
		return err
	}
	return s.Loop(ctx)
}

// Loop reads commands until quit or EOF. The game must be loaded.
func (s *Shell) Loop(ctx context.Context) error {
	s.term.Printf("type help for commands\n")

	for {
		if s.term.Interactive() {
			s.term.Printf("> ")
		}
		line, err := s.term.ReadLine()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if quit := s.Exec(ctx, line); quit {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

// Exec runs one command line. It reports whether the shell should stop.
func (s *Shell) Exec(ctx context.Context, line string) bool {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	p := s.Page()
	if p == nil && cmd != "quit" && cmd != "exit" && cmd != "help" && cmd != "" {
		s.term.Alert("no game loaded")
		return false
	}

	switch cmd {
	case "":
	case "help":
		s.term.Printf("%s", helpText)
	case "quit", "exit":
		return true
	case "show":
		s.render(p.State())
	case "reload":
		if err := s.Reload(ctx); err != nil {
			s.term.Alert(err.Error())
		}
	case "whoami":
		s.whoami(p)
	case "add":
		if arg != "" {
			s.setAnswers(arg)
		}
		s.click(ctx, p.ByID(page.IDAddItem))
	case "sel", "select":
		s.click(ctx, p.ByID(page.IDSelectItem))
	case "skip":
		s.click(ctx, p.ByID(page.IDAdminSkip))
	case "toggle":
		s.click(ctx, p.ByID(page.IDAdminToggle))
	case "del":
		s.click(ctx, findByAttr(p.ByClass(page.ClassTrash), page.AttrOption, arg))
	case "kick":
		s.click(ctx, findByAttr(p.ByClass(page.ClassGavel), page.AttrName, arg))
	case "rename":
		if arg != "" {
			s.setAnswers(arg)
		}
		s.click(ctx, p.ByID(page.IDUsernameEdit))
	default:
		s.term.Alert("unknown command " + cmd + ", type help")
	}
	return false
}

func (s *Shell) click(ctx context.Context, el *page.Element) {
	defer s.setAnswers()
	if el == nil || !el.Bound() {
		s.term.Alert("not available")
		return
	}
	el.Click(ctx)
}

func findByAttr(elements []*page.Element, attr, value string) *page.Element {
	if value == "" {
		return nil
	}
	for _, e := range elements {
		if v, ok := e.Attr(attr); ok && v == value {
			return e
		}
	}
	return nil
}

func (s *Shell) showResult(r dispatch.Result) {
	switch r.Outcome {
	case dispatch.NetworkError:
		s.term.Alert("request failed: " + r.Err.Error())
	case dispatch.Reloaded:
		if r.Err != nil {
			s.term.Alert("reload failed: " + r.Err.Error())
		}
	}
}

func (s *Shell) render(state models.GameState) {
	name := state.Username
	if name == "" {
		name = "anonymous"
	}
	s.term.Printf("game %s, playing as %s\n", state.GameID, name)
	s.term.Printf("  %s on the table\n", english.Plural(state.OptionCount, "option", ""))
	if len(state.Participants) > 0 {
		s.term.Printf("  participants: %s\n", english.WordSeries(state.Participants, "and"))
	}

	var can []string
	if state.CanAdd {
		can = append(can, "add")
	}
	if state.CanRemove {
		can = append(can, "del")
	}
	if state.CanSelect {
		can = append(can, "sel")
	}
	if state.IsAdmin {
		can = append(can, "skip", "toggle", "kick")
	}
	if len(can) == 0 {
		s.term.Printf("  waiting for your turn\n")
		return
	}
	s.term.Printf("  you can: %s\n", strings.Join(can, ", "))
}

func (s *Shell) whoami(p *page.Page) {
	session, err := s.client.Session()
	if errors.Is(err, auth.ErrNoSession) {
		s.term.Printf("no session yet\n")
		return
	}
	if err != nil {
		s.term.Alert(err.Error())
		return
	}
	s.term.Printf("%s (uid %s), session expires %s\n",
		p.State().Username, session.UID, humanize.Time(session.Expires))
}

func urlPath(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Path
}

const helpText = `commands:
  show            show the game
  reload          fetch the game again
  add [text]      add an option
  del N           remove option N
  sel             pick the last option
  skip            skip the current player (admin)
  toggle          toggle decision mode (admin)
  kick NAME       remove a participant (admin)
  rename [name]   change your name
  whoami          show your session
  quit            leave
`
