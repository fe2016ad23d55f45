// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package dispatch

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/payshoff/client"
	"github.com/danielhkuo/payshoff/middleware"
	"github.com/danielhkuo/payshoff/models"
	"github.com/danielhkuo/payshoff/page"
)

// Poster sends a JSON POST. *client.Client implements it.
type Poster interface {
	PostJSON(ctx context.Context, path string, payload interface{}) (*http.Response, error)
}

// Reloader brings the local view back in line with the server after an
// action went through.
type Reloader interface {
	Reload(ctx context.Context) error
}

// ReloaderFunc adapts a function to Reloader
type ReloaderFunc func(ctx context.Context) error

func (f ReloaderFunc) Reload(ctx context.Context) error {
	return f(ctx)
}

// Extractor builds the request payload from the clicked element.
// Returning false cancels the click.
type Extractor[T any] func(target *page.Element) (T, bool)

// Outcome of one click
type Outcome int

const (
	// Skipped: the target had no gameid, nothing was sent
	Skipped Outcome = iota
	// Cancelled: the extractor declined, nothing was sent
	Cancelled
	// Reloaded: the action went through and the view was reloaded
	Reloaded
	// Failed: the server answered with an error message
	Failed
	// NetworkError: no usable response
	NetworkError
)

func (o Outcome) String() string {
	switch o {
	case Skipped:
		return "skipped"
	case Cancelled:
		return "cancelled"
	case Reloaded:
		return "reloaded"
	case Failed:
		return "failed"
	case NetworkError:
		return "network_error"
	default:
		return "unknown"
	}
}

// Result describes what a click did
type Result struct {
	Outcome Outcome
	GameID  string
	Action  string
	Status  int
	// Message is the server's error text when Outcome is Failed
	Message string
	// Err is the transport error for NetworkError, or the reload error
	// for Reloaded
	Err error
}

type Options struct {
	// SerializePerGame runs the POST and reload of one game one at a
	// time. Off, concurrent clicks race like they do in a browser.
	SerializePerGame bool
	// OnResult, if set, sees every result
	OnResult func(Result)
}

// Dispatcher turns clicks into game actions
type Dispatcher struct {
	poster   Poster
	reloader Reloader
	opts     Options
	locks    gameLocks
}

func New(poster Poster, reloader Reloader, opts Options) *Dispatcher {
	return &Dispatcher{
		poster:   poster,
		reloader: reloader,
		opts:     opts,
		locks:    gameLocks{locks: make(map[string]*gameLock)},
	}
}

// Bind makes every click on el dispatch action. onError receives the
// server's error message and may be nil.
func Bind[T any](d *Dispatcher, el *page.Element, extract Extractor[T], action string, onError func(string)) {
	el.OnClick(func(ctx context.Context, target *page.Element) {
		Dispatch(ctx, d, target, extract, action, onError)
	})
}

// Dispatch runs one click on target through to its outcome
func Dispatch[T any](ctx context.Context, d *Dispatcher, target *page.Element, extract Extractor[T], action string, onError func(string)) Result {
	result := dispatch(ctx, d, target, extract, action, onError)
	d.report(result)
	return result
}

func dispatch[T any](ctx context.Context, d *Dispatcher, target *page.Element, extract Extractor[T], action string, onError func(string)) Result {
	result := Result{Action: action}

	gameID, _ := target.Attr(page.AttrGameID)
	if gameID == "" {
		result.Outcome = Skipped
		return result
	}
	result.GameID = gameID

	payload, ok := extract(target)
	if !ok {
		result.Outcome = Cancelled
		return result
	}

	unlock := d.lock(gameID)

	resp, err := d.poster.PostJSON(ctx, client.GamePath(gameID, action), payload)
	if err != nil {
		unlock()
		result.Outcome = NetworkError
		result.Err = err
		return result
	}
	result.Status = resp.StatusCode

	var message string
	if resp.StatusCode == http.StatusOK {
		middleware.Drain(resp)
	} else {
		message, err = middleware.ReadText(resp)
		if err != nil {
			unlock()
			result.Outcome = NetworkError
			result.Err = err
			return result
		}
	}

	if message != "" && message != models.OKText {
		unlock()
		result.Outcome = Failed
		result.Message = message
		if onError != nil {
			onError(message)
		}
		return result
	}

	result.Outcome = Reloaded
	result.Err = d.reload(ctx)
	unlock()
	return result
}

func (d *Dispatcher) reload(ctx context.Context) error {
	if d.reloader == nil {
		return nil
	}
	return d.reloader.Reload(ctx)
}

func (d *Dispatcher) lock(gameID string) func() {
	if !d.opts.SerializePerGame {
		return func() {}
	}
	return d.locks.lock(gameID)
}

func (d *Dispatcher) report(r Result) {
	attrs := []any{
		"outcome", r.Outcome.String(),
		"action", r.Action,
		"game_id", r.GameID,
	}
	switch r.Outcome {
	case Failed:
		slog.Warn("action rejected", append(attrs, "status", r.Status, "message", r.Message)...)
	case NetworkError:
		slog.Error("action not delivered", append(attrs, "error", r.Err)...)
	case Reloaded:
		if r.Err != nil {
			slog.Warn("action applied, reload failed", append(attrs, "status", r.Status, "error", r.Err)...)
		} else {
			slog.Info("action applied", append(attrs, "status", r.Status)...)
		}
	default:
		slog.Debug("click ignored", attrs...)
	}

	if d.opts.OnResult != nil {
		d.opts.OnResult(r)
	}
}
