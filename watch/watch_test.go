// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package watch

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/danielhkuo/payshoff/client"
	"github.com/danielhkuo/payshoff/dispatch"
	"github.com/danielhkuo/payshoff/testutil"
)

type pollResult struct {
	changed bool
	err     error
}

// scriptedPoller returns its results in order, then reports the game gone
type scriptedPoller struct {
	mu      sync.Mutex
	results []pollResult
	calls   int
	games   []string
}

func (p *scriptedPoller) WaitForUpdate(ctx context.Context, gameID string) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	p.games = append(p.games, gameID)
	if len(p.results) == 0 {
		return false, client.ErrGameNotFound
	}
	r := p.results[0]
	p.results = p.results[1:]
	return r.changed, r.err
}

func noDelay() backoff.BackOff {
	return &backoff.ZeroBackOff{}
}

func TestRun_ReloadsOnEveryChange(t *testing.T) {
	poller := &scriptedPoller{results: []pollResult{
		{changed: true},
		{changed: false},
		{changed: true},
	}}
	reloads := 0
	w := New(poller, dispatch.ReloaderFunc(func(context.Context) error {
		reloads++
		return nil
	}))
	w.NewBackOff = noDelay

	err := w.Run(context.Background(), StaticGame("42"))

	if !errors.Is(err, client.ErrGameNotFound) {
		t.Errorf("Run() error = %v, want ErrGameNotFound", err)
	}
	if reloads != 2 {
		t.Errorf("expected 2 reloads, got %d", reloads)
	}
	if poller.calls != 4 {
		t.Errorf("expected 4 polls, got %d", poller.calls)
	}
}

// movingGame is a game whose id the test can change
type movingGame struct {
	mu sync.Mutex
	id string
}

func (g *movingGame) GameID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.id
}

func TestRun_FollowsGameChanges(t *testing.T) {
	poller := &scriptedPoller{results: []pollResult{{changed: true}, {changed: true}}}
	game := &movingGame{id: "42"}
	w := New(poller, dispatch.ReloaderFunc(func(context.Context) error {
		game.mu.Lock()
		game.id = "b7c9"
		game.mu.Unlock()
		return nil
	}))
	w.NewBackOff = noDelay

	w.Run(context.Background(), game)

	want := []string{"42", "b7c9", "b7c9"}
	if len(poller.games) != len(want) {
		t.Fatalf("polled %v, want %v", poller.games, want)
	}
	for i := range want {
		if poller.games[i] != want[i] {
			t.Errorf("poll %d for game %q, want %q", i, poller.games[i], want[i])
		}
	}
}

func TestRun_RetriesTransientErrors(t *testing.T) {
	poller := &scriptedPoller{results: []pollResult{
		{err: errors.New("connection reset")},
		{err: errors.New("connection reset")},
		{changed: true},
	}}
	reloads := 0
	w := New(poller, dispatch.ReloaderFunc(func(context.Context) error {
		reloads++
		return nil
	}))
	w.NewBackOff = noDelay

	w.Run(context.Background(), StaticGame("42"))

	if reloads != 1 {
		t.Errorf("expected 1 reload after retries, got %d", reloads)
	}
}

func TestRun_ReloadErrorsDoNotStop(t *testing.T) {
	poller := &scriptedPoller{results: []pollResult{{changed: true}, {changed: true}}}
	reloads := 0
	w := New(poller, dispatch.ReloaderFunc(func(context.Context) error {
		reloads++
		return errors.New("page gone")
	}))
	w.NewBackOff = noDelay

	err := w.Run(context.Background(), StaticGame("42"))

	if !errors.Is(err, client.ErrGameNotFound) {
		t.Errorf("Run() error = %v", err)
	}
	if reloads != 2 {
		t.Errorf("expected 2 reload attempts, got %d", reloads)
	}
}

func TestRun_StopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	poller := &blockingPoller{}
	w := New(poller, dispatch.ReloaderFunc(func(context.Context) error { return nil }))

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, StaticGame("42")) }()

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run() error = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run() did not stop after cancel")
	}
}

// blockingPoller waits for the context like a held long poll
type blockingPoller struct{}

func (blockingPoller) WaitForUpdate(ctx context.Context, _ string) (bool, error) {
	<-ctx.Done()
	return false, ctx.Err()
}

func TestRun_AgainstServer(t *testing.T) {
	srv := testutil.NewFakeServer(t)
	c, err := client.New(srv.URL, nil)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloads := 0
	w := New(c, dispatch.ReloaderFunc(func(context.Context) error {
		reloads++
		if reloads == 3 {
			// the game ends after the third update
			srv.Reply(http.MethodGet, "/p/42/poll", http.StatusNotFound, "no game")
		}
		return nil
	}))

	err = w.Run(ctx, StaticGame("42"))

	if !errors.Is(err, client.ErrGameNotFound) {
		t.Errorf("Run() error = %v, want ErrGameNotFound", err)
	}
	if reloads != 3 {
		t.Errorf("expected 3 reloads, got %d", reloads)
	}
}
