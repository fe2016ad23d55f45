// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package watch

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/danielhkuo/payshoff/client"
	"github.com/danielhkuo/payshoff/dispatch"
)

// Poller waits for the server to announce a game change.
// *client.Client implements it.
type Poller interface {
	WaitForUpdate(ctx context.Context, gameID string) (bool, error)
}

// Game names the game to watch. It is read before every poll, so the
// watcher follows the view when it moves to another game.
// *console.Shell implements it.
type Game interface {
	GameID() string
}

// StaticGame always watches the same game
type StaticGame string

func (g StaticGame) GameID() string {
	return string(g)
}

// Watcher reloads the view whenever another participant changes the game
type Watcher struct {
	poller   Poller
	reloader dispatch.Reloader

	// NewBackOff builds the retry policy used after a failed poll
	NewBackOff func() backoff.BackOff
}

func New(poller Poller, reloader dispatch.Reloader) *Watcher {
	return &Watcher{
		poller:     poller,
		reloader:   reloader,
		NewBackOff: defaultBackOff,
	}
}

func defaultBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 30 * time.Second
	b.MaxElapsedTime = 0 // keep trying until the context ends
	return b
}

// Run polls until ctx ends or the game disappears. It returns
// client.ErrGameNotFound in the latter case and ctx.Err() in the former.
func (w *Watcher) Run(ctx context.Context, game Game) error {
	watching := ""

	for {
		gameID := game.GameID()
		if gameID != watching {
			slog.Info("watching game", "game_id", gameID, "previous", watching)
			watching = gameID
		}

		var changed bool
		op := func() error {
			var err error
			changed, err = w.poller.WaitForUpdate(ctx, gameID)
			if errors.Is(err, client.ErrGameNotFound) {
				return backoff.Permanent(err)
			}
			if err != nil && ctx.Err() == nil {
				slog.Warn("poll failed, retrying", "game_id", gameID, "error", err)
			}
			return err
		}

		err := backoff.Retry(op, backoff.WithContext(w.NewBackOff(), ctx))
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			slog.Warn("stopped watching game", "game_id", gameID, "error", err)
			return err
		}

		if !changed {
			continue
		}

		slog.Info("game changed", "game_id", gameID)
		if err := w.reloader.Reload(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			slog.Warn("reload after update failed", "game_id", gameID, "error", err)
		}
	}
}
