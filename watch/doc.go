// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package watch keeps a game view current while other participants play.

The server holds GET /p/{id}/poll open until the game changes, or for
about a minute, then answers "reload". Watcher loops on it and reloads
the view after each change:

	w := watch.New(c, shell)
	err := w.Run(ctx, shell)

The game id is read from the Game before every poll, so a view that
follows a redirect to another game is watched there.

Failed polls are retried with exponential backoff (500ms up to 30s) for
as long as the context lives. A 404 means the game is gone and ends Run
with client.ErrGameNotFound.
*/
package watch
