// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package client is the HTTP client for a Payshoff server.

# Endpoints

	GET  /p               → CreateGame (server redirects to the new game)
	GET  /p/{id}          → GetPage (may redirect to another game)
	GET  /p/{id}/poll     → WaitForUpdate (long poll, "reload" on change)
	POST /p/{id}/{action} → PostJSON
	POST /setname         → PostJSON

# Sessions

The server identifies users by the uid/pwd cookies it sets. The client
keeps them in a cookie jar and, when a SessionStore is given, saves them
whenever they change and restores them on start:

	c, err := client.New(cfg.BaseURL, db.NewSessionStore(conn))
	if err := c.RestoreSession(ctx); err != nil {
		// stored session unreadable
	}

# Logging

Every request goes through middleware.WithLogging.
*/
package client
