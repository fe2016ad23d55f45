// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Payshoff terminal client.

Payshoff is a turn-based "what do we pick" game: participants take turns
adding options and removing each other's, until one option is left and
gets selected. The server renders the game as a web page. This client
plays it from a terminal: it fetches the page, wires the same click
actions the page script wires and reloads after every action.

# Starting the Client

	go run . -u http://localhost:5000

Without -g a new game is created and its share link printed. Join an
existing one with:

	go run . -u http://localhost:5000 -g 6f1c...

# Configuration

  - PAYSHOFF_URL (-u): server URL (default: http://localhost:5000)
  - PAYSHOFF_GAME (-g): game id
  - DATABASE_TYPE (-t), DATABASE_URL (-d): session store (default: sqlite file:payshoff.db)
  - PAYSHOFF_LOG (--log-file): log file (default: payshoff.log)
  - -w: reload automatically when other players act
  - --serialize: send one action per game at a time

# Architecture

  - page: element model of the fetched game page
  - dispatch: click → POST /p/{id}/{action} → reload or error
  - router: which element triggers which action
  - client: HTTP client, cookie session, redirects
  - console: terminal prompts, alerts and the command shell
  - watch: long-poll auto reload
  - auth, db: session credentials and their storage
  - middleware: request logging and body helpers
  - models: wire types
  - cliparse: configuration parsing

See package documentation for each component.
*/
package main
