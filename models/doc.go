// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the wire types exchanged with the Payshoff server.

# Actions

Every game action is a JSON POST to /p/{gameid}/{action}:

	add              AddOptionRequest    {"option": "Pizza"}
	sel              EmptyRequest        {}
	adm_skip         EmptyRequest        {}
	toggle_dec_mode  EmptyRequest        {}
	del              DeleteOptionRequest {"option": 0}
	adm_kick         KickRequest         {"target": "alice"}

DeleteOptionRequest carries a zero-based index. Pages number options from one.

# Renaming

	POST /setname    SetNameRequest      {"name": "bob"}

# Responses

The server answers 200 on success. Failures carry a plain-text message
with a non-200 status. The text OKText ("OK") is never an error.

# Game State

GameState summarizes a rendered game page. It is derived from the page's
elements, not sent by the server as JSON:

	state := p.State()
	fmt.Println(state.Username, state.OptionCount)
*/
package models
