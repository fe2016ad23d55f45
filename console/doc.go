// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package console is the terminal front end of the Payshoff client.

# Terminal

Terminal stands in for the browser's dialogs:

  - Prompt reads one line. An empty line keeps the suggested value, EOF or
    ":cancel" cancels.
  - Alert prints "! message".

Prompt labels are only printed when input is a terminal.

# Shell

Shell holds the current game page and reads commands:

	shell := console.NewShell(c, term, gameID, dispatch.Options{})
	err := shell.Run(ctx)

Each command clicks the element the page offers for it: "add Pizza" clicks
#add-new-item and answers its prompt with "Pizza", "del 2" clicks the
trash icon with option="2", "kick alice" clicks the gavel with
name="alice". Commands with no matching element print "not available".

Shell implements dispatch.Reloader. A reload fetches the page again, wires
the new elements with router.Wire and prints the game state.
*/
package console
