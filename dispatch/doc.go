// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package dispatch turns clicks on page elements into Payshoff game actions.

# Binding

	d := dispatch.New(c, reloader, dispatch.Options{})

	dispatch.Bind(d, el, func(t *page.Element) (models.KickRequest, bool) {
		name, ok := t.Attr(page.AttrName)
		return models.KickRequest{Target: name}, ok
	}, models.ActionAdminKick, ui.Alert)

# Click Handling

On every click:

 1. The target's gameid attribute is read. Missing or empty: Skipped.
 2. The extractor builds the payload. Returning false: Cancelled.
 3. The payload is POSTed as JSON to /p/{gameid}/{action}.
 4. Status 200 is success. Any other status has its body read as text.
 5. Text that is non-empty and not "OK" goes to onError and the view is
    left alone: Failed. Otherwise the view is reloaded: Reloaded.

A request that never completes is NetworkError. onError is not called for
it. It is logged and reported through Options.OnResult.

Nothing is retried.

# Concurrency

Clicks run on the caller's goroutine. Two clicks in flight for the same
game race, and whichever finishes first reloads. Options.SerializePerGame
makes the POST and reload of one game run one at a time instead.

# Renaming

BindRename wires the username edit trigger. It prompts with the current
name, posts {"name": ...} to /setname and reloads whatever the status.
*/
package dispatch
