// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package page models a fetched Payshoff game page as a flat list of elements.

# Parsing

	p, err := page.Parse(resp.Body, resp.Request.URL.String())

Every HTML element becomes an Element with its tag, id, classes,
attributes and trimmed text content. Attribute names are lower case.

# Lookup

	p.ByID(page.IDAddItem)       // first element with the id, or nil
	p.ByClass(page.ClassTrash)   // all elements with the class

# Clicks

Listeners are registered on elements and run synchronously when clicked:

	el.OnClick(func(ctx context.Context, target *page.Element) {
		gid, _ := target.Attr(page.AttrGameID)
		// ...
	})
	el.Click(ctx)

# DOM Contract

Elements that trigger game actions carry a gameid attribute. Trash icons
(.fa-trash) carry a one-based option attribute, gavel icons (.fa-gavel)
carry the participant's name. #current-username holds the user's name.
*/
package page
