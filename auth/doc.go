// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth handles the session credentials the Payshoff server issues.

# Sessions

On the first visit the server creates a user and sets two cookies, uid and
pwd, both UUIDs, valid for 90 days. Every later request carrying them is
logged in as that user. There is no other login.

	s, err := auth.FromCookies(jar.Cookies(baseURL), time.Now())
	if errors.Is(err, auth.ErrNoSession) {
		// first visit, the server will create a user
	}

Put a stored session back into a jar:

	jar.SetCookies(baseURL, s.Cookies())

# Validation

Both credentials must parse as UUIDs and neither may be the nil UUID,
otherwise ErrInvalidSession is returned.
*/
package auth
