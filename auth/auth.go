// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Cookie names the server identifies a user by
const (
	CookieUID = "uid"
	CookiePWD = "pwd"
)

// SessionLifetime matches the server's cookie expiry
const SessionLifetime = 90 * 24 * time.Hour

var (
	ErrInvalidSession = errors.New("invalid session")
	ErrNoSession      = errors.New("no session cookies")
)

// Session is the pair of credentials the server hands out on first visit
type Session struct {
	UID     uuid.UUID
	PWD     uuid.UUID
	Expires time.Time
}

// Valid checks that both credentials are set
func (s Session) Valid() error {
	if s.UID == uuid.Nil || s.PWD == uuid.Nil {
		return ErrInvalidSession
	}
	return nil
}

// Expired reports whether the session is past its expiry at now.
// A zero expiry never expires.
func (s Session) Expired(now time.Time) bool {
	return !s.Expires.IsZero() && now.After(s.Expires)
}

// Cookies returns the session as cookies ready for a cookie jar
func (s Session) Cookies() []*http.Cookie {
	return []*http.Cookie{
		{Name: CookieUID, Value: s.UID.String(), Path: "/", Expires: s.Expires},
		{Name: CookiePWD, Value: s.PWD.String(), Path: "/", Expires: s.Expires},
	}
}

// FromCookies extracts a session from the cookies sent for the server.
// Cookies coming out of a jar carry no expiry, so now+SessionLifetime is
// assumed, as the server refreshes the cookies on every response.
func FromCookies(cookies []*http.Cookie, now time.Time) (Session, error) {
	var uidText, pwdText string
	for _, c := range cookies {
		switch c.Name {
		case CookieUID:
			uidText = c.Value
		case CookiePWD:
			pwdText = c.Value
		}
	}
	if uidText == "" && pwdText == "" {
		return Session{}, ErrNoSession
	}

	uid, err := uuid.Parse(uidText)
	if err != nil {
		return Session{}, fmt.Errorf("%w: uid: %v", ErrInvalidSession, err)
	}
	pwd, err := uuid.Parse(pwdText)
	if err != nil {
		return Session{}, fmt.Errorf("%w: pwd: %v", ErrInvalidSession, err)
	}

	s := Session{UID: uid, PWD: pwd, Expires: now.Add(SessionLifetime)}
	if err := s.Valid(); err != nil {
		return Session{}, err
	}
	return s, nil
}

// Equal compares credentials only
func (s Session) Equal(other Session) bool {
	return s.UID == other.UID && s.PWD == other.PWD
}
