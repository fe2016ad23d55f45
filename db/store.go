// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/payshoff/auth"
)

// DriverName maps a configured database type to its database/sql driver
func DriverName(databaseType string) (string, error) {
	switch databaseType {
	case "sqlite", "":
		return "sqlite", nil
	case "postgres":
		return "postgres", nil
	default:
		return "", fmt.Errorf("unsupported database type %q", databaseType)
	}
}

// SessionStore keeps one session per server base URL
type SessionStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewSessionStore(db *sql.DB) *SessionStore {
	return &SessionStore{db: db, now: time.Now}
}

// Load returns the stored session for baseURL. Expired sessions are
// reported as auth.ErrNoSession.
func (s *SessionStore) Load(ctx context.Context, baseURL string) (auth.Session, error) {
	var uidText, pwdText string
	var expiresUnix int64
	err := s.db.QueryRowContext(ctx, `
		SELECT uid, pwd, expires_unix FROM session WHERE base_url = $1
	`, baseURL).Scan(&uidText, &pwdText, &expiresUnix)

	if errors.Is(err, sql.ErrNoRows) {
		return auth.Session{}, auth.ErrNoSession
	}
	if err != nil {
		return auth.Session{}, fmt.Errorf("failed to load session: %w", err)
	}

	uid, err := uuid.Parse(uidText)
	if err != nil {
		return auth.Session{}, fmt.Errorf("%w: stored uid: %v", auth.ErrInvalidSession, err)
	}
	pwd, err := uuid.Parse(pwdText)
	if err != nil {
		return auth.Session{}, fmt.Errorf("%w: stored pwd: %v", auth.ErrInvalidSession, err)
	}

	session := auth.Session{UID: uid, PWD: pwd, Expires: time.Unix(expiresUnix, 0)}
	if session.Expired(s.now()) {
		return auth.Session{}, auth.ErrNoSession
	}
	return session, nil
}

// Save inserts or replaces the session for baseURL
func (s *SessionStore) Save(ctx context.Context, baseURL string, session auth.Session) error {
	if err := session.Valid(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO session (base_url, uid, pwd, expires_unix, updated_unix)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (base_url) DO UPDATE
		SET uid = excluded.uid, pwd = excluded.pwd,
		    expires_unix = excluded.expires_unix, updated_unix = excluded.updated_unix
	`, baseURL, session.UID.String(), session.PWD.String(), session.Expires.Unix(), s.now().Unix())
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Delete forgets the session for baseURL
func (s *SessionStore) Delete(ctx context.Context, baseURL string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM session WHERE base_url = $1`, baseURL)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
