// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the client.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Times are unix seconds so sqlite and postgres store them the same way.
const schema = `
CREATE TABLE IF NOT EXISTS session (
    base_url TEXT PRIMARY KEY,
    uid TEXT NOT NULL,
    pwd TEXT NOT NULL,
    expires_unix BIGINT NOT NULL,
    updated_unix BIGINT NOT NULL
);
`
