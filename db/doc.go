// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db stores the client's session credentials.

# Drivers

SQLite (modernc.org/sqlite, no cgo) is the default, Postgres (lib/pq) is
available for shared installs. Drivers are registered by main:

	driver, err := db.DriverName(cfg.DatabaseType)
	conn, err := sql.Open(driver, cfg.DatabaseURL)

All queries use $n placeholders and ON CONFLICT upserts, which both
drivers accept.

# Schema Creation

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS.

# Sessions

One row per server base URL:

	store := db.NewSessionStore(conn)
	err := store.Save(ctx, baseURL, session)
	session, err := store.Load(ctx, baseURL)   // auth.ErrNoSession if absent or expired
	err = store.Delete(ctx, baseURL)
*/
package db
