// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - BaseURL: Payshoff server (default: http://localhost:5000)
  - GameID: game to join (empty: create a new game)
  - DatabaseType: session store driver, sqlite or postgres (default: sqlite)
  - DatabaseURL: session store DSN (default: file:payshoff.db, required for postgres)
  - LogFile: rotated log file (default: payshoff.log)
  - LogLevel: debug, info, warn or error (default: info)
  - Serialize: one in-flight action per game
  - Watch: reload when other players act

# CLI Flags

	-u            Server URL
	-g            Game id
	-t            Database type
	-d            Database URL
	--log-file    Log file
	--log-level   Log level
	--serialize   Serialize actions per game
	-w            Watch for updates

# Environment Variables

A .env file in the working directory is loaded first, if present. Flags
fall back to environment variables:

	PAYSHOFF_URL        → -u
	PAYSHOFF_GAME       → -g
	DATABASE_TYPE       → -t
	DATABASE_URL        → -d
	PAYSHOFF_LOG        → --log-file
	LOG_LEVEL           → --log-level
	PAYSHOFF_SERIALIZE  → --serialize

CLI flags take precedence over environment variables.
*/
package cliparse
