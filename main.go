package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"
	"gopkg.in/natefinch/lumberjack.v2"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/payshoff/client"
	"github.com/danielhkuo/payshoff/cliparse"
	"github.com/danielhkuo/payshoff/console"
	"github.com/danielhkuo/payshoff/db"
	"github.com/danielhkuo/payshoff/dispatch"
	"github.com/danielhkuo/payshoff/watch"
)

func main() {
	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	// The terminal belongs to the shell, logs go to a rotated file
	logFile := &lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     30, // days
		Compress:   true,
	}
	defer logFile.Close()

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: level})))

	if err := run(cfg); err != nil {
		slog.Error("exiting", "error", err)
		os.Stderr.WriteString("payshoff: " + err.Error() + "\n")
		os.Exit(1)
	}
}

func run(cfg cliparse.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Session store
	driver, err := db.DriverName(cfg.DatabaseType)
	if err != nil {
		return err
	}
	dbConn, err := sql.Open(driver, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	if err := dbConn.PingContext(ctx); err != nil {
		return err
	}
	if err := db.CreateSchema(dbConn); err != nil {
		return err
	}
	slog.Info("Session store ready", "type", cfg.DatabaseType)

	// Client
	c, err := client.New(cfg.BaseURL, db.NewSessionStore(dbConn))
	if err != nil {
		return err
	}
	if err := c.RestoreSession(ctx); err != nil {
		slog.Warn("stored session unusable, starting fresh", "error", err)
	}

	gameID := cfg.GameID
	if gameID == "" {
		gameID, err = c.CreateGame(ctx)
		if err != nil {
			return err
		}
	}

	term := console.NewTerminal(os.Stdin, os.Stdout)
	shell := console.NewShell(c, term, gameID, dispatch.Options{SerializePerGame: cfg.Serialize})
	if err := shell.Reload(ctx); err != nil {
		return err
	}
	term.Printf("share %s\n", c.BaseURL()+client.GamePath(shell.GameID()))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	if cfg.Watch {
		watcher := watch.New(c, shell)
		g.Go(func() error {
			err := watcher.Run(gctx, shell)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}

	// Reading stdin cannot be interrupted, so the shell runs outside the group
	done := make(chan error, 1)
	go func() {
		done <- shell.Loop(gctx)
	}()

	select {
	case err = <-done:
	case <-gctx.Done():
	}
	cancel()

	if werr := g.Wait(); werr != nil && err == nil {
		err = werr
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
