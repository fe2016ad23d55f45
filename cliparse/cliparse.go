package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	BaseURL      string
	GameID       string
	DatabaseURL  string
	DatabaseType string
	LogFile      string
	LogLevel     string
	Serialize    bool
	Watch        bool
}

// ParseFlags reads .env, then flags, then falls back to the environment
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	// A missing .env is fine
	_ = godotenv.Load()

	fs := flag.NewFlagSet("payshoff", flag.ContinueOnError)

	// Server
	fs.StringVar(&cfg.BaseURL, "u", "", "Server URL")
	fs.StringVar(&cfg.GameID, "g", "", "Game id (empty creates a new game)")

	// Session storage
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	// Logging
	fs.StringVar(&cfg.LogFile, "log-file", "", "Log file")
	fs.StringVar(&cfg.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")

	// Behaviour
	fs.BoolVar(&cfg.Serialize, "serialize", false, "Send one action per game at a time")
	fs.BoolVar(&cfg.Watch, "w", false, "Reload when other players act")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.BaseURL == "" {
		cfg.BaseURL = os.Getenv("PAYSHOFF_URL")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:5000"
	}

	if cfg.GameID == "" {
		cfg.GameID = os.Getenv("PAYSHOFF_GAME")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, errors.New("database type must be sqlite or postgres")
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		if cfg.DatabaseType == "postgres" {
			return Config{}, errors.New("database URL required for postgres (use -d or DATABASE_URL env)")
		}
		cfg.DatabaseURL = "file:payshoff.db"
	}

	if cfg.LogFile == "" {
		cfg.LogFile = os.Getenv("PAYSHOFF_LOG")
		if cfg.LogFile == "" {
			cfg.LogFile = "payshoff.log"
		}
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = os.Getenv("LOG_LEVEL")
		if cfg.LogLevel == "" {
			cfg.LogLevel = "info"
		}
	}

	if !cfg.Serialize {
		if v := os.Getenv("PAYSHOFF_SERIALIZE"); v != "" {
			serialize, err := strconv.ParseBool(v)
			if err != nil {
				return Config{}, errors.New("invalid PAYSHOFF_SERIALIZE env variable")
			}
			cfg.Serialize = serialize
		}
	}

	return cfg, nil
}
