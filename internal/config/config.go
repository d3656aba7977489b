package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	HTTPAddr     string
	LogLevel     zapcore.Level
	LogFormat    string // "json" or "console"
	DBDriver     string // "sqlite3", "pgx", or "" to disable the results archive
	DBDSN        string
	StaticDir    string
	SeatCapacity int // Default seats for open games created over websocket
}

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first if present.
func Load() (Config, error) {
	c := Config{
		HTTPAddr:  envOr("HTTP_ADDR", ":8080"),
		LogFormat: strings.ToLower(envOr("LOG_FORMAT", "json")),
		DBDriver:  envOr("DB_DRIVER", "sqlite3"),
		DBDSN:     envOr("DB_DSN", "./briscola.db"),
		StaticDir: envOr("STATIC_DIR", "web/static"),
	}
	if c.DBDriver == "none" {
		c.DBDriver = ""
	}

	if err := c.LogLevel.UnmarshalText([]byte(envOr("LOG_LEVEL", "info"))); err != nil {
		return Config{}, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	if c.LogFormat != "json" && c.LogFormat != "console" {
		return Config{}, fmt.Errorf("invalid LOG_FORMAT %q", c.LogFormat)
	}

	seats, err := strconv.Atoi(envOr("SEAT_CAPACITY", "4"))
	if err != nil || (seats != 2 && seats != 4) {
		return Config{}, fmt.Errorf("invalid SEAT_CAPACITY %q: must be 2 or 4", os.Getenv("SEAT_CAPACITY"))
	}
	c.SeatCapacity = seats

	return c, nil
}

// NewLogger builds the process logger.
func (c Config) NewLogger() (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if c.LogFormat == "console" {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(c.LogLevel)
	return zc.Build()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
