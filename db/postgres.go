package db

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	_ "github.com/lib/pq"
)

var DB *sql.DB

const defaultMaxConns = 25

func Connect() error {
	connStr := os.Getenv("DATABASE_URL")
	if connStr == "" {
		slog.Warn("DATABASE_URL environment variable is not set")
	}

	var err error
	DB, err = sql.Open("postgres", connStr)
	if err != nil {
		return fmt.Errorf("open postgres: %w", err)
	}

	maxConns := poolSize()
	DB.SetMaxOpenConns(maxConns)
	DB.SetMaxIdleConns(maxConns)
	DB.SetConnMaxLifetime(5 * time.Minute)

	if err := DB.Ping(); err != nil {
		return fmt.Errorf("ping postgres: %w", err)
	}
	return nil
}

// poolSize reads DB_MAX_CONNS, keeping the default on absence or garbage.
func poolSize() int {
	raw := os.Getenv("DB_MAX_CONNS")
	if raw == "" {
		return defaultMaxConns
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		slog.Warn("invalid DB_MAX_CONNS, using default", "value", raw)
		return defaultMaxConns
	}
	return n
}

func Close() {
	if DB != nil {
		DB.Close()
	}
}
