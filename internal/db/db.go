package db

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"climate-server/internal/config"

	_ "github.com/mattn/go-sqlite3"
)

// Open returns the shared pool for the observation store. The pool is owned by
// the caller and handed to every component that reads from it.
func Open(cfg config.Config) (*sql.DB, error) {
	dsn, err := buildDSN(cfg)
	if err != nil {
		return nil, err
	}

	var conn *sql.DB
	if cfg.LogSQL {
		if cfg.Driver != "sqlite3" {
			return nil, fmt.Errorf("db: DB_LOG_SQL requires driver sqlite3, got %q", cfg.Driver)
		}
		connector, err := NewLoggingConnector(dsn, slog.Default())
		if err != nil {
			return nil, fmt.Errorf("db connector: %w", err)
		}
		conn = sql.OpenDB(connector)
	} else {
		conn, err = sql.Open(cfg.Driver, dsn)
		if err != nil {
			return nil, fmt.Errorf("db open: %w", err)
		}
	}

	if cfg.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns >= 0 {
		conn.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		conn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}

	return conn, nil
}

func Close(db *sql.DB) error {
	if db == nil {
		return nil
	}
	return db.Close()
}

func buildDSN(cfg config.Config) (string, error) {
	if cfg.DSN != "" {
		return cfg.DSN, nil
	}

	path := cfg.Path
	if path == "" {
		return "", fmt.Errorf("db: empty sqlite path")
	}

	// A read-only open of a missing file would otherwise surface as a
	// confusing "unable to open database file" on first query.
	if cfg.ReadOnly && !strings.HasPrefix(path, "file:") {
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("sqlite database %s: %w", path, err)
		}
	}

	params := []string{"_busy_timeout=5000"}
	if cfg.ReadOnly {
		params = append(params, "mode=ro", "_query_only=true")
	} else {
		params = append(params, "_foreign_keys=on", "_journal_mode=WAL")
	}

	if strings.HasPrefix(path, "file:") {
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		return path + sep + strings.Join(params, "&"), nil
	}

	return fmt.Sprintf("file:%s?%s", path, strings.Join(params, "&")), nil
}
