package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const driverName = "pgx"

var ErrEmptyURL = errors.New("catalog: postgres url is required")

// OpenSQL is swapped in tests.
var OpenSQL = sql.Open

// Open connects to the Postgres database holding the countries table and
// checks it with a ping.
func Open(ctx context.Context, cfg Config) (*sql.DB, error) {
	url := strings.TrimSpace(cfg.URL)
	if url == "" {
		return nil, ErrEmptyURL
	}

	db, err := OpenSQL(driverName, url)
	if err != nil {
		return nil, fmt.Errorf("catalog: open: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if cfg.ConnMaxIdleTime > 0 {
		db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("catalog: ping: %w", err)
	}
	return db, nil
}
