package implementations

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"

	"github.com/api-sage/timelock-savings/src/internal/logger"
)

// Every write serializes on one advisory lock, so a handful of
// connections covers the writer plus concurrent readers.
const (
	maxOpenConns    = 16
	maxIdleConns    = 8
	connMaxIdleTime = 5 * time.Minute
	connMaxLifetime = 15 * time.Minute
)

func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open postgres connection")
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "ping postgres")
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxIdleTime(connMaxIdleTime)
	db.SetConnMaxLifetime(connMaxLifetime)

	logger.Info("postgres connection ready", logger.Fields{
		"maxOpenConns": maxOpenConns,
	})
	return db, nil
}
