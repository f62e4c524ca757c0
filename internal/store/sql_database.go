package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/go-repo-sync/internal/config"
	"github.com/MKhiriev/go-repo-sync/internal/logger"
	"github.com/MKhiriev/go-repo-sync/migrations"
)

// ErrorClassificator maps driver errors to an [ErrorClassification].
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}

type DB struct {
	*sql.DB
	errorClassificator ErrorClassificator
	dialect            string
	logger             *logger.Logger
}

// NewConnect opens the database named by cfg.DSN. DSNs starting with
// postgres:// or postgresql:// use PostgreSQL, everything else is a SQLite
// file.
func NewConnect(ctx context.Context, cfg config.ClientDB, log *logger.Logger) (*DB, error) {
	if isPostgresDSN(cfg.DSN) {
		return NewConnectPostgres(ctx, cfg, log)
	}
	return NewConnectSQLite(ctx, cfg, log)
}

// driverSpec describes how to open and tune one database/sql driver.
type driverSpec struct {
	name         string
	dialect      string
	maxOpenConns int
	maxIdleConns int
	classifier   ErrorClassificator
}

func openDB(ctx context.Context, spec driverSpec, dsn string, log *logger.Logger) (*DB, error) {
	conn, err := sql.Open(spec.name, dsn)
	if err != nil {
		log.Err(err).Str("func", "openDB").Str("driver", spec.name).Msg("error opening database")
		return nil, fmt.Errorf("error opening connection to DB: %w", err)
	}
	conn.SetMaxOpenConns(spec.maxOpenConns)
	if spec.maxIdleConns > 0 {
		conn.SetMaxIdleConns(spec.maxIdleConns)
	}

	if err = conn.PingContext(ctx); err != nil {
		log.Err(err).Str("func", "openDB").Str("driver", spec.name).Msg("error connecting database (ping)")
		_ = conn.Close()
		return nil, err
	}
	log.Debug().Str("func", "openDB").Str("driver", spec.name).Msg("connected to database successfully")

	return &DB{
		DB:                 conn,
		errorClassificator: spec.classifier,
		dialect:            spec.dialect,
		logger:             log,
	}, nil
}

func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB, db.dialect)
}

func (db *DB) classify(err error) ErrorClassification {
	if db.errorClassificator == nil {
		return NonRetryable
	}
	return db.errorClassificator.Classify(err)
}

const (
	execAttempts = 3
	execBackoff  = 20 * time.Millisecond
)

// execRetrying runs a single statement, repeating it while the driver reports
// a [Retryable] failure.
func (db *DB) execRetrying(ctx context.Context, query string, args ...any) (sql.Result, error) {
	for attempt := 1; ; attempt++ {
		res, err := db.ExecContext(ctx, query, args...)
		if err == nil || attempt == execAttempts || db.classify(err) != Retryable {
			return res, err
		}

		db.logger.Warn().Err(err).Str("func", "DB.execRetrying").Int("attempt", attempt).Msg("retrying statement")
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempt) * execBackoff):
		}
	}
}

func isPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}
