package store

import (
	"context"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/MKhiriev/go-repo-sync/internal/config"
	"github.com/MKhiriev/go-repo-sync/internal/logger"
	"github.com/MKhiriev/go-repo-sync/migrations"
)

var postgresDriver = driverSpec{
	name:         "pgx",
	dialect:      migrations.DialectPostgres,
	maxOpenConns: 10,
	maxIdleConns: 4,
	classifier:   NewPostgresErrorClassifier(),
}

func NewConnectPostgres(ctx context.Context, cfg config.ClientDB, log *logger.Logger) (*DB, error) {
	return openDB(ctx, postgresDriver, cfg.DSN, log)
}
