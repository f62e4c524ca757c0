package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/MKhiriev/go-repo-sync/internal/config"
	"github.com/MKhiriev/go-repo-sync/internal/logger"
	"github.com/MKhiriev/go-repo-sync/migrations"
)

var sqliteDriver = driverSpec{
	name:    "sqlite3",
	dialect: migrations.DialectSQLite,
	// a single writer; readers queue behind open index transactions
	maxOpenConns: 1,
	classifier:   NewSQLiteErrorClassifier(),
}

func NewConnectSQLite(ctx context.Context, cfg config.ClientDB, log *logger.Logger) (*DB, error) {
	if err := createLocalDBDirIfNotExists(sqlitePath(cfg.DSN)); err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error creating database directory")
		return nil, err
	}
	return openDB(ctx, sqliteDriver, cfg.DSN, log)
}

// sqlitePath extracts the file path from a DSN such as
// "file:repo-sync.db?_foreign_keys=on".
func sqlitePath(dsn string) string {
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	return path
}

func createLocalDBDirIfNotExists(dbFile string) error {
	dir := filepath.Dir(dbFile)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("error creating DB dir: %w", err)
	}
	return nil
}
