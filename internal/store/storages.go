package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-repo-sync/internal/config"
	"github.com/MKhiriev/go-repo-sync/internal/crypto"
	"github.com/MKhiriev/go-repo-sync/internal/logger"
)

// Storages groups the repositories the service layer works with.
type Storages struct {
	Repositories RepositoryStore
	Packages     PackageStore

	db *DB
}

// NewStorages connects to the database named in cfg, applies pending
// migrations and wires the repositories.
func NewStorages(ctx context.Context, cfg config.ClientStorage, log *logger.Logger) (*Storages, error) {
	log.Info().Msg("creating new storages...")

	credentials, err := crypto.NewCredentialSealer(cfg.CredentialsKey)
	if err != nil {
		return nil, fmt.Errorf("credentials sealer: %w", err)
	}

	db, err := NewConnect(ctx, cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("database connection error: %w", err)
	}

	if err = db.Migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return NewStoragesFromDB(db, credentials, log), nil
}

// NewStoragesFromDB wires the repositories on an open connection.
func NewStoragesFromDB(db *DB, credentials crypto.CredentialSealer, log *logger.Logger) *Storages {
	return &Storages{
		Repositories: NewRepositoryStore(db, credentials, log),
		Packages:     NewPackageStore(db, log),
		db:           db,
	}
}

// Close releases the database connection.
func (s *Storages) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
