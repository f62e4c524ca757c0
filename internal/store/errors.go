package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrRepositoryNotFound is returned when no repository has the requested id.
	ErrRepositoryNotFound = errors.New("repository was not found")

	// ErrRepositoryExists is returned when a repository with the same address
	// is already stored.
	ErrRepositoryExists = errors.New("repository already exists")

	// ErrTxDone is returned by IndexTx methods after Commit or Rollback.
	ErrTxDone = errors.New("index transaction already finished")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	ErrBuildingSQLQuery     = errors.New("error building sql query")
	ErrExecutingQuery       = errors.New("error executing sql query")
	ErrBeginningTransaction = errors.New("failed to begin transaction")
	ErrCommitingTransaction = errors.New("failed to commit transaction")
	ErrExecutingStatement   = errors.New("failed to executing statement")
	ErrScanningRow          = errors.New("failed to scan row")
	ErrScanningRows         = errors.New("failed to scan rows")

	// ErrEncoding is returned when a JSON column cannot be encoded or decoded.
	ErrEncoding = errors.New("failed to encode column")

	// ErrSealingCredentials is returned when a password cannot be sealed or
	// opened, usually after the credentials key changed.
	ErrSealingCredentials = errors.New("failed to seal credentials")
)
