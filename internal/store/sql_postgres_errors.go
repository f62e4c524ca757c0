package store

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrorClassification tells the store what to do with a failed statement.
type ErrorClassification int

const (
	NonRetryable ErrorClassification = iota
	// Retryable failures are transient: a lost connection, a deadlock or a
	// serialization conflict, a locked SQLite file.
	Retryable
	// UniqueViolation means the row already exists, e.g. a second repository
	// with the same address.
	UniqueViolation
)

// PostgresErrorClassifier classifies pgx errors by SQLSTATE.
type PostgresErrorClassifier struct{}

func NewPostgresErrorClassifier() *PostgresErrorClassifier {
	return &PostgresErrorClassifier{}
}

func (c *PostgresErrorClassifier) Classify(err error) ErrorClassification {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return NonRetryable
	}
	return ClassifyPgError(pgErr)
}

// ClassifyPgError maps a SQLSTATE to an [ErrorClassification]. Connection
// exceptions (class 08), transaction rollbacks (class 40) and 57P03 are
// retryable, 23505 is a [UniqueViolation], everything else is final.
func ClassifyPgError(pgErr *pgconn.PgError) ErrorClassification {
	switch {
	case pgErr.Code == pgerrcode.UniqueViolation:
		return UniqueViolation
	case pgErr.Code == pgerrcode.CannotConnectNow:
		return Retryable
	case pgerrcode.IsConnectionException(pgErr.Code),
		pgerrcode.IsTransactionRollback(pgErr.Code):
		return Retryable
	default:
		return NonRetryable
	}
}
