package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	apperrors "github.com/hitecare/carehome-api/pkg/errors"
)

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	db *sqlx.DB
}

// NewBaseRepository creates a new base repository
func NewBaseRepository(db *sqlx.DB) BaseRepository {
	return BaseRepository{db: db}
}

// GetDB returns the database instance
func (r *BaseRepository) GetDB() *sqlx.DB {
	return r.db
}

// WithTx executes a function within a transaction
func (r *BaseRepository) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return apperrors.NewStorage(err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

// pq error classes, see https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
	pqNotNullViolation    = "23502"
)

// checkAffected turns a zero-row update or delete into a not-found error.
func checkAffected(resource string, result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewStorage(err)
	}
	if affected == 0 {
		return apperrors.NewNotFound(resource)
	}
	return nil
}

// translate maps driver errors onto the application error taxonomy.
func translate(resource string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.NewNotFound(resource)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqUniqueViolation:
			return apperrors.NewConstraint(resource+" already exists", err)
		case pqForeignKeyViolation:
			return apperrors.NewConstraint(resource+" references a missing record", err)
		case pqNotNullViolation:
			return apperrors.NewConstraint(resource+" is missing a required field", err)
		}
	}
	return apperrors.NewStorage(err)
}
