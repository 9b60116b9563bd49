package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"cajalibro/internal/core/apperror"
)

// PostgreSQL error codes the ledger core translates into its own taxonomy.
const (
	pgCodeUniqueViolation     = "23505"
	pgCodeForeignKeyViolation = "23503"
	pgCodeCheckViolation      = "23514"
)

// TranslateError maps store-level errors to the application error taxonomy.
// Foreign-key violations become user-facing 400s (a movement referenced a
// missing account/category/provider), uniqueness violations become 409s.
// The store's error text is never the primary message; it travels as cause.
func TranslateError(err error, entity string) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgCodeForeignKeyViolation:
		return apperror.NewReferentialIntegrity("referenced record does not exist").
			WithDetail("entity", entity).
			WithDetail("constraint", pgErr.ConstraintName).
			WithCause(err)
	case pgCodeUniqueViolation:
		return apperror.NewConflict("record already exists").
			WithDetail("entity", entity).
			WithDetail("constraint", pgErr.ConstraintName).
			WithCause(err)
	case pgCodeCheckViolation:
		return apperror.NewValidation("record violates a database constraint").
			WithDetail("entity", entity).
			WithDetail("constraint", pgErr.ConstraintName).
			WithCause(err)
	default:
		return err
	}
}
