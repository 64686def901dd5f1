package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/iho/gobilling/internal/domain"
)

// PostgreSQL error codes.
const (
	pgErrUniqueViolation      = "23505"
	pgErrForeignKeyViolation  = "23503"
	pgErrCheckViolation       = "23514"
	pgErrDeadlock             = "40P01"
	pgErrSerializationFailure = "40001"
)

const ownerUniqueConstraint = "accounts_owner_id_key"

// mapError translates driver errors into domain errors. notFound replaces
// pgx.ErrNoRows when non-nil.
func mapError(err error, notFound error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) && notFound != nil {
		return notFound
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgErrUniqueViolation:
		if pgErr.ConstraintName == ownerUniqueConstraint {
			return domain.ErrOwnerHasAccount
		}
		return fmt.Errorf("%w: %s", domain.ErrValidation, pgErr.Message)
	case pgErrForeignKeyViolation:
		switch {
		case strings.HasSuffix(pgErr.ConstraintName, "_account_id_fkey"):
			return domain.ErrAccountNotFound
		case strings.HasSuffix(pgErr.ConstraintName, "_invoice_id_fkey"):
			return domain.ErrInvoiceNotFound
		}
		return fmt.Errorf("%w: %s", domain.ErrValidation, pgErr.Message)
	case pgErrCheckViolation:
		return fmt.Errorf("%w: %s", domain.ErrValidation, pgErr.Message)
	case pgErrDeadlock, pgErrSerializationFailure:
		return fmt.Errorf("%w: %w", domain.ErrConcurrentModification, err)
	}

	return err
}
