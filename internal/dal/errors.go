package dal

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/shrestaRongali/wexa-wexa-backend/internal/apperr"
)

const (
	codeNotNull    = "23502"
	codeForeignKey = "23503"
	codeUnique     = "23505"
	codeCheck      = "23514"
	codeTooLong    = "22001"
)

// translate turns constraint violations into a validation error with one
// entry per offending field. Anything else is wrapped unchanged.
func translate(t Table, op string, err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return fmt.Errorf("%s %s: %w", op, t.Name, err)
	}

	var fe apperr.FieldError
	switch pgErr.Code {
	case codeUnique:
		field := t.field(pgErr.ConstraintName)
		fe = apperr.FieldError{Field: field, Message: field + " must be unique"}
	case codeNotNull:
		fe = apperr.FieldError{Field: pgErr.ColumnName, Message: pgErr.ColumnName + " cannot be null"}
	case codeCheck:
		field := t.field(pgErr.ConstraintName)
		fe = apperr.FieldError{Field: field, Message: field + " is invalid"}
	case codeForeignKey:
		field := t.field(pgErr.ConstraintName)
		fe = apperr.FieldError{Field: field, Message: field + " does not reference an existing record"}
	case codeTooLong:
		fe = apperr.FieldError{Field: pgErr.ColumnName, Message: "value too long"}
	default:
		return fmt.Errorf("%s %s: %w", op, t.Name, err)
	}

	verr := apperr.Validation(fe)
	verr.Err = err
	return verr
}

func (t Table) field(constraint string) string {
	if f, ok := t.Constraints[constraint]; ok {
		return f
	}
	name := strings.TrimPrefix(constraint, t.Name+"_")
	for _, suffix := range []string{"_fkey", "_key", "_check"} {
		if strings.HasSuffix(name, suffix) {
			return strings.TrimSuffix(name, suffix)
		}
	}
	return name
}
