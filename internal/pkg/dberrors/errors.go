package dberrors

import (
	"database/sql"
	"errors"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"

	"github.com/yigit/studentrecords/internal/pkg/apperrors"
)

// PostgreSQL SQLSTATE codes for integrity violations.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgNotNullViolation    = "23502"
)

var pgKeyDetail = regexp.MustCompile(`Key \(([^)]+)\)`)

// Translate maps a driver error raised during op onto the application
// error taxonomy. Integrity violations become duplicate key, reference or
// validation errors; anything else becomes a storage error.
func Translate(op string, err error) error {
	if err == nil {
		return nil
	}
	var ce *apperrors.CustomError
	if errors.As(err, &ce) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return apperrors.NewDuplicateKeyError(pgField(pgErr), err)
		case pgForeignKeyViolation:
			return apperrors.NewReferenceError(pgField(pgErr), err)
		case pgCheckViolation:
			return apperrors.NewValidationError(apperrors.FieldError{Field: pgField(pgErr), Error: "violates " + pgErr.ConstraintName})
		case pgNotNullViolation:
			return apperrors.NewValidationError(apperrors.FieldError{Field: pgErr.ColumnName, Error: "this field is required"})
		}
		return apperrors.NewStorageError(op, err)
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) && liteErr.Code == sqlite3.ErrConstraint {
		switch liteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return apperrors.NewDuplicateKeyError(sqliteField(liteErr), err)
		case sqlite3.ErrConstraintForeignKey:
			return apperrors.NewReferenceError("", err)
		case sqlite3.ErrConstraintCheck:
			return apperrors.NewValidationError(apperrors.FieldError{Field: sqliteField(liteErr), Error: "violates check constraint"})
		case sqlite3.ErrConstraintNotNull:
			return apperrors.NewValidationError(apperrors.FieldError{Field: sqliteField(liteErr), Error: "this field is required"})
		}
	}

	return apperrors.NewStorageError(op, err)
}

// IsNoRows reports whether err signals an empty single row result.
func IsNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func pgField(pgErr *pgconn.PgError) string {
	if pgErr.ColumnName != "" {
		return pgErr.ColumnName
	}
	if m := pgKeyDetail.FindStringSubmatch(pgErr.Detail); m != nil {
		return m[1]
	}
	return pgErr.ConstraintName
}

// sqliteField extracts the column from messages such as
// "UNIQUE constraint failed: students.roll_number".
func sqliteField(liteErr sqlite3.Error) string {
	msg := liteErr.Error()
	idx := strings.LastIndex(msg, ": ")
	if idx < 0 {
		return ""
	}
	target := strings.TrimSpace(msg[idx+2:])
	if sp := strings.IndexAny(target, " ("); sp >= 0 {
		target = target[:sp]
	}
	if comma := strings.Index(target, ","); comma >= 0 {
		target = target[:comma]
	}
	if dot := strings.LastIndex(target, "."); dot >= 0 {
		target = target[dot+1:]
	}
	return target
}
