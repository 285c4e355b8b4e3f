package db

import (
  "errors"
  "github.com/jackc/pgx/v5/pgconn"
  "gorm.io/gorm"
  "github.com/qfeed/qfeed-backend/internal/apierr"
)

const (
  pgUniqueViolation     = "23505"
  pgForeignKeyViolation = "23503"
)

// TranslateError maps storage-layer failures onto the domain error
// taxonomy. Constraint violations become conflicts, missing rows and
// broken references become not-found, everything else stays internal.
func TranslateError(err error, code string) error {
  if err == nil {
    return nil
  }
  if errors.Is(err, gorm.ErrRecordNotFound) {
    return apierr.NotFound(code, err)
  }
  if errors.Is(err, gorm.ErrDuplicatedKey) {
    return apierr.Conflict(code, err)
  }
  if errors.Is(err, gorm.ErrForeignKeyViolated) {
    return apierr.NotFound(code, err)
  }
  var pgErr *pgconn.PgError
  if errors.As(err, &pgErr) {
    switch pgErr.Code {
    case pgUniqueViolation:
      return apierr.Conflict(code, err)
    case pgForeignKeyViolation:
      return apierr.NotFound(code, err)
    }
  }
  return apierr.Internal(code, err)
}

// IsDuplicate reports whether err is a uniqueness-constraint violation.
func IsDuplicate(err error) bool {
  if errors.Is(err, gorm.ErrDuplicatedKey) {
    return true
  }
  var pgErr *pgconn.PgError
  return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
