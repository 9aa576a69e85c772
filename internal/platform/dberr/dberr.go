// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr classifies pgx and PostgreSQL errors into [apperr] values so
// repositories never leak SQL details to clients.
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/techhub/internal/platform/apperr"
)

/*
Wrap classifies err for resource. action names the failed operation in the logged cause.

	pgx.ErrNoRows                        NOT_FOUND
	already an AppError                  unchanged
	unique_violation                     CONFLICT
	foreign_key_violation                NOT_FOUND (the referenced row is gone)
	check_violation, restrict_violation  INTERNAL_ERROR (a write the code should never attempt)
	anything else                        PERSISTENCE_FAILED, retryable
*/
func Wrap(err error, resource, action string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(resource)
	}
	if apperr.IsAppError(err) {
		return err
	}

	cause := fmt.Errorf("%s: %w", action, err)

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return apperr.PersistenceFailed(cause)
	}

	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		return apperr.Conflict(resource + " already exists")
	case pgerrcode.ForeignKeyViolation:
		return apperr.NotFound(resource)
	case pgerrcode.CheckViolation, pgerrcode.RestrictViolation:
		return apperr.Internal(cause)
	default:
		return apperr.PersistenceFailed(cause)
	}
}
