package core

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of *pgxpool.Pool the services depend on.
// pgxmock.PgxPoolIface satisfies it in unit tests.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// querier is satisfied by both DB and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgreSQL SQLSTATE codes the core reacts to.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgNotNullViolation    = "23502"
	pgInvalidText         = "22P02"
	pgNumericOutOfRange   = "22003"
	pgTooManyConnections  = "53300"
	pgAdminShutdown       = "57P01"
	pgCannotConnectNow    = "57P03"
)

// classifyStorageError classifies a storage failure. Constraint violations become
// caller errors; connectivity failures become StorageUnavailable; anything
// else is Internal. Already classified errors pass through unchanged.
func classifyStorageError(err error, action string) error {
	if err == nil {
		return nil
	}

	var ce *Error
	if errors.As(err, &ce) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return WrapError(KindDuplicateKey, err, "failed to %s: duplicate key", action)
		case pgForeignKeyViolation:
			return WrapError(KindReferenceNotFound, err, "failed to %s: referenced record does not exist", action)
		case pgCheckViolation, pgNotNullViolation, pgInvalidText, pgNumericOutOfRange:
			return WrapError(KindInvalidInput, err, "failed to %s: %s", action, pgErr.Message)
		case pgTooManyConnections, pgAdminShutdown, pgCannotConnectNow:
			return WrapError(KindStorageUnavailable, err, "failed to %s: storage unavailable", action)
		}
		if strings.HasPrefix(pgErr.Code, "08") {
			return WrapError(KindStorageUnavailable, err, "failed to %s: storage unavailable", action)
		}
		return WrapError(KindInternal, err, "failed to %s", action)
	}

	if isUnavailable(err) {
		return WrapError(KindStorageUnavailable, err, "failed to %s: storage unavailable", action)
	}
	return WrapError(KindInternal, err, "failed to %s", action)
}

func isUnavailable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || pgconn.Timeout(err) {
		return true
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return pgconn.SafeToRetry(err)
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation
}
