package adapters

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"github.com/samber/oops"
	"gorm.io/gorm"

	"nexusauth/internal/feature/auth/usecase"
)

const (
	permissionHint  = "the database role lacks the privileges for this operation; grant read/write on the users table"
	unavailableHint = "the database cannot be reached; check the DSN host, network access and that the server is running"
)

// classifyError maps driver and GORM errors onto the usecase error taxonomy.
// The returned error always matches the corresponding sentinel with errors.Is.
func classifyError(op string, err error) error {
	if err == nil {
		return nil
	}
	b := oops.In("credential_store").With("operation", op)

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return b.Code("IDENTITY_NOT_FOUND").Wrap(usecase.ErrIdentityNotFound)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return b.Code("DUPLICATE_EMAIL").Wrap(usecase.ErrDuplicateEmail)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		b = b.With("sqlstate", pgErr.Code)
		switch {
		case pgErr.Code == pgerrcode.UniqueViolation:
			return b.Code("DUPLICATE_EMAIL").Wrap(usecase.ErrDuplicateEmail)
		case pgErr.Code == pgerrcode.InsufficientPrivilege,
			pgErr.Code == pgerrcode.InvalidPassword,
			pgErr.Code == pgerrcode.InvalidAuthorizationSpecification:
			return b.Code("STORE_PERMISSION_DENIED").Hint(permissionHint).
				Wrapf(usecase.ErrStorePermissionDenied, "%s", pgErr.Message)
		case pgerrcode.IsConnectionException(pgErr.Code),
			pgErr.Code == pgerrcode.CannotConnectNow,
			pgErr.Code == pgerrcode.AdminShutdown,
			pgErr.Code == pgerrcode.TooManyConnections:
			return b.Code("STORE_UNAVAILABLE").Hint(unavailableHint).
				Wrapf(usecase.ErrStoreUnavailable, "%s", pgErr.Message)
		}
		return b.Code("STORE_ERROR").Wrap(err)
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		b = b.With("sqlite_code", int(sqliteErr.Code))
		switch sqliteErr.Code {
		case sqlite3.ErrConstraint:
			if sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
				return b.Code("DUPLICATE_EMAIL").Wrap(usecase.ErrDuplicateEmail)
			}
		case sqlite3.ErrReadonly, sqlite3.ErrPerm, sqlite3.ErrAuth:
			return b.Code("STORE_PERMISSION_DENIED").Hint(permissionHint).
				Wrapf(usecase.ErrStorePermissionDenied, "%s", sqliteErr.Error())
		case sqlite3.ErrCantOpen, sqlite3.ErrBusy, sqlite3.ErrLocked:
			return b.Code("STORE_UNAVAILABLE").Hint(unavailableHint).
				Wrapf(usecase.ErrStoreUnavailable, "%s", sqliteErr.Error())
		}
		return b.Code("STORE_ERROR").Wrap(err)
	}

	if isUnavailable(err) {
		return b.Code("STORE_UNAVAILABLE").Hint(unavailableHint).
			Wrapf(usecase.ErrStoreUnavailable, "%s", err.Error())
	}
	return b.Code("STORE_ERROR").Wrap(err)
}

// pingError reports every failed ping as unavailable unless the store
// explicitly rejected our credentials.
func pingError(err error) error {
	classified := classifyError("ping", err)
	if errors.Is(classified, usecase.ErrStorePermissionDenied) || errors.Is(classified, usecase.ErrStoreUnavailable) {
		return classified
	}
	return oops.In("credential_store").With("operation", "ping").Code("STORE_UNAVAILABLE").
		Hint(unavailableHint).Wrapf(usecase.ErrStoreUnavailable, "%s", err.Error())
}

func isUnavailable(err error) bool {
	var connErr *pgconn.ConnectError
	var netErr net.Error
	switch {
	case errors.As(err, &connErr),
		errors.As(err, &netErr),
		errors.Is(err, driver.ErrBadConn),
		errors.Is(err, sql.ErrConnDone),
		errors.Is(err, context.DeadlineExceeded):
		return true
	}
	return false
}
