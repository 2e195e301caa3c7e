package mongodb

import (
	"context"
	"errors"
	"strings"

	"github.com/samber/oops"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"nexusauth/internal/feature/auth/usecase"
)

// MongoDB server error codes for authorization failures.
const (
	codeUnauthorized         = 13
	codeAuthenticationFailed = 18
	codeAtlasBadAuth         = 8000
)

const (
	permissionHint  = "the database user lacks read/write permissions; grant readWrite on the target database"
	unavailableHint = "the cluster cannot be reached; check the URI host, network access list and that the server is running"
)

// classifyError maps driver errors onto the usecase error taxonomy.
func classifyError(op string, err error) error {
	if err == nil {
		return nil
	}
	b := oops.In("credential_store").With("operation", op).With("backend", "mongodb")

	if errors.Is(err, mongo.ErrNoDocuments) {
		return b.Code("IDENTITY_NOT_FOUND").Wrap(usecase.ErrIdentityNotFound)
	}
	if mongo.IsDuplicateKeyError(err) {
		return b.Code("DUPLICATE_EMAIL").Wrap(usecase.ErrDuplicateEmail)
	}
	if isPermissionDenied(err) {
		return b.Code("STORE_PERMISSION_DENIED").Hint(permissionHint).
			Wrapf(usecase.ErrStorePermissionDenied, "%s", err.Error())
	}
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) ||
		errors.Is(err, mongo.ErrClientDisconnected) || errors.Is(err, context.DeadlineExceeded) {
		return b.Code("STORE_UNAVAILABLE").Hint(unavailableHint).
			Wrapf(usecase.ErrStoreUnavailable, "%s", err.Error())
	}
	return b.Code("STORE_ERROR").Wrap(err)
}

func isPermissionDenied(err error) bool {
	var se mongo.ServerError
	if errors.As(err, &se) {
		if se.HasErrorCode(codeUnauthorized) || se.HasErrorCode(codeAuthenticationFailed) || se.HasErrorCode(codeAtlasBadAuth) {
			return true
		}
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "bad auth") || strings.Contains(msg, "authentication failed")
}

// pingError reports every failed ping as unavailable unless the server
// explicitly rejected our credentials.
func pingError(err error) error {
	classified := classifyError("ping", err)
	if errors.Is(classified, usecase.ErrStorePermissionDenied) || errors.Is(classified, usecase.ErrStoreUnavailable) {
		return classified
	}
	return oops.In("credential_store").With("operation", "ping").With("backend", "mongodb").
		Code("STORE_UNAVAILABLE").Hint(unavailableHint).
		Wrapf(usecase.ErrStoreUnavailable, "%s", err.Error())
}
