package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/samber/oops"

	"nexusauth/internal/feature/auth/transport/http/dto"
	"nexusauth/internal/feature/auth/usecase"
)

// Machine-readable error codes.
const (
	CodeValidation            = "VALIDATION_ERROR"
	CodeDuplicateEmail        = "DUPLICATE_EMAIL"
	CodeAccountNotFound       = "ACCOUNT_NOT_FOUND"
	CodeInvalidCredentials    = "INVALID_CREDENTIALS"
	CodeForbidden             = "FORBIDDEN"
	CodeNotFound              = "NOT_FOUND"
	CodeStoreUnavailable      = "STORE_UNAVAILABLE"
	CodeStorePermissionDenied = "STORE_PERMISSION_DENIED"
	CodeInternal              = "INTERNAL"
)

const (
	msgInvalidRequest   = "Invalid request"
	msgUnifiedLogin     = "Invalid email or password"
	msgStoreUnavailable = "Database Link Broken"
	msgStorePermission  = "Permission Denied"
)

// errorResponse maps a usecase error to a status and body. Unexpected errors
// get the fallback message and never expose their text.
func errorResponse(err error, fallback string, unifyLogin bool) (int, dto.ErrorResponse) {
	switch {
	case errors.Is(err, usecase.ErrValidation):
		return http.StatusBadRequest, dto.ErrorResponse{Message: msgInvalidRequest, Error: err.Error(), Code: CodeValidation}
	case errors.Is(err, usecase.ErrDuplicateEmail):
		return http.StatusBadRequest, dto.ErrorResponse{Message: "This email is already registered.", Code: CodeDuplicateEmail}
	case unifyLogin && (errors.Is(err, usecase.ErrAccountNotFound) || errors.Is(err, usecase.ErrInvalidCredentials)):
		return http.StatusBadRequest, dto.ErrorResponse{Message: msgUnifiedLogin, Code: CodeInvalidCredentials}
	case errors.Is(err, usecase.ErrAccountNotFound):
		return http.StatusBadRequest, dto.ErrorResponse{Message: "Account not found", Code: CodeAccountNotFound}
	case errors.Is(err, usecase.ErrInvalidCredentials):
		return http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid password provided", Code: CodeInvalidCredentials}
	case errors.Is(err, usecase.ErrForbidden):
		return http.StatusForbidden, dto.ErrorResponse{Message: "Forbidden", Code: CodeForbidden}
	case errors.Is(err, usecase.ErrIdentityNotFound):
		return http.StatusNotFound, dto.ErrorResponse{Message: "Not found", Code: CodeNotFound}
	case errors.Is(err, usecase.ErrStorePermissionDenied):
		return http.StatusForbidden, dto.ErrorResponse{Message: msgStorePermission, Error: operatorHint(err), Code: CodeStorePermissionDenied}
	case errors.Is(err, usecase.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, dto.ErrorResponse{Message: msgStoreUnavailable, Error: operatorHint(err), Code: CodeStoreUnavailable}
	default:
		return http.StatusInternalServerError, dto.ErrorResponse{Message: fallback, Code: CodeInternal}
	}
}

// operatorHint returns the remediation hint attached by the storage adapter.
func operatorHint(err error) string {
	if oe, ok := oops.AsOops(err); ok && oe.Hint() != "" {
		return oe.Hint()
	}
	return ""
}

// outcome converts an error code into a metrics label.
func outcome(code string) string {
	return strings.ToLower(code)
}

// writeError logs the failure, records the attempt and writes the response.
func writeError(c *gin.Context, o *options, operation, fallback string, err error) {
	status, body := errorResponse(err, fallback, o.unifyLoginErrors)
	if status >= http.StatusInternalServerError {
		slog.Error(operation+" failed", "error", err, "status", status, "remote_addr", c.ClientIP())
	} else {
		slog.Warn(operation+" failed", "error", err, "status", status, "remote_addr", c.ClientIP())
	}
	o.recorder.RecordAuthAttempt(operation, outcome(body.Code))
	c.JSON(status, body)
}

// writeBindError reports a request body that failed binding.
func writeBindError(c *gin.Context, o *options, operation string, err error) {
	slog.Warn(operation+" validation failed", "error", err, "remote_addr", c.ClientIP())
	o.recorder.RecordAuthAttempt(operation, outcome(CodeValidation))
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: msgInvalidRequest, Error: err.Error(), Code: CodeValidation})
}
