package jwtmw

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ContextUserID is the gin context key holding the authenticated identity id.
const ContextUserID = "userID"

const bearerPrefix = "Bearer "

// Messages returned to clients by AuthRequired.
const (
	MsgMissingHeader = "Missing Authorization Header"
	MsgMalformed     = "Malformed Token"
	MsgInvalid       = "Invalid or Expired token"
)

// Machine-readable codes returned alongside the messages.
const (
	CodeMissing   = "TOKEN_MISSING"
	CodeMalformed = "TOKEN_MALFORMED"
	CodeInvalid   = "TOKEN_INVALID"
)

// TokenVerifier validates a raw token and returns its subject.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// AuthRequired returns a Gin middleware function that validates JWT tokens
// and restricts access to authenticated users only.
func AuthRequired(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" {
			abort(c, MsgMissingHeader, CodeMissing)
			return
		}
		if !strings.HasPrefix(auth, bearerPrefix) {
			abort(c, MsgMalformed, CodeMalformed)
			return
		}
		tokenStr := strings.TrimSpace(strings.TrimPrefix(auth, bearerPrefix))
		if tokenStr == "" {
			abort(c, MsgMalformed, CodeMalformed)
			return
		}

		sub, err := verifier.Verify(tokenStr)
		if err != nil {
			slog.Warn("token rejected", "error", err, "remote_addr", c.ClientIP())
			if errors.Is(err, ErrMalformedToken) {
				abort(c, MsgMalformed, CodeMalformed)
				return
			}
			abort(c, MsgInvalid, CodeInvalid)
			return
		}

		c.Set(ContextUserID, sub)
		c.Next()
	}
}

// UserID returns the identity id stored by AuthRequired.
func UserID(c *gin.Context) (string, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}

func abort(c *gin.Context, message, code string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": message, "code": code})
}
