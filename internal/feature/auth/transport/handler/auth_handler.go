// Package handler provides the HTTP handlers of the auth feature.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"nexusauth/internal/feature/auth/transport/http/dto"
	"nexusauth/internal/feature/auth/usecase"
	"nexusauth/internal/platform/metrics"
)

// AuthUsecase defines the usecase for authentication operations.
// Following Go convention, the interface is defined by the consumer (handler), not the provider (usecase).
type AuthUsecase interface {
	// Register creates an identity and returns it with a session token.
	Register(ctx context.Context, name, email, password string) (*usecase.AuthResult, error)
	// Login authenticates an identity and returns it with a session token.
	Login(ctx context.Context, email, password string) (*usecase.AuthResult, error)
}

// AuthHandler handles HTTP requests for registration and login.
type AuthHandler struct {
	auth AuthUsecase
	opts *options
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth AuthUsecase, opts ...Option) *AuthHandler {
	return &AuthHandler{auth: auth, opts: buildOptions(opts)}
}

// Register handles POST /api/auth/register.
//   - 400 when a field is missing or the email is already registered
//   - 403/503 when the credential store rejects or cannot be reached
//   - 201 with the token and public profile on success
func (h *AuthHandler) Register(c *gin.Context) {
	const op = "register"

	var req dto.RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, h.opts, op, err)
		return
	}

	res, err := h.auth.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeError(c, h.opts, op, "Registration failure", err)
		return
	}

	h.opts.recorder.RecordAuthAttempt(op, metrics.OutcomeSuccess)
	slog.Info("user registered", "user_id", res.User.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, dto.AuthResponse{Token: res.Token, User: dto.NewUserResponse(res.User)})
}

// Login handles POST /api/auth/login.
//   - 400 when a field is missing, the account does not exist or the password is wrong
//   - 200 with the token and public profile on success
func (h *AuthHandler) Login(c *gin.Context) {
	const op = "login"

	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, h.opts, op, err)
		return
	}

	res, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, h.opts, op, "Login processing error", err)
		return
	}

	h.opts.recorder.RecordAuthAttempt(op, metrics.OutcomeSuccess)
	slog.Info("user login successful", "user_id", res.User.ID, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, dto.AuthResponse{Token: res.Token, User: dto.NewUserResponse(res.User)})
}
