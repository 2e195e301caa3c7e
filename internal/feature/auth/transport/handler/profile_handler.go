package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"nexusauth/internal/feature/auth/domain/entity"
	"nexusauth/internal/feature/auth/transport/http/dto"
	"nexusauth/internal/feature/auth/usecase"
	"nexusauth/internal/platform/jwt"
	"nexusauth/internal/platform/metrics"
)

// ProfileUsecase defines the profile mutation operation.
type ProfileUsecase interface {
	UpdateProfile(ctx context.Context, callerID, targetID string, changes usecase.ProfileChanges) (*entity.Profile, error)
}

// ProfileHandler handles profile updates for authenticated callers.
type ProfileHandler struct {
	profiles ProfileUsecase
	opts     *options
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profiles ProfileUsecase, opts ...Option) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, opts: buildOptions(opts)}
}

// UpdateProfile handles PUT /api/user/profile. It must run behind jwtmw.AuthRequired.
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	const op = "update_profile"

	callerID, ok := jwtmw.UserID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: jwtmw.MsgInvalid, Code: jwtmw.CodeInvalid})
		return
	}

	var req dto.UpdateProfileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, h.opts, op, err)
		return
	}

	profile, err := h.profiles.UpdateProfile(c.Request.Context(), callerID, req.ID, usecase.ProfileChanges{
		Name: req.Name,
		Bio:  req.Bio,
	})
	if err != nil {
		writeError(c, h.opts, op, "Database update failed", err)
		return
	}

	h.opts.recorder.RecordAuthAttempt(op, metrics.OutcomeSuccess)
	c.JSON(http.StatusOK, dto.NewUserResponse(*profile))
}
