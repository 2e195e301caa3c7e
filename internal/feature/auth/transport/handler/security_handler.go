package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/oapi-codegen/runtime"

	"nexusauth/internal/feature/auth/domain/entity"
	"nexusauth/internal/feature/auth/transport/http/dto"
	"nexusauth/internal/platform/jwt"
)

// SecurityUsecase defines the security report lookup.
type SecurityUsecase interface {
	Report(ctx context.Context, callerID, email string) (*entity.SecurityReport, error)
}

// SecurityHandler serves security reports.
type SecurityHandler struct {
	reports SecurityUsecase
}

// NewSecurityHandler creates a new SecurityHandler.
func NewSecurityHandler(reports SecurityUsecase) *SecurityHandler {
	return &SecurityHandler{reports: reports}
}

// GetReport handles GET /api/user/security/:email for the owner of the account.
func (h *SecurityHandler) GetReport(c *gin.Context) {
	callerID, ok := jwtmw.UserID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: jwtmw.MsgInvalid, Code: jwtmw.CodeInvalid})
		return
	}

	var email string
	if err := runtime.BindStyledParameterWithOptions("simple", "email", c.Param("email"), &email, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	}); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: msgInvalidRequest, Error: err.Error(), Code: CodeValidation})
		return
	}

	report, err := h.reports.Report(c.Request.Context(), callerID, email)
	if err != nil {
		status, body := errorResponse(err, "Security audit failed", false)
		slog.Warn("security report failed", "error", err, "status", status, "remote_addr", c.ClientIP())
		c.JSON(status, body)
		return
	}

	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, report)
}
