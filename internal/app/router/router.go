// Package router defines the HTTP routes of the service.
package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	authhandler "nexusauth/internal/feature/auth/transport/handler"
	platformhandler "nexusauth/internal/platform/http/handler"
	"nexusauth/internal/platform/jwt"
	"nexusauth/internal/platform/metrics"
)

// Deps carries everything the router mounts.
type Deps struct {
	Auth     *authhandler.AuthHandler
	Profile  *authhandler.ProfileHandler
	Security *authhandler.SecurityHandler
	Health   *platformhandler.HealthHandler
	Verifier jwtmw.TokenVerifier
	Metrics  *metrics.Metrics

	// CORSOrigins enables CORS for the listed origins when non-empty.
	CORSOrigins []string
}

// NewRouter builds the gin engine.
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), d.Metrics.Middleware())

	if len(d.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:  d.CORSOrigins,
			AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodHead, http.MethodOptions},
			AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders: []string{"Content-Length"},
			MaxAge:        12 * time.Hour,
		}))
	}

	r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))

	api := r.Group("/api")

	// Public routes.
	api.GET("/health", d.Health.Health)
	api.HEAD("/health", d.Health.Health)
	api.OPTIONS("/health", d.Health.Health)
	api.POST("/auth/register", d.Auth.Register)
	api.POST("/auth/login", d.Auth.Login)

	// Routes that require a bearer token.
	user := api.Group("/user")
	user.Use(jwtmw.AuthRequired(d.Verifier))
	{
		user.PUT("/profile", d.Profile.UpdateProfile)
		user.GET("/security/:email", d.Security.GetReport)
	}

	return r
}
