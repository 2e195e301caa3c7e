package di

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	redisv9 "github.com/redis/go-redis/v9"

	"nexusauth/internal/app/router"
	authhandler "nexusauth/internal/feature/auth/transport/handler"
	"nexusauth/internal/feature/auth/usecase"
	"nexusauth/internal/platform/cache"
	"nexusauth/internal/platform/config"
	platformhandler "nexusauth/internal/platform/http/handler"
	"nexusauth/internal/platform/jwt"
	"nexusauth/internal/platform/metrics"
	platredis "nexusauth/internal/platform/redis"
)

// App holds the wired HTTP engine and the resources to release on shutdown.
type App struct {
	Engine  *gin.Engine
	Metrics *metrics.Metrics
	closers []CloseFunc
}

// Close releases every resource in reverse order of acquisition.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewReportSource returns the security report source, cached when rdb is set.
func NewReportSource(rdb *redisv9.Client, ttl time.Duration) usecase.ReportSource {
	if rdb == nil {
		return usecase.StaticReportSource{}
	}
	return cache.NewCachingReportSource(rdb, ttl, usecase.StaticReportSource{}, cache.DefaultReportNamespace)
}

// Build wires the application from cfg.
func Build(ctx context.Context, cfg config.Config, startedAt time.Time) (*App, error) {
	app := &App{}

	store, closeStore, err := NewCredentialStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.closers = append(app.closers, closeStore)

	// Redis is optional; the report cache is bypassed without it.
	rdb, err := platredis.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		slog.Warn("Redis unavailable. Running without cache.", "error", err)
		rdb = nil
	}
	if rdb != nil {
		app.closers = append(app.closers, func(context.Context) error { return rdb.Close() })
	}

	engine, m, err := NewEngine(cfg, store, NewReportSource(rdb, cfg.Redis.ReportTTL), startedAt)
	if err != nil {
		_ = app.Close(ctx)
		return nil, err
	}
	app.Engine = engine
	app.Metrics = m
	return app, nil
}

// NewEngine wires usecases, handlers and routes on top of an opened store.
func NewEngine(cfg config.Config, store usecase.CredentialStore, reports usecase.ReportSource, startedAt time.Time) (*gin.Engine, *metrics.Metrics, error) {
	generator, err := jwtmw.NewGenerator(cfg.JWT.Secret, cfg.JWT.TTL)
	if err != nil {
		return nil, nil, err
	}
	verifier, err := jwtmw.NewVerifier(cfg.JWT.Secret)
	if err != nil {
		return nil, nil, err
	}

	m := metrics.New()
	opts := []authhandler.Option{
		authhandler.WithRecorder(m),
		authhandler.WithUnifiedLoginErrors(cfg.Auth.UnifyLoginErrors),
	}

	authUC := usecase.NewAuthUsecase(store, generator, usecase.WithBcryptCost(cfg.Auth.BcryptCost))
	profileUC := usecase.NewProfileUsecase(store)
	securityUC := usecase.NewSecurityUsecase(store, reports)

	engine := router.NewRouter(router.Deps{
		Auth:        authhandler.NewAuthHandler(authUC, opts...),
		Profile:     authhandler.NewProfileHandler(profileUC, opts...),
		Security:    authhandler.NewSecurityHandler(securityUC),
		Health:      platformhandler.NewHealthHandler(store, startedAt),
		Verifier:    verifier,
		Metrics:     m,
		CORSOrigins: cfg.Server.CORSOrigins,
	})
	return engine, m, nil
}
