// Package di provides dependency injection factories for creating application components.
package di

import (
	"context"
	"fmt"

	authadapters "nexusauth/internal/feature/auth/adapters"
	"nexusauth/internal/feature/auth/adapters/mongodb"
	"nexusauth/internal/feature/auth/usecase"
	"nexusauth/internal/platform/config"
	"nexusauth/internal/platform/db"
	platmongo "nexusauth/internal/platform/mongo"
)

// CloseFunc releases a resource opened by a factory.
type CloseFunc func(ctx context.Context) error

// NewCredentialStore opens the configured backend and returns the store with its closer.
func NewCredentialStore(ctx context.Context, cfg config.Config) (usecase.CredentialStore, CloseFunc, error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres, config.DriverSQLite:
		gdb, err := db.Open(ctx, cfg.Store.Driver, cfg.Database, &authadapters.IdentityModel{})
		if err != nil {
			return nil, nil, err
		}
		closer := func(context.Context) error { return db.Close(gdb) }
		return authadapters.NewIdentityGorm(gdb), closer, nil

	case config.DriverMongo:
		client, err := platmongo.Connect(ctx, cfg.Mongo)
		if err != nil {
			return nil, nil, err
		}
		store := mongodb.NewIdentityStore(client.Database(cfg.Mongo.Database))
		if err := store.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, nil, fmt.Errorf("ensure indexes: %w", err)
		}
		return store, client.Disconnect, nil

	default:
		return nil, nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}
}
