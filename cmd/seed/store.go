package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/octofit/tracker/seed/internal/config"
	"github.com/octofit/tracker/seed/internal/database"
	"github.com/octofit/tracker/seed/internal/fixture"
	"github.com/octofit/tracker/seed/internal/store/memstore"
	"github.com/octofit/tracker/seed/internal/store/mongostore"
	"github.com/octofit/tracker/seed/internal/store/ormstore"
	"github.com/octofit/tracker/seed/internal/store/surreal"
)

const mongoConnectTimeout = 10 * time.Second

// openStore connects the configured backend. The returned func releases it.
func openStore(ctx context.Context, cfg *config.Config) (fixture.Store, func(), error) {
	switch cfg.Loader.Backend {
	case config.BackendSurreal:
		db := database.NewSurrealDB(database.Config{
			Host:      cfg.Database.Host,
			Port:      cfg.Database.Port,
			User:      cfg.Database.User,
			Password:  cfg.Database.Password,
			Namespace: cfg.Database.Namespace,
			Database:  cfg.Database.Database,
		})
		if err := db.Connect(ctx); err != nil {
			return nil, nil, err
		}
		slog.Info("connected to database",
			slog.String("host", cfg.Database.Host),
			slog.String("database", cfg.Database.Database),
		)
		return surreal.New(db), func() { _ = db.Close() }, nil

	case config.BackendMongo:
		s, err := mongostore.Connect(ctx, mongostore.Config{
			URI:            cfg.Mongo.URI,
			Database:       cfg.Mongo.Database,
			ConnectTimeout: mongoConnectTimeout,
		})
		if err != nil {
			return nil, nil, err
		}
		slog.Info("connected to database", slog.String("database", cfg.Mongo.Database))
		return s, func() { _ = s.Close(context.Background()) }, nil

	case config.BackendORM:
		s, err := ormstore.Open(ormstore.Config{DSN: cfg.ORM.DSN, LogLevel: cfg.ORM.LogLevel})
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil

	case config.BackendMemory:
		return memstore.New(), func() {}, nil
	}
	return nil, nil, fmt.Errorf("unknown backend %q", cfg.Loader.Backend)
}
