package repositories

import (
	"context"
	"fmt"

	"personal-task-manager/config"
)

// Open connects to the store selected by cfg.StoreDriver.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.StoreDriver {
	case config.DriverSQLite:
		return NewSQLStore(ctx, DialectSQLite, cfg.DatabaseURL)
	case config.DriverPostgres:
		return NewSQLStore(ctx, DialectPostgres, cfg.DatabaseURL)
	case config.DriverMongo:
		return NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDBName)
	}
	return nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
}
