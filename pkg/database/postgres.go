package database

import (
	"context"
	"fmt"
	"time"

	"go-catalog-api/internal/config"
	"go-catalog-api/internal/model"
	"go-catalog-api/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// ConnectDB opens the configured database, applies the pool settings and
// installs the given GORM plugins.
func ConnectDB(cfg config.DatabaseConfig, log *zap.Logger, plugins ...gorm.Plugin) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger: logger.NewSQLLogger(log, logger.SQLConfig{
			Level:         cfg.LogLevel,
			SlowThreshold: cfg.SlowThreshold,
			Fields:        actorFields,
		}),
		PrepareStmt:    false, // Disables GORM-level prepared statements
		TranslateError: true,
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.URL)
	default:
		dialector = postgres.New(postgres.Config{
			DSN:                  cfg.DSN(),
			PreferSimpleProtocol: true, // Disables implicit prepared statements for pgbouncer transaction mode
		})
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	for _, p := range plugins {
		if err := db.Use(p); err != nil {
			return nil, fmt.Errorf("failed to register plugin %s: %w", p.Name(), err)
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	lifetime := cfg.ConnMaxLifetime
	if lifetime == 0 {
		lifetime = time.Hour
	}
	sqlDB.SetConnMaxLifetime(lifetime)

	log.Info("Database connection established", zap.String("driver", db.Dialector.Name()))
	return db, nil
}

// actorFields tags statements with the user recorded in the audit columns.
func actorFields(ctx context.Context) []zap.Field {
	return []zap.Field{zap.Uint("actor_id", model.ActorFrom(ctx))}
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
