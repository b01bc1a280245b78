package main

import (
	"fmt"

	"go-catalog-api/internal/config"
	"go-catalog-api/internal/constraint"
	"go-catalog-api/pkg/database"
	"go-catalog-api/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// env is what every command needs: configuration, a logger and a database.
type env struct {
	cfg *config.Config
	log *zap.Logger
	db  *gorm.DB
}

func openEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log, err := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: "stderr"})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	db, err := database.ConnectDB(cfg.Database, log, constraint.Plugin{})
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, log: log, db: db}, nil
}

func (e *env) close() {
	_ = database.Close(e.db)
	_ = e.log.Sync()
}
