package main

import (
	"github.com/SeakMengs/MarsAI/internal/config"
	"github.com/SeakMengs/MarsAI/internal/database"
	"github.com/SeakMengs/MarsAI/internal/env"
	"github.com/SeakMengs/MarsAI/internal/util"
)

func init() {
	env.LoadEnv(".env")
}

func main() {
	cfg := config.GetConfig()
	logger := util.NewLogger(cfg.ENV)
	defer logger.Sync()

	logger.Infof("Database configuration: driver=%s host=%s db=%s", cfg.DB.DB_DRIVER, cfg.DB.DB_HOST, cfg.DB.DB_DATABASE)

	db, err := database.ConnectReturnGormDB(cfg.DB)
	if err != nil {
		logger.Panic(err)
	}

	if err := database.AutoMigrate(db); err != nil {
		logger.Panic(err)
	}

	logger.Info("Migration completed")
}
