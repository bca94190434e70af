package main

import (
	"github.com/garasindo/wms/internal/config"
	"github.com/garasindo/wms/internal/database"
	"github.com/garasindo/wms/internal/logger"
	"github.com/garasindo/wms/internal/router"
	"github.com/garasindo/wms/internal/scheduler"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()

	// Reconfigure the default logger from config
	level := logger.ParseLogLevel(cfg.Log.Level)
	if cfg.Log.Output == "file" {
		l, err := logger.NewWithFileRotation(level, cfg.Log.File)
		if err != nil {
			logger.Fatal("Failed to initialize file logger: %v", err)
		}
		logger.SetDefaultLogger(l)
	} else if l, err := logger.New(level); err == nil {
		logger.SetDefaultLogger(l)
	}
	defer logger.Sync()

	db, err := database.Init(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database: %v", err)
	}

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := router.Setup(db, cfg)

	manager := scheduler.Start(db, cfg)
	defer manager.Stop()

	logger.Info("Server starting on port %s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		logger.Fatal("Failed to start server: %v", err)
	}
}
