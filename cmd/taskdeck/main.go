package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/taskdeck-dev/taskdeck/db"
	"github.com/taskdeck-dev/taskdeck/internal/auth"
	"github.com/taskdeck-dev/taskdeck/internal/config"
	"github.com/taskdeck-dev/taskdeck/internal/logger"
	"github.com/taskdeck-dev/taskdeck/internal/router"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	cfg, err := config.Load()

	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Environment); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if err := auth.Init(cfg.JWTSecret); err != nil {
		logger.Log.Fatal("failed to initialize auth", zap.Error(err))
	}

	database, err := db.Connect(cfg.DatabaseURL)

	if err != nil {
		logger.Log.Fatal("failed to connect to database", zap.Error(err))
	}

	if err := db.Migrate(database); err != nil {
		logger.Log.Fatal("failed to migrate database", zap.Error(err))
	}

	r := router.New(database, cfg.AllowedOrigins)

	logger.Log.Info("starting server", zap.String("port", cfg.Port))

	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Log.Fatal("server stopped", zap.Error(err))
	}
}
