package main

import (
	"os"

	"github.com/nazmulfx/Study-Buddy/internal/config"
	"github.com/nazmulfx/Study-Buddy/internal/database"
	"github.com/nazmulfx/Study-Buddy/internal/logger"
	"github.com/nazmulfx/Study-Buddy/internal/server"

	_ "github.com/nazmulfx/Study-Buddy/docs"

	"github.com/rs/zerolog/log"
)

// @title           Study Buddy API
// @version         1.0
// @description     Study-group forum: rooms, topics, messages and profiles
// @host            localhost:8080
// @BasePath        /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter "Bearer {token}"

func main() {
	cfg := config.Load()
	logger.Init(cfg.Env)

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("database connect")
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("database migrate")
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		log.Fatal().Err(err).Str("dir", cfg.UploadDir).Msg("create upload dir")
	}

	r := server.SetupRouter(cfg, db)
	log.Info().Str("port", cfg.ServerPort).Msg("server starting")
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		log.Fatal().Err(err).Msg("server run")
	}
}
