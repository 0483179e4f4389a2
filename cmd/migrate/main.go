package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"devlog-backend/internal/config"
	"devlog-backend/internal/infrastructure/database"
	"devlog-backend/pkg/logger"
)

func main() {
	command := flag.String("command", "up", "migrate command (up|status|down)")
	timeout := flag.Duration("timeout", time.Minute, "command timeout")
	target := flag.Int64("target", 0, "target version for down command (optional)")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	logger.Init(cfg.App.Environment, cfg.App.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	migrator, err := database.NewMigrator(cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to configure migration runner")
	}

	switch *command {
	case "up":
		err = migrator.Up(ctx)
	case "status":
		err = migrator.Status(ctx)
	case "down":
		err = migrator.Down(ctx, *target)
	default:
		log.Error().Str("command", *command).Msg("Unsupported command")
		os.Exit(1)
	}
	if err != nil {
		log.Fatal().Err(err).Str("command", *command).Msg("Migration command failed")
	}

	log.Info().Str("command", *command).Msg("Migration command completed")
}
