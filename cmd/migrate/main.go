package main

import (
	"context"
	"flag"
	"time"

	"github.com/jhoicas/inventario-bot/internal/migrate"
	"github.com/jhoicas/inventario-bot/pkg/config"
	"github.com/jhoicas/inventario-bot/pkg/logger"
)

func main() {
	command := flag.String("command", "up", "comando goose: up, down, status, version")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Config{Env: "development"}).Fatal().Err(err).Msg("cargar configuración")
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component("migrate")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := migrate.Run(ctx, cfg.DB.ConnectionString(), *command, flag.Args()...); err != nil {
		log.Fatal().Err(err).Str("command", *command).Msg("migración fallida")
	}
	log.Info().Str("command", *command).Msg("migraciones aplicadas")
}
