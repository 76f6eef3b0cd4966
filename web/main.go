package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/df07/go-ppm-raytracer/pkg/config"
	"github.com/df07/go-ppm-raytracer/web/server"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	// Parse command line flags
	configFile := pflag.String("config", "", "config file (default ./raytracer.yaml)")
	pflag.Int("port", 8080, "Port to serve on")
	pflag.Parse()

	v := viper.New()
	if err := v.BindPFlag("server.port", pflag.Lookup("port")); err != nil {
		log.Fatal().Err(err).Msg("Failed to bind flags")
	}

	cfg, err := config.Load(v, *configFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		log = log.Level(level)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	log.Info().Msgf("Visit http://localhost:%d/api/render to render the default scene", cfg.Server.Port)
	if err := server.NewServer(cfg, log).Start(ctx); err != nil {
		log.Error().Err(err).Msg("Error starting server")
		os.Exit(1)
	}
}
