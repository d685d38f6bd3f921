package main

import (
	"github.com/abelzeko/powercut-bot/internal/api"
	"github.com/abelzeko/powercut-bot/internal/app"
	"github.com/abelzeko/powercut-bot/internal/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	application, err := app.New()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize application")
	}
	defer application.Close()

	srv := api.NewHTTPServer(api.NewServices(application))

	addr := config.APIAddr()
	log.Info().Str("addr", addr).Msg("api listening")
	if err := srv.Listen(addr); err != nil {
		log.Error().Err(err).Msg("server exit")
	}
}
