package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/abelzeko/powercut-bot/internal/api"
	"github.com/abelzeko/powercut-bot/internal/app"
	"github.com/abelzeko/powercut-bot/internal/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	log.Info().Msg("starting power cut bot")

	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	token := config.TelegramBotToken()
	if token == "" {
		log.Fatal().Msg("TELEGRAM_BOT_TOKEN environment variable is not set")
	}

	application, err := app.New()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize application")
	}
	defer application.Close()

	telegramBot, err := api.NewTelegramBot(token, api.NewServices(application))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telegram bot")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	telegramBot.Start(ctx)
	log.Info().Msg("bot stopped")
}
