package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/abelzeko/powercut-bot/internal/app"
	"github.com/abelzeko/powercut-bot/internal/config"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// lakeLevelFetcher is the part of the store the scheduled job drives
type lakeLevelFetcher interface {
	FetchLatest(ctx context.Context) error
	Trend(windowDays int) float64
}

// refreshLakeLevel fetches today's level and logs the resulting trend
func refreshLakeLevel(ctx context.Context, levels lakeLevelFetcher, trendWindow int) error {
	if err := levels.FetchLatest(ctx); err != nil {
		return err
	}
	log.Info().
		Int("window_days", trendWindow).
		Float64("trend", levels.Trend(trendWindow)).
		Msg("lake level refreshed")
	return nil
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	log.Info().Msg("starting lake level scraper")

	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	application, err := app.New()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize application")
	}
	defer application.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Run immediately on startup
	if err := refreshLakeLevel(ctx, application.Levels, application.TrendWindow); err != nil {
		log.Warn().Err(err).Msg("initial lake level refresh failed")
	}

	c := cron.New()
	_, err = c.AddFunc(config.FetchSchedule(), func() {
		if err := refreshLakeLevel(ctx, application.Levels, application.TrendWindow); err != nil {
			log.Warn().Err(err).Msg("scheduled lake level refresh failed")
		}
	})
	if err != nil {
		log.Fatal().Err(err).Str("schedule", config.FetchSchedule()).Msg("failed to set up cron job")
	}

	log.Info().Str("schedule", config.FetchSchedule()).Msg("scraper has been scheduled")
	c.Start()

	<-ctx.Done()
	<-c.Stop().Done()
	log.Info().Msg("scraper stopped")
}
