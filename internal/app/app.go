// Package app wires repositories, integrations and use cases from configuration
package app

import (
	"fmt"

	"github.com/abelzeko/powercut-bot/internal/config"
	"github.com/abelzeko/powercut-bot/internal/integration"
	"github.com/abelzeko/powercut-bot/internal/repository"
	"github.com/abelzeko/powercut-bot/internal/usecases"
	"github.com/rs/zerolog/log"
)

// App holds the long-lived components shared by the binaries
type App struct {
	Repo        repository.WaterLevelRepository
	Levels      *usecases.WaterLevelStore
	Locations   *repository.LocationDirectory
	Predictions *usecases.PredictionUseCase
	TrendWindow int
}

// New builds the application from the loaded configuration and loads the persisted series
func New() (*App, error) {
	repo, err := OpenWaterLevelRepository(config.SeriesBackend())
	if err != nil {
		return nil, err
	}

	scraper := integration.NewKaribaScraper(config.KaribaSourceURL(), config.FetchTimeout())
	levels := usecases.NewWaterLevelStore(repo, scraper, nil)
	if err := levels.Load(); err != nil {
		repo.Close()
		return nil, err
	}

	locations, err := repository.LoadLocationDirectory(config.LocationsFile())
	if err != nil {
		repo.Close()
		return nil, err
	}

	generation := integration.NewManualGenerationReader(config.GenerationFile())

	return &App{
		Repo:        repo,
		Levels:      levels,
		Locations:   locations,
		Predictions: usecases.NewPredictionUseCase(levels, generation, locations),
		TrendWindow: config.TrendWindowDays(),
	}, nil
}

// OpenWaterLevelRepository opens the series storage for the named backend
func OpenWaterLevelRepository(backend string) (repository.WaterLevelRepository, error) {
	log.Info().Str("backend", backend).Msg("opening water level storage")
	switch backend {
	case "", "csv":
		return repository.NewCSVWaterLevelRepository(config.SeriesFile())
	case "sqlite":
		return repository.NewSQLiteWaterLevelRepository(config.DBDSN())
	case "postgres":
		if config.DBDSN() == "" {
			return nil, fmt.Errorf("DB_DSN must be set for the postgres backend")
		}
		return repository.NewPostgresWaterLevelRepository(config.DBDSN())
	default:
		return nil, fmt.Errorf("unknown series backend %q", backend)
	}
}

// Close releases the storage
func (a *App) Close() error {
	return a.Repo.Close()
}
