// Package api provides handlers for external APIs and interfaces
package api

import (
	"context"

	"github.com/abelzeko/powercut-bot/internal/app"
	"github.com/abelzeko/powercut-bot/internal/entities"
	"github.com/abelzeko/powercut-bot/internal/usecases"
)

// LevelReader exposes the lake level series to the presentation layer
type LevelReader interface {
	Latest(ctx context.Context) (entities.WaterLevelSample, bool)
	Trend(windowDays int) float64
}

// LocationLister lists the locations the directory knows about
type LocationLister interface {
	Locations() []string
}

// Services bundles what the handlers need
type Services struct {
	Predictions usecases.Predictor
	Levels      LevelReader
	Locations   LocationLister
	TrendWindow int
}

// NewServices exposes the application components to the handlers
func NewServices(a *app.App) *Services {
	return &Services{
		Predictions: a.Predictions,
		Levels:      a.Levels,
		Locations:   a.Locations,
		TrendWindow: a.TrendWindow,
	}
}
