package api

import (
	"context"
	"time"

	"github.com/abelzeko/powercut-bot/internal/entities"
)

type fakePredictor struct {
	locations []string
}

func (p *fakePredictor) PredictOutageHours(_ context.Context, location string) entities.Prediction {
	p.locations = append(p.locations, location)
	return entities.Prediction{PredictedHours: 9, Reason: entities.ReasonLowHydroOutput}
}

type fakeLevels struct {
	sample entities.WaterLevelSample
	ok     bool
	trend  float64
}

func (l fakeLevels) Latest(context.Context) (entities.WaterLevelSample, bool) { return l.sample, l.ok }
func (l fakeLevels) Trend(int) float64                                        { return l.trend }

type fakeLocations []string

func (l fakeLocations) Locations() []string { return l }

func newTestServices() (*Services, *fakePredictor) {
	predictor := &fakePredictor{}
	return &Services{
		Predictions: predictor,
		Levels: fakeLevels{
			sample: entities.WaterLevelSample{Date: time.Date(2024, time.May, 2, 0, 0, 0, 0, time.UTC), Level: 476.3, PercentFull: 9.8},
			ok:     true,
			trend:  -0.05,
		},
		Locations:   fakeLocations{"bulawayo", "harare"},
		TrendWindow: 7,
	}, predictor
}
