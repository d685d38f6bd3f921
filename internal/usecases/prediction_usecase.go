package usecases

import (
	"context"
	"fmt"

	"github.com/abelzeko/powercut-bot/internal/entities"
	"github.com/rs/zerolog/log"
)

// LevelProvider returns the most recent reservoir sample, if any
type LevelProvider interface {
	Latest(ctx context.Context) (entities.WaterLevelSample, bool)
}

// GenerationSource returns raw per-station generation values
type GenerationSource interface {
	ReadGeneration() (entities.GenerationReport, error)
}

// FaultDirectory returns a known fault for a location
type FaultDirectory interface {
	Lookup(location string) (string, bool)
}

// PredictionUseCase estimates outage duration from the lake level, the
// generation figures and known location faults
type PredictionUseCase struct {
	levels     LevelProvider
	generation GenerationSource
	faults     FaultDirectory
}

// NewPredictionUseCase creates a new prediction use case
func NewPredictionUseCase(levels LevelProvider, generation GenerationSource, faults FaultDirectory) *PredictionUseCase {
	return &PredictionUseCase{
		levels:     levels,
		generation: generation,
		faults:     faults,
	}
}

// PredictOutageHours returns the expected outage hours for location and the
// dominant reason. It never fails: errors degrade the prediction instead.
func (uc *PredictionUseCase) PredictOutageHours(ctx context.Context, location string) entities.Prediction {
	prediction := entities.BaselinePrediction(entities.ReasonUnknown)

	if sample, ok := uc.levels.Latest(ctx); ok {
		prediction = applyRules(prediction, waterLevelRules(sample.Level))
	} else {
		log.Warn().Msg("no lake level data available")
	}

	figures, err := uc.generationFigures()
	if err != nil {
		// Deliberately drops any lake level adjustment made above.
		log.Error().Err(err).Msg("error calculating total generation")
		prediction = entities.BaselinePrediction(entities.ReasonCalculationError)
	} else {
		log.Debug().
			Int("kariba", figures.Kariba).
			Int("hwange", figures.Hwange).
			Int("ipps", figures.IPPs).
			Int("total", figures.Total()).
			Msg("total generation")
		prediction = applyRules(prediction, generationRules(figures))
	}

	if fault, ok := uc.faults.Lookup(location); ok {
		log.Info().Str("location", location).Str("fault", fault).Msg("fault information found for location")
		prediction.Reason = fault
	}

	log.Info().
		Str("location", location).
		Float64("hours", prediction.PredictedHours).
		Str("reason", prediction.Reason).
		Msg("predicted outage hours")
	return prediction
}

func (uc *PredictionUseCase) generationFigures() (figures entities.GenerationFigures, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("generation source panicked: %v", r)
		}
	}()

	report, err := uc.generation.ReadGeneration()
	if err != nil {
		return entities.GenerationFigures{}, fmt.Errorf("failed to read generation data: %w", err)
	}
	return ParseGenerationFigures(report)
}
