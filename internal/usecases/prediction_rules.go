package usecases

import (
	"github.com/abelzeko/powercut-bot/internal/entities"
	"github.com/rs/zerolog/log"
)

// Grid reference figures used by the generation rules.
const (
	DemandBaselineMW    = 1900.0
	InstalledCapacityMW = 2800.0
)

// Lake level tiers in meters, most severe first.
var waterLevelLadder = []struct {
	below float64
	hours float64
}{
	{below: 476.0, hours: 17},
	{below: 477.0, hours: 14},
	{below: 478.0, hours: 10},
}

type effectKind int

const (
	effectNone effectKind = iota
	effectSet
	effectAdd
)

// effect is what a rule does to the running prediction. An empty reason
// leaves the current reason in place.
type effect struct {
	kind   effectKind
	hours  float64
	reason string
}

func noEffect() effect                             { return effect{kind: effectNone} }
func setHours(hours float64, reason string) effect { return effect{kind: effectSet, hours: hours, reason: reason} }
func addHours(hours float64, reason string) effect { return effect{kind: effectAdd, hours: hours, reason: reason} }

type rule struct {
	name     string
	evaluate func(current float64) effect
}

// applyRules runs rules in order. Each rule sees the hours left by the
// previous one and the last rule to set a reason wins.
func applyRules(p entities.Prediction, rules []rule) entities.Prediction {
	for _, r := range rules {
		e := r.evaluate(p.PredictedHours)
		switch e.kind {
		case effectNone:
			continue
		case effectSet:
			p.PredictedHours = e.hours
		case effectAdd:
			p.PredictedHours += e.hours
		}
		if e.reason != "" {
			p.Reason = e.reason
		}
		log.Debug().Str("rule", r.name).Float64("hours", p.PredictedHours).Str("reason", p.Reason).Msg("rule fired")
	}
	return p
}

func waterLevelRules(level float64) []rule {
	return []rule{
		{
			name: "water level ladder",
			evaluate: func(float64) effect {
				for _, tier := range waterLevelLadder {
					if level < tier.below {
						return setHours(tier.hours, entities.ReasonLowWaterLevel)
					}
				}
				return noEffect()
			},
		},
	}
}

func generationRules(figures entities.GenerationFigures) []rule {
	total := float64(figures.Total())
	hydro := figures.Kariba

	return []rule{
		{
			name: "total generation against demand",
			evaluate: func(current float64) effect {
				switch {
				case total < DemandBaselineMW*0.70:
					return addHours(4, entities.ReasonInsufficientGeneration)
				case total < DemandBaselineMW*0.85:
					return addHours(2, entities.ReasonInsufficientGeneration)
				case total > InstalledCapacityMW*0.90:
					if current-1 < 0 {
						return setHours(0, entities.ReasonNormalSupply)
					}
					return addHours(-1, "")
				}
				return noEffect()
			},
		},
		{
			name: "hydro station output",
			evaluate: func(float64) effect {
				switch {
				case hydro < 450:
					return addHours(1, entities.ReasonLowHydroOutput)
				case hydro < 500:
					return addHours(0.5, entities.ReasonReducedHydroOutput)
				}
				return noEffect()
			},
		},
	}
}
