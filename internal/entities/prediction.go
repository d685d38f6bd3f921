package entities

// Reasons attached to a prediction by the rule engine.
const (
	ReasonUnknown                = "unknown"
	ReasonLowWaterLevel          = "low water level"
	ReasonInsufficientGeneration = "insufficient generation"
	ReasonNormalSupply           = "normal supply"
	ReasonLowHydroOutput         = "low hydro output"
	ReasonReducedHydroOutput     = "reduced hydro output"
	ReasonCalculationError       = "calculation error"
)

// BaselineHours is the prediction before any rule adjusts it
const BaselineHours = 6.0

// Prediction is the expected outage duration for a location and its dominant cause
type Prediction struct {
	PredictedHours float64 `json:"predictedHours"`
	Reason         string  `json:"reason"`
}

// BaselinePrediction returns the default prediction with the given reason
func BaselinePrediction(reason string) Prediction {
	return Prediction{PredictedHours: BaselineHours, Reason: reason}
}
