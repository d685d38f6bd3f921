package usecases

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/abelzeko/powercut-bot/internal/entities"
	"github.com/rs/zerolog/log"
)

// OutageReport is what a user submits when reporting an outage
type OutageReport struct {
	Location string `json:"location"`
	Details  string `json:"details,omitempty"`
}

// OutageReportResult is returned to the user after a report
type OutageReportResult struct {
	Message        string       `json:"message"`
	Prediction     string       `json:"prediction"`
	PredictedHours float64      `json:"predictedHours"`
	Reason         string       `json:"reason"`
	UserData       OutageReport `json:"user_data"`
}

// Predictor produces a prediction for a location
type Predictor interface {
	PredictOutageHours(ctx context.Context, location string) entities.Prediction
}

// HandleOutageReport runs a prediction for the reported location. A panic in
// the predictor is turned into the baseline calculation-error prediction.
func HandleOutageReport(ctx context.Context, predictor Predictor, report OutageReport) (result OutageReportResult) {
	report.Location = strings.TrimSpace(report.Location)

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("location", report.Location).Msg("prediction failed")
			fallback := entities.BaselinePrediction(entities.ReasonCalculationError)
			result = OutageReportResult{
				Message:        "Outage report received, but prediction failed.",
				Prediction:     "Could not calculate prediction.",
				PredictedHours: fallback.PredictedHours,
				Reason:         fallback.Reason,
				UserData:       report,
			}
		}
	}()

	log.Info().Str("location", report.Location).Str("details", report.Details).Msg("outage report received")
	prediction := predictor.PredictOutageHours(ctx, report.Location)
	return OutageReportResult{
		Message:        "Outage report received!",
		Prediction:     FormatPrediction(report.Location, prediction),
		PredictedHours: prediction.PredictedHours,
		Reason:         prediction.Reason,
		UserData:       report,
	}
}

// FormatPrediction renders a prediction as a one-line summary
func FormatPrediction(location string, p entities.Prediction) string {
	return fmt.Sprintf("Estimated outage duration in %s: %s hours. Reason: %s", location, formatHours(p.PredictedHours), p.Reason)
}

// FormatAlert renders a prediction as an alert message for subscribers
func FormatAlert(location string, p entities.Prediction) string {
	return fmt.Sprintf("Alert: Power outage expected for %s hours today in %s due to %s. Prepare backup power.",
		formatHours(p.PredictedHours), location, p.Reason)
}

// FormatWaterLevel summarises the latest lake level and its trend
func FormatWaterLevel(sample entities.WaterLevelSample, trend float64, windowDays int) string {
	var result strings.Builder
	result.WriteString("Lake Kariba water level:\n\n")
	result.WriteString(fmt.Sprintf("💧 Level: %.2f m\n", sample.Level))
	result.WriteString(fmt.Sprintf("📊 Usable storage: %.2f %%\n", sample.PercentFull))
	result.WriteString(fmt.Sprintf("📈 Trend: %+.3f m/day over %d days\n", trend, windowDays))
	result.WriteString(fmt.Sprintf("🕒 Date: %s", sample.Date.Format("2006-01-02")))
	return result.String()
}

func formatHours(hours float64) string {
	return strconv.FormatFloat(hours, 'f', -1, 64)
}
