package usecases

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/abelzeko/powercut-bot/internal/entities"
)

// ParseGenerationFigures converts raw station values such as "400MW" to
// megawatts. Stations missing from the report count as 0 MW.
func ParseGenerationFigures(report entities.GenerationReport) (entities.GenerationFigures, error) {
	var figures entities.GenerationFigures
	targets := []struct {
		station string
		value   *int
	}{
		{entities.StationKariba, &figures.Kariba},
		{entities.StationHwange, &figures.Hwange},
		{entities.StationIPPs, &figures.IPPs},
	}

	for _, target := range targets {
		raw, ok := report[target.station]
		if !ok {
			continue
		}
		value := strings.TrimSpace(strings.ReplaceAll(raw, "MW", ""))
		mw, err := strconv.Atoi(value)
		if err != nil {
			return entities.GenerationFigures{}, fmt.Errorf("invalid %s generation %q: %w", target.station, raw, err)
		}
		if mw < 0 {
			return entities.GenerationFigures{}, fmt.Errorf("negative %s generation %q", target.station, raw)
		}
		*target.value = mw
	}
	return figures, nil
}
