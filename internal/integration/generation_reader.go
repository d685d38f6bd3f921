package integration

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/abelzeko/powercut-bot/internal/entities"
	"github.com/rs/zerolog/log"
)

var reportedStations = []string{entities.StationKariba, entities.StationHwange, entities.StationIPPs}

// ManualGenerationReader reads operator-maintained generation figures from a text file.
// Lines look like "Kariba: 400MW".
type ManualGenerationReader struct {
	Path string
}

// NewManualGenerationReader creates a reader for path, defaulting to data/power_data.txt
func NewManualGenerationReader(path string) *ManualGenerationReader {
	if path == "" {
		path = filepath.Join("data", "power_data.txt")
	}
	return &ManualGenerationReader{Path: path}
}

// ReadGeneration returns the raw station values found in the file. A missing
// file is not an error and yields an empty report.
func (r *ManualGenerationReader) ReadGeneration() (entities.GenerationReport, error) {
	report := entities.GenerationReport{}

	f, err := os.Open(r.Path)
	if errors.Is(err, os.ErrNotExist) {
		log.Info().Str("path", r.Path).Msg("manual power data file not found")
		return report, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open manual power data: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		for _, station := range reportedStations {
			if !strings.Contains(line, station+":") {
				continue
			}
			parts := strings.Split(line, ":")
			report[station] = strings.TrimSpace(parts[1])
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read manual power data: %w", err)
	}

	return report, nil
}
